package layout

// Template is a reusable element tree stored in a resource store. Content
// controls referencing the same key share one *Template.
type Template struct {
	Base
	Root Element

	prepared bool
}

func (*Template) Kind() Kind { return KindTemplate }

// Prepared reports whether Prepare has already run successfully.
func (t *Template) Prepared() bool { return t.prepared }

// Prepare runs fn the first time it is called. Later calls are no-ops, so
// every reference to a shared template sees the same prepared instance.
func (t *Template) Prepare(fn func(*Template) error) error {
	if t.prepared {
		return nil
	}
	if err := fn(t); err != nil {
		return err
	}
	t.prepared = true
	return nil
}

// ContentControl renders a template, either given inline or looked up by
// ContentKey.
type ContentControl struct {
	Base
	ContentKey string
	Content    *Template

	resolved *Template
}

func (*ContentControl) Kind() Kind { return KindContentControl }

// Resolved returns the template this control was bound to, if any.
func (c *ContentControl) Resolved() *Template { return c.resolved }

// Resolve binds the control to t once; subsequent calls keep the first
// template.
func (c *ContentControl) Resolve(t *Template) *Template {
	if c.resolved == nil {
		c.resolved = t
	}
	return c.resolved
}

// Orientation is the stacking direction of a panel or the series direction
// of chart data.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// StackPanel places its children one after another. Items and ItemsSource
// are mutually exclusive; with ItemsSource every source item is rendered
// through the template named by ItemTemplateKey.
type StackPanel struct {
	Base
	Orientation     Orientation
	Items           []Element
	ItemsSource     Binding
	ItemTemplateKey string
}

func (*StackPanel) Kind() Kind { return KindStackPanel }

// Cell is a single value. DataType "string" forces the value to be written
// as text; Format is a number format applied on top of the cell styles.
type Cell struct {
	Base
	Value    Binding
	DataType string
	Format   string
}

func (*Cell) Kind() Kind { return KindCell }

// Padding reserves grid space. It may carry styles but never a value.
type Padding struct {
	Base
}

func (*Padding) Kind() Kind { return KindPadding }

// Property is a label and value pair laid out on one row.
type Property struct {
	Base
	Label  Binding
	Value  Binding
	Hidden Binding
	// LabelStyle and ValueStyle are style keys for the two cells.
	LabelStyle string
	ValueStyle string
}

func (*Property) Kind() Kind { return KindProperty }

// Chart reserves space for a chart cloned from the template TemplateKey and
// fed from its table data. Exactly one of TableData and TableDataKey must be
// set.
type Chart struct {
	Base
	TemplateKey  string
	Title        Binding
	TableData    *TableData
	TableDataKey string
	// SeriesIn says whether series run down the data columns (Vertical, the
	// default) or along the data rows (Horizontal).
	SeriesIn Orientation
}

func (*Chart) Kind() Kind { return KindChart }

// Shape reserves space for a shape cloned from TemplateKey.
type Shape struct {
	Base
	TemplateKey string
	Text        Binding
}

func (*Shape) Kind() Kind { return KindShape }

// Picture reserves space for an image. Source resolves to a file path or to
// raw image bytes; when unset the template's own image is used.
type Picture struct {
	Base
	TemplateKey string
	Source      Binding
}

func (*Picture) Kind() Kind { return KindPicture }
