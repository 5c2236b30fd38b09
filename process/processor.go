// Package process translates a layout element tree into the coordinate tree
// of a sheet. It reserves grid space for charts, shapes and pictures and
// records what should be drawn there, and it lays chart data out on a shared
// data sheet.
package process

import (
	"github.com/sirupsen/logrus"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/style"
)

// DefaultDataSheetName is the sheet chart data is written to.
const DefaultDataSheetName = "ChartData"

type Options struct {
	Resolver      binding.Resolver
	Resources     binding.ResourceStore
	Logger        logrus.FieldLogger
	IDs           *Counter
	DataSheetName string
}

// Sheet is the processed form of one worksheet.
type Sheet struct {
	Name     string
	Arena    *coord.Arena
	Root     coord.NodeID
	Drawings []*DrawingRequest
}

// Processor builds coordinate trees for the sheets of one generation.
type Processor struct {
	resolver  binding.Resolver
	resources binding.ResourceStore
	log       logrus.FieldLogger
	ids       *Counter

	dataName string
	data     *Sheet
	dataRow  int
}

func New(o Options) *Processor {
	p := &Processor{
		resolver:  o.Resolver,
		resources: o.Resources,
		log:       o.Logger,
		ids:       o.IDs,
		dataName:  o.DataSheetName,
	}
	if p.resolver == nil {
		p.resolver = binding.PathResolver{}
	}
	if p.resources == nil {
		p.resources = binding.MapStore{}
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.ids == nil {
		p.ids = NewCounter(1)
	}
	if p.dataName == "" {
		p.dataName = DefaultDataSheetName
	}
	return p
}

// Sheet processes one sheet. The returned coordinate tree is complete but
// not yet resolved to absolute positions.
func (p *Processor) Sheet(s *layout.Sheet) (*Sheet, error) {
	if s == nil || s.Name == "" {
		return nil, errs.Configuration("Sheet", "sheet name is required")
	}
	if s.Name == p.dataName {
		return nil, errs.Configuration("Sheet", "sheet name %q is reserved for chart data", s.Name)
	}
	a := coord.NewArena()
	out := &Sheet{Name: s.Name, Arena: a, Root: a.NewContainer().ID()}
	w := &walker{p: p, arena: a, sheet: out, log: p.log.WithField("sheet", s.Name)}
	if _, err := w.process(s.Root, out.Root, s.Data); err != nil {
		return nil, err
	}
	return out, nil
}

// DataSheet returns the chart data sheet, or nil when no chart was
// processed.
func (p *Processor) DataSheet() *Sheet {
	return p.data
}

type walker struct {
	p     *Processor
	arena *coord.Arena
	sheet *Sheet
	log   logrus.FieldLogger
}

// process lays out el inside parent and reports whether it occupied a grid
// position.
func (w *walker) process(el layout.Element, parent coord.NodeID, data interface{}) (bool, error) {
	if el == nil {
		return false, nil
	}
	b := el.Common()
	if !w.enabled(b, data) {
		return false, nil
	}
	data = w.context(b, data)

	switch e := el.(type) {
	case *layout.Template:
		return w.process(e.Root, parent, data)
	case *layout.ContentControl:
		return w.contentControl(e, parent, data)
	case *layout.StackPanel:
		return w.stackPanel(e, parent, data)
	case *layout.Cell:
		return w.cell(e, parent, data)
	case *layout.Padding:
		n := w.arena.New(coord.KindPadding)
		w.apply(n, b, data)
		return true, w.arena.SetCoordinate(parent, n)
	case *layout.Property:
		_, err := w.property(e, parent, data, nil, nil)
		return true, err
	case *layout.Table:
		return w.table(e, parent, data)
	case *layout.TableData:
		return false, w.registerTableData(e, parent, data)
	case *layout.Chart:
		return w.chart(e, parent, data)
	case *layout.Shape:
		return w.shape(e, parent, data)
	case *layout.Picture:
		return w.picture(e, parent, data)
	}
	return false, errs.InvalidState("process", "unsupported element %T", el)
}

func (w *walker) eval(b layout.Binding, data interface{}) interface{} {
	v, err := binding.Evaluate(w.p.resolver, b, data)
	if err != nil {
		w.log.WithError(err).WithField("binding", b.String()).Debug("binding failed, using blank value")
		return nil
	}
	return v
}

func (w *walker) enabled(b *layout.Base, data interface{}) bool {
	if !b.Enabled.IsSet() {
		return true
	}
	v, err := binding.Evaluate(w.p.resolver, b.Enabled, data)
	if err != nil {
		w.log.WithError(err).Debug("enabled binding failed, keeping element")
		return true
	}
	on, err := binding.Bool(v)
	if err != nil {
		w.log.WithError(err).Debug("enabled binding is not a flag, keeping element")
		return true
	}
	return on
}

func (w *walker) context(b *layout.Base, data interface{}) interface{} {
	if !b.DataContext.IsSet() {
		return data
	}
	return w.eval(b.DataContext, data)
}

func (w *walker) flag(b layout.Binding, data interface{}) bool {
	if !b.IsSet() {
		return false
	}
	on, err := binding.Bool(w.eval(b, data))
	if err != nil {
		w.log.WithError(err).Debug("flag binding is not a bool")
		return false
	}
	return on
}

func (w *walker) number(b layout.Binding, data interface{}) *float64 {
	if !b.IsSet() {
		return nil
	}
	v := w.eval(b, data)
	if v == nil {
		return nil
	}
	f, err := binding.Float(v)
	if err != nil {
		w.log.WithError(err).Debug("size binding is not a number")
		return nil
	}
	return &f
}

// styles resolves style bindings. Unknown keys are logged and skipped.
func (w *walker) styles(bs []layout.Binding, data interface{}) []*style.Style {
	var out []*style.Style
	for _, b := range bs {
		switch v := w.eval(b, data).(type) {
		case nil:
		case *style.Style:
			out = append(out, v)
		case style.Style:
			out = append(out, &v)
		case string:
			if s := w.styleKey(v); s != nil {
				out = append(out, s)
			}
		default:
			w.log.WithField("style", v).Warn("style binding is neither a key nor a style")
		}
	}
	return out
}

func (w *walker) styleKey(key string) *style.Style {
	if key == "" {
		return nil
	}
	s, err := binding.Lookup[*style.Style](w.p.resources, key)
	if err != nil {
		w.log.WithError(err).Warn("style not found, falling back to default")
		return nil
	}
	return s
}

func (w *walker) styleKeys(keys ...string) []*style.Style {
	var out []*style.Style
	for _, k := range keys {
		if s := w.styleKey(k); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// apply copies the common attributes of b onto n.
func (w *walker) apply(n *coord.Node, b *layout.Base, data interface{}) {
	if b.RowSpan > 0 {
		n.RowSpan = b.RowSpan
	}
	if b.ColumnSpan > 0 {
		n.ColumnSpan = b.ColumnSpan
	}
	n.RowSpanToEnd = b.RowSpanToEnd
	n.ColumnSpanToEnd = b.ColumnSpanToEnd
	n.DefinedName = b.DefinedName
	n.Styles = append(n.Styles, w.styles(b.Styles, data)...)
	n.Height = w.number(b.Height, data)
	n.Width = w.number(b.Width, data)
	n.HideRow = w.flag(b.HideRow, data)
	n.HideColumn = w.flag(b.HideColumn, data)
}

func (w *walker) contentControl(c *layout.ContentControl, parent coord.NodeID, data interface{}) (bool, error) {
	tmpl := c.Content
	if tmpl == nil {
		tmpl = c.Resolved()
	}
	if tmpl == nil {
		t, err := binding.Lookup[*layout.Template](w.p.resources, c.ContentKey)
		if err != nil {
			w.log.WithError(err).Warn("content template not found, skipping")
			return false, nil
		}
		tmpl = c.Resolve(t)
	}
	if err := tmpl.Prepare(validate); err != nil {
		return false, err
	}

	n := w.arena.NewContainer()
	w.apply(n, &c.Base, data)
	if err := w.arena.SetCoordinate(parent, n); err != nil {
		return false, err
	}
	if _, err := w.process(tmpl.Root, n.ID(), data); err != nil {
		return false, err
	}
	return true, nil
}

// validate checks the static configuration of a template once.
func validate(t *layout.Template) error {
	return layout.Walk(t.Root, func(e layout.Element) error {
		switch v := e.(type) {
		case *layout.StackPanel:
			return checkStackPanel(v)
		case *layout.Table:
			if v.TableData != nil && v.TableDataKey != "" {
				return errs.Configuration("Table", "TableData and TableDataKey are mutually exclusive")
			}
		case *layout.Chart:
			if v.TableData != nil && v.TableDataKey != "" {
				return errs.Configuration("Chart", "TableData and TableDataKey are mutually exclusive")
			}
		}
		return nil
	})
}

func checkStackPanel(s *layout.StackPanel) error {
	if len(s.Items) > 0 && s.ItemsSource.IsSet() {
		return errs.Configuration("StackPanel", "Items and ItemsSource are mutually exclusive")
	}
	if s.ItemsSource.IsSet() && s.ItemTemplateKey == "" {
		return errs.Configuration("StackPanel", "ItemsSource requires ItemTemplateKey")
	}
	return nil
}

func (w *walker) stackPanel(s *layout.StackPanel, parent coord.NodeID, data interface{}) (bool, error) {
	if err := checkStackPanel(s); err != nil {
		return false, err
	}
	n := w.arena.NewContainer()
	w.apply(n, &s.Base, data)
	if err := w.arena.SetCoordinate(parent, n); err != nil {
		return false, err
	}

	children := s.Items
	if s.ItemsSource.IsSet() {
		items, err := binding.Items(w.eval(s.ItemsSource, data))
		if err != nil {
			w.log.WithError(err).Debug("items source is not a collection")
		}
		children = make([]layout.Element, 0, len(items))
		for _, item := range items {
			children = append(children, &layout.ContentControl{
				Base:       layout.Base{DataContext: layout.Lit(item)},
				ContentKey: s.ItemTemplateKey,
			})
		}
	}

	for _, ch := range children {
		placed, err := w.process(ch, n.ID(), data)
		if err != nil {
			return false, err
		}
		if !placed || !ch.Common().IsVisual() {
			continue
		}
		if s.Orientation == layout.Horizontal {
			err = w.arena.MoveToNextColumn(n.ID(), true)
		} else {
			err = w.arena.MoveToNextRow(n.ID(), true)
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (w *walker) cell(c *layout.Cell, parent coord.NodeID, data interface{}) (bool, error) {
	n := w.arena.New(coord.KindCell)
	w.apply(n, &c.Base, data)
	if c.Value.IsSet() {
		n.Value, n.HasValue = w.eval(c.Value, data), true
	}
	n.DataType = c.DataType
	if c.Format != "" {
		n.Styles = append(n.Styles, &style.Style{NumberFormat: style.String(c.Format)})
	}
	return true, w.arena.SetCoordinate(parent, n)
}

// property lays a label and value out on one row and reports whether the row
// is hidden.
func (w *walker) property(p *layout.Property, parent coord.NodeID, data interface{}, labelStyles, valueStyles []*style.Style) (bool, error) {
	n := w.arena.NewContainer()
	w.apply(n, &p.Base, data)
	n.ColumnSpanToEnd = true
	hidden := w.flag(p.Hidden, data)
	if hidden {
		n.HideRow = true
	}
	if err := w.arena.SetCoordinate(parent, n); err != nil {
		return hidden, err
	}

	label := w.arena.New(coord.KindCell)
	label.Value, label.HasValue = w.eval(p.Label, data), true
	label.Styles = append(append([]*style.Style(nil), labelStyles...), w.styleKeys(p.LabelStyle)...)
	if err := w.arena.Place(n.ID(), label, 1, 1); err != nil {
		return hidden, err
	}

	value := w.arena.New(coord.KindCell)
	value.Value, value.HasValue = w.eval(p.Value, data), true
	value.Styles = append(append([]*style.Style(nil), valueStyles...), w.styleKeys(p.ValueStyle)...)
	value.ColumnSpanToEnd = true
	return hidden, w.arena.Place(n.ID(), value, 1, 2)
}
