package layout

// SeriesInfo tells a chart how a data column (or row) takes part in it.
// A negative BaseOnSeriesIndex or Suppress excludes it; IsCategoryAxis marks
// the column holding the category labels.
type SeriesInfo struct {
	BaseOnSeriesIndex int  `yaml:"index"`
	Suppress          bool `yaml:"suppress,omitempty"`
	IsCategoryAxis    bool `yaml:"category,omitempty"`
}

// Excluded reports whether the series is left out of a chart.
func (s SeriesInfo) Excluded() bool {
	return s.Suppress || s.BaseOnSeriesIndex < 0
}

// SeriesInfoProvider is implemented by data items that describe their own
// chart series when series run along rows.
type SeriesInfoProvider interface {
	SeriesInfo() SeriesInfo
}

// GroupHeader is a header shared by adjacent columns at one level. Columns
// are grouped by pointer identity, never by Text.
type GroupHeader struct {
	Text     string
	StyleKey string
}

// Column describes one data column of a table.
type Column struct {
	// Name is used in generated defined names; it defaults to Header.
	Name   string
	Header string
	// Property is the binding path evaluated against each data item.
	Property       string
	Width          *float64
	Hidden         bool
	DataType       string
	Format         string
	StyleKey       string
	HeaderStyleKey string
	// GroupHeaders lists this column's group headers, outermost level first.
	GroupHeaders []*GroupHeader
	// Series is nil for the default: the first column is the category
	// axis and the rest are series in order.
	Series *SeriesInfo
}

// DisplayName is the name used for generated defined names.
func (c *Column) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Header
}

// TableData is a set of columns plus the items they are evaluated against.
// As an element it produces no output and registers itself under its key
// in the enclosing container.
type TableData struct {
	Base
	Columns     []*Column
	ItemsSource Binding
}

func (*TableData) Kind() Kind { return KindTableData }

// TableStyles are the style keys of the parts of a table.
type TableStyles struct {
	Header        string `yaml:"header,omitempty"`
	SubHeader     string `yaml:"sub_header,omitempty"`
	GroupHeader   string `yaml:"group_header,omitempty"`
	ColumnHeader  string `yaml:"column_header,omitempty"`
	Data          string `yaml:"data,omitempty"`
	Footer        string `yaml:"footer,omitempty"`
	SubFooter     string `yaml:"sub_footer,omitempty"`
	PropertyLabel string `yaml:"property_label,omitempty"`
	PropertyValue string `yaml:"property_value,omitempty"`
}

// Table lays out a header block, optional properties, a data region with
// group and column headers, and footers. Columns may be given directly or
// through TableData; at most one of TableData and TableDataKey is set.
type Table struct {
	Base
	Header, SubHeader Binding
	Footer, SubFooter Binding
	Properties        []*Property

	TableData    *TableData
	TableDataKey string
	Columns      []*Column

	// PadLastColumn adds an extra column after the data that repeats the
	// last column header style.
	PadLastColumn bool
	// HeaderSpacer forces a blank row after the header block on or off.
	// Unset, the spacer is only added when there is a sub-header.
	HeaderSpacer *bool

	TableStyles TableStyles
}

func (*Table) Kind() Kind { return KindTable }
