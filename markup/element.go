package markup

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
)

// Element decodes one layout element. The element type is selected by its
// kind field, using the names of layout.Kind.
type Element struct {
	layout.Element
}

type base struct {
	Kind            string    `yaml:"kind"`
	Key             string    `yaml:"key"`
	Enabled         Binding   `yaml:"enabled"`
	DataContext     Binding   `yaml:"data_context"`
	Styles          []Binding `yaml:"styles"`
	DefinedName     string    `yaml:"defined_name"`
	RowSpan         int       `yaml:"row_span"`
	ColumnSpan      int       `yaml:"column_span"`
	RowSpanToEnd    bool      `yaml:"row_span_to_end"`
	ColumnSpanToEnd bool      `yaml:"column_span_to_end"`
	Height          Binding   `yaml:"height"`
	Width           Binding   `yaml:"width"`
	HideRow         Binding   `yaml:"hide_row"`
	HideColumn      Binding   `yaml:"hide_column"`
	NonVisual       bool      `yaml:"non_visual"`
}

func (b base) layout() layout.Base {
	return layout.Base{
		Key:             b.Key,
		Enabled:         b.Enabled.Binding,
		DataContext:     b.DataContext.Binding,
		Styles:          bindings(b.Styles),
		DefinedName:     b.DefinedName,
		RowSpan:         b.RowSpan,
		ColumnSpan:      b.ColumnSpan,
		RowSpanToEnd:    b.RowSpanToEnd,
		ColumnSpanToEnd: b.ColumnSpanToEnd,
		Height:          b.Height.Binding,
		Width:           b.Width.Binding,
		HideRow:         b.HideRow.Binding,
		HideColumn:      b.HideColumn.Binding,
		NonVisual:       b.NonVisual,
	}
}

type groupHeader struct {
	Text  string `yaml:"text"`
	Style string `yaml:"style"`
}

type column struct {
	Name        string             `yaml:"name"`
	Header      string             `yaml:"header"`
	Property    string             `yaml:"property"`
	Width       *float64           `yaml:"width"`
	Hidden      bool               `yaml:"hidden"`
	DataType    string             `yaml:"data_type"`
	Format      string             `yaml:"format"`
	Style       string             `yaml:"style"`
	HeaderStyle string             `yaml:"header_style"`
	Groups      []string           `yaml:"groups"`
	Series      *layout.SeriesInfo `yaml:"series"`
}

// columns builds layout columns. Columns naming the same group id share one
// *layout.GroupHeader so they are merged together.
func columns(cols []column, groups map[string]groupHeader) ([]*layout.Column, error) {
	shared := make(map[string]*layout.GroupHeader)
	out := make([]*layout.Column, 0, len(cols))
	for _, c := range cols {
		lc := &layout.Column{
			Name:           c.Name,
			Header:         c.Header,
			Property:       c.Property,
			Width:          c.Width,
			Hidden:         c.Hidden,
			DataType:       c.DataType,
			Format:         c.Format,
			StyleKey:       c.Style,
			HeaderStyleKey: c.HeaderStyle,
			Series:         c.Series,
		}
		for _, id := range c.Groups {
			gh, ok := shared[id]
			if !ok {
				g, found := groups[id]
				if !found {
					return nil, errs.Configuration("Column", "column %q refers to unknown group %q", c.Header, id)
				}
				gh = &layout.GroupHeader{Text: g.Text, StyleKey: g.Style}
				shared[id] = gh
			}
			lc.GroupHeaders = append(lc.GroupHeaders, gh)
		}
		out = append(out, lc)
	}
	return out, nil
}

type tableData struct {
	base        `yaml:",inline"`
	Columns     []column               `yaml:"columns"`
	Groups      map[string]groupHeader `yaml:"groups"`
	ItemsSource Binding                `yaml:"items_source"`
}

func (t *tableData) build() (*layout.TableData, error) {
	cols, err := columns(t.Columns, t.Groups)
	if err != nil {
		return nil, err
	}
	return &layout.TableData{Base: t.layout(), Columns: cols, ItemsSource: t.ItemsSource.Binding}, nil
}

func orientation(s string) (layout.Orientation, error) {
	switch s {
	case "", "vertical", "columns":
		return layout.Vertical, nil
	case "horizontal", "rows":
		return layout.Horizontal, nil
	}
	return 0, errs.Configuration("orientation", "unknown orientation %q", s)
}

func (e *Element) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	kind, ok := layout.ParseKind(head.Kind)
	if !ok {
		return errs.Configuration("element", "line %d: unknown kind %q", n.Line, head.Kind)
	}
	el, err := decode(kind, n)
	if err != nil {
		return errors.Wrapf(err, "%s element at line %d", kind, n.Line)
	}
	e.Element = el
	return nil
}

func decode(kind layout.Kind, n *yaml.Node) (layout.Element, error) {
	switch kind {
	case layout.KindTemplate:
		var v struct {
			base `yaml:",inline"`
			Root *Element `yaml:"root"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.Template{Base: v.layout(), Root: unwrap(v.Root)}, nil

	case layout.KindContentControl:
		var v struct {
			base       `yaml:",inline"`
			ContentKey string   `yaml:"content_key"`
			Content    *Element `yaml:"content"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.ContentControl{Base: v.layout(), ContentKey: v.ContentKey, Content: asTemplate(unwrap(v.Content))}, nil

	case layout.KindStackPanel:
		var v struct {
			base         `yaml:",inline"`
			Orientation  string    `yaml:"orientation"`
			Items        []Element `yaml:"items"`
			ItemsSource  Binding   `yaml:"items_source"`
			ItemTemplate string    `yaml:"item_template"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		o, err := orientation(v.Orientation)
		if err != nil {
			return nil, err
		}
		sp := &layout.StackPanel{
			Base:            v.layout(),
			Orientation:     o,
			ItemsSource:     v.ItemsSource.Binding,
			ItemTemplateKey: v.ItemTemplate,
		}
		for _, it := range v.Items {
			sp.Items = append(sp.Items, it.Element)
		}
		return sp, nil

	case layout.KindCell:
		var v struct {
			base     `yaml:",inline"`
			Value    Binding `yaml:"value"`
			DataType string  `yaml:"data_type"`
			Format   string  `yaml:"format"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.Cell{Base: v.layout(), Value: v.Value.Binding, DataType: v.DataType, Format: v.Format}, nil

	case layout.KindPadding:
		var v base
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.Padding{Base: v.layout()}, nil

	case layout.KindProperty:
		var v property
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v.build(), nil

	case layout.KindTable:
		return decodeTable(n)

	case layout.KindTableData:
		var v tableData
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v.build()

	case layout.KindChart:
		var v struct {
			base         `yaml:",inline"`
			Template     string     `yaml:"template"`
			Title        Binding    `yaml:"title"`
			TableData    *tableData `yaml:"table_data"`
			TableDataKey string     `yaml:"table_data_key"`
			SeriesIn     string     `yaml:"series_in"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		o, err := orientation(v.SeriesIn)
		if err != nil {
			return nil, err
		}
		c := &layout.Chart{
			Base:         v.layout(),
			TemplateKey:  v.Template,
			Title:        v.Title.Binding,
			TableDataKey: v.TableDataKey,
			SeriesIn:     o,
		}
		if v.TableData != nil {
			if c.TableData, err = v.TableData.build(); err != nil {
				return nil, err
			}
		}
		return c, nil

	case layout.KindShape:
		var v struct {
			base     `yaml:",inline"`
			Template string  `yaml:"template"`
			Text     Binding `yaml:"text"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.Shape{Base: v.layout(), TemplateKey: v.Template, Text: v.Text.Binding}, nil

	case layout.KindPicture:
		var v struct {
			base     `yaml:",inline"`
			Template string  `yaml:"template"`
			Source   Binding `yaml:"source"`
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return &layout.Picture{Base: v.layout(), TemplateKey: v.Template, Source: v.Source.Binding}, nil
	}
	return nil, errs.Configuration("element", "kind %s cannot be decoded", kind)
}

type property struct {
	base       `yaml:",inline"`
	Label      Binding `yaml:"label"`
	Value      Binding `yaml:"value"`
	Hidden     Binding `yaml:"hidden"`
	LabelStyle string  `yaml:"label_style"`
	ValueStyle string  `yaml:"value_style"`
}

func (p *property) build() *layout.Property {
	return &layout.Property{
		Base:       p.layout(),
		Label:      p.Label.Binding,
		Value:      p.Value.Binding,
		Hidden:     p.Hidden.Binding,
		LabelStyle: p.LabelStyle,
		ValueStyle: p.ValueStyle,
	}
}

func decodeTable(n *yaml.Node) (layout.Element, error) {
	var v struct {
		base          `yaml:",inline"`
		Header        Binding                `yaml:"header"`
		SubHeader     Binding                `yaml:"sub_header"`
		Footer        Binding                `yaml:"footer"`
		SubFooter     Binding                `yaml:"sub_footer"`
		Properties    []property             `yaml:"properties"`
		TableData     *tableData             `yaml:"table_data"`
		TableDataKey  string                 `yaml:"table_data_key"`
		Columns       []column               `yaml:"columns"`
		Groups        map[string]groupHeader `yaml:"groups"`
		ItemsSource   Binding                `yaml:"items_source"`
		PadLastColumn bool                   `yaml:"pad_last_column"`
		HeaderSpacer  *bool                  `yaml:"header_spacer"`
		TableStyles   layout.TableStyles     `yaml:"table_styles"`
	}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	t := &layout.Table{
		Base:          v.layout(),
		Header:        v.Header.Binding,
		SubHeader:     v.SubHeader.Binding,
		Footer:        v.Footer.Binding,
		SubFooter:     v.SubFooter.Binding,
		TableDataKey:  v.TableDataKey,
		PadLastColumn: v.PadLastColumn,
		HeaderSpacer:  v.HeaderSpacer,
		TableStyles:   v.TableStyles,
	}
	for i := range v.Properties {
		t.Properties = append(t.Properties, v.Properties[i].build())
	}

	var err error
	switch {
	case v.TableData != nil:
		t.TableData, err = v.TableData.build()
	case v.ItemsSource.IsSet():
		// Shorthand: columns and items given on the table itself.
		td := tableData{Columns: v.Columns, Groups: v.Groups, ItemsSource: v.ItemsSource}
		t.TableData, err = td.build()
	case len(v.Columns) > 0:
		t.Columns, err = columns(v.Columns, v.Groups)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func unwrap(e *Element) layout.Element {
	if e == nil {
		return nil
	}
	return e.Element
}

// asTemplate wraps an inline content element in a template unless it
// already is one.
func asTemplate(el layout.Element) *layout.Template {
	switch v := el.(type) {
	case nil:
		return nil
	case *layout.Template:
		return v
	}
	return &layout.Template{Root: el}
}
