package process

import (
	"fmt"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
)

type DrawingKind uint8

const (
	DrawChart DrawingKind = iota
	DrawShape
	DrawPicture
)

func (k DrawingKind) String() string {
	switch k {
	case DrawChart:
		return "chart"
	case DrawShape:
		return "shape"
	case DrawPicture:
		return "picture"
	}
	return fmt.Sprintf("drawing(%d)", uint8(k))
}

// DrawingRequest is an object to be drawn over the grid space reserved by
// its placeholder node once positions are resolved.
type DrawingRequest struct {
	ID          int
	Kind        DrawingKind
	TemplateKey string
	// Text is the chart title or the shape text.
	Text        string
	Image       []byte
	ImagePath   string
	Placeholder coord.NodeID
	Chart       *ChartData
}

// Range is an absolute block of cells on a named sheet.
type Range struct {
	Sheet                 string
	StartRow, StartColumn int
	EndRow, EndColumn     int
}

func (r Range) IsZero() bool { return r.StartRow == 0 && r.StartColumn == 0 }

// Series is one chart series resolved to data sheet ranges.
type Series struct {
	Name    string
	NameRef Range
	Values  Range
	Info    layout.SeriesInfo
}

// ChartData is the data sheet table behind a chart. Its ranges are only
// meaningful after the data sheet has been resolved.
type ChartData struct {
	Sheet    string
	Name     string
	SeriesIn layout.Orientation
	table    *tableLayout
}

func (c *ChartData) columnInfo(i int) layout.SeriesInfo {
	col := c.table.columns[i]
	if col.Series != nil {
		return *col.Series
	}
	if i == 0 {
		return layout.SeriesInfo{IsCategoryAxis: true}
	}
	return layout.SeriesInfo{BaseOnSeriesIndex: i - 1}
}

func (c *ChartData) categoryColumn() int {
	for i := range c.table.columns {
		if c.columnInfo(i).IsCategoryAxis {
			return i
		}
	}
	return -1
}

func (c *ChartData) rangeOf(id coord.NodeID) Range {
	n := c.table.arena.Node(id)
	if n == nil {
		return Range{}
	}
	return Range{
		Sheet:       c.Sheet,
		StartRow:    n.ExcelRowStart,
		StartColumn: n.ExcelColumnStart,
		EndRow:      n.ExcelRowEnd,
		EndColumn:   n.ExcelColumnEnd,
	}
}

// valueColumns are the indexes of every column that is not the category
// axis.
func (c *ChartData) valueColumns() []int {
	cat := c.categoryColumn()
	var out []int
	for i := range c.table.columns {
		if i != cat {
			out = append(out, i)
		}
	}
	return out
}

// Categories is the category axis range: the category column's data when
// series run down columns, or the value column headers when they run along
// rows.
func (c *ChartData) Categories() Range {
	if c.table.body == coord.NoNode {
		return Range{}
	}
	if c.SeriesIn == layout.Horizontal {
		vc := c.valueColumns()
		if len(vc) == 0 {
			return Range{}
		}
		first, last := c.rangeOf(c.table.headers[vc[0]]), c.rangeOf(c.table.headers[vc[len(vc)-1]])
		first.EndRow, first.EndColumn = last.EndRow, last.EndColumn
		return first
	}
	cat := c.categoryColumn()
	if cat < 0 {
		return Range{}
	}
	return c.rangeOf(c.table.columnNodes[cat])
}

// Series lists the series of the chart in data order, leaving out excluded
// ones.
func (c *ChartData) Series() []Series {
	if c.table.body == coord.NoNode {
		return nil
	}
	if c.SeriesIn == layout.Horizontal {
		return c.rowSeries()
	}
	var out []Series
	for _, i := range c.valueColumns() {
		info := c.columnInfo(i)
		if info.Excluded() {
			continue
		}
		out = append(out, Series{
			Name:    c.table.columns[i].Header,
			NameRef: c.rangeOf(c.table.headers[i]),
			Values:  c.rangeOf(c.table.columnNodes[i]),
			Info:    info,
		})
	}
	return out
}

func (c *ChartData) rowSeries() []Series {
	vc := c.valueColumns()
	if len(vc) == 0 {
		return nil
	}
	cat := c.categoryColumn()
	var out []Series
	for r, item := range c.table.items {
		info := layout.SeriesInfo{BaseOnSeriesIndex: r}
		if p, ok := item.(layout.SeriesInfoProvider); ok {
			info = p.SeriesInfo()
		}
		if info.Excluded() {
			continue
		}
		first := c.rangeOf(c.table.cells[vc[0]][r])
		last := c.rangeOf(c.table.cells[vc[len(vc)-1]][r])
		s := Series{
			Values: Range{Sheet: c.Sheet, StartRow: first.StartRow, StartColumn: first.StartColumn, EndRow: first.StartRow, EndColumn: last.EndColumn},
			Info:   info,
		}
		if cat >= 0 {
			id := c.table.cells[cat][r]
			s.NameRef = c.rangeOf(id)
			s.Name = binding.String(c.table.arena.Node(id).Value)
		}
		out = append(out, s)
	}
	return out
}

func (w *walker) placeholder(b *layout.Base, data interface{}) *coord.Node {
	n := w.arena.New(coord.KindPlaceholder)
	w.apply(n, b, data)
	return n
}

func (w *walker) request(req *DrawingRequest, ph *coord.Node, parent coord.NodeID) (bool, error) {
	req.Placeholder = ph.ID()
	ph.Tag = req
	if err := w.arena.SetCoordinate(parent, ph); err != nil {
		return false, err
	}
	w.sheet.Drawings = append(w.sheet.Drawings, req)
	return true, nil
}

func (w *walker) chart(c *layout.Chart, parent coord.NodeID, data interface{}) (bool, error) {
	bd, err := w.tableData("Chart", c.TableData, c.TableDataKey, parent, data)
	if err != nil {
		return false, err
	}
	if bd == nil {
		return false, errs.Configuration("Chart", "chart %q requires TableData or TableDataKey", c.Key)
	}
	id := w.p.ids.Next()
	name := fmt.Sprintf("chart%d", id)
	tl, err := w.p.layoutChartData(name, bd)
	if err != nil {
		return false, err
	}
	req := &DrawingRequest{
		ID:          id,
		Kind:        DrawChart,
		TemplateKey: c.TemplateKey,
		Text:        binding.String(w.eval(c.Title, data)),
		Chart:       &ChartData{Sheet: w.p.dataName, Name: name, SeriesIn: c.SeriesIn, table: tl},
	}
	return w.request(req, w.placeholder(&c.Base, data), parent)
}

func (w *walker) shape(s *layout.Shape, parent coord.NodeID, data interface{}) (bool, error) {
	req := &DrawingRequest{
		ID:          w.p.ids.Next(),
		Kind:        DrawShape,
		TemplateKey: s.TemplateKey,
		Text:        binding.String(w.eval(s.Text, data)),
	}
	return w.request(req, w.placeholder(&s.Base, data), parent)
}

func (w *walker) picture(p *layout.Picture, parent coord.NodeID, data interface{}) (bool, error) {
	req := &DrawingRequest{
		ID:          w.p.ids.Next(),
		Kind:        DrawPicture,
		TemplateKey: p.TemplateKey,
	}
	switch v := w.eval(p.Source, data).(type) {
	case []byte:
		req.Image = v
	case string:
		req.ImagePath = v
	}
	return w.request(req, w.placeholder(&p.Base, data), parent)
}

// layoutChartData writes the chart's table onto the data sheet, one table
// below the other with a blank row in between.
func (p *Processor) layoutChartData(name string, bd *boundData) (*tableLayout, error) {
	if p.data == nil {
		a := coord.NewArena()
		p.data = &Sheet{Name: p.dataName, Arena: a, Root: a.NewContainer().ID()}
		p.dataRow = 1
	}
	w := &walker{p: p, arena: p.data.Arena, sheet: p.data, log: p.log.WithField("sheet", p.dataName)}
	t := &layout.Table{Base: layout.Base{DefinedName: name}, Columns: bd.td.Columns}
	n, tl, err := w.buildTable(t, bd, bd.data)
	if err != nil {
		return nil, err
	}
	if err := p.data.Arena.Place(p.data.Root, n, p.dataRow, 1); err != nil {
		return nil, err
	}
	p.dataRow += 2
	return tl, nil
}
