package xlsx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/process"
	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

type line struct {
	Name   string
	Amount float64
}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func report() *layout.Sheet {
	return &layout.Sheet{
		Name: "Report",
		Root: &layout.StackPanel{Items: []layout.Element{
			&layout.Table{
				Base:        layout.Base{DefinedName: "Lines"},
				Header:      layout.Lit("Report"),
				TableData:   &layout.TableData{ItemsSource: layout.Path(".")},
				Columns:     []*layout.Column{{Header: "Name", Property: "Name"}, {Header: "Amount", Property: "Amount"}},
				TableStyles: layout.TableStyles{Header: "title"},
			},
			&layout.Cell{Value: layout.Lit(nil)},
		}},
		Data: []line{{"Alice", 10.5}, {"Bob", 20}},
	}
}

// write projects sheets into a new workbook and returns the saved bytes.
func write(t *testing.T, res binding.MapStore, sheets ...*layout.Sheet) []byte {
	t.Helper()
	p := process.New(process.Options{Resources: res, Logger: quiet()})
	wb := New(quiet())
	pj := project.New(wb, wb.Drawings(), res, quiet())

	var done []*process.Sheet
	for _, s := range sheets {
		ps, err := p.Sheet(s)
		require.NoError(t, err)
		_, err = pj.Sheet(ps)
		require.NoError(t, err)
		done = append(done, ps)
	}
	if ds := p.DataSheet(); ds != nil {
		_, err := pj.Sheet(ds)
		require.NoError(t, err)
	}
	for _, ps := range done {
		require.NoError(t, pj.Drawings(ps))
	}
	require.NoError(t, wb.Drawings().Commit())

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))
	return buf.Bytes()
}

func read(t *testing.T, b []byte) Model {
	t.Helper()
	m, err := Read(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	return m
}

func TestRoundTrip(t *testing.T) {
	res := binding.MapStore{"title": &style.Style{Bold: style.Bool(true), Italic: style.Bool(true), Fill: style.String("#DDEBF7")}}
	m := read(t, write(t, res, report()))

	s, ok := m.Sheet("Report")
	require.True(t, ok)
	assert.Equal(t, "Report", s.Value(1, 1))
	assert.Equal(t, 2, s.Cell(1, 1).ColSpan)
	assert.True(t, s.Cell(1, 1).Style.Bold)
	assert.True(t, s.Cell(1, 1).Style.Italic)
	assert.False(t, s.Cell(3, 1).Style.Bold)
	assert.Equal(t, "DDEBF7", s.Cell(1, 1).Style.BackgroundColor)
	assert.Equal(t, "Amount", s.Value(2, 2))
	assert.Equal(t, "Alice", s.Value(3, 1))
	assert.Equal(t, "10.5", s.Value(3, 2))
	assert.True(t, s.Cell(3, 2).Numeric)
	assert.Equal(t, "20", s.Value(4, 2))

	// A nil value is written as an empty string and reads back as one.
	require.NotNil(t, s.Cell(5, 1))
	assert.Equal(t, "", s.Value(5, 1))
	assert.False(t, s.Cell(5, 1).Numeric)

	assert.Contains(t, m.Names, DefinedName{Name: "Lines", Ref: "'Report'!$A$3:$B$4"})
	assert.Contains(t, m.Names, DefinedName{Name: "Lines_Amount", Ref: "'Report'!$B$3:$B$4"})
}

func TestDimensions(t *testing.T) {
	wb := New(quiet())
	sh, err := wb.Sheet("Dims")
	require.NoError(t, err)
	w, h := 20.0, 30.0
	require.NoError(t, sh.AddColumn(&w, false))
	require.NoError(t, sh.AddColumn(nil, true))
	require.NoError(t, sh.AddRow(&h, false))
	require.NoError(t, sh.AddRow(nil, true))
	require.NoError(t, sh.SetValue(project.CellRef{Row: 1, Column: 2}, project.Text("x")))
	require.NoError(t, sh.SetValue(project.CellRef{Row: 2, Column: 1}, project.Number(1)))
	assert.Error(t, sh.SetValue(project.CellRef{Row: 3, Column: 1}, project.Number(1)))

	s, ok := wb.Model().Sheet("Dims")
	require.True(t, ok)
	require.Len(t, s.ColumnWidths, 2)
	assert.InDelta(t, 20*pxPerChar, s.ColumnWidths[0], 0.01)
	assert.Equal(t, []bool{false, true}, s.ColumnHidden)
	assert.InDelta(t, 30*pxPerPoint, s.Rows[0].HeightPx, 0.01)
	assert.True(t, s.Rows[1].Hidden)
}

func TestColumnWidthSurvivesSave(t *testing.T) {
	wb := New(quiet())
	sh, err := wb.Sheet("Wide")
	require.NoError(t, err)
	w := 20.0
	require.NoError(t, sh.AddColumn(&w, false))
	require.NoError(t, sh.AddColumn(nil, false))
	require.NoError(t, sh.AddRow(nil, false))
	require.NoError(t, sh.SetValue(project.CellRef{Row: 1, Column: 2}, project.Text("x")))

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))
	s, ok := read(t, buf.Bytes()).Sheet("Wide")
	require.True(t, ok)
	require.Len(t, s.ColumnWidths, 2)
	assert.InDelta(t, 20*pxPerChar, s.ColumnWidths[0], 0.01)
	assert.InDelta(t, defaultColumnWidth*pxPerChar, s.ColumnWidths[1], 0.01)
}

func TestClearRewritesSheet(t *testing.T) {
	wb := New(quiet())
	sh, err := wb.Sheet("S")
	require.NoError(t, err)
	require.NoError(t, sh.AddColumn(nil, false))
	require.NoError(t, sh.AddColumn(nil, false))
	require.NoError(t, sh.AddRow(nil, false))
	require.NoError(t, sh.SetValue(project.CellRef{Row: 1, Column: 1}, project.Text("old")))
	require.NoError(t, sh.Merge(project.CellRef{Row: 1, Column: 1}, project.CellRef{Row: 1, Column: 2}))

	again, err := wb.Sheet("S")
	require.NoError(t, err)
	assert.Same(t, sh, again)
	require.NoError(t, again.Clear())
	assert.Error(t, again.SetValue(project.CellRef{Row: 1, Column: 1}, project.Text("new")), "rows must be added again")

	s, _ := wb.Model().Sheet("S")
	assert.Empty(t, s.Rows)
}

func TestStyleIndexIsShared(t *testing.T) {
	wb := New(quiet())
	bold := style.Info{Bold: true}
	a, err := wb.StyleIndex(bold)
	require.NoError(t, err)
	b, err := wb.StyleIndex(bold)
	require.NoError(t, err)
	c, err := wb.StyleIndex(style.Info{Bold: true, NumberFormat: "0.00"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCharts(t *testing.T) {
	res := binding.MapStore{
		"bars":  &project.Template{Key: "bars", Kind: "chart", ChartType: "col", Palette: []string{"4472C4"}, Legend: true},
		"lines": &project.Template{Key: "lines", Kind: "chart", ChartType: "line"},
		"note":  &project.Template{Key: "note", Kind: "shape"},
	}
	td := func() *layout.TableData {
		return &layout.TableData{ItemsSource: layout.Path("."), Columns: []*layout.Column{
			{Header: "Name", Property: "Name"},
			{Header: "Amount", Property: "Amount"},
		}}
	}
	sheet := &layout.Sheet{
		Name: "Charts",
		Root: &layout.StackPanel{Items: []layout.Element{
			&layout.Chart{Base: layout.Base{RowSpan: 10, ColumnSpan: 6}, TemplateKey: "bars", Title: layout.Lit("Sales"), TableData: td()},
			&layout.Chart{Base: layout.Base{RowSpan: 10, ColumnSpan: 6}, TemplateKey: "lines", TableData: td()},
			&layout.Shape{TemplateKey: "note", Text: layout.Lit("unsupported here")},
		}},
		Data: []line{{"Alice", 10.5}, {"Bob", 20}},
	}
	m := read(t, write(t, res, sheet))

	data, ok := m.Sheet(process.DefaultDataSheetName)
	require.True(t, ok)
	assert.Equal(t, "Bob", data.Value(3, 1))
	assert.Equal(t, "Bob", data.Value(7, 1), "second chart table below the first")
	assert.Contains(t, m.Names, DefinedName{Name: "chart2", Ref: "'ChartData'!$A$6:$B$7"})
}

func TestHTMLPreview(t *testing.T) {
	m := read(t, write(t, binding.MapStore{"title": &style.Style{Bold: style.Bool(true)}}, report()))
	out := RenderHTML(m)
	assert.Contains(t, out, `data-name="Report"`)
	assert.Contains(t, out, `colspan="2"`)
	assert.Contains(t, out, ">Alice</td>")
	assert.Contains(t, out, "font-weight:bold;")
	assert.Equal(t, 1, strings.Count(out, "<table"))

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, m))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
}
