package excel

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

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

func columns() []*layout.Column {
	return []*layout.Column{
		{Header: "Name", Property: "Name"},
		{Header: "Amount", Property: "Amount"},
	}
}

func generate(t *testing.T, res binding.MapStore, sheets ...*layout.Sheet) *excelize.File {
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
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	return f
}

func value(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestTable(t *testing.T) {
	res := binding.MapStore{"title": &style.Style{Bold: style.Bool(true), Fill: style.String("DDEBF7")}}
	sheet := &layout.Sheet{
		Name: "Report",
		Root: &layout.Table{
			Base:        layout.Base{DefinedName: "Lines"},
			Header:      layout.Lit("Report"),
			TableData:   &layout.TableData{ItemsSource: layout.Path("."), Columns: columns()},
			TableStyles: layout.TableStyles{Header: "title"},
		},
		Data: []line{{"Alice", 10.5}, {"Bob", 20}},
	}
	f := generate(t, res, sheet)

	assert.Equal(t, []string{"Report"}, f.GetSheetList(), "default sheet is renamed")
	assert.Equal(t, "Report", value(t, f, "Report", "A1"))
	assert.Equal(t, "Name", value(t, f, "Report", "A2"))
	assert.Equal(t, "Alice", value(t, f, "Report", "A3"))
	assert.Equal(t, "10.5", value(t, f, "Report", "B3"))
	assert.Equal(t, "20", value(t, f, "Report", "B4"))

	merged, err := f.GetMergeCells("Report")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())

	idx, err := f.GetCellStyle("Report", "A1")
	require.NoError(t, err)
	st, err := f.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)

	names := make(map[string]string)
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = dn.RefersTo
	}
	assert.Equal(t, "'Report'!$A$3:$B$4", names["Lines"])
	assert.Equal(t, "'Report'!$A$3:$A$4", names["Lines_Name"])
}

func TestRewriteReplacesSheet(t *testing.T) {
	wb := New(quiet())
	sh, err := wb.Sheet("S")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		require.NoError(t, sh.AddColumn(nil, false))
		require.NoError(t, sh.AddRow(nil, false))
	}
	require.NoError(t, sh.SetValue(project.CellRef{Row: 2, Column: 2}, project.Text("old")))
	require.NoError(t, sh.Merge(project.CellRef{Row: 1, Column: 1}, project.CellRef{Row: 1, Column: 2}))
	require.NoError(t, wb.AddDefinedName("S", "Old", 1, 1, 2, 2))

	again, err := wb.Sheet("S")
	require.NoError(t, err)
	assert.Same(t, sh, again)
	require.NoError(t, again.Clear())
	assert.Error(t, again.SetValue(project.CellRef{Row: 1, Column: 1}, project.Text("x")))

	require.NoError(t, again.AddColumn(nil, false))
	require.NoError(t, again.AddRow(nil, false))
	require.NoError(t, again.SetValue(project.CellRef{Row: 1, Column: 1}, project.Number(1)))
	require.NoError(t, wb.AddDefinedName("S", "Old", 1, 1, 1, 1))

	f := wb.File()
	v, err := f.GetCellValue("S", "B2")
	require.NoError(t, err)
	assert.Empty(t, v)
	merged, err := f.GetMergeCells("S")
	require.NoError(t, err)
	assert.Empty(t, merged)

	var refs []string
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "Old" {
			refs = append(refs, dn.RefersTo)
		}
	}
	assert.Equal(t, []string{"'S'!$A$1:$A$1"}, refs)
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

	f := wb.File()
	cw, err := f.GetColWidth("Dims", "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, cw)
	visible, err := f.GetColVisible("Dims", "B")
	require.NoError(t, err)
	assert.False(t, visible)
	rh, err := f.GetRowHeight("Dims", 1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, rh)
	rv, err := f.GetRowVisible("Dims", 2)
	require.NoError(t, err)
	assert.False(t, rv)
}

func TestStyleIndexIsShared(t *testing.T) {
	wb := New(quiet())
	info := style.Info{Italic: true, Top: style.Border{Style: "thick", Color: "FF0000"}}
	a, err := wb.StyleIndex(info)
	require.NoError(t, err)
	b, err := wb.StyleIndex(info)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	st, err := wb.File().GetStyle(a)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Italic)
	var top int
	for _, b := range st.Border {
		if b.Type == "top" {
			top = b.Style
		}
	}
	assert.Equal(t, 5, top)
}

func TestDrawings(t *testing.T) {
	res := binding.MapStore{
		"bars": &project.Template{Key: "bars", Kind: "chart", ChartType: "bar", Palette: []string{"4472C4", "ED7D31"}, Legend: true},
		"note": &project.Template{Key: "note", Kind: "shape", ShapeType: "rect", Fill: "FFF2CC"},
	}
	sheet := &layout.Sheet{
		Name: "Charts",
		Root: &layout.StackPanel{Items: []layout.Element{
			&layout.Chart{
				Base:        layout.Base{RowSpan: 10, ColumnSpan: 6},
				TemplateKey: "bars",
				Title:       layout.Lit("Sales"),
				TableData:   &layout.TableData{ItemsSource: layout.Path("."), Columns: columns()},
			},
			&layout.Shape{Base: layout.Base{RowSpan: 3, ColumnSpan: 4}, TemplateKey: "note", Text: layout.Lit("Totals are unaudited")},
		}},
		Data: []line{{"Alice", 10.5}, {"Bob", 20}},
	}
	f := generate(t, res, sheet)

	assert.Equal(t, []string{"Charts", process.DefaultDataSheetName}, f.GetSheetList())
	assert.Equal(t, "Amount", value(t, f, process.DefaultDataSheetName, "B1"))
	assert.Equal(t, "Bob", value(t, f, process.DefaultDataSheetName, "A3"))
}

func TestDrawingObjectLifecycle(t *testing.T) {
	wb := New(quiet())
	_, err := wb.Sheet("S")
	require.NoError(t, err)
	d := wb.Drawings()

	_, err = d.Clone(&project.Template{Key: "c", Kind: "chart"}, "Missing")
	assert.Error(t, err)

	o, err := d.Clone(&project.Template{Key: "c", Kind: "chart"}, "S")
	require.NoError(t, err)
	require.NoError(t, d.Remove(o))
	assert.Error(t, d.SetText(o, "gone"))
	assert.Error(t, d.SetText(project.Object{ID: 9}, "unknown"))
	require.NoError(t, d.Commit())
}
