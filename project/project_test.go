package project_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/process"
	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/project/projecttest"
	"github.com/aerissecure/sheetlayout/style"
)

type line struct {
	Name   string
	Amount float64
}

var lines = map[string]interface{}{
	"Title": "Report",
	"Lines": []line{{"Alice", 10.5}, {"Bob", 20.0}},
}

func columns() []*layout.Column {
	return []*layout.Column{
		{Header: "Name", Property: "Name"},
		{Header: "Amount", Property: "Amount"},
	}
}

func run(t *testing.T, sheet *layout.Sheet, res binding.MapStore) (*projecttest.Writer, *projecttest.Drawing) {
	t.Helper()
	p := process.New(process.Options{Resources: res})
	s, err := p.Sheet(sheet)
	require.NoError(t, err)

	w, d := projecttest.NewWriter(), &projecttest.Drawing{}
	pj := project.New(w, d, res, nil)
	_, err = pj.Sheet(s)
	require.NoError(t, err)
	if ds := p.DataSheet(); ds != nil {
		_, err = pj.Sheet(ds)
		require.NoError(t, err)
	}
	require.NoError(t, pj.Drawings(s))
	return w, d
}

type version struct{ major, minor int }

func (v version) String() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }

func TestCoerce(t *testing.T) {
	type named string
	cases := []struct {
		name     string
		in       interface{}
		dataType string
		want     project.Value
	}{
		{"nil", nil, "", project.Text("")},
		{"string", "Alice", "", project.Text("Alice")},
		{"true", true, "", project.Text("TRUE")},
		{"false", false, "", project.Text("FALSE")},
		{"float", 10.5, "", project.Number(10.5)},
		{"int", 3, "", project.Number(3)},
		{"uint8", uint8(7), "", project.Number(7)},
		{"nan", math.NaN(), "", project.Text("")},
		{"inf", math.Inf(-1), "", project.Text("")},
		{"decimal", decimal.RequireFromString("12.25"), "", project.Number(12.25)},
		{"date", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "", project.Number(45292.5)},
		{"epoch", time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), "", project.Number(1)},
		{"numeric text type", named("42"), "", project.Number(42)},
		{"other text type", named("abc"), "", project.Text("")},
		{"numeric stringer", version{2, 5}, "", project.Number(2.5)},
		{"duration", 90 * time.Second, "", project.Text("")},
		{"forced string", 10.5, "string", project.Text("10.5")},
		{"forced decimal", decimal.RequireFromString("1.50"), "string", project.Text("1.5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, project.Coerce(tc.in, tc.dataType))
		})
	}
}

func TestReferences(t *testing.T) {
	assert.Equal(t, "A1", project.CellRef{Row: 1, Column: 1}.String())
	assert.Equal(t, "AB12", project.CellRef{Row: 12, Column: 28}.String())
	assert.Equal(t, "$C$4", project.CellRef{Row: 4, Column: 3}.Absolute())
	assert.Equal(t, "'It''s'!$A$2:$B$3", project.FormatRange(process.Range{Sheet: "It's", StartRow: 2, StartColumn: 1, EndRow: 3, EndColumn: 2}))
	assert.Equal(t, "", project.FormatRange(process.Range{}))
}

func TestProjectTable(t *testing.T) {
	tbl := &layout.Table{
		Base:      layout.Base{DefinedName: "Lines"},
		Header:    layout.Path("Title"),
		TableData: &layout.TableData{ItemsSource: layout.Path("Lines")},
		Columns:   columns(),
	}
	w, _ := run(t, &layout.Sheet{Name: "Report", Root: tbl, Data: lines}, nil)

	require.Equal(t, []string{"Report"}, w.Order)
	s := w.Sheets["Report"]
	assert.Equal(t, 1, s.Cleared)
	assert.Len(t, s.Rows, 4)
	assert.Len(t, s.Columns, 2)

	assert.Equal(t, "Report", s.Value(1, 1))
	assert.Equal(t, "Amount", s.Value(2, 2))
	assert.Equal(t, "Alice", s.Value(3, 1))
	assert.Equal(t, project.Number(10.5), s.Values[project.CellRef{Row: 3, Column: 2}])
	assert.Equal(t, project.Number(20), s.Values[project.CellRef{Row: 4, Column: 2}])
	assert.Equal(t, []projecttest.Merge{{From: project.CellRef{Row: 1, Column: 1}, To: project.CellRef{Row: 1, Column: 2}}}, s.Merges)

	name, ok := w.Name("Lines")
	require.True(t, ok)
	assert.Equal(t, projecttest.DefinedName{Sheet: "Report", Name: "Lines", Column: 1, Row: 3, ColumnCount: 2, RowCount: 2}, name)
	name, ok = w.Name("Lines_Amount")
	require.True(t, ok)
	assert.Equal(t, 2, name.Column)
	assert.Equal(t, 1, name.ColumnCount)
}

func TestNullIsWrittenAsEmptyString(t *testing.T) {
	w, _ := run(t, &layout.Sheet{Name: "S", Root: &layout.Cell{Value: layout.Lit(nil)}}, nil)
	v, ok := w.Sheets["S"].Values[project.CellRef{Row: 1, Column: 1}]
	require.True(t, ok, "a nil value is still written")
	assert.Equal(t, project.Text(""), v)
}

func TestSharedStylesShareIndex(t *testing.T) {
	bold := &style.Style{Bold: style.Bool(true)}
	res := binding.MapStore{"bold": bold}
	cell := func(v string) layout.Element {
		return &layout.Cell{Base: layout.Base{Styles: layout.StyleKeys("bold")}, Value: layout.Lit(v)}
	}
	panel := &layout.StackPanel{Items: []layout.Element{cell("a"), cell("b"), &layout.Cell{Value: layout.Lit("plain")}}}
	w, _ := run(t, &layout.Sheet{Name: "S", Root: panel}, res)

	s := w.Sheets["S"]
	require.Len(t, w.Styles, 1)
	assert.True(t, w.Styles[0].Bold)
	assert.Equal(t, 0, s.Styles[project.CellRef{Row: 1, Column: 1}])
	assert.Equal(t, 0, s.Styles[project.CellRef{Row: 2, Column: 1}])
	_, styled := s.Styles[project.CellRef{Row: 3, Column: 1}]
	assert.False(t, styled)
}

func TestSheetIsRewritten(t *testing.T) {
	w := projecttest.NewWriter()
	pj := project.New(w, nil, nil, nil)
	for _, v := range []string{"first", "second"} {
		s, err := process.New(process.Options{}).Sheet(&layout.Sheet{Name: "S", Root: &layout.Cell{Value: layout.Lit(v)}})
		require.NoError(t, err)
		_, err = pj.Sheet(s)
		require.NoError(t, err)
	}
	s := w.Sheets["S"]
	assert.Equal(t, 2, s.Cleared)
	assert.Len(t, s.Rows, 1)
	assert.Equal(t, "second", s.Value(1, 1))
}

func chartResources() binding.MapStore {
	return binding.MapStore{
		"bars": &project.Template{Key: "bars", Kind: "chart", ChartType: "col", Palette: []string{"4472C4", "ED7D31"}},
	}
}

func TestChartDrawing(t *testing.T) {
	chart := &layout.Chart{
		Base:        layout.Base{RowSpan: 10, ColumnSpan: 5},
		TemplateKey: "bars",
		Title:       layout.Path("Title"),
		TableData:   &layout.TableData{ItemsSource: layout.Path("Lines"), Columns: columns()},
	}
	w, d := run(t, &layout.Sheet{Name: "S", Root: chart, Data: lines}, chartResources())

	assert.Equal(t, []string{"S", process.DefaultDataSheetName}, w.Order)
	data := w.Sheets[process.DefaultDataSheetName]
	assert.Equal(t, "Bob", data.Value(3, 1))
	_, ok := w.Name("chart1")
	assert.True(t, ok)

	require.Len(t, d.Live(), 1)
	obj := d.Live()[0]
	assert.Equal(t, "S", obj.Sheet)
	assert.Equal(t, project.Anchor{FromRow: 1, FromColumn: 1, ToRow: 10, ToColumn: 5}, obj.Anchor)
	assert.Equal(t, "Report", obj.Text)
	assert.Equal(t, []project.SeriesRef{{
		Name:       "Amount",
		NameRef:    "'ChartData'!$B$1:$B$1",
		Categories: "'ChartData'!$A$2:$A$3",
		Values:     "'ChartData'!$B$2:$B$3",
		Color:      "4472C4",
	}}, obj.Series)
}

func TestChartWithoutSeriesIsRemoved(t *testing.T) {
	chart := &layout.Chart{
		TemplateKey: "bars",
		TableData: &layout.TableData{ItemsSource: layout.Path("Lines"), Columns: []*layout.Column{
			{Header: "Name", Property: "Name"},
			{Header: "Amount", Property: "Amount", Series: &layout.SeriesInfo{Suppress: true}},
		}},
	}
	_, d := run(t, &layout.Sheet{Name: "S", Root: chart, Data: lines}, chartResources())
	require.Len(t, d.Objects, 1)
	assert.True(t, d.Objects[0].Removed)
	assert.Empty(t, d.Live())
}

func TestDrawingTemplates(t *testing.T) {
	res := binding.MapStore{
		"logo": &project.Template{Key: "logo", Kind: "picture", ImagePath: "logo.png"},
		"note": &project.Template{Key: "note", Kind: "shape", ShapeType: "rect"},
	}
	panel := &layout.StackPanel{Orientation: layout.Horizontal, Items: []layout.Element{
		&layout.Picture{TemplateKey: "logo"},
		&layout.Shape{TemplateKey: "note", Text: layout.Lit("hello")},
		&layout.Shape{TemplateKey: "missing"},
	}}
	_, d := run(t, &layout.Sheet{Name: "S", Root: panel}, res)

	live := d.Live()
	require.Len(t, live, 2, "the shape without a template is skipped")
	assert.Equal(t, "logo.png", live[0].ImagePath)
	assert.Equal(t, project.Anchor{FromRow: 1, FromColumn: 1, ToRow: 1, ToColumn: 1}, live[0].Anchor)
	assert.Equal(t, "hello", live[1].Text)
	assert.Equal(t, 2, live[1].Anchor.FromColumn)
}

func TestTemplateHelpers(t *testing.T) {
	tmpl := &project.Template{Palette: []string{"a", "b"}}
	assert.Equal(t, "a", tmpl.SeriesColor(0))
	assert.Equal(t, "b", tmpl.SeriesColor(3))
	assert.Equal(t, "", (&project.Template{}).SeriesColor(0))
	assert.Equal(t, ".jpg", project.ImageExt("photo.JPG"))
	assert.Equal(t, ".png", project.ImageExt(""))
}
