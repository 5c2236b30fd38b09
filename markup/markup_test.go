package markup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/process"
	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

const report = `
resources:
  styles:
    title: {bold: true, fill: "#ddebf7"}
  templates:
    line:
      kind: stack
      orientation: horizontal
      items:
        - {kind: cell, value: "{Name}"}
        - {kind: cell, value: "{Amount}", format: "0.00"}
  charts:
    sales: {chart_type: col, palette: ["4472C4"], legend: true}
  tabledata:
    lines:
      items_source: "{Lines}"
      columns:
        - {header: Name, property: Name}
        - {header: Amount, property: Amount}
sheets:
  - name: Report
    root:
      kind: stack
      items:
        - kind: table
          defined_name: Lines
          header: "{Title}"
          table_styles: {header: title}
          items_source: "{Lines}"
          groups:
            money: {text: Money}
          columns:
            - {header: Name, property: Name}
            - {header: Amount, property: Amount, groups: [money]}
            - {header: Tax, property: Tax, groups: [money], width: 12}
        - {kind: padding, hide_row: true}
        - {kind: stack, items_source: "{Lines}", item_template: line}
        - {kind: content, content_key: line, data_context: "{Lines[0]}"}
        - {kind: chart, template: sales, row_span: 10, column_span: 5, table_data_key: lines, series_in: columns}
        - {kind: cell, value: 42, enabled: false}
`

type reportLine struct {
	Name   string
	Amount float64
	Tax    float64
}

func reportData() map[string]interface{} {
	return map[string]interface{}{
		"Title": "Report",
		"Lines": []reportLine{{"Alice", 10.5, 1}, {"Bob", 20, 2}},
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(report))
	require.NoError(t, err)
	require.Len(t, doc.Sheets, 1)

	title, ok := doc.Resources["title"].(*style.Style)
	require.True(t, ok)
	assert.Equal(t, "title", title.Key)
	assert.True(t, *title.Bold)

	chart, ok := doc.Resources["sales"].(*project.Template)
	require.True(t, ok)
	assert.Equal(t, "chart", chart.Kind)
	assert.Equal(t, "sales", chart.Key)
	assert.True(t, chart.Legend)

	_, ok = doc.Resources["line"].(*layout.Template)
	assert.True(t, ok)
	td, ok := doc.Resources["lines"].(*layout.TableData)
	require.True(t, ok)
	assert.Equal(t, layout.Path("Lines"), td.ItemsSource)

	root, ok := doc.Sheets[0].Root.(*layout.StackPanel)
	require.True(t, ok)
	require.Len(t, root.Items, 6)

	tbl := root.Items[0].(*layout.Table)
	assert.Equal(t, "Lines", tbl.DefinedName)
	assert.Equal(t, layout.Path("Title"), tbl.Header)
	require.NotNil(t, tbl.TableData)
	cols := tbl.TableData.Columns
	require.Len(t, cols, 3)
	assert.Empty(t, cols[0].GroupHeaders)
	assert.Same(t, cols[1].GroupHeaders[0], cols[2].GroupHeaders[0])
	assert.Equal(t, 12.0, *cols[2].Width)

	pad := root.Items[1].(*layout.Padding)
	assert.Equal(t, layout.Lit(true), pad.HideRow)

	cc := root.Items[3].(*layout.ContentControl)
	assert.Equal(t, layout.Path("Lines[0]"), cc.DataContext)

	c := root.Items[4].(*layout.Chart)
	assert.Equal(t, "lines", c.TableDataKey)
	assert.Equal(t, layout.Vertical, c.SeriesIn)
	assert.Equal(t, 10, c.RowSpan)

	cell := root.Items[5].(*layout.Cell)
	assert.Equal(t, layout.Lit(42), cell.Value)
	assert.Equal(t, layout.Lit(false), cell.Enabled)
}

func TestParsedDocumentProcesses(t *testing.T) {
	doc, err := Parse([]byte(report))
	require.NoError(t, err)
	doc.Bind(reportData())

	p := process.New(process.Options{Resources: doc.Resources})
	s, err := p.Sheet(doc.Sheets[0])
	require.NoError(t, err)
	require.Len(t, s.Drawings, 1)
	assert.Equal(t, "sales", s.Drawings[0].TemplateKey)
	require.NotNil(t, p.DataSheet())

	var names []string
	for _, n := range s.Arena.DefinedNames(s.Root) {
		names = append(names, n.Name)
	}
	assert.Contains(t, names, "Lines")
	assert.Contains(t, names, "Lines_Tax")
}

func TestBinding(t *testing.T) {
	cases := map[string]layout.Binding{
		`v: "{Name}"`:    layout.Path("Name"),
		`v: "{ A.B }"`:   layout.Path("A.B"),
		`v: "{}"`:        layout.Path("."),
		`v: plain`:       layout.Lit("plain"),
		`v: 1.5`:         layout.Lit(1.5),
		`v: "{not path"`: layout.Lit("{not path"),
		`v: [1, 2]`:      layout.Lit([]interface{}{1, 2}),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			doc, err := Parse([]byte("sheets:\n  - name: S\n    root: {kind: cell, value: " + in[3:] + "}\n"))
			require.NoError(t, err)
			assert.Equal(t, want, doc.Sheets[0].Root.(*layout.Cell).Value)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown kind":  "sheets:\n  - name: S\n    root: {kind: frame}\n",
		"unknown group": "sheets:\n  - name: S\n    root: {kind: table, columns: [{header: A, groups: [g]}]}\n",
		"orientation":   "sheets:\n  - name: S\n    root: {kind: stack, orientation: diagonal}\n",
		"no sheet name": "sheets:\n  - root: {kind: cell}\n",
		"duplicate key": "resources:\n  styles: {a: {bold: true}}\n  charts: {a: {chart_type: line}}\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			require.Error(t, err)
			assert.True(t, errs.IsConfiguration(err), "got %v", err)
		})
	}

	_, err := Parse([]byte("sheets: {"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	doc := "resources:\n  pictures:\n    logo: {image: img/logo.png}\nsheets:\n  - name: S\n    root: {kind: picture, template: logo}\n"
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("Title: Hello\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	logo := d.Resources["logo"].(*project.Template)
	assert.Equal(t, "picture", logo.Kind)
	assert.Equal(t, filepath.Join(dir, "img", "logo.png"), logo.ImagePath)

	data, err := LoadData(filepath.Join(dir, "data.yaml"))
	require.NoError(t, err)
	d.Bind(data)
	assert.Equal(t, map[string]interface{}{"Title": "Hello"}, d.Layout().Sheets[0].Data)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
