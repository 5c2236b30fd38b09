// Package markup reads layout documents and their resources from YAML.
//
// A document lists sheets, each with a root element, and a resources
// section holding styles, templates, table data and drawing templates:
//
//	resources:
//	  styles:
//	    title: {bold: true, fill: "#DDEBF7"}
//	  charts:
//	    sales: {chart_type: col, palette: ["4472C4"]}
//	sheets:
//	  - name: Report
//	    root:
//	      kind: table
//	      header: "{Title}"
//	      items_source: "{Lines}"
//	      columns:
//	        - {header: Name, property: Name}
//	        - {header: Amount, property: Amount}
//
// Strings written as "{Path}" bind to the data context; every other value
// is a literal.
package markup

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

// Document is a decoded layout document.
type Document struct {
	Sheets    []*layout.Sheet
	Resources binding.MapStore
}

type sheet struct {
	Name string      `yaml:"name"`
	Root *Element    `yaml:"root"`
	Data interface{} `yaml:"data"`
}

type resources struct {
	Styles    map[string]*style.Style      `yaml:"styles"`
	Templates map[string]*Element          `yaml:"templates"`
	TableData map[string]*tableData        `yaml:"tabledata"`
	Charts    map[string]*project.Template `yaml:"charts"`
	Shapes    map[string]*project.Template `yaml:"shapes"`
	Pictures  map[string]*project.Template `yaml:"pictures"`
	Values    map[string]interface{}       `yaml:"values"`
}

type document struct {
	Resources resources `yaml:"resources"`
	Sheets    []sheet   `yaml:"sheets"`
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	var raw document
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}

	doc := &Document{Resources: binding.MapStore{}}
	res := raw.Resources
	add := func(key string, v interface{}) error {
		if _, dup := doc.Resources[key]; dup {
			return errs.Configuration("resources", "key %q is defined more than once", key)
		}
		doc.Resources.Add(key, v)
		return nil
	}

	for k, s := range res.Styles {
		if s == nil {
			s = &style.Style{}
		}
		if s.Key == "" {
			s.Key = k
		}
		if err := add(k, s); err != nil {
			return nil, err
		}
	}
	for k, e := range res.Templates {
		t := asTemplate(unwrap(e))
		if t == nil {
			return nil, errs.Configuration("resources", "template %q is empty", k)
		}
		if t.Key == "" {
			t.Key = k
		}
		if err := add(k, t); err != nil {
			return nil, err
		}
	}
	for k, td := range res.TableData {
		if td == nil {
			return nil, errs.Configuration("resources", "table data %q is empty", k)
		}
		built, err := td.build()
		if err != nil {
			return nil, errors.Wrapf(err, "table data %q", k)
		}
		if err := add(k, built); err != nil {
			return nil, err
		}
	}
	for _, group := range []struct {
		kind string
		m    map[string]*project.Template
	}{{"chart", res.Charts}, {"shape", res.Shapes}, {"picture", res.Pictures}} {
		for k, t := range group.m {
			if t == nil {
				t = &project.Template{}
			}
			t.Key, t.Kind = k, group.kind
			if err := add(k, t); err != nil {
				return nil, err
			}
		}
	}
	for k, v := range res.Values {
		if err := add(k, v); err != nil {
			return nil, err
		}
	}

	for i, s := range raw.Sheets {
		if s.Name == "" {
			return nil, errs.Configuration("sheets", "sheet %d has no name", i+1)
		}
		doc.Sheets = append(doc.Sheets, &layout.Sheet{Name: s.Name, Root: unwrap(s.Root), Data: s.Data})
	}
	return doc, nil
}

// Load reads and decodes the document at path. Relative picture paths are
// taken relative to the document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read document")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "document %s", path)
	}
	dir := filepath.Dir(path)
	for _, v := range doc.Resources {
		if t, ok := v.(*project.Template); ok && t.ImagePath != "" && !filepath.IsAbs(t.ImagePath) {
			t.ImagePath = filepath.Join(dir, t.ImagePath)
		}
	}
	return doc, nil
}

// Bind sets data as the data context of every sheet that has none.
func (d *Document) Bind(data interface{}) {
	for _, s := range d.Sheets {
		if s.Data == nil {
			s.Data = data
		}
	}
}

// Layout returns the sheets as a layout document.
func (d *Document) Layout() *layout.Document {
	return &layout.Document{Sheets: d.Sheets}
}

// LoadData reads a YAML data file to bind a document to.
func LoadData(path string) (interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read data")
	}
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, errors.Wrapf(err, "decode data %s", path)
	}
	return v, nil
}
