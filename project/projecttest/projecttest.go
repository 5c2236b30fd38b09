// Package projecttest provides in-memory Writer and Drawing implementations
// that record every call, for tests of code that projects sheets.
package projecttest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

type Dim struct {
	Size   *float64
	Hidden bool
}

type Merge struct {
	From, To project.CellRef
}

type DefinedName struct {
	Sheet                 string
	Name                  string
	Column, Row           int
	ColumnCount, RowCount int
}

// Sheet records the state written to one sheet.
type Sheet struct {
	name    string
	Cleared int
	Columns []Dim
	Rows    []Dim
	Values  map[project.CellRef]project.Value
	Styles  map[project.CellRef]int
	Merges  []Merge
}

func (s *Sheet) Name() string { return s.name }

func (s *Sheet) Clear() error {
	s.Cleared++
	s.Columns, s.Rows, s.Merges = nil, nil, nil
	s.Values = make(map[project.CellRef]project.Value)
	s.Styles = make(map[project.CellRef]int)
	return nil
}

func (s *Sheet) AddColumn(width *float64, hidden bool) error {
	s.Columns = append(s.Columns, Dim{Size: width, Hidden: hidden})
	return nil
}

func (s *Sheet) AddRow(height *float64, hidden bool) error {
	s.Rows = append(s.Rows, Dim{Size: height, Hidden: hidden})
	return nil
}

func (s *Sheet) check(ref project.CellRef) error {
	if ref.Row < 1 || ref.Row > len(s.Rows) || ref.Column < 1 || ref.Column > len(s.Columns) {
		return fmt.Errorf("%s is outside the %dx%d sheet", ref, len(s.Rows), len(s.Columns))
	}
	return nil
}

func (s *Sheet) SetValue(ref project.CellRef, v project.Value) error {
	if err := s.check(ref); err != nil {
		return err
	}
	s.Values[ref] = v
	return nil
}

func (s *Sheet) SetStyle(ref project.CellRef, idx int) error {
	if err := s.check(ref); err != nil {
		return err
	}
	s.Styles[ref] = idx
	return nil
}

func (s *Sheet) Merge(from, to project.CellRef) error {
	if err := s.check(to); err != nil {
		return err
	}
	s.Merges = append(s.Merges, Merge{From: from, To: to})
	return nil
}

// Value returns the text of the value written at (row, col), "" when none
// was.
func (s *Sheet) Value(row, col int) string {
	return s.Values[project.CellRef{Row: row, Column: col}].String()
}

// Writer is an in-memory project.Writer.
type Writer struct {
	Sheets map[string]*Sheet
	Order  []string
	Styles []style.Info
	Names  []DefinedName
}

func NewWriter() *Writer {
	return &Writer{Sheets: make(map[string]*Sheet)}
}

func (w *Writer) Sheet(name string) (project.Sheet, error) {
	if s, ok := w.Sheets[name]; ok {
		return s, nil
	}
	s := &Sheet{name: name}
	_ = s.Clear()
	s.Cleared = 0
	w.Sheets[name] = s
	w.Order = append(w.Order, name)
	return s, nil
}

func (w *Writer) StyleIndex(s style.Info) (int, error) {
	for i, have := range w.Styles {
		if have == s {
			return i, nil
		}
	}
	w.Styles = append(w.Styles, s)
	return len(w.Styles) - 1, nil
}

func (w *Writer) AddDefinedName(sheet, name string, col, row, colCount, rowCount int) error {
	w.Names = append(w.Names, DefinedName{
		Sheet:       sheet,
		Name:        name,
		Column:      col,
		Row:         row,
		ColumnCount: colCount,
		RowCount:    rowCount,
	})
	return nil
}

// Name returns the last defined name called name.
func (w *Writer) Name(name string) (DefinedName, bool) {
	for i := len(w.Names) - 1; i >= 0; i-- {
		if w.Names[i].Name == name {
			return w.Names[i], true
		}
	}
	return DefinedName{}, false
}

type dump struct {
	Sheets []sheetDump `yaml:"sheets"`
}

type sheetDump struct {
	Name  string            `yaml:"name"`
	Cells map[string]string `yaml:"cells"`
}

// Save writes the sheets and their values as YAML.
func (w *Writer) Save(out io.Writer) error {
	var d dump
	for _, name := range w.Order {
		s := w.Sheets[name]
		sd := sheetDump{Name: name, Cells: make(map[string]string, len(s.Values))}
		for ref, v := range s.Values {
			sd.Cells[ref.String()] = v.String()
		}
		d.Sheets = append(d.Sheets, sd)
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(d)
}

// Object records what was done to one cloned drawing.
type Object struct {
	project.Object
	Anchor    project.Anchor
	Series    []project.SeriesRef
	Text      string
	Image     []byte
	ImagePath string
	Removed   bool
}

// Drawing is an in-memory project.Drawing.
type Drawing struct {
	Objects   []*Object
	Committed bool
}

func (d *Drawing) get(o project.Object) (*Object, error) {
	if o.ID < 1 || o.ID > len(d.Objects) {
		return nil, fmt.Errorf("unknown object %d", o.ID)
	}
	obj := d.Objects[o.ID-1]
	if obj.Removed {
		return nil, fmt.Errorf("object %d was removed", o.ID)
	}
	return obj, nil
}

func (d *Drawing) Clone(t *project.Template, sheet string) (project.Object, error) {
	o := project.Object{ID: len(d.Objects) + 1, Sheet: sheet, Template: t}
	d.Objects = append(d.Objects, &Object{Object: o})
	return o, nil
}

func (d *Drawing) MoveAndResize(o project.Object, a project.Anchor) error {
	obj, err := d.get(o)
	if err != nil {
		return err
	}
	obj.Anchor = a
	return nil
}

func (d *Drawing) UpdateSeries(o project.Object, s project.SeriesRef) error {
	obj, err := d.get(o)
	if err != nil {
		return err
	}
	obj.Series = append(obj.Series, s)
	return nil
}

func (d *Drawing) SetText(o project.Object, text string) error {
	obj, err := d.get(o)
	if err != nil {
		return err
	}
	obj.Text = text
	return nil
}

func (d *Drawing) SetImage(o project.Object, data []byte, path string) error {
	obj, err := d.get(o)
	if err != nil {
		return err
	}
	obj.Image, obj.ImagePath = data, path
	return nil
}

func (d *Drawing) Remove(o project.Object) error {
	obj, err := d.get(o)
	if err != nil {
		return err
	}
	obj.Removed = true
	return nil
}

func (d *Drawing) Commit() error {
	d.Committed = true
	return nil
}

// Live returns the objects that were not removed, in clone order.
func (d *Drawing) Live() []*Object {
	var out []*Object
	for _, o := range d.Objects {
		if !o.Removed {
			out = append(out, o)
		}
	}
	return out
}
