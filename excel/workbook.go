// Package excel is a second writer backend built on excelize. It supports
// everything the xlsx backend does and can also draw shapes.
package excel

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

const defaultColumnWidth = 8.43

// Workbook is a project.Writer backed by an excelize file.
type Workbook struct {
	f        *excelize.File
	sheets   map[string]*Sheet
	styles   map[style.Info]int
	drawings *Drawings
	log      logrus.FieldLogger
	// placeholder is the default sheet of a new file, renamed by the first
	// Sheet call.
	placeholder string
}

func New(log logrus.FieldLogger) *Workbook {
	if log == nil {
		log = logrus.StandardLogger()
	}
	f := excelize.NewFile()
	return &Workbook{
		f:           f,
		sheets:      make(map[string]*Sheet),
		styles:      make(map[style.Info]int),
		log:         log,
		placeholder: f.GetSheetName(0),
	}
}

// Open wraps an existing workbook so its sheets can be rewritten.
func Open(r io.Reader, log logrus.FieldLogger) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	w := New(log)
	w.f = f
	w.placeholder = ""
	return w, nil
}

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File { return w.f }

func (w *Workbook) Sheet(name string) (project.Sheet, error) {
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	switch idx, err := w.f.GetSheetIndex(name); {
	case err != nil:
		return nil, errors.Wrapf(err, "sheet %q", name)
	case idx >= 0:
	case w.placeholder != "":
		if err := w.f.SetSheetName(w.placeholder, name); err != nil {
			return nil, errors.Wrapf(err, "rename sheet to %q", name)
		}
		w.placeholder = ""
	default:
		if _, err := w.f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "add sheet %q", name)
		}
	}
	s := &Sheet{f: w.f, name: name}
	w.sheets[name] = s
	return s, nil
}

func (w *Workbook) StyleIndex(i style.Info) (int, error) {
	if idx, ok := w.styles[i]; ok {
		return idx, nil
	}
	st := &excelize.Style{}
	if i.FontName != "" || i.FontSize > 0 || i.Bold || i.Italic || i.FontColor != "" {
		st.Font = &excelize.Font{
			Bold:   i.Bold,
			Italic: i.Italic,
			Family: i.FontName,
			Size:   i.FontSize,
			Color:  i.FontColor,
		}
	}
	if i.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{i.Fill}}
	}
	for _, e := range []struct {
		edge string
		b    style.Border
	}{{"top", i.Top}, {"bottom", i.Bottom}, {"left", i.Left}, {"right", i.Right}} {
		if e.b.IsZero() {
			continue
		}
		st.Border = append(st.Border, excelize.Border{Type: e.edge, Color: e.b.Color, Style: borderStyle(e.b.Style)})
	}
	if i.HAlign != "" || i.VAlign != "" || i.WrapText {
		st.Alignment = &excelize.Alignment{Horizontal: i.HAlign, Vertical: vAlign(i.VAlign), WrapText: i.WrapText}
	}
	if i.NumberFormat != "" {
		nf := i.NumberFormat
		st.CustomNumFmt = &nf
	}

	idx, err := w.f.NewStyle(st)
	if err != nil {
		return 0, errors.Wrap(err, "new style")
	}
	w.styles[i] = idx
	return idx, nil
}

// AddDefinedName adds a workbook scoped name. A name written by an earlier
// projection of the sheet is replaced.
func (w *Workbook) AddDefinedName(sheet, name string, col, row, colCount, rowCount int) error {
	for _, dn := range w.f.GetDefinedName() {
		if dn.Name == name && (dn.Scope == "" || dn.Scope == "Workbook") {
			if err := w.f.DeleteDefinedName(&dn); err != nil {
				return errors.Wrapf(err, "replace defined name %q", name)
			}
		}
	}
	from := project.CellRef{Row: row, Column: col}
	to := project.CellRef{Row: row + rowCount - 1, Column: col + colCount - 1}
	err := w.f.SetDefinedName(&excelize.DefinedName{
		Name:     name,
		RefersTo: project.QuoteSheet(sheet) + "!" + from.Absolute() + ":" + to.Absolute(),
	})
	return errors.Wrapf(err, "defined name %q", name)
}

func (w *Workbook) Save(out io.Writer) error {
	return errors.Wrap(w.f.Write(out), "save workbook")
}

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	f    *excelize.File
	name string
	cols int
	rows int
}

func (s *Sheet) Name() string { return s.name }

// Clear removes the merges, rows and column settings of the sheet.
func (s *Sheet) Clear() error {
	merged, err := s.f.GetMergeCells(s.name)
	if err != nil {
		return errors.Wrap(err, "merged cells")
	}
	for _, m := range merged {
		if err := s.f.UnmergeCell(s.name, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return errors.Wrapf(err, "unmerge %s", m.GetStartAxis())
		}
	}

	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return errors.Wrap(err, "rows")
	}
	n, cols := s.rows, s.cols
	if len(rows) > n {
		n = len(rows)
	}
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	for r := n; r >= 1; r-- {
		if err := s.f.RemoveRow(s.name, r); err != nil {
			return errors.Wrapf(err, "remove row %d", r)
		}
	}
	if cols > 0 {
		last := project.ColumnName(cols)
		if err := s.f.SetColWidth(s.name, "A", last, defaultColumnWidth); err != nil {
			return errors.Wrap(err, "reset column widths")
		}
		if err := s.f.SetColVisible(s.name, "A:"+last, true); err != nil {
			return errors.Wrap(err, "reset column visibility")
		}
	}
	s.rows, s.cols = 0, 0
	return nil
}

func (s *Sheet) AddColumn(width *float64, hidden bool) error {
	s.cols++
	name := project.ColumnName(s.cols)
	if width != nil {
		if err := s.f.SetColWidth(s.name, name, name, *width); err != nil {
			return errors.Wrapf(err, "column %s width", name)
		}
	}
	if hidden {
		return errors.Wrapf(s.f.SetColVisible(s.name, name, false), "hide column %s", name)
	}
	return nil
}

func (s *Sheet) AddRow(height *float64, hidden bool) error {
	s.rows++
	if height != nil {
		if err := s.f.SetRowHeight(s.name, s.rows, *height); err != nil {
			return errors.Wrapf(err, "row %d height", s.rows)
		}
	}
	if hidden {
		return errors.Wrapf(s.f.SetRowVisible(s.name, s.rows, false), "hide row %d", s.rows)
	}
	return nil
}

func (s *Sheet) check(ref project.CellRef) error {
	if ref.Row < 1 || ref.Column < 1 || ref.Row > s.rows || ref.Column > s.cols {
		return errors.Errorf("cell %s is outside the sheet (%d rows, %d columns)", ref, s.rows, s.cols)
	}
	return nil
}

func (s *Sheet) SetValue(ref project.CellRef, v project.Value) error {
	if err := s.check(ref); err != nil {
		return err
	}
	var err error
	if v.Kind == project.NumberValue {
		err = s.f.SetCellFloat(s.name, ref.String(), v.Number, -1, 64)
	} else {
		err = s.f.SetCellStr(s.name, ref.String(), v.Text)
	}
	return errors.Wrapf(err, "set %s", ref)
}

func (s *Sheet) SetStyle(ref project.CellRef, idx int) error {
	if err := s.check(ref); err != nil {
		return err
	}
	return errors.Wrapf(s.f.SetCellStyle(s.name, ref.String(), ref.String(), idx), "style %s", ref)
}

func (s *Sheet) Merge(from, to project.CellRef) error {
	if err := s.check(to); err != nil {
		return err
	}
	return errors.Wrapf(s.f.MergeCell(s.name, from.String(), to.String()), "merge %s:%s", from, to)
}

var borderStyles = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
	"hair":   7,
}

func borderStyle(s string) int {
	if b, ok := borderStyles[s]; ok {
		return b
	}
	return 1
}

func vAlign(v string) string {
	if v == "middle" {
		return "center"
	}
	return v
}
