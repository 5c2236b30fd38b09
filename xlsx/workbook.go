// Package xlsx writes projected sheets to an Office Open XML workbook and
// reads written workbooks back for previews.
package xlsx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
)

// Workbook is a project.Writer backed by a unioffice workbook.
type Workbook struct {
	wb       *spreadsheet.Workbook
	sheets   map[string]*Sheet
	styles   map[style.Info]int
	drawings *Drawings
	log      logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Workbook {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Workbook{
		wb:     spreadsheet.New(),
		sheets: make(map[string]*Sheet),
		styles: make(map[style.Info]int),
		log:    log,
	}
}

// Open wraps an existing workbook so its sheets can be rewritten.
func Open(r io.ReaderAt, size int64, log logrus.FieldLogger) (*Workbook, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "read workbook")
	}
	w := New(log)
	w.wb = wb
	return w, nil
}

// X returns the underlying workbook.
func (w *Workbook) X() *spreadsheet.Workbook { return w.wb }

func (w *Workbook) Sheet(name string) (project.Sheet, error) {
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	for _, sh := range w.wb.Sheets() {
		if sh.Name() == name {
			s := &Sheet{sh: sh}
			w.sheets[name] = s
			return s, nil
		}
	}
	if len(name) > 31 {
		return nil, errors.Errorf("sheet name %q is longer than 31 characters", name)
	}
	sh := w.wb.AddSheet()
	sh.SetName(name)
	s := &Sheet{sh: sh}
	w.sheets[name] = s
	return s, nil
}

func (w *Workbook) StyleIndex(i style.Info) (int, error) {
	if idx, ok := w.styles[i]; ok {
		return idx, nil
	}
	ss := w.wb.StyleSheet
	cs := ss.AddCellStyle()

	if i.FontName != "" || i.FontSize > 0 || i.Bold || i.Italic || i.FontColor != "" {
		f := ss.AddFont()
		if i.FontName != "" {
			f.SetName(i.FontName)
		}
		if i.FontSize > 0 {
			f.SetSize(i.FontSize)
		}
		if i.Bold {
			f.SetBold(true)
		}
		if i.Italic {
			f.SetItalic(true)
		}
		if i.FontColor != "" {
			f.SetColor(hexColor(i.FontColor))
		}
		cs.SetFont(f)
	}

	if i.Fill != "" {
		fill := ss.Fills().AddFill()
		pf := fill.SetPatternFill()
		pf.SetPattern(sml.ST_PatternTypeSolid)
		pf.SetFgColor(hexColor(i.Fill))
		cs.SetFill(fill)
	}

	if !i.Top.IsZero() || !i.Bottom.IsZero() || !i.Left.IsZero() || !i.Right.IsZero() {
		b := ss.AddBorder()
		if !i.Top.IsZero() {
			b.SetTop(borderStyle(i.Top.Style), hexColor(i.Top.Color))
		}
		if !i.Bottom.IsZero() {
			b.SetBottom(borderStyle(i.Bottom.Style), hexColor(i.Bottom.Color))
		}
		if !i.Left.IsZero() {
			b.SetLeft(borderStyle(i.Left.Style), hexColor(i.Left.Color))
		}
		if !i.Right.IsZero() {
			b.SetRight(borderStyle(i.Right.Style), hexColor(i.Right.Color))
		}
		cs.SetBorder(b)
	}

	if h, ok := hAlign[i.HAlign]; ok {
		cs.SetHorizontalAlignment(h)
	}
	if v, ok := vAlign[i.VAlign]; ok {
		cs.SetVerticalAlignment(v)
	}
	if i.WrapText {
		cs.SetWrapped(true)
	}
	if i.NumberFormat != "" {
		cs.SetNumberFormat(i.NumberFormat)
	}

	idx := int(cs.Index())
	w.styles[i] = idx
	return idx, nil
}

func (w *Workbook) AddDefinedName(sheet, name string, col, row, colCount, rowCount int) error {
	from := project.CellRef{Row: row, Column: col}
	to := project.CellRef{Row: row + rowCount - 1, Column: col + colCount - 1}
	w.wb.AddDefinedName(name, project.QuoteSheet(sheet)+"!"+from.Absolute()+":"+to.Absolute())
	return nil
}

func (w *Workbook) Save(out io.Writer) error {
	return errors.Wrap(w.wb.Save(out), "save workbook")
}

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	sh   spreadsheet.Sheet
	cols uint32
	rows uint32
}

func (s *Sheet) Name() string { return s.sh.Name() }

func (s *Sheet) Clear() error {
	x := s.sh.X()
	x.SheetData = sml.NewCT_SheetData()
	x.Cols = nil
	x.MergeCells = nil
	s.cols, s.rows = 0, 0
	return nil
}

func (s *Sheet) AddColumn(width *float64, hidden bool) error {
	s.cols++
	if width == nil && !hidden {
		return nil
	}
	c := s.sh.Column(s.cols)
	if width != nil {
		c.SetWidth(measurement.Distance(*width) * measurement.Character)
		c.X().CustomWidthAttr = unioffice.Bool(true)
	}
	if hidden {
		c.SetHidden(true)
	}
	return nil
}

func (s *Sheet) AddRow(height *float64, hidden bool) error {
	s.rows++
	r := s.sh.Row(s.rows)
	if height != nil {
		r.SetHeight(measurement.Distance(*height) * measurement.Point)
	}
	if hidden {
		r.SetHidden(true)
	}
	return nil
}

func (s *Sheet) cell(ref project.CellRef) (spreadsheet.Cell, error) {
	if ref.Row < 1 || ref.Column < 1 || uint32(ref.Row) > s.rows || uint32(ref.Column) > s.cols {
		return spreadsheet.Cell{}, errors.Errorf("cell %s is outside the sheet (%d rows, %d columns)", ref, s.rows, s.cols)
	}
	return s.sh.Cell(ref.String()), nil
}

func (s *Sheet) SetValue(ref project.CellRef, v project.Value) error {
	c, err := s.cell(ref)
	if err != nil {
		return err
	}
	if v.Kind == project.NumberValue {
		c.SetNumber(v.Number)
	} else {
		c.SetString(v.Text)
	}
	return nil
}

func (s *Sheet) SetStyle(ref project.CellRef, idx int) error {
	c, err := s.cell(ref)
	if err != nil {
		return err
	}
	c.SetStyleIndex(uint32(idx))
	return nil
}

func (s *Sheet) Merge(from, to project.CellRef) error {
	if _, err := s.cell(to); err != nil {
		return err
	}
	s.sh.AddMergedCells(from.String(), to.String())
	return nil
}

var hAlign = map[string]sml.ST_HorizontalAlignment{
	"left":    sml.ST_HorizontalAlignmentLeft,
	"center":  sml.ST_HorizontalAlignmentCenter,
	"right":   sml.ST_HorizontalAlignmentRight,
	"justify": sml.ST_HorizontalAlignmentJustify,
	"fill":    sml.ST_HorizontalAlignmentFill,
}

var vAlign = map[string]sml.ST_VerticalAlignment{
	"top":    sml.ST_VerticalAlignmentTop,
	"center": sml.ST_VerticalAlignmentCenter,
	"middle": sml.ST_VerticalAlignmentCenter,
	"bottom": sml.ST_VerticalAlignmentBottom,
}

var borderStyles = map[string]sml.ST_BorderStyle{
	"thin":   sml.ST_BorderStyleThin,
	"medium": sml.ST_BorderStyleMedium,
	"thick":  sml.ST_BorderStyleThick,
	"dashed": sml.ST_BorderStyleDashed,
	"dotted": sml.ST_BorderStyleDotted,
	"double": sml.ST_BorderStyleDouble,
	"hair":   sml.ST_BorderStyleHair,
}

func borderStyle(s string) sml.ST_BorderStyle {
	if b, ok := borderStyles[s]; ok {
		return b
	}
	return sml.ST_BorderStyleThin
}

func hexColor(hex string) color.Color {
	if hex == "" {
		return color.Black
	}
	return color.FromHex("#" + style.NormalizeColor(hex))
}
