package xlsx

import "fmt"

// Read-back representation of a written workbook. Sizes are in pixels.

// CellStyle is the part of a cell format the preview renders.
type CellStyle struct {
	FontFamily      string  // e.g. "Calibri"
	FontSizePt      float64 // original size in points
	FontColor       string  // "RRGGBB"
	Bold            bool
	Italic          bool
	BackgroundColor string // "RRGGBB"
	BorderColor     string // left border color stands in for all edges
	HorizontalAlign string // left|center|right|justify
	VerticalAlign   string // top|middle|bottom
	WrapText        bool
	NumberFormat    string
}

func (s CellStyle) String() string {
	return fmt.Sprintf("font=%s %.1fpt #%s bold=%t italic=%t bg=#%s border=#%s align=%s/%s wrap=%t fmt=%q",
		s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.BackgroundColor, s.BorderColor,
		s.HorizontalAlign, s.VerticalAlign, s.WrapText, s.NumberFormat)
}

// Cell is one written cell, or the origin of a merge region.
type Cell struct {
	Ref     string // e.g. "A1"
	Value   string // formatted value
	Numeric bool
	ColSpan int // 1 if not merged
	RowSpan int // 1 if not merged
	Style   CellStyle
}

func (c Cell) String() string {
	return fmt.Sprintf("%s=%q span=%dx%d", c.Ref, c.Value, c.RowSpan, c.ColSpan)
}

type Row struct {
	HeightPx float64
	Hidden   bool
	Cells    []*Cell // one per column; nil for blank or merged-over cells
}

type SheetModel struct {
	Name         string
	ColumnWidths []float64
	ColumnHidden []bool
	Rows         []Row
}

// Cell returns the cell at a 1-based position, or nil.
func (s SheetModel) Cell(row, col int) *Cell {
	if row < 1 || row > len(s.Rows) {
		return nil
	}
	cells := s.Rows[row-1].Cells
	if col < 1 || col > len(cells) {
		return nil
	}
	return cells[col-1]
}

// Value returns the formatted value at a 1-based position, "" for a blank
// cell.
func (s SheetModel) Value(row, col int) string {
	if c := s.Cell(row, col); c != nil {
		return c.Value
	}
	return ""
}

type DefinedName struct {
	Name string
	Ref  string
}

// Model is a read-back workbook.
type Model struct {
	Sheets []SheetModel
	Names  []DefinedName
}

// Sheet returns the sheet called name.
func (m Model) Sheet(name string) (SheetModel, bool) {
	for _, s := range m.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetModel{}, false
}
