package xlsx

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/sheetlayout/style"
)

const (
	defaultColumnWidth = 8.43 // characters
	defaultRowHeight   = 15.0 // points
	pxPerChar          = 8.3
	pxPerPoint         = 1.333
)

// Read parses a workbook into a Model.
func Read(r io.ReaderAt, size int64) (Model, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return Model{}, errors.Wrap(err, "read workbook")
	}
	return model(wb), nil
}

// Model reads back the current state of the workbook.
func (w *Workbook) Model() Model {
	return model(w.wb)
}

func model(wb *spreadsheet.Workbook) Model {
	var m Model
	for _, sh := range wb.Sheets() {
		m.Sheets = append(m.Sheets, readSheet(wb, sh))
	}
	for _, dn := range wb.DefinedNames() {
		m.Names = append(m.Names, DefinedName{Name: dn.Name(), Ref: dn.Content()})
	}
	return m
}

type span struct{ rows, cols int }

// merges maps each merge origin (0-based row, col) to its span and marks the
// cells covered by it.
func merges(sh spreadsheet.Sheet) (map[[2]int]span, map[[2]int]bool) {
	origins := make(map[[2]int]span)
	covered := make(map[[2]int]bool)
	if sh.X().MergeCells == nil {
		return origins, covered
	}
	for _, mc := range sh.X().MergeCells.MergeCell {
		from, to, err := reference.ParseRangeReference(mc.RefAttr)
		if err != nil {
			continue
		}
		fr, fc := int(from.RowIdx)-1, int(from.ColumnIdx)
		tr, tc := int(to.RowIdx)-1, int(to.ColumnIdx)
		origins[[2]int{fr, fc}] = span{rows: tr - fr + 1, cols: tc - fc + 1}
		for r := fr; r <= tr; r++ {
			for c := fc; c <= tc; c++ {
				if r != fr || c != fc {
					covered[[2]int{r, c}] = true
				}
			}
		}
	}
	return origins, covered
}

func readSheet(wb *spreadsheet.Workbook, sh spreadsheet.Sheet) SheetModel {
	cols := 0
	for _, row := range sh.Rows() {
		for _, c := range row.Cells() {
			name, err := c.Column()
			if err != nil {
				continue
			}
			if idx := int(reference.ColumnToIndex(name)) + 1; idx > cols {
				cols = idx
			}
		}
	}

	s := SheetModel{
		Name:         sh.Name(),
		ColumnWidths: make([]float64, cols),
		ColumnHidden: make([]bool, cols),
	}
	for c := 0; c < cols; c++ {
		x := sh.Column(uint32(c + 1)).X()
		s.ColumnWidths[c] = defaultColumnWidth * pxPerChar
		if x.WidthAttr != nil && x.CustomWidthAttr != nil && *x.CustomWidthAttr {
			s.ColumnWidths[c] = *x.WidthAttr * pxPerChar
		}
		if x.HiddenAttr != nil {
			s.ColumnHidden[c] = *x.HiddenAttr
		}
	}

	origins, covered := merges(sh)
	for _, row := range sh.Rows() {
		ri := int(row.RowNumber()) - 1
		for len(s.Rows) <= ri {
			s.Rows = append(s.Rows, Row{HeightPx: defaultRowHeight * pxPerPoint, Cells: make([]*Cell, cols)})
		}
		rr := &s.Rows[ri]
		rr.Hidden = row.IsHidden()
		if x := row.X(); x.HtAttr != nil && x.CustomHeightAttr != nil && *x.CustomHeightAttr {
			rr.HeightPx = *x.HtAttr * pxPerPoint
		}

		for _, c := range row.Cells() {
			name, err := c.Column()
			if err != nil {
				continue
			}
			ci := int(reference.ColumnToIndex(name))
			if covered[[2]int{ri, ci}] {
				continue
			}
			rc := &Cell{
				Ref:     name + strconv.Itoa(ri+1),
				Value:   c.GetFormattedValue(),
				Numeric: c.IsNumber(),
				ColSpan: 1,
				RowSpan: 1,
			}
			if c.X().SAttr != nil {
				rc.Style = cellStyle(wb, *c.X().SAttr)
			}
			if sp, ok := origins[[2]int{ri, ci}]; ok {
				rc.RowSpan, rc.ColSpan = sp.rows, sp.cols
			}
			rr.Cells[ci] = rc
		}
	}
	return s
}

func cellStyle(wb *spreadsheet.Workbook, id uint32) CellStyle {
	var st CellStyle
	xfs := wb.StyleSheet.X().CellXfs
	if xfs == nil || int(id) >= len(xfs.Xf) {
		return st
	}
	xf := xfs.Xf[id]

	if font := fontOf(wb.StyleSheet, xf); font != nil {
		if len(font.Name) > 0 {
			st.FontFamily = font.Name[0].ValAttr
		}
		if len(font.Sz) > 0 {
			st.FontSizePt = font.Sz[0].ValAttr
		}
		if len(font.Color) > 0 && font.Color[0].RgbAttr != nil {
			st.FontColor = style.NormalizeColor(*font.Color[0].RgbAttr)
		}
		st.Bold = flagSet(font.B)
		st.Italic = flagSet(font.I)
	}
	if fill := fillOf(wb.StyleSheet, xf); fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil {
		fg := fill.PatternFill.FgColor
		if fg.RgbAttr != nil {
			st.BackgroundColor = style.NormalizeColor(*fg.RgbAttr)
		} else if fg.ThemeAttr != nil {
			if hex, ok := themeColor(wb, int(*fg.ThemeAttr)); ok {
				st.BackgroundColor = style.NormalizeColor(hex)
			}
		}
	}
	if b := borderOf(wb.StyleSheet, xf); b != nil && b.Left != nil && b.Left.Color != nil && b.Left.Color.RgbAttr != nil {
		st.BorderColor = style.NormalizeColor(*b.Left.Color.RgbAttr)
	}
	if a := xf.Alignment; a != nil {
		st.HorizontalAlign = a.HorizontalAttr.String()
		switch a.VerticalAttr.String() {
		case "top":
			st.VerticalAlign = "top"
		case "center":
			st.VerticalAlign = "middle"
		default:
			st.VerticalAlign = "bottom"
		}
		if a.WrapTextAttr != nil {
			st.WrapText = *a.WrapTextAttr
		}
	}
	if xf.NumFmtIdAttr != nil && wb.StyleSheet.X().NumFmts != nil {
		for _, nf := range wb.StyleSheet.X().NumFmts.NumFmt {
			if nf.NumFmtIdAttr == *xf.NumFmtIdAttr {
				st.NumberFormat = nf.FormatCodeAttr
			}
		}
	}
	return st
}

func flagSet(v []*sml.CT_BooleanProperty) bool {
	return len(v) > 0 && (v[0].ValAttr == nil || *v[0].ValAttr)
}

func fontOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Font {
	if xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	if i := int(*xf.FontIdAttr); i < len(ss.X().Fonts.Font) {
		return ss.X().Fonts.Font[i]
	}
	return nil
}

func fillOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Fill {
	if xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	if i := int(*xf.FillIdAttr); i < len(ss.X().Fills.Fill) {
		return ss.X().Fills.Fill[i]
	}
	return nil
}

func borderOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Border {
	if xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	if i := int(*xf.BorderIdAttr); i < len(ss.X().Borders.Border) {
		return ss.X().Borders.Border[i]
	}
	return nil
}

// themeColor resolves a 0-based theme color index to its RGB hex value,
// ignoring tint.
func themeColor(wb *spreadsheet.Workbook, idx int) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil {
		return "", false
	}
	cs := themes[0].ThemeElements.ClrScheme
	scheme := []*dml.CT_Color{
		cs.Dk1, cs.Lt1, cs.Dk2, cs.Lt2,
		cs.Accent1, cs.Accent2, cs.Accent3, cs.Accent4, cs.Accent5, cs.Accent6,
		cs.Hlink, cs.FolHlink,
	}
	if idx < 0 || idx >= len(scheme) || scheme[idx] == nil {
		return "", false
	}
	clr := scheme[idx]
	switch {
	case clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "":
		return clr.SrgbClr.ValAttr, true
	case clr.SysClr != nil && clr.SysClr.LastClrAttr != nil:
		return *clr.SysClr.LastClrAttr, true
	}
	return "", false
}
