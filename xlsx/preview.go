package xlsx

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// RenderHTML renders a read-back workbook as HTML tables, one per sheet.
// Every distinct cell style becomes a CSS class holding only what differs
// from the most common style of the workbook.
func RenderHTML(m Model) string {
	var b strings.Builder

	classes := make(map[CellStyle]string)
	var order []CellStyle
	counts := make(map[CellStyle]int)
	for _, s := range m.Sheets {
		for _, row := range s.Rows {
			for _, c := range row.Cells {
				if c == nil {
					continue
				}
				counts[c.Style]++
				if _, ok := classes[c.Style]; !ok {
					classes[c.Style] = fmt.Sprintf("cellstyle%d", len(order)+1)
					order = append(order, c.Style)
				}
			}
		}
	}
	base := commonStyle(order, counts)

	b.WriteString("<style>\n")
	b.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	fmt.Fprintf(&b, ".table td { padding: 4px 8px; %s }\n", styleCSS(base, CellStyle{}, true))
	for _, st := range order {
		if css := styleCSS(st, base, false); css != "" {
			fmt.Fprintf(&b, ".%s { %s }\n", classes[st], css)
		}
	}
	b.WriteString("</style>\n")

	for _, s := range m.Sheets {
		total := 0.0
		for _, w := range s.ColumnWidths {
			total += w
		}
		fmt.Fprintf(&b, "<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(s.Name))
		fmt.Fprintf(&b, "<table class=\"table\" style=\"width:%.0fpx;\">\n  <colgroup>\n", total)
		for i, w := range s.ColumnWidths {
			if s.ColumnHidden[i] {
				b.WriteString("    <col style=\"display:none;\">\n")
				continue
			}
			fmt.Fprintf(&b, "    <col style=\"width:%.0fpx;\">\n", w)
		}
		b.WriteString("  </colgroup>\n")

		covered := coveredCells(s)
		for ri, row := range s.Rows {
			css := fmt.Sprintf("height:%.0fpx;", row.HeightPx)
			if row.Hidden {
				css += "display:none;"
			}
			fmt.Fprintf(&b, "  <tr style=\"%s\">\n", css)
			for ci, c := range row.Cells {
				if covered[[2]int{ri, ci}] {
					continue
				}
				if c == nil {
					b.WriteString("    <td></td>\n")
					continue
				}
				attrs := ""
				if c.ColSpan > 1 {
					attrs += fmt.Sprintf(" colspan=\"%d\"", c.ColSpan)
				}
				if c.RowSpan > 1 {
					attrs += fmt.Sprintf(" rowspan=\"%d\"", c.RowSpan)
				}
				text := strings.ReplaceAll(html.EscapeString(c.Value), "\n", "<br>")
				fmt.Fprintf(&b, "    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n", c.Ref, attrs, classes[c.Style], text)
			}
			b.WriteString("  </tr>\n")
		}
		b.WriteString("</table>\n</div>\n")
	}
	return b.String()
}

// WriteHTML renders a read-back workbook to w as a standalone page.
func WriteHTML(w io.Writer, m Model) error {
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body>\n%s</body>\n</html>\n", RenderHTML(m))
	return err
}

// coveredCells marks every cell hidden under a merge origin, rows included.
func coveredCells(s SheetModel) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for ri, row := range s.Rows {
		for ci, c := range row.Cells {
			if c == nil || (c.RowSpan <= 1 && c.ColSpan <= 1) {
				continue
			}
			for r := ri; r < ri+c.RowSpan; r++ {
				for k := ci; k < ci+c.ColSpan; k++ {
					if r != ri || k != ci {
						out[[2]int{r, k}] = true
					}
				}
			}
		}
	}
	return out
}

// commonStyle picks the most used style, breaking ties by first use.
func commonStyle(order []CellStyle, counts map[CellStyle]int) CellStyle {
	if len(order) == 0 {
		return CellStyle{}
	}
	ranked := append([]CellStyle(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool { return counts[ranked[i]] > counts[ranked[j]] })
	return ranked[0]
}

// styleCSS returns the declarations of s that differ from base. With full
// set, fallbacks are written for the attributes s leaves empty.
func styleCSS(s, base CellStyle, full bool) string {
	var b strings.Builder
	if s.FontFamily != "" && s.FontFamily != base.FontFamily {
		fmt.Fprintf(&b, "font-family:'%s';", s.FontFamily)
	}
	if s.FontSizePt > 0 && s.FontSizePt != base.FontSizePt {
		fmt.Fprintf(&b, "font-size:%.1fpt;", s.FontSizePt)
	}
	if s.FontColor != "" && s.FontColor != base.FontColor {
		fmt.Fprintf(&b, "color:#%s;", s.FontColor)
	}
	if s.Bold != base.Bold {
		if s.Bold {
			b.WriteString("font-weight:bold;")
		} else {
			b.WriteString("font-weight:normal;")
		}
	}
	if s.Italic != base.Italic {
		if s.Italic {
			b.WriteString("font-style:italic;")
		} else {
			b.WriteString("font-style:normal;")
		}
	}
	if s.BackgroundColor != base.BackgroundColor {
		if s.BackgroundColor != "" {
			fmt.Fprintf(&b, "background-color:#%s;", s.BackgroundColor)
		} else {
			b.WriteString("background-color:transparent;")
		}
	}
	switch {
	case s.BorderColor != "" && s.BorderColor != base.BorderColor:
		fmt.Fprintf(&b, "border:1px solid #%s;", s.BorderColor)
	case s.BorderColor == "" && full:
		b.WriteString("border:1px solid #333;")
	}
	if s.HorizontalAlign != base.HorizontalAlign || (full && s.HorizontalAlign != "") {
		b.WriteString(textAlign(s.HorizontalAlign))
	}
	if s.VerticalAlign != base.VerticalAlign || (full && s.VerticalAlign != "") {
		b.WriteString(verticalAlign(s.VerticalAlign))
	}
	if s.WrapText != base.WrapText || full {
		if s.WrapText {
			b.WriteString("white-space:normal;")
		} else {
			b.WriteString("white-space:nowrap;overflow:hidden;")
		}
	}
	return b.String()
}

func textAlign(h string) string {
	switch h {
	case "center", "centerContinuous", "distributed":
		return "text-align:center;"
	case "right":
		return "text-align:right;"
	case "justify":
		return "text-align:justify;"
	}
	return "text-align:left;"
}

func verticalAlign(v string) string {
	switch v {
	case "top":
		return "vertical-align:top;"
	case "middle":
		return "vertical-align:middle;"
	}
	return "vertical-align:bottom;"
}
