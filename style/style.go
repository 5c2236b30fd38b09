// Package style models the cascading cell styles applied by layout nodes and
// the flattened descriptor a spreadsheet writer turns into a style index.
package style

import (
	"fmt"
	"strings"
)

// Border is one edge of a cell border. Style follows the spreadsheet names
// (thin, medium, thick, dashed, dotted, double).
type Border struct {
	Style string `yaml:"style,omitempty"`
	Color string `yaml:"color,omitempty"` // "RRGGBB"
}

func (b Border) IsZero() bool { return b.Style == "" && b.Color == "" }

// Style is a named set of optional attributes. Only attributes that are set
// take part in the cascade; later styles override earlier ones.
type Style struct {
	Key          string   `yaml:"key,omitempty"`
	FontName     *string  `yaml:"font_name,omitempty"`
	FontSize     *float64 `yaml:"font_size,omitempty"`
	Bold         *bool    `yaml:"bold,omitempty"`
	Italic       *bool    `yaml:"italic,omitempty"`
	FontColor    *string  `yaml:"font_color,omitempty"`
	Fill         *string  `yaml:"fill,omitempty"`
	HAlign       *string  `yaml:"align,omitempty"`
	VAlign       *string  `yaml:"valign,omitempty"`
	WrapText     *bool    `yaml:"wrap_text,omitempty"`
	NumberFormat *string  `yaml:"number_format,omitempty"`
	Top          *Border  `yaml:"top,omitempty"`
	Bottom       *Border  `yaml:"bottom,omitempty"`
	Left         *Border  `yaml:"left,omitempty"`
	Right        *Border  `yaml:"right,omitempty"`
}

// Outline sets the same border on all four edges.
func (s *Style) Outline(b Border) *Style {
	s.Top, s.Bottom, s.Left, s.Right = &b, &b, &b, &b
	return s
}

func (s *Style) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Style(%s)", s.Key)
}

// Edges is a set of container boundaries a cell sits on.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edges) Has(edge Edges) bool { return e&edge != 0 }

// Info is the cumulative style of one grid cell. It is comparable and is
// used directly as the key for writer style indices.
type Info struct {
	FontName     string
	FontSize     float64
	Bold         bool
	Italic       bool
	FontColor    string
	Fill         string
	HAlign       string
	VAlign       string
	WrapText     bool
	NumberFormat string
	Top          Border
	Bottom       Border
	Left         Border
	Right        Border
}

func (i Info) IsZero() bool { return i == Info{} }

// ApplyCellStyles overlays every set attribute of styles, in order.
func (i *Info) ApplyCellStyles(styles ...*Style) {
	for _, s := range styles {
		if s == nil {
			continue
		}
		i.applyBody(s)
		if s.Top != nil {
			i.Top = normBorder(*s.Top)
		}
		if s.Bottom != nil {
			i.Bottom = normBorder(*s.Bottom)
		}
		if s.Left != nil {
			i.Left = normBorder(*s.Left)
		}
		if s.Right != nil {
			i.Right = normBorder(*s.Right)
		}
	}
}

// ApplyContainerStyles overlays styles of a container onto a cell at the
// given position inside it. Borders only apply on the container edges the
// cell touches; all other attributes fill the whole container.
func (i *Info) ApplyContainerStyles(edges Edges, styles ...*Style) {
	for _, s := range styles {
		if s == nil {
			continue
		}
		i.applyBody(s)
		if s.Top != nil && edges.Has(EdgeTop) {
			i.Top = normBorder(*s.Top)
		}
		if s.Bottom != nil && edges.Has(EdgeBottom) {
			i.Bottom = normBorder(*s.Bottom)
		}
		if s.Left != nil && edges.Has(EdgeLeft) {
			i.Left = normBorder(*s.Left)
		}
		if s.Right != nil && edges.Has(EdgeRight) {
			i.Right = normBorder(*s.Right)
		}
	}
}

func (i *Info) applyBody(s *Style) {
	if s.FontName != nil {
		i.FontName = *s.FontName
	}
	if s.FontSize != nil {
		i.FontSize = *s.FontSize
	}
	if s.Bold != nil {
		i.Bold = *s.Bold
	}
	if s.Italic != nil {
		i.Italic = *s.Italic
	}
	if s.FontColor != nil {
		i.FontColor = NormalizeColor(*s.FontColor)
	}
	if s.Fill != nil {
		i.Fill = NormalizeColor(*s.Fill)
	}
	if s.HAlign != nil {
		i.HAlign = *s.HAlign
	}
	if s.VAlign != nil {
		i.VAlign = *s.VAlign
	}
	if s.WrapText != nil {
		i.WrapText = *s.WrapText
	}
	if s.NumberFormat != nil {
		i.NumberFormat = *s.NumberFormat
	}
}

func normBorder(b Border) Border {
	b.Color = NormalizeColor(b.Color)
	return b
}

// NormalizeColor turns "#rrggbb" or an 8 digit ARGB value into "RRGGBB".
func NormalizeColor(hex string) string {
	hex = strings.ToUpper(strings.TrimPrefix(hex, "#"))
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}

// String, Bool and Float are helpers for building styles in code.
func String(v string) *string { return &v }
func Bool(v bool) *bool { return &v }
func Float(v float64) *float64 { return &v }
