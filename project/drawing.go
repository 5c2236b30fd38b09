package project

import (
	"path/filepath"
	"strings"
)

// Template describes a drawing object that is cloned onto a sheet for each
// chart, shape or picture element referring to it by key.
type Template struct {
	Key  string `yaml:"key"`
	Kind string `yaml:"kind"`

	// ChartType is one of bar, col, line, area or pie.
	ChartType string   `yaml:"chart_type,omitempty"`
	Palette   []string `yaml:"palette,omitempty"`
	Title     string   `yaml:"title,omitempty"`
	Legend    bool     `yaml:"legend,omitempty"`

	ShapeType string `yaml:"shape_type,omitempty"`
	Text      string `yaml:"text,omitempty"`
	Fill      string `yaml:"fill,omitempty"`

	Image     []byte `yaml:"-"`
	ImagePath string `yaml:"image,omitempty"`
}

// SeriesColor picks the palette entry for a series index, cycling through the
// palette. It returns "" when there is no palette.
func (t *Template) SeriesColor(index int) string {
	if len(t.Palette) == 0 || index < 0 {
		return ""
	}
	return t.Palette[index%len(t.Palette)]
}

// ImageExt returns the extension of an image path including the dot, or
// ".png" when it cannot be told.
func ImageExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ".png"
	}
	return ext
}

// Object is a drawing cloned onto a sheet.
type Object struct {
	ID       int
	Sheet    string
	Template *Template
}

// Anchor is the cell block an object covers, 1-based and inclusive.
type Anchor struct {
	FromRow, FromColumn int
	ToRow, ToColumn     int
}

func (a Anchor) Rows() int    { return a.ToRow - a.FromRow + 1 }
func (a Anchor) Columns() int { return a.ToColumn - a.FromColumn + 1 }

// SeriesRef points one chart series at sheet ranges.
type SeriesRef struct {
	Name       string
	NameRef    string
	Categories string
	Values     string
	Color      string
}

// Drawing is the drawing layer of a Writer. Changes may be buffered until
// Commit.
type Drawing interface {
	Clone(t *Template, sheet string) (Object, error)
	MoveAndResize(o Object, a Anchor) error
	UpdateSeries(o Object, s SeriesRef) error
	SetText(o Object, text string) error
	SetImage(o Object, data []byte, path string) error
	Remove(o Object) error
	Commit() error
}
