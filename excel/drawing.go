package excel

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/sheetlayout/project"
)

// object is a drawing waiting for Commit.
type object struct {
	obj     project.Object
	anchor  project.Anchor
	series  []project.SeriesRef
	text    string
	image   []byte
	path    string
	removed bool
}

// Drawings is the project.Drawing of a Workbook. Objects are added to the
// file on Commit, sized to cover their anchor.
type Drawings struct {
	w       *Workbook
	objects []*object
	log     logrus.FieldLogger
}

// Drawings returns the drawing layer of the workbook.
func (w *Workbook) Drawings() *Drawings {
	if w.drawings == nil {
		w.drawings = &Drawings{w: w, log: w.log}
	}
	return w.drawings
}

func (d *Drawings) get(o project.Object) (*object, error) {
	if o.ID < 1 || o.ID > len(d.objects) {
		return nil, errors.Errorf("unknown drawing object %d", o.ID)
	}
	p := d.objects[o.ID-1]
	if p.removed {
		return nil, errors.Errorf("drawing object %d was removed", o.ID)
	}
	return p, nil
}

func (d *Drawings) Clone(t *project.Template, sheet string) (project.Object, error) {
	if t == nil {
		return project.Object{}, errors.New("clone: nil template")
	}
	if _, ok := d.w.sheets[sheet]; !ok {
		return project.Object{}, errors.Errorf("clone %q: sheet %q has not been written", t.Key, sheet)
	}
	o := project.Object{ID: len(d.objects) + 1, Sheet: sheet, Template: t}
	d.objects = append(d.objects, &object{obj: o})
	return o, nil
}

func (d *Drawings) MoveAndResize(o project.Object, a project.Anchor) error {
	p, err := d.get(o)
	if err != nil {
		return err
	}
	p.anchor = a
	return nil
}

func (d *Drawings) UpdateSeries(o project.Object, s project.SeriesRef) error {
	p, err := d.get(o)
	if err != nil {
		return err
	}
	p.series = append(p.series, s)
	return nil
}

func (d *Drawings) SetText(o project.Object, text string) error {
	p, err := d.get(o)
	if err != nil {
		return err
	}
	p.text = text
	return nil
}

func (d *Drawings) SetImage(o project.Object, data []byte, path string) error {
	p, err := d.get(o)
	if err != nil {
		return err
	}
	p.image, p.path = data, path
	return nil
}

func (d *Drawings) Remove(o project.Object) error {
	p, err := d.get(o)
	if err != nil {
		return err
	}
	p.removed = true
	return nil
}

// Commit adds every object that was not removed to the file.
func (d *Drawings) Commit() error {
	for _, p := range d.objects {
		if p.removed {
			continue
		}
		var err error
		switch p.obj.Template.Kind {
		case "chart":
			err = d.chart(p)
		case "shape":
			err = d.shape(p)
		case "picture":
			err = d.picture(p)
		default:
			d.log.WithFields(logrus.Fields{
				"sheet":    p.obj.Sheet,
				"template": p.obj.Template.Key,
				"kind":     p.obj.Template.Kind,
			}).Warn("unknown drawing kind, skipping")
		}
		if err != nil {
			return errors.Wrapf(err, "drawing %q on %q", p.obj.Template.Key, p.obj.Sheet)
		}
	}
	d.objects = nil
	return nil
}

// size returns the pixel size of the cells covered by a.
func (d *Drawings) size(sheet string, a project.Anchor) (uint, uint, error) {
	var w, h float64
	for c := a.FromColumn; c <= a.ToColumn; c++ {
		cw, err := d.w.f.GetColWidth(sheet, project.ColumnName(c))
		if err != nil {
			return 0, 0, err
		}
		w += columnPixels(cw)
	}
	for r := a.FromRow; r <= a.ToRow; r++ {
		rh, err := d.w.f.GetRowHeight(sheet, r)
		if err != nil {
			return 0, 0, err
		}
		h += rh * 4 / 3
	}
	return uint(w), uint(h), nil
}

// columnPixels converts a width in characters the way Excel renders it with
// the default font.
func columnPixels(width float64) float64 {
	if width < 1 {
		return width * 12
	}
	return width*7 + 5
}

func (p *object) cell() string {
	return project.CellRef{Row: p.anchor.FromRow, Column: p.anchor.FromColumn}.String()
}

var chartTypes = map[string]excelize.ChartType{
	"":     excelize.Col,
	"col":  excelize.Col,
	"bar":  excelize.Bar,
	"line": excelize.Line,
	"area": excelize.Area,
	"pie":  excelize.Pie,
}

func (d *Drawings) chart(p *object) error {
	t := p.obj.Template
	typ, ok := chartTypes[strings.ToLower(t.ChartType)]
	if !ok {
		return errors.Errorf("unsupported chart type %q", t.ChartType)
	}
	w, h, err := d.size(p.obj.Sheet, p.anchor)
	if err != nil {
		return err
	}

	c := &excelize.Chart{
		Type:      typ,
		Dimension: excelize.ChartDimension{Width: w, Height: h},
		Legend:    excelize.ChartLegend{Position: "none"},
	}
	if t.Legend {
		c.Legend.Position = "bottom"
	}
	title := p.text
	if title == "" {
		title = t.Title
	}
	if title != "" {
		c.Title = []excelize.RichTextRun{{Text: title}}
	}
	for _, ref := range p.series {
		s := excelize.ChartSeries{
			Name:       ref.NameRef,
			Categories: ref.Categories,
			Values:     ref.Values,
		}
		if s.Name == "" {
			s.Name = ref.Name
		}
		if ref.Color != "" {
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ref.Color}}
		}
		c.Series = append(c.Series, s)
	}
	return d.w.f.AddChart(p.obj.Sheet, p.cell(), c)
}

func (d *Drawings) shape(p *object) error {
	t := p.obj.Template
	w, h, err := d.size(p.obj.Sheet, p.anchor)
	if err != nil {
		return err
	}
	typ := t.ShapeType
	if typ == "" {
		typ = "rect"
	}
	s := &excelize.Shape{
		Cell:   p.cell(),
		Type:   typ,
		Width:  w,
		Height: h,
	}
	text := p.text
	if text == "" {
		text = t.Text
	}
	if text != "" {
		s.Paragraph = []excelize.RichTextRun{{Text: text}}
	}
	if t.Fill != "" {
		s.Fill = excelize.Fill{Color: []string{t.Fill}}
	}
	return d.w.f.AddShape(p.obj.Sheet, s)
}

func (d *Drawings) picture(p *object) error {
	data, path := p.image, p.path
	if data == nil && path == "" {
		data, path = p.obj.Template.Image, p.obj.Template.ImagePath
	}
	opts := &excelize.GraphicOptions{Positioning: "oneCell"}
	if data == nil {
		return errors.Wrap(d.w.f.AddPicture(p.obj.Sheet, p.cell(), path, opts), "add picture")
	}
	return errors.Wrap(d.w.f.AddPictureFromBytes(p.obj.Sheet, p.cell(), &excelize.Picture{
		Extension: project.ImageExt(path),
		File:      data,
		Format:    opts,
	}), "add picture")
}
