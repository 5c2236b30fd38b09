package xlsx

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice/chart"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/drawing"
	crt "github.com/unidoc/unioffice/schema/soo/dml/chart"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/sheetlayout/project"
)

// object is a drawing waiting for Commit. unioffice cannot take a chart
// back out of a drawing, so nothing is written before the object is final.
type object struct {
	obj     project.Object
	anchor  project.Anchor
	series  []project.SeriesRef
	text    string
	image   []byte
	path    string
	removed bool
}

// Drawings is the project.Drawing of a Workbook. Charts and pictures are
// built from their templates on Commit; shapes are not supported by
// unioffice and are skipped with a warning.
type Drawings struct {
	w        *Workbook
	objects  []*object
	drawings map[string]spreadsheet.Drawing
	log      logrus.FieldLogger
}

// Drawings returns the drawing layer of the workbook.
func (w *Workbook) Drawings() *Drawings {
	if w.drawings == nil {
		w.drawings = &Drawings{w: w, drawings: make(map[string]spreadsheet.Drawing), log: w.log}
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

// Commit writes every object that was not removed.
func (d *Drawings) Commit() error {
	for _, p := range d.objects {
		if p.removed {
			continue
		}
		var err error
		switch p.obj.Template.Kind {
		case "chart":
			err = d.chart(p)
		case "picture":
			err = d.picture(p)
		default:
			d.log.WithFields(logrus.Fields{
				"sheet":    p.obj.Sheet,
				"template": p.obj.Template.Key,
				"kind":     p.obj.Template.Kind,
			}).Warn("drawing kind is not supported by the unioffice backend, skipping")
		}
		if err != nil {
			return errors.Wrapf(err, "drawing %q on %q", p.obj.Template.Key, p.obj.Sheet)
		}
	}
	d.objects = nil
	return nil
}

func (d *Drawings) drawingFor(sheet string) spreadsheet.Drawing {
	if dw, ok := d.drawings[sheet]; ok {
		return dw
	}
	dw := d.w.wb.AddDrawing()
	d.w.sheets[sheet].sh.SetDrawing(dw)
	d.drawings[sheet] = dw
	return dw
}

func place(anc spreadsheet.Anchor, a project.Anchor) {
	anc.MoveTo(int32(a.FromColumn-1), int32(a.FromRow-1))
	anc.SetWidthCells(int32(a.Columns()))
	anc.SetHeightCells(int32(a.Rows()))
}

// series is the part of the unioffice series types that is filled in from a
// SeriesRef.
type series interface {
	SetText(s string)
	CategoryAxis() chart.CategoryAxisDataSource
	Values() chart.NumberDataSource
	Properties() drawing.ShapeProperties
}

func fillSeries(s series, ref project.SeriesRef) {
	s.SetText(ref.Name)
	if ref.Categories != "" {
		s.CategoryAxis().SetLabelReference(ref.Categories)
	}
	s.Values().SetReference(ref.Values)
	if ref.Color != "" {
		s.Properties().SetSolidFill(hexColor(ref.Color))
	}
}

type axes interface {
	AddAxis(chart.Axis)
}

func addAxes(c chart.Chart, a axes) {
	ca := c.AddCategoryAxis()
	va := c.AddValueAxis()
	a.AddAxis(ca)
	a.AddAxis(va)
	ca.SetCrosses(va)
	va.SetCrosses(ca)
}

func (d *Drawings) chart(p *object) error {
	t := p.obj.Template
	c, anc := d.drawingFor(p.obj.Sheet).AddChart(spreadsheet.AnchorTypeTwoCell)
	place(anc, p.anchor)

	title := p.text
	if title == "" {
		title = t.Title
	}
	if title != "" {
		c.AddTitle().SetText(title)
	}

	switch strings.ToLower(t.ChartType) {
	case "line":
		lc := c.AddLineChart()
		for _, ref := range p.series {
			fillSeries(lc.AddSeries(), ref)
		}
		addAxes(c, lc)
	case "area":
		ac := c.AddAreaChart()
		for _, ref := range p.series {
			fillSeries(ac.AddSeries(), ref)
		}
		addAxes(c, ac)
	case "pie":
		pc := c.AddPieChart()
		for _, ref := range p.series {
			fillSeries(pc.AddSeries(), ref)
		}
	case "bar", "col", "":
		bc := c.AddBarChart()
		if strings.EqualFold(t.ChartType, "bar") {
			bc.SetDirection(crt.ST_BarDirBar)
		} else {
			bc.SetDirection(crt.ST_BarDirCol)
		}
		for _, ref := range p.series {
			fillSeries(bc.AddSeries(), ref)
		}
		addAxes(c, bc)
	default:
		return errors.Errorf("unsupported chart type %q", t.ChartType)
	}

	if t.Legend {
		c.AddLegend()
	}
	return nil
}

func (d *Drawings) picture(p *object) error {
	data, path := p.image, p.path
	if data == nil && path == "" {
		data, path = p.obj.Template.Image, p.obj.Template.ImagePath
	}
	var (
		img common.Image
		err error
	)
	if data != nil {
		img, err = common.ImageFromBytes(data)
	} else {
		img, err = common.ImageFromFile(path)
	}
	if err != nil {
		return errors.Wrap(err, "load image")
	}
	ref, err := d.w.wb.AddImage(img)
	if err != nil {
		return errors.Wrap(err, "add image")
	}
	anc := d.drawingFor(p.obj.Sheet).AddImage(ref, spreadsheet.AnchorTypeTwoCell)
	place(anc, p.anchor)
	return nil
}
