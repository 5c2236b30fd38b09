package project

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/grid"
	"github.com/aerissecure/sheetlayout/process"
)

// Projector writes processed sheets to a Writer.
type Projector struct {
	w   Writer
	d   Drawing
	res binding.ResourceStore
	log logrus.FieldLogger
}

// New returns a Projector. d may be nil when no drawings are expected;
// drawing requests are then logged and skipped.
func New(w Writer, d Drawing, res binding.ResourceStore, log logrus.FieldLogger) *Projector {
	if res == nil {
		res = binding.MapStore{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Projector{w: w, d: d, res: res, log: log}
}

// Sheet resolves s and rewrites the sheet of the same name from scratch:
// columns and rows, then cell values and styles, then merges and defined
// names. It returns the resolved grid.
func (p *Projector) Sheet(s *process.Sheet) (*grid.Grid, error) {
	log := p.log.WithField("sheet", s.Name)

	rows, err := s.Arena.BuildRowsModel(s.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve rows of %q", s.Name)
	}
	cols, err := s.Arena.BuildColumnsModel(s.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve columns of %q", s.Name)
	}
	g := grid.Resolve(s.Arena, rows, cols)

	sh, err := p.w.Sheet(s.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "open sheet %q", s.Name)
	}
	if err := sh.Clear(); err != nil {
		return nil, errors.Wrapf(err, "clear sheet %q", s.Name)
	}

	err = cols.Each(func(r *coord.DimensionRecord) error {
		return sh.AddColumn(r.Size, r.Hidden)
	})
	if err != nil {
		return nil, errors.Wrap(err, "add columns")
	}
	err = rows.Each(func(r *coord.DimensionRecord) error {
		return sh.AddRow(r.Size, r.Hidden)
	})
	if err != nil {
		return nil, errors.Wrap(err, "add rows")
	}

	err = g.Each(func(c *grid.Cell) error {
		ref := CellRef{Row: c.Row, Column: c.Column}
		if c.HasValue {
			if err := sh.SetValue(ref, Coerce(c.Value, c.DataType)); err != nil {
				return errors.Wrapf(err, "set value of %s", ref)
			}
		}
		if c.Style.IsZero() {
			return nil
		}
		idx, err := p.w.StyleIndex(c.Style)
		if err != nil {
			return errors.Wrapf(err, "style of %s", ref)
		}
		return errors.Wrapf(sh.SetStyle(ref, idx), "set style of %s", ref)
	})
	if err != nil {
		return nil, err
	}

	for _, m := range g.Merges() {
		from := CellRef{Row: m.From.Row, Column: m.From.Column}
		to := CellRef{Row: m.To.Row, Column: m.To.Column}
		if err := sh.Merge(from, to); err != nil {
			return nil, errors.Wrapf(err, "merge %s:%s", from, to)
		}
	}

	// Names are not deduplicated; a repeated name is written again.
	for _, dn := range s.Arena.DefinedNames(s.Root) {
		if dn.Degenerate() {
			log.WithField("name", dn.Name).Debug("skipping defined name with an empty range")
			continue
		}
		err := p.w.AddDefinedName(s.Name, dn.Name, dn.StartColumn, dn.StartRow, dn.ColumnCount(), dn.RowCount())
		if err != nil {
			return nil, errors.Wrapf(err, "defined name %q", dn.Name)
		}
	}

	log.WithFields(logrus.Fields{
		"rows":    g.Rows,
		"columns": g.Columns,
		"merges":  len(g.Merges()),
	}).Debug("sheet written")
	return g, nil
}

// Drawings clones, positions and fills the drawing objects requested by s.
// Every sheet a chart refers to, including the chart data sheet, must have
// been written with Sheet first.
func (p *Projector) Drawings(s *process.Sheet) error {
	for _, req := range s.Drawings {
		if err := p.draw(s, req); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projector) draw(s *process.Sheet, req *process.DrawingRequest) error {
	log := p.log.WithFields(logrus.Fields{
		"sheet":    s.Name,
		"drawing":  req.ID,
		"kind":     req.Kind.String(),
		"template": req.TemplateKey,
	})
	if p.d == nil {
		log.Warn("no drawing layer, skipping")
		return nil
	}
	t, err := binding.Lookup[*Template](p.res, req.TemplateKey)
	if err != nil {
		log.WithError(err).Warn("drawing template not found, skipping")
		return nil
	}

	ph := s.Arena.Node(req.Placeholder)
	if ph == nil {
		return errs.InvalidState("Drawings", "drawing %d has no placeholder", req.ID)
	}
	if ph.ExcelRowStart < 1 || ph.ExcelColumnStart < 1 {
		return errs.UnresolvedPosition(int(ph.ID()), ph.Row, ph.Column)
	}

	obj, err := p.d.Clone(t, s.Name)
	if err != nil {
		return errors.Wrapf(err, "clone %q", req.TemplateKey)
	}
	err = p.d.MoveAndResize(obj, Anchor{
		FromRow:    ph.ExcelRowStart,
		FromColumn: ph.ExcelColumnStart,
		ToRow:      ph.ExcelRowEnd,
		ToColumn:   ph.ExcelColumnEnd,
	})
	if err != nil {
		return errors.Wrapf(err, "position %q", req.TemplateKey)
	}

	switch req.Kind {
	case process.DrawChart:
		return p.chart(obj, t, req, log)
	case process.DrawShape:
		if req.Text == "" {
			return nil
		}
		return errors.Wrap(p.d.SetText(obj, req.Text), "shape text")
	case process.DrawPicture:
		data, path := req.Image, req.ImagePath
		if data == nil && path == "" {
			data, path = t.Image, t.ImagePath
		}
		if data == nil && path == "" {
			log.Warn("picture has no image, removing")
			return p.d.Remove(obj)
		}
		return errors.Wrap(p.d.SetImage(obj, data, path), "picture image")
	}
	return errs.InvalidState("Drawings", "unknown drawing kind %s", req.Kind)
}

func (p *Projector) chart(obj Object, t *Template, req *process.DrawingRequest, log logrus.FieldLogger) error {
	if req.Chart == nil {
		return errs.InvalidState("Drawings", "chart %d has no data", req.ID)
	}
	series := req.Chart.Series()
	if len(series) == 0 {
		log.Info("chart has no series, removing")
		return p.d.Remove(obj)
	}
	if req.Text != "" {
		if err := p.d.SetText(obj, req.Text); err != nil {
			return errors.Wrap(err, "chart title")
		}
	}
	cats := FormatRange(req.Chart.Categories())
	for _, s := range series {
		ref := SeriesRef{
			Name:       s.Name,
			NameRef:    FormatRange(s.NameRef),
			Categories: cats,
			Values:     FormatRange(s.Values),
			Color:      t.SeriesColor(s.Info.BaseOnSeriesIndex),
		}
		if err := p.d.UpdateSeries(obj, ref); err != nil {
			return errors.Wrapf(err, "series %q", s.Name)
		}
	}
	return nil
}
