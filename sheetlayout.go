// Package sheetlayout generates spreadsheet workbooks from declarative layout
// documents. Each sheet's element tree is laid out on a grid, written to the
// configured backend, and charts, shapes and pictures are drawn over the
// space reserved for them.
package sheetlayout

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/excel"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/process"
	"github.com/aerissecure/sheetlayout/project"
	"github.com/aerissecure/sheetlayout/style"
	"github.com/aerissecure/sheetlayout/xlsx"
)

// Backend names a workbook writer.
type Backend string

const (
	Unioffice Backend = "unioffice"
	Excelize  Backend = "excelize"
)

// Options configure a Generator.
type Options struct {
	Backend       Backend
	Logger        logrus.FieldLogger
	DataSheetName string
	Resources     binding.ResourceStore
	Binder        binding.Resolver
	// Styles are looked up after Resources.
	Styles map[string]*style.Style
	// DefaultColumnWidth and DefaultRowHeight apply to dimensions no
	// element sizes. Zero leaves the backend default.
	DefaultColumnWidth float64
	DefaultRowHeight   float64

	writer  project.Writer
	drawing project.Drawing
}

type Option func(*Options)

func WithBackend(b Backend) Option {
	return func(o *Options) { o.Backend = b }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithDataSheetName(name string) Option {
	return func(o *Options) { o.DataSheetName = name }
}

func WithResources(r binding.ResourceStore) Option {
	return func(o *Options) { o.Resources = r }
}

func WithBinder(r binding.Resolver) Option {
	return func(o *Options) { o.Binder = r }
}

// WithStyles adds named styles. Later calls add to earlier ones.
func WithStyles(styles map[string]*style.Style) Option {
	return func(o *Options) {
		if o.Styles == nil {
			o.Styles = make(map[string]*style.Style, len(styles))
		}
		for k, s := range styles {
			o.Styles[k] = s
		}
	}
}

func WithDefaultSizes(columnWidth, rowHeight float64) Option {
	return func(o *Options) { o.DefaultColumnWidth, o.DefaultRowHeight = columnWidth, rowHeight }
}

// WithWriter makes every generation write to w and d instead of a new
// workbook of the configured backend.
func WithWriter(w project.Writer, d project.Drawing) Option {
	return func(o *Options) { o.writer, o.drawing = w, d }
}

// Result is the outcome of one generation. Document is only set when Err is
// nil.
type Result struct {
	Document []byte
	Err      error
}

// Generator turns layout documents into workbooks. It holds no state
// between generations and may be used concurrently.
type Generator struct {
	opts Options
	log  logrus.FieldLogger
}

func New(opts ...Option) *Generator {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.Backend == "" {
		o.Backend = Unioffice
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return &Generator{opts: o, log: o.Logger}
}

func (g *Generator) resources() binding.ResourceStore {
	if len(g.opts.Styles) == 0 {
		return g.opts.Resources
	}
	styles := make(binding.MapStore, len(g.opts.Styles))
	for k, s := range g.opts.Styles {
		styles.Add(k, s)
	}
	return binding.Chain(g.opts.Resources, styles)
}

func (g *Generator) open(log logrus.FieldLogger) (project.Writer, project.Drawing, error) {
	if g.opts.writer != nil {
		return g.opts.writer, g.opts.drawing, nil
	}
	switch g.opts.Backend {
	case Unioffice:
		wb := xlsx.New(log)
		return wb, wb.Drawings(), nil
	case Excelize:
		wb := excel.New(log)
		return wb, wb.Drawings(), nil
	}
	return nil, nil, errs.Configuration("backend", "unknown backend %q", g.opts.Backend)
}

// Generate lays out and writes every sheet of doc. The first error aborts
// the whole document.
func (g *Generator) Generate(doc *layout.Document) Result {
	b, err := g.generate(doc)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Document: b}
}

func (g *Generator) generate(doc *layout.Document) ([]byte, error) {
	if doc == nil || len(doc.Sheets) == 0 {
		return nil, errs.Configuration("document", "a document needs at least one sheet")
	}
	log := g.log.WithField("run", uuid.NewString())

	seen := make(map[string]bool, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s == nil {
			continue
		}
		if seen[s.Name] {
			return nil, errs.Configuration("document", "sheet %q appears more than once", s.Name)
		}
		seen[s.Name] = true
	}

	w, d, err := g.open(log)
	if err != nil {
		return nil, err
	}
	if g.opts.DefaultColumnWidth > 0 || g.opts.DefaultRowHeight > 0 {
		w = sizedWriter{Writer: w, width: g.opts.DefaultColumnWidth, height: g.opts.DefaultRowHeight}
	}
	res := g.resources()

	p := process.New(process.Options{
		Resolver:      g.opts.Binder,
		Resources:     res,
		Logger:        log,
		IDs:           process.NewCounter(1),
		DataSheetName: g.opts.DataSheetName,
	})
	pj := project.New(w, d, res, log)

	sheets := make([]*process.Sheet, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		ps, err := p.Sheet(s)
		if err != nil {
			return nil, err
		}
		if _, err := pj.Sheet(ps); err != nil {
			return nil, err
		}
		sheets = append(sheets, ps)
	}
	if ds := p.DataSheet(); ds != nil {
		if _, err := pj.Sheet(ds); err != nil {
			return nil, errors.Wrap(err, "chart data")
		}
	}
	for _, ps := range sheets {
		if err := pj.Drawings(ps); err != nil {
			return nil, err
		}
	}
	if d != nil {
		if err := d.Commit(); err != nil {
			return nil, errors.Wrap(err, "commit drawings")
		}
	}

	var buf bytes.Buffer
	if err := w.Save(&buf); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"sheets":  len(sheets),
		"bytes":   buf.Len(),
		"backend": g.opts.Backend,
	}).Info("generated workbook")
	return buf.Bytes(), nil
}

// sizedWriter fills in default sizes for dimensions nothing sized.
type sizedWriter struct {
	project.Writer
	width, height float64
}

func (w sizedWriter) Sheet(name string) (project.Sheet, error) {
	s, err := w.Writer.Sheet(name)
	if err != nil {
		return nil, err
	}
	return sizedSheet{Sheet: s, width: w.width, height: w.height}, nil
}

type sizedSheet struct {
	project.Sheet
	width, height float64
}

func (s sizedSheet) AddColumn(width *float64, hidden bool) error {
	if width == nil && s.width > 0 {
		w := s.width
		width = &w
	}
	return s.Sheet.AddColumn(width, hidden)
}

func (s sizedSheet) AddRow(height *float64, hidden bool) error {
	if height == nil && s.height > 0 {
		h := s.height
		height = &h
	}
	return s.Sheet.AddRow(height, hidden)
}
