package process

import (
	"strings"
	"unicode"

	"github.com/aerissecure/sheetlayout/binding"
	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
	"github.com/aerissecure/sheetlayout/style"
)

// boundData is table data together with the data context its items source
// is evaluated against.
type boundData struct {
	td   *layout.TableData
	data interface{}
}

// items evaluates the items source. An unset source means the data context
// itself is the collection.
func (b *boundData) items(w *walker) []interface{} {
	src := b.td.ItemsSource
	if !src.IsSet() {
		src = layout.Path(".")
	}
	items, err := binding.Items(w.eval(src, b.data))
	if err != nil {
		w.log.WithError(err).Debug("table items source is not a collection")
		return nil
	}
	return items
}

// tableLayout records where the parts of a table ended up so chart series
// can address them once positions are resolved.
type tableLayout struct {
	arena   *coord.Arena
	columns []*layout.Column
	headers []coord.NodeID
	body    coord.NodeID
	// columnNodes holds one container per data column; cells is indexed
	// [column][row].
	columnNodes []coord.NodeID
	cells       [][]coord.NodeID
	items       []interface{}
}

func (w *walker) registerTableData(td *layout.TableData, parent coord.NodeID, data interface{}) error {
	if td.Key == "" {
		w.log.Warn("table data without a key is ignored")
		return nil
	}
	return w.arena.AddKeyedElement(parent, td.Key, &boundData{td: td, data: data})
}

// tableData finds the table data of a table or chart: inline, registered
// under TableDataKey by an enclosing container, or stored as a resource. It
// returns nil when neither is given.
func (w *walker) tableData(owner string, inline *layout.TableData, key string, parent coord.NodeID, data interface{}) (*boundData, error) {
	switch {
	case inline != nil && key != "":
		return nil, errs.Configuration(owner, "TableData and TableDataKey are mutually exclusive")
	case inline != nil:
		return &boundData{td: inline, data: w.context(&inline.Base, data)}, nil
	case key != "":
		if bd, ok := coord.FirstAncestorKeyed[*boundData](w.arena, parent, key); ok {
			return bd, nil
		}
		td, err := binding.Lookup[*layout.TableData](w.p.resources, key)
		if err != nil {
			return nil, errs.Configuration(owner, "table data %q: %v", key, err)
		}
		return &boundData{td: td, data: data}, nil
	}
	return nil, nil
}

func (w *walker) table(t *layout.Table, parent coord.NodeID, data interface{}) (bool, error) {
	bd, err := w.tableData("Table", t.TableData, t.TableDataKey, parent, data)
	if err != nil {
		return false, err
	}
	n, _, err := w.buildTable(t, bd, data)
	if err != nil {
		return false, err
	}
	return true, w.arena.SetCoordinate(parent, n)
}

func (w *walker) leaf(v interface{}, styles ...*style.Style) *coord.Node {
	n := w.arena.New(coord.KindCell)
	n.Value, n.HasValue = v, true
	n.Styles = append([]*style.Style(nil), styles...)
	return n
}

func (w *walker) banner(v interface{}, styleKey string) *coord.Node {
	n := w.leaf(v, w.styleKeys(styleKey)...)
	n.ColumnSpanToEnd = true
	return n
}

func (w *walker) spacer() *coord.Node {
	n := w.arena.New(coord.KindPadding)
	n.ColumnSpanToEnd = true
	return n
}

func headerSpacer(t *layout.Table) bool {
	if !t.Header.IsSet() && !t.SubHeader.IsSet() {
		return false
	}
	if t.HeaderSpacer != nil {
		return *t.HeaderSpacer
	}
	return t.SubHeader.IsSet()
}

// buildTable lays a table out in a new, unattached container. Rows, top to
// bottom: header, sub-header, spacer, properties and their spacer, the data
// region, footer and sub-footer.
func (w *walker) buildTable(t *layout.Table, bd *boundData, data interface{}) (*coord.Node, *tableLayout, error) {
	cols := t.Columns
	if len(cols) == 0 && bd != nil {
		cols = bd.td.Columns
	}
	if len(cols) == 0 {
		return nil, nil, errs.Configuration("Table", "table %q has no columns", t.Key)
	}
	if bd == nil {
		bd = &boundData{td: &layout.TableData{Columns: cols}, data: data}
	}
	ts := t.TableStyles

	n := w.arena.NewContainer()
	w.apply(n, &t.Base, data)
	// The defined name belongs to the data rows, not the whole table.
	n.DefinedName = ""

	row := 1
	place := func(ch *coord.Node) error {
		err := w.arena.Place(n.ID(), ch, row, 1)
		row++
		return err
	}

	if t.Header.IsSet() {
		if err := place(w.banner(w.eval(t.Header, data), ts.Header)); err != nil {
			return nil, nil, err
		}
	}
	if t.SubHeader.IsSet() {
		if err := place(w.banner(w.eval(t.SubHeader, data), ts.SubHeader)); err != nil {
			return nil, nil, err
		}
	}
	if headerSpacer(t) {
		if err := place(w.spacer()); err != nil {
			return nil, nil, err
		}
	}

	if err := w.properties(t, data, place); err != nil {
		return nil, nil, err
	}

	tl, region, err := w.dataRegion(t, cols, bd)
	if err != nil {
		return nil, nil, err
	}
	if err := place(region); err != nil {
		return nil, nil, err
	}

	if t.Footer.IsSet() {
		if err := place(w.banner(w.eval(t.Footer, data), ts.Footer)); err != nil {
			return nil, nil, err
		}
	}
	if t.SubFooter.IsSet() {
		if err := place(w.banner(w.eval(t.SubFooter, data), ts.SubFooter)); err != nil {
			return nil, nil, err
		}
	}
	return n, tl, nil
}

// properties adds the property block and the spacer row after it. The spacer
// is hidden only when every property row is hidden.
func (w *walker) properties(t *layout.Table, data interface{}, place func(*coord.Node) error) error {
	type prop struct {
		p    *layout.Property
		data interface{}
	}
	var props []prop
	for _, p := range t.Properties {
		if p == nil || !w.enabled(&p.Base, data) {
			continue
		}
		props = append(props, prop{p: p, data: w.context(&p.Base, data)})
	}
	if len(props) == 0 {
		return nil
	}

	block := w.arena.NewContainer()
	block.ColumnSpanToEnd = true
	if err := place(block); err != nil {
		return err
	}
	labels := w.styleKeys(t.TableStyles.PropertyLabel)
	values := w.styleKeys(t.TableStyles.PropertyValue)
	allHidden := true
	for _, pr := range props {
		hidden, err := w.property(pr.p, block.ID(), pr.data, labels, values)
		if err != nil {
			return err
		}
		allHidden = allHidden && hidden
		if err := w.arena.MoveToNextRow(block.ID(), true); err != nil {
			return err
		}
	}

	sp := w.spacer()
	sp.HideRow = allHidden
	return place(sp)
}

func groupAt(c *layout.Column, level int) *layout.GroupHeader {
	if level < len(c.GroupHeaders) {
		return c.GroupHeaders[level]
	}
	return nil
}

// dataRegion builds group header rows, the column header row and the body.
// Each column's data lives in its own container inside the body so that it
// can carry a defined name and be addressed as a chart series.
func (w *walker) dataRegion(t *layout.Table, cols []*layout.Column, bd *boundData) (*tableLayout, *coord.Node, error) {
	ts := t.TableStyles
	d := w.arena.NewContainer()
	tl := &tableLayout{arena: w.arena, columns: cols, body: coord.NoNode}

	levels := 0
	for _, c := range cols {
		if len(c.GroupHeaders) > levels {
			levels = len(c.GroupHeaders)
		}
	}
	for l := 0; l < levels; l++ {
		for c := 0; c < len(cols); {
			gh := groupAt(cols[c], l)
			run := 1
			for gh != nil && c+run < len(cols) && groupAt(cols[c+run], l) == gh {
				run++
			}
			if gh != nil {
				cell := w.leaf(gh.Text, w.styleKeys(ts.GroupHeader, gh.StyleKey)...)
				cell.ColumnSpan = run
				if err := w.arena.Place(d.ID(), cell, l+1, c+1); err != nil {
					return nil, nil, err
				}
			}
			c += run
		}
	}

	hdrRow := levels + 1
	for i, c := range cols {
		h := w.leaf(c.Header, w.styleKeys(ts.ColumnHeader, c.HeaderStyleKey)...)
		h.Width = c.Width
		h.HideColumn = c.Hidden
		if err := w.arena.Place(d.ID(), h, hdrRow, i+1); err != nil {
			return nil, nil, err
		}
		tl.headers = append(tl.headers, h.ID())
	}
	if t.PadLastColumn {
		last := cols[len(cols)-1]
		pad := w.arena.New(coord.KindPadding)
		pad.Styles = w.styleKeys(ts.ColumnHeader, last.HeaderStyleKey)
		if err := w.arena.Place(d.ID(), pad, hdrRow, len(cols)+1); err != nil {
			return nil, nil, err
		}
	}

	items := bd.items(w)
	tl.items = items
	if len(items) == 0 {
		return tl, d, nil
	}

	body := w.arena.NewContainer()
	body.ColumnSpan = len(cols)
	body.DefinedName = t.DefinedName
	if err := w.arena.Place(d.ID(), body, hdrRow+1, 1); err != nil {
		return nil, nil, err
	}
	tl.body = body.ID()

	for i, c := range cols {
		cc := w.arena.NewContainer()
		cc.Width = c.Width
		cc.HideColumn = c.Hidden
		if t.DefinedName != "" {
			cc.DefinedName = t.DefinedName + "_" + nameSafe(c.DisplayName())
		}
		if err := w.arena.Place(body.ID(), cc, 1, i+1); err != nil {
			return nil, nil, err
		}
		tl.columnNodes = append(tl.columnNodes, cc.ID())

		cellStyles := w.styleKeys(ts.Data, c.StyleKey)
		if c.Format != "" {
			cellStyles = append(cellStyles, &style.Style{NumberFormat: style.String(c.Format)})
		}
		ids := make([]coord.NodeID, len(items))
		for r, item := range items {
			v, err := w.p.resolver.Resolve(c.Property, item)
			if err != nil {
				// One bad row must not abort the table: leave the cell blank.
				w.log.WithError(err).WithField("row", r+1).WithField("column", c.DisplayName()).Debug("cell binding failed")
				v = nil
			}
			cell := w.leaf(v, cellStyles...)
			cell.DataType = c.DataType
			if err := w.arena.Place(cc.ID(), cell, r+1, 1); err != nil {
				return nil, nil, err
			}
			ids[r] = cell.ID()
		}
		tl.cells = append(tl.cells, ids)
	}

	if t.PadLastColumn {
		pad := w.arena.New(coord.KindPadding)
		if err := w.arena.Place(d.ID(), pad, hdrRow+1, len(cols)+1); err != nil {
			return nil, nil, err
		}
	}
	return tl, d, nil
}

// nameSafe replaces characters that are not allowed in a defined name.
func nameSafe(s string) string {
	out := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
	if out == "" {
		return "_"
	}
	return out
}
