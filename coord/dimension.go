package coord

import (
	"sort"

	"github.com/aerissecure/sheetlayout/errs"
)

// DimensionRecord is one absolute row or column of a sheet.
type DimensionRecord struct {
	ExcelIndex int
	// Size is the row height in points or the column width in characters.
	Size   *float64
	Hidden bool
	// Nodes lists every node whose range covers this index, parents before
	// children.
	Nodes []NodeID

	next int
}

// DimensionModel is the ordered list of records of one axis. Records are
// linked by index so counting and in-order traversal are both O(n).
type DimensionModel struct {
	Axis    Axis
	records []DimensionRecord
	first   int
	last    int
}

func newDimensionModel(ax Axis) *DimensionModel {
	return &DimensionModel{Axis: ax, first: -1, last: -1}
}

// Append adds a record at the tail and gives it the next 1-based index.
func (m *DimensionModel) Append(size *float64, hidden bool) *DimensionRecord {
	idx := len(m.records)
	m.records = append(m.records, DimensionRecord{
		ExcelIndex: idx + 1,
		Size:       size,
		Hidden:     hidden,
		next:       -1,
	})
	if m.first < 0 {
		m.first = idx
	} else {
		m.records[m.last].next = idx
	}
	m.last = idx
	return &m.records[idx]
}

func (m *DimensionModel) Count() int { return len(m.records) }

// At returns the record with the given 1-based excel index.
func (m *DimensionModel) At(excelIndex int) *DimensionRecord {
	if excelIndex < 1 || excelIndex > len(m.records) {
		return nil
	}
	return &m.records[excelIndex-1]
}

// Each walks the records in order.
func (m *DimensionModel) Each(fn func(*DimensionRecord) error) error {
	for i := m.first; i >= 0; i = m.records[i].next {
		if err := fn(&m.records[i]); err != nil {
			return err
		}
	}
	return nil
}

// BuildRowsModel resolves absolute rows for every node under root and returns
// the row dimension model.
func (a *Arena) BuildRowsModel(root NodeID) (*DimensionModel, error) {
	return a.buildModel(root, Rows)
}

// BuildColumnsModel resolves absolute columns for every node under root and
// returns the column dimension model.
func (a *Arena) BuildColumnsModel(root NodeID) (*DimensionModel, error) {
	return a.buildModel(root, Columns)
}

func (a *Arena) buildModel(root NodeID, ax Axis) (*DimensionModel, error) {
	r, err := a.container(root, "Build"+ax.String()+"Model")
	if err != nil {
		return nil, err
	}
	if err := a.validate(root); err != nil {
		return nil, err
	}

	memo := make(map[NodeID][]int)
	ext := a.extents(r, ax, memo)
	total := sum(ext, 1, len(ext)-1)

	m := newDimensionModel(ax)
	if total == 0 {
		r.setRange(ax, 0, 0)
		return m, nil
	}
	a.assign(r, ax, 1, total, memo)

	for i := 0; i < total; i++ {
		m.Append(nil, false)
	}
	err = a.Walk(root, func(n *Node) error {
		start, end := n.Range(ax)
		if start == 0 {
			return nil
		}
		for idx := start; idx <= end; idx++ {
			rec := m.At(idx)
			rec.Nodes = append(rec.Nodes, n.id)
			if s := n.dimSize(ax); s != nil && (rec.Size == nil || *s > *rec.Size) {
				v := *s
				rec.Size = &v
			}
			if n.hidden(ax) {
				rec.Hidden = true
			}
		}
		return nil
	})
	return m, err
}

func (a *Arena) validate(root NodeID) error {
	return a.Walk(root, func(n *Node) error {
		if n.id != root && (n.Row < 1 || n.Column < 1) {
			return errs.UnresolvedPosition(int(n.id), n.Row, n.Column)
		}
		return nil
	})
}

// extents returns, for each local index 1..Size of container c, how many
// absolute dimensions that band takes. A band is at least one wide and grows
// to fit the nested containers placed in it. Index 0 is unused.
func (a *Arena) extents(c *Node, ax Axis, memo map[NodeID][]int) []int {
	if e, ok := memo[c.id]; ok {
		return e
	}
	n := a.Size(c.id, ax)
	ext := make([]int, n+1)
	for k := 1; k <= n; k++ {
		ext[k] = 1
	}

	type need struct {
		from, to, size int
	}
	var needs []need
	for _, chID := range c.children {
		ch := a.nodes[chID]
		if !ch.IsContainer() {
			continue
		}
		sub := a.extents(ch, ax, memo)
		from := ch.pos(ax)
		to := from + ch.span(ax) - 1
		if ch.toEnd(ax) {
			to = n
		}
		needs = append(needs, need{from: from, to: to, size: sum(sub, 1, len(sub)-1)})
	}
	// Narrow requirements first so wide ones only add what is still missing.
	sort.SliceStable(needs, func(i, j int) bool {
		return needs[i].to-needs[i].from < needs[j].to-needs[j].from
	})
	for _, nd := range needs {
		if have := sum(ext, nd.from, nd.to); nd.size > have {
			ext[nd.to] += nd.size - have
		}
	}
	memo[c.id] = ext
	return ext
}

// assign gives container c the absolute range [start, end] and resolves its
// children. end may exceed the container's own extent when the parent slot is
// larger; children spanning to the end then reach the slot end.
func (a *Arena) assign(c *Node, ax Axis, start, end int, memo map[NodeID][]int) {
	c.setRange(ax, start, end)
	ext := memo[c.id]
	off := make([]int, len(ext)+1)
	if len(ext) > 1 {
		off[1] = start
		for k := 1; k < len(ext); k++ {
			off[k+1] = off[k] + ext[k]
		}
	}
	for _, chID := range c.children {
		ch := a.nodes[chID]
		p := ch.pos(ax)
		s := off[p]
		var e int
		if ch.toEnd(ax) {
			e = end
		} else {
			last := p + ch.span(ax) - 1
			e = off[last] + ext[last] - 1
		}
		if e < s {
			e = s
		}
		if ch.IsContainer() {
			a.assign(ch, ax, s, e, memo)
			continue
		}
		ch.setRange(ax, s, e)
	}
}

func sum(v []int, from, to int) int {
	t := 0
	for k := from; k <= to && k < len(v); k++ {
		t += v[k]
	}
	return t
}
