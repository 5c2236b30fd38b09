// Package grid resolves the absolute cells of a laid-out sheet. Every cell is
// the result of layering all coordinate nodes that cover it, outermost
// container first and innermost leaf last.
package grid

import (
	"fmt"

	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/style"
)

// Ref is an absolute 1-based cell position. The zero Ref means "none".
type Ref struct {
	Row, Column int
}

func (r Ref) IsZero() bool { return r.Row == 0 && r.Column == 0 }

func (r Ref) String() string { return fmt.Sprintf("R%dC%d", r.Row, r.Column) }

// Cell is one resolved grid cell.
type Cell struct {
	Row, Column int

	Value    interface{}
	HasValue bool
	DataType string
	Style    style.Info

	// LastSpanRow and LastSpanColumn bound the merge extent of a cell that is
	// the origin of a spanning leaf.
	LastSpanRow    int
	LastSpanColumn int

	// MergeFrom points at the origin of the merge region covering this cell;
	// MergeTo, set on an origin, points at the bottom right of its region.
	MergeFrom Ref
	MergeTo   Ref

	// Placeholder is the placeholder leaf anchored at this cell, if any.
	Placeholder coord.NodeID
	Layers      int
}

// Occupied reports whether any leaf or styled container covers the cell.
func (c *Cell) Occupied() bool {
	return c.HasValue || !c.Style.IsZero() || !c.MergeFrom.IsZero() || c.Placeholder != coord.NoNode
}

// ResolveCell layers the nodes covering (row, col). layers must be ordered
// from the sheet root down to the innermost leaf.
func ResolveCell(a *coord.Arena, row, col int, layers []coord.NodeID) Cell {
	c := Cell{
		Row:            row,
		Column:         col,
		LastSpanRow:    row,
		LastSpanColumn: col,
		Placeholder:    coord.NoNode,
		Layers:         len(layers),
	}
	for _, id := range layers {
		n := a.Node(id)
		if n == nil {
			continue
		}
		if n.IsContainer() {
			c.Style.ApplyContainerStyles(edgesOf(n, row, col), n.Styles...)
			continue
		}
		if n.ExcelRowStart == row && n.ExcelColumnStart == col {
			if n.Kind == coord.KindCell && n.HasValue {
				c.Value, c.HasValue, c.DataType = n.Value, true, n.DataType
			}
			if n.Kind == coord.KindPlaceholder {
				c.Placeholder = n.ID()
			}
			if n.ExcelRowEnd > c.LastSpanRow {
				c.LastSpanRow = n.ExcelRowEnd
			}
			if n.ExcelColumnEnd > c.LastSpanColumn {
				c.LastSpanColumn = n.ExcelColumnEnd
			}
		}
		c.Style.ApplyCellStyles(n.Styles...)
	}
	return c
}

func edgesOf(n *coord.Node, row, col int) style.Edges {
	var e style.Edges
	if row == n.ExcelRowStart {
		e |= style.EdgeTop
	}
	if row == n.ExcelRowEnd {
		e |= style.EdgeBottom
	}
	if col == n.ExcelColumnStart {
		e |= style.EdgeLeft
	}
	if col == n.ExcelColumnEnd {
		e |= style.EdgeRight
	}
	return e
}

// Merge is one merge region, origin to bottom right.
type Merge struct {
	From, To Ref
}

// Grid is the resolved sheet, row-major.
type Grid struct {
	Rows, Columns int
	cells         []Cell
	merges        []Merge
}

// At returns the cell at (row, col) or nil outside the grid.
func (g *Grid) At(row, col int) *Cell {
	if row < 1 || col < 1 || row > g.Rows || col > g.Columns {
		return nil
	}
	return &g.cells[(row-1)*g.Columns+col-1]
}

// Merges lists the merge regions in row-major order of their origins.
func (g *Grid) Merges() []Merge { return g.merges }

// Each visits the cells row by row.
func (g *Grid) Each(fn func(*Cell) error) error {
	for i := range g.cells {
		if err := fn(&g.cells[i]); err != nil {
			return err
		}
	}
	return nil
}

// Layers returns the nodes covering (row, col), outermost first.
func Layers(rows, cols *coord.DimensionModel, row, col int) []coord.NodeID {
	rr, cr := rows.At(row), cols.At(col)
	if rr == nil || cr == nil {
		return nil
	}
	in := make(map[coord.NodeID]struct{}, len(cr.Nodes))
	for _, id := range cr.Nodes {
		in[id] = struct{}{}
	}
	var out []coord.NodeID
	for _, id := range rr.Nodes {
		if _, ok := in[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Resolve layers every cell of the sheet described by the two dimension
// models and marks the merge regions.
func Resolve(a *coord.Arena, rows, cols *coord.DimensionModel) *Grid {
	g := &Grid{Rows: rows.Count(), Columns: cols.Count()}
	g.cells = make([]Cell, g.Rows*g.Columns)

	colSets := make([]map[coord.NodeID]struct{}, g.Columns+1)
	for c := 1; c <= g.Columns; c++ {
		nodes := cols.At(c).Nodes
		set := make(map[coord.NodeID]struct{}, len(nodes))
		for _, id := range nodes {
			set[id] = struct{}{}
		}
		colSets[c] = set
	}

	var layers []coord.NodeID
	for r := 1; r <= g.Rows; r++ {
		rowNodes := rows.At(r).Nodes
		for c := 1; c <= g.Columns; c++ {
			layers = layers[:0]
			for _, id := range rowNodes {
				if _, ok := colSets[c][id]; ok {
					layers = append(layers, id)
				}
			}
			*g.At(r, c) = ResolveCell(a, r, c, layers)
		}
	}
	g.markMerges()
	return g
}

// markMerges turns spanning origins into merge regions. A region that would
// overlap one claimed earlier is dropped rather than merged twice.
func (g *Grid) markMerges() {
	for r := 1; r <= g.Rows; r++ {
		for c := 1; c <= g.Columns; c++ {
			origin := g.At(r, c)
			if !origin.MergeFrom.IsZero() {
				continue
			}
			if origin.LastSpanRow == r && origin.LastSpanColumn == c {
				continue
			}
			to := Ref{Row: min(origin.LastSpanRow, g.Rows), Column: min(origin.LastSpanColumn, g.Columns)}
			if !g.free(r, c, to) {
				continue
			}
			from := Ref{Row: r, Column: c}
			for rr := r; rr <= to.Row; rr++ {
				for cc := c; cc <= to.Column; cc++ {
					if rr == r && cc == c {
						continue
					}
					g.At(rr, cc).MergeFrom = from
				}
			}
			origin.MergeTo = to
			g.merges = append(g.merges, Merge{From: from, To: to})
		}
	}
}

func (g *Grid) free(r, c int, to Ref) bool {
	for rr := r; rr <= to.Row; rr++ {
		for cc := c; cc <= to.Column; cc++ {
			if rr == r && cc == c {
				continue
			}
			cell := g.At(rr, cc)
			if !cell.MergeFrom.IsZero() || !cell.MergeTo.IsZero() {
				return false
			}
		}
	}
	return true
}
