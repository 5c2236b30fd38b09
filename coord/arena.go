// Package coord holds the coordinate tree a layout is resolved into before
// anything is written: containers with local row/column spaces, the leaves
// placed in them, and the per-axis dimension models that map local positions
// onto absolute spreadsheet rows and columns.
//
// All nodes of one sheet live in a single Arena and refer to each other by
// NodeID, so parent links and dimension membership never form pointer cycles.
package coord

import (
	"fmt"

	"github.com/aerissecure/sheetlayout/style"
)

// NodeID is a stable handle into an Arena.
type NodeID int

// NoNode is the zero handle for "no parent" or "not found".
const NoNode NodeID = -1

// Kind is the capability set of a coordinate node.
type Kind uint8

const (
	// KindCell is a value-bearing leaf.
	KindCell Kind = iota
	// KindPlaceholder reserves grid space for a chart, shape or picture.
	KindPlaceholder
	// KindPadding reserves grid space and may carry styles but never a value.
	KindPadding
	// KindContainer owns a local coordinate space of child nodes.
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindCell:
		return "cell"
	case KindPlaceholder:
		return "placeholder"
	case KindPadding:
		return "padding"
	case KindContainer:
		return "container"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Axis selects rows or columns.
type Axis uint8

const (
	Rows Axis = iota
	Columns
)

func (a Axis) String() string {
	if a == Rows {
		return "rows"
	}
	return "columns"
}

// Node is one entry of the coordinate tree. Row and Column are 1-based and
// local to the parent container; the Excel* fields are absolute and stay 0
// until the dimension models have been built.
type Node struct {
	id     NodeID
	Kind   Kind
	Parent NodeID

	Row, Column         int
	RowSpan, ColumnSpan int
	RowSpanToEnd        bool
	ColumnSpanToEnd     bool

	DefinedName string
	Styles      []*style.Style

	// Value is only meaningful for KindCell; HasValue separates an explicit
	// nil from "no value".
	Value    interface{}
	HasValue bool
	DataType string

	Height, Width       *float64
	HideRow, HideColumn bool

	// Tag carries the payload of a placeholder (chart, shape or picture request).
	Tag interface{}

	ExcelRowStart, ExcelRowEnd       int
	ExcelColumnStart, ExcelColumnEnd int

	children     []NodeID
	cursorRow    int
	cursorColumn int
	keyed        map[string]interface{}
}

func (n *Node) ID() NodeID { return n.id }

func (n *Node) IsContainer() bool { return n.Kind == KindContainer }

func (n *Node) Children() []NodeID { return n.children }

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d@(%d,%d) span(%d,%d) abs[%d:%d,%d:%d]", n.Kind, n.id, n.Row, n.Column,
		n.RowSpan, n.ColumnSpan, n.ExcelRowStart, n.ExcelRowEnd, n.ExcelColumnStart, n.ExcelColumnEnd)
}

func (n *Node) pos(ax Axis) int {
	if ax == Rows {
		return n.Row
	}
	return n.Column
}

func (n *Node) span(ax Axis) int {
	s := n.ColumnSpan
	if ax == Rows {
		s = n.RowSpan
	}
	if s < 1 {
		return 1
	}
	return s
}

func (n *Node) toEnd(ax Axis) bool {
	if ax == Rows {
		return n.RowSpanToEnd
	}
	return n.ColumnSpanToEnd
}

func (n *Node) setRange(ax Axis, start, end int) {
	if ax == Rows {
		n.ExcelRowStart, n.ExcelRowEnd = start, end
		return
	}
	n.ExcelColumnStart, n.ExcelColumnEnd = start, end
}

// Range returns the absolute start and end on ax.
func (n *Node) Range(ax Axis) (int, int) {
	if ax == Rows {
		return n.ExcelRowStart, n.ExcelRowEnd
	}
	return n.ExcelColumnStart, n.ExcelColumnEnd
}

func (n *Node) dimSize(ax Axis) *float64 {
	if ax == Rows {
		return n.Height
	}
	return n.Width
}

func (n *Node) hidden(ax Axis) bool {
	if ax == Rows {
		return n.HideRow
	}
	return n.HideColumn
}

// Covers reports whether the absolute cell (row, col) lies in the node's range.
func (n *Node) Covers(row, col int) bool {
	return row >= n.ExcelRowStart && row <= n.ExcelRowEnd && col >= n.ExcelColumnStart && col <= n.ExcelColumnEnd
}

// Arena owns every node built for one sheet.
type Arena struct {
	nodes []*Node
}

func NewArena() *Arena {
	return &Arena{}
}

// New creates a detached node of the given kind. It takes part in layout
// once it is placed into a container.
func (a *Arena) New(kind Kind) *Node {
	n := &Node{
		id:         NodeID(len(a.nodes)),
		Kind:       kind,
		Parent:     NoNode,
		RowSpan:    1,
		ColumnSpan: 1,
	}
	a.nodes = append(a.nodes, n)
	return n
}

// NewContainer creates a detached container.
func (a *Arena) NewContainer() *Node {
	return a.New(KindContainer)
}

// Node returns the node for id, or nil for an unknown handle.
func (a *Arena) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Len is the number of nodes ever created in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Walk visits id and its descendants depth-first, parents before children,
// children in insertion order.
func (a *Arena) Walk(id NodeID, fn func(*Node) error) error {
	n := a.Node(id)
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}
	for _, ch := range n.children {
		if err := a.Walk(ch, fn); err != nil {
			return err
		}
	}
	return nil
}

// Depth is the number of ancestors of id.
func (a *Arena) Depth(id NodeID) int {
	d := 0
	for n := a.Node(id); n != nil && n.Parent != NoNode; n = a.Node(n.Parent) {
		d++
	}
	return d
}
