package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetlayout/coord"
	"github.com/aerissecure/sheetlayout/style"
)

func build(t *testing.T, a *coord.Arena, root coord.NodeID) *Grid {
	t.Helper()
	rows, err := a.BuildRowsModel(root)
	require.NoError(t, err)
	cols, err := a.BuildColumnsModel(root)
	require.NoError(t, err)
	return Resolve(a, rows, cols)
}

func leaf(a *coord.Arena, parent coord.NodeID, row, col int, v interface{}) *coord.Node {
	n := a.New(coord.KindCell)
	n.Value, n.HasValue = v, true
	if err := a.Place(parent, n, row, col); err != nil {
		panic(err)
	}
	return n
}

func values(g *Grid) [][]interface{} {
	out := make([][]interface{}, g.Rows)
	for r := 1; r <= g.Rows; r++ {
		out[r-1] = make([]interface{}, g.Columns)
		for c := 1; c <= g.Columns; c++ {
			out[r-1][c-1] = g.At(r, c).Value
		}
	}
	return out
}

func TestResolveValuesAndMerges(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	title := leaf(a, root.ID(), 1, 1, "Report")
	title.ColumnSpanToEnd = true
	body := a.NewContainer()
	require.NoError(t, a.Place(root.ID(), body, 2, 1))
	leaf(a, body.ID(), 1, 1, "Name")
	leaf(a, body.ID(), 1, 2, "Amount")
	leaf(a, body.ID(), 2, 1, "Alice")
	leaf(a, body.ID(), 2, 2, 10.5)

	g := build(t, a, root.ID())

	want := [][]interface{}{
		{"Report", nil},
		{"Name", "Amount"},
		{"Alice", 10.5},
	}
	if diff := cmp.Diff(want, values(g)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Merge{{From: Ref{1, 1}, To: Ref{1, 2}}}, g.Merges())
	assert.Equal(t, Ref{1, 1}, g.At(1, 2).MergeFrom)
	assert.Equal(t, Ref{1, 2}, g.At(1, 1).MergeTo)
	assert.True(t, g.At(3, 2).MergeFrom.IsZero())
}

func TestContainerBordersOnlyOnEdges(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	box := a.NewContainer()
	box.Styles = []*style.Style{(&style.Style{Key: "box"}).Outline(style.Border{Style: "thin", Color: "000000"})}
	require.NoError(t, a.Place(root.ID(), box, 1, 1))
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			leaf(a, box.ID(), r, c, r*c)
		}
	}

	g := build(t, a, root.ID())
	thin := style.Border{Style: "thin", Color: "000000"}

	center := g.At(2, 2).Style
	assert.True(t, center.Top.IsZero() && center.Bottom.IsZero() && center.Left.IsZero() && center.Right.IsZero())

	corner := g.At(3, 3).Style
	assert.Equal(t, thin, corner.Bottom)
	assert.Equal(t, thin, corner.Right)
	assert.True(t, corner.Top.IsZero())

	topMid := g.At(1, 2).Style
	assert.Equal(t, thin, topMid.Top)
	assert.True(t, topMid.Left.IsZero())
}

func TestInnermostLayerWins(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	root.Styles = []*style.Style{{Key: "sheet", Fill: style.String("EEEEEE"), Bold: style.Bool(false)}}
	panel := a.NewContainer()
	panel.Styles = []*style.Style{{Key: "panel", Fill: style.String("CCCCCC")}}
	require.NoError(t, a.Place(root.ID(), panel, 1, 1))

	hidden := leaf(a, panel.ID(), 1, 1, "data only")
	hidden.Styles = []*style.Style{{Key: "x", Italic: style.Bool(true)}}
	shown := leaf(a, panel.ID(), 1, 1, "shown")
	shown.Styles = []*style.Style{{Key: "cell", Bold: style.Bool(true)}}

	g := build(t, a, root.ID())
	c := g.At(1, 1)
	assert.Equal(t, "shown", c.Value)
	assert.Equal(t, "CCCCCC", c.Style.Fill)
	assert.True(t, c.Style.Bold)
	assert.True(t, c.Style.Italic)
	assert.Equal(t, 4, c.Layers)
}

func TestOverlappingSpansAreNotMergedTwice(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	first := leaf(a, root.ID(), 1, 1, "first")
	first.RowSpan, first.ColumnSpan = 2, 2
	second := leaf(a, root.ID(), 2, 2, "second")
	second.ColumnSpan = 2

	g := build(t, a, root.ID())
	require.Len(t, g.Merges(), 1)
	assert.Equal(t, Merge{From: Ref{1, 1}, To: Ref{2, 2}}, g.Merges()[0])
	assert.Equal(t, Ref{1, 1}, g.At(2, 2).MergeFrom)
	assert.True(t, g.At(2, 3).MergeFrom.IsZero())
}

func TestPlaceholderAnchorsAtOrigin(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	ph := a.New(coord.KindPlaceholder)
	ph.RowSpan, ph.ColumnSpan = 3, 2
	require.NoError(t, a.Place(root.ID(), ph, 1, 1))

	g := build(t, a, root.ID())
	assert.Equal(t, ph.ID(), g.At(1, 1).Placeholder)
	assert.Equal(t, coord.NoNode, g.At(2, 1).Placeholder)
	assert.Equal(t, 3, g.At(1, 1).LastSpanRow)
	assert.Equal(t, 2, g.At(1, 1).LastSpanColumn)
	assert.False(t, g.At(1, 1).HasValue)
}

func TestLayersOrder(t *testing.T) {
	a := coord.NewArena()
	root := a.NewContainer()
	inner := a.NewContainer()
	require.NoError(t, a.Place(root.ID(), inner, 1, 1))
	n := leaf(a, inner.ID(), 1, 1, 1)

	rows, err := a.BuildRowsModel(root.ID())
	require.NoError(t, err)
	cols, err := a.BuildColumnsModel(root.ID())
	require.NoError(t, err)
	assert.Equal(t, []coord.NodeID{root.ID(), inner.ID(), n.ID()}, Layers(rows, cols, 1, 1))
	assert.Nil(t, Layers(rows, cols, 5, 1))
}
