package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for k := KindTemplate; k <= KindPicture; k++ {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("grid")
	assert.False(t, ok)
}

func TestTemplatePreparesOnce(t *testing.T) {
	tmpl := &Template{Root: &Cell{Value: Lit("x")}}
	calls := 0
	prep := func(*Template) error { calls++; return nil }

	require.NoError(t, tmpl.Prepare(prep))
	require.NoError(t, tmpl.Prepare(prep))
	assert.Equal(t, 1, calls)
	assert.True(t, tmpl.Prepared())

	failing := &Template{}
	assert.Error(t, failing.Prepare(func(*Template) error { return errors.New("boom") }))
	assert.False(t, failing.Prepared())
}

func TestContentControlKeepsFirstTemplate(t *testing.T) {
	a, b := &Template{}, &Template{}
	cc := &ContentControl{ContentKey: "row"}
	assert.Same(t, a, cc.Resolve(a))
	assert.Same(t, a, cc.Resolve(b))
}

func TestWalkVisitsInlineChildren(t *testing.T) {
	td := &TableData{Base: Base{Key: "rows"}}
	root := &StackPanel{Items: []Element{
		&Cell{},
		&Table{Properties: []*Property{{}}, TableData: td},
		&ContentControl{ContentKey: "not followed"},
	}}
	var kinds []Kind
	require.NoError(t, Walk(root, func(e Element) error {
		kinds = append(kinds, e.Kind())
		return nil
	}))
	assert.Equal(t, []Kind{KindStackPanel, KindCell, KindTable, KindProperty, KindTableData, KindContentControl}, kinds)
}

func TestBindingString(t *testing.T) {
	assert.Equal(t, "<unset>", Binding{}.String())
	assert.Equal(t, "{Name}", Path("Name").String())
	assert.Equal(t, "3", Lit(3).String())
	assert.True(t, Lit(nil).IsSet())
	assert.False(t, Lit(nil).IsPath())
}

func TestSeriesInfoExcluded(t *testing.T) {
	assert.False(t, SeriesInfo{}.Excluded())
	assert.True(t, SeriesInfo{BaseOnSeriesIndex: -1}.Excluded())
	assert.True(t, SeriesInfo{Suppress: true}.Excluded())
}
