package binding

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
)

type address struct {
	City string
}

type customer struct {
	Name    string
	Address *address
	Tags    []string
	Extra   map[string]interface{}
	secret  string
}

func (c customer) Upper() string { return "UPPER " + c.Name }

func (c customer) Fails() (string, error) { return "", errors.New("lookup failed") }

func (c customer) Panics() string {
	var m map[string]int
	m["x"] = 1
	return ""
}

func TestPathResolver(t *testing.T) {
	c := &customer{
		Name:    "Alice",
		Address: &address{City: "Oslo"},
		Tags:    []string{"a", "b"},
		Extra:   map[string]interface{}{"score": 4.5},
		secret:  "s",
	}
	r := PathResolver{}

	cases := []struct {
		path string
		want interface{}
	}{
		{".", c},
		{"Name", "Alice"},
		{"Address.City", "Oslo"},
		{"Tags[1]", "b"},
		{"Extra.score", 4.5},
		{"Extra[score]", 4.5},
		{"Upper", "UPPER Alice"},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.path, c)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

func TestPathResolverFailures(t *testing.T) {
	c := customer{Name: "Bob"}
	r := PathResolver{}
	for _, path := range []string{"Missing", "Address.City", "Tags[3]", "secret", "Fails", "Panics", "Name..x", "Tags[1"} {
		_, err := r.Resolve(path, c)
		require.Error(t, err, path)
		assert.True(t, errs.IsBinding(err), path)
	}
}

func TestEvaluate(t *testing.T) {
	r := PathResolver{}
	v, err := Evaluate(r, layout.Binding{}, "ctx")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Evaluate(r, layout.Lit(3), "ctx")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = Evaluate(r, layout.Path("."), "ctx")
	require.NoError(t, err)
	assert.Equal(t, "ctx", v)
}

func TestItems(t *testing.T) {
	items, err := Items([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2}, items)

	items, err = Items(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2}, items)

	items, err = Items(nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = Items(5)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	tmpl := &layout.Template{}
	store := Chain(MapStore{}.Add("row", tmpl), MapStore{"n": 1, "row": "shadowed"})

	got, err := Lookup[*layout.Template](store, "row")
	require.NoError(t, err)
	assert.Same(t, tmpl, got)

	_, err = Lookup[*layout.Template](store, "n")
	assert.True(t, errs.IsResourceNotFound(err), "wrong type")

	_, err = Lookup[*layout.Template](store, "missing")
	assert.True(t, errs.IsResourceNotFound(err))

	_, err = Lookup[*layout.Template](nil, "row")
	assert.True(t, errs.IsResourceNotFound(err))
}

func TestConversions(t *testing.T) {
	f, err := Float(decimal.RequireFromString("12.25"))
	require.NoError(t, err)
	assert.Equal(t, 12.25, f)

	f, err = Float(" 3.5 ")
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)

	_, err = Float(struct{}{})
	assert.Error(t, err)

	b, err := Bool("true")
	require.NoError(t, err)
	assert.True(t, b)
	b, err = Bool(0)
	require.NoError(t, err)
	assert.False(t, b)
	b, err = Bool(nil)
	require.NoError(t, err)
	assert.False(t, b)

	assert.Equal(t, "", String(nil))
	assert.Equal(t, "2.5", String(2.5))
	assert.Equal(t, "7", String(int64(7)))
}
