// Package layout defines the declarative element tree a sheet is described
// with. The set of element kinds is closed: every element embeds Base and
// reports one of the Kind constants, and processors switch over Kind.
package layout

import "fmt"

// Kind identifies one element variant.
type Kind uint8

const (
	KindTemplate Kind = iota
	KindContentControl
	KindStackPanel
	KindCell
	KindPadding
	KindProperty
	KindTable
	KindTableData
	KindChart
	KindShape
	KindPicture
)

var kindNames = [...]string{
	KindTemplate:       "template",
	KindContentControl: "content",
	KindStackPanel:     "stack",
	KindCell:           "cell",
	KindPadding:        "padding",
	KindProperty:       "property",
	KindTable:          "table",
	KindTableData:      "tabledata",
	KindChart:          "chart",
	KindShape:          "shape",
	KindPicture:        "picture",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a markup kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Element is implemented by the element types of this package only.
type Element interface {
	Kind() Kind
	Common() *Base
}

// Base holds the attributes every element shares.
type Base struct {
	Key string

	// Enabled gates the element. An unset binding means enabled; a disabled
	// element and its descendants produce no output at all.
	Enabled Binding
	// DataContext replaces the inherited data context for this element and
	// its descendants when set.
	DataContext Binding

	// Styles are applied in order. Each binding resolves to a style key or a
	// *style.Style.
	Styles []Binding

	DefinedName string

	RowSpan, ColumnSpan int
	RowSpanToEnd        bool
	ColumnSpanToEnd     bool

	// Height is in points, Width in characters. Both resolve to a number.
	Height, Width Binding
	HideRow       Binding
	HideColumn    Binding

	// NonVisual elements are placed at the current position of a stack
	// panel without advancing it.
	NonVisual bool
}

func (b *Base) Common() *Base { return b }

// IsVisual reports whether the element occupies its own grid position.
func (b *Base) IsVisual() bool { return !b.NonVisual }

// StyleKeys is a helper that binds each key literally.
func StyleKeys(keys ...string) []Binding {
	out := make([]Binding, len(keys))
	for i, k := range keys {
		out[i] = Lit(k)
	}
	return out
}
