package layout

import "fmt"

// Binding is an attribute value that is either a literal or a path evaluated
// against the data context of the element that carries it. The zero Binding
// is unset.
type Binding struct {
	Path    string
	Literal interface{}
	set     bool
}

// Lit binds a literal value.
func Lit(v interface{}) Binding { return Binding{Literal: v, set: true} }

// Path binds a path such as "Customer.Name" or "Lines[2].Amount". The path
// "." is the data context itself.
func Path(p string) Binding { return Binding{Path: p, set: true} }

func (b Binding) IsSet() bool { return b.set }

func (b Binding) IsPath() bool { return b.set && b.Path != "" }

func (b Binding) String() string {
	switch {
	case !b.set:
		return "<unset>"
	case b.Path != "":
		return "{" + b.Path + "}"
	}
	return fmt.Sprint(b.Literal)
}
