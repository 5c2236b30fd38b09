package markup

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetlayout/layout"
)

// Binding decodes a YAML value into a layout.Binding. A string of the form
// "{Path}" binds to a path of the data context; anything else is a literal.
type Binding struct {
	layout.Binding
}

func (b *Binding) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		if p, ok := pathOf(n.Value); ok {
			b.Binding = layout.Path(p)
			return nil
		}
	}
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return err
	}
	b.Binding = layout.Lit(v)
	return nil
}

// pathOf returns the path inside "{...}". "{}" binds to the data context
// itself.
func pathOf(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return "", false
	}
	p := strings.TrimSpace(s[1 : len(s)-1])
	if p == "" {
		p = "."
	}
	return p, true
}

func bindings(bs []Binding) []layout.Binding {
	if len(bs) == 0 {
		return nil
	}
	out := make([]layout.Binding, len(bs))
	for i, b := range bs {
		out[i] = b.Binding
	}
	return out
}
