package layout

// Sheet is one worksheet of a document.
type Sheet struct {
	Name string
	Root Element
	// Data is the data context of Root.
	Data interface{}
}

// Document is an ordered list of sheets.
type Document struct {
	Sheets []*Sheet
}

// Children returns the direct child elements of e.
func Children(e Element) []Element {
	switch v := e.(type) {
	case *Template:
		if v.Root != nil {
			return []Element{v.Root}
		}
	case *ContentControl:
		if v.Content != nil {
			return []Element{v.Content}
		}
	case *StackPanel:
		return v.Items
	case *Table:
		out := make([]Element, 0, len(v.Properties)+1)
		for _, p := range v.Properties {
			out = append(out, p)
		}
		if v.TableData != nil {
			out = append(out, v.TableData)
		}
		return out
	case *Chart:
		if v.TableData != nil {
			return []Element{v.TableData}
		}
	}
	return nil
}

// Walk visits e and its descendants depth first. Templates referenced by key
// are not followed.
func Walk(e Element, fn func(Element) error) error {
	if e == nil {
		return nil
	}
	if err := fn(e); err != nil {
		return err
	}
	for _, ch := range Children(e) {
		if err := Walk(ch, fn); err != nil {
			return err
		}
	}
	return nil
}
