package coord

// DefinedNameRecord is the absolute range of a node that exports a name.
type DefinedNameRecord struct {
	Name        string
	StartRow    int
	StartColumn int
	EndRow      int
	EndColumn   int
}

func (d DefinedNameRecord) RowCount() int    { return d.EndRow - d.StartRow + 1 }
func (d DefinedNameRecord) ColumnCount() int { return d.EndColumn - d.StartColumn + 1 }

// Degenerate reports a range that was never resolved or covers nothing.
func (d DefinedNameRecord) Degenerate() bool {
	return d.StartRow < 1 || d.StartColumn < 1 || d.RowCount() < 1 || d.ColumnCount() < 1
}

// DefinedNames collects every named node under root in tree order.
func (a *Arena) DefinedNames(root NodeID) []DefinedNameRecord {
	var out []DefinedNameRecord
	_ = a.Walk(root, func(n *Node) error {
		if n.DefinedName == "" {
			return nil
		}
		out = append(out, DefinedNameRecord{
			Name:        n.DefinedName,
			StartRow:    n.ExcelRowStart,
			StartColumn: n.ExcelColumnStart,
			EndRow:      n.ExcelRowEnd,
			EndColumn:   n.ExcelColumnEnd,
		})
		return nil
	})
	return out
}
