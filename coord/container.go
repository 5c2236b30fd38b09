package coord

import (
	"github.com/aerissecure/sheetlayout/errs"
)

// Cursor is a container's current insertion position. Zero values mean the
// position has not been established yet.
type Cursor struct {
	Row, Column int
}

func (a *Arena) container(id NodeID, op string) (*Node, error) {
	c := a.Node(id)
	if c == nil {
		return nil, errs.InvalidState(op, "unknown node %d", id)
	}
	if !c.IsContainer() {
		return nil, errs.InvalidState(op, "node %d is a %s, not a container", id, c.Kind)
	}
	return c, nil
}

// Cursor returns the current insertion position of container id.
func (a *Arena) Cursor(id NodeID) Cursor {
	c := a.Node(id)
	if c == nil {
		return Cursor{}
	}
	return Cursor{Row: c.cursorRow, Column: c.cursorColumn}
}

// SetCoordinate places child at the container's cursor. A container that has
// never been positioned starts at (1,1); a half-set cursor is an error.
func (a *Arena) SetCoordinate(id NodeID, child *Node) error {
	c, err := a.container(id, "SetCoordinate")
	if err != nil {
		return err
	}
	if c.cursorRow == 0 && c.cursorColumn == 0 {
		c.cursorRow, c.cursorColumn = 1, 1
	}
	if c.cursorRow == 0 || c.cursorColumn == 0 {
		return errs.InvalidState("SetCoordinate", "container %d cursor at (%d,%d)", id, c.cursorRow, c.cursorColumn)
	}
	return a.attach(c, child, c.cursorRow, c.cursorColumn)
}

// Place puts child at an explicit local position without touching the cursor.
func (a *Arena) Place(id NodeID, child *Node, row, col int) error {
	c, err := a.container(id, "Place")
	if err != nil {
		return err
	}
	if row < 1 || col < 1 {
		return errs.InvalidState("Place", "position (%d,%d) in container %d", row, col, id)
	}
	return a.attach(c, child, row, col)
}

func (a *Arena) attach(c, child *Node, row, col int) error {
	if child.Parent != NoNode {
		return errs.InvalidState("SetCoordinate", "node %d already placed in container %d", child.id, child.Parent)
	}
	if child.id == c.id {
		return errs.InvalidState("SetCoordinate", "container %d cannot contain itself", c.id)
	}
	child.Parent = c.id
	child.Row, child.Column = row, col
	c.children = append(c.children, child.id)
	return nil
}

// MoveToNextRow advances the row cursor by one. The column cursor is only
// reset to 1 when resetColumn is set.
func (a *Arena) MoveToNextRow(id NodeID, resetColumn bool) error {
	c, err := a.container(id, "MoveToNextRow")
	if err != nil {
		return err
	}
	if c.cursorRow == 0 {
		c.cursorRow = 1
	}
	c.cursorRow++
	if resetColumn {
		c.cursorColumn = 1
	}
	return nil
}

// MoveToNextColumn advances the column cursor by one. The row cursor is only
// reset to 1 when resetRow is set.
func (a *Arena) MoveToNextColumn(id NodeID, resetRow bool) error {
	c, err := a.container(id, "MoveToNextColumn")
	if err != nil {
		return err
	}
	if c.cursorColumn == 0 {
		c.cursorColumn = 1
	}
	c.cursorColumn++
	if resetRow {
		c.cursorRow = 1
	}
	return nil
}

func (a *Arena) SetCurrentRow(id NodeID, row int) error {
	c, err := a.container(id, "SetCurrentRow")
	if err != nil {
		return err
	}
	if row < 1 {
		return errs.InvalidState("SetCurrentRow", "row %d", row)
	}
	c.cursorRow = row
	return nil
}

func (a *Arena) SetCurrentColumn(id NodeID, col int) error {
	c, err := a.container(id, "SetCurrentColumn")
	if err != nil {
		return err
	}
	if col < 1 {
		return errs.InvalidState("SetCurrentColumn", "column %d", col)
	}
	c.cursorColumn = col
	return nil
}

// Size is the number of local rows or columns occupied by the children of a
// container: the highest local index any child reaches. Children that span
// to the container end only count their start.
func (a *Arena) Size(id NodeID, ax Axis) int {
	c := a.Node(id)
	if c == nil || !c.IsContainer() {
		return 0
	}
	max := 0
	for _, chID := range c.children {
		ch := a.nodes[chID]
		end := ch.pos(ax)
		if !ch.toEnd(ax) {
			end += ch.span(ax) - 1
		}
		if end > max {
			max = end
		}
	}
	return max
}

// AddKeyedElement stores v under key in container id.
func (a *Arena) AddKeyedElement(id NodeID, key string, v interface{}) error {
	c, err := a.container(id, "AddKeyedElement")
	if err != nil {
		return err
	}
	if c.keyed == nil {
		c.keyed = make(map[string]interface{})
	}
	c.keyed[key] = v
	return nil
}

// FirstAncestorKeyed looks key up in id and then in each enclosing container.
// Only values of type T match.
func FirstAncestorKeyed[T any](a *Arena, id NodeID, key string) (T, bool) {
	var zero T
	for n := a.Node(id); n != nil; n = a.Node(n.Parent) {
		if v, ok := n.keyed[key]; ok {
			if t, ok := v.(T); ok {
				return t, true
			}
		}
	}
	return zero, false
}
