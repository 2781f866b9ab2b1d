package selection

// Direction represents cursor movement commands
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
)

// Cursor tracks the highlighted result. It is either empty (no results) or
// at an index in [0, n). Movement clamps at both ends and never wraps.
type Cursor struct {
	index int // -1 when empty
	count int
}

// NewCursor creates an empty cursor
func NewCursor() *Cursor {
	return &Cursor{index: -1}
}

// Reset is called whenever the result set is replaced. The cursor goes to the
// first result, or to empty when there are none; the old position is dropped
// because entries at the same position are unrelated across queries.
func (c *Cursor) Reset(count int) {
	if count <= 0 {
		c.index = -1
		c.count = 0
		return
	}
	c.index = 0
	c.count = count
}

// Index returns the current position and whether there is one
func (c *Cursor) Index() (int, bool) {
	if c.index < 0 {
		return 0, false
	}
	return c.index, true
}

// Empty reports whether there is no selection
func (c *Cursor) Empty() bool {
	return c.index < 0
}

// Len returns the size of the result set the cursor ranges over
func (c *Cursor) Len() int {
	return c.count
}

// Move applies a direction. pageSize is only used by page moves.
// Returns true when the position changed.
func (c *Cursor) Move(direction Direction, pageSize int) bool {
	if c.Empty() {
		return false
	}
	if pageSize < 1 {
		pageSize = 1
	}

	old := c.index
	switch direction {
	case DirectionNext:
		c.moveTo(c.index + 1)
	case DirectionPrevious:
		c.moveTo(c.index - 1)
	case DirectionHome:
		c.moveTo(0)
	case DirectionEnd:
		c.moveTo(c.count - 1)
	case DirectionPageUp:
		c.moveTo(c.index - pageSize)
	case DirectionPageDown:
		c.moveTo(c.index + pageSize)
	}
	return old != c.index
}

// Next moves down one result
func (c *Cursor) Next() bool { return c.Move(DirectionNext, 1) }

// Previous moves up one result
func (c *Cursor) Previous() bool { return c.Move(DirectionPrevious, 1) }

func (c *Cursor) moveTo(index int) {
	c.index = min(max(index, 0), c.count-1)
}
