// ABOUTME: Pure checklist state of cursor position and toggled items
// ABOUTME: Drives both selection screens; testable without a terminal

package tui

// Checklist tracks the cursor and toggle-set for one selection screen. It
// holds indices only; the items themselves stay with the caller. All items
// start untoggled.
type Checklist struct {
	count    int
	cursor   int
	selected map[int]struct{}
}

// NewChecklist creates a checklist over count items with nothing selected
func NewChecklist(count int) Checklist {
	return Checklist{
		count:    count,
		selected: make(map[int]struct{}),
	}
}

// Count returns the number of items
func (c *Checklist) Count() int {
	return c.count
}

// Cursor returns the current cursor index
func (c *Checklist) Cursor() int {
	return c.cursor
}

// CursorUp moves the cursor up one item, clamping at the top
func (c *Checklist) CursorUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// CursorDown moves the cursor down one item, clamping at the bottom
func (c *Checklist) CursorDown() {
	if c.cursor < c.count-1 {
		c.cursor++
	}
}

// Toggle flips the item under the cursor. The cursor does not move.
func (c *Checklist) Toggle() {
	if c.count == 0 {
		return
	}

	if _, ok := c.selected[c.cursor]; ok {
		delete(c.selected, c.cursor)
	} else {
		c.selected[c.cursor] = struct{}{}
	}
}

// IsSelected reports whether item i is toggled on
func (c *Checklist) IsSelected(i int) bool {
	_, ok := c.selected[i]

	return ok
}

// SelectedCount returns the number of toggled items
func (c *Checklist) SelectedCount() int {
	return len(c.selected)
}

// Selected returns the toggled indices in item order
func (c *Checklist) Selected() []int {
	indices := make([]int, 0, len(c.selected))

	for i := 0; i < c.count; i++ {
		if _, ok := c.selected[i]; ok {
			indices = append(indices, i)
		}
	}

	return indices
}
