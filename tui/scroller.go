// ABOUTME: Viewport offset calculation keeping the checklist cursor visible
// ABOUTME: Implements vim/less style scrolling: cursor to middle, then content scrolls

package tui

// Scroller computes the viewport Y offset for a list with a cursor.
//
// Scrolling behavior:
// - Top: cursor moves freely, viewport stays at 0
// - Middle: cursor stays at middle, content scrolls
// - Bottom: viewport shows the end, cursor moves to the bottom
type Scroller struct {
	height     int // Viewport height in lines
	cursorPos  int // Current cursor position
	totalItems int // Total number of items
}

// NewScroller creates a scroller for the given viewport geometry
func NewScroller(height, cursorPos, totalItems int) *Scroller {
	return &Scroller{
		height:     height,
		cursorPos:  cursorPos,
		totalItems: totalItems,
	}
}

// Offset returns the viewport Y offset that keeps the cursor visible
func (s *Scroller) Offset() int {
	if s.totalItems == 0 || s.height < 1 {
		return 0
	}

	middle := s.height / 2

	// Cursor in the top half: viewport stays at the top
	if s.cursorPos < middle {
		return 0
	}

	// Cursor in the middle section: keep it centered while content scrolls
	bottomThreshold := s.totalItems - s.height + middle
	if s.cursorPos < bottomThreshold {
		return s.cursorPos - middle
	}

	// Near the bottom: show the last page
	maxOffset := s.totalItems - s.height
	if maxOffset < 0 {
		maxOffset = 0
	}

	return maxOffset
}
