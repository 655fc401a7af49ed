package view

// PaneState is the cursor, scroll and selection of one pane.
//
// For a pane with rows > 0 it always holds that
//
//	0 <= cursor < rows
//	scroll <= cursor < scroll + viewport
//
// and with no rows cursor and scroll stay at 0 and every operation is a
// no-op. Out-of-range moves are clamped, never reported.
type PaneState struct {
	cursor   int
	scroll   int
	selected EntityRef
	hasSel   bool
	rows     int
	height   int
}

func (s PaneState) Cursor() int { return s.cursor }
func (s PaneState) Scroll() int { return s.scroll }
func (s PaneState) Rows() int   { return s.rows }

// Selected is the entity last selected in this pane, if any.
func (s PaneState) Selected() (EntityRef, bool) {
	return s.selected, s.hasSel
}

// Viewport is the number of rows the pane can show. A pane squeezed to
// nothing still counts as one row so the scroll invariant stays defined.
func (s PaneState) Viewport() int {
	if s.height < 1 {
		return 1
	}

	return s.height
}

// VisibleRange returns the half-open row range [start, end) on screen.
func (s PaneState) VisibleRange() (int, int) {
	end := s.scroll + s.Viewport()
	if end > s.rows {
		end = s.rows
	}

	return s.scroll, end
}

// Reset rebinds the pane to a row count with cursor and scroll at the top.
func (s *PaneState) Reset(rows int) {
	if rows < 0 {
		rows = 0
	}

	s.rows = rows
	s.cursor = 0
	s.scroll = 0
}

// Resize sets the viewport height and scrolls as little as needed to keep
// the cursor visible.
func (s *PaneState) Resize(height int) {
	s.height = height
	s.follow()
}

// MoveCursor moves the cursor by delta rows.
func (s *PaneState) MoveCursor(delta int) bool {
	if s.rows == 0 {
		return false
	}

	c := clamp(s.cursor+delta, 0, s.rows-1)
	if c == s.cursor {
		return false
	}

	s.cursor = c
	s.follow()

	return true
}

// Page moves the viewport by delta whole pages, taking the cursor along.
// Pages are aligned to the viewport so paging from the top visits every
// row exactly once; the last page may be short. When the viewport is
// already on the first or last page nothing moves.
func (s *PaneState) Page(delta int) bool {
	if s.rows == 0 || delta == 0 {
		return false
	}

	v := s.Viewport()
	lastPage := (s.rows - 1) / v * v

	// after a resize scroll may sit past the last aligned page
	scroll := clamp(s.scroll+delta*v, 0, lastPage)
	if (delta > 0 && scroll <= s.scroll) || (delta < 0 && scroll >= s.scroll) {
		return false
	}

	cursor := clamp(s.cursor+delta*v, 0, s.rows-1)
	cursor = clamp(cursor, scroll, min(scroll+v, s.rows)-1)

	s.scroll = scroll
	s.cursor = cursor

	return true
}

func (s *PaneState) JumpTop() bool {
	return s.jump(0)
}

func (s *PaneState) JumpBottom() bool {
	return s.jump(s.rows - 1)
}

func (s *PaneState) jump(row int) bool {
	if s.rows == 0 {
		return false
	}

	before := *s
	s.cursor = row
	s.follow()

	return before.cursor != s.cursor || before.scroll != s.scroll
}

func (s *PaneState) selectEntity(ref EntityRef) {
	s.selected = ref
	s.hasSel = true
}

// follow applies the minimal-scroll policy.
func (s *PaneState) follow() {
	if s.rows == 0 {
		s.cursor, s.scroll = 0, 0
		return
	}

	s.cursor = clamp(s.cursor, 0, s.rows-1)

	v := s.Viewport()
	if s.cursor < s.scroll {
		s.scroll = s.cursor
	}

	if s.cursor >= s.scroll+v {
		s.scroll = s.cursor - v + 1
	}

	if s.scroll < 0 {
		s.scroll = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
