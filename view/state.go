package view

import "github.com/tcassar-diss/ebelt/blueprint"

// State is the whole mutable state of the viewer: which pane has focus,
// every pane's cursor and scroll, and what Detail is bound to. It is owned
// by the event loop and only changes through Apply and SetViewports.
type State struct {
	index *Index
	focus Pane
	panes [NumPanes]PaneState

	// Detail's backing entity; only meaningful when bound
	detail EntityRef
	bound  bool
}

// NewState starts with focus on Sections, nothing selected and Detail
// unbound.
func NewState(index *Index) *State {
	st := &State{
		index: index,
		focus: Sections,
	}

	for _, p := range ParentPanes() {
		st.panes[p].Reset(index.RowCount(p))
	}

	return st
}

func (s *State) Index() *Index                   { return s.index }
func (s *State) Blueprint() *blueprint.Blueprint { return s.index.Blueprint() }
func (s *State) Focus() Pane                     { return s.focus }

// Pane returns a copy of p's state.
func (s *State) Pane(p Pane) PaneState {
	return s.panes[p]
}

// DetailRef returns the entity Detail is bound to.
func (s *State) DetailRef() (EntityRef, bool) {
	return s.detail, s.bound
}

// SetViewports applies pane heights computed by the layout.
func (s *State) SetViewports(heights [NumPanes]int) {
	for p := range s.panes {
		s.panes[p].Resize(heights[p])
	}
}

// Apply performs one action and reports whether anything changed.
// Actions that make no sense in the current state are ignored. Quit is
// left to the caller.
func (s *State) Apply(a Action) bool {
	active := &s.panes[s.focus]

	switch a {
	case Up:
		return active.MoveCursor(-1)
	case Down:
		return active.MoveCursor(1)
	case PageUp:
		return active.Page(-1)
	case PageDown:
		return active.Page(1)
	case Top:
		return active.JumpTop()
	case Bottom:
		return active.JumpBottom()
	case NextPane:
		s.focus = s.focus.Next()
		return true
	case PrevPane:
		s.focus = s.focus.Prev()
		return true
	case Select:
		return s.selectCursor()
	case EnterDetail:
		return s.enterDetail()
	case Back:
		return s.back()
	default:
		return false
	}
}

func (s *State) selectCursor() bool {
	if !s.focus.IsParent() {
		return false
	}

	ps := &s.panes[s.focus]

	ref, ok := s.index.EntityAt(s.focus, ps.Cursor())
	if !ok {
		return false
	}

	ps.selectEntity(ref)
	s.rebind(ref)

	return true
}

func (s *State) enterDetail() bool {
	if !s.focus.IsParent() {
		return false
	}

	ref, ok := s.panes[s.focus].Selected()
	if !ok {
		return false
	}

	if !s.bound || s.detail != ref {
		s.rebind(ref)
	}

	s.focus = Detail

	return true
}

func (s *State) back() bool {
	if s.focus != Detail || !s.bound {
		return false
	}

	s.focus = s.detail.Pane

	return true
}

// rebind swaps Detail's backing entity and resets its navigation in one
// step.
func (s *State) rebind(ref EntityRef) {
	s.detail = ref
	s.bound = true

	d := &s.panes[Detail]
	d.Reset(s.index.DetailRows(ref))
	d.follow()
}
