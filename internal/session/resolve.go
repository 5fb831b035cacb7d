package session

import (
	"knit.dev/knit/internal/conflict"
)

// side returns the file side shown by the focused panel.
func (s *Session) side() (conflict.Side, bool) {
	switch s.focus {
	case OursPanel:
		return conflict.Ours, true
	case TheirsPanel:
		return conflict.Theirs, true
	}
	return conflict.Ours, false
}

// CurrentSection returns the section under the secondary cursor. In File
// mode there is no secondary cursor and ok is false.
func (s *Session) CurrentSection() (int, bool) {
	f := s.File()
	if f == nil {
		return 0, false
	}
	switch f.Mode() {
	case conflict.BlockMode:
		idx := f.ConflictIndexes()
		if s.cursor < len(idx) {
			return idx[s.cursor], true
		}
	case conflict.LineMode:
		if ref, ok := s.CurrentLine(); ok {
			return ref.Section, true
		}
	}
	return 0, false
}

// CurrentLine returns the line under the secondary cursor in Line mode.
func (s *Session) CurrentLine() (conflict.LineRef, bool) {
	f := s.File()
	if f == nil || f.Mode() != conflict.LineMode {
		return conflict.LineRef{}, false
	}
	side, _ := s.side()
	refs := f.ConflictLines(side)
	if s.cursor >= len(refs) {
		return conflict.LineRef{}, false
	}
	return refs[s.cursor], true
}

// cursorLimit is the number of positions the secondary cursor can take.
func (s *Session) cursorLimit() int {
	f := s.File()
	if f == nil {
		return 0
	}
	switch f.Mode() {
	case conflict.BlockMode:
		return len(f.ConflictIndexes())
	case conflict.LineMode:
		side, _ := s.side()
		return len(f.ConflictLines(side))
	}
	return 0
}

// NextSection moves the secondary cursor forward. Only valid with focus on
// the ours or theirs panel.
func (s *Session) NextSection() bool {
	return s.moveCursor(1)
}

// PrevSection moves the secondary cursor back.
func (s *Session) PrevSection() bool {
	return s.moveCursor(-1)
}

func (s *Session) moveCursor(delta int) bool {
	if s.Editing() {
		return false
	}
	if _, ok := s.side(); !ok {
		return false
	}
	limit := s.cursorLimit()
	next := s.cursor + delta
	if limit == 0 || next < 0 || next >= limit {
		return false
	}
	s.cursor = next
	s.syncScroll()
	return true
}

// syncScroll puts the ours and theirs panels at the start of the current
// section so both show the same alignment.
func (s *Session) syncScroll() {
	f := s.File()
	sec, ok := s.CurrentSection()
	if !ok {
		return
	}
	s.scroll.Ours = f.SectionStart(conflict.Ours, sec)
	s.scroll.Theirs = f.SectionStart(conflict.Theirs, sec)
}

// ChooseOurs resolves the current section (or the whole file in File mode) with ours.
func (s *Session) ChooseOurs() bool { return s.choose(conflict.UseOurs) }

// ChooseTheirs resolves the current section (or file) with theirs.
func (s *Session) ChooseTheirs() bool { return s.choose(conflict.UseTheirs) }

// ChooseBoth keeps both sides, ours first unless reversed.
func (s *Session) ChooseBoth(reversed bool) bool {
	if reversed {
		return s.choose(conflict.UseBothReversed)
	}
	return s.choose(conflict.UseBoth)
}

func (s *Session) choose(c conflict.Choice) bool {
	f := s.File()
	if s.Editing() || f == nil {
		return false
	}
	if _, ok := s.side(); !ok {
		return false
	}
	if f.Mode() == conflict.FileMode {
		return f.Choose(0, c)
	}
	sec, ok := s.CurrentSection()
	if !ok {
		return false
	}
	return f.Choose(sec, c)
}

// ToggleLine flips the line under the cursor in Line mode.
func (s *Session) ToggleLine() bool {
	f := s.File()
	if s.Editing() || f == nil {
		return false
	}
	side, ok := s.side()
	if !ok {
		return false
	}
	ref, ok := s.CurrentLine()
	if !ok {
		return false
	}
	return f.ToggleLine(ref.Section, side, ref.Offset)
}

// SwapOrder flips the ours/theirs order of the current section when both are kept.
func (s *Session) SwapOrder() bool {
	f := s.File()
	if s.Editing() || f == nil {
		return false
	}
	if _, ok := s.side(); !ok {
		return false
	}
	sec, ok := s.CurrentSection()
	if !ok && f.Mode() != conflict.FileMode {
		return false
	}
	return f.SwapOrder(sec)
}

// ScrollUp scrolls the focused content panel by one line.
func (s *Session) ScrollUp() bool { return s.scrollBy(-1) }

// ScrollDown scrolls the focused content panel by one line.
func (s *Session) ScrollDown() bool { return s.scrollBy(1) }

func (s *Session) scrollBy(delta int) bool {
	f := s.File()
	if s.Editing() || f == nil {
		return false
	}
	var offset *int
	var side conflict.Side
	switch s.focus {
	case OursPanel:
		offset, side = &s.scroll.Ours, conflict.Ours
	case TheirsPanel:
		offset, side = &s.scroll.Theirs, conflict.Theirs
	case ResultPanel:
		offset, side = &s.scroll.Result, conflict.Resolved
	default:
		return false
	}
	n := len(conflict.SplitLines(f.Content(side)))
	next := *offset + delta
	if next < 0 || next >= max(n, 1) {
		return false
	}
	*offset = next
	return true
}
