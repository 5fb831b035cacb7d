// Package session holds the state of an interactive conflict resolution:
// the conflicted files of the current merge, which one is shown, which
// panel has focus, scroll offsets, and the inline editor.
package session

import (
	"knit.dev/knit/internal/conflict"
)

// Panel identifies a pane of the conflict view.
type Panel int

const (
	FileList Panel = iota
	OursPanel
	TheirsPanel
	ResultPanel
)

const panelCount = 4

func (p Panel) String() string {
	switch p {
	case FileList:
		return "files"
	case OursPanel:
		return "ours"
	case TheirsPanel:
		return "theirs"
	case ResultPanel:
		return "result"
	}
	return "unknown"
}

// Scroll holds the first visible line of each content panel.
type Scroll struct {
	Ours   int
	Theirs int
	Result int
}

// DefaultViewHeight is used for result scrolling until the renderer reports
// the real panel height.
const DefaultViewHeight = 20

// Session is the in-memory resolution of one merge. The file list is fixed
// for the session's lifetime.
type Session struct {
	files      []*conflict.File
	current    int
	focus      Panel
	cursor     int
	scroll     Scroll
	edit       *EditBuffer
	viewHeight int
}

// New creates a session over files with focus on the file list.
func New(files []*conflict.File) *Session {
	return &Session{files: files, viewHeight: DefaultViewHeight}
}

// Files returns every file of the session in order.
func (s *Session) Files() []*conflict.File { return s.files }

// Current returns the index of the displayed file.
func (s *Session) Current() int { return s.current }

// File returns the displayed file, or nil for an empty session.
func (s *Session) File() *conflict.File {
	if s.current < 0 || s.current >= len(s.files) {
		return nil
	}
	return s.files[s.current]
}

// Focus returns the focused panel.
func (s *Session) Focus() Panel { return s.focus }

// Scroll returns the scroll offsets.
func (s *Session) Scroll() Scroll { return s.scroll }

// Cursor returns the secondary cursor: a conflict ordinal in Block mode, or
// an index into the focused side's conflict lines in Line mode.
func (s *Session) Cursor() int { return s.cursor }

// Editing reports whether the inline editor is active.
func (s *Session) Editing() bool { return s.edit != nil }

// Editor returns the active edit buffer, or nil.
func (s *Session) Editor() *EditBuffer { return s.edit }

// SetViewHeight tells the session how many result lines are visible.
func (s *Session) SetViewHeight(h int) {
	if h < 1 {
		h = 1
	}
	s.viewHeight = h
	s.follow()
}

// Unresolved returns the paths of files that are not fully resolved.
func (s *Session) Unresolved() []string {
	var paths []string
	for _, f := range s.files {
		if !f.IsFullyResolved() {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// IsFullyResolved reports whether every file is resolved.
func (s *Session) IsFullyResolved() bool {
	return len(s.Unresolved()) == 0
}

// Status is a snapshot of session-level state for renderers.
type Status struct {
	FileCount int
	Current   int
	Focus     Panel
	Resolved  []bool
	Editing   bool
}

// Status returns the current session-level state.
func (s *Session) Status() Status {
	st := Status{
		FileCount: len(s.files),
		Current:   s.current,
		Focus:     s.focus,
		Resolved:  make([]bool, len(s.files)),
		Editing:   s.Editing(),
	}
	for i, f := range s.files {
		st.Resolved[i] = f.IsFullyResolved()
	}
	return st
}

// NextPanel moves focus to the next panel, wrapping around.
func (s *Session) NextPanel() bool {
	if s.Editing() {
		return false
	}
	s.focus = (s.focus + 1) % panelCount
	s.clampCursor()
	return true
}

// PrevPanel moves focus to the previous panel, wrapping around.
func (s *Session) PrevPanel() bool {
	if s.Editing() {
		return false
	}
	s.focus = (s.focus + panelCount - 1) % panelCount
	s.clampCursor()
	return true
}

// clampCursor keeps the secondary cursor on a valid position after focus
// moves. In Line mode each side has its own number of conflict lines.
func (s *Session) clampCursor() {
	if _, ok := s.side(); !ok {
		return
	}
	if limit := s.cursorLimit(); s.cursor >= limit {
		s.cursor = max(limit-1, 0)
		s.syncScroll()
	}
}

// NextFile shows the next file. Only valid with focus on the file list.
func (s *Session) NextFile() bool {
	if s.focus != FileList {
		return false
	}
	return s.SelectFile(s.current + 1)
}

// PrevFile shows the previous file. Only valid with focus on the file list.
func (s *Session) PrevFile() bool {
	if s.focus != FileList {
		return false
	}
	return s.SelectFile(s.current - 1)
}

// SelectFile shows file i and resets the cursor and every scroll offset.
func (s *Session) SelectFile(i int) bool {
	if s.Editing() || i < 0 || i >= len(s.files) || i == s.current {
		return false
	}
	s.current = i
	s.cursor = 0
	s.scroll = Scroll{}
	return true
}

// SetMode changes the resolution mode of the displayed file.
func (s *Session) SetMode(m conflict.Mode) bool {
	f := s.File()
	if s.Editing() || f == nil || !f.SetMode(m) {
		return false
	}
	s.cursor = 0
	s.syncScroll()
	return true
}

// CycleMode switches the displayed file to the next mode.
func (s *Session) CycleMode() bool {
	f := s.File()
	if f == nil {
		return false
	}
	if f.WholeFileOnly() {
		return false
	}
	return s.SetMode(f.Mode().Next())
}

// AutoResolve resolves one-sided changes in the displayed file.
func (s *Session) AutoResolve() bool {
	f := s.File()
	if s.Editing() || f == nil {
		return false
	}
	return f.AutoResolve() > 0
}
