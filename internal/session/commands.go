package session

import (
	"knit.dev/knit/internal/conflict"
)

// Op is a discrete operator command.
type Op int

const (
	OpNextPanel Op = iota
	OpPrevPanel
	OpNextFile
	OpPrevFile
	OpNextSection
	OpPrevSection
	OpScrollUp
	OpScrollDown
	OpChooseOurs
	OpChooseTheirs
	OpChooseBoth
	OpChooseBothReversed
	OpToggleLine
	OpSwapOrder
	OpCycleMode
	OpAutoResolve
	OpStartEdit
	OpConfirmEdit
	OpCancelEdit
	OpInsert
	OpBackspace
	OpDelete
	OpNewline
	OpCursorUp
	OpCursorDown
	OpCursorLeft
	OpCursorRight
)

// Command is one operator input. Rune is only read by OpInsert.
type Command struct {
	Op   Op
	Rune rune
}

// Apply runs cmd against the session. It returns false when the command
// has no effect in the current state; such commands change nothing.
func (s *Session) Apply(cmd Command) bool {
	switch cmd.Op {
	case OpNextPanel:
		return s.NextPanel()
	case OpPrevPanel:
		return s.PrevPanel()
	case OpNextFile:
		return s.NextFile()
	case OpPrevFile:
		return s.PrevFile()
	case OpNextSection:
		return s.NextSection()
	case OpPrevSection:
		return s.PrevSection()
	case OpScrollUp:
		return s.ScrollUp()
	case OpScrollDown:
		return s.ScrollDown()
	case OpChooseOurs:
		return s.ChooseOurs()
	case OpChooseTheirs:
		return s.ChooseTheirs()
	case OpChooseBoth:
		return s.ChooseBoth(false)
	case OpChooseBothReversed:
		return s.ChooseBoth(true)
	case OpToggleLine:
		return s.ToggleLine()
	case OpSwapOrder:
		return s.SwapOrder()
	case OpCycleMode:
		return s.CycleMode()
	case OpAutoResolve:
		return s.AutoResolve()
	case OpStartEdit:
		return s.StartEdit()
	case OpConfirmEdit:
		return s.ConfirmEdit()
	case OpCancelEdit:
		return s.CancelEdit()
	case OpInsert:
		return s.Insert(cmd.Rune)
	case OpBackspace:
		return s.editWith(func(b *EditBuffer) bool { return b.Backspace() })
	case OpDelete:
		return s.editWith(func(b *EditBuffer) bool { return b.Delete() })
	case OpNewline:
		return s.editWith(func(b *EditBuffer) bool { b.Newline(); return true })
	case OpCursorUp:
		return s.MoveCursor(Up)
	case OpCursorDown:
		return s.MoveCursor(Down)
	case OpCursorLeft:
		return s.MoveCursor(Left)
	case OpCursorRight:
		return s.MoveCursor(Right)
	}
	return false
}

// StartEdit opens the inline editor on the displayed file's resolved
// content. Only valid with focus on the result panel, and never for
// binary files.
func (s *Session) StartEdit() bool {
	f := s.File()
	if s.Editing() || f == nil || s.focus != ResultPanel || f.EncodingErr() != nil {
		return false
	}
	s.edit = NewEditBuffer(f.Content(conflict.Resolved))
	s.follow()
	return true
}

// ConfirmEdit stores the buffer as the file's resolved content.
func (s *Session) ConfirmEdit() bool {
	if !s.Editing() {
		return false
	}
	ok := s.File().SetOverride(s.edit.String())
	s.edit = nil
	return ok
}

// CancelEdit drops the buffer. The file's resolution is untouched.
func (s *Session) CancelEdit() bool {
	if !s.Editing() {
		return false
	}
	s.edit = nil
	return true
}

// Insert types r at the editor cursor.
func (s *Session) Insert(r rune) bool {
	return s.editWith(func(b *EditBuffer) bool { b.Insert(r); return true })
}

// MoveCursor moves the editor cursor.
func (s *Session) MoveCursor(d Direction) bool {
	return s.editWith(func(b *EditBuffer) bool { return b.Move(d) })
}

func (s *Session) editWith(fn func(*EditBuffer) bool) bool {
	if !s.Editing() {
		return false
	}
	changed := fn(s.edit)
	s.follow()
	return changed
}

// follow keeps the editor cursor inside the visible result window.
func (s *Session) follow() {
	if s.edit == nil {
		return
	}
	line := s.edit.Cursor().Line
	switch {
	case line < s.scroll.Result:
		s.scroll.Result = line
	case line >= s.scroll.Result+s.viewHeight:
		s.scroll.Result = line - s.viewHeight + 1
	}
}
