// Package resolver implements the interactive conflict view: a file list,
// the ours and theirs panels, and the resolved result.
package resolver

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sahilm/fuzzy"

	"knit.dev/knit/internal/conflict"
	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/session"
)

// Controller is what the view drives. *engine.Engine implements it.
type Controller interface {
	Session() *session.Session
	Apply(cmd session.Command) bool
	MergeMessage() string
	Finalize(ctx context.Context, message string) (plumbing.Hash, error)
	Abort(ctx context.Context) error
}

// Outcome tells the caller how the view was left.
type Outcome int

const (
	// Left means the operator quit; the session is kept for the next visit
	Left Outcome = iota
	Committed
	Aborted
)

// Options tune the view.
type Options struct {
	// ContextLines are shown above the current section in the ours and theirs panels
	ContextLines int
}

type state int

const (
	stateBrowse state = iota
	stateCommit
	stateConfirmAbort
	stateJump
	stateBusy
)

type committedMsg struct{ commit plumbing.Hash }

type abortedMsg struct{}

type errMsg struct{ err error }

// Model is the bubbletea model of the conflict view
type Model struct {
	ctrl     Controller
	opts     Options
	keys     keyMap
	editKeys editKeyMap
	help     help.Model
	styles   styles

	state      state
	commit     textinput.Model
	jump       textinput.Model
	matches    []fuzzy.Match
	jumpCursor int

	err    error
	status string

	width  int
	height int

	outcome    Outcome
	commitHash plumbing.Hash

	copy func(string) error
}

// New creates the view over ctrl's current session.
func New(ctrl Controller, opts Options) Model {
	commit := textinput.New()
	commit.Prompt = "message: "
	commit.CharLimit = 500

	jump := textinput.New()
	jump.Prompt = "/"

	return Model{
		ctrl:     ctrl,
		opts:     opts,
		keys:     defaultKeys,
		editKeys: defaultEditKeys,
		help:     help.New(),
		styles:   newStyles(),
		commit:   commit,
		jump:     jump,
		copy:     clipboard.WriteAll,
	}
}

// Outcome returns how the view was left.
func (m Model) Outcome() Outcome { return m.outcome }

// Commit returns the merge commit created from the view, if any.
func (m Model) Commit() plumbing.Hash { return m.commitHash }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if s := m.ctrl.Session(); s != nil {
			s.SetViewHeight(m.layout().resultLines)
		}
		return m, nil

	case committedMsg:
		m.outcome = Committed
		m.commitHash = msg.commit
		return m, tea.Quit

	case abortedMsg:
		m.outcome = Aborted
		return m, tea.Quit

	case errMsg:
		m.err = msg.err
		m.state = stateBrowse
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			// any key dismisses the error
			m.err = nil
			return m, nil
		}
		m.status = ""
		switch m.state {
		case stateCommit:
			return m.updateCommit(msg)
		case stateConfirmAbort:
			return m.updateConfirmAbort(msg)
		case stateJump:
			return m.updateJump(msg)
		case stateBusy:
			return m, nil
		}
		if s := m.ctrl.Session(); s != nil && s.Editing() {
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) apply(op session.Op) {
	m.ctrl.Apply(session.Command{Op: op})
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.ctrl.Session()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.outcome = Left
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case s == nil:
		return m, nil
	case key.Matches(msg, m.keys.Abort):
		// the view always asks before aborting
		m.state = stateConfirmAbort
		return m, nil
	case key.Matches(msg, m.keys.Commit):
		return m.startCommit()
	}

	switch {
	case key.Matches(msg, m.keys.NextPanel):
		m.apply(session.OpNextPanel)
	case key.Matches(msg, m.keys.PrevPanel):
		m.apply(session.OpPrevPanel)
	case key.Matches(msg, m.keys.Down):
		m.apply(m.verticalOp(s.Focus(), true))
	case key.Matches(msg, m.keys.Up):
		m.apply(m.verticalOp(s.Focus(), false))
	case key.Matches(msg, m.keys.ScrollDown):
		m.apply(session.OpScrollDown)
	case key.Matches(msg, m.keys.ScrollUp):
		m.apply(session.OpScrollUp)
	case key.Matches(msg, m.keys.Ours):
		m.apply(session.OpChooseOurs)
	case key.Matches(msg, m.keys.Theirs):
		m.apply(session.OpChooseTheirs)
	case key.Matches(msg, m.keys.Both):
		m.apply(session.OpChooseBoth)
	case key.Matches(msg, m.keys.BothReversed):
		m.apply(session.OpChooseBothReversed)
	case key.Matches(msg, m.keys.Toggle):
		m.apply(session.OpToggleLine)
	case key.Matches(msg, m.keys.Swap):
		m.apply(session.OpSwapOrder)
	case key.Matches(msg, m.keys.Mode):
		if f := s.File(); f != nil && f.WholeFileOnly() {
			m.status = f.Path + " can only be resolved as a whole file"
		}
		m.apply(session.OpCycleMode)
	case key.Matches(msg, m.keys.Auto):
		m.apply(session.OpAutoResolve)
	case key.Matches(msg, m.keys.Edit):
		m.apply(session.OpStartEdit)
	case key.Matches(msg, m.keys.Jump):
		return m.startJump()
	case key.Matches(msg, m.keys.Copy):
		return m.copyResult()
	}
	return m, nil
}

// verticalOp maps up and down onto the focused panel: files, sections or scroll.
func (m Model) verticalOp(focus session.Panel, down bool) session.Op {
	switch focus {
	case session.FileList:
		if down {
			return session.OpNextFile
		}
		return session.OpPrevFile
	case session.OursPanel, session.TheirsPanel:
		if down {
			return session.OpNextSection
		}
		return session.OpPrevSection
	}
	if down {
		return session.OpScrollDown
	}
	return session.OpScrollUp
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Confirm):
		m.apply(session.OpConfirmEdit)
		return m, nil
	case key.Matches(msg, m.editKeys.Cancel):
		m.apply(session.OpCancelEdit)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.apply(session.OpNewline)
	case tea.KeyBackspace:
		m.apply(session.OpBackspace)
	case tea.KeyDelete:
		m.apply(session.OpDelete)
	case tea.KeyUp:
		m.apply(session.OpCursorUp)
	case tea.KeyDown:
		m.apply(session.OpCursorDown)
	case tea.KeyLeft:
		m.apply(session.OpCursorLeft)
	case tea.KeyRight:
		m.apply(session.OpCursorRight)
	case tea.KeySpace:
		m.ctrl.Apply(session.Command{Op: session.OpInsert, Rune: ' '})
	case tea.KeyTab:
		m.ctrl.Apply(session.Command{Op: session.OpInsert, Rune: '\t'})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.ctrl.Apply(session.Command{Op: session.OpInsert, Rune: r})
		}
	}
	return m, nil
}

func (m Model) startCommit() (tea.Model, tea.Cmd) {
	s := m.ctrl.Session()
	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		m.err = kniterrors.NewUnresolvedConflictsError(unresolved)
		return m, nil
	}
	m.state = stateCommit
	m.commit.SetValue(subject(m.ctrl.MergeMessage()))
	m.commit.CursorEnd()
	return m, m.commit.Focus()
}

func (m Model) updateCommit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commit.Blur()
		m.state = stateBrowse
		return m, nil
	case tea.KeyEnter:
		message := strings.TrimSpace(m.commit.Value())
		if message == subject(m.ctrl.MergeMessage()) {
			// unchanged: commit the full prepared message, body included
			message = ""
		}
		m.commit.Blur()
		m.state = stateBusy
		ctrl := m.ctrl
		return m, func() tea.Msg {
			commit, err := ctrl.Finalize(context.Background(), message)
			if err != nil {
				return errMsg{err}
			}
			return committedMsg{commit}
		}
	}
	var cmd tea.Cmd
	m.commit, cmd = m.commit.Update(msg)
	return m, cmd
}

func subject(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(first)
}

func (m Model) updateConfirmAbort(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.abort()
	case "n", "N", "esc", "q":
		m.state = stateBrowse
	}
	return m, nil
}

func (m Model) abort() (tea.Model, tea.Cmd) {
	m.state = stateBusy
	ctrl := m.ctrl
	return m, func() tea.Msg {
		if err := ctrl.Abort(context.Background()); err != nil {
			return errMsg{err}
		}
		return abortedMsg{}
	}
}

// fileSource lets fuzzy match over the session's paths
type fileSource []*conflict.File

func (s fileSource) String(i int) string { return s[i].Path }
func (s fileSource) Len() int            { return len(s) }

func (m Model) startJump() (tea.Model, tea.Cmd) {
	m.state = stateJump
	m.jump.SetValue("")
	m.jumpCursor = 0
	m.matches = m.findFiles("")
	return m, m.jump.Focus()
}

func (m Model) findFiles(pattern string) []fuzzy.Match {
	files := m.ctrl.Session().Files()
	if pattern == "" {
		matches := make([]fuzzy.Match, len(files))
		for i, f := range files {
			matches[i] = fuzzy.Match{Str: f.Path, Index: i}
		}
		return matches
	}
	return fuzzy.FindFrom(pattern, fileSource(files))
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jump.Blur()
		m.state = stateBrowse
		return m, nil
	case tea.KeyEnter:
		m.jump.Blur()
		m.state = stateBrowse
		if m.jumpCursor < len(m.matches) {
			m.ctrl.Session().SelectFile(m.matches[m.jumpCursor].Index)
		}
		return m, nil
	case tea.KeyUp:
		if m.jumpCursor > 0 {
			m.jumpCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.jumpCursor < len(m.matches)-1 {
			m.jumpCursor++
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	m.matches = m.findFiles(m.jump.Value())
	m.jumpCursor = 0
	return m, cmd
}

func (m Model) copyResult() (tea.Model, tea.Cmd) {
	f := m.ctrl.Session().File()
	if f == nil {
		return m, nil
	}
	if err := m.copy(f.Content(conflict.Resolved)); err != nil {
		m.err = err
		return m, nil
	}
	m.status = "copied resolved " + f.Path
	return m, nil
}
