package resolver

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings of the conflict view
type keyMap struct {
	NextPanel    key.Binding
	PrevPanel    key.Binding
	Up           key.Binding
	Down         key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Ours         key.Binding
	Theirs       key.Binding
	Both         key.Binding
	BothReversed key.Binding
	Toggle       key.Binding
	Swap         key.Binding
	Mode         key.Binding
	Auto         key.Binding
	Edit         key.Binding
	Commit       key.Binding
	Abort        key.Binding
	Jump         key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPanel, k.Ours, k.Theirs, k.Both, k.Mode, k.Commit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPanel, k.PrevPanel, k.Up, k.Down, k.ScrollUp, k.ScrollDown},
		{k.Ours, k.Theirs, k.Both, k.BothReversed, k.Toggle, k.Swap},
		{k.Mode, k.Auto, k.Edit, k.Jump, k.Copy},
		{k.Commit, k.Abort, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	NextPanel: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	PrevPanel: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev panel"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev file/section"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next file/section"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("ctrl+u", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("ctrl+d", "scroll down"),
	),
	Ours: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "ours"),
	),
	Theirs: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theirs"),
	),
	Both: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "both"),
	),
	BothReversed: key.NewBinding(
		key.WithKeys("B"),
		key.WithHelp("B", "both, theirs first"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle line"),
	),
	Swap: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "swap order"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "cycle mode"),
	),
	Auto: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "auto resolve"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit result"),
	),
	Commit: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "commit"),
	),
	Abort: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "abort merge"),
	),
	Jump: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "jump to file"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy result"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "leave"),
	),
}

// editKeyMap is active while the inline editor is open
type editKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultEditKeys = editKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save edit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "discard edit"),
	),
}
