package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTTY returns true if we can use a TTY for interactive TUI
func IsTTY() bool {
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// A terminal on stdio is not enough when the controlling tty is gone
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// DisableColor renders every style without color or attributes. It is
// applied for --no-color, NO_COLOR, and when stdout is not a terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorDisabled reports whether colored output should be turned off.
func ColorDisabled(noColorFlag bool) bool {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd())
}
