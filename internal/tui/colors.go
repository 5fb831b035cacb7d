package tui

import "github.com/charmbracelet/lipgloss"

// Palette used by the conflict view and status output
var (
	OursColor     = lipgloss.Color("2") // green
	TheirsColor   = lipgloss.Color("4") // blue
	ConflictColor = lipgloss.Color("1") // red
	ResolvedColor = lipgloss.Color("2")
	DimColor      = lipgloss.Color("8")
	AccentColor   = lipgloss.Color("6") // cyan
)

// ColorRed colors text red
func ColorRed(text string) string {
	return lipgloss.NewStyle().Foreground(ConflictColor).Render(text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return lipgloss.NewStyle().Foreground(ResolvedColor).Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return lipgloss.NewStyle().Foreground(AccentColor).Render(text)
}

// ColorDim renders text in a muted gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().Foreground(DimColor).Render(text)
}
