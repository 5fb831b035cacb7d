package resolver

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-git/v5/plumbing"
)

// Result reports how the conflict view ended
type Result struct {
	Outcome Outcome
	Commit  plumbing.Hash
}

// Run shows the conflict view until the operator commits, aborts or leaves.
func Run(ctrl Controller, opts Options) (Result, error) {
	m := New(ctrl, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	res, ok := finalModel.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type %T", finalModel)
	}
	return Result{Outcome: res.outcome, Commit: res.commitHash}, nil
}
