package actions

import (
	"errors"
	"fmt"

	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
	"knit.dev/knit/internal/tui/components/resolver"
)

// ErrNotInteractive is returned when the conflict view needs a terminal
var ErrNotInteractive = errors.New("the conflict view needs an interactive terminal")

// Terminal hooks, replaced in tests
var (
	isInteractive = tui.IsTTY
	runResolver   = resolver.Run
)

// ResolveAction opens the conflict view on the merge in progress. Leaving
// the view keeps the session, so a later call picks up where it stopped.
func ResolveAction(ctx *runtime.Context) error {
	splog := ctx.Splog

	s, err := ctx.Engine.Enter(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		splog.Info("No merge in progress.")
		return nil
	}
	if !isInteractive() {
		return ErrNotInteractive
	}

	splog.Debug("opening conflict view with %d files", len(s.Files()))
	splog.SetQuiet(true)
	res, err := runResolver(ctx.Engine, resolver.Options{
		ContextLines: ctx.Config.ContextLines,
	})
	splog.SetQuiet(false)
	if err != nil {
		return fmt.Errorf("conflict view failed: %w", err)
	}

	switch res.Outcome {
	case resolver.Committed:
		splog.Success("Created merge commit %s.", res.Commit.String()[:7])
	case resolver.Aborted:
		splog.Info("Merge aborted.")
	default:
		if unresolved := s.Unresolved(); len(unresolved) > 0 {
			splog.Info("%d files still unresolved.", len(unresolved))
		}
	}
	return nil
}
