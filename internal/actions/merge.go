package actions

import (
	"errors"
	"fmt"

	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/runtime"
)

// MergeOptions contains options for the merge command
type MergeOptions struct {
	Branch        string
	NoFastForward bool
	Message       string
	// Resolve opens the conflict view when the merge stops on conflicts
	Resolve bool
}

// MergeAction merges a branch into the current branch. When git stops on
// conflicts the conflicts are listed and, if asked for and possible, the
// conflict view is opened.
func MergeAction(ctx *runtime.Context, opts MergeOptions) error {
	splog := ctx.Splog

	inProgress, err := ctx.Engine.MergeInProgress()
	if err != nil {
		return err
	}
	if inProgress {
		return fmt.Errorf("a merge is already in progress; resolve it with 'knit resolve' or cancel it with 'knit abort'")
	}

	splog.Info("Merging %s...", opts.Branch)
	out, err := ctx.Runner.StartMerge(ctx, opts.Branch, git.MergeOptions{
		NoFastForward: opts.NoFastForward,
		Message:       opts.Message,
	})
	if err == nil {
		splog.Debug("%s", out)
		splog.Success("Merged %s.", opts.Branch)
		return nil
	}
	if !errors.Is(err, kniterrors.ErrMergeConflict) {
		return fmt.Errorf("failed to merge %s: %w", opts.Branch, err)
	}

	if err := PrintConflictStatus(ctx, opts.Branch); err != nil {
		return err
	}
	if opts.Resolve && isInteractive() {
		return ResolveAction(ctx)
	}
	return err
}
