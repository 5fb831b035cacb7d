package actions

import (
	"fmt"

	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	Force bool
}

// AbortAction cancels the merge in progress, restoring the index and the
// conflicted files from HEAD. Every resolution made so far is lost.
func AbortAction(ctx *runtime.Context, opts AbortOptions) error {
	splog := ctx.Splog

	inProgress, err := ctx.Engine.MergeInProgress()
	if err != nil {
		return err
	}
	if !inProgress {
		splog.Info("No merge in progress to abort.")
		return nil
	}

	if !opts.Force && ctx.Config.ConfirmAbort {
		msg := "Are you sure you want to abort the merge? All conflict resolutions will be lost."
		confirmed, err := tui.PromptConfirm(msg, false)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			splog.Info("Abort canceled.")
			return nil
		}
	}

	splog.Info("Aborting merge...")
	if err := ctx.Engine.Abort(ctx); err != nil {
		return fmt.Errorf("failed to abort merge: %w", err)
	}
	splog.Success("Merge aborted.")
	return nil
}
