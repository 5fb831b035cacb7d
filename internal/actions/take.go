package actions

import (
	"fmt"
	"slices"

	"knit.dev/knit/internal/conflict"
	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
)

// TakeOptions contains options for the take command
type TakeOptions struct {
	// Side is conflict.UseOurs or conflict.UseTheirs
	Side  conflict.Choice
	Paths []string
	// Select asks which files to take the side for
	Select  bool
	Message string
}

// TakeAction resolves whole files with one side. When that leaves the
// merge fully resolved the merge commit is created; otherwise the
// remaining files are reported, or handed to the conflict view on a terminal.
func TakeAction(ctx *runtime.Context, opts TakeOptions) error {
	splog := ctx.Splog

	if opts.Side != conflict.UseOurs && opts.Side != conflict.UseTheirs {
		return fmt.Errorf("take needs --ours or --theirs")
	}

	s, err := ctx.Engine.Enter(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		splog.Info("No merge in progress.")
		return nil
	}

	paths := opts.Paths
	if opts.Select {
		options := make([]string, 0, len(s.Files()))
		for _, f := range s.Files() {
			if !f.IsFullyResolved() {
				options = append(options, f.Path)
			}
		}
		if paths, err = tui.PromptMultiSelect(fmt.Sprintf("Take %s for:", opts.Side), options); err != nil {
			return err
		}
	}

	if err := takeSide(s.Files(), paths, opts.Side); err != nil {
		return err
	}
	for _, f := range s.Files() {
		if len(paths) == 0 || slices.Contains(paths, f.Path) {
			splog.Info("Took %s for %s", opts.Side, f.Path)
		}
	}

	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		if isInteractive() {
			return ResolveAction(ctx)
		}
		return kniterrors.NewUnresolvedConflictsError(unresolved)
	}
	return CommitAction(ctx, CommitOptions{Message: opts.Message, NoPrompt: true})
}

// takeSide resolves the named files, or every file when paths is empty.
func takeSide(files []*conflict.File, paths []string, side conflict.Choice) error {
	for _, p := range paths {
		if !slices.ContainsFunc(files, func(f *conflict.File) bool { return f.Path == p }) {
			return fmt.Errorf("%s is not conflicted", p)
		}
	}
	for _, f := range files {
		if len(paths) > 0 && !slices.Contains(paths, f.Path) {
			continue
		}
		f.SetMode(conflict.FileMode)
		f.Choose(0, side)
	}
	return nil
}
