package engine

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"knit.dev/knit/internal/conflict"
	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/session"
)

// Load reads every conflicted path of the merge in progress and replaces
// the in-memory session with a new one built from them. It fails with a
// BackendError when no merge is in progress or a blob cannot be read; the
// previous session is kept in that case.
func (e *Engine) Load(ctx context.Context) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, kniterrors.NewBackendError("load", err)
	}
	inProgress, err := e.backend.IsMergeInProgress()
	if err != nil {
		return nil, kniterrors.NewBackendError("load", err)
	}
	if !inProgress {
		return nil, kniterrors.NewBackendError("load", kniterrors.ErrNoMergeInProgress)
	}

	labels := e.opts.Labels
	if labels.Theirs == "" {
		head, err := e.backend.MergeHead()
		if err != nil {
			return nil, kniterrors.NewBackendError("load", err)
		}
		labels.Theirs = head.String()[:7]
	}

	paths, err := e.backend.UnmergedPaths()
	if err != nil {
		return nil, kniterrors.NewBackendError("load", err)
	}

	files := make([]*conflict.File, 0, len(paths))
	modes := make(map[string]filemode.FileMode, len(paths))
	for _, p := range paths {
		var c conflict.Contents
		if c.Ancestor, c.HasAncestor, err = e.readStage(p.Ancestor); err != nil {
			return nil, kniterrors.NewBackendError("load "+p.Path, err)
		}
		if c.Ours, c.HasOurs, err = e.readStage(p.Ours); err != nil {
			return nil, kniterrors.NewBackendError("load "+p.Path, err)
		}
		if c.Theirs, c.HasTheirs, err = e.readStage(p.Theirs); err != nil {
			return nil, kniterrors.NewBackendError("load "+p.Path, err)
		}

		f := conflict.NewFile(p.Path, c)
		f.SetLabels(labels)
		f.SetMode(e.opts.DefaultMode)
		if e.opts.AutoResolve {
			f.AutoResolve()
		}
		files = append(files, f)
		modes[p.Path] = p.Mode()
	}

	e.session = session.New(files)
	e.modes = modes
	return e.session, nil
}

func (e *Engine) readStage(entry *index.Entry) ([]byte, bool, error) {
	if entry == nil {
		return nil, false, nil
	}
	content, err := e.backend.ReadBlob(entry.Hash)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

// Finalize commits the resolved session as the merge commit and destroys
// the session. An empty message uses the prepared merge message.
//
// When a file is not fully resolved, or the index still carries conflict
// entries after resolution, an UnresolvedConflictsError is returned and
// neither the repository nor the session is changed.
func (e *Engine) Finalize(ctx context.Context, message string) (plumbing.Hash, error) {
	if e.session == nil {
		return plumbing.ZeroHash, kniterrors.NewBackendError("finalize", kniterrors.ErrNoMergeInProgress)
	}
	if unresolved := e.session.Unresolved(); len(unresolved) > 0 {
		return plumbing.ZeroHash, kniterrors.NewUnresolvedConflictsError(unresolved)
	}
	if message == "" {
		message = e.backend.MergeMessage()
	}

	files := e.session.Files()
	resolutions := make([]git.Resolution, len(files))
	for i, f := range files {
		resolutions[i] = git.Resolution{
			Path:    f.Path,
			Content: []byte(f.Content(conflict.Resolved)),
			Mode:    e.modes[f.Path],
			Delete:  f.ResolvesToDeletion(),
		}
	}

	commit, err := e.backend.CommitMerge(ctx, resolutions, message, e.opts.Author)
	if err != nil {
		var unresolved *kniterrors.UnresolvedConflictsError
		if errors.As(err, &unresolved) {
			return plumbing.ZeroHash, unresolved
		}
		return plumbing.ZeroHash, kniterrors.NewBackendError("finalize", err)
	}

	e.session = nil
	e.modes = nil
	return commit, nil
}

// Abort discards the merge in progress and the session with it. Callers
// must have confirmed the abort with the operator.
func (e *Engine) Abort(ctx context.Context) error {
	if err := e.backend.AbortMerge(ctx); err != nil {
		return kniterrors.NewBackendError("abort", err)
	}
	e.session = nil
	e.modes = nil
	return nil
}
