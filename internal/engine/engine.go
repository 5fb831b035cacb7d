// Package engine connects a conflict resolution session to the repository.
// It loads the conflicted paths of a merge in progress into a session,
// writes a fully resolved session back as a merge commit, or aborts the merge.
package engine

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/session"
)

// Backend is the repository access the engine needs. *git.Repository implements it.
type Backend interface {
	IsMergeInProgress() (bool, error)
	MergeHead() (plumbing.Hash, error)
	MergeMessage() string
	UnmergedPaths() ([]git.UnmergedPath, error)
	ReadBlob(h plumbing.Hash) ([]byte, error)
	CommitMerge(ctx context.Context, resolutions []git.Resolution, message string, author *object.Signature) (plumbing.Hash, error)
	AbortMerge(ctx context.Context) error
}

var _ Backend = (*git.Repository)(nil)

// Options tune how sessions are built.
type Options struct {
	// DefaultMode is the mode every file starts in, when the file allows it
	DefaultMode conflict.Mode
	// AutoResolve pre-resolves sections only one side changed
	AutoResolve bool
	// Labels are written on conflict markers; an empty Theirs label is
	// replaced by the abbreviated MERGE_HEAD hash
	Labels conflict.Labels
	// Author signs the merge commit; nil reads it from git config
	Author *object.Signature
}

// Engine owns the session of the merge in progress. It is driven by one
// interactive loop and is not safe for concurrent use.
type Engine struct {
	backend Backend
	opts    Options
	session *session.Session
	modes   map[string]filemode.FileMode
}

// New creates an engine over backend.
func New(backend Backend, opts Options) *Engine {
	if opts.Labels.Ours == "" {
		opts.Labels.Ours = conflict.DefaultLabels.Ours
	}
	return &Engine{backend: backend, opts: opts}
}

// Session returns the in-memory session, or nil when none exists.
func (e *Engine) Session() *session.Session {
	return e.session
}

// SessionExists reports whether an in-memory session exists. Views poll
// this instead of tracking merge state themselves.
func (e *Engine) SessionExists() bool {
	return e.session != nil
}

// MergeInProgress reports whether the repository has a pending merge.
func (e *Engine) MergeInProgress() (bool, error) {
	return e.backend.IsMergeInProgress()
}

// MergeHead returns the commit being merged in.
func (e *Engine) MergeHead() (plumbing.Hash, error) {
	return e.backend.MergeHead()
}

// MergeMessage returns the prepared message for the merge commit.
func (e *Engine) MergeMessage() string {
	return e.backend.MergeMessage()
}

// Apply runs a session command. Without a session every command is a no-op.
func (e *Engine) Apply(cmd session.Command) bool {
	if e.session == nil {
		return false
	}
	return e.session.Apply(cmd)
}
