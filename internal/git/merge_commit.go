package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	kniterrors "knit.dev/knit/internal/errors"
)

// Resolution is the final state of one previously conflicted path.
type Resolution struct {
	Path    string
	Content []byte
	Mode    filemode.FileMode
	// Delete removes the path instead of writing Content
	Delete bool
}

// CommitMerge records resolutions and concludes the merge in progress with
// a commit whose parents are HEAD and MERGE_HEAD.
//
// Every conflict-stage entry of a resolved path is dropped and replaced by a
// single stage 0 entry. If any path still has conflict stages after that,
// an UnresolvedConflictsError is returned before the index, the working
// tree or any ref is touched.
func (r *Repository) CommitMerge(ctx context.Context, resolutions []Resolution, message string, author *object.Signature) (plumbing.Hash, error) {
	if err := ctx.Err(); err != nil {
		return plumbing.ZeroHash, err
	}
	mergeHead, err := r.MergeHead()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("no merge in progress: %w", err)
	}
	head, err := r.HeadCommit()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	current, err := r.Storer.Index()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to read index: %w", err)
	}

	idx := cloneIndex(current)
	hashes := make([]plumbing.Hash, len(resolutions))
	for i, res := range resolutions {
		if res.Delete {
			setPath(idx, res.Path, nil)
			continue
		}
		h, err := r.WriteBlob(res.Content)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		hashes[i] = h
		setPath(idx, res.Path, r.newEntry(res.Path, h, res.Mode, len(res.Content)))
	}

	if remaining := unmergedNames(idx); len(remaining) > 0 {
		return plumbing.ZeroHash, kniterrors.NewUnresolvedConflictsError(remaining)
	}
	sortEntries(idx)

	tree, err := r.WriteTree(idx.Entries)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commit, err := r.CreateCommit(tree, []plumbing.Hash{head, mergeHead}, message, author)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	// Objects are in place; from here on the repository is updated.
	for i, res := range resolutions {
		if res.Delete {
			err = r.RemoveWorktreeFile(res.Path)
		} else {
			err = r.WriteWorktreeFile(res.Path, res.Content, res.Mode)
		}
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if !res.Delete {
			setPath(idx, res.Path, r.newEntry(res.Path, hashes[i], res.Mode, len(res.Content)))
		}
	}
	sortEntries(idx)

	if err := r.Storer.SetIndex(idx); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write index: %w", err)
	}
	if err := r.UpdateHead(commit); err != nil {
		return plumbing.ZeroHash, err
	}
	if err := r.ClearMergeState(); err != nil {
		return plumbing.ZeroHash, err
	}
	return commit, nil
}
