package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type headFile struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

// AbortMerge throws away the merge in progress. The index is rebuilt from
// HEAD, and working tree files the merge touched are restored to their HEAD
// content or removed when HEAD does not have them. Files the merge did not
// touch keep any local edits.
func (r *Repository) AbortMerge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.MergeHead(); err != nil {
		return fmt.Errorf("no merge in progress: %w", err)
	}
	headHash, err := r.HeadCommit()
	if err != nil {
		return err
	}
	commit, err := r.CommitObject(headHash)
	if err != nil {
		return fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get HEAD tree: %w", err)
	}

	files := make(map[string]headFile)
	var order []string
	err = tree.Files().ForEach(func(f *object.File) error {
		files[f.Name] = headFile{hash: f.Hash, mode: f.Mode}
		order = append(order, f.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk HEAD tree: %w", err)
	}

	current, err := r.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	// Paths whose index state differs from HEAD were touched by the merge.
	touched := make(map[string]bool)
	for _, e := range current.Entries {
		hf, ok := files[e.Name]
		if !ok || e.Stage != StageNormal || e.Hash != hf.hash || e.Mode != hf.mode {
			touched[e.Name] = true
		}
	}
	for _, name := range order {
		if _, err := current.Entry(name); err != nil {
			touched[name] = true
		}
	}

	idx := &index.Index{Version: 2}
	for _, name := range order {
		hf := files[name]
		if touched[name] {
			content, err := r.ReadBlob(hf.hash)
			if err != nil {
				return err
			}
			if err := r.WriteWorktreeFile(name, content, hf.mode); err != nil {
				return err
			}
			idx.Entries = append(idx.Entries, r.newEntry(name, hf.hash, hf.mode, len(content)))
			continue
		}
		e, _ := current.Entry(name)
		entry := *e
		idx.Entries = append(idx.Entries, &entry)
	}
	for name := range touched {
		if _, ok := files[name]; !ok {
			if err := r.RemoveWorktreeFile(name); err != nil {
				return err
			}
		}
	}
	sortEntries(idx)

	if err := r.Storer.SetIndex(idx); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return r.ClearMergeState()
}
