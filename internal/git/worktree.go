package git

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// WriteWorktreeFile writes content to path in the working tree.
func (r *Repository) WriteWorktreeFile(path string, content []byte, mode filemode.FileMode) error {
	perm := os.FileMode(0o644)
	if mode == filemode.Executable {
		perm = 0o755
	}
	if err := util.WriteFile(r.worktree, path, content, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// RemoveWorktreeFile deletes path from the working tree. A missing file is not an error.
func (r *Repository) RemoveWorktreeFile(path string) error {
	if err := r.worktree.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// newEntry builds a stage 0 index entry for a file just written to the
// working tree, using its stat data so git sees it as clean.
func (r *Repository) newEntry(path string, hash plumbing.Hash, mode filemode.FileMode, size int) *index.Entry {
	e := &index.Entry{
		Name:       path,
		Hash:       hash,
		Mode:       mode,
		Size:       uint32(size),
		ModifiedAt: time.Now(),
	}
	if fi, err := r.worktree.Lstat(path); err == nil {
		e.ModifiedAt = fi.ModTime()
		e.Size = uint32(fi.Size())
	}
	e.CreatedAt = e.ModifiedAt
	return e
}
