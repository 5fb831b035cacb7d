package git

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5/plumbing"

	"knit.dev/knit/internal/utils"
)

// MergeHeadRef is the pseudo-ref git writes while a merge is in progress.
const MergeHeadRef plumbing.ReferenceName = "MERGE_HEAD"

// mergeStateFiles are removed from the git directory when a merge ends.
var mergeStateFiles = []string{"MERGE_MSG", "MERGE_MODE", "AUTO_MERGE"}

// MergeHead returns the commit being merged into HEAD.
func (r *Repository) MergeHead() (plumbing.Hash, error) {
	ref, err := r.Storer.Reference(MergeHeadRef)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

// IsMergeInProgress reports whether MERGE_HEAD exists.
func (r *Repository) IsMergeInProgress() (bool, error) {
	_, err := r.MergeHead()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", MergeHeadRef, err)
	}
	return true, nil
}

// MergeMessage returns the prepared merge commit message from MERGE_MSG with
// comment lines removed. When there is no MERGE_MSG a message naming the
// merged commit is returned.
func (r *Repository) MergeMessage() string {
	if r.gitDir != nil {
		if f, err := r.gitDir.Open("MERGE_MSG"); err == nil {
			data, readErr := io.ReadAll(f)
			_ = f.Close()
			if readErr == nil {
				if msg := utils.StripComments(string(data)); msg != "" {
					return msg
				}
			}
		}
	}
	if head, err := r.MergeHead(); err == nil {
		return fmt.Sprintf("Merge commit '%s'", head.String()[:7])
	}
	return "Merge"
}

// ClearMergeState removes MERGE_HEAD and the files git keeps next to it.
func (r *Repository) ClearMergeState() error {
	if err := r.Storer.RemoveReference(MergeHeadRef); err != nil {
		return fmt.Errorf("failed to remove %s: %w", MergeHeadRef, err)
	}
	if r.gitDir == nil {
		return nil
	}
	for _, name := range mergeStateFiles {
		if err := r.gitDir.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}
