package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository together with the filesystems of its
// working tree and its git directory.
type Repository struct {
	*git.Repository
	path     string
	worktree billy.Filesystem
	gitDir   billy.Filesystem
}

// dotGitStorer is implemented by the on-disk storage and exposes the .git directory.
type dotGitStorer interface {
	Filesystem() billy.Filesystem
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	var gitDir billy.Filesystem
	if s, ok := repo.Storer.(dotGitStorer); ok {
		gitDir = s.Filesystem()
	}
	return NewRepository(repo, gitDir)
}

// NewRepository wraps an already opened repository. gitDir is where merge
// bookkeeping files such as MERGE_MSG live; it may be nil when the storage
// has no directory.
func NewRepository(repo *git.Repository, gitDir billy.Filesystem) (*Repository, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return &Repository{
		Repository: repo,
		path:       wt.Filesystem.Root(),
		worktree:   wt.Filesystem,
		gitDir:     gitDir,
	}, nil
}

// GetRepoRoot returns the root directory of the repository
func (r *Repository) GetRepoRoot() string {
	return r.path
}

// HeadCommit returns the hash HEAD points to.
func (r *Repository) HeadCommit() (plumbing.Hash, error) {
	head, err := r.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash(), nil
}

// GetCurrentBranch returns the current branch name
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}

// BranchNames returns the short names of every local branch.
func (r *Repository) BranchNames() ([]string, error) {
	iter, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	return names, err
}

// CoreEditor returns core.editor from the repository or global git config.
func (r *Repository) CoreEditor() string {
	cfg, err := r.ConfigScoped(config.GlobalScope)
	if err != nil {
		return ""
	}
	return cfg.Raw.Section("core").Option("editor")
}
