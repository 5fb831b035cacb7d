package testhelpers

import (
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"

	knitgit "knit.dev/knit/internal/git"
)

// FixtureFile describes one path of an in-memory merge. The No* flags mark
// a revision where the file does not exist. Clean paths were merged by git
// without conflict and carry only a stage 0 entry with the theirs content.
type FixtureFile struct {
	Path     string
	Base     string
	Ours     string
	Theirs   string
	NoBase   bool
	NoOurs   bool
	NoTheirs bool
	Clean    bool
}

// MergeFixture is an in-memory repository stopped in the middle of a
// conflicted merge of branch "feature" into the default branch.
type MergeFixture struct {
	Repo      *knitgit.Repository
	Git       *gogit.Repository
	Worktree  billy.Filesystem
	GitDir    billy.Filesystem
	Head      plumbing.Hash
	MergeHead plumbing.Hash
	Author    *object.Signature
}

// FixtureAuthor signs every fixture commit.
var FixtureAuthor = &object.Signature{
	Name:  "Test User",
	Email: "test@example.com",
	When:  time.Unix(1700000000, 0).UTC(),
}

// NewMergeFixture builds base, ours and theirs commits from files and leaves
// the index in the state `git merge feature` would after stopping on conflicts.
func NewMergeFixture(t *testing.T, files ...FixtureFile) *MergeFixture {
	t.Helper()

	wtfs := memfs.New()
	dot := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), wtfs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(wtfs, "README.md", []byte("fixture\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	commit := func(message string, pick func(FixtureFile) (string, bool)) plumbing.Hash {
		for _, f := range files {
			content, ok := pick(f)
			if ok {
				require.NoError(t, util.WriteFile(wtfs, f.Path, []byte(content), 0o644))
				_, err := wt.Add(f.Path)
				require.NoError(t, err)
				continue
			}
			if _, err := wtfs.Lstat(f.Path); err == nil {
				_, err := wt.Remove(f.Path)
				require.NoError(t, err)
			}
		}
		h, err := wt.Commit(message, &gogit.CommitOptions{Author: FixtureAuthor, AllowEmptyCommits: true})
		require.NoError(t, err)
		return h
	}

	commit("base", func(f FixtureFile) (string, bool) { return f.Base, !f.NoBase })
	head, err := repo.Head()
	require.NoError(t, err)
	mainBranch := head.Name()

	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	}))
	theirs := commit("feature", func(f FixtureFile) (string, bool) { return f.Theirs, !f.NoTheirs })

	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{Branch: mainBranch, Force: true}))
	ours := commit("ours", func(f FixtureFile) (string, bool) { return f.Ours, !f.NoOurs })

	idx, err := repo.Storer.Index()
	require.NoError(t, err)
	for _, f := range files {
		kept := idx.Entries[:0]
		for _, e := range idx.Entries {
			if e.Name != f.Path {
				kept = append(kept, e)
			}
		}
		idx.Entries = kept

		if f.Clean {
			require.NoError(t, util.WriteFile(wtfs, f.Path, []byte(f.Theirs), 0o644))
			idx.Entries = append(idx.Entries, stageEntry(f.Path, f.Theirs, knitgit.StageNormal))
			continue
		}
		if !f.NoBase {
			idx.Entries = append(idx.Entries, stageEntry(f.Path, f.Base, knitgit.StageAncestor))
		}
		if !f.NoOurs {
			idx.Entries = append(idx.Entries, stageEntry(f.Path, f.Ours, knitgit.StageOurs))
		}
		if !f.NoTheirs {
			idx.Entries = append(idx.Entries, stageEntry(f.Path, f.Theirs, knitgit.StageTheirs))
			if f.NoOurs {
				require.NoError(t, util.WriteFile(wtfs, f.Path, []byte(f.Theirs), 0o644))
			}
		}
	}
	idx.Cache = nil
	sortIndex(idx)
	require.NoError(t, repo.Storer.SetIndex(idx))

	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(knitgit.MergeHeadRef, theirs)))
	require.NoError(t, util.WriteFile(dot, "MERGE_MSG", []byte("Merge branch 'feature'\n\n# Conflicts:\n#\tsee index\n"), 0o644))

	r, err := knitgit.NewRepository(repo, dot)
	require.NoError(t, err)

	return &MergeFixture{
		Repo:      r,
		Git:       repo,
		Worktree:  wtfs,
		GitDir:    dot,
		Head:      ours,
		MergeHead: theirs,
		Author:    FixtureAuthor,
	}
}

func stageEntry(path, content string, stage index.Stage) *index.Entry {
	return &index.Entry{
		Name:  path,
		Hash:  plumbing.ComputeHash(plumbing.BlobObject, []byte(content)),
		Mode:  filemode.Regular,
		Size:  uint32(len(content)),
		Stage: stage,
	}
}

func sortIndex(idx *index.Index) {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		a, b := idx.Entries[i], idx.Entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Stage < b.Stage
	})
}

// ReadWorktree returns the content of a working tree file.
func (f *MergeFixture) ReadWorktree(t *testing.T, path string) string {
	t.Helper()
	data, err := util.ReadFile(f.Worktree, path)
	require.NoError(t, err)
	return string(data)
}

// WorktreeExists reports whether path exists in the working tree.
func (f *MergeFixture) WorktreeExists(path string) bool {
	_, err := f.Worktree.Lstat(path)
	return err == nil
}

// IndexEntries returns a copy of the current index entries.
func (f *MergeFixture) IndexEntries(t *testing.T) []index.Entry {
	t.Helper()
	idx, err := f.Git.Storer.Index()
	require.NoError(t, err)
	out := make([]index.Entry, len(idx.Entries))
	for i, e := range idx.Entries {
		out[i] = *e
	}
	return out
}

// CommitFile returns the content of path in commit h.
func (f *MergeFixture) CommitFile(t *testing.T, h plumbing.Hash, path string) (string, bool) {
	t.Helper()
	c, err := f.Git.CommitObject(h)
	require.NoError(t, err)
	file, err := c.File(path)
	if err != nil {
		return "", false
	}
	content, err := file.Contents()
	require.NoError(t, err)
	return content, true
}
