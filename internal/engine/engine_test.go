package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/engine"
	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/session"
	"knit.dev/knit/testhelpers"
)

func newFixture(t *testing.T) *testhelpers.MergeFixture {
	return testhelpers.NewMergeFixture(t,
		testhelpers.FixtureFile{Path: "abc.txt", Base: "A\nB\nC\n", Ours: "A\nX\nC\n", Theirs: "A\nB\nY\n"},
		testhelpers.FixtureFile{Path: "clean.txt", Base: "c\n", Ours: "c\n", Theirs: "c2\n", Clean: true},
		testhelpers.FixtureFile{Path: "gone.txt", Base: "g\n", NoOurs: true, Theirs: "g2\n"},
	)
}

func newEngine(f *testhelpers.MergeFixture, opts engine.Options) *engine.Engine {
	opts.Author = f.Author
	return engine.New(f.Repo, opts)
}

func TestLoad(t *testing.T) {
	t.Run("builds one file per conflicted path", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{})

		s, err := e.Load(context.Background())
		require.NoError(t, err)
		require.True(t, e.SessionExists())
		require.Same(t, s, e.Session())

		files := s.Files()
		require.Len(t, files, 2)
		require.Equal(t, "abc.txt", files[0].Path)
		require.Equal(t, conflict.ModifyModify, files[0].Kind)
		require.Equal(t, "A\nX\nC\n", files[0].Content(conflict.Ours))
		require.Equal(t, "A\nB\nY\n", files[0].Content(conflict.Theirs))
		require.Equal(t, "A\nB\nC\n", files[0].Content(conflict.Ancestor))

		require.Equal(t, "gone.txt", files[1].Path)
		require.Equal(t, conflict.DeleteModify, files[1].Kind)
		require.True(t, files[1].WholeFileOnly())
	})

	t.Run("labels theirs with the merge head", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{DefaultMode: conflict.BlockMode})

		s, err := e.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t,
			"A\n<<<<<<< HEAD\nX\nC\n=======\nB\nY\n>>>>>>> "+f.MergeHead.String()[:7]+"\n",
			s.Files()[0].Content(conflict.Resolved))
	})

	t.Run("fails without a merge in progress", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.Repo.ClearMergeState())
		e := newEngine(f, engine.Options{})

		_, err := e.Load(context.Background())
		require.Error(t, err)
		require.True(t, errors.Is(err, kniterrors.ErrBackend))
		require.True(t, errors.Is(err, kniterrors.ErrNoMergeInProgress))
		require.False(t, e.SessionExists())
	})

	t.Run("merge without conflicts gives an empty session", func(t *testing.T) {
		f := testhelpers.NewMergeFixture(t,
			testhelpers.FixtureFile{Path: "clean.txt", Base: "c\n", Ours: "c\n", Theirs: "c2\n", Clean: true},
		)
		e := newEngine(f, engine.Options{})

		s, err := e.Load(context.Background())
		require.NoError(t, err)
		require.Empty(t, s.Files())
		require.Nil(t, s.File())
		require.True(t, s.IsFullyResolved())
	})

	t.Run("auto resolve settles one-sided sections", func(t *testing.T) {
		f := testhelpers.NewMergeFixture(t,
			testhelpers.FixtureFile{
				Path:   "two.txt",
				Base:   "A\nB\nC\nD\nE\n",
				Ours:   "A\nX\nC\nD\nE\n",
				Theirs: "A\nY\nC\nD\nZ\n",
			},
		)
		e := newEngine(f, engine.Options{DefaultMode: conflict.BlockMode, AutoResolve: true})

		s, err := e.Load(context.Background())
		require.NoError(t, err)
		file := s.Files()[0]
		conflicts, resolved := file.Summary()
		require.Equal(t, 2, conflicts)
		require.Equal(t, 1, resolved)
		require.False(t, file.IsFullyResolved())
	})
}

func TestFinalize(t *testing.T) {
	t.Run("refuses while files are unresolved", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{})
		s, err := e.Load(context.Background())
		require.NoError(t, err)
		require.True(t, s.Files()[0].Choose(0, conflict.UseOurs))
		before := f.IndexEntries(t)

		_, err = e.Finalize(context.Background(), "")
		require.Error(t, err)
		var unresolved *kniterrors.UnresolvedConflictsError
		require.True(t, errors.As(err, &unresolved))
		require.Equal(t, []string{"gone.txt"}, unresolved.Paths)

		require.Equal(t, before, f.IndexEntries(t))
		require.Same(t, s, e.Session())
		inProgress, err := e.MergeInProgress()
		require.NoError(t, err)
		require.True(t, inProgress)
	})

	t.Run("commits the resolved contents", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{DefaultMode: conflict.LineMode})
		s, err := e.Load(context.Background())
		require.NoError(t, err)

		abc := s.Files()[0]
		require.Equal(t, conflict.LineMode, abc.Mode())
		require.True(t, abc.ToggleLine(1, conflict.Ours, 0))
		require.True(t, abc.ToggleLine(1, conflict.Theirs, 1))
		require.Equal(t, "A\nX\nY\n", abc.Content(conflict.Resolved))

		gone := s.Files()[1]
		require.Equal(t, conflict.FileMode, gone.Mode())
		require.True(t, gone.Choose(0, conflict.UseOurs))
		require.True(t, gone.ResolvesToDeletion())

		commit, err := e.Finalize(context.Background(), "")
		require.NoError(t, err)
		require.NotEqual(t, plumbing.ZeroHash, commit)
		require.False(t, e.SessionExists())

		c, err := f.Git.CommitObject(commit)
		require.NoError(t, err)
		require.Equal(t, []plumbing.Hash{f.Head, f.MergeHead}, c.ParentHashes)
		require.Equal(t, "Merge branch 'feature'", c.Message)

		content, ok := f.CommitFile(t, commit, "abc.txt")
		require.True(t, ok)
		require.Equal(t, "A\nX\nY\n", content)
		content, ok = f.CommitFile(t, commit, "clean.txt")
		require.True(t, ok)
		require.Equal(t, "c2\n", content)
		_, ok = f.CommitFile(t, commit, "gone.txt")
		require.False(t, ok)

		for _, entry := range f.IndexEntries(t) {
			require.Equal(t, git.StageNormal, entry.Stage)
		}
		require.Equal(t, "A\nX\nY\n", f.ReadWorktree(t, "abc.txt"))
	})

	t.Run("uses an inline edit and a custom message", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{})
		s, err := e.Load(context.Background())
		require.NoError(t, err)

		s.Files()[0].SetOverride("hand written\n")
		require.True(t, s.Files()[1].Choose(0, conflict.UseTheirs))

		commit, err := e.Finalize(context.Background(), "custom message")
		require.NoError(t, err)

		c, err := f.Git.CommitObject(commit)
		require.NoError(t, err)
		require.Equal(t, "custom message", c.Message)
		content, ok := f.CommitFile(t, commit, "abc.txt")
		require.True(t, ok)
		require.Equal(t, "hand written\n", content)
		content, ok = f.CommitFile(t, commit, "gone.txt")
		require.True(t, ok)
		require.Equal(t, "g2\n", content)
	})

	t.Run("fails without a session", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{})

		_, err := e.Finalize(context.Background(), "")
		require.True(t, errors.Is(err, kniterrors.ErrNoMergeInProgress))
	})
}

func TestAbort(t *testing.T) {
	f := newFixture(t)
	e := newEngine(f, engine.Options{})
	_, err := e.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.Abort(context.Background()))
	require.False(t, e.SessionExists())

	inProgress, err := e.MergeInProgress()
	require.NoError(t, err)
	require.False(t, inProgress)
	require.Equal(t, "A\nX\nC\n", f.ReadWorktree(t, "abc.txt"))
	require.False(t, f.WorktreeExists("gone.txt"))
}

func TestEnter(t *testing.T) {
	t.Run("reuses the existing session", func(t *testing.T) {
		f := newFixture(t)
		e := newEngine(f, engine.Options{})

		s, err := e.Enter(context.Background())
		require.NoError(t, err)
		require.NotNil(t, s)
		require.True(t, e.Apply(session.Command{Op: session.OpNextPanel}))
		require.True(t, e.Apply(session.Command{Op: session.OpChooseTheirs}))

		again, err := e.Enter(context.Background())
		require.NoError(t, err)
		require.Same(t, s, again)
		require.Equal(t, session.OursPanel, again.Focus())
		require.Equal(t, conflict.UseTheirs, again.Files()[0].SectionChoice(1))
	})

	t.Run("no merge means no session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.Repo.ClearMergeState())
		e := newEngine(f, engine.Options{})

		s, err := e.Enter(context.Background())
		require.NoError(t, err)
		require.Nil(t, s)
		require.False(t, e.Apply(session.Command{Op: session.OpNextPanel}))
	})
}
