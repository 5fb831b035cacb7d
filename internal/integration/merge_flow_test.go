package integration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/conflict"
	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/session"
	"knit.dev/knit/testhelpers"
	"knit.dev/knit/testhelpers/scenario"
)

func apply(t *testing.T, s *session.Session, ops ...session.Op) {
	t.Helper()
	for _, op := range ops {
		require.True(t, s.Apply(session.Command{Op: op}), "op %d had no effect", op)
	}
}

func TestMergeFlow(t *testing.T) {
	t.Run("block choices produce a merge commit git accepts", func(t *testing.T) {
		sc := scenario.NewScenario(t, testhelpers.ConflictSceneSetup)
		ctx := sc.Context

		_, err := ctx.Runner.StartMerge(ctx, "feature", git.MergeOptions{})
		require.True(t, errors.Is(err, kniterrors.ErrMergeConflict))
		sc.ExpectMergeInProgress(true)

		s, err := ctx.Engine.Load(ctx)
		require.NoError(t, err)
		files := s.Files()
		require.Len(t, files, 2)
		require.Equal(t, "abc.txt", files[0].Path)
		require.Equal(t, conflict.ModifyModify, files[0].Kind)
		require.Equal(t, conflict.BlockMode, files[0].Mode())
		require.Equal(t, "gone.txt", files[1].Path)
		require.Equal(t, conflict.DeleteModify, files[1].Kind)

		apply(t, s, session.OpNextPanel, session.OpChooseBoth)
		apply(t, s, session.OpPrevPanel, session.OpNextFile)
		apply(t, s, session.OpNextPanel, session.OpChooseTheirs)
		require.True(t, s.IsFullyResolved())

		commit, err := ctx.Engine.Finalize(ctx, "")
		require.NoError(t, err)

		head, err := sc.Scene.Repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.Equal(t, commit.String(), head)

		sc.ExpectMergeInProgress(false).
			ExpectMergeCommit().
			ExpectFile("abc.txt", "A\nX\nC\nB\nY\n").
			ExpectFile("gone.txt", "g2\n").
			ExpectFile("clean.txt", "c2\n").
			ExpectHeadFile("clean.txt", "c2\n")

		msg, err := sc.Scene.Repo.CommitMessage("HEAD")
		require.NoError(t, err)
		require.Equal(t, "Merge branch 'feature'", msg)
	})

	t.Run("line selection and inline edits", func(t *testing.T) {
		sc := scenario.NewScenario(t, testhelpers.ConflictedMergeSetup)
		ctx := sc.Context

		s, err := ctx.Engine.Enter(ctx)
		require.NoError(t, err)

		// Line mode: keep X from ours and Y from theirs
		f := s.Files()[0]
		require.True(t, s.SetMode(conflict.LineMode))
		i := f.ConflictIndexes()[0]
		require.True(t, f.ToggleLine(i, conflict.Ours, 0))
		require.True(t, f.ToggleLine(i, conflict.Theirs, 1))
		require.Equal(t, "A\nX\nY\n", f.Content(conflict.Resolved))

		// gone.txt takes theirs, then is rewritten by hand
		require.True(t, s.SelectFile(1))
		require.True(t, s.Files()[1].Choose(0, conflict.UseTheirs))
		apply(t, s, session.OpPrevPanel)
		require.Equal(t, session.ResultPanel, s.Focus())
		require.True(t, s.StartEdit())
		for _, r := range "kept " {
			require.True(t, s.Insert(r))
		}
		require.True(t, s.ConfirmEdit())
		require.Equal(t, "kept g2\n", s.Files()[1].Content(conflict.Resolved))

		_, err = ctx.Engine.Finalize(ctx, "hand merged")
		require.NoError(t, err)

		sc.ExpectMergeCommit().
			ExpectHeadFile("abc.txt", "A\nX\nY\n").
			ExpectHeadFile("gone.txt", "kept g2\n")
		msg, err := sc.Scene.Repo.CommitMessage("HEAD")
		require.NoError(t, err)
		require.Equal(t, "hand merged", msg)
	})

	t.Run("finalize refuses unresolved files and leaves git untouched", func(t *testing.T) {
		sc := scenario.NewScenario(t, testhelpers.ConflictedMergeSetup)
		ctx := sc.Context

		s, err := ctx.Engine.Enter(ctx)
		require.NoError(t, err)
		apply(t, s, session.OpNextPanel, session.OpChooseOurs)

		_, err = ctx.Engine.Finalize(ctx, "")
		var unresolved *kniterrors.UnresolvedConflictsError
		require.True(t, errors.As(err, &unresolved))
		require.Equal(t, []string{"gone.txt"}, unresolved.Paths)

		sc.ExpectMergeInProgress(true)
		unmerged, err := sc.Scene.Repo.UnmergedPaths()
		require.NoError(t, err)
		require.Equal(t, []string{"abc.txt", "gone.txt"}, unmerged)

		// The session survives the refusal
		require.Same(t, s, ctx.Engine.Session())
		require.Equal(t, conflict.UseOurs, s.Files()[0].SectionChoice(s.Files()[0].ConflictIndexes()[0]))
	})

	t.Run("abort restores the pre-merge state", func(t *testing.T) {
		sc := scenario.NewScenario(t, testhelpers.ConflictedMergeSetup)
		ctx := sc.Context

		_, err := ctx.Engine.Enter(ctx)
		require.NoError(t, err)
		require.NoError(t, ctx.Engine.Abort(ctx))
		require.False(t, ctx.Engine.SessionExists())

		sc.ExpectMergeInProgress(false).
			ExpectFile("abc.txt", "A\nX\nC\n").
			ExpectFile("clean.txt", "c\n").
			ExpectNoFile("gone.txt")
		clean, err := sc.Scene.Repo.IsClean()
		require.NoError(t, err)
		require.True(t, clean)
	})
}

func TestSessionRecovery(t *testing.T) {
	sc := scenario.NewScenario(t, testhelpers.ConflictedMergeSetup)
	ctx := sc.Context

	first, err := ctx.Engine.Enter(ctx)
	require.NoError(t, err)
	apply(t, first, session.OpNextPanel, session.OpChooseTheirs)

	again, err := ctx.Engine.Enter(ctx)
	require.NoError(t, err)
	require.Same(t, first, again)
	require.Equal(t, session.OursPanel, again.Focus())
	require.Equal(t, []string{"gone.txt"}, again.Unresolved())

	// A new process starts over from the index
	sc.Rebuild()
	fresh, err := sc.Context.Engine.Enter(sc.Context)
	require.NoError(t, err)
	require.NotSame(t, first, fresh)
	require.Equal(t, []string{"abc.txt", "gone.txt"}, fresh.Unresolved())
}

func TestExecutableModeSurvivesResolution(t *testing.T) {
	sc := scenario.NewScenario(t, func(scene *testhelpers.Scene) error {
		repo := scene.Repo
		script := filepath.Join(scene.Dir, "run.sh")
		write := func(body string) error {
			if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
				return err
			}
			return os.Chmod(script, 0o755)
		}
		if err := write("#!/bin/sh\necho base\n"); err != nil {
			return err
		}
		if err := repo.CommitFiles("base", nil); err != nil {
			return err
		}
		if err := repo.CreateAndCheckoutBranch("feature"); err != nil {
			return err
		}
		if err := write("#!/bin/sh\necho feature\n"); err != nil {
			return err
		}
		if err := repo.CommitFiles("feature", nil); err != nil {
			return err
		}
		if err := repo.CheckoutBranch("main"); err != nil {
			return err
		}
		if err := write("#!/bin/sh\necho main\n"); err != nil {
			return err
		}
		if err := repo.CommitFiles("ours", nil); err != nil {
			return err
		}
		_ = repo.RunGitCommand("merge", "feature")
		return nil
	})

	require.NoError(t, actions.TakeAction(sc.Context, actions.TakeOptions{Side: conflict.UseTheirs}))

	sc.ExpectMergeCommit().ExpectHeadFile("run.sh", "#!/bin/sh\necho feature\n")
	staged, err := sc.Scene.Repo.RunGitCommandAndGetOutput("ls-tree", "HEAD", "run.sh")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(staged, "100755"), staged)
}

func TestBinaryConflictIsWholeFileOnly(t *testing.T) {
	sc := scenario.NewScenario(t, func(scene *testhelpers.Scene) error {
		repo := scene.Repo
		blob := func(b byte) *string {
			s := string([]byte{0x89, 'P', 'N', 'G', 0x00, b})
			return &s
		}
		if err := repo.CommitFiles("base", map[string]*string{"logo.png": blob(1)}); err != nil {
			return err
		}
		if err := repo.CreateAndCheckoutBranch("feature"); err != nil {
			return err
		}
		if err := repo.CommitFiles("feature", map[string]*string{"logo.png": blob(2)}); err != nil {
			return err
		}
		if err := repo.CheckoutBranch("main"); err != nil {
			return err
		}
		if err := repo.CommitFiles("ours", map[string]*string{"logo.png": blob(3)}); err != nil {
			return err
		}
		_ = repo.RunGitCommand("merge", "feature")
		return nil
	})
	ctx := sc.Context

	s, err := ctx.Engine.Enter(ctx)
	require.NoError(t, err)
	f := s.Files()[0]
	require.True(t, f.WholeFileOnly())
	require.True(t, errors.Is(f.EncodingErr(), kniterrors.ErrEncoding))
	require.Equal(t, conflict.FileMode, f.Mode())
	require.False(t, f.Choose(0, conflict.UseBoth))
	require.True(t, f.Choose(0, conflict.UseOurs))

	_, err = ctx.Engine.Finalize(ctx, "")
	require.NoError(t, err)

	got, ok := sc.Scene.Repo.ShowFile("HEAD", "logo.png")
	require.True(t, ok)
	require.Equal(t, string([]byte{0x89, 'P', 'N', 'G', 0x00, 3}), got)
}
