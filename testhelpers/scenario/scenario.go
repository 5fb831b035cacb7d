// Package scenario provides a high-level test scenario that combines a Scene
// and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/config"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
	"knit.dev/knit/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene
// and a runtime Context over the scene's repository.
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	Context    *runtime.Context
	Output     *bytes.Buffer
	BinaryPath string
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	// Force non-interactive mode for tests
	t.Setenv("KNIT_TEST_NO_INTERACTIVE", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")

	scene := testhelpers.NewScene(t, setup)
	t.Setenv("KNIT_CONFIG", scene.Repo.UserConfigPath)

	s := &Scenario{T: t, Scene: scene}
	return s.Rebuild()
}

// Rebuild opens the repository again and replaces the context, dropping any
// in-memory session, as a fresh knit process would.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()
	repo, err := git.OpenRepository(s.Scene.Dir)
	require.NoError(s.T, err)
	cfg, err := config.Load(repo.GetRepoRoot())
	require.NoError(s.T, err)

	s.Output = &bytes.Buffer{}
	splog, err := tui.NewSplogWithConfig(s.Output, "")
	require.NoError(s.T, err)
	s.Context = runtime.NewContext(context.Background(), repo, cfg, splog)
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand(args...)
	require.NoError(s.T, err, "git %v", args)
	return s
}

// WithBinaryPath sets the path to the knit binary for RunCli methods.
func (s *Scenario) WithBinaryPath(path string) *Scenario {
	s.BinaryPath = path
	return s
}

// RunCli executes a knit CLI command that must succeed and returns its output.
func (s *Scenario) RunCli(args ...string) string {
	s.T.Helper()
	output, err := s.RunCliAndGetOutput(args...)
	require.NoError(s.T, err, "CLI command failed: knit %v\nOutput: %s", args, output)
	return output
}

// RunCliAndGetOutput executes a knit CLI command and returns its output.
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	s.T.Helper()
	if s.BinaryPath == "" {
		s.T.Fatal("BinaryPath not set. Call WithBinaryPath first.")
	}
	return s.Scene.Repo.RunCliCommandAndGetOutput(s.BinaryPath, args...)
}

// RunExpectError executes a knit CLI command that must fail and returns its output.
func (s *Scenario) RunExpectError(args ...string) string {
	s.T.Helper()
	output, err := s.RunCliAndGetOutput(args...)
	require.Error(s.T, err, "expected CLI command to fail: knit %v\nOutput: %s", args, output)
	return output
}

// ExpectMergeInProgress asserts whether MERGE_HEAD exists.
func (s *Scenario) ExpectMergeInProgress(expected bool) *Scenario {
	s.T.Helper()
	require.Equal(s.T, expected, s.Scene.Repo.MergeInProgress())
	return s
}

// ExpectFile asserts the working tree content of name.
func (s *Scenario) ExpectFile(name, expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.ReadFile(name)
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual, "content of %s", name)
	return s
}

// ExpectNoFile asserts that name is absent from the working tree.
func (s *Scenario) ExpectNoFile(name string) *Scenario {
	s.T.Helper()
	require.False(s.T, s.Scene.Repo.FileExists(name), "%s should not exist", name)
	return s
}

// ExpectHeadFile asserts the content of name in the HEAD commit.
func (s *Scenario) ExpectHeadFile(name, expected string) *Scenario {
	s.T.Helper()
	actual, ok := s.Scene.Repo.ShowFile("HEAD", name)
	require.True(s.T, ok, "%s missing from HEAD", name)
	require.Equal(s.T, expected, actual, "content of %s in HEAD", name)
	return s
}

// ExpectMergeCommit asserts that HEAD has two parents and git considers the
// working tree clean.
func (s *Scenario) ExpectMergeCommit() *Scenario {
	s.T.Helper()
	parents, err := s.Scene.Repo.ParentCount("HEAD")
	require.NoError(s.T, err)
	require.Equal(s.T, 2, parents)

	unmerged, err := s.Scene.Repo.UnmergedPaths()
	require.NoError(s.T, err)
	require.Empty(s.T, unmerged)

	clean, err := s.Scene.Repo.IsClean()
	require.NoError(s.T, err)
	require.True(s.T, clean, "working tree should be clean after the merge commit")
	return s
}
