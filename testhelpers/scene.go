package testhelpers

import (
	"os"
	"os/exec"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a test scene in a temporary directory removed by the
// test cleanup. Tests are skipped when the git binary is not installed.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not found")
	}

	dir := t.TempDir()
	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{Dir: dir, Repo: repo}
	if err := scene.writeDefaultConfigs(); err != nil {
		t.Fatalf("Failed to write config files: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// writeDefaultConfigs writes an empty user configuration so the tests never
// read the configuration of the machine they run on.
func (s *Scene) writeDefaultConfigs() error {
	return os.WriteFile(s.Repo.UserConfigPath, []byte("[ui]\nconfirm_abort = true\n"), 0600)
}

func text(s string) *string { return &s }

// ConflictSceneSetup prepares branches that conflict when "feature" is
// merged into main:
//
//	abc.txt    both sides changed adjacent lines
//	gone.txt   deleted on main, modified on feature
//	clean.txt  changed on feature only
func ConflictSceneSetup(scene *Scene) error {
	repo := scene.Repo
	if err := repo.CommitFiles("base", map[string]*string{
		"abc.txt":   text("A\nB\nC\n"),
		"gone.txt":  text("g\n"),
		"clean.txt": text("c\n"),
	}); err != nil {
		return err
	}
	if err := repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := repo.CommitFiles("feature", map[string]*string{
		"abc.txt":   text("A\nB\nY\n"),
		"gone.txt":  text("g2\n"),
		"clean.txt": text("c2\n"),
	}); err != nil {
		return err
	}
	if err := repo.CheckoutBranch("main"); err != nil {
		return err
	}
	return repo.CommitFiles("ours", map[string]*string{
		"abc.txt":  text("A\nX\nC\n"),
		"gone.txt": nil,
	})
}

// ConflictedMergeSetup is ConflictSceneSetup followed by `git merge feature`,
// leaving the merge stopped on conflicts.
func ConflictedMergeSetup(scene *Scene) error {
	if err := ConflictSceneSetup(scene); err != nil {
		return err
	}
	// git exits non-zero when the merge stops on conflicts
	_ = scene.Repo.RunGitCommand("merge", "feature")
	return nil
}
