// Package testhelpers provides testing utilities for knit: in-memory merge
// fixtures, real git repositories driven through the git binary, and the
// shared knit binary for CLI tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir            string
	UserConfigPath string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{
		Dir:            dir,
		UserConfigPath: filepath.Join(dir, ".git", "knit_user_config.toml"),
	}

	// Use git -c flags to avoid reading global config and set local configs
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Configure Git user (required for commits)
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "merge.conflictStyle", "merge"); err != nil {
		return nil, err
	}

	return repo, nil
}

// runGitCommand executes a git command in the repository directory.
// Uses GIT_CONFIG_GLOBAL=/dev/null to avoid reading global config.
func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	return cmd.Run()
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RunCliCommandAndGetOutput runs the knit binary at cliPath in the
// repository and returns its combined output. Prompts are disabled.
func (r *GitRepo) RunCliCommandAndGetOutput(cliPath string, args ...string) (string, error) {
	cmd := exec.Command(cliPath, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"KNIT_CONFIG="+r.UserConfigPath,
		"KNIT_LOG_FILE="+filepath.Join(r.Dir, ".git", "knit.log"),
		"KNIT_TEST_NO_INTERACTIVE=1",
	)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// WriteFile writes content to a path relative to the repository root.
func (r *GitRepo) WriteFile(name, content string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile reads a path relative to the repository root.
func (r *GitRepo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	return string(data), err
}

// FileExists reports whether a path exists in the working tree.
func (r *GitRepo) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(r.Dir, name))
	return err == nil
}

// CommitFiles writes files, removes the paths mapped to nil, and commits
// everything with message.
func (r *GitRepo) CommitFiles(message string, files map[string]*string) error {
	for name, content := range files {
		if content == nil {
			if err := r.runGitCommand("rm", "-q", "--", name); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}
			continue
		}
		if err := r.WriteFile(name, *content); err != nil {
			return err
		}
	}
	if err := r.runGitCommand("add", "-A"); err != nil {
		return err
	}
	return r.runGitCommand("commit", "--allow-empty", "-q", "-m", message)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-q", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-q", name)
}

// MergeInProgress reports whether MERGE_HEAD exists.
func (r *GitRepo) MergeInProgress() bool {
	return r.runGitCommand("rev-parse", "-q", "--verify", "MERGE_HEAD") == nil
}

// UnmergedPaths lists the paths git still considers conflicted.
func (r *GitRepo) UnmergedPaths() ([]string, error) {
	out, err := r.RunGitCommandAndGetOutput("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ShowFile returns the content of path at rev, and whether it exists there.
func (r *GitRepo) ShowFile(rev, path string) (string, bool) {
	cmd := exec.Command("git", "show", rev+":"+path)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}

// ParentCount returns the number of parents of rev.
func (r *GitRepo) ParentCount(rev string) (int, error) {
	out, err := r.RunGitCommandAndGetOutput("rev-list", "--parents", "-n", "1", rev)
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(out)) - 1, nil
}

// CommitMessage returns the full message of rev.
func (r *GitRepo) CommitMessage(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("log", "-1", "--format=%B", rev)
}

// IsClean reports whether the index and working tree match HEAD.
func (r *GitRepo) IsClean() (bool, error) {
	out, err := r.RunGitCommandAndGetOutput("status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference).
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}

// CommitCount returns the number of commits reachable from rev.
func (r *GitRepo) CommitCount(rev string) (int, error) {
	out, err := r.RunGitCommandAndGetOutput("rev-list", "--count", rev)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(out)
}

// splitLines splits a string by newlines and returns non-empty lines.
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
