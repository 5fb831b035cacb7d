// Package git provides go-git backed access to a repository's merge state,
// index and objects, plus a runner for the few operations left to the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	kniterrors "knit.dev/knit/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, true, args...)
}

// runInternal applies the default timeout when ctx has no deadline and
// wraps failures in a GitCommandError.
func (r *CommandRunner) runInternal(ctx context.Context, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", kniterrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", kniterrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// MergeOptions configures StartMerge.
type MergeOptions struct {
	NoFastForward bool
	Message       string
}

// StartMerge runs `git merge` for branch. When git stops on conflicts the
// merge is left in progress and a MergeConflictError is returned.
func (r *CommandRunner) StartMerge(ctx context.Context, branch string, opts MergeOptions) (string, error) {
	args := []string{"merge"}
	if opts.NoFastForward {
		args = append(args, "--no-ff")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, branch)

	out, err := r.Run(ctx, args...)
	if err == nil {
		return out, nil
	}
	if _, verr := r.Run(ctx, "rev-parse", "-q", "--verify", string(MergeHeadRef)); verr == nil {
		return out, kniterrors.NewMergeConflictError(branch)
	}
	return out, err
}
