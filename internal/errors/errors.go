// Package errors provides sentinel errors and custom error types for knit.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrBackend indicates that the repository was not in the expected state
	// or that reading or writing repository data failed
	ErrBackend = errors.New("repository backend error")

	// ErrUnresolvedConflicts indicates that finalize found files that are not fully resolved
	ErrUnresolvedConflicts = errors.New("unresolved conflicts")

	// ErrEncoding indicates that file content cannot be aligned as text
	ErrEncoding = errors.New("content is not text")

	// ErrNoMergeInProgress indicates that the repository has no pending merge
	ErrNoMergeInProgress = errors.New("no merge in progress")

	// ErrMergeConflict indicates that starting a merge stopped on conflicts
	ErrMergeConflict = errors.New("merge conflict")
)

// BackendError wraps a failure talking to the repository. Op names the step that failed.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrBackend
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// NewBackendError creates a new BackendError
func NewBackendError(op string, err error) *BackendError {
	return &BackendError{Op: op, Err: err}
}

// UnresolvedConflictsError lists the paths that still carry conflicts
type UnresolvedConflictsError struct {
	Paths []string
}

func (e *UnresolvedConflictsError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("unresolved conflicts in %s", e.Paths[0])
	}
	return fmt.Sprintf("unresolved conflicts in %d files: %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// Is returns true if the target error is ErrUnresolvedConflicts
func (e *UnresolvedConflictsError) Is(target error) bool {
	return target == ErrUnresolvedConflicts
}

// NewUnresolvedConflictsError creates a new UnresolvedConflictsError
func NewUnresolvedConflictsError(paths []string) *UnresolvedConflictsError {
	return &UnresolvedConflictsError{Paths: paths}
}

// EncodingError represents content that could not be decoded as text
type EncodingError struct {
	Path string
	Side string
}

func (e *EncodingError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%s (%s) is not text", e.Path, e.Side)
	}
	return fmt.Sprintf("%s is not text", e.Path)
}

// Is returns true if the target error is ErrEncoding
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// NewEncodingError creates a new EncodingError
func NewEncodingError(path, side string) *EncodingError {
	return &EncodingError{Path: path, Side: side}
}

// MergeConflictError is returned when `git merge` stops with conflicts
type MergeConflictError struct {
	Branch string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merging %s produced conflicts", e.Branch)
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(branch string) *MergeConflictError {
	return &MergeConflictError{Branch: branch}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
