package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	kniterrors "knit.dev/knit/internal/errors"
)

func TestBackendError(t *testing.T) {
	err := fmt.Errorf("loading: %w", kniterrors.NewBackendError("load", kniterrors.ErrNoMergeInProgress))

	require.True(t, errors.Is(err, kniterrors.ErrBackend))
	require.True(t, errors.Is(err, kniterrors.ErrNoMergeInProgress))
	require.False(t, errors.Is(err, kniterrors.ErrUnresolvedConflicts))

	var backend *kniterrors.BackendError
	require.True(t, errors.As(err, &backend))
	require.Equal(t, "load", backend.Op)
	require.Equal(t, "load: no merge in progress", backend.Error())
}

func TestUnresolvedConflictsError(t *testing.T) {
	one := kniterrors.NewUnresolvedConflictsError([]string{"a.txt"})
	require.Equal(t, "unresolved conflicts in a.txt", one.Error())

	many := kniterrors.NewUnresolvedConflictsError([]string{"a.txt", "b.txt"})
	require.Equal(t, "unresolved conflicts in 2 files: a.txt, b.txt", many.Error())
	require.True(t, errors.Is(many, kniterrors.ErrUnresolvedConflicts))
	require.False(t, errors.Is(many, kniterrors.ErrBackend))
}

func TestEncodingError(t *testing.T) {
	err := kniterrors.NewEncodingError("logo.png", "ours")
	require.Equal(t, "logo.png (ours) is not text", err.Error())
	require.True(t, errors.Is(err, kniterrors.ErrEncoding))
}

func TestGitCommandError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := kniterrors.NewGitCommandError("merge", []string{"feature"}, "", "CONFLICT", cause)

	require.True(t, errors.Is(err, cause))
	require.Contains(t, err.Error(), "git command failed: merge [feature]")
	require.Contains(t, err.Error(), "stderr: CONFLICT")
}
