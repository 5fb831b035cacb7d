package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditorCommand(t *testing.T) {
	t.Setenv("GIT_EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	require.Equal(t, "vi", EditorCommand(""))

	t.Setenv("EDITOR", "nano")
	require.Equal(t, "nano", EditorCommand(""))
	require.Equal(t, "code --wait", EditorCommand("code --wait"))

	t.Setenv("GIT_EDITOR", "emacs")
	require.Equal(t, "emacs", EditorCommand("code --wait"))
}

func TestOpenEditor(t *testing.T) {
	t.Run("returns the edited content", func(t *testing.T) {
		// A scripted "editor" that appends a line to the file
		script := filepath.Join(t.TempDir(), "append.sh")
		require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho edited >> \"$1\"\n"), 0o700))

		out, err := OpenEditor(script, "Merge feature\n", "KNIT_MSG-*")
		require.NoError(t, err)
		require.Equal(t, "Merge feature\nedited\n", out)
	})

	t.Run("editor failure", func(t *testing.T) {
		_, err := OpenEditor("false", "x", "KNIT_MSG-*")
		require.ErrorContains(t, err, "editor exited with error")
	})

	t.Run("disabled in tests", func(t *testing.T) {
		t.Setenv("KNIT_TEST_NO_INTERACTIVE", "1")
		_, err := OpenEditor("true", "x", "KNIT_MSG-*")
		require.ErrorIs(t, err, ErrInteractiveDisabled)
	})
}
