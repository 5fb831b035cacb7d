package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	t.Run("writes bare messages to the console", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var out bytes.Buffer
		splog, err := NewSplogWithConfig(&out, "")
		require.NoError(t, err)

		splog.Info("loaded %d files", 2)
		splog.Debug("hidden")
		splog.Warn("careful")
		require.Equal(t, "loaded 2 files\n⚠️  careful\n", out.String())
	})

	t.Run("quiet silences the console but not the log file", func(t *testing.T) {
		var out bytes.Buffer
		logPath := filepath.Join(t.TempDir(), "logs", "knit.log")
		splog, err := NewSplogWithConfig(&out, logPath)
		require.NoError(t, err)

		splog.SetQuiet(true)
		require.True(t, splog.IsQuiet())
		splog.Info("merge committed")
		splog.Debug("details")
		splog.Page("page")
		require.NoError(t, splog.Close())

		require.Empty(t, out.String())
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "merge committed")
		require.Contains(t, string(data), "details")
	})

	t.Run("log path honors KNIT_LOG_FILE", func(t *testing.T) {
		t.Setenv("KNIT_LOG_FILE", "/tmp/custom.log")
		require.Equal(t, "/tmp/custom.log", GetLogFilePath())
	})
}
