package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"knit.dev/knit/internal/conflict"
)

func newRepoRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeUserConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRepoConfig(t *testing.T) {
	t.Run("returns empty config when file does not exist", func(t *testing.T) {
		cfg, err := GetRepoConfig(newRepoRoot(t))
		require.NoError(t, err)
		require.Nil(t, cfg.DefaultMode)
		require.Nil(t, cfg.AutoResolve)
	})

	t.Run("round trips settings", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, SetDefaultMode(root, "line"))
		require.NoError(t, SetAutoResolve(root, true))
		require.NoError(t, SetLabels(root, "mine", ""))

		cfg, err := GetRepoConfig(root)
		require.NoError(t, err)
		require.Equal(t, "line", *cfg.DefaultMode)
		require.True(t, *cfg.AutoResolve)
		require.Equal(t, "mine", *cfg.OursLabel)
		require.Nil(t, cfg.TheirsLabel)
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		require.Error(t, SetDefaultMode(newRepoRoot(t), "word"))
	})

	t.Run("fails on malformed json", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", ".knit_config"), []byte("{"), 0o600))
		_, err := GetRepoConfig(root)
		require.Error(t, err)
	})
}

func TestUserConfig(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		cfg, err := GetUserConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		require.Equal(t, &UserConfig{}, cfg)
	})

	t.Run("decodes toml", func(t *testing.T) {
		path := writeUserConfig(t, `
default_mode = "file"
auto_resolve = true
theirs_label = "incoming"

[ui]
context_lines = 5
confirm_abort = false
`)
		cfg, err := GetUserConfig(path)
		require.NoError(t, err)
		require.Equal(t, "file", cfg.DefaultMode)
		require.True(t, *cfg.AutoResolve)
		require.Equal(t, "incoming", cfg.TheirsLabel)
		require.Equal(t, 5, *cfg.UI.ContextLines)
		require.False(t, *cfg.UI.ConfirmAbort)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := GetUserConfig(writeUserConfig(t, "colour = \"red\"\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "colour")
	})

	t.Run("honors KNIT_CONFIG", func(t *testing.T) {
		t.Setenv("KNIT_CONFIG", "/tmp/knit-test.toml")
		require.Equal(t, "/tmp/knit-test.toml", UserConfigPath())
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("KNIT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
		cfg, err := Load(newRepoRoot(t))
		require.NoError(t, err)
		require.Equal(t, conflict.BlockMode, cfg.DefaultMode)
		require.False(t, cfg.AutoResolve)
		require.Equal(t, DefaultContextLines, cfg.ContextLines)
		require.True(t, cfg.ConfirmAbort)
		require.Equal(t, conflict.Labels{}, cfg.Labels)
	})

	t.Run("repository config wins over user config", func(t *testing.T) {
		t.Setenv("KNIT_CONFIG", writeUserConfig(t, `
default_mode = "file"
auto_resolve = true
ours_label = "user"
theirs_label = "incoming"
`))
		root := newRepoRoot(t)
		require.NoError(t, SetDefaultMode(root, "line"))
		require.NoError(t, SetAutoResolve(root, false))
		require.NoError(t, SetLabels(root, "repo", ""))

		cfg, err := Load(root)
		require.NoError(t, err)
		require.Equal(t, conflict.LineMode, cfg.DefaultMode)
		require.False(t, cfg.AutoResolve)
		require.Equal(t, conflict.Labels{Ours: "repo", Theirs: "incoming"}, cfg.Labels)
	})

	t.Run("invalid user mode fails", func(t *testing.T) {
		t.Setenv("KNIT_CONFIG", writeUserConfig(t, "default_mode = \"word\"\n"))
		_, err := Load(newRepoRoot(t))
		require.Error(t, err)
	})
}
