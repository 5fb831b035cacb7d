package config

import (
	"fmt"

	"knit.dev/knit/internal/conflict"
)

// Defaults
const (
	DefaultContextLines = 3
)

// Config is the effective configuration: repository values win over user
// values, which win over the defaults.
type Config struct {
	DefaultMode  conflict.Mode
	AutoResolve  bool
	Labels       conflict.Labels
	ContextLines int
	ConfirmAbort bool
}

// Load reads the user configuration and the configuration of the
// repository at repoRoot and merges them.
func Load(repoRoot string) (*Config, error) {
	user, err := GetUserConfig(UserConfigPath())
	if err != nil {
		return nil, err
	}
	repo := &RepoConfig{}
	if repoRoot != "" {
		if repo, err = GetRepoConfig(repoRoot); err != nil {
			return nil, err
		}
	}
	return Merge(user, repo)
}

// Merge combines user and repository configuration.
func Merge(user *UserConfig, repo *RepoConfig) (*Config, error) {
	cfg := &Config{
		DefaultMode:  conflict.BlockMode,
		ContextLines: DefaultContextLines,
		ConfirmAbort: true,
	}

	mode := user.DefaultMode
	if repo.DefaultMode != nil {
		mode = *repo.DefaultMode
	}
	if mode != "" {
		m, ok := conflict.ParseMode(mode)
		if !ok {
			return nil, fmt.Errorf("invalid defaultMode %q: expected file, block or line", mode)
		}
		cfg.DefaultMode = m
	}

	if user.AutoResolve != nil {
		cfg.AutoResolve = *user.AutoResolve
	}
	if repo.AutoResolve != nil {
		cfg.AutoResolve = *repo.AutoResolve
	}

	cfg.Labels.Ours = user.OursLabel
	if repo.OursLabel != nil {
		cfg.Labels.Ours = *repo.OursLabel
	}
	cfg.Labels.Theirs = user.TheirsLabel
	if repo.TheirsLabel != nil {
		cfg.Labels.Theirs = *repo.TheirsLabel
	}

	if n := user.UI.ContextLines; n != nil && *n >= 0 {
		cfg.ContextLines = *n
	}
	if user.UI.ConfirmAbort != nil {
		cfg.ConfirmAbort = *user.UI.ConfirmAbort
	}
	return cfg, nil
}
