package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// UserConfig is the per-user configuration file. Keys match RepoConfig,
// plus settings for the conflict view.
type UserConfig struct {
	DefaultMode string   `toml:"default_mode"`
	AutoResolve *bool    `toml:"auto_resolve"`
	OursLabel   string   `toml:"ours_label"`
	TheirsLabel string   `toml:"theirs_label"`
	UI          UIConfig `toml:"ui"`
}

// UIConfig tunes interactive behaviour. ConfirmAbort only applies to
// `knit abort`; the conflict view always asks.
type UIConfig struct {
	ContextLines *int  `toml:"context_lines"`
	ConfirmAbort *bool `toml:"confirm_abort"`
}

// UserConfigPath returns KNIT_CONFIG when set, otherwise
// ~/.config/knit/config.toml.
func UserConfigPath() string {
	if p := os.Getenv("KNIT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "knit", "config.toml")
}

// GetUserConfig reads the user configuration at path. A missing file is an
// empty configuration.
func GetUserConfig(path string) (*UserConfig, error) {
	var config UserConfig
	if path == "" {
		return &config, nil
	}
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("failed to parse user config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return &config, nil
}
