package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"knit.dev/knit/internal/conflict"
)

const repoConfigFile = ".knit_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	DefaultMode *string `json:"defaultMode,omitempty"`
	AutoResolve *bool   `json:"autoResolve,omitempty"`
	OursLabel   *string `json:"oursLabel,omitempty"`
	TheirsLabel *string `json:"theirsLabel,omitempty"`
}

func repoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", repoConfigFile)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func writeRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(repoConfigPath(repoRoot), configJSON, 0600)
}

// SetDefaultMode updates the mode new files start in
func SetDefaultMode(repoRoot string, mode string) error {
	if _, ok := conflict.ParseMode(mode); !ok {
		return fmt.Errorf("invalid mode %q: expected file, block or line", mode)
	}

	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.DefaultMode = &mode
	return writeRepoConfig(repoRoot, config)
}

// SetAutoResolve updates whether one-sided sections are resolved on load
func SetAutoResolve(repoRoot string, enabled bool) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.AutoResolve = &enabled
	return writeRepoConfig(repoRoot, config)
}

// SetLabels updates the conflict marker labels. Empty values unset a label.
func SetLabels(repoRoot string, ours, theirs string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.OursLabel = optional(ours)
	config.TheirsLabel = optional(theirs)
	return writeRepoConfig(repoRoot, config)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
