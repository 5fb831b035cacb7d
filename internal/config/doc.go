// Package config manages knit configuration.
//
// It handles:
//   - Repository-specific configuration (.git/.knit_config, JSON)
//   - Global user configuration (~/.config/knit/config.toml)
//   - Merging both into the effective Config
package config
