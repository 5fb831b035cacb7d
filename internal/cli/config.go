package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"knit.dev/knit/internal/config"
	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set repository configuration values.

Repository values override the user configuration file
(~/.config/knit/config.toml, or $KNIT_CONFIG).

Examples:
  knit config get default-mode
  knit config set default-mode line
  knit config set auto-resolve true
  knit config set labels.theirs upstream`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func repoRoot() (string, error) {
	repo, err := git.OpenRepository(".")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return repo.GetRepoRoot(), nil
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get an effective configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := repoRoot()
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case "default-mode":
				fmt.Fprintln(out, cfg.DefaultMode)
			case "auto-resolve":
				fmt.Fprintln(out, cfg.AutoResolve)
			case "labels.ours":
				if cfg.Labels.Ours == "" {
					cfg.Labels.Ours = conflict.DefaultLabels.Ours
				}
				fmt.Fprintln(out, cfg.Labels.Ours)
			case "labels.theirs":
				fmt.Fprintln(out, cfg.Labels.Theirs)
			case "ui.context-lines":
				fmt.Fprintln(out, cfg.ContextLines)
			case "ui.confirm-abort":
				fmt.Fprintln(out, cfg.ConfirmAbort)
			default:
				return fmt.Errorf("unknown configuration key: %s", args[0])
			}
			return nil
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a repository configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			root, err := repoRoot()
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			splog := tui.NewSplog()

			switch key {
			case "default-mode":
				if err := config.SetDefaultMode(root, value); err != nil {
					return err
				}
			case "auto-resolve":
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid value for auto-resolve: %s (must be 'true' or 'false')", value)
				}
				if err := config.SetAutoResolve(root, enabled); err != nil {
					return fmt.Errorf("failed to set auto-resolve: %w", err)
				}
			case "labels.ours", "labels.theirs":
				current, err := config.GetRepoConfig(root)
				if err != nil {
					return err
				}
				ours, theirs := deref(current.OursLabel), deref(current.TheirsLabel)
				if key == "labels.ours" {
					ours = value
				} else {
					theirs = value
				}
				if err := config.SetLabels(root, ours, theirs); err != nil {
					return fmt.Errorf("failed to set %s: %w", key, err)
				}
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			splog.Info("Set %s to: %s", key, value)
			return nil
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
