package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "knit",
		Short: "knit resolves git merge conflicts side by side in the terminal",
		Long: `knit is a terminal git client built around merge-conflict resolution.

Start a merge with 'knit merge <branch>' (or plain git), then resolve the
conflicts file by file, section by section, or line by line with
'knit resolve'. The merge commit is created once every file is resolved.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if tui.ColorDisabled(noColor) {
				tui.DisableColor()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newTakeCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newAbortCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
