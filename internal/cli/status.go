package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "List the conflicted files of the merge in progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.StatusAction)
		},
	}
}
