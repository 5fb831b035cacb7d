package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
	"knit.dev/knit/internal/runtime"
)

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	var (
		force bool
	)

	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the merge in progress",
		Long: `Aborts the merge in progress.

The index and every file the merge touched are restored from HEAD and the
merge state is removed. All conflict resolutions made so far are lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.AbortAction(ctx, actions.AbortOptions{Force: force})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not prompt for confirmation; abort immediately.")

	return cmd
}
