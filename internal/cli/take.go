package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/runtime"
)

// newTakeCmd creates the take command
func newTakeCmd() *cobra.Command {
	var (
		ours    bool
		theirs  bool
		sel     bool
		message string
	)

	cmd := &cobra.Command{
		Use:   "take (--ours|--theirs) [paths...]",
		Short: "Resolve whole files with one side",
		Long: `Resolves the named conflicted files, or all of them, with the ours or
theirs version. When no conflict is left the merge commit is created.

Examples:
  knit take --theirs
  knit take --ours go.sum vendor/modules.txt
  knit take --theirs --select`,
		ValidArgsFunction: helpers.CompleteConflictedPaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ours == theirs {
				return fmt.Errorf("exactly one of --ours or --theirs is required")
			}
			side := conflict.UseOurs
			if theirs {
				side = conflict.UseTheirs
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.TakeAction(ctx, actions.TakeOptions{
					Side:    side,
					Paths:   args,
					Select:  sel,
					Message: message,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&ours, "ours", false, "Take the version of the current branch")
	cmd.Flags().BoolVar(&theirs, "theirs", false, "Take the version of the branch being merged")
	cmd.Flags().BoolVarP(&sel, "select", "s", false, "Choose the files interactively")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message for the merge commit")

	return cmd
}
