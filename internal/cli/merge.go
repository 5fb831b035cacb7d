package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
	"knit.dev/knit/internal/runtime"
)

// newMergeCmd creates the merge command
func newMergeCmd() *cobra.Command {
	var (
		noFF      bool
		message   string
		noResolve bool
	)

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Long: `Merges a branch into the current branch with git.

When the merge stops on conflicts the conflicted files are listed and, on a
terminal, the conflict view opens unless --no-resolve is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.MergeAction(ctx, actions.MergeOptions{
					Branch:        args[0],
					NoFastForward: noFF,
					Message:       message,
					Resolve:       !noResolve,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&noFF, "no-ff", false, "Create a merge commit even when the merge could fast-forward")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message for the merge commit")
	cmd.Flags().BoolVar(&noResolve, "no-resolve", false, "Do not open the conflict view when the merge stops on conflicts")

	return cmd
}
