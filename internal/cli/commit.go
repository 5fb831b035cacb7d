package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
	"knit.dev/knit/internal/runtime"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		message  string
		file     string
		edit     bool
		noPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Create the merge commit once every conflict is resolved",
		Long: `Creates the merge commit for the merge in progress.

Fails without changing anything while a conflicted file is unresolved. The
message defaults to the one git prepared in MERGE_MSG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CommitAction(ctx, actions.CommitOptions{
					Message:     message,
					MessageFile: file,
					Edit:        edit,
					NoPrompt:    noPrompt,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message for the merge commit")
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the message from a file, or from stdin with '-'")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit the prepared message in your editor")
	cmd.MarkFlagsMutuallyExclusive("message", "file", "edit")
	cmd.Flags().BoolVar(&noPrompt, "no-edit", false, "Use the prepared message without asking")

	return cmd
}
