package cli

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/actions"
	"knit.dev/knit/internal/cli/helpers"
)

// newResolveCmd creates the resolve command
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resolve",
		Aliases: []string{"r"},
		Short:   "Open the conflict view for the merge in progress",
		Long: `Opens the conflict view for the merge in progress.

The view shows the conflicted files, the ours and theirs versions of the
current file and the result being built. Files can be resolved whole
(file mode), per conflicting section (block mode) or per line (line mode),
and the result can be edited by hand. Leaving the view keeps every choice
made so far for as long as the process runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ResolveAction)
		},
	}
}
