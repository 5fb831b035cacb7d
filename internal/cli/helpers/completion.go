package helpers

import (
	"github.com/spf13/cobra"

	"knit.dev/knit/internal/git"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction that returns all
// branch names in the repository.
func CompleteBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.BranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// CompleteConflictedPaths returns the paths the index still marks as conflicted.
func CompleteConflictedPaths(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	unmerged, err := repo.UnmergedPaths()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	paths := make([]string, len(unmerged))
	for i, u := range unmerged {
		paths[i] = u.Path
	}
	return paths, cobra.ShellCompDirectiveNoFileComp
}
