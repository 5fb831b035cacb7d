package actions

import (
	"fmt"

	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
)

// PrintConflictStatus displays conflict information and instructions after
// a merge stopped on conflicts
func PrintConflictStatus(ctx *runtime.Context, branch string) error {
	splog := ctx.Splog
	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflicts merging %s", branch)))
	splog.Newline()

	s, err := ctx.Engine.Enter(ctx)
	if err != nil {
		return err
	}
	if s != nil && len(s.Files()) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, f := range s.Files() {
			splog.Info("  %s", FileStatusLine(f))
		}
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To finish the merge:"))
	splog.Info("(1) resolve the listed conflicts with %s", tui.ColorCyan("knit resolve"))
	splog.Info("    or take one side with %s", tui.ColorCyan("knit take --ours|--theirs"))
	splog.Info("(2) create the merge commit from the conflict view, or with %s", tui.ColorCyan("knit commit"))
	splog.Info("It's safe to cancel the merge with %s.", tui.ColorCyan("knit abort"))
	return nil
}
