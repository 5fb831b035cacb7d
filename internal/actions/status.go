package actions

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"knit.dev/knit/internal/conflict"
	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/tui"
)

// StatusAction prints the conflicted files of the merge in progress and
// how far their resolution has come.
func StatusAction(ctx *runtime.Context) error {
	splog := ctx.Splog

	s, err := ctx.Engine.Enter(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		splog.Info("No merge in progress.")
		return nil
	}

	head, err := ctx.Engine.MergeHead()
	if err != nil {
		return err
	}
	splog.Info("%s", tui.ColorYellow(fmt.Sprintf("Merging %s", head.String()[:7])))

	files := s.Files()
	if len(files) == 0 {
		splog.Info("All conflicts resolved.")
		splog.Tip("Run %s to create the merge commit.", tui.ColorCyan("knit commit"))
		return nil
	}

	for _, f := range files {
		splog.Info("  %s", FileStatusLine(f))
	}
	splog.Newline()

	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		splog.Info("%d of %d files unresolved.", len(unresolved), len(files))
		splog.Tip("Run %s to resolve them.", tui.ColorCyan("knit resolve"))
	} else {
		splog.Tip("Run %s to create the merge commit.", tui.ColorCyan("knit commit"))
	}
	return nil
}

// FileStatusLine describes one conflicted file in a single line.
func FileStatusLine(f *conflict.File) string {
	state := tui.ColorRed("unresolved")
	if f.IsFullyResolved() {
		state = tui.ColorGreen("resolved")
	}

	detail := f.Kind.String()
	if f.EncodingErr() != nil {
		detail += ", binary"
	} else if conflicts, resolved := f.Summary(); conflicts > 0 {
		detail += fmt.Sprintf(", %d/%d sections", resolved, conflicts)
	}

	return fmt.Sprintf("%-10s %s %s", state, f.Path, tui.ColorDim(fmt.Sprintf("(%s; ours %s, theirs %s)",
		detail, sideSize(f, conflict.Ours), sideSize(f, conflict.Theirs))))
}

func sideSize(f *conflict.File, side conflict.Side) string {
	if !f.Has(side) {
		return "deleted"
	}
	return humanize.Bytes(uint64(len(f.Content(side))))
}
