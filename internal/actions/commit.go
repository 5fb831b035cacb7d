package actions

import (
	"errors"
	"fmt"
	"strings"

	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/runtime"
	"knit.dev/knit/internal/session"
	"knit.dev/knit/internal/tui"
	"knit.dev/knit/internal/utils"
)

// ErrEmptyMessage is returned when the edited commit message is empty
var ErrEmptyMessage = errors.New("aborting commit due to empty commit message")

// CommitOptions contains options for the commit command
type CommitOptions struct {
	Message string
	// MessageFile reads the message from a file, or stdin when "-"
	MessageFile string
	// Edit opens the editor on the prepared message
	Edit bool
	// NoPrompt commits with the prepared message instead of asking
	NoPrompt bool
}

// CommitAction finalizes the merge in progress. It fails with an
// UnresolvedConflictsError, and changes nothing, while any file is unresolved.
func CommitAction(ctx *runtime.Context, opts CommitOptions) error {
	splog := ctx.Splog
	eng := ctx.Engine

	s, err := eng.Enter(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		splog.Info("No merge in progress.")
		return nil
	}
	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		for _, p := range unresolved {
			splog.Info("  %s", tui.ColorRed(p))
		}
		splog.Tip("Run %s to resolve them.", tui.ColorCyan("knit resolve"))
		return kniterrors.NewUnresolvedConflictsError(unresolved)
	}

	message, err := commitMessage(ctx, s, opts)
	if err != nil {
		return err
	}

	commit, err := eng.Finalize(ctx, message)
	if err != nil {
		return err
	}
	splog.Success("Created merge commit %s.", commit.String()[:7])
	return nil
}

// commitMessage returns the message to commit with; empty means the
// prepared MERGE_MSG.
func commitMessage(ctx *runtime.Context, s *session.Session, opts CommitOptions) (string, error) {
	switch {
	case opts.Message != "":
		return opts.Message, nil
	case opts.MessageFile != "":
		return utils.ReadMessage(opts.MessageFile)
	case opts.Edit:
		edited, err := tui.OpenEditor(tui.EditorCommand(ctx.Repo.CoreEditor()), editTemplate(ctx.Engine.MergeMessage(), s), "KNIT_MERGE_MSG-*")
		if err != nil {
			return "", err
		}
		msg := utils.StripComments(edited)
		if msg == "" {
			return "", ErrEmptyMessage
		}
		return msg, nil
	case !opts.NoPrompt && isInteractive():
		subject, _, _ := strings.Cut(ctx.Engine.MergeMessage(), "\n")
		answer, err := tui.PromptTextInput("Merge commit message:", subject)
		if err != nil {
			return "", err
		}
		if answer != subject {
			return answer, nil
		}
	}
	return "", nil
}

func editTemplate(prepared string, s *session.Session) string {
	var b strings.Builder
	b.WriteString(prepared)
	b.WriteString("\n\n# Please enter the commit message for the merge. Lines starting\n")
	b.WriteString("# with '#' will be ignored, and an empty message aborts the commit.\n#\n")
	b.WriteString("# Resolved conflicts:\n")
	for _, f := range s.Files() {
		fmt.Fprintf(&b, "#\t%s\n", f.Path)
	}
	return b.String()
}
