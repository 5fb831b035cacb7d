package tui

import (
	"fmt"
	"os"
	"os/exec"
)

// EditorCommand picks the editor the way git does: GIT_EDITOR, then the
// configured core.editor, then VISUAL and EDITOR, then vi.
func EditorCommand(coreEditor string) string {
	if e := os.Getenv("GIT_EDITOR"); e != "" {
		return e
	}
	if coreEditor != "" {
		return coreEditor
	}
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(name); e != "" {
			return e
		}
	}
	return "vi"
}

// OpenEditor opens editor on a temporary file holding initialContent and
// returns the file's content once the editor exits.
func OpenEditor(editor, initialContent, filenamePattern string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp("", filenamePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.WriteString(initialContent); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// The editor may carry arguments, so let the shell split it
	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(content), nil
}
