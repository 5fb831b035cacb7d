package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFromStdin reads all content from standard input. It returns an
// empty string without blocking when stdin is a terminal or an empty file.
func ReadFromStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}

	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}
	if stat.Mode().IsRegular() && stat.Size() == 0 {
		return "", nil
	}

	bytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytes)), nil
}

// ReadMessage reads a commit message from path, or from stdin when path
// is "-". Lines starting with '#' are dropped as git does.
func ReadMessage(path string) (string, error) {
	var raw string
	if path == "-" {
		msg, err := ReadFromStdin()
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		raw = msg
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read message file: %w", err)
		}
		raw = string(data)
	}
	return StripComments(raw), nil
}

// StripComments removes '#' comment lines and surrounding blank lines.
func StripComments(msg string) string {
	var kept []string
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
