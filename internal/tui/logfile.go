package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If KNIT_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.knit/logs/knit.log
func GetLogFilePath() string {
	if customPath := os.Getenv("KNIT_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "knit.log"
	}

	return filepath.Join(homeDir, ".knit", "logs", "knit.log")
}
