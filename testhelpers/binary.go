package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
)

// GetSharedBinaryPath returns the path of the knit binary, building it on
// first use. TestMain builds it up front for packages that use it.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		sharedBinaryPath, binaryErr = buildBinary()
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error that occurred during binary building.
func GetBinaryError() error {
	return binaryErr
}

// buildBinary builds the knit binary into a temporary directory and
// returns its path.
func buildBinary() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "knit-test-binary-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "knit")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/knit")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmpDir) // Ignore cleanup errors
		return "", fmt.Errorf("failed to build: %s: %w", string(output), err)
	}
	return binaryPath, nil
}

// findModuleRoot walks up the directory tree from startDir to find the
// directory containing go.mod.
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// TestMain builds the knit binary once, runs the tests and removes the
// binary again. Packages call it from their own TestMain.
func TestMain(m *testing.M, cleanup func()) {
	binaryPath := GetSharedBinaryPath()
	if binaryErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to build knit binary: %v\n", binaryErr)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(filepath.Dir(binaryPath)) // Ignore cleanup errors
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}
