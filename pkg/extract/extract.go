package extract

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/files"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/utils"
)

// Extract unpacks archivePath into a fresh extractDir
func Extract(archivePath, extractDir string, out output.Output) (*files.Archive, error) {
	if out == nil {
		out = output.Discard{}
	}

	// Remove extraction directory if it exists to avoid permission issues from previous failed runs
	if _, err := os.Stat(extractDir); err == nil {
		if err := os.RemoveAll(extractDir); err != nil {
			return nil, fmt.Errorf("failed to clean up existing extract directory: %w", err)
		}
	}

	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extract directory: %w", err)
	}

	result, err := Unarchive(archivePath, extractDir, files.WithOverwrite(true))
	if err != nil {
		return nil, fmt.Errorf("failed to extract archive: %w", err)
	}
	utils.LogExtraction(out, archivePath, extractDir, len(result.Files))

	if err := verifyExtraction(extractDir); err != nil {
		return nil, fmt.Errorf("extraction verification failed: %w", err)
	}

	return result, nil
}

// verifyExtraction verifies that extraction destination exists and is not empty
func verifyExtraction(extractDir string) error {
	info, err := os.Stat(extractDir)
	if err != nil {
		return fmt.Errorf("extraction destination does not exist: %s", extractDir)
	}

	if !info.IsDir() {
		return fmt.Errorf("extraction destination is not a directory: %s", extractDir)
	}

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return fmt.Errorf("failed to read extraction destination: %w", err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("extraction destination is empty: %s", extractDir)
	}

	return nil
}
