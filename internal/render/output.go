package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes a file atomically using temporary file + rename
func writeFileAtomic(baseDir, relPath string, content []byte, mode os.FileMode) error {
	fullPath := filepath.Join(baseDir, filepath.FromSlash(relPath))

	// Ensure target directory exists
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure target directory %s: %w", dir, err)
	}

	// Create temporary file in the same directory as the target
	tmpFile, err := os.CreateTemp(dir, ".tmp-apimeta-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", relPath, err)
	}

	tmpPath := tmpFile.Name()
	success := false

	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
		}
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return fmt.Errorf("write content to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	// Atomically move temp file to final location
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename %s to %s: %w", tmpPath, fullPath, err)
	}

	success = true
	return nil
}
