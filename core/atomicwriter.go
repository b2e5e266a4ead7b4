package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AtomicWriteConfig controls how report files are written
type AtomicWriteConfig struct {
	UseFsync   bool        // Force fsync before the rename
	TempSuffix string      // Suffix for temporary files
	FileMode   os.FileMode // Mode for newly created files
	DirMode    os.FileMode // Mode for created parent directories
}

// DefaultAtomicConfig provides sensible defaults
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:   false,
		TempSuffix: ".covgroup.tmp",
		FileMode:   0o644,
		DirMode:    0o755,
	}
}

// AtomicWriter writes files through a temporary sibling and a rename, so a
// reader never observes a half-written report.
type AtomicWriter struct {
	config AtomicWriteConfig
	mu     sync.Mutex
}

// NewAtomicWriter creates a new atomic writer
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	return &AtomicWriter{config: config}
}

// WriteFile atomically replaces path with content, creating parent directories.
func (aw *AtomicWriter) WriteFile(path string, content []byte) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), aw.config.DirMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fileMode := aw.config.FileMode
	if info, err := os.Stat(path); err == nil {
		fileMode = info.Mode().Perm()
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}

	return nil
}

// WriteString is WriteFile for string content.
func (aw *AtomicWriter) WriteString(path, content string) error {
	return aw.WriteFile(path, []byte(content))
}

// RemoveStale deletes the named files under dir, ignoring ones that do not exist.
func (aw *AtomicWriter) RemoveStale(dir string, names ...string) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	for _, name := range names {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}
