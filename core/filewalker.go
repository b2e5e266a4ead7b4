package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// FileScope defines which files a walk reports
type FileScope struct {
	Path     string   // Root directory to scan
	Include  []string // Patterns relative to Path (**/*.css.d.ts); empty includes all
	Exclude  []string // Patterns relative to Path; matching directories are not entered
	MaxDepth int      // Max directory depth (0 = unlimited)
}

// WalkResult represents a discovered file
type WalkResult struct {
	Path  string
	Info  fs.FileInfo
	Error error
}

// FileWalker traverses a directory tree and stats matching files in parallel
type FileWalker struct {
	workers    int
	bufferSize int
}

// NewFileWalker creates a walker sized to the machine
func NewFileWalker() *FileWalker {
	return &FileWalker{
		workers:    runtime.NumCPU() * 2, // I/O bound
		bufferSize: 256,
	}
}

// Walk streams every file under scope.Path that matches the include patterns.
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) (<-chan WalkResult, error) {
	if err := fw.validateScope(scope); err != nil {
		return nil, err
	}

	results := make(chan WalkResult, fw.bufferSize)
	paths := make(chan string, fw.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < fw.workers; i++ {
		wg.Add(1)
		go fw.worker(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		fw.scanDirectory(ctx, scope.Path, scope, paths, 0)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

// Collect runs Walk and returns the matching paths sorted. A match that
// cannot be stat'ed fails the whole collection.
func (fw *FileWalker) Collect(ctx context.Context, scope FileScope) ([]string, error) {
	results, err := fw.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}

	var files []string
	var firstErr error
	for result := range results {
		if result.Error != nil {
			// keep draining so the workers can exit
			if firstErr == nil {
				firstErr = fmt.Errorf("stat %s: %w", result.Path, result.Error)
			}
			continue
		}
		files = append(files, result.Path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Strings(files)
	return files, nil
}

func (fw *FileWalker) worker(ctx context.Context, paths <-chan string, results chan<- WalkResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			info, err := os.Stat(path)
			result := WalkResult{Path: path, Info: info, Error: err}

			select {
			case <-ctx.Done():
				return
			case results <- result:
			}
		}
	}
}

func (fw *FileWalker) scanDirectory(ctx context.Context, dirPath string, scope FileScope, paths chan<- string, depth int) {
	if ctx.Err() != nil {
		return
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return // unreadable directories are skipped
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())
		rel, err := filepath.Rel(scope.Path, fullPath)
		if err != nil {
			continue
		}

		if fw.matchesAny(rel, scope.Exclude) {
			continue
		}

		if entry.IsDir() {
			fw.scanDirectory(ctx, fullPath, scope, paths, depth+1)
			continue
		}

		if len(scope.Include) > 0 && !fw.matchesAny(rel, scope.Include) {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case paths <- fullPath:
		}
	}
}

// matchesAny matches the slash form of rel, and its base name for patterns
// without a separator.
func (fw *FileWalker) matchesAny(rel string, patterns []string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, slashed); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func (fw *FileWalker) validateScope(scope FileScope) error {
	if scope.Path == "" {
		return fmt.Errorf("path is required")
	}

	info, err := os.Stat(scope.Path)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", scope.Path)
	}

	return nil
}
