package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFileWalker_Collect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.css",
		"a.css.d.ts",
		"src/b.css.d.ts",
		"src/deep/c.css.d.ts",
		"node_modules/pkg/d.css.d.ts",
		"src/e.ts",
	)

	files, err := NewFileWalker().Collect(context.Background(), FileScope{
		Path:    root,
		Include: []string{"**/*.css.d.ts"},
		Exclude: []string{"node_modules"},
	})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	expected := []string{
		filepath.Join(root, "a.css.d.ts"),
		filepath.Join(root, "src", "b.css.d.ts"),
		filepath.Join(root, "src", "deep", "c.css.d.ts"),
	}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d: %v", len(expected), len(files), files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], expected[i])
		}
	}
}

func TestFileWalker_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "top.txt", "one/mid.txt", "one/two/low.txt")

	files, err := NewFileWalker().Collect(context.Background(), FileScope{Path: root, MaxDepth: 1})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files within depth 1, got %v", files)
	}
}

func TestFileWalker_InvalidScope(t *testing.T) {
	walker := NewFileWalker()

	if _, err := walker.Walk(context.Background(), FileScope{}); err == nil {
		t.Error("Expected error for empty path")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := walker.Walk(context.Background(), FileScope{Path: file}); err == nil {
		t.Error("Expected error for non-directory path")
	}
}

func TestFileWalker_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileWalker().Collect(ctx, FileScope{Path: root}); err == nil {
		t.Error("Expected context error")
	}
}

func TestFileWalker_CollectStatError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "ok.css.d.ts")
	broken := filepath.Join(root, "broken.css.d.ts")
	if err := os.Symlink(filepath.Join(root, "missing"), broken); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := NewFileWalker().Collect(context.Background(), FileScope{
		Path:    root,
		Include: []string{"**/*.css.d.ts"},
	})
	if err == nil {
		t.Fatalf("expected an error, got files %v", files)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.css.d.ts") {
		t.Errorf("error should name the file: %v", err)
	}
}
