package core

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// CleanResult lists what a declaration cleanup found and removed
type CleanResult struct {
	Found   []string
	Deleted []string
}

// ValidateExtensions requires every extension to start with ".".
func ValidateExtensions(exts []string) error {
	if len(exts) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a \".\"", ext)
		}
	}
	return nil
}

// CleanDeclarations finds generated "<name><ext>.d.ts" files under root and
// deletes the ones whose "<name><ext>" source no longer exists. With dryRun
// nothing is removed but Deleted still lists the candidates.
func CleanDeclarations(ctx context.Context, root string, exts []string, dryRun bool) (CleanResult, error) {
	var result CleanResult
	if err := ValidateExtensions(exts); err != nil {
		return result, err
	}

	include := make([]string, len(exts))
	for i, ext := range exts {
		include[i] = "**/*" + ext + ".d.ts"
	}

	files, err := NewFileWalker().Collect(ctx, FileScope{
		Path:    root,
		Include: include,
		Exclude: []string{"node_modules", ".git"},
	})
	if err != nil {
		return result, err
	}
	result.Found = files

	for _, file := range files {
		source := strings.TrimSuffix(file, ".d.ts")
		if _, err := os.Stat(source); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return result, fmt.Errorf("checking %s: %w", source, err)
		}

		if !dryRun {
			if err := os.Remove(file); err != nil {
				return result, fmt.Errorf("removing %s: %w", file, err)
			}
		}
		result.Deleted = append(result.Deleted, file)
	}

	return result, nil
}
