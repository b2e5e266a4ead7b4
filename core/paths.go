package core

import (
	"path/filepath"
	"strings"
)

// Relativize returns abs relative to cwd using the platform separator.
func Relativize(abs, cwd string) (string, error) {
	return filepath.Rel(cwd, abs)
}

// StripPrefix drops the first n separator-delimited segments of path.
// Dropping as many segments as the path has, or more, yields "". The
// result is for display only and never used as a lookup key.
func StripPrefix(path string, n int) string {
	if n <= 0 {
		return path
	}
	segments := strings.Split(path, string(filepath.Separator))
	if n >= len(segments) {
		return ""
	}
	return strings.Join(segments[n:], string(filepath.Separator))
}

// DisplayPath relativizes abs against cwd and strips up leading segments.
// Paths that cannot be made relative are shown as given.
func DisplayPath(abs, cwd string, up int) string {
	rel, err := Relativize(abs, cwd)
	if err != nil {
		rel = abs
	}
	return StripPrefix(rel, up)
}
