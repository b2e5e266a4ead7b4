package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Negate prefixes every pattern with "!".
func Negate(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = "!" + p
	}
	return out
}

// ValidatePatterns rejects malformed globs before any matching happens.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		body := strings.TrimPrefix(p, "!")
		if body == "" || !doublestar.ValidatePattern(body) {
			return fmt.Errorf("%w: %q", ErrInvalidGlob, p)
		}
	}
	return nil
}

// MatchList filters paths through an ordered pattern list. Positive patterns
// add their matches to the result, "!" patterns remove theirs, each applied
// in turn, so the last pattern touching a path decides. A leading negation
// removes from an empty set. The result keeps the order of paths.
func MatchList(paths, patterns []string) []string {
	selected := make(map[string]bool, len(paths))
	for _, pattern := range patterns {
		negated := strings.HasPrefix(pattern, "!")
		body := filepath.ToSlash(strings.TrimPrefix(pattern, "!"))

		for _, path := range paths {
			if !matchPath(body, path) {
				continue
			}
			if negated {
				delete(selected, path)
			} else {
				selected[path] = true
			}
		}
	}

	var out []string
	for _, path := range paths {
		if selected[path] {
			out = append(out, path)
			// a path listed twice is reported once
			delete(selected, path)
		}
	}
	return out
}

// AnyMatch reports whether path is selected by the ordered pattern list.
func AnyMatch(path string, patterns []string) bool {
	return len(MatchList([]string{path}, patterns)) > 0
}

func matchPath(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
	return err == nil && matched
}
