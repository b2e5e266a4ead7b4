// Package util holds small helpers shared by the command packages.
package util

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between two texts with stable a/ b/
// headers. Equal inputs yield "".
func UnifiedDiff(from, to, path string, context int) string {
	if from == to {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(from),
		B:        splitLines(to),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}
