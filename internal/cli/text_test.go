//go:build !windows

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_WritesReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coverage-summary.json")
	output := filepath.Join(dir, "reports", "text.md")
	writeJSON(t, input, map[string]any{
		"total":                           coverageEntry(5, 20),
		filepath.Join(dir, "src", "b.ts"): coverageEntry(5, 10),
		filepath.Join(dir, "src", "a.ts"): coverageEntry(0, 10),
	})

	res := execute(t, NewTextCommand(), "-i", input, "-o", output, "--cwd", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Done!")

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	report := string(raw)

	assert.Contains(t, report, "| File | %Stmts | %Branch | %Funcs | %Lines |")
	all := strings.Index(report, "All |")
	a := strings.Index(report, "src/a.ts")
	b := strings.Index(report, "src/b.ts")
	require.True(t, all >= 0 && a >= 0 && b >= 0, report)
	assert.Less(t, all, a)
	assert.Less(t, a, b)
}

func TestText_Up(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coverage-summary.json")
	output := filepath.Join(dir, "text.md")
	writeJSON(t, input, map[string]any{
		"total":                                coverageEntry(1, 1),
		filepath.Join(dir, "pkg", "x", "y.ts"): coverageEntry(1, 1),
	})

	res := execute(t, NewTextCommand(), "-i", input, "-o", output, "--cwd", dir, "-u", "2")
	require.Equal(t, ExitOK, res.code, res.stderr)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(raw), " y.ts |")
	assert.NotContains(t, string(raw), "pkg/x")
}

func TestText_Errors(t *testing.T) {
	res := execute(t, NewTextCommand())
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "--input is required")

	dir := t.TempDir()
	input := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"total": {"lines": {}}}`), 0o644))
	output := filepath.Join(dir, "text.md")

	res = execute(t, NewTextCommand(), "-i", input, "-o", output)
	assert.Equal(t, ExitFailure, res.code)
	assert.NoFileExists(t, output)
}

func TestText_DefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	prevWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWd) })
	wd, err := os.Getwd()
	require.NoError(t, err)

	writeJSON(t, filepath.Join(dir, "coverage-summary.json"), map[string]any{
		"total":                          coverageEntry(1, 1),
		filepath.Join(wd, "src", "a.ts"): coverageEntry(1, 1),
	})

	res := execute(t, NewTextCommand(), "-i", "coverage-summary.json", "-o", "text.md")
	require.Equal(t, ExitOK, res.code, res.stderr)

	raw, err := os.ReadFile(filepath.Join(dir, "text.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), " src/a.ts |")
	assert.NotContains(t, string(raw), wd)
}

func TestText_WorkingDirectoryUnavailable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coverage-summary.json")
	writeJSON(t, input, map[string]any{"total": coverageEntry(1, 1)})

	getwd = func() (string, error) { return "", errors.New("getwd: no such file or directory") }
	t.Cleanup(func() { getwd = os.Getwd })

	res := execute(t, NewTextCommand(), "-i", input, "-o", filepath.Join(dir, "text.md"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "resolving working directory")
	assert.NoFileExists(t, filepath.Join(dir, "text.md"))
}
