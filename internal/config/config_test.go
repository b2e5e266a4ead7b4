package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/internal/schema"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "groups.json", `{
		"groups": {"web": ["web/**"], "api": ["api/**", "!api/gen/**"]},
		"ignore": ["**/*.snap"],
		"deprecated": ["legacy/**"]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"web", "api"}, cfg.Groups.Names())
	assert.Equal(t, []string{"api/**", "!api/gen/**"}, cfg.Groups[1].Globs)
	assert.Equal(t, []string{"**/*.snap"}, cfg.Ignore)
	assert.Equal(t, []string{"legacy/**"}, cfg.Deprecated)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "groups.yaml", `
groups:
  zeta:
    - "z/**"
  alpha:
    - "a/**"
ignore:
  - "**/*.snap"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"zeta", "alpha"}, cfg.Groups.Names())
	assert.Equal(t, []string{"**/*.snap"}, cfg.Ignore)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrConfigRead)

	_, err = LoadConfig(writeFile(t, "bad.json", `{"ignore": []}`))
	assert.ErrorIs(t, err, schema.ErrSchemaValidation)

	_, err = LoadConfig(writeFile(t, "glob.json", `{"groups": {"a": ["src/[x"]}}`))
	assert.ErrorIs(t, err, core.ErrInvalidGlob)
}

const summary = `{
	"lines": {"total": 4, "covered": 2, "skipped": 0, "pct": 50},
	"statements": {"total": 4, "covered": 2, "skipped": 0, "pct": 50},
	"functions": {"total": 1, "covered": 1, "skipped": 0, "pct": 100},
	"branches": {"total": 2, "covered": 0, "skipped": 1, "pct": 0}
}`

func TestLoadCoverage(t *testing.T) {
	path := writeFile(t, "coverage-summary.json", `{"total": `+summary+`, "/r/a.ts": `+summary+`}`)

	data, err := LoadCoverage(path)
	require.NoError(t, err)

	assert.Len(t, data, 2)
	assert.Equal(t, 1, data["/r/a.ts"].Branches.Skipped)
	assert.Equal(t, 100.0, data[core.TotalKey].Functions.Pct)
}

func TestLoadCoverage_CoveredExceedsTotal(t *testing.T) {
	bad := `{
		"lines": {"total": 1, "covered": 2, "skipped": 0, "pct": 100},
		"statements": {"total": 1, "covered": 1, "skipped": 0, "pct": 100},
		"functions": {"total": 1, "covered": 1, "skipped": 0, "pct": 100},
		"branches": {"total": 1, "covered": 1, "skipped": 0, "pct": 100}
	}`
	path := writeFile(t, "coverage.json", `{"total": `+summary+`, "/r/a.ts": `+bad+`}`)

	_, err := LoadCoverage(path)
	assert.ErrorIs(t, err, core.ErrInvalidCoverage)
}

func TestLoadCoverage_Missing(t *testing.T) {
	_, err := LoadCoverage(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrCoverageRead)
}
