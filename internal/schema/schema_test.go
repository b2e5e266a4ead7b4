package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSummary = `{
	"lines": {"total": 10, "covered": 5, "skipped": 0, "pct": 50},
	"statements": {"total": 10, "covered": 5, "skipped": 0, "pct": 50},
	"functions": {"total": 2, "covered": 1, "skipped": 0, "pct": 50},
	"branches": {"total": 0, "covered": 0, "skipped": 0, "pct": 100}
}`

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "groups only", doc: `{"groups": {"core": ["src/**"]}}`},
		{name: "all keys", doc: `{"groups": {"a": []}, "ignore": ["**/*.snap"], "deprecated": ["old/**"]}`},
		{name: "missing groups", doc: `{"ignore": []}`, wantErr: true},
		{name: "globs not a list", doc: `{"groups": {"a": "src/**"}}`, wantErr: true},
		{name: "non-string glob", doc: `{"groups": {"a": [1]}}`, wantErr: true},
		{name: "reserved name", doc: `{"groups": {"uncategorized": []}}`, wantErr: true},
		{name: "unknown key", doc: `{"groups": {}, "extra": true}`, wantErr: true},
		{name: "not an object", doc: `[]`, wantErr: true},
		{name: "malformed", doc: `{"groups":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSchemaValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateCoverage(t *testing.T) {
	valid := `{"total": ` + validSummary + `, "/r/a.ts": ` + validSummary + `}`
	assert.NoError(t, ValidateCoverage([]byte(valid)))

	missingTotal := `{"/r/a.ts": ` + validSummary + `}`
	assert.ErrorIs(t, ValidateCoverage([]byte(missingTotal)), ErrSchemaValidation)
}

func TestValidateCoverage_ReportsLocation(t *testing.T) {
	doc := `{"total": ` + validSummary + `, "/r/a.ts": {
		"lines": {"total": 10, "covered": -1, "skipped": 0, "pct": 50},
		"statements": {"total": 10, "covered": 5, "skipped": 0, "pct": 50},
		"functions": {"total": 2, "covered": 1, "skipped": 0, "pct": 50},
		"branches": {"total": 0, "covered": 0, "skipped": 0, "pct": 100}
	}}`

	err := ValidateCoverage([]byte(doc))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "coverage", verr.Document)
	require.NotEmpty(t, verr.Violations)
	assert.Contains(t, verr.Violations[0].Location, "a.ts/lines/covered")
	assert.Contains(t, err.Error(), "lines/covered")
}

func TestValidateCoverage_MissingDimension(t *testing.T) {
	doc := `{"total": {"lines": {"total": 1, "covered": 1, "skipped": 0, "pct": 100}}}`

	assert.ErrorIs(t, ValidateCoverage([]byte(doc)), ErrSchemaValidation)
}

func TestValidateCoverage_NonNumericPct(t *testing.T) {
	doc := `{"total": {
		"lines": {"total": 0, "covered": 0, "skipped": 0, "pct": "Unknown"},
		"statements": {"total": 0, "covered": 0, "skipped": 0, "pct": 0},
		"functions": {"total": 0, "covered": 0, "skipped": 0, "pct": 0},
		"branches": {"total": 0, "covered": 0, "skipped": 0, "pct": 0}
	}}`

	err := ValidateCoverage([]byte(doc))
	require.ErrorIs(t, err, ErrSchemaValidation)
	assert.Contains(t, err.Error(), "lines/pct")
}
