//go:build !windows

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckNewFiles(t *testing.T) {
	data := CoverageData{
		TotalKey:         lines(50, 100),
		"/repo/src/a.ts": lines(9, 10),
		"/repo/src/b.ts": lines(5, 10),
	}

	result := CheckNewFiles([]string{"src/a.ts", "src/b.ts", "src/c.ts"}, data, GateOptions{Cwd: "/repo", Threshold: 80})

	require.Len(t, result.Verdicts, 3)
	assert.False(t, result.Passed())
	require.Len(t, result.Failed, 2)

	assert.Equal(t, ReasonOK, result.Verdicts[0].Reason)
	assert.Equal(t, "/repo/src/a.ts", result.Verdicts[0].AbsPath)

	assert.Equal(t, ReasonBelowThreshold, result.Failed[0].Reason)
	assert.Equal(t, "src/b.ts", result.Failed[0].File)
	assert.ElementsMatch(t, []string{"statements", "branches", "functions", "lines"}, result.Failed[0].FailedDimensions)

	assert.Equal(t, ReasonMissing, result.Failed[1].Reason)
	assert.Equal(t, "src/c.ts", result.Failed[1].File)
}

func TestCheckNewFiles_MissingFailsAtZeroThreshold(t *testing.T) {
	result := CheckNewFiles([]string{"c.ts"}, CoverageData{}, GateOptions{Cwd: "/r", Threshold: 0})

	require.Len(t, result.Failed, 1)
	assert.Equal(t, ReasonMissing, result.Failed[0].Reason)
}

func TestCheckNewFiles_SingleDimensionBelow(t *testing.T) {
	summary := lines(10, 10)
	summary.Branches = Coverage{Total: 4, Covered: 3, Pct: 75}
	data := CoverageData{"/r/x.ts": summary}

	result := CheckNewFiles([]string{"x.ts"}, data, GateOptions{Cwd: "/r", Threshold: 80})

	require.Len(t, result.Failed, 1)
	assert.Equal(t, []string{"branches"}, result.Failed[0].FailedDimensions)
}

func TestCheckNewFiles_ThresholdIsInclusive(t *testing.T) {
	data := CoverageData{"/r/x.ts": lines(8, 10)}

	result := CheckNewFiles([]string{"x.ts"}, data, GateOptions{Cwd: "/r", Threshold: 80})

	assert.True(t, result.Passed())
}

func TestCheckNewFiles_NoFiles(t *testing.T) {
	result := CheckNewFiles(nil, CoverageData{}, GateOptions{Cwd: "/r", Threshold: 80})

	assert.True(t, result.Passed())
	assert.Empty(t, result.Verdicts)
}

func TestSelectGateFiles(t *testing.T) {
	files := []string{"src/a.ts", "src/a.test.ts", "src/b.test.tsx", "src/__snapshots__/a.snap", "README.md"}

	assert.Equal(t, []string{"src/a.ts", "README.md"}, SelectGateFiles(files, DefaultGateExcludes))
	assert.Equal(t, files, SelectGateFiles(files, nil))
	assert.Equal(t, []string{"src/a.ts"}, SelectGateFiles(files, append([]string{"!*.md"}, DefaultGateExcludes...)))
}
