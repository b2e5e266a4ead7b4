package core

import (
	"path/filepath"
)

// DefaultGateExcludes keeps tests and snapshots out of the new-file gate.
var DefaultGateExcludes = []string{"!**/*.test.tsx", "!**/*.test.ts", "!**/*.snap"}

// VerdictReason explains the outcome for one file
type VerdictReason string

const (
	ReasonOK             VerdictReason = "ok"
	ReasonMissing        VerdictReason = "missing"
	ReasonBelowThreshold VerdictReason = "below-threshold"
)

// GateOptions configures CheckNewFiles
type GateOptions struct {
	Cwd       string  // new file paths are joined onto this to build lookup keys
	Threshold float64 // minimum pct for every dimension
}

// Verdict is the gate outcome for a single file
type Verdict struct {
	File             string          `json:"file"`
	AbsPath          string          `json:"abs_path"`
	Reason           VerdictReason   `json:"reason"`
	Summary          CoverageSummary `json:"summary"`
	FailedDimensions []string        `json:"failed_dimensions,omitempty"`
}

// Failed reports whether the file failed the gate.
func (v Verdict) Failed() bool {
	return v.Reason != ReasonOK
}

// GateResult collects the verdicts of one gate run
type GateResult struct {
	Verdicts []Verdict `json:"verdicts"`
	Failed   []Verdict `json:"failed"`
}

// Passed reports whether no file failed.
func (r GateResult) Passed() bool {
	return len(r.Failed) == 0
}

// SelectGateFiles keeps the new files subject to the gate: everything, minus
// whatever the exclusion list removes. Exclusions normally carry a "!".
func SelectGateFiles(files, excludes []string) []string {
	return MatchList(files, append([]string{"**"}, excludes...))
}

// CheckNewFiles looks each new file up in the raw coverage map by absolute
// path. A missing entry fails regardless of threshold; otherwise any
// dimension below the threshold fails the file.
func CheckNewFiles(files []string, data CoverageData, opts GateOptions) GateResult {
	var result GateResult
	for _, file := range files {
		abs := file
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(opts.Cwd, filepath.FromSlash(file))
		}

		verdict := Verdict{File: file, AbsPath: abs, Reason: ReasonOK}
		summary, ok := data[abs]
		if !ok || abs == TotalKey {
			verdict.Reason = ReasonMissing
		} else {
			verdict.Summary = summary
			for _, dim := range summary.dimensions() {
				if dim.Pct < opts.Threshold {
					verdict.FailedDimensions = append(verdict.FailedDimensions, dim.name)
				}
			}
			if len(verdict.FailedDimensions) > 0 {
				verdict.Reason = ReasonBelowThreshold
			}
		}

		result.Verdicts = append(result.Verdicts, verdict)
		if verdict.Failed() {
			result.Failed = append(result.Failed, verdict)
		}
	}
	return result
}
