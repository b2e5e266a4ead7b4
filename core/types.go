package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TotalKey is the reserved coverage entry holding the run-wide summary.
const TotalKey = "total"

// Synthetic group names produced by the grouping engine.
const (
	DeprecatedGroup    = "deprecated"
	UncategorizedGroup = "uncategorized"
)

// Coverage holds one metric's counts for a file or an aggregate
type Coverage struct {
	Total   int     `json:"total"`
	Covered int     `json:"covered"`
	Skipped int     `json:"skipped"`
	Pct     float64 `json:"pct"`
}

// Add sums the raw counts. The resulting Pct is zero and must be recomputed.
func (c Coverage) Add(other Coverage) Coverage {
	return Coverage{
		Total:   c.Total + other.Total,
		Covered: c.Covered + other.Covered,
		Skipped: c.Skipped + other.Skipped,
	}
}

// CoverageSummary is the full coverage profile of one file or group
type CoverageSummary struct {
	Lines      Coverage `json:"lines"`
	Statements Coverage `json:"statements"`
	Functions  Coverage `json:"functions"`
	Branches   Coverage `json:"branches"`
}

// Add folds other into s dimension by dimension.
func (s CoverageSummary) Add(other CoverageSummary) CoverageSummary {
	return CoverageSummary{
		Lines:      s.Lines.Add(other.Lines),
		Statements: s.Statements.Add(other.Statements),
		Functions:  s.Functions.Add(other.Functions),
		Branches:   s.Branches.Add(other.Branches),
	}
}

// Percentages returns the pct values as stored, without recomputing them.
func (s CoverageSummary) Percentages() CoveragePercentage {
	return CoveragePercentage{
		L: s.Lines.Pct,
		S: s.Statements.Pct,
		F: s.Functions.Pct,
		B: s.Branches.Pct,
	}
}

// Recompute derives the percentages from the raw counts.
func (s CoverageSummary) Recompute() CoveragePercentage {
	return CoveragePercentage{
		L: Percentage(s.Lines.Covered, s.Lines.Total),
		S: Percentage(s.Statements.Covered, s.Statements.Total),
		F: Percentage(s.Functions.Covered, s.Functions.Total),
		B: Percentage(s.Branches.Covered, s.Branches.Total),
	}
}

// dimensions lists the four metrics with their display names, in report order.
func (s CoverageSummary) dimensions() []namedCoverage {
	return []namedCoverage{
		{"statements", s.Statements},
		{"branches", s.Branches},
		{"functions", s.Functions},
		{"lines", s.Lines},
	}
}

type namedCoverage struct {
	name string
	Coverage
}

// CoverageData maps absolute file paths to their summary, plus the TotalKey entry.
type CoverageData map[string]CoverageSummary

// Clone returns a shallow copy; summaries are values so this is a full copy.
func (d CoverageData) Clone() CoverageData {
	out := make(CoverageData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Total returns the run-wide summary if present.
func (d CoverageData) Total() (CoverageSummary, bool) {
	total, ok := d[TotalKey]
	return total, ok
}

// Files returns a copy of the map without the total entry.
func (d CoverageData) Files() CoverageData {
	out := make(CoverageData, len(d))
	for k, v := range d {
		if k == TotalKey {
			continue
		}
		out[k] = v
	}
	return out
}

// SortedFiles returns the file keys (total excluded) in lexical order.
func (d CoverageData) SortedFiles() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		if k == TotalKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the count invariants the schema cannot express.
func (d CoverageData) Validate() error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, dim := range d[key].dimensions() {
			switch {
			case dim.Total < 0 || dim.Covered < 0 || dim.Skipped < 0:
				return fmt.Errorf("%w: %s/%s: negative count", ErrInvalidCoverage, key, dim.name)
			case dim.Covered > dim.Total:
				return fmt.Errorf("%w: %s/%s: covered %d exceeds total %d",
					ErrInvalidCoverage, key, dim.name, dim.Covered, dim.Total)
			}
		}
	}
	return nil
}

// CoveragePercentage is the compact per-dimension view used in grouped output
type CoveragePercentage struct {
	L float64 `json:"l"`
	F float64 `json:"f"`
	B float64 `json:"b"`
	S float64 `json:"s"`
}

// Max returns the highest of the four percentages.
func (p CoveragePercentage) Max() float64 {
	return max(p.L, p.S, p.F, p.B)
}

// GroupedCoverageSummary is one group's aggregate plus its files
type GroupedCoverageSummary struct {
	Total CoveragePercentage            `json:"total"`
	Files map[string]CoveragePercentage `json:"files"`
}

// GroupedCoverage maps group names to their summaries and remembers the
// order groups were produced in.
type GroupedCoverage struct {
	Names  []string
	Groups map[string]GroupedCoverageSummary
}

// NewGroupedCoverage returns an empty result.
func NewGroupedCoverage() GroupedCoverage {
	return GroupedCoverage{Groups: make(map[string]GroupedCoverageSummary)}
}

// Set stores a group summary, appending the name on first use.
func (g *GroupedCoverage) Set(name string, summary GroupedCoverageSummary) {
	if g.Groups == nil {
		g.Groups = make(map[string]GroupedCoverageSummary)
	}
	if _, exists := g.Groups[name]; !exists {
		g.Names = append(g.Names, name)
	}
	g.Groups[name] = summary
}

// Get looks up a group by name.
func (g GroupedCoverage) Get(name string) (GroupedCoverageSummary, bool) {
	summary, ok := g.Groups[name]
	return summary, ok
}

// MarshalJSON writes the groups as a single object in production order.
func (g GroupedCoverage) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range g.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(g.Groups[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a grouped result, keeping the document's key order.
func (g *GroupedCoverage) UnmarshalJSON(data []byte) error {
	*g = NewGroupedCoverage()
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var summary GroupedCoverageSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			return fmt.Errorf("group %q: %w", key, err)
		}
		g.Set(key, summary)
		return nil
	})
}

// Group is one named bucket of glob patterns
type Group struct {
	Name  string
	Globs []string
}

// GroupList keeps groups in the order they were declared.
type GroupList []Group

// Names returns the group names in declaration order.
func (l GroupList) Names() []string {
	names := make([]string, len(l))
	for i, g := range l {
		names[i] = g.Name
	}
	return names
}

// UnmarshalJSON decodes a JSON object of name -> globs preserving key order.
func (l *GroupList) UnmarshalJSON(data []byte) error {
	*l = nil
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var globs []string
		if err := json.Unmarshal(raw, &globs); err != nil {
			return fmt.Errorf("group %q: %w", key, err)
		}
		// Repeated keys keep their first position and take the last value.
		for i := range *l {
			if (*l)[i].Name == key {
				(*l)[i].Globs = globs
				return nil
			}
		}
		*l = append(*l, Group{Name: key, Globs: globs})
		return nil
	})
}

// MarshalJSON writes the groups back as an object in declaration order.
func (l GroupList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Name)
		if err != nil {
			return nil, err
		}
		globs := g.Globs
		if globs == nil {
			globs = []string{}
		}
		value, err := json.Marshal(globs)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Config is the grouping configuration file
type Config struct {
	Groups     GroupList `json:"groups"`
	Ignore     []string  `json:"ignore,omitempty"`
	Deprecated []string  `json:"deprecated,omitempty"`
}

// decodeOrderedObject walks the top-level keys of a JSON object in document order.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
