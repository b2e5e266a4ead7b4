package core

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// GroupOptions carries the per-invocation settings of the grouping engine
type GroupOptions struct {
	Cwd    string      // paths in the coverage data are made relative to this
	Up     int         // leading segments dropped from display keys
	Logger *log.Logger // optional, receives debug progress
}

// Validate checks group names and every glob in the config.
func (c Config) Validate() error {
	for _, g := range c.Groups {
		if g.Name == DeprecatedGroup || g.Name == UncategorizedGroup {
			return fmt.Errorf("%w: %q", ErrReservedGroup, g.Name)
		}
		if err := ValidatePatterns(g.Globs); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
	}
	if err := ValidatePatterns(c.Ignore); err != nil {
		return fmt.Errorf("ignore: %w", err)
	}
	if err := ValidatePatterns(c.Deprecated); err != nil {
		return fmt.Errorf("deprecated: %w", err)
	}
	return nil
}

// GroupData partitions the coverage map into the configured groups and
// aggregates each one. Every file lands in at most one bucket: ignored files
// are dropped, then each group in declaration order claims what it matches,
// then deprecated, and whatever is left is uncategorized. data is not modified.
func GroupData(data CoverageData, cfg Config, opts GroupOptions) GroupedCoverage {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	remaining := make(CoverageData, len(data))
	for file, summary := range data {
		if file == TotalKey {
			continue
		}
		rel, err := Relativize(file, opts.Cwd)
		if err != nil {
			rel = file
		}
		remaining[rel] = summary
	}

	for _, file := range MatchList(remaining.SortedFiles(), cfg.Ignore) {
		delete(remaining, file)
	}

	deprecatedNegations := Negate(cfg.Deprecated)
	result := NewGroupedCoverage()

	for _, group := range cfg.Groups {
		logger.Debug("Generating report for group", "group", group.Name)
		patterns := append(append([]string{}, group.Globs...), deprecatedNegations...)
		files := MatchList(remaining.SortedFiles(), patterns)
		logger.Debug("Matched files", "group", group.Name, "files", len(files))
		result.Set(group.Name, claim(files, remaining, opts.Up))
	}

	if len(cfg.Deprecated) > 0 {
		files := MatchList(remaining.SortedFiles(), cfg.Deprecated)
		logger.Debug("Matched deprecated files", "files", len(files))
		result.Set(DeprecatedGroup, claim(files, remaining, opts.Up))
	}

	files := remaining.SortedFiles()
	logger.Debug("Matched uncategorized files", "files", len(files))
	result.Set(UncategorizedGroup, claim(files, remaining, opts.Up))

	return result
}

// claim moves files out of remaining into one group summary. The aggregate
// is recomputed from summed counts, file percentages are passed through.
func claim(files []string, remaining CoverageData, up int) GroupedCoverageSummary {
	var total CoverageSummary
	summary := GroupedCoverageSummary{Files: make(map[string]CoveragePercentage, len(files))}

	for _, file := range files {
		fileSummary, ok := remaining[file]
		if !ok {
			continue
		}
		total = total.Add(fileSummary)
		summary.Files[StripPrefix(file, up)] = fileSummary.Percentages()
		delete(remaining, file)
	}

	summary.Total = total.Recompute()
	return summary
}
