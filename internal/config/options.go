package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/oxhq/covgroup/core"
)

// Output formats understood by the grouped report
const (
	FormatHTML = "html"
	FormatMD   = "md"
)

// DefaultJSONFile is used when --json is given without a file name.
const DefaultJSONFile = "summary.json"

var ErrInvalidOption = errors.New("invalid option")

// GroupedOptions drives the grouped coverage report
type GroupedOptions struct {
	Input     string
	Config    string
	Output    string
	Formats   []string
	Cwd       string
	JSON      string // file name relative to Output, empty disables the export
	Up        int
	Verbose   bool
	HistoryDB string // sqlite path or libsql URL, empty disables history
	Label     string // free form tag stored with the history run
}

// DefaultGroupedOptions returns the flag defaults.
func DefaultGroupedOptions(cwd string) GroupedOptions {
	return GroupedOptions{
		Output:  filepath.Join("coverage", "grouped-coverage-report"),
		Formats: []string{FormatHTML},
		Cwd:     cwd,
	}
}

// Has reports whether a format was requested.
func (o GroupedOptions) Has(format string) bool {
	return slices.Contains(o.Formats, format)
}

func (o GroupedOptions) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: --input is required", ErrInvalidOption)
	}
	if o.Config == "" {
		return fmt.Errorf("%w: --config is required", ErrInvalidOption)
	}
	for _, f := range o.Formats {
		if f != FormatHTML && f != FormatMD {
			return fmt.Errorf("%w: unknown format %q (html/md)", ErrInvalidOption, f)
		}
	}
	if o.Up < 0 {
		return fmt.Errorf("%w: --up must not be negative", ErrInvalidOption)
	}
	return nil
}

// TextOptions drives the plain markdown table report
type TextOptions struct {
	Input   string
	Output  string
	Cwd     string
	Up      int
	Verbose bool
}

func DefaultTextOptions(cwd string) TextOptions {
	return TextOptions{
		Output: filepath.Join("coverage", "text-report.md"),
		Cwd:    cwd,
	}
}

func (o TextOptions) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: --input is required", ErrInvalidOption)
	}
	if o.Up < 0 {
		return fmt.Errorf("%w: --up must not be negative", ErrInvalidOption)
	}
	return nil
}

// GateOptions drives the new-file coverage check
type GateOptions struct {
	Branch    string
	Threshold float64
	Input     string
	Exclude   []string
	Repo      string
	Verbose   bool
}

func DefaultGateOptions() GateOptions {
	return GateOptions{
		Branch:    "master",
		Threshold: 80,
		Input:     filepath.Join("coverage", "coverage-summary.json"),
		Exclude:   slices.Clone(core.DefaultGateExcludes),
		Repo:      ".",
	}
}

func (o GateOptions) Validate() error {
	if err := ValidateRevision(o.Branch); err != nil {
		return err
	}
	if o.Threshold < 0 || o.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v outside 0..100", ErrInvalidOption, o.Threshold)
	}
	return core.ValidatePatterns(o.Exclude)
}

// ValidateRevision rejects base revisions that cannot be passed to git as a
// single argument. Anything else, including HEAD~1 or main^, is left for the
// repository to resolve.
func ValidateRevision(rev string) error {
	switch {
	case strings.TrimSpace(rev) == "":
		return fmt.Errorf("%w: base revision is required", ErrInvalidOption)
	case strings.HasPrefix(rev, "-"):
		return fmt.Errorf("%w: base revision %q looks like a flag", ErrInvalidOption, rev)
	case strings.ContainsFunc(rev, unicode.IsSpace), strings.ContainsFunc(rev, unicode.IsControl):
		return fmt.Errorf("%w: invalid base revision %q", ErrInvalidOption, rev)
	}
	return nil
}

// CleanOptions drives the stale declaration cleaner
type CleanOptions struct {
	Path    string
	Exts    []string
	DryRun  bool
	Verbose bool
}

func DefaultCleanOptions() CleanOptions {
	return CleanOptions{Exts: []string{".css"}}
}

func (o CleanOptions) Validate() error {
	if o.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidOption)
	}
	if err := core.ValidateExtensions(o.Exts); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return nil
}
