package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/logging"
	"github.com/oxhq/covgroup/internal/vcs"
)

// NewGateCommand builds new-files-coverage-check. It exits 1 when a new
// file is uncovered or below threshold and 2 on any other error.
func NewGateCommand() *cobra.Command {
	opts := config.DefaultGateOptions()

	cmd := newRoot("new-files-coverage-check", "Fail when files added since a base branch lack coverage")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return withCode(ExitInternal, runGate(cmd, opts))
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Branch, "branch", "b", opts.Branch, "base branch to compare against")
	f.Float64VarP(&opts.Threshold, "threshold", "t", opts.Threshold, "minimum pct for every dimension")
	f.StringVarP(&opts.Input, "input", "i", opts.Input, "coverage summary JSON")
	f.StringSliceVarP(&opts.Exclude, "exclude", "e", opts.Exclude, "glob list applied to the new files")
	f.StringVar(&opts.Repo, "repo", opts.Repo, "directory inside the repository")
	f.BoolVar(&opts.Verbose, "verbose", false, "debug logging")
	return cmd
}

func runGate(cmd *cobra.Command, opts config.GateOptions) error {
	logger := logging.New(cmd.ErrOrStderr(), "new-files-coverage-check", opts.Verbose)
	status := logging.NewStatus(cmd.OutOrStdout())

	if err := opts.Validate(); err != nil {
		return err
	}

	changes, err := vcs.AddedFiles(cmd.Context(), opts.Repo, opts.Branch)
	if err != nil {
		return err
	}
	logger.Debug("Added files", "root", changes.Root, "count", len(changes.Added))

	files := core.SelectGateFiles(changes.Added, opts.Exclude)
	if len(files) == 0 {
		status.Success("No new files are added in this PR")
		return nil
	}

	data, err := config.LoadCoverage(opts.Input)
	if err != nil {
		return err
	}

	status.Warning("New files added in this PR")
	for _, file := range files {
		status.Item(file)
	}

	result := core.CheckNewFiles(files, data, core.GateOptions{Cwd: changes.Root, Threshold: opts.Threshold})
	for _, v := range result.Verdicts {
		logger.Debug("Evaluating", "file", v.AbsPath)
		switch v.Reason {
		case core.ReasonMissing:
			status.Failure("file %s not considered/covered for/in test cases", v.File)
		case core.ReasonBelowThreshold:
			status.Failure("Coverage is below %v for %s (%s)", opts.Threshold, v.File, strings.Join(v.FailedDimensions, ", "))
			logger.Debug("Coverage", "file", v.File,
				"statements", v.Summary.Statements.Pct, "branches", v.Summary.Branches.Pct,
				"functions", v.Summary.Functions.Pct, "lines", v.Summary.Lines.Pct)
		default:
			logger.Debug("Coverage passed", "file", v.File)
		}
	}

	if !result.Passed() {
		status.Failure("Coverage check failed")
		return &ExitError{Code: ExitFailure, Err: ErrGateFailed}
	}
	status.Success("Coverage passed")
	return nil
}
