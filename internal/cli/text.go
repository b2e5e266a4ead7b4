package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/logging"
	"github.com/oxhq/covgroup/internal/report"
)

// NewTextCommand builds text-coverage-report.
func NewTextCommand() *cobra.Command {
	opts := config.DefaultTextOptions("")

	cmd := newRoot("text-coverage-report", "Render a coverage summary as a markdown table")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		logger := logging.New(cmd.ErrOrStderr(), "text-coverage-report", opts.Verbose)
		status := logging.NewStatus(cmd.OutOrStdout())

		if err := opts.Validate(); err != nil {
			return err
		}
		cwd, err := resolveCwd(opts.Cwd)
		if err != nil {
			return err
		}

		status.Title("Generating Report...")
		data, err := config.LoadCoverage(opts.Input)
		if err != nil {
			return err
		}

		out, err := filepath.Abs(opts.Output)
		if err != nil {
			return err
		}

		renderer, err := report.NewRenderer(core.NewAtomicWriter(core.DefaultAtomicConfig()))
		if err != nil {
			return err
		}

		logger.Debug("Writing text report", "file", out, "files", len(data.SortedFiles()))
		if err := renderer.WriteText(out, report.TextReport(data, cwd, opts.Up)); err != nil {
			return err
		}

		status.Success("Done!")
		return nil
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Input, "input", "i", opts.Input, "coverage summary JSON")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "output markdown file")
	f.StringVar(&opts.Cwd, "cwd", "", "directory coverage paths are relative to (default: current directory)")
	f.IntVarP(&opts.Up, "up", "u", opts.Up, "leading path segments to drop from file names")
	f.BoolVar(&opts.Verbose, "verbose", false, "debug logging")
	return cmd
}
