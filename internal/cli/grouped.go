package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/db"
	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/history"
	"github.com/oxhq/covgroup/internal/logging"
	"github.com/oxhq/covgroup/internal/report"
	"github.com/oxhq/covgroup/internal/util"
	"github.com/oxhq/covgroup/internal/vcs"
)

// NewGroupedCommand builds grouped-coverage and its history subcommand.
func NewGroupedCommand() *cobra.Command {
	opts := config.DefaultGroupedOptions("")

	cmd := newRoot("grouped-coverage", "Generate a grouped coverage report from a coverage summary")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runGrouped(cmd.Context(), cmd, opts)
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Input, "input", "i", opts.Input, "coverage summary JSON")
	f.StringVarP(&opts.Config, "config", "c", opts.Config, "group config (JSON or YAML)")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	f.StringSliceVarP(&opts.Formats, "format", "f", opts.Formats, "report formats (html, md)")
	f.StringVar(&opts.Cwd, "cwd", "", "directory coverage paths are relative to (default: current directory)")
	f.StringVar(&opts.JSON, "json", "", "also write the grouped result as JSON (optionally naming the file)")
	f.Lookup("json").NoOptDefVal = config.DefaultJSONFile
	f.IntVarP(&opts.Up, "up", "u", opts.Up, "leading path segments to drop from file names")
	f.StringVar(&opts.Label, "label", "", "tag stored with the history run")
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.HistoryDB, "history-db", "", "record runs in this sqlite file or libsql URL")

	cmd.AddCommand(newHistoryCommand(&opts))
	return cmd
}

func runGrouped(ctx context.Context, cmd *cobra.Command, opts config.GroupedOptions) error {
	logger := logging.New(cmd.ErrOrStderr(), "grouped-coverage", opts.Verbose)
	status := logging.NewStatus(cmd.OutOrStdout())

	if err := opts.Validate(); err != nil {
		return err
	}
	cwd, err := resolveCwd(opts.Cwd)
	if err != nil {
		return err
	}
	opts.Cwd = cwd

	status.Title("Generating Report...")

	cfg, err := config.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	data, err := config.LoadCoverage(opts.Input)
	if err != nil {
		return err
	}

	grouped := core.GroupData(data, cfg, core.GroupOptions{Cwd: opts.Cwd, Up: opts.Up, Logger: logger})
	total, _ := data.Total()

	outDir, err := filepath.Abs(opts.Output)
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer(core.NewAtomicWriter(core.DefaultAtomicConfig()))
	if err != nil {
		return err
	}
	renderer.Logger = logger

	if opts.Has(config.FormatHTML) {
		if err := renderer.WriteHTML(outDir, grouped); err != nil {
			return fmt.Errorf("writing html report: %w", err)
		}
	}
	if opts.Has(config.FormatMD) {
		if err := renderer.WriteMarkdown(outDir, grouped, total); err != nil {
			return fmt.Errorf("writing markdown report: %w", err)
		}
	}
	if opts.JSON != "" {
		if err := writeSummary(renderer, logger, outDir, opts.JSON, grouped); err != nil {
			return err
		}
	}
	if opts.HistoryDB != "" {
		if err := recordRun(ctx, logger, opts, grouped, total); err != nil {
			return err
		}
	}

	status.Success("Done!")
	return nil
}

// writeSummary writes the JSON export and, at debug level, logs how it
// differs from the previous export at the same path.
func writeSummary(r *report.Renderer, logger *log.Logger, dir, name string, grouped core.GroupedCoverage) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}

	next, err := report.MarshalGrouped(grouped)
	if err != nil {
		return err
	}

	prev, err := os.ReadFile(path)
	switch {
	case err == nil:
		if diff := util.UnifiedDiff(string(prev), string(next), filepath.Base(path), 3); diff != "" {
			logger.Debug("Summary changed", "file", path, "diff", diff)
		} else {
			logger.Debug("Summary unchanged", "file", path)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("reading previous summary: %w", err)
	}

	logger.Debug("Writing JSON summary", "file", path)
	if err := r.WriteJSON(path, grouped); err != nil {
		return fmt.Errorf("writing json summary: %w", err)
	}
	return nil
}

func recordRun(ctx context.Context, logger *log.Logger, opts config.GroupedOptions, grouped core.GroupedCoverage, total core.CoverageSummary) error {
	conn, err := db.Connect(opts.HistoryDB, false)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer db.Close(conn)

	meta := history.Meta{Label: opts.Label, Total: total}
	if head, err := vcs.HeadOf(opts.Cwd); err == nil {
		meta.Branch = head.Branch
		meta.Commit = head.Commit
	} else {
		logger.Debug("Recording run without git metadata", "err", err)
	}

	id, err := history.NewStore(conn).Record(ctx, grouped, meta)
	if err != nil {
		return err
	}
	logger.Debug("Recorded run", "id", id, "groups", len(grouped.Names))
	return nil
}
