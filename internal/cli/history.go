package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/db"
	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/history"
	"github.com/oxhq/covgroup/internal/logging"
)

func newHistoryCommand(opts *config.GroupedOptions) *cobra.Command {
	limit := 10

	cmd := &cobra.Command{
		Use:   "history [group]",
		Short: "Show the latest recorded run, or the trend of one group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.HistoryDB == "" {
				return fmt.Errorf("%w: --history-db or %s is required", config.ErrInvalidOption, config.DatabaseURLEnv)
			}

			conn, err := db.Connect(opts.HistoryDB, false)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer db.Close(conn)

			store := history.NewStore(conn)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				latest, err := store.Latest(cmd.Context())
				if errors.Is(err, history.ErrNoRuns) {
					logging.NewStatus(out).Warning("No runs recorded yet")
					return nil
				}
				if err != nil {
					return err
				}
				printLatest(out, latest)
				return nil
			}

			entries, err := store.Trend(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				logging.NewStatus(out).Warning("No history for group %q", args[0])
				return nil
			}
			printTrend(out, entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "number of runs to show, 0 for all")
	return cmd
}

func printLatest(w io.Writer, grouped core.GroupedCoverage) {
	io.WriteString(w, "| Group | Files | %Stmts | %Branch | %Funcs | %Lines |\n")
	fmt.Fprintln(w, "| :--- | ----: | -----: | ------: | -----: | -----: |")
	for _, name := range grouped.Names {
		g := grouped.Groups[name]
		fmt.Fprintf(w, "| %s | %d | %s | %s | %s | %s |\n", name, len(g.Files),
			core.FormatPct(g.Total.S), core.FormatPct(g.Total.B),
			core.FormatPct(g.Total.F), core.FormatPct(g.Total.L))
	}
}

func printTrend(w io.Writer, entries []history.Entry) {
	up := color.New(color.FgGreen).SprintFunc()
	down := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, "| Run | Recorded | Branch | Commit | Files | %Lines | Change |")
	fmt.Fprintln(w, "| --: | :------- | :----- | :----- | ----: | -----: | -----: |")
	for _, e := range entries {
		delta := fmt.Sprintf("%+g", e.LinesDelta)
		switch {
		case e.LinesDelta > 0:
			delta = up(delta)
		case e.LinesDelta < 0:
			delta = down(delta)
		}
		fmt.Fprintf(w, "| %d | %s | %s | %s | %d | %s | %s |\n",
			e.RunID, e.Recorded.UTC().Format("2006-01-02 15:04"), e.Branch, shortCommit(e.Commit),
			e.FileCount, core.FormatPct(e.Total.L), delta)
	}
}

func shortCommit(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
