package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/logging"
)

// NewCleanCommand builds clean-css-types.
func NewCleanCommand() *cobra.Command {
	opts := config.DefaultCleanOptions()

	cmd := newRoot("clean-css-types <path>", "Delete generated .d.ts files whose stylesheet no longer exists")
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.Path = args[0]
		logger := logging.New(cmd.ErrOrStderr(), "clean-css-types", opts.Verbose)
		status := logging.NewStatus(cmd.OutOrStdout())

		if err := opts.Validate(); err != nil {
			return err
		}

		status.Title("Looking for %s declaration files in %s", strings.Join(opts.Exts, ", "), opts.Path)
		result, err := core.CleanDeclarations(cmd.Context(), opts.Path, opts.Exts, opts.DryRun)
		if err != nil {
			return err
		}
		status.Item("Found %d declaration files", len(result.Found))
		logger.Debug("Declarations", "files", result.Found)

		for _, file := range result.Deleted {
			status.Warning("Deleting %q because corresponding %q does not exist", file, strings.TrimSuffix(file, ".d.ts"))
		}

		if opts.DryRun {
			status.Success("Would delete %d declaration files", len(result.Deleted))
			return nil
		}
		status.Success("Deleted total of %d declaration files", len(result.Deleted))
		return nil
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.Exts, "ext", "e", opts.Exts, "stylesheet extensions, each starting with \".\"")
	f.BoolVar(&opts.DryRun, "dry-run", false, "list stale declarations without deleting them")
	f.BoolVar(&opts.Verbose, "verbose", false, "debug logging")
	return cmd
}
