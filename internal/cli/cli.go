// Package cli builds the cobra commands behind every covgroup binary.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/covgroup/internal/config"
	"github.com/oxhq/covgroup/internal/logging"
)

// Process exit codes
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInternal = 2
)

// ErrGateFailed is returned when at least one new file misses the threshold.
var ErrGateFailed = errors.New("coverage check failed")

// ExitError attaches a process exit code to an error
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func withCode(code int, err error) error {
	var exitErr *ExitError
	if err == nil || errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Execute runs cmd and returns the exit code. Errors other than a failed
// gate are reported on the command's output streams.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, ErrGateFailed) {
		logging.New(cmd.ErrOrStderr(), cmd.Name(), false).Error(err.Error())
		logging.NewStatus(cmd.OutOrStdout()).Failure("Something went wrong! Try using --verbose flag to debug")
	}
	return ExitCode(err)
}

// getwd is replaced in tests.
var getwd = os.Getwd

// resolveCwd returns cwd, or the process working directory when it is empty.
func resolveCwd(cwd string) (string, error) {
	if cwd != "" {
		return cwd, nil
	}
	wd, err := getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

// newRoot applies the settings shared by every tool.
func newRoot(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Bind(cmd, config.NewViper()); err != nil {
				return fmt.Errorf("binding environment: %w", err)
			}
			return nil
		},
	}
}
