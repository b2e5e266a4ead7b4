// Command new-files-coverage-check fails a build when files added since the
// base branch are uncovered or below the coverage threshold.
package main

import (
	"fmt"
	"os"

	"github.com/oxhq/covgroup/internal/cli"
	"github.com/oxhq/covgroup/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitInternal)
	}
	os.Exit(cli.Execute(cli.NewGateCommand()))
}
