// Command grouped-coverage turns a coverage summary into per-group HTML,
// Markdown and JSON reports.
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
	}
	os.Exit(cli.Execute(cli.NewGroupedCommand()))
}
