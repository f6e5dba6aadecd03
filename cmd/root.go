// Package cmd wires the checker's core (engine, classify, sourcemap, report)
// to a cobra CLI: a root command plus a primary work command with
// CI-friendly flags and exit codes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion is called once by main before Execute, wiring in the
// ldflags-injected build version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "golink",
	Short: "An offline link checker for rendered static websites",
	Long: `golink walks a directory of rendered HTML and reports every internal
link (and, optionally, every anchor reference) whose target does not exist.

It is a map-reduce link-accounting engine: every file is parsed in parallel,
each worker keeps its own link bookkeeping, and the results are reduced into
one report. There is no network I/O — only the file tree under the given
root is ever read.

Examples:
  golink check ./public                      # check a built site
  golink check ./public --check-anchors      # also validate #fragments
  golink check ./public --sources ./content  # map broken links back to Markdown
  golink check ./public --github-actions     # CI annotation output
  golink interactive ./public                # browse results in a TUI`,
	Version: version,
}

// Execute runs the root command. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}
