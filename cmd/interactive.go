package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/golink-dev/golink/internal/ui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive [root]",
	Short: "Launch an interactive TUI for browsing link-check results",
	Long: `Launch an interactive terminal UI that runs the full link check
against root and lets you browse the findings.

Controls:
  ↑/↓ or j/k    Navigate through results
  f             Cycle the result filter
  ?             Toggle full help
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().IntVar(&flagJobs, "jobs", 0, "number of parallel workers (0 = number of logical CPUs)")
	interactiveCmd.Flags().BoolVar(&flagCheckAnchors, "check-anchors", false, "also report broken in-page anchors")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	cfg, err := loadEffectiveConfig(root)
	if err != nil {
		return err
	}

	jobs := cfg.GetJobs(flagJobs, 0)
	checkAnchors := cfg.GetCheckAnchors(flagCheckAnchors)

	p := tea.NewProgram(ui.New(root, jobs, checkAnchors))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interactive mode: %w", err)
	}
	return nil
}
