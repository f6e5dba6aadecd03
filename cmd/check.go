package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/config"
	"github.com/golink-dev/golink/internal/engine"
	"github.com/golink-dev/golink/internal/report"
	"github.com/golink-dev/golink/internal/runstats"
	"github.com/golink-dev/golink/internal/sourcemap"
	"github.com/golink-dev/golink/internal/store"
	"github.com/golink-dev/golink/internal/walker"
)

// Flag variables, bound in init() below.
var (
	flagJobs          int
	flagCheckAnchors  bool
	flagSources       string
	flagGithubActions bool
	flagShowStats     bool
	flagNoConfig      bool
	flagInclude       []string
	flagExclude       []string
)

var checkCmd = &cobra.Command{
	Use:   "check <root>",
	Short: "Scan a rendered site for broken internal links",
	Long: `Scan a directory of rendered HTML for internal links whose target does
not exist as a file (or, with --check-anchors, as a declared anchor) under
that root.

Exit codes:
  0 - no errors, no warnings
  1 - at least one broken link (error)
  2 - no errors, but at least one broken anchor (warning; only possible
      with --check-anchors)
  3 - infrastructure failure (root missing, unreadable)

Examples:
  golink check ./public
  golink check ./public --check-anchors
  golink check ./public --sources ./content --github-actions
  golink check ./public -j 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "worker count (default: number of logical CPUs)")
	checkCmd.Flags().BoolVar(&flagCheckAnchors, "check-anchors", false, "also validate #fragment references against declared anchors")
	checkCmd.Flags().StringVar(&flagSources, "sources", "", "directory of Markdown source files to fuzzy-match broken links against")
	checkCmd.Flags().BoolVar(&flagGithubActions, "github-actions", false, "emit GitHub Actions ::error/::warning annotations instead of plain text")
	checkCmd.Flags().BoolVar(&flagShowStats, "stats", false, "print a performance breakdown to stderr after the report")
	checkCmd.Flags().BoolVar(&flagNoConfig, "no-config", false, "skip loading .golinkrc.yaml")
	checkCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "glob patterns to include (repeatable)")
	checkCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to exclude (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := args[0]

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot read site root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("site root %s is not a directory", root)
	}

	cfg, err := loadEffectiveConfig(root)
	if err != nil {
		return err
	}

	jobs := cfg.GetJobs(flagJobs, 0)
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	checkAnchors := cfg.GetCheckAnchors(flagCheckAnchors)
	sources := cfg.GetSources(flagSources)
	githubActions := cfg.GetGithubActions(flagGithubActions)
	showStats := cfg.GetShowStats(flagShowStats)

	stats := runstats.New()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var hashContext func(string) store.ParagraphHash
	if sources != "" {
		hashContext = sourcemap.HashContext
	}

	stats.StartEnumerate()
	stats.StartMapReduce()
	walkOpts := walker.Options{
		Include: append(append([]string(nil), cfg.Scan.Include...), flagInclude...),
		Exclude: append(append([]string(nil), cfg.Scan.Exclude...), flagExclude...),
	}
	s, err := engine.Run(ctx, root, walkOpts, engine.Options{
		Jobs:        jobs,
		HashContext: hashContext,
		OnFileError: func(doc string, err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", doc, err)
		},
	})
	if err != nil {
		return fmt.Errorf("checking %s: %w", root, err)
	}
	stats.EndEnumerate(s.Len())
	stats.EndMapReduce(s.Len())

	stats.StartClassify()
	findings := classify.Run(s, classify.Options{CheckAnchors: checkAnchors})
	stats.EndClassify(len(classify.Errors(findings)), len(classify.Warnings(findings)))

	var locator report.Locator
	if sources != "" {
		stats.StartSourceMap()
		m, err := sourcemap.Build(ctx, sources)
		if err != nil {
			return fmt.Errorf("building source map from %s: %w", sources, err)
		}
		locator = m
		stats.EndSourceMap()
	}

	format := report.Plain
	if githubActions {
		format = report.GitHubActions
	}
	htmlPath := func(doc string) string {
		return filepath.Join(root, filepath.FromSlash(doc))
	}
	if err := report.Write(cmd.OutOrStdout(), findings, format, locator, htmlPath); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if showStats {
		fmt.Fprint(cmd.ErrOrStderr(), stats.String())
	}

	exitCode := classify.ExitCode(findings)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// loadEffectiveConfig builds the effective configuration for a check of
// root: a project-level .golinkrc.yaml found by walking up from the current
// directory, merged with (and overridden by) a site-root-local one, if
// present.
func loadEffectiveConfig(root string) (*config.Config, error) {
	if flagNoConfig {
		return &config.Config{}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	cfg, err := config.FindAndLoad(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rootCfg, err := config.LoadFrom(filepath.Join(root, config.DefaultConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("loading site config: %w", err)
	}
	cfg.Merge(rootCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.IsEmpty() && flagShowStats {
		fmt.Fprintln(os.Stderr, "no .golinkrc.yaml found; using defaults")
	}
	return cfg, nil
}
