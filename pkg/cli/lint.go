package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinummonkey/inclint/pkg/config"
	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/linter/rules"
	"github.com/platinummonkey/inclint/pkg/observability"
)

// lintOptions collects the lint command's flags
type lintOptions struct {
	configFile       string
	format           string
	autoFix          bool
	failOnError      bool
	failOnWarning    bool
	verbose          bool
	debug            bool
	rulesOnly        bool
	metricsFile      string
	workers          int
	associatedHeader string
}

// newLintCommand creates a new lint command
func newLintCommand(out io.Writer) *Command {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)

	opts := &lintOptions{}
	fs.StringVar(&opts.configFile, "config", "", "Path to lint config file (inclint.yaml)")
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json, github")
	fs.BoolVar(&opts.autoFix, "fix", false, "Rewrite include blocks in canonical order")
	fs.BoolVar(&opts.failOnError, "fail-on-error", true, "Exit with error code on lint errors")
	fs.BoolVar(&opts.failOnWarning, "fail-on-warning", false, "Exit with error code on lint warnings")
	fs.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&opts.debug, "debug", false, "Trace every directive the validator sees")
	fs.BoolVar(&opts.rulesOnly, "rules", false, "List available rules and exit")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus metrics to this file after the run")
	fs.IntVar(&opts.workers, "workers", 0, "Files linted concurrently (default INCLINT_WORKERS or GOMAXPROCS)")
	fs.StringVar(&opts.associatedHeader, "associated-header", "", "Associated header exemption: first, match, none")

	return &Command{
		Name:        "lint",
		Description: "Check include directive ordering",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			paths := fs.Args()
			if len(paths) == 0 {
				paths = []string{"."}
			}
			return runLint(context.Background(), out, paths, opts)
		},
	}
}

func runLint(ctx context.Context, out io.Writer, paths []string, opts *lintOptions) error {
	switch opts.format {
	case "text", "json", "github":
	default:
		return fmt.Errorf("unknown format %q (must be text, json or github)", opts.format)
	}

	env, err := config.LoadConfig()
	if err != nil {
		return err
	}

	cfg, err := loadLintConfig(opts.configFile, paths[0])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.associatedHeader != "" {
		if _, err := includeorder.ParseAssociatedHeaderMode(opts.associatedHeader); err != nil {
			return err
		}
		cfg.Lint.AssociatedHeader = opts.associatedHeader
	}
	cfg.Debug = cfg.Debug || opts.debug || env.Observability.Debug

	level := env.Observability.LogLevel
	if opts.verbose && level > observability.InfoLevel {
		level = observability.InfoLevel
	}
	if cfg.Debug {
		level = observability.DebugLevel
	}
	logger := observability.NewLogger(level, os.Stderr)

	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithLogger(ctx, logger)

	workers := env.Lint.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = env.Observability.MetricsFile
	}
	var metrics *observability.Metrics
	if metricsFile != "" {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	engine := linter.NewLintEngine(cfg,
		linter.WithLogger(logger),
		linter.WithMetrics(metrics),
		linter.WithWorkers(workers),
	)
	rules.RegisterDefaultRules(engine.Registry())

	if opts.rulesOnly {
		return lintListRules(out, engine)
	}

	files, err := linter.ExpandPaths(paths, cfg)
	if err != nil {
		return fmt.Errorf("failed to find sources: %w", err)
	}

	if len(files) == 0 {
		if opts.format == "text" {
			fmt.Fprintf(out, "No source files found in %v\n", paths)
		}
		return nil
	}

	observability.FromContext(ctx).WithField("files", len(files)).Info("linting sources")

	var results []linter.LintResult
	if opts.autoFix || cfg.AutoFix.Enabled {
		results, err = engine.FixFiles(ctx, files)
	} else {
		results, err = engine.LintFiles(ctx, files)
	}
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	if metrics != nil {
		if err := metrics.WriteToTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	summary := engine.GenerateSummary(results)

	switch opts.format {
	case "json":
		if err := lintOutputJSON(out, runID, results, summary); err != nil {
			return err
		}
	case "github":
		lintOutputGitHub(out, results)
	default:
		lintOutputText(out, results, summary, opts.verbose)
	}

	if opts.failOnError && summary.Errors > 0 {
		return fmt.Errorf("lint failed with %d errors", summary.Errors)
	}
	if opts.failOnWarning && summary.Warnings > 0 {
		return fmt.Errorf("lint failed with %d warnings", summary.Warnings)
	}
	return nil
}

// loadLintConfig loads the explicit config file, or searches the directory
// of the first path
func loadLintConfig(configFile, firstPath string) (*linter.Config, error) {
	if configFile != "" {
		return linter.LoadConfig(configFile)
	}
	dir := firstPath
	if info, err := os.Stat(firstPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(firstPath)
	}
	return linter.LoadConfigFromDir(dir)
}

func lintOutputText(out io.Writer, results []linter.LintResult, summary linter.Summary, verbose bool) {
	hasViolations := false

	for _, result := range results {
		if verbose {
			for _, s := range result.Skipped {
				fmt.Fprintf(out, "%s:%d: skipped: %s\n", result.FilePath, s.Line, s.Reason)
			}
		}
		if result.Fixed {
			fmt.Fprintf(out, "%s: fixed include order\n", result.FilePath)
		}
		if len(result.Violations) == 0 {
			continue
		}

		hasViolations = true
		for _, v := range result.Violations {
			fmt.Fprintf(out, "%s:%d:%d: [%s] %s (%s)\n",
				result.FilePath,
				v.Position.Line,
				v.Position.Column,
				v.Severity,
				v.Message,
				v.Rule,
			)

			if v.SuggestedFix != nil && verbose {
				fmt.Fprintf(out, "    Fix: %s\n", v.SuggestedFix.Description)
			}
		}
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Summary:\n")
	fmt.Fprintf(out, "  Files:      %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "  Violations: %d\n", summary.TotalViolations)
	fmt.Fprintf(out, "  Errors:     %d\n", summary.Errors)
	fmt.Fprintf(out, "  Warnings:   %d\n", summary.Warnings)
	fmt.Fprintf(out, "  Infos:      %d\n", summary.Infos)
	if summary.Fixed > 0 {
		fmt.Fprintf(out, "  Fixed:      %d\n", summary.Fixed)
	}

	if !hasViolations {
		fmt.Fprintln(out, "\n✓ All files passed linting")
	}
}

func lintOutputJSON(out io.Writer, runID string, results []linter.LintResult, summary linter.Summary) error {
	output := struct {
		RunID   string              `json:"run_id"`
		Results []linter.LintResult `json:"results"`
		Summary linter.Summary      `json:"summary"`
	}{
		RunID:   runID,
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func lintOutputGitHub(out io.Writer, results []linter.LintResult) {
	// ::error file={name},line={line},col={col}::{message}
	for _, result := range results {
		for _, v := range result.Violations {
			level := "error"
			if v.Severity == linter.SeverityWarning {
				level = "warning"
			} else if v.Severity == linter.SeverityInfo {
				level = "notice"
			}

			fmt.Fprintf(out, "::%s file=%s,line=%d,col=%d::%s\n",
				level,
				githubEscapeProperty(result.FilePath),
				v.Position.Line,
				v.Position.Column,
				githubEscapeData("["+v.Rule+"] "+v.Message),
			)
		}
	}
}

var (
	githubDataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	githubPropertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// githubEscapeData escapes a workflow command message
func githubEscapeData(s string) string { return githubDataEscaper.Replace(s) }

// githubEscapeProperty escapes a workflow command property value
func githubEscapeProperty(s string) string { return githubPropertyEscaper.Replace(s) }
