package linter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/inclint/pkg/cache"
	"github.com/platinummonkey/inclint/pkg/observability"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

// LintEngine orchestrates the linting process
type LintEngine struct {
	config   *Config
	registry *RuleRegistry
	logger   *observability.Logger
	metrics  *observability.Metrics
	cache    *cache.Cache[LintResult]
	workers  int
}

// Option configures a LintEngine
type Option func(*LintEngine)

// WithLogger sets the engine logger
func WithLogger(logger *observability.Logger) Option {
	return func(e *LintEngine) { e.logger = logger }
}

// WithMetrics records lint metrics
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *LintEngine) { e.metrics = metrics }
}

// WithCache serves unchanged files from c
func WithCache(c *cache.Cache[LintResult]) Option {
	return func(e *LintEngine) { e.cache = c }
}

// WithWorkers bounds how many files LintFiles checks concurrently
func WithWorkers(n int) Option {
	return func(e *LintEngine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewLintEngine creates a new lint engine with an empty registry
func NewLintEngine(config *Config, opts ...Option) *LintEngine {
	if config == nil {
		config = DefaultConfig()
	}

	e := &LintEngine{
		config:   config,
		registry: NewRuleRegistry(),
		logger:   observability.NopLogger(),
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's rule registry
func (e *LintEngine) Registry() *RuleRegistry { return e.registry }

// Config returns the engine's configuration
func (e *LintEngine) Config() *Config { return e.config }

// Lint runs all enabled rules against content attributed to path
func (e *LintEngine) Lint(ctx context.Context, path string, content []byte) (LintResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "inclint.lint_file",
		trace.WithAttributes(attribute.String("inclint.file", path)))
	defer span.End()

	start := time.Now()
	logger := e.loggerFor(ctx).WithField("file", path)

	key := ""
	if e.cache != nil {
		key = cache.Key(path, content, e.fingerprint())
		if cached, err := e.cache.Get(key); err == nil {
			e.metrics.RecordCache(true)
			span.SetAttributes(attribute.Bool("inclint.cached", true))
			logger.Debug("cache hit")
			return cached, nil
		}
		e.metrics.RecordCache(false)
	}

	scan, err := scanner.ScanBytes(content, path)
	if err != nil {
		return e.fail(span, start, LintResult{FilePath: path}, err)
	}

	file := &SourceFile{Path: path, Content: content, Scan: scan}
	lctx := NewLintContext(file, e.config, logger)

	result := LintResult{
		FilePath:   path,
		Includes:   len(scan.Directives),
		Violations: make([]Violation, 0),
		Skipped:    scan.Skipped,
	}

	for _, rule := range e.registry.GetEnabledRules(e.config, path) {
		violations, err := rule.Check(file, lctx)
		if err != nil {
			return e.fail(span, start, result, fmt.Errorf("rule %s: %w", rule.Name(), err))
		}
		for _, v := range violations {
			v.Severity = e.config.SeverityFor(v.Rule, v.Severity)
			result.Violations = append(result.Violations, v)
		}
	}

	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i].Position, result.Violations[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return result.Violations[i].Rule < result.Violations[j].Rule
	})

	for _, v := range result.Violations {
		e.metrics.RecordViolation(v.Rule, string(v.Severity))
	}
	outcome := observability.FileClean
	if len(result.Violations) > 0 {
		outcome = observability.FileViolations
	}
	e.metrics.RecordFile(outcome, time.Since(start))

	span.SetAttributes(
		attribute.Int("inclint.includes", result.Includes),
		attribute.Int("inclint.violations", len(result.Violations)),
	)
	logger.WithFields(map[string]interface{}{
		"includes":   result.Includes,
		"violations": len(result.Violations),
	}).Debug("linted file")

	if e.cache != nil {
		_ = e.cache.Set(key, result)
	}
	return result, nil
}

// LintFile reads and lints the file at path
func (e *LintEngine) LintFile(ctx context.Context, path string) (LintResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		e.metrics.RecordFile(observability.FileError, 0)
		return LintResult{FilePath: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.Lint(ctx, path, content)
}

// LintFiles lints paths concurrently and returns results in path order.
// Each file is checked with its own validator state. A file that fails does
// not stop the others: its result carries Error and the returned error joins
// every per-file failure.
func (e *LintEngine) LintFiles(ctx context.Context, paths []string) ([]LintResult, error) {
	return e.eachFile(ctx, paths, e.LintFile)
}

// Fix lints path and, when any fixable rule reported a violation, rewrites
// its include block in canonical order. The returned result describes the
// file after the rewrite.
func (e *LintEngine) Fix(ctx context.Context, path string) (LintResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return LintResult{FilePath: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := e.Lint(ctx, path, content)
	if err != nil {
		return result, err
	}

	var fix *Fix
	for _, v := range result.Violations {
		rule, ok := e.registry.GetRule(v.Rule)
		if !ok || !rule.CanAutoFix() || v.SuggestedFix == nil {
			continue
		}
		fix = v.SuggestedFix
		break
	}
	if fix == nil {
		return result, nil
	}

	fixed, err := ApplyFix(content, fix)
	if err != nil {
		return result, fmt.Errorf("failed to fix %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return result, err
	}
	if err := os.WriteFile(path, fixed, info.Mode().Perm()); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.metrics.RecordFix()
	e.loggerFor(ctx).WithField("file", path).Info("rewrote include block")

	result, err = e.Lint(ctx, path, fixed)
	result.Fixed = true
	return result, err
}

// FixFiles runs Fix over paths concurrently, in path order. Failures are
// reported the same way as in LintFiles.
func (e *LintEngine) FixFiles(ctx context.Context, paths []string) ([]LintResult, error) {
	return e.eachFile(ctx, paths, e.Fix)
}

func (e *LintEngine) eachFile(ctx context.Context, paths []string, fn func(context.Context, string) (LintResult, error)) ([]LintResult, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var eg errgroup.Group
	eg.SetLimit(e.workers)

	results := make([]LintResult, len(sorted))
	errs := make([]error, len(sorted))
	for i, path := range sorted {
		i, path := i, path
		eg.Go(func() error {
			var (
				result LintResult
				err    error
			)
			if err = ctx.Err(); err == nil {
				result, err = fn(ctx, path)
			}
			result.FilePath = path
			if err != nil {
				result.Error = err.Error()
				errs[i] = err
			}
			results[i] = result
			return nil
		})
	}

	_ = eg.Wait()
	return results, errors.Join(errs...)
}

// GenerateSummary creates a summary of lint results
func (e *LintEngine) GenerateSummary(results []LintResult) Summary {
	summary := Summary{
		TotalFiles: len(results),
	}

	for _, result := range results {
		if len(result.Violations) > 0 {
			summary.FilesWithViolations++
		}
		if result.Fixed {
			summary.Fixed++
		}
		if result.Error != "" {
			summary.Failed++
		}
		summary.TotalViolations += len(result.Violations)
		for _, v := range result.Violations {
			switch v.Severity {
			case SeverityError:
				summary.Errors++
			case SeverityWarning:
				summary.Warnings++
			case SeverityInfo:
				summary.Infos++
			}
		}
	}

	return summary
}

func (e *LintEngine) fail(span trace.Span, start time.Time, result LintResult, err error) (LintResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.metrics.RecordFile(observability.FileError, time.Since(start))
	return result, err
}

// loggerFor prefers a logger carried by ctx over the engine default
func (e *LintEngine) loggerFor(ctx context.Context) *observability.Logger {
	if _, ok := observability.LoggerFrom(ctx); ok {
		return observability.FromContext(ctx)
	}
	if runID := observability.GetRunID(ctx); runID != "" {
		return e.logger.WithField("run_id", runID)
	}
	return e.logger
}

func (e *LintEngine) fingerprint() string {
	names := make([]string, 0)
	for _, rule := range e.registry.GetAllRules() {
		names = append(names, rule.Name())
	}
	return fmt.Sprintf("%s:%v", e.config.Fingerprint(), names)
}
