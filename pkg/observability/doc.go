// Package observability provides the logging, metrics and tracing shared by
// the linter, the CLI and the watcher.
//
// # Logging
//
// Logger wraps log/slog with a small field-oriented API. Library code pulls
// a logger from the context with FromContext so a run id and the file being
// linted follow every record:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	ctx = observability.WithLogger(ctx, logger)
//	ctx = observability.WithRunID(ctx, runID)
//	observability.FromContext(ctx).Info("linting")
//
// # Metrics
//
// Metrics registers prometheus collectors on a caller supplied registry.
// The CLI writes them to a textfile; the watcher serves them on /metrics.
//
// # Tracing
//
// Tracer returns the global OpenTelemetry tracer. Spans are no-ops until a
// TracerProvider is installed.
package observability
