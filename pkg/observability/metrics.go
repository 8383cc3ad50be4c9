package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// File outcomes recorded by RecordFile
const (
	FileClean      = "clean"
	FileViolations = "violations"
	FileError      = "error"
)

// Metrics holds the prometheus collectors for lint runs. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FilesTotal      *prometheus.CounterVec
	ViolationsTotal *prometheus.CounterVec
	LintDuration    prometheus.Histogram
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
	FixesTotal      prometheus.Counter
	WatchRunsTotal  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics on registry
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inclint_files_total",
				Help: "Total number of files linted by outcome",
			},
			[]string{"result"},
		),
		ViolationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inclint_violations_total",
				Help: "Total number of include violations reported",
			},
			[]string{"rule", "severity"},
		),
		LintDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inclint_lint_duration_seconds",
				Help:    "Time spent linting a single file",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inclint_cache_hits_total",
			Help: "Lint results served from the result cache",
		}),
		CacheMissTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inclint_cache_misses_total",
			Help: "Lint results computed because the cache had no entry",
		}),
		FixesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inclint_fixes_total",
			Help: "Files rewritten by autofix",
		}),
		WatchRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inclint_watch_runs_total",
			Help: "Lint passes triggered by the file watcher",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.FilesTotal,
		m.ViolationsTotal,
		m.LintDuration,
		m.CacheHitsTotal,
		m.CacheMissTotal,
		m.FixesTotal,
		m.WatchRunsTotal,
	)

	return m
}

// Registry returns the registry the metrics were registered on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordFile records one linted file
func (m *Metrics) RecordFile(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(result).Inc()
	m.LintDuration.Observe(duration.Seconds())
}

// RecordViolation records one reported violation
func (m *Metrics) RecordViolation(rule, severity string) {
	if m == nil {
		return
	}
	m.ViolationsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordCache records a cache lookup
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissTotal.Inc()
	}
}

// RecordFix records a file rewritten by autofix
func (m *Metrics) RecordFix() {
	if m == nil {
		return
	}
	m.FixesTotal.Inc()
}

// RecordWatchRun records a watcher triggered pass
func (m *Metrics) RecordWatchRun() {
	if m == nil {
		return
	}
	m.WatchRunsTotal.Inc()
}

// WriteToTextfile writes the metrics in the node exporter textfile format
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler returns an HTTP handler exposing the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
