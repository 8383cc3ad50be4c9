// Package config provides runtime configuration management from environment variables.
//
// # Overview
//
// Style rules live in inclint.yaml (see pkg/linter). This package covers the
// settings that shape how a run executes rather than what it reports, with
// sensible defaults for all of them.
//
// # Configuration Structure
//
// Lint settings:
//
//	INCLINT_WORKERS="8"        # files linted concurrently, default GOMAXPROCS
//	INCLINT_CACHE_SIZE="4096"  # result cache entries, 0 disables the cache
//	INCLINT_CACHE_TTL="10m"
//
// Watch settings:
//
//	INCLINT_WATCH_DELAY="500ms"
//	INCLINT_HTTP_ADDR=":9090"
//
// Observability settings:
//
//	INCLINT_LOG_LEVEL="info"  # debug, info, warn, error
//	INCLINT_DEBUG="true"      # per-directive validator tracing
//	INCLINT_METRICS_FILE="/var/lib/node_exporter/inclint.prom"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Workers: %d\n", cfg.Lint.Workers)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/cache: Uses cache configuration
//   - pkg/observability: Uses observability configuration
package config
