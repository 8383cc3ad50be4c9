package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/inclint/pkg/cache"
	"github.com/platinummonkey/inclint/pkg/observability"
)

// Config holds runtime configuration shared by the inclint binaries
type Config struct {
	// Lint run configuration
	Lint LintConfig

	// Watch mode configuration
	Watch WatchConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// LintConfig holds settings for lint runs
type LintConfig struct {
	Workers   int
	CacheSize int
	CacheTTL  time.Duration
}

// WatchConfig holds settings for the file watcher
type WatchConfig struct {
	// Quiet period after the last file event before a lint pass runs
	Delay time.Duration

	// Address of the results/metrics server; empty disables it
	HTTPAddr string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel observability.LogLevel

	// Debug enables per-directive validator tracing
	Debug bool

	// MetricsFile receives prometheus text-format metrics after a run
	MetricsFile string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Lint:          loadLintConfig(),
		Watch:         loadWatchConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadLintConfig loads lint configuration from environment
func loadLintConfig() LintConfig {
	return LintConfig{
		Workers:   getEnvInt("INCLINT_WORKERS", runtime.GOMAXPROCS(0)),
		CacheSize: getEnvInt("INCLINT_CACHE_SIZE", cache.DefaultMaxEntries),
		CacheTTL:  getEnvDuration("INCLINT_CACHE_TTL", cache.DefaultTTL),
	}
}

// loadWatchConfig loads watcher configuration from environment
func loadWatchConfig() WatchConfig {
	return WatchConfig{
		Delay:    getEnvDuration("INCLINT_WATCH_DELAY", 500*time.Millisecond),
		HTTPAddr: getEnv("INCLINT_HTTP_ADDR", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:    observability.ParseLogLevel(getEnv("INCLINT_LOG_LEVEL", "info")),
		Debug:       getEnvBool("INCLINT_DEBUG", false),
		MetricsFile: getEnv("INCLINT_METRICS_FILE", ""),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Lint.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Lint.Workers)
	}
	if c.Lint.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.Lint.CacheSize)
	}
	if c.Lint.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got %s", c.Lint.CacheTTL)
	}
	if c.Watch.Delay <= 0 {
		return fmt.Errorf("watch delay must be positive, got %s", c.Watch.Delay)
	}
	return nil
}

// CacheConfig returns the result cache settings, or nil when caching is off
func (c *Config) CacheConfig() *cache.Config {
	if c.Lint.CacheSize == 0 {
		return nil
	}
	return &cache.Config{
		MaxEntries: c.Lint.CacheSize,
		TTL:        c.Lint.CacheTTL,
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
