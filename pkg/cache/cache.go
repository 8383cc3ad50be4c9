// Package cache provides an in-memory, expiring LRU cache for lint results.
//
// Keys are derived from everything that can change a result: the file path,
// a hash of its content and the fingerprint of the lint configuration. A
// file whose bytes and config are unchanged is never re-linted while its
// entry is live, which keeps the watcher cheap on noisy file systems.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxEntries = 4096
	DefaultTTL        = 10 * time.Minute
)

// Config holds cache configuration
type Config struct {
	MaxEntries int
	TTL        time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() *Config {
	return &Config{
		MaxEntries: DefaultMaxEntries,
		TTL:        DefaultTTL,
	}
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	HitRate   float64
	ItemCount int
}

// Cache is a typed LRU cache with TTL expiry. It is safe for concurrent use.
type Cache[V any] struct {
	cache  *lru.LRU[string, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache
func New[V any](config *Config) *Cache[V] {
	if config == nil {
		config = DefaultConfig()
	}
	size := config.MaxEntries
	if size < 1 {
		size = DefaultMaxEntries
	}
	return &Cache[V]{
		cache: lru.NewLRU[string, V](size, nil, config.TTL),
	}
}

// Get retrieves a cached value
func (c *Cache[V]) Get(key string) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrInvalidCacheKey
	}
	v, ok := c.cache.Get(key)
	if !ok {
		c.misses.Add(1)
		return zero, ErrCacheMiss
	}
	c.hits.Add(1)
	return v, nil
}

// Set stores a value
func (c *Cache[V]) Set(key string, value V) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	c.cache.Add(key, value)
	return nil
}

// Delete removes a value
func (c *Cache[V]) Delete(key string) {
	c.cache.Remove(key)
}

// Purge empties the cache
func (c *Cache[V]) Purge() {
	c.cache.Purge()
}

// Stats returns cache statistics
func (c *Cache[V]) Stats() Stats {
	stats := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		ItemCount: c.cache.Len(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// Key builds a cache key for a file. Format: {path}:{contentHash}:{fingerprint}
func Key(path string, content []byte, fingerprint string) string {
	sum := sha256.Sum256(content)
	return path + ":" + hex.EncodeToString(sum[:]) + ":" + fingerprint
}
