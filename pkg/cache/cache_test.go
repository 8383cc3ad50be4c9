package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string](nil)

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set("a", "alpha"))
	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", v)

	c.Delete("a")
	_, err = c.Get("a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.InDelta(t, 1.0/3.0, stats.HitRate, 0.0001)
}

func TestCache_InvalidKey(t *testing.T) {
	c := New[int](DefaultConfig())
	assert.ErrorIs(t, c.Set("", 1), ErrInvalidCacheKey)
	_, err := c.Get("")
	assert.ErrorIs(t, err, ErrInvalidCacheKey)
}

func TestCache_Eviction(t *testing.T) {
	c := New[int](&Config{MaxEntries: 2, TTL: time.Hour})
	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))
	require.NoError(t, c.Set("c", 3))

	_, err := c.Get("a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 2, c.Stats().ItemCount)

	c.Purge()
	assert.Equal(t, 0, c.Stats().ItemCount)
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](&Config{MaxEntries: 10, TTL: 20 * time.Millisecond})
	require.NoError(t, c.Set("a", 1))

	assert.Eventually(t, func() bool {
		_, err := c.Get("a")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestKey(t *testing.T) {
	k1 := Key("a.cc", []byte("#include <a.h>\n"), "fp1")
	k2 := Key("a.cc", []byte("#include <a.h>\n"), "fp1")
	assert.Equal(t, k1, k2)

	assert.NotEqual(t, k1, Key("b.cc", []byte("#include <a.h>\n"), "fp1"))
	assert.NotEqual(t, k1, Key("a.cc", []byte("#include <b.h>\n"), "fp1"))
	assert.NotEqual(t, k1, Key("a.cc", []byte("#include <a.h>\n"), "fp2"))
}
