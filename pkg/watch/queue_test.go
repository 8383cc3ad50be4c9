package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestQueue(delay time.Duration) (*Queue, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	q := NewQueue(delay)
	q.now = clock.now
	return q, clock
}

func TestQueue_Debounce(t *testing.T) {
	q, clock := newTestQueue(time.Second)

	q.Add("b.cc")
	q.Add("a.cc")
	assert.Empty(t, q.Ready())
	assert.Equal(t, 2, q.Len())

	clock.advance(600 * time.Millisecond)
	q.Add("a.cc") // restarts a.cc's quiet period

	clock.advance(400 * time.Millisecond)
	assert.Equal(t, []string{"b.cc"}, q.Ready())
	assert.Equal(t, 1, q.Len())

	clock.advance(600 * time.Millisecond)
	assert.Equal(t, []string{"a.cc"}, q.Ready())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Ready())
}

func TestQueue_AddWithDelay(t *testing.T) {
	q, _ := newTestQueue(time.Second)

	q.AddWithDelay("z.cc", time.Second)
	q.AddWithDelay("y.cc", time.Second)
	q.AddWithDelay("x.cc", 0)

	assert.Equal(t, []string{"y.cc", "z.cc"}, q.Ready())
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Remove(t *testing.T) {
	q, clock := newTestQueue(time.Millisecond)

	q.Add("a.cc")
	q.Remove("a.cc")
	q.Remove("missing.cc")
	clock.advance(time.Second)
	assert.Empty(t, q.Ready())
}
