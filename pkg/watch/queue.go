package watch

import (
	"sort"
	"sync"
	"time"
)

// request is a pending lint of one file
type request struct {
	Path      string
	Timestamp time.Time
}

// Queue debounces file change notifications. A path becomes ready once no
// change has been queued for it for the queue's delay.
type Queue struct {
	delay time.Duration
	now   func() time.Time

	mu      sync.Mutex
	pending map[string]*request
}

// NewQueue creates a queue with the given quiet period
func NewQueue(delay time.Duration) *Queue {
	return &Queue{
		delay:   delay,
		now:     time.Now,
		pending: make(map[string]*request),
	}
}

// Add queues path, restarting its quiet period if already pending
func (q *Queue) Add(path string) {
	q.AddWithDelay(path, 0)
}

// AddWithDelay queues path as if it had been changed head ago. A head equal
// to the queue delay makes the path ready immediately.
func (q *Queue) AddWithDelay(path string, head time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ts := q.now().Add(-head)
	if existing, ok := q.pending[path]; ok {
		existing.Timestamp = ts
		return
	}
	q.pending[path] = &request{Path: path, Timestamp: ts}
}

// Remove drops path from the queue
func (q *Queue) Remove(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, path)
}

// Len returns the number of pending paths
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Ready removes and returns the paths whose quiet period has elapsed, sorted
func (q *Queue) Ready() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	var ready []string
	for path, req := range q.pending {
		if now.Sub(req.Timestamp) >= q.delay {
			ready = append(ready, path)
			delete(q.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
