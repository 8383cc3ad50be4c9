package watch

import (
	"sort"
	"sync"
	"time"

	"github.com/platinummonkey/inclint/pkg/linter"
)

// Entry is the latest lint result for one file
type Entry struct {
	Result    linter.LintResult `json:"result"`
	RunID     string            `json:"run_id"`
	CheckedAt time.Time         `json:"checked_at"`
}

// Store keeps the most recent result per file. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Put records result under its file path
func (s *Store) Put(runID string, result linter.LintResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[result.FilePath] = Entry{Result: result, RunID: runID, CheckedAt: at}
}

// Get returns the entry for path
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	return e, ok
}

// Delete forgets path
func (s *Store) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

// List returns all entries sorted by path
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Result.FilePath < out[j].Result.FilePath })
	return out
}

// Results returns the stored lint results sorted by path
func (s *Store) Results() []linter.LintResult {
	entries := s.List()
	out := make([]linter.LintResult, len(entries))
	for i, e := range entries {
		out[i] = e.Result
	}
	return out
}
