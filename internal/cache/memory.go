package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

type memoryEntry struct {
	jobs      []model.Job
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Entries live until the process exits
// or their TTL passes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]model.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return cloneJobs(e.jobs), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, jobs []model.Job, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{jobs: cloneJobs(jobs), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
