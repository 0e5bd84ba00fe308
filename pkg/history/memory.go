package history

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the most recent records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	max     int
}

// NewMemoryStore creates a store holding at most capacity records; older
// ones are dropped. A non-positive capacity keeps everything.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{max: capacity}
}

func (s *MemoryStore) Add(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	if s.max > 0 && len(s.records) > s.max {
		s.records = slices.Clone(s.records[len(s.records)-s.max:])
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit = normalizeLimit(limit)
	out := make([]Record, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
