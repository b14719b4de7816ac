package datacache

import (
	"context"
	"fmt"
	"sync"

	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// MemoryStore is the default in-process store: no eviction, no expiry, no
// size bound. Entries live for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*tabular.Dataset
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-process store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*tabular.Dataset),
	}
}

// Get returns the dataset cached under key, or ErrMiss. The returned dataset
// is shared; callers must not mutate it.
func (s *MemoryStore) Get(ctx context.Context, key string) (*tabular.Dataset, error) {
	s.mu.RLock()
	ds, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return ds, nil
}

// Set stores a dataset under key. Later writes replace earlier ones.
func (s *MemoryStore) Set(ctx context.Context, key string, ds *tabular.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset cannot be nil")
	}

	s.mu.Lock()
	s.entries[key] = ds
	size := len(s.entries)
	s.mu.Unlock()

	CacheEntries.WithLabelValues("memory").Set(float64(size))
	return nil
}

// Len returns the number of cached datasets.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
