package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/strata/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Snapshot),
	}
}

// Save stores a copy of the snapshot.
func (s *Store) Save(ctx context.Context, name string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = snap.Clone()
	return nil
}

// Load retrieves a copy of the snapshot, so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, name string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[name]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
