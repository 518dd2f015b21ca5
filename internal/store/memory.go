package store

import (
	"context"
	"sync"

	"github.com/darmiel/fedmap/internal/core"
)

var _ core.MappingStore = (*InMemoryMappingStore)(nil)

// InMemoryMappingStore is a MappingStore backed by a map, grouped per
// integration. It mirrors the remote store's one safety property: creating a
// mapping whose name is taken fails with core.ErrMappingExists. Used by tests.
type InMemoryMappingStore struct {
	mu       sync.RWMutex
	mappings map[string][]core.IdentityMapping
}

func NewInMemoryMappingStore() *InMemoryMappingStore {
	return &InMemoryMappingStore{
		mappings: make(map[string][]core.IdentityMapping),
	}
}

func (s *InMemoryMappingStore) ListMappings(_ context.Context, integration string) ([]core.IdentityMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.mappings[integration]
	mappings := make([]core.IdentityMapping, len(current))
	copy(mappings, current)
	return mappings, nil
}

func (s *InMemoryMappingStore) CreateMapping(_ context.Context, integration string, mapping core.IdentityMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.mappings[integration] {
		if m.Name == mapping.Name {
			return core.ErrMappingExists
		}
	}
	s.mappings[integration] = append(s.mappings[integration], mapping)
	return nil
}
