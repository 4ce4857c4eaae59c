// Package memory provides an in-memory context store, used by tests and
// single-process setups without shared infrastructure.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ardenfx/stagehand/pkg/domain"
)

// Store implements ports.ContextStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Context
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Context),
	}
}

// Save persists a copy of the context under key.
func (s *Store) Save(ctx context.Context, key string, pipelineCtx *domain.Context) error {
	copied := *pipelineCtx
	copied.FilesystemLocations = append([]string(nil), pipelineCtx.FilesystemLocations...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = &copied
	return nil
}

// Load retrieves the context stored under key. Callers get a copy so the
// stored value cannot be mutated through the returned pointer.
func (s *Store) Load(ctx context.Context, key string) (*domain.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.data[key]
	if !ok {
		return nil, domain.ErrContextNotFound
	}

	ret := *stored
	ret.FilesystemLocations = append([]string(nil), stored.FilesystemLocations...)
	return &ret, nil
}

// Delete removes the context stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
