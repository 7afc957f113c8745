package repository

import (
	"context"
	"sync"

	"github.com/subnetlab/paretoboard/pkg/metrics"
)

// MemStore is the in-memory Store. A single pointer swap under a mutex
// publishes a view; reads take the read lock only long enough to copy the
// pointer, so a slow consumer never blocks a refresh.
type MemStore struct {
	mu         sync.RWMutex
	view       *View
	generation int
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace atomically publishes a new view.
func (s *MemStore) Replace(_ context.Context, v *View) error {
	if v == nil {
		return ErrNilView
	}
	s.mu.Lock()
	s.view = v
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	metrics.UpdateViewGeneration(gen)
	metrics.UpdateWinnerCount(len(v.Winners))
	metrics.UpdateMinerCount(len(v.Miners))
	return nil
}

// Current returns the latest published view.
func (s *MemStore) Current(_ context.Context) (*View, error) {
	s.mu.RLock()
	v := s.view
	s.mu.RUnlock()
	if v == nil {
		return nil, ErrNoView
	}
	return v, nil
}

// Generation returns how many views have been published.
func (s *MemStore) Generation(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
