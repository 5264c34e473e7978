// Package memory provides a process-local slot store. It is the default
// backend and the fake used by tests.
package memory

import (
	"context"
	"sync"
)

// SlotStore keeps slots in a map guarded by a RWMutex.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string]string)}
}

func (s *SlotStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	return v, ok, nil
}

func (s *SlotStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

func (s *SlotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Ping always succeeds; it lets the memory backend sit behind readiness checks.
func (s *SlotStore) Ping(context.Context) error { return nil }
