// Package memory provides an in-process kvstore.Store.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"kls/internal/core/kvstore"
)

// Store keeps values in a map. Values are copied in and out.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements kvstore.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return slices.Clone(v), nil
}

// Put implements kvstore.Store.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = slices.Clone(value)
	s.mu.Unlock()
	return nil
}

// Delete implements kvstore.Store.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Keys implements kvstore.Store.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Ping implements kvstore.Pinger.
func (s *Store) Ping(context.Context) error { return nil }

var _ kvstore.Store = (*Store)(nil)
