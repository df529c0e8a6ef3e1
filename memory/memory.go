// Package memory provides simple key/value stores agents can use to retain
// information across runs. The run-scoped context stays private to each run;
// memory is the explicit, opt-in channel for anything longer lived.
package memory

import "sync"

// Store is the minimal persistence interface agents write run outcomes to.
type Store interface {
	Put(key string, value any) error
	Get(key string) (any, bool)
	Delete(key string) error
	Clear() error
}

// InMemoryStore is a process-local Store guarded by a RWMutex. Suitable for
// tests and single-process deployments; swap for a durable backend in
// production.
type InMemoryStore struct {
	mu      sync.RWMutex
	storage map[string]any
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{storage: map[string]any{}}
}

// Put stores value under key, replacing any previous value.
func (s *InMemoryStore) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[key] = value
	return nil
}

// Get returns the value stored under key.
func (s *InMemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.storage[key]
	return v, ok
}

// Delete removes the value stored under key. Deleting a missing key is a
// no-op.
func (s *InMemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.storage, key)
	return nil
}

// Clear removes every stored value.
func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage = map[string]any{}
	return nil
}

// Len reports the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.storage)
}
