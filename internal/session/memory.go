package session

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store for tests and
// single-node deployments without Redis. Entries never expire.
type MemoryStore struct {
	mu      sync.Mutex
	answers map[string]map[string]string
	values  map[string]string
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers: make(map[string]map[string]string),
		values:  make(map[string]string),
	}
}

// Answers returns a copy of the answer map stored under key
func (s *MemoryStore) Answers(ctx context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.answers[key]))
	for k, v := range s.answers[key] {
		out[k] = v
	}
	return out, nil
}

// SetAnswer records one answer in the map under key
func (s *MemoryStore) SetAnswer(ctx context.Context, key, questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.answers[key]
	if !ok {
		m = make(map[string]string)
		s.answers[key] = m
	}
	m[questionID] = value
	return nil
}

// Value returns a scalar value and whether it was present
func (s *MemoryStore) Value(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// SetValue stores a scalar value
func (s *MemoryStore) SetValue(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes the given keys from both maps
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.answers, key)
		delete(s.values, key)
	}
	return nil
}
