package storage

import (
	"context"
	"sync"
)

// memoryStore keeps documents in process memory. It backs the session
// scope when Redis is disabled and isolates tests from real backends.
type memoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	s.mu.Lock()
	s.docs[key] = buf
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}
