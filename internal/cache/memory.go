package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store. Nothing survives
// the process, so it is only suitable for tests and throwaway runs.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

// Get retrieves a payload by key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, exists := s.payloads[key]
	if !exists {
		return nil, ErrCacheMiss
	}

	result := make([]byte, len(payload))
	copy(result, payload)
	return result, nil
}

// Set stores a payload under key. ttl is ignored; the cache enforces
// expiry lazily on read.
func (s *MemoryStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)
	s.payloads[key] = payloadCopy
	return nil
}

// Delete removes a payload by key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.payloads, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
