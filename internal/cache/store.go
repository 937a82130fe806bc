package cache

import (
	"context"
	"time"
)

// Store is the durable string-keyed medium the cache persists entries in.
// This abstraction allows swapping between the file backend (default),
// SQLite, Redis and the in-memory backend (tests) without changing any
// caller. Implementations hold opaque payload bytes; expiry is enforced
// lazily by Cache on read, though backends may also honor ttl natively
// (Redis does), which only ever turns a would-be-expired hit into an
// earlier miss.
type Store interface {
	// Get retrieves the payload stored under key. Returns ErrCacheMiss if
	// nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under key, overwriting any prior payload.
	// ttl is a hint for backends with native expiry; zero means no expiry.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes the payload stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Common cache errors
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in the store.
	ErrCacheMiss CacheError = "cache miss"
)
