package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// FileStore is the default Store implementation: one JSON file per
// storage key inside a cache directory, surviving process restarts and
// local to one machine.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	log.Printf("[FileStore] Initialized with directory: %s", dir)
	return &FileStore{dir: dir}, nil
}

// path maps a storage key to its file. Keys come from the fixed registry
// (namespace + slot name), so they are always safe as file names.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get retrieves a payload by key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return payload, nil
}

// Set stores a payload under key. The payload is written to a temp file
// and renamed into place so an interrupted write never truncates the
// previous entry. ttl is ignored; the cache enforces expiry lazily.
func (s *FileStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store cache file: %w", err)
	}
	return nil
}

// Delete removes a payload by key. Deleting an absent key is not an
// error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)
