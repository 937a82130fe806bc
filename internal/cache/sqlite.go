package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements Store using SQLite. Useful when several tools
// on one machine share a cache, or when the entry count outgrows
// one-file-per-key. Thread-safe with WAL mode for high-concurrency reads.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a SQLite-backed store.
// dbPath is the path to the SQLite database file (e.g., "./cache/eduseva.db")
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Open with WAL mode and other optimizations
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite connection pool settings
	db.SetMaxOpenConns(1) // SQLite only supports 1 writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // Keep connection alive

	// Create table if not exists
	if err := createCacheTable(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// createCacheTable creates the cache entries table.
func createCacheTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		storage_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cache_updated_at ON cache_entries(updated_at);
	`
	_, err := db.Exec(query)
	return err
}

// Get retrieves a payload by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT payload FROM cache_entries WHERE storage_key = ?`

	var payload string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return []byte(payload), nil
}

// Set inserts or updates a payload. ttl is ignored; the cache enforces
// expiry lazily from the entry envelope.
func (s *SQLiteStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO cache_entries (storage_key, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(storage_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = datetime('now')`

	_, err := s.db.ExecContext(ctx, query, key, string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// Delete removes a payload by key. Deleting an absent key is not an
// error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM cache_entries WHERE storage_key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
