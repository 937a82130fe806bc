package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eduseva-cli/internal/model"
)

const (
	// TokenPrefix is the prefix all EduSeva API tokens carry.
	TokenPrefix = "esk_"

	// DefaultSessionTTL is assumed when the API does not report an expiry.
	DefaultSessionTTL = 30 * 24 * time.Hour
)

var (
	// ErrNoSession indicates no stored session exists.
	ErrNoSession = errors.New("not logged in")

	// ErrSessionExpired indicates the stored session is past its expiry.
	ErrSessionExpired = errors.New("session expired, log in again")
)

// Manager persists the login session in a JSON file. The session lives
// outside the artifact cache on purpose: clearing cached artifacts must
// never log the user out.
type Manager struct {
	path string
}

// NewManager creates a session manager storing its session at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads and validates the stored session. An expired session is
// deleted and reported as ErrSessionExpired.
func (m *Manager) Load() (*model.Session, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt session file is as good as no session.
		log.Printf("[Auth] Discarding unreadable session file: %v", err)
		m.Clear()
		return nil, ErrNoSession
	}

	if session.Token == "" {
		m.Clear()
		return nil, ErrNoSession
	}

	if session.Expired() {
		m.Clear()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Save stores a session, creating the parent directory if needed. The
// file is written with owner-only permissions since it holds the token.
func (m *Manager) Save(session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = session.CreatedAt.Add(DefaultSessionTTL)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	log.Printf("[Auth] Session saved, expires %s", session.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Clear removes the stored session. Clearing an absent session is a
// no-op.
func (m *Manager) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or an empty string when no
// usable session exists. Use Load when the caller needs to distinguish
// expiry from absence.
func (m *Manager) Token() string {
	session, err := m.Load()
	if err != nil {
		return ""
	}
	return session.Token
}

// ValidFormat reports whether a token looks like an EduSeva API token.
// This is a local sanity check only; the API decides whether the token
// actually works.
func ValidFormat(token string) bool {
	return strings.HasPrefix(token, TokenPrefix) && len(token) > len(TokenPrefix)
}
