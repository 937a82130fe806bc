package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"eduseva-cli/internal/auth"
	"eduseva-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestSessionSaveLoad(t *testing.T) {
	m := auth.NewManager(sessionPath(t))

	require.NoError(t, m.Save(&model.Session{Token: "esk_abc123", Email: "student@example.com"}))

	session, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "esk_abc123", session.Token)
	assert.Equal(t, "student@example.com", session.Email)
	assert.False(t, session.CreatedAt.IsZero())
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestSessionLoadAbsent(t *testing.T) {
	m := auth.NewManager(sessionPath(t))

	_, err := m.Load()
	assert.ErrorIs(t, err, auth.ErrNoSession)
	assert.Empty(t, m.Token())
}

func TestSessionExpired(t *testing.T) {
	path := sessionPath(t)
	m := auth.NewManager(path)

	require.NoError(t, m.Save(&model.Session{
		Token:     "esk_old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	_, err := m.Load()
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	// The expired session file is removed on load.
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSessionCorruptFile(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	m := auth.NewManager(path)
	_, err := m.Load()
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestSessionClear(t *testing.T) {
	m := auth.NewManager(sessionPath(t))

	require.NoError(t, m.Save(&model.Session{Token: "esk_abc"}))
	require.NoError(t, m.Clear())

	_, err := m.Load()
	assert.ErrorIs(t, err, auth.ErrNoSession)

	// Clearing twice is fine.
	assert.NoError(t, m.Clear())
}

func TestSessionFilePermissions(t *testing.T) {
	path := sessionPath(t)
	m := auth.NewManager(path)

	require.NoError(t, m.Save(&model.Session{Token: "esk_abc"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestValidFormat(t *testing.T) {
	assert.True(t, auth.ValidFormat("esk_abc123"))
	assert.False(t, auth.ValidFormat("abc123"))
	assert.False(t, auth.ValidFormat("esk_"))
	assert.False(t, auth.ValidFormat(""))
}
