package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"eduseva-cli/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "eduseva_summary", []byte(`{"data":"x","writtenAt":1}`), 0))

	payload, err := store.Get(ctx, "eduseva_summary")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"x","writtenAt":1}`, string(payload))

	require.NoError(t, store.Delete(ctx, "eduseva_summary"))

	_, err = store.Get(ctx, "eduseva_summary")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	// Deleting an absent key is fine.
	assert.NoError(t, store.Delete(ctx, "eduseva_summary"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := cache.NewFileStore(dir)
	require.NoError(t, err)

	c := cache.New(first, "")
	c.Set(ctx, cache.KeyFlashcards, artifact{Title: "cards", Count: 3}, 0)
	require.NoError(t, first.Close())

	// A fresh store over the same directory sees the entry, like a new
	// process run would.
	second, err := cache.NewFileStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var got artifact
	require.True(t, cache.New(second, "").Get(ctx, cache.KeyFlashcards, &got))
	assert.Equal(t, "cards", got.Title)
	assert.Equal(t, 3, got.Count)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	store, err := cache.NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreCorruptFileReadsAsMissViaCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := cache.NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	// Simulate a truncated write from a previous run.
	path := filepath.Join(dir, "eduseva_quiz.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":`), 0o644))

	c := cache.New(store, "")
	var got artifact
	assert.False(t, c.Get(ctx, cache.KeyQuiz, &got))

	// The corrupt file is gone after being read.
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", []byte("one"), 0))
	require.NoError(t, store.Set(ctx, "k", []byte("two"), 0))

	payload, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(payload))
}
