package study

import (
	"context"
	"log"
	"sync"
	"time"

	"eduseva-cli/internal/cache"

	"golang.org/x/sync/singleflight"
)

// controller drives one feature through its lifecycle: check the cache
// and fall back to a generation call, remembering the result. It is
// generic over the artifact type so every feature shares the same flow.
type controller[T any] struct {
	name  string
	key   cache.Key
	cache *cache.Cache
	ttl   time.Duration
	fetch func(ctx context.Context) (T, error)

	// empty reports whether an artifact carries no content. A slot
	// holding an empty artifact counts as a miss, never as a hit.
	empty func(T) bool

	group singleflight.Group

	mu    sync.Mutex
	state State
	value T
	err   error
}

func newController[T any](name string, key cache.Key, c *cache.Cache, ttl time.Duration, fetch func(ctx context.Context) (T, error), empty func(T) bool) *controller[T] {
	return &controller[T]{
		name:  name,
		key:   key,
		cache: c,
		ttl:   ttl,
		fetch: fetch,
		empty: empty,
	}
}

// State returns the current lifecycle state.
func (c *controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure behind StateError, nil otherwise.
func (c *controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Value returns the loaded artifact, if any.
func (c *controller[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.state == StateReady
}

// Load returns the artifact, producing it only when necessary. Checks
// memory first, then the cache, then generates. Only a non-empty cache
// hit short-circuits the network call.
func (c *controller[T]) Load(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.state == StateReady {
		value := c.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	var cached T
	if c.cache.Get(ctx, c.key, &cached) && !c.empty(cached) {
		c.mu.Lock()
		c.state, c.value, c.err = StateReady, cached, nil
		c.mu.Unlock()
		log.Printf("[%s] Loaded from cache", c.name)
		return cached, nil
	}

	return c.refresh(ctx)
}

// Regenerate produces a fresh artifact, ignoring anything cached, and
// overwrites the cache slot with the result.
func (c *controller[T]) Regenerate(ctx context.Context) (T, error) {
	return c.refresh(ctx)
}

// refresh generates the artifact. Concurrent callers share one request.
func (c *controller[T]) refresh(ctx context.Context) (T, error) {
	result, err, _ := c.group.Do(string(c.key), func() (any, error) {
		c.mu.Lock()
		c.state = StateLoading
		c.err = nil
		c.mu.Unlock()

		value, err := c.fetch(ctx)
		if err != nil {
			c.mu.Lock()
			c.state = StateError
			c.err = err
			c.mu.Unlock()
			return nil, err
		}

		// Cache write is best-effort; a failed write only costs a
		// regeneration next run.
		c.cache.Set(ctx, c.key, value, c.ttl)

		c.mu.Lock()
		c.state = StateReady
		c.value = value
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate drops the cached artifact and resets to StateEmpty.
func (c *controller[T]) Invalidate(ctx context.Context) {
	c.cache.Remove(ctx, c.key)

	c.mu.Lock()
	var zero T
	c.state, c.value, c.err = StateEmpty, zero, nil
	c.mu.Unlock()
}
