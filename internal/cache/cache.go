package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Entry is the persisted envelope for one slot: the artifact payload
// tagged with its write time and optional time-to-live. WrittenAt is
// stamped by the cache at write time, never by callers.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	WrittenAt int64           `json:"writtenAt"`     // epoch milliseconds
	TTL       int64           `json:"ttl,omitempty"` // milliseconds, 0 = never expires
}

// expired reports whether the entry's TTL has elapsed. Entries without a
// TTL never expire by time.
func (e *Entry) expired(now time.Time) bool {
	return e.TTL > 0 && now.UnixMilli()-e.WrittenAt > e.TTL
}

// Cache is a namespaced, optionally time-limited key-value cache for
// JSON-serializable artifacts, layered over an injected Store.
//
// Every operation is best-effort: storage and serialization failures are
// swallowed and logged, never surfaced. Callers must not assume a Set
// persisted, and a corrupt stored value reads back as a plain miss.
type Cache struct {
	store     Store
	namespace string
}

// New creates a cache over store. Storage keys are formed as
// "<namespace>_<slot>"; an empty namespace falls back to DefaultNamespace.
func New(store Store, namespace string) *Cache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Cache{store: store, namespace: namespace}
}

// storageKey maps a registry key to its slot name in the storage medium.
func (c *Cache) storageKey(key Key) string {
	return c.namespace + "_" + string(key)
}

// Set serializes value into an Entry stamped with the current time and
// stores it under key, unconditionally overwriting any prior entry.
// ttl <= 0 stores the entry without time-based expiry.
func (c *Cache) Set(ctx context.Context, key Key, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] set %s: marshal value: %v", key, err)
		return
	}

	entry := Entry{Data: data, WrittenAt: time.Now().UnixMilli()}
	if ttl > 0 {
		entry.TTL = ttl.Milliseconds()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[Cache] set %s: marshal entry: %v", key, err)
		return
	}

	if err := c.store.Set(ctx, c.storageKey(key), payload, ttl); err != nil {
		log.Printf("[Cache] set %s: %v", key, err)
	}
}

// Get loads the entry stored under key into dest and reports whether it
// was a hit. A nil dest checks presence without decoding the payload.
//
// Anything that prevents returning a usable value is a miss: nothing
// stored, a malformed entry, a payload that does not fit dest, or an
// expired entry. Expired and corrupt entries are removed as a side effect
// of the read.
func (c *Cache) Get(ctx context.Context, key Key, dest any) bool {
	payload, err := c.store.Get(ctx, c.storageKey(key))
	if err != nil {
		if err != ErrCacheMiss {
			log.Printf("[Cache] get %s: %v", key, err)
		}
		return false
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		log.Printf("[Cache] get %s: corrupt entry, dropping: %v", key, err)
		c.Remove(ctx, key)
		return false
	}

	if entry.expired(time.Now()) {
		c.Remove(ctx, key)
		return false
	}

	if dest == nil {
		return true
	}

	if err := json.Unmarshal(entry.Data, dest); err != nil {
		log.Printf("[Cache] get %s: corrupt payload, dropping: %v", key, err)
		c.Remove(ctx, key)
		return false
	}

	return true
}

// Has reports whether key currently holds a live entry. It delegates to
// Get, so probing an expired entry evicts it exactly like a read would.
func (c *Cache) Has(ctx context.Context, key Key) bool {
	return c.Get(ctx, key, nil)
}

// Remove deletes one slot. Removing an absent slot is a no-op.
func (c *Cache) Remove(ctx context.Context, key Key) {
	if err := c.store.Delete(ctx, c.storageKey(key)); err != nil && err != ErrCacheMiss {
		log.Printf("[Cache] remove %s: %v", key, err)
	}
}

// Clear removes every slot in the registry, whether or not it was ever
// set. This is the invalidation hook for a new document upload: all
// cached artifacts are scoped to the active document and go stale
// together when it changes.
func (c *Cache) Clear(ctx context.Context) {
	for _, key := range Registry() {
		c.Remove(ctx, key)
	}
	log.Printf("[Cache] cleared all %d slots", len(Registry()))
}

// SlotInfo describes a live cache slot for introspection.
type SlotInfo struct {
	Key       Key
	WrittenAt time.Time
	TTL       time.Duration // 0 = never expires
	Size      int           // payload bytes
}

// Age returns how long ago the slot was written.
func (i SlotInfo) Age() time.Duration {
	return time.Since(i.WrittenAt).Truncate(time.Second)
}

// Stat reports metadata for the entry under key without decoding its
// payload. Expired entries are evicted and reported as absent, same as
// a read.
func (c *Cache) Stat(ctx context.Context, key Key) (SlotInfo, bool) {
	payload, err := c.store.Get(ctx, c.storageKey(key))
	if err != nil {
		if err != ErrCacheMiss {
			log.Printf("[Cache] stat %s: %v", key, err)
		}
		return SlotInfo{}, false
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return SlotInfo{}, false
	}

	if entry.expired(time.Now()) {
		c.Remove(ctx, key)
		return SlotInfo{}, false
	}

	return SlotInfo{
		Key:       key,
		WrittenAt: time.UnixMilli(entry.WrittenAt),
		TTL:       time.Duration(entry.TTL) * time.Millisecond,
		Size:      len(entry.Data),
	}, true
}

// PurgeExpired walks the registry and drops every entry past its TTL,
// returning the number removed. Expiry is normally lazy (enforced on
// read), so slots nobody reads anymore would otherwise linger in the
// storage medium indefinitely.
func (c *Cache) PurgeExpired(ctx context.Context) int {
	purged := 0
	for _, key := range Registry() {
		payload, err := c.store.Get(ctx, c.storageKey(key))
		if err != nil {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			// Corrupt entries are dead weight too.
			c.Remove(ctx, key)
			purged++
			continue
		}

		if entry.expired(time.Now()) {
			c.Remove(ctx, key)
			purged++
		}
	}

	if purged > 0 {
		log.Printf("[Cache] purged %d expired entries", purged)
	}
	return purged
}
