// Package dedup provides the content-addressable cache that suppresses
// duplicate potion submissions.
//
// Only potions are cached: the codex endpoint merges ingredient and
// processed-ingredient submissions by identity, so the pipeline forwards
// every occurrence of those and relies on the remote upsert. Potions have no
// stable identity beyond their content fingerprint, so identical potions are
// suppressed locally.
//
// The cache is process-lifetime and unbounded by design: the potion space in
// one play session is small, and a long-lived foreground process never needs
// eviction. This is an intentional trade-off, not an oversight.
package dedup

import (
	"sync"

	"github.com/alembic-io/alembic/internal/record"
)

// PotionCache is a thread-safe mapping from fingerprint to the first potion
// record seen with that fingerprint.
type PotionCache struct {
	// potions maps fingerprints to cached potion records
	potions map[string]*record.Potion
	// mutex protects concurrent access from producers and the stats surface
	mutex sync.RWMutex
}

// NewPotionCache creates an empty thread-safe potion cache.
func NewPotionCache() *PotionCache {
	return &PotionCache{
		potions: make(map[string]*record.Potion),
	}
}

// ShouldEnqueue decides whether a record belongs on the delivery queue.
//
// Non-potion records always pass without consulting the cache. A potion
// passes only if its fingerprint has not been seen before, in which case it
// is inserted atomically with the check, so two producers racing on the same
// fingerprint enqueue exactly one record between them.
func (c *PotionCache) ShouldEnqueue(fp string, rec record.Record) bool {
	potion, ok := rec.(*record.Potion)
	if !ok {
		return true
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, seen := c.potions[fp]; seen {
		return false
	}

	c.potions[fp] = potion

	return true
}

// Get retrieves a cached potion by fingerprint. Returns a copy to prevent
// external modification.
func (c *PotionCache) Get(fp string) (*record.Potion, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	potion, ok := c.potions[fp]
	if !ok {
		return nil, false
	}

	potionCopy := *potion

	return &potionCopy, true
}

// Len returns the number of cached potions.
func (c *PotionCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.potions)
}
