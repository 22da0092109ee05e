// ABOUTME: Per-collection layout cache keyed by data snapshot
// ABOUTME: Keeps the non-deterministic projection stable across re-renders of unchanged data
package projector

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
)

// LayoutCache remembers the last computed layout per collection. Because
// projection is not deterministic, re-rendering the same snapshot must
// reuse the previous run rather than re-invoke the algorithm; the cache
// invalidates itself when the id set or any embedding changes.
type LayoutCache struct {
	mu      sync.Mutex
	layouts map[string]cachedLayout
}

type cachedLayout struct {
	key    uint64
	placed []Placed
}

// NewLayoutCache creates an empty LayoutCache
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{layouts: make(map[string]cachedLayout)}
}

// SnapshotKey hashes the id set and embedding contents of a projection
// input. Two inputs share a key iff their ids and vectors match in order.
func SnapshotKey(items []Item) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, item := range items {
		_, _ = h.Write([]byte(item.ID))
		_, _ = h.Write([]byte{0})
		for _, v := range item.Embedding {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
		_, _ = h.Write([]byte{0xff})
	}
	return h.Sum64()
}

// Lookup returns the cached layout for a collection if the snapshot key
// still matches
func (c *LayoutCache) Lookup(collection string, key uint64) ([]Placed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.layouts[collection]
	if !ok || cached.key != key {
		return nil, false
	}
	out := make([]Placed, len(cached.placed))
	copy(out, cached.placed)
	return out, true
}

// Store caches a layout for a collection, replacing any previous
// snapshot. Stale snapshots need no explicit invalidation: a changed id
// set or embedding yields a different key and misses the cache.
func (c *LayoutCache) Store(collection string, key uint64, placed []Placed) {
	own := make([]Placed, len(placed))
	copy(own, placed)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts[collection] = cachedLayout{key: key, placed: own}
}
