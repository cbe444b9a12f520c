package trie

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/kseo/go-merkle-trie/core/types"
)

// cacheSize bounds the per-trie node cache, in entries.
const cacheSize = 3000

// CacheStats holds node cache performance counters.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// nodeCache is a bounded LRU cache from node digest to serialized node
// bytes. It fronts the store on the mutation read path and is populated on
// every node write. It is never authoritative: content addressing makes
// digest to bytes a pure function, so a hit can never be stale.
type nodeCache struct {
	inner  *lru.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

func newNodeCache(size int) *nodeCache {
	inner, _ := lru.New(size)
	return &nodeCache{inner: inner}
}

func (c *nodeCache) get(hash types.Hash) ([]byte, bool) {
	v, ok := c.inner.Get(hash)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v.([]byte), true
}

func (c *nodeCache) add(hash types.Hash, data []byte) {
	c.inner.Add(hash, data)
}

func (c *nodeCache) stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.inner.Len(),
	}
}
