package trie

import (
	"sync"

	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// HashStore is a content-addressed, reference-counted byte store. The digest
// of an entry is the BLAKE2b-256 hash of its bytes, the same function that
// hashes user keys.
type HashStore interface {
	// Put stores data and returns its digest. Putting equal bytes again
	// returns the same digest and bumps the entry's reference count.
	Put(data []byte) types.Hash

	// Get retrieves the bytes stored under the digest.
	Get(hash types.Hash) ([]byte, bool)

	// Contains reports whether the digest is live in the store.
	Contains(hash types.Hash) bool

	// Remove drops one reference to the digest. An entry whose count
	// reaches zero is dead: unreadable, but retained until a purge.
	Remove(hash types.Hash)
}

// MemoryDB is the in-memory reference implementation of HashStore. All
// methods are safe for concurrent use.
type MemoryDB struct {
	mu      sync.RWMutex
	entries map[types.Hash]*memEntry
	size    int64 // total tracked data size in bytes
}

type memEntry struct {
	data []byte
	refs int64
}

// NewMemoryDB creates an empty in-memory store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{entries: make(map[types.Hash]*memEntry)}
}

// Put stores data under its digest, incrementing the reference count if the
// entry already exists.
func (db *MemoryDB) Put(data []byte) types.Hash {
	hash := crypto.Blake256Hash(data)
	db.mu.Lock()
	defer db.mu.Unlock()
	if e, ok := db.entries[hash]; ok {
		e.refs++
		return hash
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	db.entries[hash] = &memEntry{data: stored, refs: 1}
	db.size += int64(len(stored))
	return hash
}

// Get retrieves the bytes stored under the digest.
func (db *MemoryDB) Get(hash types.Hash) ([]byte, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.entries[hash]
	if !ok || e.refs <= 0 {
		return nil, false
	}
	return e.data, true
}

// Contains reports whether the digest is live in the store.
func (db *MemoryDB) Contains(hash types.Hash) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.entries[hash]
	return ok && e.refs > 0
}

// Remove drops one reference. The entry stays tracked until Purge so that
// bookkeeping survives interleaved re-puts of the same bytes.
func (db *MemoryDB) Remove(hash types.Hash) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e, ok := db.entries[hash]; ok {
		e.refs--
	}
}

// Purge erases every entry whose reference count has dropped to zero.
// Returns the number of entries removed and the total bytes freed.
func (db *MemoryDB) Purge() (int, int64) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var removed int
	var freed int64
	for h, e := range db.entries {
		if e.refs <= 0 {
			freed += int64(len(e.data))
			db.size -= int64(len(e.data))
			delete(db.entries, h)
			removed++
		}
	}
	return removed, freed
}

// Len returns the number of tracked entries, dead ones included.
func (db *MemoryDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.entries)
}

// Size returns the total tracked data size in bytes.
func (db *MemoryDB) Size() int64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.size
}
