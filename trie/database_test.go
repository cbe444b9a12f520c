package trie

import (
	"bytes"
	"testing"

	"github.com/kseo/go-merkle-trie/crypto"
)

func TestMemoryDBPutGet(t *testing.T) {
	db := NewMemoryDB()
	data := []byte("node bytes")

	hash := db.Put(data)
	if want := crypto.Blake256Hash(data); hash != want {
		t.Fatalf("digest = %s, want %s", hash.Hex(), want.Hex())
	}
	got, ok := db.Get(hash)
	if !ok || !bytes.Equal(got, data) {
		t.Fatalf("get = (%x, %v)", got, ok)
	}
	if !db.Contains(hash) {
		t.Fatal("contains = false after put")
	}
	if _, ok := db.Get(crypto.Blake256Hash([]byte("other"))); ok {
		t.Fatal("get of absent digest succeeded")
	}
}

func TestMemoryDBPutIsIdempotent(t *testing.T) {
	db := NewMemoryDB()
	data := []byte("same bytes")

	h1 := db.Put(data)
	h2 := db.Put(data)
	if h1 != h2 {
		t.Fatalf("digests differ: %s vs %s", h1.Hex(), h2.Hex())
	}
	if db.Len() != 1 {
		t.Fatalf("len = %d, want 1", db.Len())
	}
}

func TestMemoryDBRefCounting(t *testing.T) {
	db := NewMemoryDB()
	data := []byte("counted")

	hash := db.Put(data)
	db.Put(data) // refs = 2

	db.Remove(hash)
	if !db.Contains(hash) {
		t.Fatal("entry dead while still referenced")
	}
	db.Remove(hash)
	if db.Contains(hash) {
		t.Fatal("entry alive at zero references")
	}
	if _, ok := db.Get(hash); ok {
		t.Fatal("dead entry readable")
	}

	// The dead entry stays tracked until a purge erases it.
	if db.Len() != 1 {
		t.Fatalf("len = %d before purge, want 1", db.Len())
	}
	removed, freed := db.Purge()
	if removed != 1 || freed != int64(len(data)) {
		t.Fatalf("purge = (%d, %d), want (1, %d)", removed, freed, len(data))
	}
	if db.Len() != 0 || db.Size() != 0 {
		t.Fatalf("len = %d, size = %d after purge", db.Len(), db.Size())
	}
	// Removing an absent digest is a no-op.
	db.Remove(hash)
}

func TestMemoryDBPutRevivesDeadEntry(t *testing.T) {
	db := NewMemoryDB()
	data := []byte("revived")

	hash := db.Put(data)
	db.Remove(hash)
	if db.Contains(hash) {
		t.Fatal("entry alive at zero references")
	}

	if again := db.Put(data); again != hash {
		t.Fatalf("re-put digest = %s, want %s", again.Hex(), hash.Hex())
	}
	if !db.Contains(hash) {
		t.Fatal("re-put entry not alive")
	}
	if removed, _ := db.Purge(); removed != 0 {
		t.Fatalf("purge removed %d live entries", removed)
	}
}

func TestMemoryDBStoresCopy(t *testing.T) {
	db := NewMemoryDB()
	data := []byte("mutate me")
	hash := db.Put(data)
	data[0] = 'X'

	got, _ := db.Get(hash)
	if !bytes.Equal(got, []byte("mutate me")) {
		t.Fatalf("stored bytes aliased caller buffer: %q", got)
	}
}
