package trie

import (
	"bytes"
	"testing"

	"github.com/kseo/go-merkle-trie/crypto"
)

func TestNodeCacheHitMiss(t *testing.T) {
	c := newNodeCache(16)
	hash := crypto.Blake256Hash([]byte("n"))

	if _, ok := c.get(hash); ok {
		t.Fatal("hit on empty cache")
	}
	c.add(hash, []byte("encoded"))
	got, ok := c.get(hash)
	if !ok || !bytes.Equal(got, []byte("encoded")) {
		t.Fatalf("get = (%x, %v)", got, ok)
	}

	stats := c.stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestNodeCacheBounded(t *testing.T) {
	c := newNodeCache(4)
	for i := 0; i < 32; i++ {
		c.add(crypto.Blake256Hash([]byte{byte(i)}), []byte{byte(i)})
	}
	if got := c.stats().Entries; got > 4 {
		t.Fatalf("cache holds %d entries, cap 4", got)
	}
	// Most recently added entries survive.
	if _, ok := c.get(crypto.Blake256Hash([]byte{31})); !ok {
		t.Fatal("most recent entry evicted")
	}
}
