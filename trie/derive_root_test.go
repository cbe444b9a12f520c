package trie

import (
	"testing"

	"github.com/kseo/go-merkle-trie/core/types"
)

func TestDeriveRootEmpty(t *testing.T) {
	if got := DeriveRoot(nil); got != EmptyRoot {
		t.Fatalf("DeriveRoot(nil) = %s, want EmptyRoot", got.Hex())
	}
}

func TestDeriveRootDuplicateKeysLastWins(t *testing.T) {
	key := []byte{0x01, 0x23}
	got := DeriveRoot([]KeyValue{
		{key, []byte{0xaa}},
		{key, []byte{0xbb}},
	})
	want := DeriveRoot([]KeyValue{{key, []byte{0xbb}}})
	if got != want {
		t.Fatalf("duplicate-key root = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestDeriveRootMatchesMutationEngine(t *testing.T) {
	seed := types.Hash{}
	pairs := stressMap.make(&seed)

	db := NewMemoryDB()
	var root types.Hash
	tr := populateTrie(t, db, &root, pairs)
	if want := DeriveRoot(pairs); tr.Root() != want {
		t.Fatalf("engine root = %s, reference = %s", tr.Root().Hex(), want.Hex())
	}
}
