package trie

import (
	"bytes"
	"sort"

	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// KeyValue is one entry of a trie content set.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// DeriveRoot computes the root digest of the trie containing exactly the
// given pairs, without a store and without running the mutation engine.
// Later duplicates of a key win. It is the reference against which the
// mutation engine's order independence is checked.
func DeriveRoot(pairs []KeyValue) types.Hash {
	type entry struct {
		path  []byte // 64 nibbles, one per byte
		value []byte
	}
	byPath := make(map[types.Hash]entry, len(pairs))
	for _, kv := range pairs {
		hash := crypto.Blake256Hash(kv.Key)
		byPath[hash] = entry{path: NewNibbleSlice(hash.Bytes()).ToNibbles(), value: kv.Value}
	}
	if len(byPath) == 0 {
		return EmptyRoot
	}
	entries := make([]entry, 0, len(byPath))
	for _, e := range byPath {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].path, entries[j].path) < 0
	})

	var build func(pos int, items []entry) types.Hash
	build = func(pos int, items []entry) types.Hash {
		if len(items) == 1 {
			packed, offset := packNibbles(items[0].path[pos:])
			leaf := &Leaf{Path: NewNibbleSliceOffset(packed, offset), Value: items[0].value}
			return crypto.Blake256Hash(encodeNode(leaf))
		}
		// Shared head of all paths from pos; items are sorted, so the
		// first and last bound it.
		first, last := items[0].path[pos:], items[len(items)-1].path[pos:]
		common := 0
		for common < len(first) && first[common] == last[common] {
			common++
		}
		n := &Branch{}
		packed, offset := packNibbles(first[:common])
		n.Path = NewNibbleSliceOffset(packed, offset)
		for lo := 0; lo < len(items); {
			nib := items[lo].path[pos+common]
			hi := lo
			for hi < len(items) && items[hi].path[pos+common] == nib {
				hi++
			}
			h := build(pos+common+1, items[lo:hi])
			n.Children[nib] = &h
			lo = hi
		}
		return crypto.Blake256Hash(encodeNode(n))
	}
	return build(0, entries)
}
