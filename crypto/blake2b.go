// Package crypto provides the hash primitives used by the trie: BLAKE2b-256
// for both user keys and node digests.
package crypto

import (
	"golang.org/x/crypto/blake2b"

	"github.com/kseo/go-merkle-trie/core/types"
)

// Blake256 calculates the BLAKE2b-256 hash of the given data.
func Blake256(data ...[]byte) []byte {
	d, _ := blake2b.New256(nil)
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Blake256Hash calculates BLAKE2b-256 and returns it as a types.Hash.
func Blake256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Blake256(data...))
}
