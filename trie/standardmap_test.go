package trie

import (
	"encoding/binary"

	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// standardMap generates deterministic pseudo-random key/value corpora for
// the stress tests, in the manner of the alphabet-restricted standard maps
// the reference implementation is exercised with. Randomness is a BLAKE2b
// chain over the seed, so runs are reproducible.
type standardMap struct {
	alphabet []byte
	minKey   int
	count    int
}

var stressMap = standardMap{
	alphabet: []byte("@QWERTYUIOPASDFGHJKLZXCVBNM[/]^_"),
	minKey:   5,
	count:    100,
}

// make builds the corpus and advances the seed, so successive calls yield
// distinct corpora.
func (m standardMap) make(seed *types.Hash) []KeyValue {
	state := *seed
	next := func() byte {
		state = crypto.Blake256Hash(state.Bytes())
		return state[0]
	}

	pairs := make([]KeyValue, m.count)
	for i := range pairs {
		keyLen := m.minKey + int(next())%4
		key := make([]byte, keyLen)
		for j := range key {
			key[j] = m.alphabet[int(next())%len(m.alphabet)]
		}
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, uint64(i+1))
		pairs[i] = KeyValue{Key: key, Value: value}
	}
	*seed = state
	return pairs
}
