// Command triebench populates an in-memory trie with generated key/value
// pairs, reports the root and timings, then depopulates and verifies the
// trie returns to the empty root.
//
// Usage:
//
//	triebench [flags]
//
// Flags:
//
//	-n         Number of key/value pairs (default: 10000)
//	-keysize   Generated key size in bytes (default: 32)
//	-valsize   Generated value size in bytes (default: 64)
//	-seed      Generator seed (default: 1)
//	-loglevel  Log verbosity: debug, info, warn, error (default: "info")
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
	"github.com/kseo/go-merkle-trie/log"
	"github.com/kseo/go-merkle-trie/trie"
)

func main() {
	os.Exit(run())
}

// run is the actual entry point, returning an exit code. This pattern
// makes it easy to test the binary without calling os.Exit directly.
func run() int {
	var (
		n        = flag.Int("n", 10000, "number of key/value pairs")
		keySize  = flag.Int("keysize", 32, "generated key size in bytes")
		valSize  = flag.Int("valsize", 64, "generated value size in bytes")
		seed     = flag.Int64("seed", 1, "generator seed")
		logLevel = flag.String("loglevel", "info", "log verbosity (debug, info, warn, error)")
	)
	flag.Parse()

	logger := log.New(log.ParseLevel(*logLevel)).Module("triebench")

	pairs := generate(*n, *keySize, *valSize, *seed)
	db := trie.NewMemoryDB()

	var root types.Hash
	tr := trie.New(db, &root)

	start := time.Now()
	for _, kv := range pairs {
		if _, err := tr.Insert(kv.Key, kv.Value); err != nil {
			logger.Error("insert failed", "err", err)
			return 1
		}
	}
	populate := time.Since(start)
	logger.Info("populated", "pairs", *n, "root", tr.Root().Hex(), "elapsed", populate.String(),
		"nodes", db.Len(), "bytes", db.Size())

	if ref := trie.DeriveRoot(pairs); ref != tr.Root() {
		logger.Error("root mismatch against reference", "got", tr.Root().Hex(), "want", ref.Hex())
		return 1
	}

	start = time.Now()
	for _, kv := range pairs {
		got, err := tr.Get(kv.Key)
		if err != nil {
			logger.Error("get failed", "err", err)
			return 1
		}
		if got == nil {
			logger.Error("missing key after populate", "key", fmt.Sprintf("%x", kv.Key))
			return 1
		}
	}
	logger.Info("read back", "pairs", *n, "elapsed", time.Since(start).String())

	start = time.Now()
	for _, kv := range pairs {
		if _, err := tr.Remove(kv.Key); err != nil {
			logger.Error("remove failed", "err", err)
			return 1
		}
	}
	logger.Info("depopulated", "pairs", *n, "elapsed", time.Since(start).String(),
		"cache", fmt.Sprintf("%+v", tr.CacheStats()))

	removed, freed := db.Purge()
	logger.Info("purged dead store entries", "entries", removed, "bytes", freed,
		"remaining", db.Len())

	if !tr.IsEmpty() {
		logger.Error("trie not empty after depopulation", "root", tr.Root().Hex())
		return 1
	}
	return 0
}

// generate builds a deterministic key/value corpus by chaining BLAKE2b
// over the seed.
func generate(n, keySize, valSize int, seed int64) []trie.KeyValue {
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], uint64(seed))
	state := crypto.Blake256(counter[:])

	expand := func(size int, domain byte) []byte {
		out := make([]byte, 0, size)
		for len(out) < size {
			state = crypto.Blake256(state, []byte{domain})
			out = append(out, state...)
		}
		return out[:size]
	}

	pairs := make([]trie.KeyValue, n)
	for i := range pairs {
		pairs[i] = trie.KeyValue{
			Key:   expand(keySize, 'k'),
			Value: expand(valSize, 'v'),
		}
	}
	return pairs
}
