package trie

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// Canonical node encoding. A node is an RLP list of byte strings:
//
//	leaf   => [encodedPath, value]              (2 elements)
//	branch => [encodedPath, child0 .. child15]  (17 elements)
//
// The variant is discriminated by list length. An absent child is the empty
// string; a present child is its 32-byte digest. The path is packed two
// nibbles per byte behind a flag byte: bit 4 marks an odd nibble count, in
// which case the low half of the flag byte carries the first nibble.

const oddPathFlag = 0x10

// emptyRLP is the canonical encoding of the empty byte sequence (0x80).
var emptyRLP = func() []byte {
	b, _ := rlp.EncodeToBytes([]byte{})
	return b
}()

// EmptyRoot is the digest of an empty trie: the hash of the canonical
// encoding of the empty byte sequence.
var EmptyRoot = crypto.Blake256Hash(emptyRLP)

// encodePath packs a nibble sequence into the flagged byte form.
func encodePath(path NibbleSlice) []byte {
	buf := make([]byte, path.Len()/2+1)
	i := 0
	if path.Len()&1 == 1 {
		buf[0] = oddPathFlag | path.At(0)
		i = 1
	}
	for bi := 1; i < path.Len(); bi, i = bi+1, i+2 {
		buf[bi] = path.At(i)<<4 | path.At(i+1)
	}
	return buf
}

// decodePath is the inverse of encodePath. The returned slice views the
// input buffer; no copy is made.
func decodePath(b []byte) (NibbleSlice, bool) {
	if len(b) == 0 || b[0]&^(oddPathFlag|0x0f) != 0 {
		return NibbleSlice{}, false
	}
	if b[0]&oddPathFlag != 0 {
		return NewNibbleSliceOffset(b, 1), true
	}
	if b[0]&0x0f != 0 {
		// Padding nibble of an even-length path must be zero.
		return NibbleSlice{}, false
	}
	return NewNibbleSliceOffset(b, 2), true
}

// encodeNode serializes a node to its canonical byte form.
func encodeNode(n Node) []byte {
	return encodeNodeTruncated(n, n.Partial().Len())
}

// encodeNodeTruncated serializes a node with its prefix truncated to the
// first k nibbles. Splitting uses it to emit a branch whose effective prefix
// is the shared head of the colliding paths without rebuilding the node.
func encodeNodeTruncated(n Node, k int) []byte {
	switch n := n.(type) {
	case *Leaf:
		enc, err := rlp.EncodeToBytes([][]byte{encodePath(n.Path.Prefix(k)), n.Value})
		if err != nil {
			panic("trie: leaf encoding failed: " + err.Error())
		}
		return enc
	case *Branch:
		elems := make([][]byte, 17)
		elems[0] = encodePath(n.Path.Prefix(k))
		for i, child := range n.Children {
			if child != nil {
				elems[i+1] = child.Bytes()
			}
		}
		enc, err := rlp.EncodeToBytes(elems)
		if err != nil {
			panic("trie: branch encoding failed: " + err.Error())
		}
		return enc
	default:
		panic("trie: unknown node variant")
	}
}

// decodeNode parses a canonical node encoding. It returns nil for anything
// malformed, including the canonical empty sequence.
func decodeNode(data []byte) Node {
	var elems [][]byte
	if err := rlp.DecodeBytes(data, &elems); err != nil {
		return nil
	}
	switch len(elems) {
	case 2:
		path, ok := decodePath(elems[0])
		if !ok {
			return nil
		}
		return &Leaf{Path: path, Value: elems[1]}
	case 17:
		path, ok := decodePath(elems[0])
		if !ok {
			return nil
		}
		n := &Branch{Path: path}
		for i := 0; i < 16; i++ {
			ref := elems[i+1]
			switch len(ref) {
			case 0:
			case types.HashLength:
				h := types.BytesToHash(ref)
				n.Children[i] = &h
			default:
				return nil
			}
		}
		return n
	default:
		return nil
	}
}
