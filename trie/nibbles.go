// Package trie implements a mutable, content-addressed Merkle Patricia trie
// over a hash-addressed byte store. Every key is hashed to a fixed 64-nibble
// path; the whole mapping is summarized by a single 32-byte root digest that
// is independent of insertion order.
package trie

// NibbleSlice is a read-only view of a byte buffer as a sequence of 4-bit
// nibbles. The view carries a start offset and a length in nibbles, so any
// suffix or prefix of a path is representable without copying the buffer.
type NibbleSlice struct {
	data   []byte
	offset int // start position, in nibbles from the beginning of data
	length int // number of nibbles in view
}

// NewNibbleSlice returns a view over the whole buffer.
func NewNibbleSlice(data []byte) NibbleSlice {
	return NibbleSlice{data: data, length: 2 * len(data)}
}

// NewNibbleSliceOffset returns a view starting at the given nibble offset
// and extending to the end of the buffer.
func NewNibbleSliceOffset(data []byte, offset int) NibbleSlice {
	return NibbleSlice{data: data, offset: offset, length: 2*len(data) - offset}
}

// Len returns the number of nibbles in the view.
func (s NibbleSlice) Len() int { return s.length }

// At returns the i-th nibble. Indexing past the view length is a
// programming error and panics.
func (s NibbleSlice) At(i int) byte {
	if i < 0 || i >= s.length {
		panic("trie: nibble index out of range")
	}
	pos := s.offset + i
	b := s.data[pos/2]
	if pos&1 == 0 {
		return b >> 4
	}
	return b & 0x0f
}

// Mid returns a view of the same buffer with the first n nibbles dropped.
func (s NibbleSlice) Mid(n int) NibbleSlice {
	if n > s.length {
		panic("trie: mid past end of nibble slice")
	}
	return NibbleSlice{data: s.data, offset: s.offset + n, length: s.length - n}
}

// Prefix returns a view of the first n nibbles.
func (s NibbleSlice) Prefix(n int) NibbleSlice {
	if n > s.length {
		panic("trie: prefix past end of nibble slice")
	}
	return NibbleSlice{data: s.data, offset: s.offset, length: n}
}

// CommonPrefix returns the length of the longest shared prefix of s and other.
func (s NibbleSlice) CommonPrefix(other NibbleSlice) int {
	n := s.length
	if other.length < n {
		n = other.length
	}
	for i := 0; i < n; i++ {
		if s.At(i) != other.At(i) {
			return i
		}
	}
	return n
}

// StartsWith reports whether other is a prefix of s.
func (s NibbleSlice) StartsWith(other NibbleSlice) bool {
	return s.length >= other.length && s.CommonPrefix(other) == other.length
}

// Equal reports whether the two views describe the same nibble sequence,
// regardless of buffer alignment.
func (s NibbleSlice) Equal(other NibbleSlice) bool {
	return s.length == other.length && s.CommonPrefix(other) == s.length
}

// ToNibbles materializes the view as one nibble per byte.
func (s NibbleSlice) ToNibbles() []byte {
	out := make([]byte, s.length)
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

// Pack materializes the view two nibbles per byte, returning the packed
// buffer and the offset of the first valid nibble within its first byte.
// Odd-length sequences leave the high nibble of the first byte unused.
func (s NibbleSlice) Pack() ([]byte, int) {
	return packNibbles(s.ToNibbles())
}

// packNibbles packs a one-nibble-per-byte sequence right-aligned: for an odd
// count the first nibble lands in the low half of the first byte.
func packNibbles(nibbles []byte) ([]byte, int) {
	offset := len(nibbles) & 1
	out := make([]byte, (len(nibbles)+1)/2)
	for i, n := range nibbles {
		pos := offset + i
		if pos&1 == 0 {
			out[pos/2] |= n << 4
		} else {
			out[pos/2] |= n & 0x0f
		}
	}
	return out, offset
}
