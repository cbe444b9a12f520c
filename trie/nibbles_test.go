package trie

import (
	"bytes"
	"testing"
)

func TestNibbleSliceBasics(t *testing.T) {
	s := NewNibbleSlice([]byte{0x01, 0x23, 0x45})
	if s.Len() != 6 {
		t.Fatalf("len = %d, want 6", s.Len())
	}
	want := []byte{0x0, 0x1, 0x2, 0x3, 0x4, 0x5}
	for i, n := range want {
		if s.At(i) != n {
			t.Fatalf("at(%d) = %x, want %x", i, s.At(i), n)
		}
	}
}

func TestNibbleSliceMid(t *testing.T) {
	s := NewNibbleSlice([]byte{0x01, 0x23, 0x45})
	m := s.Mid(3)
	if m.Len() != 3 {
		t.Fatalf("mid len = %d, want 3", m.Len())
	}
	if got := m.ToNibbles(); !bytes.Equal(got, []byte{0x3, 0x4, 0x5}) {
		t.Fatalf("mid nibbles = %x", got)
	}
	// Mid of mid keeps indexing into the same buffer.
	if m.Mid(1).At(0) != 0x4 {
		t.Fatalf("mid(1).at(0) = %x, want 4", m.Mid(1).At(0))
	}
	if got := s.Mid(6).Len(); got != 0 {
		t.Fatalf("mid to end len = %d, want 0", got)
	}
}

func TestNibbleSliceCommonPrefix(t *testing.T) {
	a := NewNibbleSlice([]byte{0x01, 0x23, 0x45})
	b := NewNibbleSlice([]byte{0x01, 0x24, 0x45})
	if got := a.CommonPrefix(b); got != 3 {
		t.Fatalf("common prefix = %d, want 3", got)
	}
	if got := a.CommonPrefix(a); got != 6 {
		t.Fatalf("self common prefix = %d, want 6", got)
	}
	if !a.StartsWith(a.Prefix(4)) {
		t.Fatal("a does not start with its own prefix")
	}
	if a.StartsWith(b.Prefix(4)) {
		t.Fatal("a starts with diverging prefix")
	}
}

func TestNibbleSliceEqualIgnoresAlignment(t *testing.T) {
	// 0x2345 starting at nibble 1 of one buffer vs nibble 0 of another.
	a := NewNibbleSliceOffset([]byte{0x02, 0x34, 0x50}, 1).Prefix(4)
	b := NewNibbleSlice([]byte{0x23, 0x45})
	if !a.Equal(b) {
		t.Fatalf("misaligned equal sequences compare unequal: %x vs %x", a.ToNibbles(), b.ToNibbles())
	}
	if a.Equal(b.Mid(1)) {
		t.Fatal("different sequences compare equal")
	}
}

func TestNibbleSlicePack(t *testing.T) {
	cases := []struct {
		nibbles    []byte
		wantBytes  []byte
		wantOffset int
	}{
		{nil, []byte{}, 0},
		{[]byte{0x1, 0x2}, []byte{0x12}, 0},
		{[]byte{0x1, 0x2, 0x3}, []byte{0x01, 0x23}, 1},
		{[]byte{0xf}, []byte{0x0f}, 1},
	}
	for _, c := range cases {
		packed, offset := packNibbles(c.nibbles)
		if !bytes.Equal(packed, c.wantBytes) || offset != c.wantOffset {
			t.Fatalf("pack(%x) = (%x, %d), want (%x, %d)",
				c.nibbles, packed, offset, c.wantBytes, c.wantOffset)
		}
		// Round trip through a view.
		s := NewNibbleSliceOffset(packed, offset)
		if !bytes.Equal(s.ToNibbles(), c.nibbles) && len(c.nibbles) > 0 {
			t.Fatalf("unpack(%x, %d) = %x, want %x", packed, offset, s.ToNibbles(), c.nibbles)
		}
	}
}

func TestNibbleSliceZeroLength(t *testing.T) {
	s := NewNibbleSlice(nil)
	if s.Len() != 0 {
		t.Fatalf("empty slice len = %d", s.Len())
	}
	if !s.Equal(NewNibbleSlice([]byte{}).Prefix(0)) {
		t.Fatal("empty slices unequal")
	}
	if s.CommonPrefix(NewNibbleSlice([]byte{0x12})) != 0 {
		t.Fatal("empty slice shares a prefix")
	}
}
