package types

import (
	"bytes"
	"testing"
)

func TestBytesToHash(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02})
	if h[HashLength-1] != 0x02 || h[HashLength-2] != 0x01 {
		t.Fatalf("short input not left-padded: %s", h.Hex())
	}
	if h[0] != 0 {
		t.Fatalf("padding not zero: %s", h.Hex())
	}

	long := make([]byte, HashLength+4)
	for i := range long {
		long[i] = byte(i)
	}
	h = BytesToHash(long)
	if !bytes.Equal(h.Bytes(), long[4:]) {
		t.Fatalf("long input not truncated from the left: %s", h.Hex())
	}
}

func TestHexToHash(t *testing.T) {
	want := "0x00000000000000000000000000000000000000000000000000000000000000ff"
	h := HexToHash("0xff")
	if h.Hex() != want {
		t.Fatalf("hex = %s, want %s", h.Hex(), want)
	}
	if HexToHash("ff") != h {
		t.Fatal("prefixless hex parses differently")
	}
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero hash not zero")
	}
	h[31] = 1
	if h.IsZero() {
		t.Fatal("nonzero hash reported zero")
	}
}
