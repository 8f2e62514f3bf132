package lzz

import "testing"

func TestElfHashEmpty(t *testing.T) {
	if got := elfHash(0, nil); got != 0 {
		t.Fatalf("elfHash(0, nil) = %#x, want 0", got)
	}
}

func TestElfHashDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	h1 := elfHash(0, data)
	h2 := elfHash(0, data)
	if h1 != h2 {
		t.Fatalf("elfHash not deterministic: %#x != %#x", h1, h2)
	}
}

func TestElfHashCarriesAcrossCalls(t *testing.T) {
	data := []byte("archive payload bytes, more than sixteen of them")
	whole := elfHash(0, data)
	mid := len(data) / 2
	split := elfHash(elfHash(0, data[:mid]), data[mid:])
	if whole != split {
		t.Fatalf("splitting the input changed the hash: %#x != %#x", whole, split)
	}
}

func TestElfHashTopNibbleAlwaysClear(t *testing.T) {
	// Regardless of input, the top four bits of the running state must
	// never be set: the conditional xor only ever moves bits 28-31 down
	// into bits 4-7 before they are unconditionally cleared.
	h := uint32(0)
	for i := 0; i < 256; i++ {
		h = elfHash(h, []byte{byte(i)})
		if h&0xF0000000 != 0 {
			t.Fatalf("elfHash state %#x has top nibble set after byte %d", h, i)
		}
	}
}
