package lzz

import "testing"

func TestHashChunksSelectors(t *testing.T) {
	cases := []struct {
		selector   byte
		wantChunks int
		wantOK     bool
	}{
		{hashSHA256, 8, true},
		{hashSHA512, 16, true},
		{0, 0, false},
		{3, 0, false},
		{255, 0, false},
	}
	for _, c := range cases {
		chunks, ok := hashChunks(c.selector)
		if ok != c.wantOK || (ok && chunks != c.wantChunks) {
			t.Fatalf("hashChunks(%d) = (%d, %v), want (%d, %v)",
				c.selector, chunks, ok, c.wantChunks, c.wantOK)
		}
	}
}

// TestHashChunksSelectorsIndependentBranches guards against the corrected
// bug: selector 1 and selector 2 must resolve to genuinely different chunk
// counts, not both fall through to the SHA-256 branch.
func TestHashChunksSelectorsIndependentBranches(t *testing.T) {
	c256, _ := hashChunks(hashSHA256)
	c512, _ := hashChunks(hashSHA512)
	if c256 == c512 {
		t.Fatalf("selector 1 and selector 2 resolved to the same chunk count %d", c256)
	}
}

func TestMarkerHeaderRoundTrip(t *testing.T) {
	h := makeMarkerHeader(0x00ABCDEF & 0xFFFFFF)
	if h.typ() != chunkMarker {
		t.Fatalf("typ() = %d, want chunkMarker", h.typ())
	}
	if got, want := h.markerID(), uint32(0x00ABCDEF&0xFFFFFF); got != want {
		t.Fatalf("markerID() = %#x, want %#x", got, want)
	}
}

func TestTagHeaderRoundTrip(t *testing.T) {
	h := makeTagHeader(5, 12, 0x42)
	n, v := h.tagLens()
	if n != 5 || v != 12 {
		t.Fatalf("tagLens() = (%d, %d), want (5, 12)", n, v)
	}
}

func TestCustomInfoHeaderRoundTrip(t *testing.T) {
	h := makeCustomInfoHeader(0x90, 2000)
	if got := h.infoCustomLen(); got != 2000 {
		t.Fatalf("infoCustomLen() = %d, want 2000", got)
	}
}

func TestDataHeaderRoundTrip(t *testing.T) {
	h := makeDataHeader(dataCodeLine, 300)
	if h.dataSubtype() != dataCodeLine {
		t.Fatalf("dataSubtype() = %d, want dataCodeLine", h.dataSubtype())
	}
	if got := h.dataByteLen(); got != 300 {
		t.Fatalf("dataByteLen() = %d, want 300", got)
	}
}

func TestStopHeaderIsExact(t *testing.T) {
	want := chunkHeader{4, 0, 0, 0}
	if stopHeader != want {
		t.Fatalf("stopHeader = %v, want %v", stopHeader, want)
	}
}
