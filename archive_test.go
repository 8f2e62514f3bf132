package lzz

import (
	"bytes"
	"testing"
)

// canonicalArchive is the canonical 44-byte minimum valid archive: a
// Marker, content-count/total-size/extension Info chunks, an empty title
// Tag, and a Stop.
func canonicalArchive() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x00, // Marker 0
		0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, // Info: content count = 1
		0x02, 0x01, 0x2C, 0x00, 0x00, 0x00, 0x00, 0x00, // Info: total size = 44
		0x02, 0x03, 0x6E, 0x6F, 0x64, 0x61, 0x74, 0x61, // Info: extension = "nodata"
		0x01, 0x05, 0x00, 0x00, 0x74, 0x69, 0x74, 0x6C, 0x65, 0x00, 0x00, 0x00, // Tag: title = ""
		0x04, 0x00, 0x00, 0x00, // Stop
	}
}

func TestScanCanonicalArchive(t *testing.T) {
	arc, err := Scan(NewContext(), bytes.NewReader(canonicalArchive()), FlagNormal)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(arc.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(arc.Entries))
	}
	e0 := arc.Entries[0]
	if e0.Title != "" {
		t.Fatalf("Title = %q, want empty", e0.Title)
	}
	if e0.Extension != "nodata" {
		t.Fatalf("Extension = %q, want \"nodata\"", e0.Extension)
	}
	if e0.ContentCount != 1 {
		t.Fatalf("ContentCount = %d, want 1", e0.ContentCount)
	}
	if e0.TotalSize != 44 {
		t.Fatalf("TotalSize = %d, want 44", e0.TotalSize)
	}
	if arc.Errors.Len() != 0 {
		t.Fatalf("Errors.Len() = %d, want 0: %v", arc.Errors.Len(), arc.Errors.Messages())
	}
}

func TestScanCanonicalArchiveTrailingBytesIgnored(t *testing.T) {
	p := append(canonicalArchive(), 0x99, 0x99, 0x99, 0x99)
	arc, err := Scan(NewContext(), bytes.NewReader(p), FlagNormal)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(arc.Entries) != 1 || arc.Entries[0].Extension != "nodata" {
		t.Fatalf("parse differs from the canonical archive's: %+v", arc.Entries[0])
	}
	if arc.Errors.Len() != 0 {
		t.Fatalf("Errors.Len() = %d, want 0", arc.Errors.Len())
	}
}

func TestScanMissedMarkerAborts(t *testing.T) {
	p := canonicalArchive()
	// Marker 0 claims ID 2 instead: [00][02][00][00].
	p[1] = 0x02
	arc, err := Scan(NewContext(), bytes.NewReader(p), FlagNormal)
	if err == nil {
		t.Fatalf("expected a missed-marker error, got nil")
	}
	if _, ok := err.(missedMarkerError); !ok {
		t.Fatalf("error type = %T, want missedMarkerError", err)
	}
	if len(arc.Entries) != 0 {
		t.Fatalf("len(Entries) = %d, want 0 entries successfully built", len(arc.Entries))
	}
}

func TestScanReservedDataSubtypeLoggedNotFatal(t *testing.T) {
	base := canonicalArchive()
	p := make([]byte, 0, len(base)+4)
	p = append(p, base[:len(base)-4]...)       // everything but Stop
	p = append(p, 0x03, 0x03, 0x00, 0x00)       // Data chunk, reserved subtype 3
	p = append(p, base[len(base)-4:]...)        // Stop
	arc, err := Scan(NewContext(), bytes.NewReader(p), FlagFull)
	if err != nil {
		t.Fatalf("Scan returned a fatal error: %v", err)
	}
	if len(arc.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(arc.Entries))
	}
	if arc.Errors.Len() != 1 {
		t.Fatalf("Errors.Len() = %d, want 1", arc.Errors.Len())
	}
}

func TestScanArenaOverflowAborts(t *testing.T) {
	ctx := NewFixedContext(8, 0)
	arc, err := Scan(ctx, bytes.NewReader(canonicalArchive()), FlagNormal)
	if err == nil {
		t.Fatalf("expected ErrArenaOverflow, got nil")
	}
	if err != ErrArenaOverflow {
		t.Fatalf("err = %v, want ErrArenaOverflow", err)
	}
	if arc == nil {
		t.Fatalf("expected a partial archive, got nil")
	}
}

func TestScanShortInputRejected(t *testing.T) {
	_, err := ReadMemory([]byte{0, 0, 0, 0}, nil, FlagNormal)
	if err != ErrShortInput {
		t.Fatalf("err = %v, want ErrShortInput", err)
	}
}

func TestScanMemoryDetectsRawAndMatchesStreamScan(t *testing.T) {
	arc, err := ReadMemory(canonicalArchive(), nil, FlagNormal)
	if err != nil {
		t.Fatalf("ReadMemory returned error: %v", err)
	}
	if arc.Format != FormatRaw {
		t.Fatalf("Format = %v, want FormatRaw", arc.Format)
	}
	if arc.Entries[0].Extension != "nodata" {
		t.Fatalf("Extension = %q, want \"nodata\"", arc.Entries[0].Extension)
	}
}

func TestHashSelectorBugCorrected(t *testing.T) {
	// A SHA-512 data-hash chunk (selector 2) must decode as 16 chunks, not
	// fall through to the SHA-256 branch's 8.
	n, ok := hashChunks(hashSHA512)
	if !ok || n != hashSHA512Chunks {
		t.Fatalf("hashChunks(hashSHA512) = (%d, %v), want (%d, true)", n, ok, hashSHA512Chunks)
	}
}

func TestWriteMemoryThenScanRoundTrip(t *testing.T) {
	arc := NewArchive(nil)
	e0, err := arc.AddEntry("")
	if err != nil {
		t.Fatalf("AddEntry(entry 0) failed: %v", err)
	}
	_ = e0
	e1, err := arc.AddEntry("hello.txt")
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	e1.Data = []byte("hello, archive")
	e1.Extension = "txt"

	out, err := WriteMemory(arc, ModeFlat)
	if err != nil {
		t.Fatalf("WriteMemory failed: %v", err)
	}

	got, err := ReadMemory(out, nil, FlagFull)
	if err != nil {
		t.Fatalf("ReadMemory(round trip) failed: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(got.Entries))
	}
	if got.Entries[0].ContentCount != 1 {
		t.Fatalf("entry 0 ContentCount = %d, want 1", got.Entries[0].ContentCount)
	}
	if got.Entries[1].Title != "hello.txt" {
		t.Fatalf("entry 1 Title = %q, want %q", got.Entries[1].Title, "hello.txt")
	}
	if string(got.Entries[1].Data) != "hello, archive" {
		t.Fatalf("entry 1 Data = %q, want %q", got.Entries[1].Data, "hello, archive")
	}
	if got.Errors.Len() != 0 {
		t.Fatalf("round-tripped archive has diagnostics: %v", got.Errors.Messages())
	}
}

func TestResolveInheritsMergesTags(t *testing.T) {
	arc := NewArchive(nil)
	base, _ := arc.AddEntry("base")
	base.UID, base.HasUID = 1, true
	arc.registerUID(base)
	base.Tags["license"] = "MIT"

	child, _ := arc.AddEntry("child")
	child.InheritUID, child.HasInherit = 1, true

	arc.resolveInherits()

	if child.Tags["license"] != "MIT" {
		t.Fatalf("child did not inherit license tag: %v", child.Tags)
	}
}

func TestResolveInheritsLogsMissingUID(t *testing.T) {
	arc := NewArchive(nil)
	child, _ := arc.AddEntry("child")
	child.InheritUID, child.HasInherit = 99, true

	arc.resolveInherits()

	if arc.Errors.Len() != 1 {
		t.Fatalf("Errors.Len() = %d, want 1", arc.Errors.Len())
	}
}

func TestReadEntriesFilter(t *testing.T) {
	arc := NewArchive(nil)
	arc.AddEntry("") // entry 0
	a, _ := arc.AddEntry("a.txt")
	a.Extension = "txt"
	b, _ := arc.AddEntry("b.bin")
	b.Extension = "bin"

	got := arc.ReadEntriesWithTag("title", "b.bin")
	if len(got) != 1 || got[0] != b {
		t.Fatalf("ReadEntriesWithTag did not isolate entry b")
	}

	all := arc.ReadEntries()
	if len(all) != 2 {
		t.Fatalf("ReadEntries() len = %d, want 2", len(all))
	}
}
