package xio

import (
	"io"
	"testing"
)

func TestLZ4WriterReaderRoundTrip(t *testing.T) {
	mw := NewOwnedMemoryWriter()
	zw := NewLZ4Writer(mw, false, 0)
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated. " +
		"the quick brown fox jumps over the lazy dog, repeated.")
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	framed := mw.Bytes()
	if len(framed) < 4 || framed[0] != 0x04 || framed[1] != 0x22 {
		t.Fatalf("output does not start with the LZ4 frame magic: %x", framed[:4])
	}

	mr := NewMemoryReader(framed)
	zr := NewLZ4Reader(mr)
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestLZ4WriterHCRoundTrip(t *testing.T) {
	mw := NewOwnedMemoryWriter()
	zw := NewLZ4Writer(mw, true, 2)
	payload := []byte("high compression mode payload, high compression mode payload.")
	zw.Write(payload)
	if err := zw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	mr := NewMemoryReader(mw.Bytes())
	zr := NewLZ4Reader(mr)
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}
