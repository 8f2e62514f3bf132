package lzz

import "testing"

func TestDetectFormatRaw(t *testing.T) {
	f, err := DetectFormat([]byte{0, 0, 0, 0, 1, 2})
	if err != nil {
		t.Fatalf("DetectFormat returned error: %v", err)
	}
	if f != FormatRaw {
		t.Fatalf("DetectFormat = %v, want FormatRaw", f)
	}
}

func TestDetectFormatLZ4(t *testing.T) {
	f, err := DetectFormat([]byte{0x04, 0x22, 0x4D, 0x18, 0, 0})
	if err != nil {
		t.Fatalf("DetectFormat returned error: %v", err)
	}
	if f != FormatLZ4 {
		t.Fatalf("DetectFormat = %v, want FormatLZ4", f)
	}
}

func TestDetectFormatUnknown(t *testing.T) {
	_, err := DetectFormat([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if err != ErrUnknownFormat {
		t.Fatalf("DetectFormat err = %v, want ErrUnknownFormat", err)
	}
}

func TestDetectFormatTooShort(t *testing.T) {
	_, err := DetectFormat([]byte{0, 0})
	if err == nil {
		t.Fatalf("DetectFormat accepted a too-short slice")
	}
}
