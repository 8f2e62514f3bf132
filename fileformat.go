package lzz

import "bytes"

// Format identifies how the bytes of an archive are wrapped on disk.
type Format int

const (
	// FormatUnknown means the leading bytes matched neither known magic.
	FormatUnknown Format = iota
	// FormatRaw is an unwrapped chunk stream (conventionally .uzz).
	FormatRaw
	// FormatLZ4 is a chunk stream wrapped in a single LZ4 frame
	// (conventionally .lzz).
	FormatLZ4
)

// lz4FrameMagic is the four-byte magic that opens every LZ4 frame.
var lz4FrameMagic = [4]byte{0x04, 0x22, 0x4D, 0x18}

// rawStreamMagic is the encoding of a Marker-0 chunk, the first four bytes
// of any unwrapped chunk stream.
var rawStreamMagic = [4]byte{0x00, 0x00, 0x00, 0x00}

// minArchiveLen is the size of the smallest possible valid archive: marker
// 0, three Info chunks (content count, total size, extension), a title
// Tag header plus its two payload chunks ("title" padded to 8 bytes), and
// Stop.
const minArchiveLen = 44

// DetectFormat inspects the first four bytes of p and reports which of the
// two wire wrappings they indicate. It does not itself enforce
// minArchiveLen; ReadMemory and ReadMemoryInto do that separately since
// DetectFormat is also useful on streaming sources where the full length
// isn't known yet.
func DetectFormat(p []byte) (Format, error) {
	if len(p) < 4 {
		return FormatUnknown, newError("not enough bytes to detect format")
	}
	switch {
	case bytes.Equal(p[:4], lz4FrameMagic[:]):
		return FormatLZ4, nil
	case bytes.Equal(p[:4], rawStreamMagic[:]):
		return FormatRaw, nil
	default:
		return FormatUnknown, ErrUnknownFormat
	}
}
