package lzz

// Chunk type codes (byte 0 of every 4-byte chunk).
const (
	chunkMarker byte = 0
	chunkTag    byte = 1
	chunkInfo   byte = 2
	chunkData   byte = 3
	chunkStop   byte = 4
	// 5..255 are custom chunks, dispatched through Context.CustomChunks.
)

// chunkLen is the fixed width of every chunk header and the alignment unit
// for every payload that follows one.
const chunkLen = 4

// Standard Info byte-1 codes (byte 1 <= 0x7F). Each has exactly one payload
// chunk following the header.
const (
	infoContentCount  byte = 0x00
	infoTotalSize     byte = 0x01
	infoELFCRC32      byte = 0x02
	infoExtension     byte = 0x03
	infoUID           byte = 0x04
	infoTotalDataSize byte = 0x05
	infoInherit       byte = 0x06
	infoTotalCodeLine byte = 0x07
	// infoMIME is the one custom-shaped (byte 1 >= 0x80) code MINIMAL scans
	// still keep; it is not a "standard" code in the sense of having one
	// fixed trailing chunk.
	infoMIME byte = 0x80
)

// customInfoMaxChunks is the hard 8KiB payload cap (2047 chunks of 4 bytes)
// for a custom-shaped Info chunk (byte 1 >= 0x80).
const customInfoMaxChunks = 2047

// Data subtypes (byte 1 of a Data chunk header).
const (
	dataBinary   byte = 0
	dataCodeLine byte = 1
	dataHash     byte = 2
)

// Hash-of-data selectors (byte 2 of a subtype-2 Data chunk header), and the
// number of 4-byte chunks each hash occupies.
const (
	hashSHA256 byte = 1
	hashSHA512 byte = 2

	hashSHA256Chunks = 8  // 32 bytes
	hashSHA512Chunks = 16 // 64 bytes
)

// hashChunks returns the number of payload chunks for a HASH OF DATA
// selector, and whether the selector is recognized: selector 1 maps to
// SHA-256 (32 bytes, 8 chunks) and selector 2 maps to SHA-512 (64 bytes,
// 16 chunks); any other value is a structural error, never silently
// reinterpreted as selector 1.
func hashChunks(selector byte) (chunks int, ok bool) {
	switch selector {
	case hashSHA256:
		return hashSHA256Chunks, true
	case hashSHA512:
		return hashSHA512Chunks, true
	default:
		return 0, false
	}
}

// chunkHeader is the 4-byte decoded form of a chunk's leading word. It is
// the unit every parser step advances by.
type chunkHeader [4]byte

func (h chunkHeader) typ() byte { return h[0] }

// markerID decodes the 24-bit entry ID carried by a Marker chunk.
func (h chunkHeader) markerID() uint32 { return get24LE(h[1:]) }

// tagLens decodes the name/value lengths of a Tag header chunk.
func (h chunkHeader) tagLens() (nameLen, valueLen int) {
	return int(h[1]), int(h[2])
}

// infoCode returns byte 1 of an Info header chunk.
func (h chunkHeader) infoCode() byte { return h[1] }

// infoCustomLen decodes the trailing chunk count of a custom-shaped Info
// header (byte 1 >= 0x80): byte2 | (byte3 << 8).
func (h chunkHeader) infoCustomLen() int {
	return int(h[2]) | int(h[3])<<8
}

// dataSubtype returns byte 1 of a Data header chunk.
func (h chunkHeader) dataSubtype() byte { return h[1] }

// dataByteLen decodes the byte-length field of a binary/code-line Data
// header: byte2 | (byte3 << 8).
func (h chunkHeader) dataByteLen() int {
	return int(h[2]) | int(h[3])<<8
}

// dataHashSelector returns byte 2 of a hash-subtype Data header.
func (h chunkHeader) dataHashSelector() byte { return h[2] }

// customLen decodes the trailing byte count of a custom chunk header
// (byte0 >= 5): byte2 | (byte3 << 8).
func (h chunkHeader) customLen() int {
	return int(h[2]) | int(h[3])<<8
}

// makeMarkerHeader builds the header chunk for a Marker with the given
// 24-bit entry ID.
func makeMarkerHeader(id uint32) chunkHeader {
	var h chunkHeader
	h[0] = chunkMarker
	put24LE(h[1:], id)
	return h
}

// makeTagHeader builds the header chunk for a Tag with the given name and
// value lengths (each 0..255) and a user byte.
func makeTagHeader(nameLen, valueLen int, userByte byte) chunkHeader {
	var h chunkHeader
	h[0] = chunkTag
	h[1] = byte(nameLen)
	h[2] = byte(valueLen)
	h[3] = userByte
	return h
}

// makeStandardInfoHeader builds a standard-shaped Info header (code <=
// 0x7F), whose single trailing payload chunk the caller fills separately.
// Header bytes 2-3 are left zero; use makeInfo48Header or
// makeExtensionHeader for the two codes whose encoding packs extra value
// bits into those bytes.
func makeStandardInfoHeader(code byte) chunkHeader {
	var h chunkHeader
	h[0] = chunkInfo
	h[1] = code
	return h
}

// makeInfo48Header builds the header for a 48-bit standard Info value
// (TOTAL SIZE, TOTAL DATA SIZE): the low 16 bits live in header bytes 2-3,
// the high 32 bits in the single trailing payload chunk. For example,
// "total size = 44" encodes as header tail 0x002C and an all-zero payload
// chunk.
func makeInfo48Header(code byte, low16 uint16) chunkHeader {
	var h chunkHeader
	h[0] = chunkInfo
	h[1] = code
	putUint16LE(h[2:], low16)
	return h
}

// splitInfo48 splits a 48-bit standard Info value into the header-tail
// low 16 bits and the payload-chunk high 32 bits makeInfo48Header/the
// Data payload writer expect.
func splitInfo48(v uint64) (low16 uint16, high32 uint32) {
	var span [6]byte
	put48LE(span[:], v)
	return uint16LE(span[0:2]), uint32LE(span[2:6])
}

// joinInfo48 reconstructs the 48-bit value a 48-bit standard Info chunk's
// header tail and payload chunk together encode.
func joinInfo48(low16 uint16, high32 uint32) uint64 {
	var span [6]byte
	putUint16LE(span[0:2], low16)
	putUint32LE(span[2:6], high32)
	return get48LE(span[:])
}

// makeExtensionHeader builds the header for an EXTENSION Info chunk,
// whose first two characters live in header bytes 2-3 (the remaining up
// to four characters fill the single trailing payload chunk). This packs
// a 6-byte, NUL-padded extension string across header+payload, matching
// the canonical example's "nodata" (6 bytes exactly).
func makeExtensionHeader(b2, b3 byte) chunkHeader {
	var h chunkHeader
	h[0] = chunkInfo
	h[1] = infoExtension
	h[2] = b2
	h[3] = b3
	return h
}

// makeCustomInfoHeader builds a custom-shaped Info header (code >= 0x80)
// declaring chunks trailing payload chunks.
func makeCustomInfoHeader(code byte, chunks int) chunkHeader {
	var h chunkHeader
	h[0] = chunkInfo
	h[1] = code
	h[2] = byte(chunks)
	h[3] = byte(chunks >> 8)
	return h
}

// makeDataHeader builds the header chunk for a binary or code-line Data
// block of the given byte length.
func makeDataHeader(subtype byte, byteLen int) chunkHeader {
	var h chunkHeader
	h[0] = chunkData
	h[1] = subtype
	h[2] = byte(byteLen)
	h[3] = byte(byteLen >> 8)
	return h
}

// makeHashDataHeader builds the header chunk for a HASH OF DATA block.
func makeHashDataHeader(selector byte) chunkHeader {
	var h chunkHeader
	h[0] = chunkData
	h[1] = dataHash
	h[2] = selector
	return h
}

// stopHeader is the single legal encoding of a Stop chunk.
var stopHeader = chunkHeader{chunkStop, 0, 0, 0}
