package lzz

// putUint32LE puts the little-endian representation of x into the first
// four bytes of p.
func putUint32LE(p []byte, x uint32) {
	p[0] = byte(x)
	p[1] = byte(x >> 8)
	p[2] = byte(x >> 16)
	p[3] = byte(x >> 24)
}

// uint32LE converts a little-endian 4-byte representation to an uint32.
func uint32LE(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 |
		uint32(p[3])<<24
}

// uint16LE converts a little-endian 2-byte representation to an uint16.
func uint16LE(p []byte) uint16 {
	return uint16(p[0]) | uint16(p[1])<<8
}

// putUint16LE puts the little-endian representation of x into the first
// two bytes of p.
func putUint16LE(p []byte, x uint16) {
	p[0] = byte(x)
	p[1] = byte(x >> 8)
}

// get24LE decodes a 24-bit little-endian value, used for marker entry IDs.
func get24LE(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
}

// put24LE encodes a 24-bit little-endian value into p[0:3]. x must fit in
// 24 bits; the caller is responsible for the range check.
func put24LE(p []byte, x uint32) {
	p[0] = byte(x)
	p[1] = byte(x >> 8)
	p[2] = byte(x >> 16)
}

// get48LE decodes a 48-bit little-endian value spanning two chunks (the
// TOTAL SIZE and TOTAL DATA SIZE info fields, which begin at byte 2 of
// their header chunk and continue through the whole of the next chunk).
func get48LE(p []byte) uint64 {
	return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 |
		uint64(p[3])<<24 | uint64(p[4])<<32 | uint64(p[5])<<40
}

// put48LE encodes a 48-bit little-endian value into a 6-byte span.
func put48LE(p []byte, x uint64) {
	p[0] = byte(x)
	p[1] = byte(x >> 8)
	p[2] = byte(x >> 16)
	p[3] = byte(x >> 24)
	p[4] = byte(x >> 32)
	p[5] = byte(x >> 40)
}

// alignedLen rounds bytes up to the next multiple of 4, the chunk
// alignment unit used for all stream positioning.
func alignedLen(bytes int) int {
	return (bytes + 3) &^ 3
}
