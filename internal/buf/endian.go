package buf

// U16LE reads a little-endian uint16 at b[off:].
func U16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// U32LE reads a little-endian uint32 at b[off:].
func U32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// U64LE reads a little-endian uint64 at b[off:].
func U64LE(b []byte) uint64 {
	return uint64(U32LE(b)) | uint64(U32LE(b[4:]))<<32
}

// PutU16LE writes v little-endian into b[0:2].
func PutU16LE(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutU32LE writes v little-endian into b[0:4].
func PutU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// PutU64LE writes v little-endian into b[0:8].
func PutU64LE(b []byte, v uint64) {
	PutU32LE(b, uint32(v))
	PutU32LE(b[4:], uint32(v>>32))
}
