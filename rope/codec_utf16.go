package rope

import "unicode/utf16"

// decodeUTF16LE reads a little-endian UTF-16 buffer, combining surrogate
// pairs into their astral codepoint. The encoding/utf16 package only
// exposes a []uint16 <-> []rune API, so the byte-pair unpacking below is
// hand-rolled the way the teacher's own wire readers unpack little-endian
// multi-byte fields before handing them to a higher-level decoder.
func decodeUTF16LE(b []byte) []rune {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return utf16.Decode(units)
}

// encodeUTF16LE packs runes into little-endian UTF-16, splitting astral
// codepoints into surrogate pairs.
func encodeUTF16LE(runes []rune) []byte {
	units := utf16.Encode(runes)
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

// decodeUTF8 reads a standard UTF-8 buffer. Malformed sequences are the
// caller's responsibility per §6 ("malformed UTF is caller's
// responsibility"); Go's string conversion substitutes U+FFFD for any
// invalid byte, which is an acceptable degrade rather than a panic.
func decodeUTF8(b []byte) []rune {
	return []rune(string(b))
}

// encodeUTF8 packs runes into standard UTF-8.
func encodeUTF8(runes []rune) []byte {
	return []byte(string(runes))
}

// NewRope constructs a rope from raw bytes in the given format (§6
// "new_rope(format, bytes)"). Malformed input for a fixed-width format
// (UCS1/2/4) truncates to whole units; UTF decoding follows the stdlib's
// best-effort substitution rules.
func NewRope(format Format, b []byte) Rope {
	switch format {
	case FormatUCS1:
		return newFlatRope(FormatUCS1, decodeUCS1(b))
	case FormatUCS2:
		return newFlatRope(FormatUCS2, decodeFixed16(b))
	case FormatUCS4:
		return newFlatRope(FormatUCS4, decodeFixed32(b))
	case FormatUTF8:
		return newFlatRope(FormatUTF8, decodeUTF8(b))
	case FormatUTF16:
		return newFlatRope(FormatUTF16, decodeUTF16LE(b))
	default:
		return Empty
	}
}

func decodeFixed16(b []byte) []rune {
	out := make([]rune, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		out = append(out, rune(uint16(b[i])|uint16(b[i+1])<<8))
	}
	return out
}

// Bytes renders r's full contents into format, the inverse of NewRope. A
// character that doesn't fit a fixed-width target is replaced with '?'.
func Bytes(r Rope, format Format) []byte {
	runes := make([]rune, 0, r.Length())
	it := Begin(r, 0)
	for i := 0; i < r.Length(); i++ {
		runes = append(runes, it.At())
		it.Next()
	}
	switch format {
	case FormatUTF8:
		return encodeUTF8(runes)
	case FormatUTF16:
		return encodeUTF16LE(runes)
	case FormatUCS1:
		b, bad, ok := encodeUCS1(runes)
		if ok {
			return b
		}
		for i := range runes {
			if runes[i] > 0xFF || runes[i] < 0 {
				runes[i] = '?'
			}
		}
		b, _, _ = encodeUCS1(runes)
		_ = bad
		return b
	case FormatUCS2:
		out := make([]byte, 0, len(runes)*2)
		for _, r := range runes {
			u := uint16(r)
			out = append(out, byte(u), byte(u>>8))
		}
		return out
	case FormatUCS4:
		out := make([]byte, 0, len(runes)*4)
		for _, r := range runes {
			u := uint32(r)
			out = append(out, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
		}
		return out
	default:
		return nil
	}
}

func decodeFixed32(b []byte) []rune {
	out := make([]rune, 0, len(b)/4)
	for i := 0; i+3 < len(b); i += 4 {
		v := uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16 | uint32(b[i+3])<<24
		out = append(out, rune(v))
	}
	return out
}
