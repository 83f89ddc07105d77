package rope

import "golang.org/x/text/encoding/charmap"

// decodeUCS1 reads a fixed-width one-byte-per-character buffer. Per §6,
// UCS1 is Latin-1/ISO-8859-1: every byte maps to the identical codepoint,
// which golang.org/x/text/encoding/charmap.ISO8859_1 gives a name to rather
// than hand-rolling the (trivial) byte->rune cast.
func decodeUCS1(b []byte) []rune {
	utf8, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO-8859-1 has no invalid byte sequences; Bytes only fails on
		// transform errors that can't arise for this codec.
		utf8 = b
	}
	return []rune(string(utf8))
}

// encodeUCS1 packs runes into one byte each; a rune outside 0..0xFF is an
// encoding error, reported by returning ok=false at the offending index.
func encodeUCS1(runes []rune) ([]byte, int, bool) {
	out := make([]byte, len(runes))
	for i, r := range runes {
		if r < 0 || r > 0xFF {
			return nil, i, false
		}
		out[i] = byte(r)
	}
	return out, -1, true
}
