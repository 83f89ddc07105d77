// Package value implements the tagged-value encoding (component C): small
// integers, characters, and short strings live entirely inside the word;
// everything else is a cell pointer, decoded to Go types by the rope/seq/
// mapfront packages that own each heap layout.
package value

import (
	"github.com/wordcell/corevm/internal/format"
)

// Value is a machine-word-sized tagged reference, per spec.md §3.3. The
// zero Value is nil. This package encodes only the immediate cases; the
// rope, seq and mapfront packages hold their heap-backed structures as Go
// objects rather than as pointers packed into a Value.
type Value uint64

// Nil is the zero value: the all-zero word (§6).
const Nil Value = 0

// Type identifies which case of the tagged-value union a Value holds.
type Type int

const (
	TypeNil Type = iota
	TypeSmallInt
	TypeChar
	TypeSmallString
	TypeHeapPtr
)

// IsImmediate reports whether any of the low 4 tag bits is set.
func (v Value) IsImmediate() bool {
	return v&format.CellAlignMask != 0
}

// IsNil reports whether v is the all-zero word.
func (v Value) IsNil() bool { return v == 0 }

func (v Value) byte0() byte { return byte(v) }

// TypeTag dispatches v to its Type, resolving the character/small-string
// ambiguity via bit 7 of byte 0 rather than the first three tag bits alone
// (see internal/format.CharDiscrimBit for why three bits are insufficient).
func (v Value) TypeTag() Type {
	if v == 0 {
		return TypeNil
	}
	if !v.IsImmediate() {
		return TypeHeapPtr
	}
	b0 := v.byte0()
	switch {
	case b0&format.SmallIntTagBit != 0:
		return TypeSmallInt
	case b0&format.SmallStrTagBit != 0:
		if b0&format.CharDiscrimBit != 0 {
			return TypeChar
		}
		return TypeSmallString
	default:
		return TypeNil
	}
}

// NewSmallInt encodes n as a small signed integer immediate (§6: bit0=1,
// value = word>>1 arithmetic).
func NewSmallInt(n int64) Value {
	return Value(uint64(n)<<1 | uint64(format.SmallIntTagBit))
}

// SmallInt decodes a small-integer Value. The shift is arithmetic on the
// signed representation so negative values round-trip correctly.
func (v Value) SmallInt() int64 {
	return int64(v) >> 1
}

// NewChar encodes a Unicode code point as a character immediate (§6: low
// byte = 0xFE, codepoint in bits 8..31).
func NewChar(r rune) Value {
	return Value(uint64(r)<<8 | uint64(format.CharTagByte))
}

// Char decodes a character immediate.
func (v Value) Char() rune {
	return rune(v >> 8)
}

// NewSmallString encodes up to format.SmallStringMaxLen UCS1 characters
// directly into the word.
func NewSmallString(chars []byte) Value {
	n := len(chars)
	if n > format.SmallStringMaxLen {
		n = format.SmallStringMaxLen
	}
	w := uint64(n)<<2 | uint64(format.SmallStrTagBit)
	for i := 0; i < n; i++ {
		w |= uint64(chars[i]) << (8 * (i + 1))
	}
	return Value(w)
}

// SmallStringLen returns the character count of a small-string immediate.
func (v Value) SmallStringLen() int {
	return int(v.byte0()&0xFC) >> 2
}

// SmallStringAt returns character i (0-indexed) of a small-string immediate.
func (v Value) SmallStringAt(i int) byte {
	return byte(v >> (8 * (i + 1)))
}
