// Package strbuf implements the string buffer (component F): an
// append-only builder that accumulates characters, ropes, and iterator
// ranges into a target character format, geometrically growing an inline
// chunk before flushing it into the accumulator rope.
package strbuf

import (
	"errors"

	"github.com/wordcell/corevm/rope"
)

// MaxChunk bounds the inline pending-chunk size before it's flushed into the
// accumulator rope via concat (§4.7).
const MaxChunk = 512

// ErrFormatTooWide is returned when appending a rope whose character format
// is wider than the buffer's target, and the buffer isn't UCS (§4.7).
var ErrFormatTooWide = errors.New("strbuf: source format wider than buffer target")

// Builder accumulates a rope incrementally. The zero Builder is invalid;
// use New.
type Builder struct {
	format rope.Format
	acc    rope.Rope
	pending []rune
}

// New creates a Builder targeting format.
func New(format rope.Format) *Builder {
	return &Builder{format: format, acc: rope.Empty}
}

// fits reports whether a source of the given format may be appended to a
// buffer targeting b.format: unrestricted (UCS) buffers accept anything,
// and a buffer may always accept a format no wider than its own (§4.7
// "(b) the buffer stores wider chars than the source").
func (b *Builder) fits(src rope.Format) bool {
	if b.format == rope.FormatUCS {
		return true
	}
	return widthOf(src) <= widthOf(b.format)
}

// widthOf returns the bytes-per-character width of format, with variable
// width (UTF-8/16) treated as maximally wide so a fixed-width buffer never
// silently accepts it as narrower than it might be.
func widthOf(f rope.Format) int {
	switch f {
	case rope.FormatUCS1:
		return 1
	case rope.FormatUCS2:
		return 2
	case rope.FormatUCS4:
		return 4
	case rope.FormatUCS:
		return 1 << 30
	default: // UTF8, UTF16: variable width
		return 1 << 30
	}
}

// AppendChar appends a single character to the pending chunk, flushing it
// first if it's already at MaxChunk.
func (b *Builder) AppendChar(c rune) {
	if len(b.pending) >= MaxChunk {
		b.flush()
	}
	b.pending = append(b.pending, c)
}

// AppendRope appends all of r, rejecting r if its format is wider than the
// buffer's target (§4.7).
func (b *Builder) AppendRope(r rope.Rope) error {
	if !b.fits(rope.LeafFormat(r)) {
		return ErrFormatTooWide
	}
	it := rope.Begin(r, 0)
	for i := 0; i < r.Length(); i++ {
		b.AppendChar(it.At())
		it.Next()
	}
	return nil
}

// AppendRange appends the characters of r in [first, last], under the same
// format-fit rule as AppendRope.
func (b *Builder) AppendRange(r rope.Rope, first, last int) error {
	return b.AppendRope(rope.Subrope(r, first, last))
}

func (b *Builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	chunk := rope.NewRope(rope.FormatUTF8, []byte(string(b.pending)))
	b.acc = rope.Concat(b.acc, chunk)
	b.pending = b.pending[:0]
}

// Freeze returns the accumulated rope. It runs in O(1) when the pending
// chunk is empty; otherwise it performs one final concat (§4.7).
func (b *Builder) Freeze() rope.Rope {
	b.flush()
	return b.acc
}

// Len returns the buffer's current total length (flushed + pending).
func (b *Builder) Len() int {
	return b.acc.Length() + len(b.pending)
}
