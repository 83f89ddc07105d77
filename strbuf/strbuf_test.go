package strbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordcell/corevm/rope"
)

func TestUCS1BufferRejectsWiderFormatAppend(t *testing.T) {
	b := New(rope.FormatUCS1)
	wide := rope.NewRope(rope.FormatUCS2, []byte{0x00, 0x01, 0x00, 0x02})
	err := b.AppendRope(wide)
	require.ErrorIs(t, err, ErrFormatTooWide)
}

func TestUCS1BufferAcceptsRepeatedUCS1AppendsThenFreezes(t *testing.T) {
	b := New(rope.FormatUCS1)
	chunk := make([]byte, 64)
	for i := range chunk {
		chunk[i] = byte('a' + i%26)
	}
	piece := rope.NewRope(rope.FormatUCS1, chunk)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.AppendRope(piece))
	}

	result := b.Freeze()
	require.Equal(t, 192, result.Length())

	want := rope.Concat(rope.Concat(piece, piece), piece)
	require.Equal(t, 0, rope.Compare(result, want))
}

func TestUCSBufferAcceptsAnyFormat(t *testing.T) {
	b := New(rope.FormatUCS)
	wide := rope.NewRope(rope.FormatUCS4, []byte{0x00, 0x00, 0x01, 0x00})
	require.NoError(t, b.AppendRope(wide))
	require.Equal(t, 1, b.Len())
}

func TestFreezeIsNoOpWithEmptyPendingChunk(t *testing.T) {
	b := New(rope.FormatUCS1)
	require.NoError(t, b.AppendRope(rope.NewRope(rope.FormatUCS1, []byte("hello"))))
	b.Freeze()
	before := b.acc
	require.Equal(t, before, b.Freeze())
}

func TestAppendCharAndRange(t *testing.T) {
	b := New(rope.FormatUCS1)
	b.AppendChar('h')
	b.AppendChar('i')
	r := rope.NewRope(rope.FormatUCS1, []byte("hello world"))
	require.NoError(t, b.AppendRange(r, 0, 4))
	result := b.Freeze()
	require.Equal(t, "hihello", string(rope.Bytes(result, rope.FormatUTF8)))
}
