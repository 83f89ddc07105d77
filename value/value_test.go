package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmallIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 12345, -98765} {
		v := NewSmallInt(n)
		require.Equal(t, TypeSmallInt, v.TypeTag())
		require.Equal(t, n, v.SmallInt())
	}
}

func TestCharRoundTrip(t *testing.T) {
	for _, r := range []rune{'a', 'A', 0x1F600, 0} {
		v := NewChar(r)
		require.Equal(t, TypeChar, v.TypeTag())
		require.Equal(t, r, v.Char())
	}
}

func TestSmallStringRoundTrip(t *testing.T) {
	for _, s := range [][]byte{nil, []byte("a"), []byte("ab"), []byte("abc")} {
		v := NewSmallString(s)
		require.Equal(t, TypeSmallString, v.TypeTag())
		require.Equal(t, len(s), v.SmallStringLen())
		for i, c := range s {
			require.Equal(t, c, v.SmallStringAt(i))
		}
	}
}

func TestNilIsZero(t *testing.T) {
	require.True(t, Nil.IsNil())
	require.Equal(t, TypeNil, Nil.TypeTag())
	require.False(t, Nil.IsImmediate())
}

// TestCharVsSmallStringDisambiguation exercises the exact collision the spec
// table elides: a 1-character small string and a character immediate can
// share the same low 3 tag bits, so the discriminant must be bit 7.
func TestCharVsSmallStringDisambiguation(t *testing.T) {
	oneChar := NewSmallString([]byte{'a'})
	ch := NewChar('a')
	require.Equal(t, TypeSmallString, oneChar.TypeTag())
	require.Equal(t, TypeChar, ch.TypeTag())
	require.NotEqual(t, oneChar, ch)
}
