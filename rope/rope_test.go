package rope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fromString(s string) Rope {
	return NewRope(FormatUTF8, []byte(s))
}

func toString(r Rope) string {
	var out []rune
	it := Begin(r, 0)
	for i := 0; i < r.Length(); i++ {
		out = append(out, it.At())
		it.Next()
	}
	return string(out)
}

func TestHelloWorldConcatAndSubrope(t *testing.T) {
	r := Concat(fromString("hello "), fromString("world"))
	require.Equal(t, 11, r.Length())
	require.Equal(t, "lo wo", toString(Subrope(r, 3, 7)))
}

func TestEmptyRopeBoundaryCases(t *testing.T) {
	require.Equal(t, 0, Empty.Length())
	require.True(t, Empty.IsEmpty())
	require.Equal(t, Empty, Concat(Empty, Empty))
	require.Equal(t, InvalidChar, At(Empty, 0))
	require.Equal(t, Empty, Subrope(Empty, 0, 5))
}

func TestSingleCharacterImmediate(t *testing.T) {
	r := fromString("λ") // outside UCS1, forces a char immediate
	require.Equal(t, 1, r.Length())
	require.True(t, r.isImmediate())
	require.Equal(t, 'λ', At(r, 0))
}

func TestSmallStringBoundary(t *testing.T) {
	for n := 0; n <= 3; n++ {
		s := make([]byte, n)
		for i := range s {
			s[i] = byte('a' + i)
		}
		r := NewRope(FormatUCS1, s)
		require.True(t, r.isImmediate())
		require.Equal(t, n, r.Length())
		require.Equal(t, string(s), toString(r))
	}
}

func TestSubropeOfSubropeCollapses(t *testing.T) {
	letters := "abcdefghijklmnopqrstuvwxyz"
	s := ""
	for len(s) < 200 {
		s += letters
	}
	s = s[:200]
	base := fromString(s)
	s1 := Subrope(base, 5, 150)
	s2 := Subrope(s1, 2, 130)
	require.Equal(t, s[7:136], toString(s2))
	require.Equal(t, kindSubrope, s2.node.kind)
	require.Same(t, base.node, s2.node.source)
}

func TestAdjacentSublistsMergeOnConcat(t *testing.T) {
	letters := "abcdefghijklmnopqrstuvwxyz"
	s := ""
	for len(s) < 100 {
		s += letters
	}
	s = s[:100]
	base := fromString(s)
	left := Subrope(base, 10, 49)  // length 40, stays a subrope node
	right := Subrope(base, 50, 89) // length 40, adjacent to left
	require.Equal(t, kindSubrope, left.node.kind)
	require.Equal(t, kindSubrope, right.node.kind)

	merged := Concat(left, right)
	require.Equal(t, kindSubrope, merged.node.kind)
	require.Same(t, base.node, merged.node.source)
	require.Equal(t, 10, merged.node.first)
	require.Equal(t, 89, merged.node.last)
	require.Equal(t, s[10:90], toString(merged))
}

func TestDepthOverflowRotation(t *testing.T) {
	r := fromString("x")
	for i := 0; i < 200; i++ {
		r = Concat(r, fromString("y"))
	}
	require.Equal(t, 201, r.Length())
	require.LessOrEqual(t, r.depth(), 16)
}

func TestUTF16RoundTripSurrogatesAnd4Byte(t *testing.T) {
	s := "A\U0001F600B" // astral codepoint needs a surrogate pair in UTF-16
	encoded := encodeUTF16LE([]rune(s))
	r := NewRope(FormatUTF16, encoded)
	require.Equal(t, s, toString(r))
	require.Equal(t, encoded, Bytes(r, FormatUTF16))
}

func TestUTF8RoundTrip(t *testing.T) {
	s := "héllo wörld 🎉"
	r := NewRope(FormatUTF8, []byte(s))
	require.Equal(t, s, toString(r))
	require.Equal(t, []byte(s), Bytes(r, FormatUTF8))
}

func TestCompare(t *testing.T) {
	require.Equal(t, 0, Compare(fromString("abc"), fromString("abc")))
	require.Less(t, Compare(fromString("abc"), fromString("abd")), 0)
	require.Greater(t, Compare(fromString("abd"), fromString("abc")), 0)
	require.Less(t, Compare(fromString("ab"), fromString("abc")), 0)
}

func TestInsertRemoveReplaceRoundTrips(t *testing.T) {
	r := fromString("hello world")

	require.Equal(t, toString(r), toString(Insert(r, 3, Empty)))

	sub := Subrope(r, 2, 5)
	require.Equal(t, toString(r), toString(Replace(r, 2, 5, sub)))

	require.Equal(t, toString(r), toString(Remove(r, 2, 1))) // i..i-1 == no-op
}

func TestRepeat(t *testing.T) {
	r := Repeat(fromString("ab"), 3)
	require.Equal(t, "ababab", toString(r))
	require.Equal(t, Empty, Repeat(fromString("ab"), 0))
}

func TestFindAndSearch(t *testing.T) {
	r := fromString("the quick brown fox")
	require.Equal(t, 4, Find(r, 'q', 0))
	require.Equal(t, -1, Find(r, 'z', 0))
	require.Equal(t, 10, Search(r, fromString("brown"), 0))
	require.Equal(t, -1, Search(r, fromString("slow"), 0))
}

func TestTraverseChunksCoversRangeExactly(t *testing.T) {
	r := Concat(fromString("hello "), fromString("world"))
	total := 0
	TraverseChunks(r, 0, r.Length()-1, func(c Chunk) bool {
		total += len(c.Runes)
		return true
	})
	require.Equal(t, r.Length(), total)
}

func TestIteratorMatchesCharAt(t *testing.T) {
	r := fromString("abcdefghijklmnopqrstuvwxyz")
	it := Begin(r, 0)
	for i := 0; i < r.Length(); i++ {
		require.Equal(t, At(r, i), it.At())
		it.Next()
	}
	require.True(t, it.IsEnd())
}

func TestNormalizeIdempotent(t *testing.T) {
	r := fromString("hello")
	n1 := Normalize(r, FormatUCS1, true, '?', true)
	n2 := Normalize(n1, FormatUCS1, true, '?', true)
	require.Equal(t, 0, Compare(n1, n2))
}

func TestNormalizeReplacesUnrepresentable(t *testing.T) {
	r := fromString("a\U0001F600b")
	n := Normalize(r, FormatUCS1, true, '?', true)
	require.Equal(t, "a?b", toString(n))
}

func TestNormalizeNoReplacementYieldsEmpty(t *testing.T) {
	r := fromString("a\U0001F600b")
	n := Normalize(r, FormatUCS1, true, 0, false)
	require.True(t, n.IsEmpty())
}

func TestCustomRope(t *testing.T) {
	c := &CustomRope{
		LengthFn: func() int { return 5 },
		CharAtFn: func(i int) rune { return rune('A' + i) },
	}
	r := NewCustom(c)
	require.Equal(t, 5, r.Length())
	require.Equal(t, 'C', At(r, 2))
	require.Equal(t, "ABCDE", toString(r))
}
