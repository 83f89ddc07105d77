package seq

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordcell/corevm/value"
)

func intsToValues(xs ...int64) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.NewSmallInt(x)
	}
	return out
}

func TestEmptyListBoundaryCases(t *testing.T) {
	require.Equal(t, 0, Empty.Length())
	require.True(t, Empty.Length() == 0 && !Empty.IsCyclic())
	require.Equal(t, value.Nil, At(Empty, 0))
	require.Equal(t, Empty, Concat(Empty, Empty))
}

func TestVectorBasicAccess(t *testing.T) {
	v := NewVector(intsToValues(10, 20, 30))
	require.Equal(t, 3, v.Length())
	require.Equal(t, int64(20), At(v, 1).SmallInt())
}

func TestMutableListSetLengthAndSetAt(t *testing.T) {
	l := NewMVector(0)
	l = SetLength(l, 1000)
	require.Equal(t, 1000, l.Length())

	l, err := SetAt(l, 500, value.NewSmallInt(42))
	require.NoError(t, err)

	require.Equal(t, 1000, l.Length())
	require.Equal(t, int64(42), At(l, 500).SmallInt())
	require.Equal(t, value.Nil, At(l, 499))
	require.Equal(t, value.Nil, At(l, 501))
}

func TestCyclicListIndexing(t *testing.T) {
	elems := make([]int64, 10)
	for i := range elems {
		elems[i] = int64(i)
	}
	l := NewVector(intsToValues(elems...))
	l, err := SetLoop(l, 3)
	require.NoError(t, err)

	require.Equal(t, At(l, 9), At(l, 12))
	require.Equal(t, At(l, 9), At(l, 15))
	require.Equal(t, int64(9), At(l, 9).SmallInt())

	require.Equal(t, At(l, 7), At(l, 10))
	require.Equal(t, int64(7), At(l, 7).SmallInt())
}

func TestCyclicNormalizationLaw(t *testing.T) {
	elems := make([]int64, 20)
	for i := range elems {
		elems[i] = int64(i)
	}
	l := NewVector(intsToValues(elems...))
	l, err := SetLoop(l, 6)
	require.NoError(t, err)

	n, k := l.Length(), l.Loop()
	for i := n - k; i < n+2*k; i++ {
		want := At(l, ((i-(n-k))%k+k)%k+(n-k))
		require.Equal(t, want, At(l, i), "i=%d", i)
	}
}

func TestFreezeMListProducesImmutableEqualValue(t *testing.T) {
	l := NewMVector(0)
	l = SetLength(l, 10)
	l, err := SetAt(l, 3, value.NewSmallInt(7))
	require.NoError(t, err)
	require.False(t, IsImmutable(l))

	frozen := FreezeMList(l)
	require.True(t, IsImmutable(frozen))
	require.Equal(t, 0, Compare(l, frozen, func(a, b value.Value) int {
		if a == b {
			return 0
		}
		if a < b {
			return -1
		}
		return 1
	}))
}

func TestSublistOfSublistCollapses(t *testing.T) {
	elems := make([]int64, 200)
	for i := range elems {
		elems[i] = int64(i)
	}
	base := NewVector(intsToValues(elems...))
	s1 := Sublist(base, 5, 150)
	s2 := Sublist(s1, 2, 130)
	require.Same(t, base.root, s2.root.source)
	require.Equal(t, int64(7), At(s2, 0).SmallInt())
}

func TestAdjacentSublistsMergeOnConcat(t *testing.T) {
	elems := make([]int64, 100)
	for i := range elems {
		elems[i] = int64(i)
	}
	base := NewVector(intsToValues(elems...))
	left := Sublist(base, 10, 49)
	right := Sublist(base, 50, 89)
	merged := Concat(left, right)
	require.Equal(t, kindSublist, merged.root.kind)
	require.Same(t, base.root, merged.root.source)
}

func TestInsertRemoveReplaceRoundTrips(t *testing.T) {
	l := NewVector(intsToValues(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	require.Equal(t, l.Length(), Insert(l, 3, Empty).Length())

	sub := Sublist(l, 2, 5)
	replaced := Replace(l, 2, 5, sub)
	require.Equal(t, l.Length(), replaced.Length())
	for i := 0; i < l.Length(); i++ {
		require.Equal(t, At(l, i), At(replaced, i))
	}

	require.Equal(t, l.Length(), Remove(l, 2, 1).Length()) // i..i-1 == no-op
}

func TestInsertWithinLoopGrowsLoop(t *testing.T) {
	elems := make([]int64, 10)
	for i := range elems {
		elems[i] = int64(i)
	}
	l := NewVector(intsToValues(elems...))
	l, err := SetLoop(l, 4)
	require.NoError(t, err)

	grown := Insert(l, 8, NewVector(intsToValues(100, 101)))
	require.Equal(t, 6, grown.Loop())
}
