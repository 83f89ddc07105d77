package triemap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordcell/corevm/value"
)

// TestReverseInsertOrdersForwardAndBackward is spec §8 scenario 5:
// integer keys 0..999 inserted in reverse order; forward iteration yields
// strictly increasing keys, backward iteration strictly decreasing.
func TestReverseInsertOrdersForwardAndBackward(t *testing.T) {
	m := New()
	for i := 999; i >= 0; i-- {
		m.Set(value.NewSmallInt(int64(i)), value.NewSmallInt(int64(i)))
	}
	require.Equal(t, 1000, m.Len())

	prev := int64(-1)
	count := 0
	for it := m.Begin(); !it.End(); it.Next() {
		k := it.GetKey().SmallInt()
		require.Greater(t, k, prev)
		prev = k
		count++
	}
	require.Equal(t, 1000, count)

	prev = 1000
	count = 0
	for it := m.End(); ; {
		it.Prev()
		if it.End() {
			break
		}
		k := it.GetKey().SmallInt()
		require.Less(t, k, prev)
		prev = k
		count++
	}
	require.Equal(t, 1000, count)
}

func TestOverwriteKeepsSortedOrder(t *testing.T) {
	m := New()
	for _, k := range []int64{5, 1, 3, 2, 4} {
		m.Set(value.NewSmallInt(k), value.NewSmallInt(k*10))
	}
	m.Set(value.NewSmallInt(3), value.NewSmallInt(300))
	require.Equal(t, 5, m.Len())

	var keys []int64
	for it := m.Begin(); !it.End(); it.Next() {
		keys = append(keys, it.GetKey().SmallInt())
	}
	require.Equal(t, []int64{1, 2, 3, 4, 5}, keys)

	v, ok := m.Get(value.NewSmallInt(3))
	require.True(t, ok)
	require.Equal(t, int64(300), v.SmallInt())
}

func TestUnsetMaintainsOrder(t *testing.T) {
	m := New()
	for i := int64(0); i < 10; i++ {
		m.Set(value.NewSmallInt(i), value.NewSmallInt(i))
	}
	require.True(t, m.Unset(value.NewSmallInt(5)))
	require.False(t, m.Unset(value.NewSmallInt(5)))
	require.Equal(t, 9, m.Len())

	var keys []int64
	for it := m.Begin(); !it.End(); it.Next() {
		keys = append(keys, it.GetKey().SmallInt())
	}
	require.Equal(t, []int64{0, 1, 2, 3, 4, 6, 7, 8, 9}, keys)
}
