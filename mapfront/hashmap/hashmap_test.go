package hashmap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordcell/corevm/rope"
	"github.com/wordcell/corevm/value"
)

// TestInsertOverwriteIterateUnset is spec §8 scenario 4: insert keys
// "0".."999" with value i+1000, overwrite every key with i+2000, iterate
// and check every value, then unset all keys and check the map is empty.
// Keys are literal ropes, per the scenario's text, so this exercises the
// rope.Compare/rope.HashChunks collision path SetRopeKey/findRope provide.
func TestInsertOverwriteIterateUnset(t *testing.T) {
	m := New()
	keys := make([]rope.Rope, 1000)
	for i := range keys {
		keys[i] = rope.NewRope(rope.FormatUTF8, []byte(strconv.Itoa(i)))
	}

	for i, k := range keys {
		m.SetRopeKey(k, value.NewSmallInt(int64(i+1000)))
	}
	require.Equal(t, 1000, m.Len())

	for i, k := range keys {
		m.SetRopeKey(k, value.NewSmallInt(int64(i+2000)))
	}
	require.Equal(t, 1000, m.Len(), "overwriting existing keys must not grow the map")

	for i, k := range keys {
		v, ok := m.GetRopeKey(k)
		require.True(t, ok)
		require.Equal(t, int64(i+2000), v.SmallInt())
	}

	for _, k := range keys {
		ok := m.UnsetRopeKey(k)
		require.True(t, ok)
	}
	require.Equal(t, 0, m.Len())
}

// TestRopeKeyHashCollisionDoesNotAliasEntries forces two distinct rope keys
// into the same bucket, the way a genuine rope.HashChunks collision would,
// and confirms findRope still distinguishes them by content (rope.Compare)
// rather than returning whichever entry happens to share the bucket.
func TestRopeKeyHashCollisionDoesNotAliasEntries(t *testing.T) {
	m := New()
	a := rope.NewRope(rope.FormatUTF8, []byte("alpha"))
	b := rope.NewRope(rope.FormatUTF8, []byte("beta"))

	m.SetRopeKey(a, value.NewSmallInt(1))

	h := rope.HashChunks(a)
	m.buckets[h] = append(m.buckets[h], &entry{ropeKey: b, isRope: true, val: value.NewSmallInt(2), order: m.seq})
	m.seq++

	va, ok := m.GetRopeKey(a)
	require.True(t, ok)
	require.Equal(t, int64(1), va.SmallInt(), "a's own entry must be found despite sharing a bucket with a colliding key")
}

func TestIntKeyedMapUnaffectedByRopeKeyPath(t *testing.T) {
	m := New()
	for i := 0; i < 100; i++ {
		m.Set(value.NewSmallInt(int64(i)), value.NewSmallInt(int64(i*i)))
	}
	require.Equal(t, 100, m.Len())
	for i := 0; i < 100; i++ {
		v, ok := m.Get(value.NewSmallInt(int64(i)))
		require.True(t, ok)
		require.Equal(t, int64(i*i), v.SmallInt())
	}
}

func TestGetMissingKey(t *testing.T) {
	m := New()
	_, ok := m.Get(value.NewSmallInt(42))
	require.False(t, ok)
}

func TestGetMissingRopeKey(t *testing.T) {
	m := New()
	_, ok := m.GetRopeKey(rope.NewRope(rope.FormatUTF8, []byte("missing")))
	require.False(t, ok)
}

func TestFindCreatesOnMiss(t *testing.T) {
	m := New()
	it, created := m.Find(value.NewSmallInt(7), true)
	require.True(t, created)
	require.False(t, it.End())
	require.Equal(t, value.Nil, it.GetValue())

	it.SetValue(value.NewSmallInt(99))
	v, ok := m.Get(value.NewSmallInt(7))
	require.True(t, ok)
	require.Equal(t, int64(99), v.SmallInt())

	it2, created2 := m.Find(value.NewSmallInt(7), true)
	require.False(t, created2)
	require.Equal(t, int64(99), it2.GetValue().SmallInt())
}

func TestFindWithoutCreateOnMiss(t *testing.T) {
	m := New()
	it, created := m.Find(value.NewSmallInt(1), false)
	require.False(t, created)
	require.True(t, it.End())
	require.Equal(t, 0, m.Len())
}

func TestFindRopeKeyCreatesOnMiss(t *testing.T) {
	m := New()
	key := rope.NewRope(rope.FormatUTF8, []byte("hello"))
	it, created := m.FindRopeKey(key, true)
	require.True(t, created)
	require.False(t, it.End())

	it.SetValue(value.NewSmallInt(42))
	v, ok := m.GetRopeKey(key)
	require.True(t, ok)
	require.Equal(t, int64(42), v.SmallInt())
}
