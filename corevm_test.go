package corevm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordcell/corevm/rope"
	"github.com/wordcell/corevm/value"
)

func TestInitCleanupLifecycle(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	require.Equal(t, Single, rt.Mode())
	require.NoError(t, rt.Cleanup())
}

func TestReinitAfterCleanupSucceeds(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	require.NoError(t, rt.Cleanup())
	require.NoError(t, rt.Reinit(Async))
	require.Equal(t, Async, rt.Mode())
}

func TestReinitWithoutCleanupIsError(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	require.ErrorIs(t, rt.Reinit(Single), ErrAlreadyInitialized)
}

func TestCleanupWithoutInitIsError(t *testing.T) {
	rt := &Runtime{}
	require.ErrorIs(t, rt.Cleanup(), ErrNotInitialized)
}

func TestResumeWithoutPauseIsError(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()
	require.ErrorIs(t, rt.ResumeGC(), ErrResumeWithoutPause)
}

func TestPauseResumeMatchedPair(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()
	rt.PauseGC()
	require.NoError(t, rt.ResumeGC())
}

func TestErrorHookReceivesRecoverableReports(t *testing.T) {
	var gotLevel Level
	var gotMsg string
	rt, err := Init(Single, WithErrorHook(func(level Level, format string, args ...any) {
		gotLevel = level
		gotMsg = format
	}))
	require.NoError(t, err)
	defer rt.Cleanup()

	require.ErrorIs(t, rt.ResumeGC(), ErrResumeWithoutPause)
	require.Equal(t, Recoverable, gotLevel)
	require.Contains(t, gotMsg, "resume_gc")
}

// TestRopeRoundTripThroughRuntime exercises the rope surface end to end
// through a Runtime rather than the rope package directly.
func TestRopeRoundTripThroughRuntime(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()

	a := rt.NewRope(rope.FormatUTF8, []byte("hello, "))
	b := rt.NewRope(rope.FormatUTF8, []byte("world"))
	full := rt.ConcatRope(a, b)
	require.Equal(t, 12, full.Length())

	sub := rt.Subrope(full, 7, 11)
	require.Equal(t, 0, rt.CompareRope(sub, b))

	at := rt.RopeAt(full, 0)
	require.Equal(t, 'h', at.Char())

	oob := rt.RopeAt(full, 1000)
	require.Equal(t, value.Nil, oob)
}

func TestVectorAndListThroughRuntime(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()

	elems := make([]value.Value, 10)
	for i := range elems {
		elems[i] = value.NewSmallInt(int64(i))
	}
	l := rt.NewVector(elems)
	require.Equal(t, 10, l.Length())

	looped := rt.SetLoop(l, 3)
	require.True(t, looped.IsCyclic())
	require.Equal(t, 3, looped.Loop())
}

func TestMapsThroughRuntime(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()

	hm := rt.NewHashMap()
	hm.Set(value.NewSmallInt(1), value.NewSmallInt(100))
	v, ok := hm.Get(value.NewSmallInt(1))
	require.True(t, ok)
	require.Equal(t, int64(100), v.SmallInt())

	tm := rt.NewTrieMap()
	tm.Set(value.NewSmallInt(2), value.NewSmallInt(200))
	v2, ok2 := tm.Get(value.NewSmallInt(2))
	require.True(t, ok2)
	require.Equal(t, int64(200), v2.SmallInt())
}

func TestPreserveReleaseRoundTrip(t *testing.T) {
	rt, err := Init(Single)
	require.NoError(t, err)
	defer rt.Cleanup()

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	r := rt.NewRope(rope.FormatUTF8, long)
	rt.PreserveRope(r)
	require.NoError(t, rt.ReleaseRope(r))
}
