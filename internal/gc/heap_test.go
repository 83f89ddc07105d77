package gc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wordcell/corevm/internal/cellpage"
)

// fakeObject is a minimal GCObject for exercising the collector without
// pulling in the rope/seq packages.
type fakeObject struct {
	kids []cellpage.CellRef
	freed *bool
}

func (f *fakeObject) Children() []cellpage.CellRef { return f.kids }
func (f *fakeObject) Free() {
	if f.freed != nil {
		*f.freed = true
	}
}

func newTestHeap() *Heap {
	return NewHeap(cellpage.NewMmapSource(), 1000000, 1000000)
}

func TestCollectSweepsUnreachable(t *testing.T) {
	h := newTestHeap()

	ref, err := h.Alloc(1, &fakeObject{})
	require.NoError(t, err)
	require.True(t, ref.Page.Test(ref.Index))

	h.Collect()

	require.False(t, ref.Page.Test(ref.Index))
	_, ok := h.Object(ref)
	require.False(t, ok)
}

func TestCollectKeepsPreservedRoot(t *testing.T) {
	h := newTestHeap()

	ref, err := h.Alloc(1, &fakeObject{})
	require.NoError(t, err)
	h.Preserve(ref)

	h.Collect()

	require.True(t, ref.Page.Test(ref.Index))
	_, ok := h.Object(ref)
	require.True(t, ok)
}

func TestCollectTracesChildren(t *testing.T) {
	h := newTestHeap()

	childRef, err := h.Alloc(1, &fakeObject{})
	require.NoError(t, err)
	parentRef, err := h.Alloc(1, &fakeObject{kids: []cellpage.CellRef{childRef}})
	require.NoError(t, err)
	h.Preserve(parentRef)

	h.Collect()

	require.True(t, childRef.Page.Test(childRef.Index), "child reachable from a preserved parent must survive")
}

func TestCollectCallsFinalizer(t *testing.T) {
	h := newTestHeap()
	freed := false

	_, err := h.Alloc(1, &fakeObject{freed: &freed})
	require.NoError(t, err)

	h.Collect()

	require.True(t, freed)
}

func TestReleaseWithoutPreserveIsError(t *testing.T) {
	h := newTestHeap()
	ref, err := h.Alloc(1, &fakeObject{})
	require.NoError(t, err)

	err = h.Release(ref)
	require.ErrorIs(t, err, ErrDoubleRelease)
}

func TestResumeWithoutPauseIsError(t *testing.T) {
	h := newTestHeap()
	err := h.ResumeGC()
	require.ErrorIs(t, err, ErrResumeWithoutPause)
}

func TestPauseResumeMatchedPair(t *testing.T) {
	h := newTestHeap()
	h.PauseGC()
	h.PauseGC()
	require.NoError(t, h.ResumeGC())
	require.NoError(t, h.ResumeGC())
	require.ErrorIs(t, h.ResumeGC(), ErrResumeWithoutPause)
}

func TestPromotionInstallsRedirectResolvedTransparently(t *testing.T) {
	h := newTestHeap()
	h.maxGeneration = 1 // collecting up through generation 1 makes "g < G" hold for a gen-0 survivor

	ref, err := h.Alloc(1, &fakeObject{})
	require.NoError(t, err)
	h.Preserve(ref)

	h.Collect() // first survival: bumps the 1-bit counter
	h.Collect() // second survival: promotes to generation 1

	resolved := h.Resolve(ref)
	require.NotEqual(t, ref, resolved)
	_, ok := h.Object(ref) // Object() resolves internally too
	require.True(t, ok)
}
