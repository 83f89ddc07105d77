package cellpage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wordcell/corevm/internal/format"
)

func TestPoolAllocFirstFit(t *testing.T) {
	pl := NewPool(0, NewMmapSource())

	ref, err := pl.Alloc(3)
	require.NoError(t, err)
	require.False(t, ref.IsNil())
	require.True(t, ref.Page.Test(ref.Index))
	require.True(t, ref.Page.Test(ref.Index+1))
	require.True(t, ref.Page.Test(ref.Index+2))
}

func TestPoolAllocRejectsRunOverAvailableCells(t *testing.T) {
	pl := NewPool(0, NewMmapSource())

	_, err := pl.Alloc(format.AvailableCells + 1)
	require.Error(t, err)
}

func TestPoolAllocExhaustsPageThenGrows(t *testing.T) {
	pl := NewPool(0, NewMmapSource())

	var refs []CellRef
	for i := 0; i < format.AvailableCells; i++ {
		ref, err := pl.Alloc(1)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.Len(t, refs, format.AvailableCells)

	// The page is now full; the next allocation must grow a new page.
	ref, err := pl.Alloc(1)
	require.NoError(t, err)
	require.NotSame(t, refs[0].Page, ref.Page)
}

func TestPoolFreeAllowsReuse(t *testing.T) {
	pl := NewPool(0, NewMmapSource())

	ref, err := pl.Alloc(2)
	require.NoError(t, err)
	pl.Free(ref, 2)
	require.False(t, ref.Page.Test(ref.Index))

	ref2, err := pl.Alloc(2)
	require.NoError(t, err)
	require.Equal(t, ref.Page, ref2.Page)
}

func TestPoolRemoveEmptyPages(t *testing.T) {
	pl := NewPool(0, NewMmapSource())

	ref, err := pl.Alloc(1)
	require.NoError(t, err)
	pl.Free(ref, 1)

	released := pl.RemoveEmptyPages()
	require.Equal(t, 1, released)
	require.Nil(t, pl.Pages())
}
