package cellpage

import (
	"fmt"

	"github.com/wordcell/corevm/internal/buf"
	"github.com/wordcell/corevm/internal/format"
)

// Pool is a singly linked list of pages belonging to one generation. It
// caches, per run length 1..AvailableCells, the last page where a run of
// that length was found free, so repeated same-size allocations don't
// rescan pages that are already known-exhausted for that size.
type Pool struct {
	generation byte
	source     PageSource

	head *Page
	tail *Page

	// lastFreePage[k] is the page most recently found to contain (or lack)
	// a free run of k cells. Index 0 is unused (k ranges 1..AvailableCells).
	lastFreePage [format.AvailableCells + 1]*Page
}

// NewPool creates an empty pool for the given generation.
func NewPool(generation byte, source PageSource) *Pool {
	return &Pool{generation: generation, source: source}
}

// Generation returns this pool's generation number.
func (pl *Pool) Generation() byte { return pl.generation }

// Pages returns the pool's page list head, for GC traversal.
func (pl *Pool) Pages() *Page { return pl.head }

// Alloc implements alloc_cells(n) (§4.1): n is clamped to
// 1..AvailableCells; search starts at the cached hint for n, first-fit;
// on success the hint is updated to the winning page; on total failure a
// new page is requested from the source and prepended.
func (pl *Pool) Alloc(n int) (CellRef, error) {
	if n > format.AvailableCells {
		return CellRef{}, fmt.Errorf("cellpage: %w: requested %d cells, max %d",
			format.ErrRequestTooLarge, n, format.AvailableCells)
	}
	n = buf.ClampInt(n, 1, format.AvailableCells)

	if hint := pl.lastFreePage[n]; hint != nil {
		if idx := hint.FindFreeRun(n, format.HeaderCells); idx >= 0 {
			hint.set(idx, n)
			return CellRef{Page: hint, Index: idx}, nil
		}
	}

	for p := pl.head; p != nil; p = p.next {
		if p == pl.lastFreePage[n] {
			continue // already tried above
		}
		if idx := p.FindFreeRun(n, format.HeaderCells); idx >= 0 {
			p.set(idx, n)
			pl.lastFreePage[n] = p
			return CellRef{Page: p, Index: idx}, nil
		}
	}

	// No page had room: grow the pool.
	p, err := pl.grow()
	if err != nil {
		pl.lastFreePage[n] = nil
		return CellRef{}, err
	}
	idx := p.FindFreeRun(n, format.HeaderCells)
	if idx < 0 {
		// Can't happen for a fresh page and n <= AvailableCells, but keep the
		// hint update symmetric with the failure path regardless.
		pl.lastFreePage[n] = p
		return CellRef{}, fmt.Errorf("cellpage: fresh page cannot satisfy %d cells", n)
	}
	p.set(idx, n)
	pl.lastFreePage[n] = p
	return CellRef{Page: p, Index: idx}, nil
}

// Free clears the cell run's allocation bits. The cells are not reclaimed by
// the OS; they simply become available to the next Alloc scan. Used by the
// GC sweep (§4.2 step 4) and by mutable-list shrink operations.
func (pl *Pool) Free(ref CellRef, n int) {
	ref.Page.clear(ref.Index, n)
}

func (pl *Pool) grow() (*Page, error) {
	data, err := pl.source.NewPage()
	if err != nil {
		return nil, fmt.Errorf("cellpage: grow: %w", err)
	}
	p := newPage(data, pl.source)
	p.pool = pl
	p.setGeneration(pl.generation)
	p.next = pl.head
	pl.head = p
	if pl.tail == nil {
		pl.tail = p
	}
	return p, nil
}

// AdoptPage links an externally constructed page (e.g. one being promoted
// from a younger generation) onto this pool's list, stamping it with this
// pool's generation.
func (pl *Pool) AdoptPage(p *Page) {
	p.pool = pl
	p.setGeneration(pl.generation)
	p.next = pl.head
	pl.head = p
	if pl.tail == nil {
		pl.tail = p
	}
}

// RemoveEmptyPages unlinks and releases pages that swept to entirely empty
// (only the header cell bit set), returning the pages actually released.
func (pl *Pool) RemoveEmptyPages() int {
	released := 0
	var prev *Page
	for p := pl.head; p != nil; {
		next := p.next
		if p.bitmap() == 1 {
			if prev == nil {
				pl.head = next
			} else {
				prev.next = next
			}
			if pl.tail == p {
				pl.tail = prev
			}
			_ = pl.source.FreePage(p.data)
			pl.invalidateHints(p)
			released++
			p = next
			continue
		}
		prev = p
		p = next
	}
	return released
}

func (pl *Pool) invalidateHints(p *Page) {
	for i := range pl.lastFreePage {
		if pl.lastFreePage[i] == p {
			pl.lastFreePage[i] = nil
		}
	}
}
