// Package cellpage implements the page & cell allocator (component A): fixed
// 1024-byte pages divided into 16-byte cells, a per-page allocation bitmap,
// and a per-pool last-free-page hint indexed by run length.
package cellpage

import (
	"github.com/wordcell/corevm/internal/buf"
	"github.com/wordcell/corevm/internal/format"
)

// CellRef identifies a single cell: the page that owns it plus a cell index
// within that page. Cross-pool references add a generation, carried by the
// caller (the arena-of-indices translation from DESIGN NOTES §9).
type CellRef struct {
	Page  *Page
	Index int
}

// IsNil reports whether r is the zero CellRef (the tagged-value nil word).
func (r CellRef) IsNil() bool { return r.Page == nil }

// Page is one 1024-byte, 64-cell block. Cell 0 is reserved for page metadata;
// cells 1..63 (AvailableCells) are allocatable.
type Page struct {
	data []byte // PageSize bytes, owned by this Page
	next *Page  // next page in its pool's singly linked list
	pool *Pool  // owning pool, for generation lookups during GC

	// source released this page's backing memory; nil for heap-backed pages.
	source PageSource
}

func newPage(data []byte, source PageSource) *Page {
	p := &Page{data: data, source: source}
	p.clearBitmap()
	return p
}

// Bytes exposes the full backing slice, header cell included, for callers
// that need raw byte access (e.g. the GC's promotion copy).
func (p *Page) Bytes() []byte { return p.data }

// Cell returns the byte range of cell i (0 == the header cell).
func (p *Page) Cell(i int) []byte {
	off := i * format.CellSize
	return p.data[off : off+format.CellSize]
}

// CellRun returns the byte range spanning n consecutive cells starting at i.
// n comes from caller-supplied run lengths rather than a value already
// bounds-checked against AvailableCells, so the byte extent is computed with
// an overflow check rather than a bare multiply.
func (p *Page) CellRun(i, n int) []byte {
	off := i * format.CellSize
	span, ok := buf.MulOverflowSafe(n, format.CellSize)
	if !ok {
		panic(format.ErrIntegerOverflow)
	}
	end, ok := buf.AddOverflowSafe(off, span)
	if !ok {
		panic(format.ErrIntegerOverflow)
	}
	return p.data[off:end]
}

// Next returns the next page in this page's pool list, or nil if p is last.
func (p *Page) Next() *Page { return p.next }

// Generation returns the page's generation byte.
func (p *Page) Generation() byte { return p.data[format.PageHeaderGenOffset] }

func (p *Page) setGeneration(g byte) { p.data[format.PageHeaderGenOffset] = g }

func (p *Page) bitmap() uint64 {
	return buf.U64LE(p.data[format.PageHeaderBitmapOffset:])
}

func (p *Page) setBitmap(bm uint64) {
	buf.PutU64LE(p.data[format.PageHeaderBitmapOffset:], bm)
}

func (p *Page) clearBitmap() {
	p.setBitmap(1) // bit 0 (the header cell) is always "allocated"
}

// Test reports whether cell i is allocated.
func (p *Page) Test(i int) bool {
	return p.bitmap()&(1<<uint(i)) != 0
}

// set marks cells [first, first+n) allocated.
func (p *Page) set(first, n int) {
	mask := runMask(first, n)
	p.setBitmap(p.bitmap() | mask)
}

// clear marks cells [first, first+n) free.
func (p *Page) clear(first, n int) {
	mask := runMask(first, n)
	p.setBitmap(p.bitmap() &^ mask)
}

func runMask(first, n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << uint(n)) - 1) << uint(first)
}

// FindFreeRun performs a first-fit search for n consecutive free cells
// starting at cell hint (inclusive), wrapping is not performed: callers
// advance the hint themselves across pages. Returns -1 if none found in
// this page from hint onward.
func (p *Page) FindFreeRun(n, hint int) int {
	bm := p.bitmap()
	for i := hint; i+n <= format.CellsPerPage; i++ {
		if bm&runMask(i, n) == 0 {
			return i
		}
	}
	return -1
}

// ClearAll resets every cell (other than the header) to free. Used by the
// GC sweep when an entire page turns out to be garbage.
func (p *Page) ClearAll() {
	p.clearBitmap()
}
