//go:build unix

package cellpage

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/wordcell/corevm/internal/buf"
	"github.com/wordcell/corevm/internal/format"
)

// noNextPage is the Range free-list sentinel stored in a freed page's
// PageHeaderRsvdOffset: the largest offset a 64KiB Range can ever hand out
// is SystemPageSize-PageSize, which fits comfortably under this value.
const noNextPage = 0xFFFF

// Range is one SystemPageSize mmap commitment (the "system-page range" of
// §3.1), carved into PageSize pages. Freed pages are threaded onto a free
// list through the reserved word of each page's header
// (PageHeaderRsvdOffset) rather than tracked in a side structure, so a
// Range that cycles pages through alloc/free never grows extra bookkeeping
// memory proportional to its churn.
type Range struct {
	data []byte

	live      int // pages currently handed out from this range
	allocated int // high-water mark: bytes of data committed to a page at least once
	freeHead  int // offset of the first freed, reusable page, or noNextPage
}

func newRange(data []byte) *Range {
	return &Range{data: data, freeHead: noNextPage}
}

// alloc returns the offset of a page within r, preferring a freed page
// (popped off the free list) over extending the never-used tail.
func (r *Range) alloc() (int, bool) {
	if r.freeHead != noNextPage {
		off := r.freeHead
		r.freeHead = int(buf.U16LE(r.data[off+format.PageHeaderRsvdOffset:]))
		r.live++
		return off, true
	}
	if r.allocated+format.PageSize > len(r.data) {
		return 0, false
	}
	off := r.allocated
	r.allocated += format.PageSize
	r.live++
	return off, true
}

// free pushes the page at off back onto r's free list for reuse by a later
// alloc, and reports whether r now has zero pages outstanding.
func (r *Range) free(off int) bool {
	buf.PutU16LE(r.data[off+format.PageHeaderRsvdOffset:], uint16(r.freeHead))
	r.freeHead = off
	r.live--
	return r.live == 0
}

// pageLoc records which Range a handed-out page came from and at what
// offset, so FreePage can find its way back to the owning Range.
type pageLoc struct {
	r   *Range
	off int
}

// mmapSource commits anonymous, private pages via mmap in SystemPageSize
// chunks (Range) and hands out PageSize slices of them. A page freed back
// to the source is threaded onto its Range's free list for reuse by a
// later NewPage; once every page carved from a Range has been freed, the
// whole Range is unmapped.
type mmapSource struct {
	mu     sync.Mutex
	ranges map[*byte]*Range  // keyed by &data[0], identifies the owning range
	pages  map[*byte]pageLoc // keyed by &page[0], reverse lookup for FreePage
}

// NewMmapSource returns a PageSource backed by anonymous mmap ranges.
func NewMmapSource() PageSource {
	return &mmapSource{
		ranges: make(map[*byte]*Range),
		pages:  make(map[*byte]pageLoc),
	}
}

func (s *mmapSource) NewPage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.ranges {
		if off, ok := r.alloc(); ok {
			page := r.data[off : off+format.PageSize]
			s.pages[&page[0]] = pageLoc{r: r, off: off}
			return page, nil
		}
	}

	data, err := unix.Mmap(-1, 0, format.SystemPageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("cellpage: mmap: %w", err)
	}
	r := newRange(data)
	s.ranges[&data[0]] = r
	off, _ := r.alloc() // always succeeds: a fresh range is never full
	page := r.data[off : off+format.PageSize]
	s.pages[&page[0]] = pageLoc{r: r, off: off}
	return page, nil
}

// FreePage threads data's page back onto its owning Range's free list, and
// unmaps the whole Range once every page carved from it has been freed.
func (s *mmapSource) FreePage(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.pages[&data[0]]
	if !ok {
		return fmt.Errorf("cellpage: FreePage: page not owned by this source")
	}
	delete(s.pages, &data[0])

	if empty := loc.r.free(loc.off); empty {
		if err := unix.Munmap(loc.r.data); err != nil {
			return fmt.Errorf("cellpage: munmap: %w", err)
		}
		delete(s.ranges, &loc.r.data[0])
	}
	return nil
}

func (s *mmapSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for k, r := range s.ranges {
		if err := unix.Munmap(r.data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cellpage: munmap: %w", err)
		}
		delete(s.ranges, k)
	}
	for k := range s.pages {
		delete(s.pages, k)
	}
	return firstErr
}
