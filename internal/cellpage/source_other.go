//go:build !unix && !windows

package cellpage

import "github.com/wordcell/corevm/internal/format"

// heapSource backs pages with plain Go heap allocations, for platforms
// without a dedicated mmap/VirtualAlloc binding. Mirrors the teacher's
// mmfile fallback, which reads the whole file instead of mapping it.
type heapSource struct{}

// NewMmapSource on this platform returns the heap-backed fallback; the name
// is kept so callers don't need a build-tag switch of their own.
func NewMmapSource() PageSource { return heapSource{} }

func (heapSource) NewPage() ([]byte, error) {
	return make([]byte, format.PageSize), nil
}

func (heapSource) FreePage(data []byte) error { return nil }

func (heapSource) Close() error { return nil }
