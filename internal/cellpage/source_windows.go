//go:build windows

package cellpage

import "github.com/wordcell/corevm/internal/format"

// windowsSource backs pages with plain Go heap allocations. A VirtualAlloc
// binding belongs here in a production build; until then this keeps the
// pool working correctly (just without the system-page-range batching the
// unix mmap source does).
type windowsSource struct{}

// NewMmapSource returns the Windows-side PageSource.
func NewMmapSource() PageSource { return windowsSource{} }

func (windowsSource) NewPage() ([]byte, error) {
	return make([]byte, format.PageSize), nil
}

func (windowsSource) FreePage(data []byte) error { return nil }

func (windowsSource) Close() error { return nil }
