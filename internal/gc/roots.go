package gc

import "github.com/wordcell/corevm/internal/cellpage"

// rootList is the refcounted, user-declared GC anchor list (§3.4 "Root").
// preserve/release pairs mirror the teacher's tx.Manager contract: release
// without a matching preserve is an error, preserve is idempotent-additive
// (it just bumps the refcount).
type rootList struct {
	counts map[cellpage.CellRef]int
}

func newRootList() *rootList {
	return &rootList{counts: make(map[cellpage.CellRef]int)}
}

func (r *rootList) preserve(ref cellpage.CellRef) {
	r.counts[ref]++
}

func (r *rootList) release(ref cellpage.CellRef) error {
	n, ok := r.counts[ref]
	if !ok || n == 0 {
		return ErrDoubleRelease
	}
	if n == 1 {
		delete(r.counts, ref)
	} else {
		r.counts[ref] = n - 1
	}
	return nil
}

func (r *rootList) all() []cellpage.CellRef {
	out := make([]cellpage.CellRef, 0, len(r.counts))
	for ref := range r.counts {
		out = append(out, ref)
	}
	return out
}
