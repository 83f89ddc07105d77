package gc

import (
	"github.com/wordcell/corevm/internal/cellpage"
)

// GCObject is implemented by every heap-resident node type (rope leaves and
// concat/subrope nodes, vector and list nodes, map entries, string-buffer
// accumulators, ...). Children returns the set of cells this object
// references directly, resolved through any pending redirects by the
// caller's next access — the object itself stores raw CellRefs and never
// resolves them eagerly.
type GCObject interface {
	Children() []cellpage.CellRef
}

// Finalizer is implemented by custom words that own external resources;
// Free is invoked during sweep for any such object that did not survive,
// mirroring the spec's per-type free_proc callback (§4.2 step 4, §9).
type Finalizer interface {
	Free()
}

// Heap owns one generation ladder of cellpage.Pools, the live-object
// registry, the redirect table left behind by promotion, and the
// preserved-root list. One Heap belongs to exactly one mutator thread in
// single/async mode, or to a thread group in shared mode (§5).
type Heap struct {
	pools       []*cellpage.Pool // pools[g] is generation g; grown lazily
	source      cellpage.PageSource
	objects     map[cellpage.CellRef]GCObject
	redirects   map[cellpage.CellRef]cellpage.CellRef
	survived    map[cellpage.CellRef]bool // 1-bit generation counter proxy
	remembered  *rememberedSet
	roots       *rootList

	pauseDepth int

	// cyclesRun counts completed collections, used to decide when the
	// highest collected generation G should rise (promote_interval, §4.2).
	cyclesRun       int
	promoteInterval int
	maxGeneration   int

	// highWaterPages triggers an automatic cycle when the nursery's page
	// count (a proxy for allocation pressure) exceeds it.
	highWaterPages int
}

// NewHeap creates a heap with a single nursery pool (generation 0) backed
// by source. promoteInterval and highWaterPages use sane defaults if <= 0.
func NewHeap(source cellpage.PageSource, promoteInterval, highWaterPages int) *Heap {
	if promoteInterval <= 0 {
		promoteInterval = 8
	}
	if highWaterPages <= 0 {
		highWaterPages = 64
	}
	h := &Heap{
		source:          source,
		objects:         make(map[cellpage.CellRef]GCObject),
		redirects:       make(map[cellpage.CellRef]cellpage.CellRef),
		survived:        make(map[cellpage.CellRef]bool),
		remembered:      newRememberedSet(),
		roots:           newRootList(),
		promoteInterval: promoteInterval,
		highWaterPages:  highWaterPages,
	}
	h.pools = append(h.pools, cellpage.NewPool(0, source))
	return h
}

// Pool returns (creating if necessary) the pool for generation g.
func (h *Heap) Pool(g int) *cellpage.Pool {
	for len(h.pools) <= g {
		h.pools = append(h.pools, cellpage.NewPool(byte(len(h.pools)), h.source))
	}
	return h.pools[g]
}

// Alloc performs alloc_cells(n) in generation 0 (the nursery), binds obj to
// the resulting cell, and returns the reference. It may trigger a GC cycle
// first if the nursery is under pressure and the mutator isn't paused
// (§5 "allocation ... are the only points where a GC cycle may begin").
func (h *Heap) Alloc(n int, obj GCObject) (cellpage.CellRef, error) {
	if h.pauseDepth == 0 && h.underPressure() {
		h.Collect()
	}
	ref, err := h.Pool(0).Alloc(n)
	if err != nil {
		return cellpage.CellRef{}, err
	}
	h.objects[ref] = obj
	return ref, nil
}

func (h *Heap) underPressure() bool {
	count := 0
	for p := h.Pool(0).Pages(); p != nil; p = p.Next() {
		count++
		if count > h.highWaterPages {
			return true
		}
	}
	return false
}

// Resolve follows any chain of redirects left by promotion and returns the
// live CellRef, per the spec's "resolve(word)" primitive (§4.2 step 5).
func (h *Heap) Resolve(ref cellpage.CellRef) cellpage.CellRef {
	for {
		next, ok := h.redirects[ref]
		if !ok {
			return ref
		}
		ref = next
	}
}

// Object returns the GCObject bound to ref, resolving redirects first.
func (h *Heap) Object(ref cellpage.CellRef) (GCObject, bool) {
	obj, ok := h.objects[h.Resolve(ref)]
	return obj, ok
}

// DeclareChild records a cross-generation edge: call this whenever a
// mutating operation writes child into a cell belonging to an older
// generation than child's own (§4.2 "Cross-generation edges"). Edges in the
// same or younger->older direction need no bookkeeping.
func (h *Heap) DeclareChild(parent, child cellpage.CellRef) {
	if parent.IsNil() || child.IsNil() {
		return
	}
	if parent.Page.Generation() > child.Page.Generation() {
		h.remembered.add(parent, child)
	}
}

// PauseGC implements pause_gc(): increments the pause depth so automatic
// collection is deferred across a sequence of allocations that must not be
// invalidated by an intervening cycle (§5).
func (h *Heap) PauseGC() {
	h.pauseDepth++
}

// ResumeGC implements resume_gc(): decrements the pause depth; once it
// reaches zero a pending-pressure cycle may run immediately. Calling it
// without a matching PauseGC is an error (§6).
func (h *Heap) ResumeGC() error {
	if h.pauseDepth == 0 {
		return ErrResumeWithoutPause
	}
	h.pauseDepth--
	if h.pauseDepth == 0 && h.underPressure() {
		h.Collect()
	}
	return nil
}

// Preserve implements preserve(word): adds (or increments the refcount of)
// a GC root anchoring ref alive across collections (§3.4, §6).
func (h *Heap) Preserve(ref cellpage.CellRef) {
	h.roots.preserve(ref)
}

// Release implements release(word): decrements a root's refcount, removing
// it once it reaches zero. Release without a matching Preserve is an error.
func (h *Heap) Release(ref cellpage.CellRef) error {
	return h.roots.release(ref)
}

