package gc

import "github.com/wordcell/corevm/internal/cellpage"

// Collect runs one full mark-and-sweep cycle (§4.2 "Algorithm"). It is safe
// to call directly (e.g. from a test asserting invariant 1); normal mutator
// code triggers it indirectly via Alloc/ResumeGC.
func (h *Heap) Collect() {
	g := h.generationToCollect()

	marked := h.mark(g)
	h.sweep(g, marked)
	h.promote(g, marked)

	h.cyclesRun++
	if h.cyclesRun%h.promoteInterval == 0 && h.maxGeneration < len(h.pools)-1 {
		h.maxGeneration++
	}
}

func (h *Heap) generationToCollect() byte {
	return byte(h.maxGeneration)
}

// mark walks the object graph from every preserved root plus every
// remembered cross-generation edge, using an explicit worklist rather than
// recursion so arbitrarily deep concat/sublist chains can't blow the stack
// (DESIGN NOTES §9). It returns the set of cells found reachable.
func (h *Heap) mark(maxGen byte) map[cellpage.CellRef]struct{} {
	marked := make(map[cellpage.CellRef]struct{})

	var stack []cellpage.CellRef
	for _, ref := range h.roots.all() {
		stack = append(stack, h.Resolve(ref))
	}
	stack = append(stack, h.remembered.rootsFromOlderThan(maxGen)...)

	for len(stack) > 0 {
		n := len(stack) - 1
		ref := h.Resolve(stack[n])
		stack = stack[:n]

		if ref.IsNil() {
			continue
		}
		if ref.Page.Generation() > maxGen {
			// Reachable through a remembered edge but itself outside the
			// collected range: nothing to mark or trace here.
			continue
		}
		if _, seen := marked[ref]; seen {
			continue
		}
		marked[ref] = struct{}{}

		obj, ok := h.objects[ref]
		if !ok {
			continue
		}
		for _, child := range obj.Children() {
			stack = append(stack, child)
		}
	}
	return marked
}

// sweep clears the allocation bits (and drops the registry entry) of every
// cell in generations 0..maxGen that mark did not reach, invoking Free on
// any Finalizer among them (§4.2 step 4).
func (h *Heap) sweep(maxGen byte, marked map[cellpage.CellRef]struct{}) {
	for g := 0; g <= int(maxGen) && g < len(h.pools); g++ {
		pool := h.pools[g]
		for ref, obj := range h.objects {
			if int(ref.Page.Generation()) != g {
				continue
			}
			if _, live := marked[ref]; live {
				continue
			}
			if fin, ok := obj.(Finalizer); ok {
				fin.Free()
			}
			pool.Free(ref, cellsOf(obj))
			delete(h.objects, ref)
			delete(h.survived, ref)
		}
		pool.RemoveEmptyPages()
	}
	for g := byte(0); g <= maxGen; g++ {
		h.remembered.dropGeneration(g)
	}
}

// promote advances the 1-bit survival counter of every marked cell in a
// generation below maxGen; a cell marked for the second time is copied into
// the next generation's pool and a redirect is installed in its place
// (§4.2 step 5, §3.3 "1-bit generation counter").
func (h *Heap) promote(maxGen byte, marked map[cellpage.CellRef]struct{}) {
	for ref := range marked {
		g := ref.Page.Generation()
		if g >= maxGen {
			continue // already in (or above) the oldest collected generation
		}
		if !h.survived[ref] {
			h.survived[ref] = true
			continue
		}

		obj := h.objects[ref]
		n := cellsOf(obj)
		newRef, err := h.Pool(int(g) + 1).Alloc(n)
		if err != nil {
			// Promotion failure degrades gracefully to "stay put another
			// cycle"; allocation failure elsewhere is fatal per §7, but a
			// promotion is an optimization, not a correctness requirement.
			continue
		}
		h.objects[newRef] = obj
		delete(h.objects, ref)
		delete(h.survived, ref)
		h.redirects[ref] = newRef

		// A promoted object may still point at unpromoted (younger) children
		// that kept their own references alive elsewhere; that's exactly the
		// "older -> younger" edge §3.2 requires a remembered-set entry for,
		// since the next young-only collection won't re-trace newRef itself.
		for _, child := range obj.Children() {
			h.DeclareChild(newRef, child)
		}
	}
}

// cellsOf asks obj how many cells it occupies, via the optional Sizer
// interface; objects that don't implement it are assumed single-cell.
func cellsOf(obj GCObject) int {
	if s, ok := obj.(Sizer); ok {
		return s.Cells()
	}
	return 1
}

// Sizer is implemented by multi-cell objects (vectors, custom words) so the
// sweeper and promoter free/copy the right number of cells.
type Sizer interface {
	Cells() int
}
