package gc

import "github.com/wordcell/corevm/internal/cellpage"

// rememberedSet tracks cross-generation edges declared since the last
// collection of each generation, exactly the role hive/dirty.Tracker plays
// for on-disk byte ranges: the mutator Adds an edge as it writes it, and the
// collector Flushes (drains) the set once it has used it as extra roots.
type rememberedSet struct {
	// edges maps a parent's generation to the set of child cells it
	// references that live in a strictly younger generation.
	edges map[byte]map[cellpage.CellRef]struct{}
}

func newRememberedSet() *rememberedSet {
	return &rememberedSet{edges: make(map[byte]map[cellpage.CellRef]struct{})}
}

func (r *rememberedSet) add(parent, child cellpage.CellRef) {
	g := parent.Page.Generation()
	bucket, ok := r.edges[g]
	if !ok {
		bucket = make(map[cellpage.CellRef]struct{})
		r.edges[g] = bucket
	}
	bucket[child] = struct{}{}
}

// rootsFromOlderThan returns every remembered child reachable from a parent
// whose generation is strictly greater than maxCollected, i.e. every edge
// that must be treated as an extra GC root for a collection bounded to
// generations 0..maxCollected.
func (r *rememberedSet) rootsFromOlderThan(maxCollected byte) []cellpage.CellRef {
	var out []cellpage.CellRef
	for parentGen, bucket := range r.edges {
		if parentGen <= maxCollected {
			continue
		}
		for child := range bucket {
			out = append(out, child)
		}
	}
	return out
}

// dropGeneration clears remembered edges whose parent generation was itself
// swept this cycle (it's no longer "older" than what was just collected,
// and any edges from it were retraced directly during marking).
func (r *rememberedSet) dropGeneration(g byte) {
	delete(r.edges, g)
}
