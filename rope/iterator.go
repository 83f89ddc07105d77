package rope

import "github.com/wordcell/corevm/value"

// maxIteratorSubnodeDepth bounds how many hops above the cached leaf the
// cached subnode sits (§4.6: "nearest ancestor within a cache window no
// deeper than 3"). A seek that lands within the subnode's range re-descends
// at most this many hops instead of walking back up to the root.
const maxIteratorSubnodeDepth = 3

// maxIteratorPathLen is the size of seek's scratch descent-path buffer. A
// balanced rope's depth is O(log n); this comfortably covers any rope this
// engine can build without allocating. Trees deeper than this just fall
// back to caching the deepest node the buffer held, which only costs a
// slower re-descent, never incorrect results.
const maxIteratorPathLen = 64

// Iterator walks a Rope by character index. Within a run of indices backed
// by the same leaf, At/Next/Prev are O(1): the iterator caches the leaf
// node (or the immediate value itself) together with the index range it
// covers. A seek past that range doesn't necessarily walk back to the
// root: it also keeps a cached subnode, the nearest ancestor of the
// previous leaf within maxIteratorSubnodeDepth hops, and re-descends from
// there whenever the new index still falls inside the subnode's range
// (§4.6), which is the common case for a cursor moving through a rope
// sequentially or in a tight local loop.
type Iterator struct {
	r Rope

	index int

	// Valid range [first, last] of indices the cached leaf/imm covers.
	// An empty iterator (index out of [0, r.Length())) has first > last.
	first, last int

	// Exactly one of the two caches below is meaningful, mirroring
	// whichever branch of Rope the descent landed on.
	leaf      *node // cached leaf node; leafBase is index of leaf.runes[0]
	leafBase  int
	imm       value.Value // cached immediate word, when r.isImmediate()
	custom    *CustomRope
	customOff int // index offset of custom's local index 0

	// subnode is the nearest ancestor of leaf/custom within
	// maxIteratorSubnodeDepth hops, covering absolute indices
	// [subnodeBase, subnodeBase+subnode.length-1]. hasSubnode is false
	// only before the first seek or when r is immediate.
	subnode     *node
	subnodeBase int
	hasSubnode  bool
}

// Begin returns an iterator positioned at index i of r.
func Begin(r Rope, i int) Iterator {
	it := Iterator{r: r, index: i}
	it.seek(i)
	return it
}

// End returns an iterator positioned one past the last character of r,
// matching the conventional "end" sentinel of the teacher's cursor types.
func End(r Rope) Iterator {
	return Begin(r, r.Length())
}

// Forward returns an iterator advanced by n positions (n may be negative).
func Forward(it Iterator, n int) Iterator {
	it.MoveTo(it.index + n)
	return it
}

// Backward returns an iterator moved back by n positions.
func Backward(it Iterator, n int) Iterator {
	it.MoveTo(it.index - n)
	return it
}

// IsEnd reports whether it has advanced past the last valid index.
func (it *Iterator) IsEnd() bool {
	return it.index < 0 || it.index >= it.r.Length()
}

// Index returns the iterator's current character index.
func (it *Iterator) Index() int { return it.index }

// At returns the character at the iterator's current position, or
// InvalidChar if the iterator is at End.
func (it *Iterator) At() rune {
	if it.IsEnd() {
		return InvalidChar
	}
	if it.index < it.first || it.index > it.last {
		it.seek(it.index)
		if it.IsEnd() {
			return InvalidChar
		}
	}
	switch {
	case it.leaf != nil:
		return it.leaf.runes[it.index-it.leafBase]
	case it.custom != nil:
		return it.custom.CharAt(it.index - it.customOff)
	default:
		switch it.imm.TypeTag() {
		case value.TypeChar:
			return it.imm.Char()
		case value.TypeSmallString:
			return rune(it.imm.SmallStringAt(it.index))
		default:
			return InvalidChar
		}
	}
}

// Next advances the iterator by one position.
func (it *Iterator) Next() { it.MoveTo(it.index + 1) }

// Prev moves the iterator back by one position.
func (it *Iterator) Prev() { it.MoveTo(it.index - 1) }

// MoveTo repositions the iterator at absolute index i, re-descending from
// the root only if i falls outside the currently cached leaf range.
func (it *Iterator) MoveTo(i int) {
	it.index = i
	if i >= it.first && i <= it.last {
		return
	}
	it.seek(i)
}

// Compare orders it and other by index alone: -1, 0 or 1 as its index is
// below, equal to or above other's. The ropes they walk are not compared.
func (it *Iterator) Compare(other *Iterator) int {
	switch {
	case it.index < other.index:
		return -1
	case it.index > other.index:
		return 1
	default:
		return 0
	}
}

// seek locates the leaf (or immediate, or custom rope) owning index i,
// populating the cache fields. When i still falls within the cached
// subnode's range, the descent starts from there instead of it.r's root,
// bounding the walk to a handful of hops (§4.6); otherwise it falls back
// to a full root descent, which also refreshes the subnode cache for
// subsequent seeks.
func (it *Iterator) seek(i int) {
	it.leaf, it.custom = nil, nil
	if i < 0 || i >= it.r.Length() {
		it.first, it.last = 1, 0 // empty range: forces re-seek on any future At
		return
	}
	if it.r.isImmediate() {
		it.imm = it.r.imm
		it.first, it.last = 0, it.r.Length()-1
		it.hasSubnode = false
		return
	}

	base := 0
	n := it.r.node
	lo, hi := 0, it.r.Length()-1
	if it.hasSubnode && i >= it.subnodeBase && i < it.subnodeBase+it.subnode.length {
		base, n = it.subnodeBase, it.subnode
		lo, hi = it.subnodeBase, it.subnodeBase+it.subnode.length-1
	}
	viaSubrope := false

	var path [maxIteratorPathLen]struct {
		n    *node
		base int
	}
	depth := 0

	for {
		if depth < len(path) {
			path[depth].n, path[depth].base = n, base
		}
		depth++
		switch n.kind {
		case kindLeaf:
			it.leaf = n
			it.leafBase = base
			it.first, it.last = max(base, lo), min(base+n.length-1, hi)
			it.cacheSubnode(&path, depth)
			if viaSubrope {
				it.subnode, it.subnodeBase = path[0].n, path[0].base
			}
			return
		case kindSubrope:
			lo, hi = max(lo, base), min(hi, base+n.length-1)
			viaSubrope = true
			base -= n.first
			n = n.source
		case kindConcat:
			if i-base < n.leftLength {
				hi = min(hi, base+n.leftLength-1)
				n = n.left
			} else {
				base += n.leftLength
				lo = max(lo, base)
				n = n.right
			}
		case kindCustom:
			it.custom = n.custom
			it.customOff = base
			it.first, it.last = max(base, lo), min(base+n.length-1, hi)
			it.cacheSubnode(&path, depth)
			if viaSubrope {
				it.subnode, it.subnodeBase = path[0].n, path[0].base
			}
			return
		}
	}
}

// cacheSubnode remembers the node maxIteratorSubnodeDepth hops above the
// node seek just landed on (clamped to the shallowest node the path buffer
// recorded, i.e. the root when the whole descent fit in the buffer), so the
// next out-of-range seek can re-descend from there instead of the root.
func (it *Iterator) cacheSubnode(path *[maxIteratorPathLen]struct {
	n    *node
	base int
}, depth int) {
	recorded := depth
	if recorded > len(path) {
		recorded = len(path)
	}
	ancestor := recorded - 1 - maxIteratorSubnodeDepth
	if ancestor < 0 {
		ancestor = 0
	}
	it.subnode = path[ancestor].n
	it.subnodeBase = path[ancestor].base
	it.hasSubnode = true
}
