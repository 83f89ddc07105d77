// Package seq implements the vector and list engine (component E): flat
// vectors, mutable vectors, void-list runs, and balanced sublist/concat
// trees over a cyclic-or-linear list wrapper, mirroring the rope engine's
// balance discipline but over value.Value elements instead of characters.
package seq

import (
	"github.com/wordcell/corevm/internal/cellpage"
	"github.com/wordcell/corevm/internal/format"
	"github.com/wordcell/corevm/internal/gc"
	"github.com/wordcell/corevm/value"
)

// VectorMaxLength bounds a single vector's element count to what fits in a
// single page's worth of cells: format.AvailableCells cells of 16 bytes
// each, minus the vector's own length header, divided by the 8-byte element
// width (§4.5 "bounded by VECTOR_MAX_LENGTH, determined by single-page
// capacity").
const VectorMaxLength = format.AvailableCells*format.CellSize/8 - 1

// VoidListMaxLength bounds a void-list run's length when encoded as an
// immediate, keeping it inside a 32-bit length field.
const VoidListMaxLength = 1<<31 - 1

// MaxShortLeaf is the length threshold, in elements, at or below which subrange
// and concatenation of lists materialize a flat vector rather than an
// interior sublist/concat node (mirrors rope.MaxShortLeaf, §4.5 "same
// balance discipline as ropes").
const MaxShortLeaf = 24

// nodeKind discriminates the heap-backed list node shapes of §4.5.
type nodeKind int

const (
	kindVoid nodeKind = iota
	kindVector
	kindMVector
	kindSublist
	kindConcat
	kindMConcat
	kindCustom
)

// node is the heap representation of a list's root, or any of its interior
// nodes. Only the fields relevant to kind are populated.
type node struct {
	ref    cellpage.CellRef
	kind   nodeKind
	depth  int
	length int

	// vector / mvector
	elems []value.Value
	cap   int // mvector only: reserved capacity

	// sublist: a zero-copy range [first, last] into source.
	source      *node
	first, last int

	// concat / mconcat
	left, right *node
	leftLength  int

	// custom
	custom *CustomList
}

func (n *node) mutable() bool {
	return n.kind == kindMVector || n.kind == kindMConcat
}

// Children implements gc.GCObject.
func (n *node) Children() []cellpage.CellRef {
	var out []cellpage.CellRef
	if n.left != nil {
		out = append(out, n.left.ref)
	}
	if n.right != nil {
		out = append(out, n.right.ref)
	}
	if n.source != nil {
		out = append(out, n.source.ref)
	}
	return out
}

// Cells implements gc.Sizer: every list node occupies one accounting cell
// regardless of payload size, for the same reason rope.node does (see
// DESIGN.md).
func (n *node) Cells() int { return 1 }

// defaultHeap is the process-wide GC heap backing every heap-allocated list
// node, separate from rope's so the two engines' allocation pressure and
// generation counts don't interact.
var defaultHeap = gc.NewHeap(cellpage.NewMmapSource(), 8, 256)

// PauseGC and ResumeGC expose the list engine's heap pause/resume pair to
// corevm.Runtime (§4.2, §6 "pause_gc"/"resume_gc").
func PauseGC() { defaultHeap.PauseGC() }

func ResumeGC() error { return defaultHeap.ResumeGC() }

// Preserve and Release implement preserve(word)/release(word) (§3.4, §6)
// for a list: the empty list has no root node and needs no rooting.
func Preserve(l List) {
	if l.root != nil {
		defaultHeap.Preserve(l.root.ref)
	}
}

func Release(l List) error {
	if l.root == nil {
		return nil
	}
	return defaultHeap.Release(l.root.ref)
}

func bind(n *node) {
	ref, err := defaultHeap.Alloc(n.Cells(), n)
	if err != nil {
		panic(err)
	}
	n.ref = ref
	for _, child := range n.Children() {
		defaultHeap.DeclareChild(ref, child)
	}
}

func newVoidNode(length int) *node {
	n := &node{kind: kindVoid, length: length}
	bind(n)
	return n
}

func newVectorNode(elems []value.Value) *node {
	n := &node{kind: kindVector, length: len(elems), elems: elems}
	bind(n)
	return n
}

func newMVectorNode(elems []value.Value, capacity int) *node {
	n := &node{kind: kindMVector, length: len(elems), elems: elems, cap: capacity}
	bind(n)
	return n
}

func newSublistNode(source *node, first, last, depth int) *node {
	n := &node{kind: kindSublist, depth: depth, length: last - first + 1, source: source, first: first, last: last}
	bind(n)
	return n
}

func newCustomNode(c *CustomList) *node {
	n := &node{kind: kindCustom, length: c.Length(), custom: c}
	bind(n)
	return n
}

// NewCustom wraps c as a List backed by a custom node.
func NewCustom(c *CustomList) List {
	return fromNode(newCustomNode(c), 0)
}

func newConcatNode(left, right *node, mutable bool) *node {
	d := left.depth
	if right.depth > d {
		d = right.depth
	}
	kind := kindConcat
	if mutable {
		kind = kindMConcat
	}
	n := &node{
		kind:       kind,
		depth:      d + 1,
		length:     left.length + right.length,
		left:       left,
		right:      right,
		leftLength: left.length,
	}
	bind(n)
	return n
}

// List is a persistent sequence of value.Value elements wrapping a root
// node plus a loop length (§4.5 "Lists wrap a root node ... plus a
// loop_length"). The zero List is the empty, acyclic list.
type List struct {
	root       *node
	loopLength int
}

// Empty is the empty list.
var Empty = List{}

// Length returns the number of (non-looped-extra) elements addressable
// before cyclic wraparound kicks in: the root's own element count.
func (l List) Length() int {
	if l.root == nil {
		return 0
	}
	return l.root.length
}

// Loop returns the loop length (0 for an acyclic list).
func (l List) Loop() int { return l.loopLength }

// IsCyclic reports whether l has a nonzero loop.
func (l List) IsCyclic() bool { return l.loopLength > 0 }

func (l List) depth() int {
	if l.root == nil {
		return 0
	}
	return l.root.depth
}

// Depth returns the list's tree depth (0 for an empty or flat list),
// useful for diagnostics (cmd/cellctl).
func (l List) Depth() int { return l.depth() }

func fromNode(n *node, loop int) List {
	return List{root: n, loopLength: loop}
}

// realIndex applies the cyclic-index normalization law of §4.5/§8:
// real = (i − (length − loop)) mod loop + (length − loop), for i ≥ length−loop.
func (l List) realIndex(i int) int {
	n, k := l.Length(), l.loopLength
	if k <= 0 || i < n-k {
		return i
	}
	base := n - k
	off := (i - base) % k
	if off < 0 {
		off += k
	}
	return base + off
}
