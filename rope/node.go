package rope

import "github.com/wordcell/corevm/internal/cellpage"

// nodeKind discriminates the heap-backed rope node shapes of §3.4.
type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindSubrope
	kindConcat
	kindCustom
)

// node is the heap representation for any rope too long to fit in an
// immediate value.Value. Only the fields relevant to kind are populated;
// this mirrors a tagged union the way the teacher's Cell/DB/LF types each
// interpret the same underlying bytes differently by signature.
type node struct {
	ref    cellpage.CellRef
	kind   nodeKind
	depth  int
	length int

	// leaf
	format Format
	runes  []rune

	// subrope: a zero-copy range [first, last] into source.
	source      *node
	first, last int

	// concat
	left, right *node
	leftLength  int

	// custom
	custom *CustomRope
}

func newLeafNode(format Format, runes []rune) *node {
	n := &node{kind: kindLeaf, depth: 0, length: len(runes), format: format, runes: runes}
	bind(n)
	return n
}

func newSubropeNode(source *node, first, last, depth int) *node {
	n := &node{kind: kindSubrope, depth: depth, length: last - first + 1, source: source, first: first, last: last}
	bind(n)
	return n
}

func newConcatNode(left, right *node) *node {
	d := left.depth
	if right.depth > d {
		d = right.depth
	}
	n := &node{
		kind:       kindConcat,
		depth:      d + 1,
		length:     left.length + right.length,
		left:       left,
		right:      right,
		leftLength: left.length,
	}
	bind(n)
	return n
}

func newCustomNode(c *CustomRope) *node {
	n := &node{kind: kindCustom, depth: 0, length: c.Length(), custom: c}
	bind(n)
	return n
}

// bind registers n with the default heap so it participates in mark/sweep
// and cross-generation tracking; the returned CellRef is stashed on n.ref.
func bind(n *node) {
	ref, err := defaultHeap.Alloc(n.Cells(), n)
	if err != nil {
		panic(err) // allocation failure is fatal per spec.md §7
	}
	n.ref = ref
	for _, child := range n.Children() {
		defaultHeap.DeclareChild(ref, child)
	}
}
