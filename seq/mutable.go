package seq

import (
	"errors"

	"github.com/wordcell/corevm/value"
)

// ErrOutOfRange is returned by mutating operations given an index outside
// the list's current length (§6 "out-of-range -> error via hook").
var ErrOutOfRange = errors.New("seq: index out of range")

// NewVector implements new_vector(n, elements): copies elements into an
// immutable flat vector. Unlike the internal short-result materialization
// path, this never collapses an all-nil input into a void list: the caller
// explicitly asked for a vector.
func NewVector(elements []value.Value) List {
	if len(elements) == 0 {
		return Empty
	}
	cp := append([]value.Value(nil), elements...)
	return fromNode(newVectorNode(cp), 0)
}

// NewMVector implements new_mvector(max): reserves capacity and returns a
// zero-length mutable vector.
func NewMVector(capacity int) List {
	return fromNode(newMVectorNode(nil, capacity), 0)
}

// SetLength implements set_length(l, n): grows by appending a void-list
// run, shrinks by removing the tail (§4.5).
func SetLength(l List, n int) List {
	cur := l.Length()
	switch {
	case n == cur:
		return l
	case n > cur:
		return Concat(l, fromNode(newVoidNode(n-cur), 0))
	default:
		return Remove(l, n, cur-1)
	}
}

// SetAt implements set_at(l, i, v): in-place mutation. If the element at i
// sits in an immutable node, that node is copied into a mutable variant
// first (convert_to_mutable); if it falls within a void-list run, the run
// is fractured into a small mutable vector at the precise location,
// leaving the remainder as void lists (§4.5).
func SetAt(l List, i int, v value.Value) (List, error) {
	if i < 0 || i >= l.Length() {
		return l, ErrOutOfRange
	}
	newRoot := setAtNode(l.root, i, v)
	newRoot = updateMConcatNode(newRoot)
	return fromNode(newRoot, l.loopLength), nil
}

func setAtNode(n *node, i int, v value.Value) *node {
	switch n.kind {
	case kindVoid:
		return fractureVoid(n, i, v)

	case kindVector:
		elems := append([]value.Value(nil), n.elems...)
		elems[i] = v
		mn := newMVectorNode(elems, len(elems))
		return mn

	case kindMVector:
		n.elems[i] = v
		return n

	case kindSublist:
		child := setAtNode(n.source, n.first+i, v)
		if child == n.source {
			return n
		}
		return newSublistNode(child, n.first, n.last, child.depth)

	case kindConcat:
		if i < n.leftLength {
			left := setAtNode(n.left, i, v)
			return newConcatNode(left, n.right, true)
		}
		right := setAtNode(n.right, i-n.leftLength, v)
		return newConcatNode(n.left, right, true)

	case kindMConcat:
		if i < n.leftLength {
			n.left = setAtNode(n.left, i, v)
		} else {
			n.right = setAtNode(n.right, i-n.leftLength, v)
		}
		return n

	default:
		return n
	}
}

// fractureVoid splits a void-list run of length n.length into up to three
// pieces around index i: a leading void run, a one-element mutable vector
// holding v, and a trailing void run, concatenated back together (§4.5
// "fractures it into a small mutable vector at the precise location").
func fractureVoid(n *node, i int, v value.Value) *node {
	var pieces []*node
	if i > 0 {
		pieces = append(pieces, newVoidNode(i))
	}
	pieces = append(pieces, newMVectorNode([]value.Value{v}, 1))
	if i < n.length-1 {
		pieces = append(pieces, newVoidNode(n.length-1-i))
	}
	result := pieces[0]
	for _, p := range pieces[1:] {
		result = newConcatNode(result, p, true)
	}
	return result
}

// updateMConcatNode rebalances n using the same rotation rules as the rope
// engine's concat (§4.4, shared by §4.5), after a mutation may have changed
// a child's depth. Unlike the read path's Concat, this operates directly on
// nodes and preserves mutable kinds, so a chain of set_at calls keeps
// rebuilding in place rather than quietly reverting to immutable nodes.
// Only n itself is rebalanced: the interior concat nodes setAtNode rebuilt
// on the way down to the mutated element are not revisited.
func updateMConcatNode(n *node) *node {
	if n.kind != kindConcat && n.kind != kindMConcat {
		return n
	}
	mutable := n.kind == kindMConcat
	return nodeConcat(n.left, n.right, mutable)
}

// nodeConcat rebuilds a balanced concat node over left/right, applying the
// same single/double rotation rules as balancedConcat but working on raw
// nodes so the mutable/immutable kind of the result is caller-controlled.
func nodeConcat(left, right *node, mutable bool) *node {
	dl, dr := left.depth, right.depth
	switch {
	case dl > dr+1:
		a1, a2 := nodeSplit(left)
		if a2.depth > a1.depth {
			a21, a22 := nodeSplit(a2)
			return newConcatNode(newConcatNode(a1, a21, mutable), newConcatNode(a22, right, mutable), mutable)
		}
		return newConcatNode(a1, newConcatNode(a2, right, mutable), mutable)
	case dr > dl+1:
		b1, b2 := nodeSplit(right)
		if b1.depth > b2.depth {
			b11, b12 := nodeSplit(b1)
			return newConcatNode(newConcatNode(left, b11, mutable), newConcatNode(b12, b2, mutable), mutable)
		}
		return newConcatNode(newConcatNode(left, b1, mutable), b2, mutable)
	default:
		return newConcatNode(left, right, mutable)
	}
}

func nodeSplit(n *node) (*node, *node) {
	switch n.kind {
	case kindConcat, kindMConcat:
		return n.left, n.right
	default:
		l, r := Sublist(fromNode(n, 0), 0, n.length/2-1), Sublist(fromNode(n, 0), n.length/2, n.length-1)
		return nodeOf(l), nodeOf(r)
	}
}

// SetLoop implements set_loop(l, k): toggles l's cyclic form. k=0
// linearizes; k>0 must not exceed l's length.
func SetLoop(l List, k int) (List, error) {
	if k < 0 || k > l.Length() {
		return l, ErrOutOfRange
	}
	return fromNode(l.root, k), nil
}

// FreezeMList implements freeze_mlist(w): changes every mutable concat/
// mutable-vector node reachable from w to its immutable variant in place.
// Cells the mutable form over-allocated are simply left in the bitmap; the
// next sweep reclaims them (§4.5 "Freezing").
func FreezeMList(l List) List {
	if l.root == nil {
		return l
	}
	return fromNode(freezeNode(l.root), l.loopLength)
}

func freezeNode(n *node) *node {
	switch n.kind {
	case kindMVector:
		n.kind = kindVector
		return n
	case kindMConcat:
		n.left = freezeNode(n.left)
		n.right = freezeNode(n.right)
		n.kind = kindConcat
		return n
	case kindConcat:
		n.left = freezeNode(n.left)
		n.right = freezeNode(n.right)
		return n
	case kindSublist:
		n.source = freezeNode(n.source)
		return n
	default:
		return n
	}
}

// IsImmutable reports whether every node reachable from l is in its
// immutable variant (§8 invariant 7, "freeze_mlist(x) produces ... with
// is_immutable(y) = true").
func IsImmutable(l List) bool {
	if l.root == nil {
		return true
	}
	return isImmutableNode(l.root)
}

func isImmutableNode(n *node) bool {
	switch n.kind {
	case kindMVector, kindMConcat:
		return false
	case kindConcat:
		return isImmutableNode(n.left) && isImmutableNode(n.right)
	case kindSublist:
		return isImmutableNode(n.source)
	default:
		return true
	}
}
