package seq

import "github.com/wordcell/corevm/value"

// Sublist implements sublist(l, first, last) per §4.4/§4.5: the rope
// balance discipline, plus the cyclic rewrite rule for ranges that start at
// or past the loop boundary.
func Sublist(l List, first, last int) List {
	if l.IsCyclic() && first >= l.Length()-l.loopLength {
		return sublistCyclic(l, first, last)
	}

	length := l.Length()
	if last < first || first >= length {
		return Empty
	}
	if last >= length {
		last = length - 1
	}
	if first == 0 && last == length-1 {
		return l
	}

	n := l.root
	switch n.kind {
	case kindSublist:
		return Sublist(fromNode(n.source, 0), n.first+first, n.first+last)
	case kindConcat, kindMConcat:
		if last < n.leftLength {
			return Sublist(fromNode(n.left, 0), first, last)
		}
		if first >= n.leftLength {
			return Sublist(fromNode(n.right, 0), first-n.leftLength, last-n.leftLength)
		}
	case kindCustom:
		if s, ok := n.custom.TrySublist(first, last); ok {
			return s
		}
	}

	newLen := last - first + 1
	if newLen <= MaxShortLeaf {
		return materializeSlice(l, first, last)
	}
	return fromNode(newSublistNode(n, first, last, n.depth), 0)
}

// sublistCyclic implements §4.5's derived rule for a range that starts at
// or past the loop boundary: the caller only reaches here once
// first >= length-loop, so the result is always some slice of the loop,
// possibly repeated, reassembled acyclically with Concat.
func sublistCyclic(l List, first, last int) List {
	n, k := l.Length(), l.loopLength
	base := n - k
	loopSlice := Sublist(dropLoop(l), base, n-1)

	offset := (first - base) % k
	count := last - first + 1

	var result List
	pos := offset
	for count > 0 {
		take := k - pos
		if take > count {
			take = count
		}
		result = Concat(result, Sublist(loopSlice, pos, pos+take-1))
		count -= take
		pos = 0
	}
	return result
}

// dropLoop returns l with its loop length zeroed, i.e. the plain acyclic
// list over l's root node.
func dropLoop(l List) List { return fromNode(l.root, 0) }

func materializeSlice(l List, first, last int) List {
	elems := make([]value.Value, 0, last-first+1)
	for i := first; i <= last; i++ {
		elems = append(elems, elemAt(l.root, i))
	}
	return newFlatList(elems)
}

func newFlatList(elems []value.Value) List {
	if len(elems) == 0 {
		return Empty
	}
	if allNil(elems) {
		return fromNode(newVoidNode(len(elems)), 0)
	}
	return fromNode(newVectorNode(elems), 0)
}

func allNil(elems []value.Value) bool {
	for _, e := range elems {
		if !e.IsNil() {
			return false
		}
	}
	return true
}

// Concat implements concat(a, b) per §4.4/§4.5: a cyclic left operand
// absorbs (discards) the right operand entirely; otherwise the same
// empty-shortcut / short-flatten / adjacent-merge / AVL-rotation discipline
// as the rope engine applies over list nodes.
func Concat(a, b List) List {
	if a.IsCyclic() {
		return a
	}
	if a.Length() == 0 {
		return b
	}
	if b.Length() == 0 {
		return a
	}

	if a.Length()+b.Length() <= MaxShortLeaf && !b.IsCyclic() {
		elems := make([]value.Value, 0, a.Length()+b.Length())
		for i := 0; i < a.Length(); i++ {
			elems = append(elems, At(a, i))
		}
		for i := 0; i < b.Length(); i++ {
			elems = append(elems, At(b, i))
		}
		return newFlatList(elems)
	}

	if a.root != nil && b.root != nil {
		na, nb := a.root, b.root
		if na.kind == kindSublist && nb.kind == kindSublist && na.source == nb.source && na.last+1 == nb.first {
			merged := Sublist(fromNode(na.source, 0), na.first, nb.last)
			if b.IsCyclic() {
				return fromNode(merged.root, b.loopLength)
			}
			return merged
		}
	}

	result := balancedConcat(a, b)
	if b.IsCyclic() {
		return fromNode(result.root, b.loopLength)
	}
	return result
}

func balancedConcat(a, b List) List {
	da, db := a.depth(), b.depth()
	switch {
	case da > db+1:
		a1, a2 := splitList(a)
		if a2.depth() > a1.depth() {
			a21, a22 := splitList(a2)
			return rawConcat(rawConcat(a1, a21), rawConcat(a22, b))
		}
		return rawConcat(a1, rawConcat(a2, b))
	case db > da+1:
		b1, b2 := splitList(b)
		if b1.depth() > b2.depth() {
			b11, b12 := splitList(b1)
			return rawConcat(rawConcat(a, b11), rawConcat(b12, b2))
		}
		return rawConcat(rawConcat(a, b1), b2)
	default:
		return rawConcat(a, b)
	}
}

func rawConcat(a, b List) List {
	if a.Length() == 0 {
		return b
	}
	if b.Length() == 0 {
		return a
	}
	return fromNode(newConcatNode(nodeOf(a), nodeOf(b), false), 0)
}

func nodeOf(l List) *node {
	if l.root != nil {
		return l.root
	}
	return materializeSlice(l, 0, -1).root
}

func splitList(l List) (List, List) {
	n := l.root
	switch n.kind {
	case kindConcat, kindMConcat:
		return fromNode(n.left, 0), fromNode(n.right, 0)
	case kindSublist:
		src := n.source
		if src.kind == kindConcat || src.kind == kindMConcat {
			splitPoint := src.leftLength
			if n.last < splitPoint {
				return Sublist(fromNode(src.left, 0), n.first, n.last), Empty
			}
			if n.first >= splitPoint {
				return Empty, Sublist(fromNode(src.right, 0), n.first-splitPoint, n.last-splitPoint)
			}
			return Sublist(fromNode(src.left, 0), n.first, splitPoint-1),
				Sublist(fromNode(src.right, 0), 0, n.last-splitPoint)
		}
	}
	mid := n.length / 2
	return Sublist(l, 0, mid-1), Sublist(l, mid, n.length-1)
}

// Insert implements insert(l, i, ins): splices ins at index i. Inserting
// within an existing loop grows the loop by ins's length; inserting before
// an existing loop leaves the loop length unchanged; inserting a cyclic ins
// truncates l at i and adopts ins's loop, via Concat's own left-cyclic
// absorption rule (§4.5).
func Insert(l List, i int, ins List) List {
	if ins.Length() == 0 && !ins.IsCyclic() {
		return l
	}
	n, k := l.Length(), l.loopLength

	switch {
	case l.IsCyclic() && i >= n-k:
		acyclic := dropLoop(l)
		head := Sublist(acyclic, 0, i-1)
		tail := Sublist(acyclic, i, n-1)
		grown := Concat(Concat(head, ins), tail)
		if ins.IsCyclic() {
			return grown
		}
		return fromNode(grown.root, k+ins.Length())

	case l.IsCyclic(): // i < n-k: insertion strictly before the loop
		acyclic := dropLoop(l)
		head := Sublist(acyclic, 0, i-1)
		combinedHead := Concat(head, ins)
		if combinedHead.IsCyclic() {
			return combinedHead
		}
		tail := Sublist(acyclic, i, n-1)
		grown := Concat(combinedHead, tail)
		return fromNode(grown.root, k)

	case i <= 0:
		return Concat(ins, l)
	case i >= n:
		return Concat(l, ins)
	default:
		head := Sublist(l, 0, i-1)
		tail := Sublist(l, i, n-1)
		return Concat(Concat(head, ins), tail)
	}
}

// Remove implements remove(l, first, last): deletes the inclusive range,
// adjusting the loop length when the range spans (or lies within) it.
func Remove(l List, first, last int) List {
	if last < first {
		return l
	}
	n, k := l.Length(), l.loopLength
	if last >= n {
		last = n - 1
	}
	if first < 0 {
		first = 0
	}
	removed := last - first + 1

	// A range that overlaps the loop's representative copy [loopStart, n-1]
	// shrinks the loop by however many of its elements the range covers,
	// whether or not the range also reaches back into the acyclic prefix
	// (§8 "removal spanning the loop boundary"). A range entirely before
	// the loop leaves it untouched.
	newLoop := k
	loopStart := n - k
	if k > 0 && last >= loopStart {
		overlap := removed
		if first < loopStart {
			overlap = last - loopStart + 1
		}
		newLoop = k - overlap
		if newLoop < 0 {
			newLoop = 0
		}
	}

	acyclic := dropLoop(l)
	head := Sublist(acyclic, 0, first-1)
	tail := Sublist(acyclic, last+1, n-1)
	result := Concat(head, tail)
	return fromNode(result.root, newLoop)
}

// Replace implements replace(l, first, last, with) = remove then insert.
func Replace(l List, first, last int, with List) List {
	return Insert(Remove(l, first, last), first, with)
}
