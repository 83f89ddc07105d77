package rope

import "github.com/wordcell/corevm/value"

// Subrope implements subrope(r, first, last) per §4.4: empty when the range
// is degenerate, identity when it spans all of r, clamped at the high end,
// collapsed through an existing subrope (invariant 3), routed into a single
// concat arm when the range lies wholly inside it, materialized as a flat
// leaf when short, otherwise wrapped in a subrope node.
func Subrope(r Rope, first, last int) Rope {
	length := r.Length()
	if last < first || first >= length {
		return Empty
	}
	if last >= length {
		last = length - 1
	}
	if first == 0 && last == length-1 {
		return r
	}

	if r.isImmediate() {
		return materializeSlice(r, first, last)
	}

	n := r.node
	switch n.kind {
	case kindSubrope:
		// Rewrite to a subrope of the deepest source (invariant 3).
		return Subrope(fromNode(n.source), n.first+first, n.first+last)
	case kindConcat:
		if last < n.leftLength {
			return Subrope(fromNode(n.left), first, last)
		}
		if first >= n.leftLength {
			return Subrope(fromNode(n.right), first-n.leftLength, last-n.leftLength)
		}
	case kindCustom:
		if s, ok := n.custom.TrySubrope(first, last); ok {
			return s
		}
	}

	newLen := last - first + 1
	if newLen <= MaxShortLeaf {
		return materializeSlice(r, first, last)
	}
	return fromNode(newSubropeNode(n, first, last, n.depth))
}

func materializeSlice(r Rope, first, last int) Rope {
	runes := make([]rune, 0, last-first+1)
	it := Begin(r, first)
	for i := first; i <= last; i++ {
		runes = append(runes, it.At())
		it.Next()
	}
	return newFlatRope(leafFormatOf(r), runes)
}

// LeafFormat reports the widest leaf format reachable from r, the
// introspection strbuf needs to enforce its "no narrowing append" rule
// (§4.7).
func LeafFormat(r Rope) Format {
	return leafFormatOf(r)
}

func leafFormatOf(r Rope) Format {
	if r.isImmediate() {
		return FormatUCS1
	}
	return leafFormatOfNode(r.node)
}

func leafFormatOfNode(n *node) Format {
	switch n.kind {
	case kindLeaf:
		return n.format
	case kindSubrope:
		return leafFormatOfNode(n.source)
	case kindConcat:
		fl, fr := leafFormatOfNode(n.left), leafFormatOfNode(n.right)
		if fl.variableWidth() || (!fr.variableWidth() && fl > fr) {
			return fl
		}
		return fr
	default:
		return FormatUCS4
	}
}

// newFlatRope builds either an immediate (empty/char/small string) or a
// single heap leaf, whichever the length calls for.
func newFlatRope(format Format, runes []rune) Rope {
	switch len(runes) {
	case 0:
		return Empty
	case 1:
		if runes[0] >= 0 && runes[0] <= 0xFF {
			return Rope{imm: value.NewSmallString([]byte{byte(runes[0])})}
		}
		return Rope{imm: value.NewChar(runes[0])}
	}
	if len(runes) <= 3 && isAllByte(runes) {
		b := make([]byte, len(runes))
		for i, r := range runes {
			b[i] = byte(r)
		}
		return Rope{imm: value.NewSmallString(b)}
	}
	return fromNode(newLeafNode(format, runes))
}

func isAllByte(runes []rune) bool {
	for _, r := range runes {
		if r < 0 || r > 0xFF {
			return false
		}
	}
	return true
}

// Concat implements concat(a, b) per §4.4: empty-side shortcut, short-result
// flattening, adjacent-sublist merging, and AVL-style single/double
// rotation to keep |depth(left)-depth(right)| <= 1.
func Concat(a, b Rope) Rope {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}

	if a.Length()+b.Length() <= MaxShortLeaf {
		runes := make([]rune, 0, a.Length()+b.Length())
		runes = appendRunes(runes, a)
		runes = appendRunes(runes, b)
		fmtA, fmtB := leafFormatOf(a), leafFormatOf(b)
		f := fmtA
		if fmtB > f {
			f = fmtB
		}
		return newFlatRope(f, runes)
	}

	if !a.isImmediate() && !b.isImmediate() {
		na, nb := a.node, b.node
		if na.kind == kindSubrope && nb.kind == kindSubrope && na.source == nb.source && na.last+1 == nb.first {
			return Subrope(fromNode(na.source), na.first, nb.last)
		}
	}

	return balancedConcat(a, b)
}

func appendRunes(out []rune, r Rope) []rune {
	it := Begin(r, 0)
	for i := 0; i < r.Length(); i++ {
		out = append(out, it.At())
		it.Next()
	}
	return out
}

func balancedConcat(a, b Rope) Rope {
	da, db := a.depth(), b.depth()
	switch {
	case da > db+1:
		a1, a2 := splitRope(a)
		if a2.depth() > a1.depth() {
			a21, a22 := splitRope(a2)
			return balancedConcat(balancedConcat(a1, a21), balancedConcat(a22, b))
		}
		return balancedConcat(a1, balancedConcat(a2, b))
	case db > da+1:
		b1, b2 := splitRope(b)
		if b1.depth() > b2.depth() {
			b11, b12 := splitRope(b1)
			return balancedConcat(balancedConcat(a, b11), balancedConcat(b12, b2))
		}
		return balancedConcat(balancedConcat(a, b1), b2)
	default:
		return rawConcat(a, b)
	}
}

// rawConcat builds a concat node directly, with no rebalancing: used once
// the caller has already established |depth(a)-depth(b)| <= 1.
func rawConcat(a, b Rope) Rope {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	an := nodeOf(a)
	bn := nodeOf(b)
	return fromNode(newConcatNode(an, bn))
}

// nodeOf materializes a heap leaf for an immediate rope so it can serve as a
// concat arm (concat nodes always point at node children).
func nodeOf(r Rope) *node {
	if !r.isImmediate() {
		return r.node
	}
	runes := appendRunes(make([]rune, 0, r.Length()), r)
	return newLeafNode(leafFormatOf(r), runes)
}

// splitRope splits a concat node's arms, or reconstructs a sublist's arms by
// producing two subropes of the underlying concat's arms when the node is a
// subrope of a concat (§4.4 "split(node)").
func splitRope(r Rope) (Rope, Rope) {
	n := r.node
	switch n.kind {
	case kindConcat:
		return fromNode(n.left), fromNode(n.right)
	case kindSubrope:
		src := n.source
		if src.kind == kindConcat {
			splitPoint := src.leftLength
			if n.last < splitPoint {
				return Subrope(fromNode(src.left), n.first, n.last), Empty
			}
			if n.first >= splitPoint {
				return Empty, Subrope(fromNode(src.right), n.first-splitPoint, n.last-splitPoint)
			}
			return Subrope(fromNode(src.left), n.first, splitPoint-1),
				Subrope(fromNode(src.right), 0, n.last-splitPoint)
		}
	}
	// Leaves and custom ropes never reach here because they never exceed
	// MaxShortLeaf once unbalanced enough to need a rotation.
	mid := n.length / 2
	return Subrope(r, 0, mid-1), Subrope(r, mid, n.length-1)
}

// Repeat implements repeat(r, count): concatenates r to itself count times
// using repeated squaring so it stays O(log count) concatenations.
func Repeat(r Rope, count int) Rope {
	if count <= 0 || r.IsEmpty() {
		return Empty
	}
	result := Empty
	base := r
	for count > 0 {
		if count&1 == 1 {
			result = Concat(result, base)
		}
		count >>= 1
		if count > 0 {
			base = Concat(base, base)
		}
	}
	return result
}

// Insert implements insert(r, i, ins): splice ins into r at index i.
func Insert(r Rope, i int, ins Rope) Rope {
	if ins.IsEmpty() {
		return r
	}
	if i <= 0 {
		return Concat(ins, r)
	}
	if i >= r.Length() {
		return Concat(r, ins)
	}
	head := Subrope(r, 0, i-1)
	tail := Subrope(r, i, r.Length()-1)
	return Concat(Concat(head, ins), tail)
}

// Remove implements remove(r, first, last): delete the inclusive range.
func Remove(r Rope, first, last int) Rope {
	if last < first {
		return r
	}
	length := r.Length()
	if first < 0 {
		first = 0
	}
	if last >= length {
		last = length - 1
	}
	head := Subrope(r, 0, first-1)
	tail := Subrope(r, last+1, length-1)
	return Concat(head, tail)
}

// Replace implements replace(r, first, last, with) = remove then insert.
func Replace(r Rope, first, last int, with Rope) Rope {
	return Insert(Remove(r, first, last), first, with)
}
