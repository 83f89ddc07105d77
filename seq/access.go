package seq

import "github.com/wordcell/corevm/value"

// At returns the element at index i, applying cyclic normalization for
// indices at or past the start of the loop, or value.Nil if i is out of
// range on an acyclic list (§4.5, §8 "cyclic normalization").
func At(l List, i int) value.Value {
	if i < 0 {
		return value.Nil
	}
	i = l.realIndex(i)
	if i < 0 || i >= l.Length() {
		return value.Nil
	}
	if l.root == nil {
		return value.Nil
	}
	return elemAt(l.root, i)
}

func elemAt(n *node, i int) value.Value {
	for {
		switch n.kind {
		case kindVoid:
			return value.Nil
		case kindVector, kindMVector:
			return n.elems[i]
		case kindSublist:
			i += n.first
			n = n.source
		case kindConcat, kindMConcat:
			if i < n.leftLength {
				n = n.left
			} else {
				i -= n.leftLength
				n = n.right
			}
		case kindCustom:
			return n.custom.ElemAt(i)
		default:
			return value.Nil
		}
	}
}

// Compare lexicographically compares a and b element-by-element using cmp
// for each pair, stopping at the first unequal pair (mirrors
// rope.Compare, §4.4/§4.5 share the compare primitive via §4.8).
func Compare(a, b List, cmp func(x, y value.Value) int) int {
	la, lb := a.Length(), b.Length()
	n := la
	if lb < n {
		n = lb
	}
	for i := 0; i < n; i++ {
		if c := cmp(At(a, i), At(b, i)); c != 0 {
			return c
		}
	}
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}
