package rope

import "github.com/wordcell/corevm/value"

// InvalidChar is returned by At for an out-of-range index (§6 rope_at ->
// INVALID).
const InvalidChar rune = -1

// At returns the character at index i, or InvalidChar if i is out of range.
func At(r Rope, i int) rune {
	if i < 0 || i >= r.Length() {
		return InvalidChar
	}
	if r.isImmediate() {
		switch r.imm.TypeTag() {
		case value.TypeChar:
			return r.imm.Char()
		case value.TypeSmallString:
			return rune(r.imm.SmallStringAt(i))
		}
		return InvalidChar
	}
	return charAtNode(r.node, i)
}

func charAtNode(n *node, i int) rune {
	for {
		switch n.kind {
		case kindLeaf:
			return n.runes[i]
		case kindSubrope:
			i += n.first
			n = n.source
		case kindConcat:
			if i < n.leftLength {
				n = n.left
			} else {
				i -= n.leftLength
				n = n.right
			}
		case kindCustom:
			return n.custom.CharAt(i)
		default:
			return InvalidChar
		}
	}
}

// Compare lexicographically compares a and b by codepoint, returning a
// value <0, 0, or >0 (§4.4 "compare", invariant round-trip laws in §8).
func Compare(a, b Rope) int {
	la, lb := a.Length(), b.Length()
	n := la
	if lb < n {
		n = lb
	}
	ia, ib := Begin(a, 0), Begin(b, 0)
	for i := 0; i < n; i++ {
		ca, cb := ia.At(), ib.At()
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		ia.Next()
		ib.Next()
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
