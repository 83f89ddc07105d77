package rope

// Normalize converts r to format, per §4.4 "Normalize". When flatten is
// true the result is always a single leaf; otherwise the tree shape is
// preserved and each leaf is converted independently. Characters that don't
// fit the target format are replaced with replacement, or the whole rope
// collapses to Empty when hasReplacement is false and any character doesn't
// fit.
func Normalize(r Rope, format Format, flatten bool, replacement rune, hasReplacement bool) Rope {
	if flatten {
		return normalizeFlatten(r, format, replacement, hasReplacement)
	}
	return normalizeStructured(r, format, replacement, hasReplacement)
}

func normalizeFlatten(r Rope, format Format, replacement rune, hasReplacement bool) Rope {
	length := r.Length()
	runes := make([]rune, 0, length)
	it := Begin(r, 0)
	for i := 0; i < length; i++ {
		c := it.At()
		nc, ok := fitsFormat(c, format)
		if !ok {
			if !hasReplacement {
				return Empty
			}
			nc = replacement
		}
		runes = append(runes, nc)
		it.Next()
	}
	return newFlatRope(format, runes)
}

func normalizeStructured(r Rope, format Format, replacement rune, hasReplacement bool) Rope {
	if r.isImmediate() {
		return normalizeFlatten(r, format, replacement, hasReplacement)
	}
	n := r.node
	switch n.kind {
	case kindLeaf:
		return normalizeFlatten(r, format, replacement, hasReplacement)
	case kindConcat:
		left := normalizeStructured(fromNode(n.left), format, replacement, hasReplacement)
		right := normalizeStructured(fromNode(n.right), format, replacement, hasReplacement)
		if left.IsEmpty() || right.IsEmpty() {
			return Empty
		}
		return rawConcat(left, right)
	case kindSubrope:
		return normalizeFlatten(r, format, replacement, hasReplacement)
	default:
		return normalizeFlatten(r, format, replacement, hasReplacement)
	}
}

// fitsFormat reports whether c can be represented in format unchanged.
func fitsFormat(c rune, format Format) (rune, bool) {
	switch format {
	case FormatUCS1:
		if c >= 0 && c <= 0xFF {
			return c, true
		}
	case FormatUCS2:
		if c >= 0 && c <= 0xFFFF {
			return c, true
		}
	case FormatUCS4, FormatUCS:
		return c, true
	case FormatUTF8, FormatUTF16:
		if c >= 0 && c <= 0x10FFFF && !(c >= 0xD800 && c <= 0xDFFF) {
			return c, true
		}
	}
	return 0, false
}
