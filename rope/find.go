package rope

import "hash/fnv"

// Chunk is one contiguous run of characters returned by TraverseChunks: a
// caller gets direct access to a leaf's backing runes instead of visiting
// one character at a time.
type Chunk struct {
	Format Format
	Runes  []rune
	First  int // index in the owning rope of Runes[0]
}

// TraverseChunks calls fn once per leaf covering [first, last], in order,
// stopping early if fn returns false (§4.4 "traverse_chunks").
func TraverseChunks(r Rope, first, last int, fn func(Chunk) bool) {
	if last < first {
		return
	}
	traverseChunksNode(r, 0, first, last, fn)
}

func traverseChunksNode(r Rope, base, first, last int, fn func(Chunk) bool) bool {
	if r.isImmediate() {
		lo, hi := clampRange(base, base+r.Length()-1, first, last)
		if lo > hi {
			return true
		}
		runes := make([]rune, 0, hi-lo+1)
		it := Begin(r, lo-base)
		for i := lo; i <= hi; i++ {
			runes = append(runes, it.At())
			it.Next()
		}
		return fn(Chunk{Format: FormatUCS1, Runes: runes, First: lo})
	}
	n := r.node
	switch n.kind {
	case kindLeaf:
		lo, hi := clampRange(base, base+n.length-1, first, last)
		if lo > hi {
			return true
		}
		return fn(Chunk{Format: n.format, Runes: n.runes[lo-base : hi-base+1], First: lo})
	case kindSubrope:
		lo, hi := clampRange(base, base+n.length-1, first, last)
		if lo > hi {
			return true
		}
		return traverseChunksNode(fromNode(n.source), base-n.first, lo, hi, fn)
	case kindConcat:
		if !traverseChunksNode(fromNode(n.left), base, first, last, fn) {
			return false
		}
		return traverseChunksNode(fromNode(n.right), base+n.leftLength, first, last, fn)
	case kindCustom:
		lo, hi := clampRange(base, base+n.length-1, first, last)
		if lo > hi {
			return true
		}
		runes := make([]rune, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			runes = append(runes, n.custom.CharAt(i-base))
		}
		return fn(Chunk{Format: FormatUCS4, Runes: runes, First: lo})
	}
	return true
}

func clampRange(nodeLo, nodeHi, first, last int) (int, int) {
	lo, hi := nodeLo, nodeHi
	if lo < first {
		lo = first
	}
	if hi > last {
		hi = last
	}
	return lo, hi
}

// Find returns the index of the first occurrence of c in r at or after
// from, or -1 if none (§4.4 "find").
func Find(r Rope, c rune, from int) int {
	result := -1
	TraverseChunks(r, from, r.Length()-1, func(ch Chunk) bool {
		for i, rn := range ch.Runes {
			if rn == c {
				result = ch.First + i
				return false
			}
		}
		return true
	})
	return result
}

// HashChunks computes a content hash of r, chunk by chunk, for use as a map
// key by the hash-map front-end (§4.8 "rope_hash_chunks(r)"). It hashes the
// chunks TraverseChunks yields; a custom rope is read through CharAt into
// one chunk covering the whole custom node.
func HashChunks(r Rope) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	TraverseChunks(r, 0, r.Length()-1, func(c Chunk) bool {
		for _, rn := range c.Runes {
			buf[0] = byte(rn)
			buf[1] = byte(rn >> 8)
			buf[2] = byte(rn >> 16)
			buf[3] = byte(rn >> 24)
			h.Write(buf[:])
		}
		return true
	})
	return h.Sum64()
}

// Search returns the index of the first occurrence of the subsequence
// needle in r at or after from, or -1 if none (§4.4 "search"). It is a
// straightforward character-by-character scan: ropes don't expose a
// substring index, so there's no faster structural shortcut available.
func Search(r Rope, needle Rope, from int) int {
	nlen := needle.Length()
	if nlen == 0 {
		return from
	}
	rlen := r.Length()
	for start := from; start+nlen <= rlen; start++ {
		if Compare(Subrope(r, start, start+nlen-1), needle) == 0 {
			return start
		}
	}
	return -1
}
