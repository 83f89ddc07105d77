package rope

// CustomRope lets a caller plug an arbitrary backing store (e.g. a memory-
// mapped file, a generated sequence) into the rope tree without copying its
// contents into leaves, mirroring the teacher's interface-based storage
// backends rather than the original's raw function-pointer descriptor table
// (§4.4 "Custom rope types").
type CustomRope struct {
	// Length returns the custom rope's character count. Must be constant
	// for the lifetime of the CustomRope.
	LengthFn func() int

	// CharAtFn returns the character at local index i.
	CharAtFn func(i int) rune

	// SubropeFn optionally returns a zero-copy subrope of [first, last]
	// without falling back to per-character materialization. Returning
	// ok=false defers to the generic Subrope path.
	SubropeFn func(first, last int) (Rope, bool)
}

// Length returns c's character count.
func (c *CustomRope) Length() int { return c.LengthFn() }

// CharAt returns the character at local index i.
func (c *CustomRope) CharAt(i int) rune { return c.CharAtFn(i) }

// TrySubrope attempts c's fast-path subrope extraction.
func (c *CustomRope) TrySubrope(first, last int) (Rope, bool) {
	if c.SubropeFn == nil {
		return Rope{}, false
	}
	return c.SubropeFn(first, last)
}

// NewCustom wraps c as a Rope backed by a custom node.
func NewCustom(c *CustomRope) Rope {
	return fromNode(newCustomNode(c))
}
