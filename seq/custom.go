package seq

import "github.com/wordcell/corevm/value"

// CustomList lets a caller plug an arbitrary backing store into the list
// tree without copying its elements, the list-engine counterpart of
// rope.CustomRope (§4.4's custom-type descriptor, carried into the list
// engine per §4.5).
type CustomList struct {
	LengthFn  func() int
	ElementAt func(i int) value.Value
	SublistFn func(first, last int) (List, bool)
}

func (c *CustomList) Length() int            { return c.LengthFn() }
func (c *CustomList) ElemAt(i int) value.Value { return c.ElementAt(i) }

func (c *CustomList) TrySublist(first, last int) (List, bool) {
	if c.SublistFn == nil {
		return List{}, false
	}
	return c.SublistFn(first, last)
}
