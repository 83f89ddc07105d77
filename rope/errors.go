package rope

import "errors"

// ErrFormatMismatch is returned when an operation would narrow a rope's
// character format in a way that could lose data (e.g. forcing a UCS4 leaf
// into a UCS1 string buffer), per §7 "format widening is one-way".
var ErrFormatMismatch = errors.New("rope: cannot narrow character format")

// ErrOutOfRange is returned by operations given an index or range outside
// the rope's bounds where the caller needs an explicit error rather than
// the sentinel InvalidChar (§7).
var ErrOutOfRange = errors.New("rope: index out of range")
