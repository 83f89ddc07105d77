package format

import "errors"

var (
	// ErrBoundsCheck indicates a buffer access exceeded bounds.
	ErrBoundsCheck = errors.New("format: buffer bounds exceeded")

	// ErrIntegerOverflow indicates a cell-count or byte-length computation
	// would overflow int.
	ErrIntegerOverflow = errors.New("format: integer overflow")

	// ErrRequestTooLarge indicates a request exceeded AvailableCells.
	ErrRequestTooLarge = errors.New("format: request exceeds available cells")
)
