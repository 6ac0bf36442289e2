// Package codecerr holds the sentinel errors shared by every codec package.
// Callers branch on error kind with errors.Is against one of these, the
// same way osm-search's pkg/kvdb exposes ErrorsKeyNotExists.
package codecerr

import "errors"

var (
	// ErrValueTooLarge is returned when an input value exceeds a codec's
	// representable range (e.g. > 2^28-1 for a Simple16 slot).
	ErrValueTooLarge = errors.New("value too large for codec")

	// ErrNonMonotonic is returned when a codec requiring a non-decreasing
	// input receives an out-of-order value.
	ErrNonMonotonic = errors.New("input is not non-decreasing")

	// ErrTruncatedStream is returned when decode runs out of input before
	// completing a value or a block.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrCorruptStream is returned when decode encounters a selector or
	// header value outside its valid range.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrCountMismatch is returned when the caller-supplied decode count
	// disagrees with what the stream allows.
	ErrCountMismatch = errors.New("count mismatch")
)
