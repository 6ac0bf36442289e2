// Package gaps converts a strictly increasing sequence to and from its
// d-gap representation: gap_0 = x_0, gap_i = x_i - x_{i-1} - 1 for i >= 1.
//
// original_source/gapsencoder.py implements the looser non-strict variant
// (no -1 term); spec.md is explicit that "the variant used is d-gaps" with
// the -1, so this package follows spec.md's formula.
package gaps

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

// ToGaps converts a strictly increasing list to its d-gap sequence.
// It returns codecerr.ErrNonMonotonic if the input is not strictly
// increasing (a produced gap would be negative; a repeated value would
// need a gap of -1).
func ToGaps(values []uint64) ([]uint64, error) {
	if len(values) == 0 {
		return nil, nil
	}

	gaps := make([]uint64, len(values))
	gaps[0] = values[0]

	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return nil, fmt.Errorf("%w: value at index %d (%d) is less than predecessor (%d)",
				codecerr.ErrNonMonotonic, i, values[i], values[i-1])
		}
		gap := values[i] - values[i-1]
		if gap == 0 {
			return nil, fmt.Errorf("%w: value at index %d (%d) repeats predecessor, d-gap requires a negative gap",
				codecerr.ErrNonMonotonic, i, values[i])
		}
		gaps[i] = gap - 1
	}

	return gaps, nil
}

// FromGaps is the inverse of ToGaps.
func FromGaps(gaps []uint64) []uint64 {
	if len(gaps) == 0 {
		return nil
	}

	values := make([]uint64, len(gaps))
	values[0] = gaps[0]

	for i := 1; i < len(gaps); i++ {
		values[i] = values[i-1] + gaps[i] + 1
	}

	return values
}
