// Package simple16 implements Simple16 word packing: each 32-bit word
// carries a 4-bit format selector (0-15) in its top bits followed by up to
// 28 values packed according to the chosen format's slot widths. Grounded
// on original_source/simple16encoder.py, whose S16_FORMATS table (credited
// there to Zhang/Long/Suel and the kamikaze/lemire implementations) has the
// canonical sixteen slot layouts; this package adopts that table verbatim.
// Its selector numbers run in the reverse of the canonical order: selector
// 15 is 28 one-bit slots and selector 0 is one 28-bit slot, so words
// written here are not interchangeable with Simple16 data that numbers
// the layouts the canonical way.
package simple16

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

// formats lists, for each selector 0-15, the bit width of every slot in
// that word, most-significant slot first.
var formats = [16][]int{
	0:  {28},
	1:  {14, 14},
	2:  {10, 9, 9},
	3:  {7, 7, 7, 7},
	4:  {5, 5, 6, 6, 6},
	5:  {6, 6, 6, 5, 5},
	6:  {4, 4, 5, 5, 5, 5},
	7:  {5, 5, 5, 5, 4, 4},
	8:  {4, 4, 4, 4, 4, 4, 4},
	9:  {3, 4, 4, 4, 4, 3, 3, 3},
	10: {4, 3, 3, 3, 3, 3, 3, 3, 3},
	11: {2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	12: {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2},
	13: {1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1},
	14: {2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	15: {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
}

const headerBits = 4

// mask returns (1<<k)-1 for k in [0, 32].
func mask(k int) uint32 {
	if k >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << uint(k)) - 1
}

// findFormat picks the widest-slot-count format whose slots all fit the
// values starting at values[start], the same descending-key scan
// find_optimal_format uses, capped so a format never reaches past the end
// of values ("sobre-ajuste" guard in the reference).
func findFormat(values []uint64, start int) (selector int, slotsUsed int) {
	for s := 15; s >= 0; s-- {
		slots := formats[s]
		n := len(slots)
		if n > len(values)-start {
			n = len(values) - start
		}
		fits := true
		for i := 0; i < n; i++ {
			if values[start+i] > uint64(mask(slots[i])) {
				fits = false
				break
			}
		}
		if fits {
			return s, len(slots)
		}
	}
	// format 0 (one 28-bit slot) fits any value below 2^28, which the
	// caller's bounds check guarantees for values[start], so the loop
	// always returns and this line is unreachable in practice.
	return 15, len(formats[15])
}

// Encode packs values into a sequence of 32-bit Simple16 words. It returns
// codecerr.ErrValueTooLarge if any value exceeds 2^28-1, the largest slot
// width Simple16 supports.
func Encode(values []uint64) ([]uint32, error) {
	var words []uint32

	for start := 0; start < len(values); {
		if values[start] >= 1<<28 {
			return nil, fmt.Errorf("%w: value %d at index %d exceeds simple16's 28-bit slot limit", codecerr.ErrValueTooLarge, values[start], start)
		}

		selector, slotsUsed := findFormat(values, start)
		toEncode := slotsUsed
		if toEncode > len(values)-start {
			toEncode = len(values) - start
		}

		word := uint32(selector) << 28
		bitsRemaining := 28
		for i := 0; i < toEncode; i++ {
			w := formats[selector][i]
			bitsRemaining -= w
			word |= uint32(values[start+i]) << uint(bitsRemaining)
		}

		words = append(words, word)
		start += toEncode
	}

	return words, nil
}

// DecodeWord decodes a single 32-bit Simple16 word into its constituent
// values.
func DecodeWord(word uint32) []uint64 {
	selector := int(word>>28) & 0xF
	slots := formats[selector]

	values := make([]uint64, len(slots))
	offset := 0
	for i, w := range slots {
		offset += w
		values[i] = uint64((word >> uint(28-offset)) & mask(w))
	}
	return values
}

// Decode decodes a sequence of Simple16 words into count values, trimming
// the trailing slots of the final word that don't correspond to real
// values (a word may over-provision slots beyond what was asked).
func Decode(words []uint32, count int) ([]uint64, error) {
	values := make([]uint64, 0, count)
	for _, word := range words {
		if len(values) >= count {
			break
		}
		decoded := DecodeWord(word)
		values = append(values, decoded...)
	}

	if len(values) < count {
		return nil, fmt.Errorf("%w: simple16 stream produced %d values, wanted %d", codecerr.ErrCountMismatch, len(values), count)
	}

	return values[:count], nil
}
