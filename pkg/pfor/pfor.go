// Package pfor implements PForDelta (NewPFD and OptPFD): most values in a
// block are packed at a common width b; values that don't fit are recorded
// as out-of-band exceptions (their low b bits stay in the packed region,
// their index and high bits go into a Simple16-compressed exception list).
// Grounded on original_source/pforencoder.py.
package pfor

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/bitpacking"
	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
	"github.com/lintang-b-s/posting-codecs/pkg/simple16"
)

const bHeaderShift = 27 // top 5 bits of header word 0 hold b-1.

func mask(b int) uint64 {
	if b >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(b)) - 1
}

// estimatedSize mirrors estimate_encoded_size: the packed region plus a
// flat 32-bit charge per exception, used to rank candidate widths without
// actually Simple16-encoding the exception list for every candidate.
func estimatedSize(block []uint64, b int) int {
	limit := mask(b)
	size := 64 + len(block)*b // two 32-bit header words + packed region

	exceptions := 0
	for _, v := range block {
		if v > limit {
			exceptions++
		}
	}
	return size + exceptions*32
}

// findOptimalBNewPFD picks b by NewPFD's 90th-percentile rule: the bit
// length of the value at rank len*9/10 of the sorted block, clamped to
// [1,32], so at least 90% of the block fits in b bits. It does not consult
// estimatedSize; the exhaustive search is findOptimalBOptPFD below.
func findOptimalBNewPFD(block []uint64) int {
	sorted := append([]uint64(nil), block...)
	insertionSort(sorted)

	idx := (len(sorted) * 9) / 10
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}

	b := bitsFor(sorted[idx])
	if b < 1 {
		b = 1
	}
	if b > 32 {
		b = 32
	}
	return b
}

func findOptimalBOptPFD(block []uint64) int {
	bestB := 1
	bestSize := estimatedSize(block, 1)
	for b := 2; b <= 32; b++ {
		size := estimatedSize(block, b)
		if size < bestSize {
			bestB = b
			bestSize = size
		}
	}
	return bestB
}

func bitsFor(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

func insertionSort(s []uint64) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// EncodeNewPFD encodes block using NewPFD's 90th-percentile width rule.
func EncodeNewPFD(block []uint64) ([]uint32, error) {
	return encode(block, findOptimalBNewPFD(block))
}

// EncodeOptPFD encodes block after an exhaustive search over b in [1,32]
// that minimizes estimated size, grounded on __find_optimal_b.
func EncodeOptPFD(block []uint64) ([]uint32, error) {
	return encode(block, findOptimalBOptPFD(block))
}

func encode(block []uint64, b int) ([]uint32, error) {
	if b < 1 || b > 32 {
		return nil, fmt.Errorf("%w: pfor width %d out of range [1,32]", codecerr.ErrCorruptStream, b)
	}

	limit := mask(b)
	packedValues := make([]uint64, len(block))
	var exceptionIndexes, exceptionHighBits []uint64

	for i, v := range block {
		if v > limit {
			exceptionIndexes = append(exceptionIndexes, uint64(i))
			exceptionHighBits = append(exceptionHighBits, v>>uint(b))
			packedValues[i] = v & limit
		} else {
			packedValues[i] = v
		}
	}

	packedBytes, _, err := bitpacking.Encode(packedValues, b)
	if err != nil {
		return nil, fmt.Errorf("%w: packing pfor block at width %d", err, b)
	}
	packedWords := bytesToWords(packedBytes)

	exceptionCount := len(exceptionIndexes)
	if exceptionCount >= 1<<bHeaderShift {
		return nil, fmt.Errorf("%w: pfor exception count %d overflows header field", codecerr.ErrCorruptStream, exceptionCount)
	}

	header0 := uint32(b-1)<<bHeaderShift | uint32(exceptionCount)
	header1 := uint32(len(packedWords))

	out := make([]uint32, 0, 2+len(packedWords))
	out = append(out, header0, header1)
	out = append(out, packedWords...)

	if exceptionCount > 0 {
		combined := append(append([]uint64(nil), exceptionIndexes...), exceptionHighBits...)
		exceptionWords, err := simple16.Encode(combined)
		if err != nil {
			return nil, fmt.Errorf("%w: simple16-encoding pfor exceptions", err)
		}
		out = append(out, exceptionWords...)
	}

	return out, nil
}

// Decode decodes count values from a PFor-encoded block.
func Decode(words []uint32, count int) ([]uint64, error) {
	if len(words) < 2 {
		return nil, fmt.Errorf("%w: pfor block missing header words", codecerr.ErrTruncatedStream)
	}

	header0 := words[0]
	b := int(header0>>bHeaderShift) + 1
	exceptionCount := int(header0 & (uint32(1)<<bHeaderShift - 1))
	packedWordCount := int(words[1])

	if 2+packedWordCount > len(words) {
		return nil, fmt.Errorf("%w: pfor block shorter than declared packed region", codecerr.ErrTruncatedStream)
	}
	packedWords := words[2 : 2+packedWordCount]
	packedBytes := wordsToBytes(packedWords)

	values, err := bitpacking.Decode(packedBytes, count, b, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: unpacking pfor block", err)
	}

	if exceptionCount > 0 {
		exceptionWords := words[2+packedWordCount:]
		combined, err := simple16.Decode(exceptionWords, exceptionCount*2)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding pfor exceptions", err)
		}

		indexes := combined[:exceptionCount]
		highBits := combined[exceptionCount:]
		for i := 0; i < exceptionCount; i++ {
			idx := int(indexes[i])
			if idx < 0 || idx >= len(values) {
				return nil, fmt.Errorf("%w: pfor exception index %d out of range", codecerr.ErrCorruptStream, idx)
			}
			values[idx] |= highBits[i] << uint(b)
		}
	}

	return values, nil
}

func bytesToWords(b []byte) []uint32 {
	n := (len(b) + 3) / 4
	words := make([]uint32, n)
	for i := 0; i < len(b); i++ {
		words[i/4] |= uint32(b[i]) << uint(24-8*(i%4))
	}
	return words
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4] = byte(w >> 24)
		out[i*4+1] = byte(w >> 16)
		out[i*4+2] = byte(w >> 8)
		out[i*4+3] = byte(w)
	}
	return out
}
