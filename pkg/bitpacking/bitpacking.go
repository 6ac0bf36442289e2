// Package bitpacking packs fixed-width integers into a contiguous bit
// stream: n values of exactly k bits each, most-significant-bit first,
// zero-padded to a byte boundary. Grounded on
// original_source/bitpackingencoder.py, whose encoder always prefixes a
// VByte(b-1) width header; this package keeps that prefixed form behind a
// separate "self-describing" entry point and exposes an unprefixed core
// Encode/Decode (Encode takes the width and returns the bytes and the
// padding; Decode takes the width back), since a caller that already knows the width (e.g. pkg/pfor,
// which stores it in its own header) shouldn't pay for a redundant one.
package bitpacking

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/bitutil"
	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
	"github.com/lintang-b-s/posting-codecs/pkg/vbyte"
)

// Width returns the number of bits needed to hold the largest value in
// values (minimum 1, since a zero-bit field can't be read back).
func Width(values []uint64) int {
	max := uint64(0)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	w := bitutil.Bits(max)
	if w == 0 {
		w = 1
	}
	return w
}

// Encode packs each of values into exactly k bits. Every value must fit in
// k bits. It returns the packed bytes and the padding of the last byte.
func Encode(values []uint64, k int) ([]byte, int, error) {
	nBytes := bitutil.PackedLength(len(values), k)
	buf := make([]byte, nBytes)

	offset := 0
	limit := uint64(1) << uint(k)
	for i, v := range values {
		if k < 64 && v >= limit {
			return nil, 0, fmt.Errorf("%w: value %d at index %d does not fit in %d bits", codecerr.ErrValueTooLarge, v, i, k)
		}
		bitutil.WriteBits(buf, offset, k, v)
		offset += k
	}

	padding := (8 - offset%8) % 8
	return buf, padding, nil
}

// Decode unpacks count values of exactly k bits each, starting at offset
// bits into source.
func Decode(source []byte, count, k, offset int) ([]uint64, error) {
	if offset+count*k > len(source)*8 {
		return nil, fmt.Errorf("%w: bit-packed stream too short for %d values of %d bits", codecerr.ErrTruncatedStream, count, k)
	}

	values := make([]uint64, count)
	for i := 0; i < count; i++ {
		values[i] = bitutil.ReadBits(source, offset, k)
		offset += k
	}
	return values, nil
}

// EncodeSelfDescribing packs values the way
// original_source/bitpackingencoder.py does: a one-byte VByte(k-1) header
// (k is always between 1 and 32 in practice, so the header is always a
// single byte) followed by Encode's packed body.
func EncodeSelfDescribing(values []uint64, k int) ([]byte, int, error) {
	if k < 1 {
		return nil, 0, fmt.Errorf("%w: width %d is not positive", codecerr.ErrCorruptStream, k)
	}
	header := vbyte.Encode(uint64(k - 1))

	body, padding, err := Encode(values, k)
	if err != nil {
		return nil, 0, err
	}

	return append(header, body...), padding, nil
}

// DecodeSelfDescribing reads a width header written by
// EncodeSelfDescribing, then unpacks count values.
func DecodeSelfDescribing(source []byte, count int) ([]uint64, error) {
	kMinus1, nextBit, err := vbyte.DecodeNumber(source, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: reading bit-packing width header", err)
	}
	k := int(kMinus1) + 1

	return Decode(source, count, k, nextBit)
}
