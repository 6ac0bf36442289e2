// Package unary implements unary coding: n is written as (n-1) one-bits
// followed by a zero-bit, so n=1 is just "0". Grounded on
// original_source/unaryencoder.py's optimize=True path — its non-optimized
// form writes n ones then a zero (the "mirror form" used directly by
// pkg/gamma for its exponent prefix, which may legitimately be zero) and
// strips the always-present leading one-bit when optimized, landing on
// exactly this convention.
package unary

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/bitutil"
	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

// Encode writes n as (n-1) one-bits followed by a zero-bit. n must be >= 1.
// It returns the encoded bytes and the padding (unused trailing bits) of
// the last byte.
func Encode(n uint64) ([]byte, int) {
	return encode(n, true)
}

// EncodeRaw writes n as n one-bits followed by a zero-bit (the
// non-optimized / mirror form), used by pkg/gamma to encode a bit-length
// prefix that may legitimately be zero.
func EncodeRaw(n uint64) ([]byte, int) {
	return encode(n, false)
}

func encode(n uint64, optimized bool) ([]byte, int) {
	ones := n
	if optimized {
		ones = n - 1
	}

	totalBits := ones + 1 // + terminating zero
	nBytes := (totalBits + 7) / 8
	buf := make([]byte, nBytes)

	offset := 0
	for i := uint64(0); i < ones; i++ {
		bitutil.WriteBits(buf, offset, 1, 1)
		offset++
	}
	// Terminating zero bit: buffer starts zeroed, nothing to write.
	offset++

	padding := (8 - offset%8) % 8
	return buf, padding
}

// Decode reads count numbers starting at offset bits into source, each
// written by Encode: (n-1) one-bits then a zero. optimized selects the
// block-oriented counting algorithm (true) versus bit-by-bit (false); both
// must agree on every input per spec.md §8 item 7 — they decode the same
// convention, differing only in how fast they get there.
func Decode(source []byte, count int, optimized bool, offset int) ([]uint64, error) {
	values := make([]uint64, 0, count)
	for len(values) < count {
		var ones uint64
		var err error
		if optimized {
			ones, offset, err = countOnesBlock(source, offset)
		} else {
			ones, offset, err = countOnesPlain(source, offset)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decoding unary value %d", err, len(values))
		}
		values = append(values, ones+1)
	}
	return values, nil
}

// DecodeRaw reads count numbers written by EncodeRaw: n one-bits then a
// zero, returning n directly with no +1 correction. Used by pkg/gamma to
// recover its bit-length prefix.
func DecodeRaw(source []byte, count int, offset int) ([]uint64, error) {
	values := make([]uint64, 0, count)
	for len(values) < count {
		ones, newOffset, err := countOnesPlain(source, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding raw unary value %d", err, len(values))
		}
		offset = newOffset
		values = append(values, ones)
	}
	return values, nil
}

// countOnesPlain counts leading one-bits up to (and consuming) the
// terminating zero-bit, one bit at a time.
func countOnesPlain(source []byte, offset int) (uint64, int, error) {
	totalBits := len(source) * 8
	var ones uint64
	for {
		if offset >= totalBits {
			return 0, offset, codecerr.ErrTruncatedStream
		}
		bit := bitutil.ReadBits(source, offset, 1)
		offset++
		if bit == 0 {
			return ones, offset, nil
		}
		ones++
	}
}

// countOnesBlock counts leading one-bits the same way as countOnesPlain,
// but fast-skips whole 0xFF bytes in one step when byte-aligned instead of
// checking every bit individually.
func countOnesBlock(source []byte, offset int) (uint64, int, error) {
	totalBits := len(source) * 8
	var ones uint64
	for {
		byteIndex := offset >> 3
		bitIndex := offset & 7
		if offset >= totalBits {
			return 0, offset, codecerr.ErrTruncatedStream
		}
		if bitIndex == 0 && source[byteIndex] == 0xFF {
			ones += 8
			offset += 8
			continue
		}
		bit := (source[byteIndex] >> uint(7-bitIndex)) & 1
		offset++
		if bit == 0 {
			return ones, offset, nil
		}
		ones++
	}
}
