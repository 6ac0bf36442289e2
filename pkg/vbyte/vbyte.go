// Package vbyte implements Variable Byte coding: groups of 7 payload bits
// per byte, most-significant group first, with the continuation bit (0x80)
// set on every byte except the last.
//
// spec.md's own worked examples (128 -> 0x81, 0x00; 200 -> 0x81, 0x48) use
// this polarity. original_source/vbencoder.py implements the mirror-image
// convention — its terminator bit is set on the *last* byte instead of
// cleared there — so this package follows spec.md's worked bytes rather
// than the Python reference's polarity.
package vbyte

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

const (
	continuationBit = 0x80
	payloadMask     = 0x7F
)

// Encode encodes a single value to Variable Byte. A value of 0 encodes as
// a single zero byte.
func Encode(v uint64) []byte {
	// Collect 7-bit groups, least significant first.
	groups := []byte{byte(v & payloadMask)}
	v >>= 7
	for v > 0 {
		groups = append(groups, byte(v&payloadMask))
		v >>= 7
	}

	// Emit most-significant group first; only the final (least
	// significant) byte has its continuation bit clear.
	out := make([]byte, len(groups))
	last := len(groups) - 1
	for i := 0; i <= last; i++ {
		g := groups[last-i]
		if i == last {
			out[i] = g
		} else {
			out[i] = g | continuationBit
		}
	}
	return out
}

// DecodeNumber reads a single number starting at byteOffset = bitOffset/8
// and returns the value plus the bit offset of the next byte boundary
// after the terminating byte.
func DecodeNumber(b []byte, bitOffset int) (uint64, int, error) {
	byteIndex := bitOffset / 8
	var value uint64
	for i := byteIndex; i < len(b); i++ {
		value = (value << 7) | uint64(b[i]&payloadMask)
		if b[i]&continuationBit == 0 {
			return value, (i + 1) * 8, nil
		}
	}
	return 0, bitOffset, fmt.Errorf("%w: vbyte stream ended with continuation bit set", codecerr.ErrTruncatedStream)
}

// Decode consumes all bytes, decoding a sequence of Variable Byte values.
func Decode(b []byte) ([]uint64, error) {
	var values []uint64
	offset := 0
	for offset < len(b)*8 {
		v, next, err := DecodeNumber(b, offset)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		offset = next
	}
	return values, nil
}
