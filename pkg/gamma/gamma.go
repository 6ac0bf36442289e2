// Package gamma implements Elias gamma coding: unary(floor(log2 n)) as a
// bit-length prefix (written via unary.EncodeRaw's "k ones then a zero"
// mirror form, since the prefix legitimately encodes 0 for n=1) followed
// by the floor(log2 n) low bits of n. Grounded on
// original_source/gammaencoder.py.
package gamma

import (
	"fmt"

	"github.com/lintang-b-s/posting-codecs/pkg/bitbuffer"
	"github.com/lintang-b-s/posting-codecs/pkg/bitutil"
	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
	"github.com/lintang-b-s/posting-codecs/pkg/unary"
)

// Encode writes n (n >= 1) as an Elias gamma code. It returns the encoded
// bytes and the padding of the last byte.
func Encode(n uint64) ([]byte, int) {
	size := bitutil.Bits(n) - 1 // floor(log2 n)

	prefix, prefixPadding := unary.EncodeRaw(uint64(size))

	buf := bitbuffer.New()
	buf.AppendBytesWithPadding(prefix, prefixPadding)

	if size > 0 {
		low := n &^ (uint64(1) << uint(size)) // n with its top bit cleared
		buf.AppendBits(low, size)
	}

	return buf.Bytes(), buf.Padding()
}

// Decode reads count Elias-gamma-encoded numbers starting at offset bits
// into source.
func Decode(source []byte, count int, offset int) ([]uint64, error) {
	values := make([]uint64, 0, count)

	for len(values) < count {
		sizes, err := unary.DecodeRaw(source, 1, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: reading gamma size prefix for value %d", codecerr.ErrTruncatedStream, len(values))
		}
		size := int(sizes[0])
		offset += size + 1 // +1 for the unary terminating zero

		if offset+size > len(source)*8 {
			return nil, fmt.Errorf("%w: truncated gamma payload for value %d", codecerr.ErrTruncatedStream, len(values))
		}

		var low uint64
		if size > 0 {
			low = bitutil.ReadBits(source, offset, size)
		}
		value := low | (uint64(1) << uint(size))

		values = append(values, value)
		offset += size
	}

	return values, nil
}
