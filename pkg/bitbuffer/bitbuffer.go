// Package bitbuffer implements BitByteArray, a growable bit-addressable byte
// buffer with an internal bit cursor. Grounded on
// original_source/bitbytearray/__init__.py; concatenation is reimplemented
// on top of pkg/bitutil's absolute-offset reads/writes instead of the
// Python reference's byte-shift algebra, with the same observable result.
package bitbuffer

import (
	"iter"

	"github.com/lintang-b-s/posting-codecs/pkg/bitutil"
)

// BitByteArray is a dynamic bit sink. The zero value is an empty buffer
// ready to use; New returns one.
type BitByteArray struct {
	buf    []byte
	bitLen int
}

// New returns an empty BitByteArray.
func New() *BitByteArray {
	return &BitByteArray{}
}

func (a *BitByteArray) growFor(extraBits int) {
	needed := bitutil.PackedLength(1, a.bitLen+extraBits)
	for len(a.buf) < needed {
		a.buf = append(a.buf, 0)
	}
}

// AppendBits appends the k low bits of value, most-significant-bit first.
func (a *BitByteArray) AppendBits(value uint64, k int) {
	if k == 0 {
		return
	}
	a.growFor(k)
	bitutil.WriteBits(a.buf, a.bitLen, k, value)
	a.bitLen += k
}

// AppendBit appends a single bit (0 or 1).
func (a *BitByteArray) AppendBit(b int) {
	a.AppendBits(uint64(b&1), 1)
}

// Append concatenates other onto a, preserving bit alignment: a's bit
// cursor advances by exactly other.BitLength() bits, whatever byte
// boundary a was sitting on.
func (a *BitByteArray) Append(other *BitByteArray) {
	a.AppendBytesWithPadding(other.buf, other.Padding())
}

// AppendBytesWithPadding appends the meaningful bits of data — a byte
// slice whose last byte carries the given padding bits of trailing zeros
// — onto a.
func (a *BitByteArray) AppendBytesWithPadding(data []byte, padding int) {
	total := len(data)*8 - padding
	offset := 0
	for total > 0 {
		chunk := total
		if chunk > 32 {
			chunk = 32
		}
		a.AppendBits(bitutil.ReadBits(data, offset, chunk), chunk)
		offset += chunk
		total -= chunk
	}
}

// Bytes returns the backing bytes. Bits past BitLength are always 0.
func (a *BitByteArray) Bytes() []byte {
	return a.buf
}

// BitLength returns the exact number of meaningful bits written so far.
func (a *BitByteArray) BitLength() int {
	return a.bitLen
}

// Padding returns the number of unused trailing bits in the last byte:
// (8 - bitLen mod 8) mod 8.
func (a *BitByteArray) Padding() int {
	return (8 - a.bitLen%8) % 8
}

// HasData reports whether the buffer holds any bytes at all.
func (a *BitByteArray) HasData() bool {
	return len(a.buf) > 0
}

// Clear empties the buffer.
func (a *BitByteArray) Clear() {
	a.buf = nil
	a.bitLen = 0
}

// IterBits returns a fresh, restartable iterator over the buffer's bits in
// MSB-first order, mirroring the iter.Seq2 shape osm-search's
// InvertedIndexIterator.IterateInvertedIndex uses for its own bit-granular
// walk over posting lists.
func (a *BitByteArray) IterBits() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < a.bitLen; i++ {
			bit := int(bitutil.ReadBits(a.buf, i, 1))
			if !yield(bit) {
				return
			}
		}
	}
}
