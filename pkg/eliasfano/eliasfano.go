// Package eliasfano implements the chunk-local Elias-Fano variant ("EF
// Local"): each chunk carries everything needed to decode itself, with no
// dependency on a higher-level multi-chunk structure. Grounded on
// original_source/eliasfanoencoder.py, with the y=0 delta-since-min split
// and the F formula's exact numeric offsets resolved per the fully worked
// example in spec.md's seed tests (see DESIGN.md).
package eliasfano

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/lintang-b-s/posting-codecs/pkg/bitbuffer"
	"github.com/lintang-b-s/posting-codecs/pkg/bitutil"
	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
	"github.com/lintang-b-s/posting-codecs/pkg/vbyte"
)

const (
	discDense   = 0x00
	discClassic = 0x01
)

func mask64(k int) uint64 {
	if k >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(k)) - 1
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Encode encodes a strictly increasing chunk as EF Local. It returns the
// encoded bytes and the padding of the last byte.
func Encode(chunk []uint64) ([]byte, int, error) {
	if len(chunk) == 0 {
		return nil, 0, nil
	}
	// Strictly increasing, the same precondition pkg/gaps enforces: a
	// repeated chunk[1]==chunk[0] would make z's delta1-1 underflow.
	for i := 1; i < len(chunk); i++ {
		if chunk[i] <= chunk[i-1] {
			return nil, 0, fmt.Errorf("%w: value at index %d (%d) does not exceed predecessor (%d)",
				codecerr.ErrNonMonotonic, i, chunk[i], chunk[i-1])
		}
	}

	if len(chunk) == 1 {
		return vbyte.Encode(chunk[0]), 0, nil
	}

	y := chunk[0]
	var x uint64
	var f []uint64
	if y == 0 {
		x = 0
		f = append([]uint64(nil), chunk...)
	} else {
		delta1 := chunk[1] - y
		z := minU64(delta1, y) - 1
		x = y - z
		f = make([]uint64, len(chunk))
		f[0] = z
		for i := 1; i < len(chunk); i++ {
			f[i] = chunk[i] - y - 1
		}
	}

	u := f[len(f)-1] // f is non-decreasing by construction

	out := bitbuffer.New()
	out.AppendBytesWithPadding(vbyte.Encode(x), 0)
	out.AppendBytesWithPadding(vbyte.Encode(uint64(len(f))), 0)

	// payload := VByte(u) ++ body. u is recorded up front so the decoder
	// can derive the dense bitmap's length and, on the classic-EF path,
	// recompute l exactly as the encoder did — spec.md §4.10 calls for
	// the bitmap length to be recorded; storing u does that and doubles
	// as l's sole input, so no separate length/width field is needed.
	// The dense bitmap holds each value once, so it is used only when F has
	// no repeat; F[0] == F[1] (the only repeat F can carry) goes to the
	// classic-EF path, whose positions (f_i>>l)+i keep repeats apart.
	if len(f) > int(u>>2) && f[0] != f[1] {
		out.AppendBits(discDense, 8)
		out.AppendBytesWithPadding(vbyte.Encode(u), 0)
		bitmap, padding := encodeDenseBitmap(f, u)
		out.AppendBytesWithPadding(bitmap, padding)
	} else {
		out.AppendBits(discClassic, 8)
		out.AppendBytesWithPadding(vbyte.Encode(u), 0)
		lower, upper, err := encodeClassicEF(f, u)
		if err != nil {
			return nil, 0, err
		}
		out.Append(lower)
		out.Append(upper)
	}

	return out.Bytes(), out.Padding(), nil
}

// encodeDenseBitmap builds a membership bitmap over [0, u] using
// bits-and-blooms/bitset as the set representation, then flattens it into
// this module's own MSB-first byte layout — the library exposes no
// byte-serialization format compatible with that layout, so only its
// Set/Test surface is used here.
func encodeDenseBitmap(f []uint64, u uint64) ([]byte, int) {
	bs := bitset.New(uint(u + 1))
	for _, v := range f {
		bs.Set(uint(v))
	}

	nBytes := int((u + 1 + 7) / 8)
	buf := make([]byte, nBytes)
	for i := uint64(0); i <= u; i++ {
		if bs.Test(uint(i)) {
			bitutil.WriteBits(buf, int(i), 1, 1)
		}
	}

	bitLen := int(u + 1)
	padding := (8 - bitLen%8) % 8
	return buf, padding
}

func decodeDenseBitmap(data []byte, offset int, count int) []uint64 {
	values := make([]uint64, 0, count)
	totalBits := len(data)*8 - offset
	for pos := 0; pos < totalBits && len(values) < count; pos++ {
		if bitutil.ReadBits(data, offset+pos, 1) == 1 {
			values = append(values, uint64(pos))
		}
	}
	return values
}

// encodeClassicEF splits f into l-bit low parts and a high-bit vector with
// a bit set at position (f_i>>l)+i for each i, per spec.md's direct
// bit-vector construction — an equivalent but more directly expressible
// restatement of the Python reference's unary-gap encoding of the same
// quotients.
func encodeClassicEF(f []uint64, u uint64) (lower, upper *bitbuffer.BitByteArray, err error) {
	n := len(f)
	l := 0
	if q := u / uint64(n); q > 0 {
		l = bitutil.Bits(q) - 1
	}

	lower = bitbuffer.New()
	if l > 0 {
		for _, v := range f {
			lower.AppendBits(v&mask64(l), l)
		}
	}

	upperBitLen := n + int(u>>uint(l)) + 1
	upperBuf := make([]byte, (upperBitLen+7)/8)
	for i, v := range f {
		pos := int(v>>uint(l)) + i
		bitutil.WriteBits(upperBuf, pos, 1, 1)
	}
	upperPadding := (8 - upperBitLen%8) % 8

	upper = bitbuffer.New()
	upper.AppendBytesWithPadding(upperBuf, upperPadding)

	return lower, upper, nil
}

// Decode reads count values from EF-Local-encoded data.
func Decode(data []byte, count int) ([]uint64, error) {
	if count == 0 {
		return nil, nil
	}
	if count == 1 {
		v, _, err := vbyte.DecodeNumber(data, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding single-element ef-local chunk", err)
		}
		return []uint64{v}, nil
	}

	x, off1, err := vbyte.DecodeNumber(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ef-local x header", err)
	}
	nF, off2, err := vbyte.DecodeNumber(data, off1)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ef-local n_F header", err)
	}
	if int(nF) != count {
		return nil, fmt.Errorf("%w: ef-local n_F=%d disagrees with requested count=%d", codecerr.ErrCountMismatch, nF, count)
	}
	if off2/8 >= len(data) {
		return nil, fmt.Errorf("%w: ef-local stream missing discriminator byte", codecerr.ErrTruncatedStream)
	}
	disc := data[off2/8]

	u, off3, err := vbyte.DecodeNumber(data, off2+8)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ef-local u header", err)
	}
	payloadOffset := off3

	n := int(nF)
	var f []uint64
	switch disc {
	case discDense:
		f = decodeDenseBitmap(data, payloadOffset, n)
		if len(f) != n {
			return nil, fmt.Errorf("%w: ef-local dense bitmap produced %d values, wanted %d", codecerr.ErrCountMismatch, len(f), n)
		}
	case discClassic:
		f, err = decodeClassicEF(data, payloadOffset, n, u)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: ef-local discriminator byte %d is neither dense nor classic", codecerr.ErrCorruptStream, disc)
	}

	if x == 0 {
		return f, nil
	}

	result := make([]uint64, n)
	f1 := x + f[0]
	result[0] = f1
	for j := 1; j < n; j++ {
		result[j] = f[j] + f1 + 1
	}
	return result, nil
}

func decodeClassicEF(data []byte, offset int, n int, u uint64) ([]uint64, error) {
	l := 0
	if q := u / uint64(n); q > 0 {
		l = bitutil.Bits(q) - 1
	}

	lowerOffset := offset
	upperOffset := offset + n*l

	values := make([]uint64, n)
	pos := 0
	found := 0
	totalBits := len(data)*8 - upperOffset
	for found < n {
		if pos >= totalBits {
			return nil, fmt.Errorf("%w: ef-local classic upper bit vector exhausted before %d values decoded", codecerr.ErrTruncatedStream, n)
		}
		if bitutil.ReadBits(data, upperOffset+pos, 1) == 1 {
			high := uint64(pos - found)
			var low uint64
			if l > 0 {
				low = bitutil.ReadBits(data, lowerOffset+found*l, l)
			}
			values[found] = (high << uint(l)) | low
			found++
		}
		pos++
	}

	return values, nil
}
