package unary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeOptimizedRoundTrip(t *testing.T) {
	tests := [][]uint64{
		{1},
		{1, 1, 1},
		{3},
		{1, 2, 3, 4, 5},
		{8, 16, 1, 9},
	}
	for _, values := range tests {
		buf := joinOptimized(values)
		decoded, err := Decode(buf, len(values), true, 0)
		require.NoError(t, err)
		assert.Equal(t, values, decoded)
	}
}

func TestEncodeRawDecodeRawRoundTrip(t *testing.T) {
	for n := uint64(0); n <= 16; n++ {
		buf, _ := EncodeRaw(n)
		decoded, err := DecodeRaw(buf, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint64{n}, decoded, "n=%d", n)
	}
}

func TestPlainAndOptimizedDecodersAgree(t *testing.T) {
	// Both decoding algorithms must agree on every value of length <= 16
	// bits when reading the same Encode-produced stream, even though one
	// counts bit-by-bit and the other fast-skips whole 0xFF bytes.
	for n := uint64(1); n <= 16; n++ {
		buf, _ := Encode(n)

		plain, err := Decode(buf, 1, false, 0)
		require.NoError(t, err)

		optimized, err := Decode(buf, 1, true, 0)
		require.NoError(t, err)

		assert.Equal(t, plain, optimized)
		assert.Equal(t, []uint64{n}, plain)
	}
}

func TestEncodeSingleValueIsJustZero(t *testing.T) {
	buf, padding := Encode(1)
	assert.Equal(t, []byte{0x00}, buf)
	assert.Equal(t, 7, padding)
}

func joinOptimized(values []uint64) []byte {
	bba := newTestBuffer()
	for _, v := range values {
		buf, padding := Encode(v)
		bba.append(buf, padding)
	}
	return bba.bytes
}

// A tiny bit-append helper local to this test file, avoiding a dependency
// on pkg/bitbuffer so this package's tests stand on their own.
type testBuffer struct {
	bytes  []byte
	bitLen int
}

func newTestBuffer() *testBuffer {
	return &testBuffer{}
}

func (b *testBuffer) append(data []byte, padding int) {
	total := len(data)*8 - padding
	for i := 0; i < total; i++ {
		byteIndex := i / 8
		bitIndex := i % 8
		bit := (data[byteIndex] >> uint(7-bitIndex)) & 1

		destByte := b.bitLen / 8
		destBit := b.bitLen % 8
		for destByte >= len(b.bytes) {
			b.bytes = append(b.bytes, 0)
		}
		if bit == 1 {
			b.bytes[destByte] |= 1 << uint(7-destBit)
		}
		b.bitLen++
	}
}
