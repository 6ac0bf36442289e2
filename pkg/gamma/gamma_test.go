package gamma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSingleValues(t *testing.T) {
	for n := uint64(1); n <= 64; n++ {
		buf, _ := Encode(n)
		decoded, err := Decode(buf, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint64{n}, decoded, "n=%d", n)
	}
}

func TestEncodeDecodeSequence(t *testing.T) {
	values := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 100, 1000, 1 << 20}

	var buf []byte
	offset := 0
	for _, v := range values {
		enc, padding := Encode(v)
		buf, offset = appendBits(buf, offset, enc, padding)
	}

	decoded, err := Decode(buf, len(values), 0)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

// appendBits concatenates enc (with the given trailing padding) onto buf at
// the bit cursor offset, growing buf as needed. It mirrors
// pkg/bitbuffer.AppendBytesWithPadding without importing it, to keep this
// package's tests independent.
func appendBits(buf []byte, offset int, enc []byte, padding int) ([]byte, int) {
	total := len(enc)*8 - padding
	for i := 0; i < total; i++ {
		srcByte := i / 8
		srcBit := i % 8
		bit := (enc[srcByte] >> uint(7-srcBit)) & 1

		destByte := offset / 8
		destBit := offset % 8
		for destByte >= len(buf) {
			buf = append(buf, 0)
		}
		if bit == 1 {
			buf[destByte] |= 1 << uint(7-destBit)
		}
		offset++
	}
	return buf, offset
}
