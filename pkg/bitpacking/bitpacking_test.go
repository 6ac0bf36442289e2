package bitpacking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

func TestEncodeDecodeWorkedExample(t *testing.T) {
	// 128 values whose maximum is 127, so each needs exactly 7 bits —
	// the seed scenario's width/byte-count relationship (count=128,
	// width=7, len(encoded)=ceil(128*7/8)=112 bytes).
	values := make([]uint64, 128)
	for i := range values {
		values[i] = uint64(i)
	}

	width := Width(values)
	require.Equal(t, 7, width)

	encoded, padding, err := Encode(values, width)
	require.NoError(t, err)
	assert.Len(t, encoded, 112)
	assert.Equal(t, 0, padding)

	decoded, err := Decode(encoded, len(values), width, 0)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestEncodeRejectsOverflow(t *testing.T) {
	_, _, err := Encode([]uint64{1, 2, 8}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codecerr.ErrValueTooLarge))
}

func TestSelfDescribingRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 100, 511}
	width := Width(values)

	encoded, _, err := EncodeSelfDescribing(values, width)
	require.NoError(t, err)

	decoded, err := DecodeSelfDescribing(encoded, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}
