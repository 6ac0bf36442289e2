package gaps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/posting-codecs/pkg/codecerr"
)

func TestToGapsFromGapsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []uint64
	}{
		{"empty", nil},
		{"single", []uint64{42}},
		{"contiguous", []uint64{1, 2, 3, 4, 5}},
		{"sparse", []uint64{5, 10, 20, 40, 80, 160}},
		{"leading zero", []uint64{0, 1, 3, 7, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gapsOut, err := ToGaps(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.values, FromGaps(gapsOut))
		})
	}
}

func TestToGapsRejectsNonMonotonic(t *testing.T) {
	_, err := ToGaps([]uint64{5, 3, 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, codecerr.ErrNonMonotonic))
}

func TestToGapsRejectsRepeatedValue(t *testing.T) {
	_, err := ToGaps([]uint64{5, 5, 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, codecerr.ErrNonMonotonic))
}
