package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name     string
		movType  string
		quantity int
		want     int
		wantErr  error
	}{
		{"in adds", TypeIn, 10, 10, nil},
		{"return adds", TypeReturn, 3, 3, nil},
		{"out subtracts", TypeOut, 4, -4, nil},
		{"adjust positive", TypeAdjust, 2, 2, nil},
		{"adjust negative", TypeAdjust, -7, -7, nil},
		{"in rejects zero", TypeIn, 0, 0, ErrInvalidQuantity},
		{"out rejects negative", TypeOut, -1, 0, ErrInvalidQuantity},
		{"adjust rejects zero", TypeAdjust, 0, 0, ErrInvalidQuantity},
		{"unknown type", "TRANSFER", 1, 0, ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedDelta(tt.movType, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeStockAfter(t *testing.T) {
	t.Run("out decrements and snapshots delta", func(t *testing.T) {
		after, delta, err := ComputeStockAfter(10, TypeOut, 3)
		require.NoError(t, err)
		assert.Equal(t, 7, after)
		assert.Equal(t, -3, delta)
		assert.Equal(t, after-10, delta)
	})

	t.Run("out to exactly zero is allowed", func(t *testing.T) {
		after, _, err := ComputeStockAfter(3, TypeOut, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, after)
	})

	t.Run("out below zero is rejected", func(t *testing.T) {
		_, _, err := ComputeStockAfter(2, TypeOut, 3)
		assert.ErrorIs(t, err, ErrNegativeStock)
	})

	t.Run("negative adjust below zero is rejected", func(t *testing.T) {
		_, _, err := ComputeStockAfter(5, TypeAdjust, -6)
		assert.ErrorIs(t, err, ErrNegativeStock)
	})

	t.Run("return restores stock", func(t *testing.T) {
		after, delta, err := ComputeStockAfter(7, TypeReturn, 3)
		require.NoError(t, err)
		assert.Equal(t, 10, after)
		assert.Equal(t, 3, delta)
	})
}
