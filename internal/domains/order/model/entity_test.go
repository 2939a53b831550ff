package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	lines := []OrderLine{
		{BookID: uuid.New(), Quantity: 3, PurchasePrice: decimal.RequireFromString("12.50")},
		{BookID: uuid.New(), Quantity: 2, PurchasePrice: decimal.RequireFromString("7.333")},
	}

	total := ComputeTotal(lines)

	assert.True(t, lines[0].Subtotal.Equal(decimal.RequireFromString("37.50")))
	assert.True(t, lines[1].Subtotal.Equal(decimal.RequireFromString("14.67")))
	assert.True(t, total.Equal(decimal.RequireFromString("52.17")))
}

func TestComputeTotalEmpty(t *testing.T) {
	assert.True(t, ComputeTotal(nil).IsZero())
}

func TestCreateOrderRequestValidate(t *testing.T) {
	bookID := uuid.New()
	valid := CreateOrderRequest{
		SupplierID: uuid.New(),
		Lines: []OrderLineRequest{
			{BookID: bookID, Quantity: 5, PurchasePrice: decimal.RequireFromString("9.90")},
		},
	}
	require.NoError(t, valid.Validate())

	t.Run("no lines", func(t *testing.T) {
		req := valid
		req.Lines = nil
		assert.ErrorIs(t, req.Validate(), ErrEmptyLines)
	})

	t.Run("duplicate book", func(t *testing.T) {
		req := valid
		req.Lines = []OrderLineRequest{
			{BookID: bookID, Quantity: 1, PurchasePrice: decimal.RequireFromString("9.90")},
			{BookID: bookID, Quantity: 2, PurchasePrice: decimal.RequireFromString("9.90")},
		}
		assert.ErrorIs(t, req.Validate(), ErrDuplicateLine)
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := valid
		req.Lines = []OrderLineRequest{
			{BookID: bookID, Quantity: 0, PurchasePrice: decimal.RequireFromString("9.90")},
		}
		assert.Error(t, req.Validate())
	})

	t.Run("missing supplier", func(t *testing.T) {
		req := valid
		req.SupplierID = uuid.Nil
		assert.Error(t, req.Validate())
	})
}
