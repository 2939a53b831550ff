package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBookStockStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      string
	}{
		{"zero quantity is out", 0, 5, StockOut},
		{"below threshold is low", 3, 5, StockLow},
		{"at threshold is low", 5, 5, StockLow},
		{"just above threshold is available", 6, 5, StockAvailable},
		{"plenty is available", 100, 5, StockAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{Quantity: tt.quantity, MinThreshold: tt.threshold}
			assert.Equal(t, tt.want, b.StockStatus())
		})
	}
}

func TestBookMargin(t *testing.T) {
	purchase := decimal.NewFromInt(700)
	b := &Book{
		SalePrice:     decimal.NewFromInt(1000),
		PurchasePrice: &purchase,
	}

	margin := b.Margin()
	assert.NotNil(t, margin)
	assert.True(t, margin.Equal(decimal.NewFromInt(300)))

	b.PurchasePrice = nil
	assert.Nil(t, b.Margin())
}
