package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name  string
		dtype string
		value string
		base  string
		want  string
	}{
		{"ten percent of 3000", TypePercentage, "10", "3000", "300"},
		{"percentage rounds half up", TypePercentage, "10", "33.33", "3.33"},
		{"percentage rounds 0.005 up", TypePercentage, "5", "0.10", "0.01"},
		{"fixed amount", TypeFixedAmount, "500", "3000", "500"},
		{"fixed clamped at base", TypeFixedAmount, "5000", "3000", "3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Discount{
				Type:  tt.dtype,
				Value: decimal.RequireFromString(tt.value),
			}
			got := d.Amount(decimal.RequireFromString(tt.base))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestDiscountIsValidAt(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	d := &Discount{IsActive: true, StartDate: start, EndDate: end}

	assert.True(t, d.IsValidAt(start))
	assert.True(t, d.IsValidAt(end))
	assert.True(t, d.IsValidAt(start.AddDate(0, 0, 15)))
	assert.False(t, d.IsValidAt(start.Add(-time.Second)))
	assert.False(t, d.IsValidAt(end.Add(time.Second)))

	d.IsActive = false
	assert.False(t, d.IsValidAt(start.AddDate(0, 0, 15)))
}

func TestBestDiscount(t *testing.T) {
	bookID := uuid.New()
	categoryID := uuid.New()

	global := Discount{ID: uuid.New(), Scope: ScopeGlobal, Value: decimal.NewFromInt(50)}
	category := Discount{ID: uuid.New(), Scope: ScopeCategory, TargetID: &categoryID, Value: decimal.NewFromInt(5)}
	book := Discount{ID: uuid.New(), Scope: ScopeBook, TargetID: &bookID, Value: decimal.NewFromInt(1)}

	t.Run("no candidates", func(t *testing.T) {
		assert.Nil(t, BestDiscount(nil))
	})

	t.Run("book scope beats larger category and global values", func(t *testing.T) {
		best := BestDiscount([]Discount{global, category, book})
		require.NotNil(t, best)
		assert.Equal(t, book.ID, best.ID)
	})

	t.Run("category beats global", func(t *testing.T) {
		best := BestDiscount([]Discount{global, category})
		require.NotNil(t, best)
		assert.Equal(t, category.ID, best.ID)
	})

	t.Run("same scope picks highest value", func(t *testing.T) {
		small := Discount{ID: uuid.New(), Scope: ScopeGlobal, Value: decimal.NewFromInt(10)}
		large := Discount{ID: uuid.New(), Scope: ScopeGlobal, Value: decimal.NewFromInt(20)}

		best := BestDiscount([]Discount{small, large})
		require.NotNil(t, best)
		assert.Equal(t, large.ID, best.ID)
	})
}
