package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypePercentage  = "PERCENTAGE"
	TypeFixedAmount = "FIXED_AMOUNT"
)

// Scopes, from most to least specific.
const (
	ScopeBook     = "BOOK"
	ScopeCategory = "CATEGORY"
	ScopeGlobal   = "GLOBAL"
)

// Discount is a time-bounded price reduction. BOOK and CATEGORY scopes
// carry a target id; GLOBAL applies to everything.
type Discount struct {
	ID          uuid.UUID       `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Scope       string          `json:"scope"`
	TargetID    *uuid.UUID      `json:"target_id,omitempty"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsValidAt reports whether the discount applies at the given time.
func (d *Discount) IsValidAt(t time.Time) bool {
	return d.IsActive && !t.Before(d.StartDate) && !t.After(d.EndDate)
}

// Amount computes the reduction for a base amount. Percentages are rounded
// half-up to two decimals; fixed amounts are clamped so the result never
// exceeds the base.
func (d *Discount) Amount(base decimal.Decimal) decimal.Decimal {
	if d.Type == TypePercentage {
		return base.Mul(d.Value).Div(decimal.NewFromInt(100)).Round(2)
	}

	if d.Value.GreaterThan(base) {
		return base
	}
	return d.Value
}

func (d *Discount) specificity() int {
	switch d.Scope {
	case ScopeBook:
		return 1
	case ScopeCategory:
		return 2
	default:
		return 3
	}
}

// BestDiscount picks the winning discount among candidates: the most
// specific scope first (BOOK over CATEGORY over GLOBAL), then the highest
// value. Returns nil when there is no candidate.
func BestDiscount(candidates []Discount) *Discount {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Discount, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].specificity() != sorted[j].specificity() {
			return sorted[i].specificity() < sorted[j].specificity()
		}
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	return &sorted[0]
}
