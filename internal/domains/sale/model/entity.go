package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses. A sale is born VALIDATED; CANCELLED is terminal.
const (
	StatusValidated = "VALIDATED"
	StatusCancelled = "CANCELLED"
)

// Sale is a completed checkout. InvoiceNumber is assigned on creation
// ("FAC-YYYYMMDD-NNN") and never changes.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Total         decimal.Decimal `json:"total"`
	Lines         []SaleLine      `json:"lines,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`

	// CancellationReason is the free-text reason given by whoever cancelled.
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// SaleLine snapshots the book and pricing at the moment of sale. Title,
// code and discount label are denormalized so invoices survive later
// catalog edits.
type SaleLine struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	BookID         uuid.UUID       `json:"book_id"`
	BookTitle      string          `json:"book_title"`
	BookCode       string          `json:"book_code"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountID     *uuid.UUID      `json:"discount_id,omitempty"`
	DiscountLabel  string          `json:"discount_label,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// IsValidated reports whether the sale can still be cancelled.
func (s *Sale) IsValidated() bool {
	return s.Status == StatusValidated
}

// CalculateTotals fills each line's total from its subtotal and discount,
// then sums the sale-level amounts.
func CalculateTotals(sale *Sale) {
	subtotal := decimal.Zero
	discountTotal := decimal.Zero

	for i := range sale.Lines {
		line := &sale.Lines[i]
		lineSubtotal := line.UnitPrice.
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			Round(2)
		line.LineTotal = lineSubtotal.Sub(line.DiscountAmount)
		subtotal = subtotal.Add(lineSubtotal)
		discountTotal = discountTotal.Add(line.DiscountAmount)
	}

	sale.Subtotal = subtotal
	sale.DiscountTotal = discountTotal
	sale.Total = subtotal.Sub(discountTotal)
}

// DayStats aggregates validated sales for one day.
type DayStats struct {
	Day        string          `json:"day"`
	SalesCount int64           `json:"sales_count"`
	Total      decimal.Decimal `json:"total"`
}
