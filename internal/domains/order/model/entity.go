package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses. RECEIVED and CANCELLED are terminal.
const (
	StatusPending   = "PENDING"
	StatusReceived  = "RECEIVED"
	StatusCancelled = "CANCELLED"
)

// PurchaseOrder is an order placed with a supplier. Number is assigned on
// creation and never changes ("CMD-YYYYMMDD-NNN").
type PurchaseOrder struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"order_date"`
	ExpectedDate *time.Time      `json:"expected_date,omitempty"`
	ReceivedDate *time.Time      `json:"received_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Lines        []OrderLine     `json:"lines,omitempty"`
	CreatedBy    uuid.UUID       `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderLine is one book on a purchase order. PurchasePrice is the unit price
// agreed with the supplier for this order, not the book's current one.
type OrderLine struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	BookID        uuid.UUID       `json:"book_id"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// IsPending reports whether the order can still be modified or cancelled.
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == StatusPending
}

// ComputeTotal sums line subtotals. Each subtotal is quantity times unit
// purchase price, rounded to 2 decimals.
func ComputeTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		lines[i].Subtotal = lines[i].PurchasePrice.
			Mul(decimal.NewFromInt(int64(lines[i].Quantity))).
			Round(2)
		total = total.Add(lines[i].Subtotal)
	}
	return total
}
