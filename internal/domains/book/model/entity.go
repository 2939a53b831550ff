package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Stock status derived from quantity and the minimum threshold.
const (
	StockAvailable = "AVAILABLE"
	StockLow       = "LOW"
	StockOut       = "OUT"
)

// DefaultMinThreshold is used when a book is created without a threshold.
const DefaultMinThreshold = 5

// Book is a catalog entry. Quantity is only ever mutated through stock
// movements, never directly.
type Book struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Author          string           `json:"author"`
	Publisher       string           `json:"publisher"`
	PublicationDate *time.Time       `json:"publication_date,omitempty"`
	ISBN            *string          `json:"isbn,omitempty"`
	Language        string           `json:"language"`
	Quantity        int              `json:"quantity"`
	MinThreshold    int              `json:"min_threshold"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price,omitempty"`
	ShelfLocation   string           `json:"shelf_location"`
	CategoryID      uuid.UUID        `json:"category_id"`
	Status          string           `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// StockStatus derives the stock state from the current quantity.
func (b *Book) StockStatus() string {
	switch {
	case b.Quantity == 0:
		return StockOut
	case b.Quantity <= b.MinThreshold:
		return StockLow
	default:
		return StockAvailable
	}
}

// Margin returns sale price minus purchase price, or nil when the purchase
// price is unknown.
func (b *Book) Margin() *decimal.Decimal {
	if b.PurchasePrice == nil {
		return nil
	}
	m := b.SalePrice.Sub(*b.PurchasePrice)
	return &m
}
