package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. IN and RETURN add stock, OUT removes it, ADJUST applies
// a signed correction.
const (
	TypeIn     = "IN"
	TypeOut    = "OUT"
	TypeAdjust = "ADJUST"
	TypeReturn = "RETURN"
)

// Movement is one row of the append-only stock ledger. Quantity is the
// signed delta; StockBefore and StockAfter snapshot the book quantity
// around the mutation.
type Movement struct {
	ID          uuid.UUID `json:"id"`
	BookID      uuid.UUID `json:"book_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplyInput describes a movement to apply to a book.
type ApplyInput struct {
	BookID    uuid.UUID
	Type      string
	Quantity  int
	Reason    string
	Reference string
	UserID    uuid.UUID
}

// SignedDelta converts a movement type and raw quantity into the signed
// ledger delta. OUT negates; ADJUST passes the quantity through as given.
func SignedDelta(movType string, quantity int) (int, error) {
	switch movType {
	case TypeIn, TypeReturn:
		if quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		return quantity, nil
	case TypeOut:
		if quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		return -quantity, nil
	case TypeAdjust:
		if quantity == 0 {
			return 0, ErrInvalidQuantity
		}
		return quantity, nil
	default:
		return 0, ErrUnknownType
	}
}

// ComputeStockAfter applies a movement to the current quantity and rejects
// results below zero.
func ComputeStockAfter(before int, movType string, quantity int) (after, delta int, err error) {
	delta, err = SignedDelta(movType, quantity)
	if err != nil {
		return 0, 0, err
	}

	after = before + delta
	if after < 0 {
		return 0, 0, ErrNegativeStock
	}

	return after, delta, nil
}
