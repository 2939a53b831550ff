package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLineRequest struct {
	BookID        uuid.UUID       `json:"book_id"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

func (r OrderLineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(uuidRequired)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.PurchasePrice, validation.By(positivePrice)),
	)
}

type CreateOrderRequest struct {
	SupplierID   uuid.UUID          `json:"supplier_id"`
	ExpectedDate *time.Time         `json:"expected_date"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines"`
}

func (r CreateOrderRequest) Validate() error {
	if len(r.Lines) == 0 {
		return ErrEmptyLines
	}
	seen := make(map[uuid.UUID]bool, len(r.Lines))
	for _, line := range r.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
		if seen[line.BookID] {
			return ErrDuplicateLine
		}
		seen[line.BookID] = true
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.SupplierID, validation.Required, validation.By(uuidRequired)),
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

// UpdateOrderRequest replaces the mutable fields of a pending order. Lines
// are replaced wholesale.
type UpdateOrderRequest struct {
	ExpectedDate *time.Time         `json:"expected_date"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines"`
}

func (r UpdateOrderRequest) Validate() error {
	if len(r.Lines) == 0 {
		return ErrEmptyLines
	}
	seen := make(map[uuid.UUID]bool, len(r.Lines))
	for _, line := range r.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
		if seen[line.BookID] {
			return ErrDuplicateLine
		}
		seen[line.BookID] = true
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

type OrderFilter struct {
	SupplierID *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

func uuidRequired(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

func positivePrice(value interface{}) error {
	price, _ := value.(decimal.Decimal)
	if price.IsNegative() || price.IsZero() {
		return validation.NewError("validation_positive", "must be greater than zero")
	}
	return nil
}
