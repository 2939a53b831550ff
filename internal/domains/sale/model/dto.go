package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type SaleLineRequest struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

func (r SaleLineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(uuidRequired)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateSaleRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

func (r CreateSaleRequest) Validate() error {
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
	return nil
}

type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

func (r CancelSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

type SaleFilter struct {
	SellerID *uuid.UUID
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

func uuidRequired(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}
