package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type AdjustStockRequest struct {
	BookID    uuid.UUID `json:"book_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference"`
}

func (r AdjustStockRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(TypeIn, TypeOut, TypeAdjust, TypeReturn)),
		validation.Field(&r.Reason, validation.Required, validation.Length(2, 255)),
	); err != nil {
		return err
	}

	if r.BookID == uuid.Nil {
		return validation.NewError("validation_required", "book_id cannot be blank")
	}
	if _, err := SignedDelta(r.Type, r.Quantity); err != nil {
		return err
	}

	return nil
}

type MovementFilter struct {
	BookID *uuid.UUID
	Type   string
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
