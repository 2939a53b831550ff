package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateDiscountRequest struct {
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Scope       string          `json:"scope"`
	TargetID    *uuid.UUID      `json:"target_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
}

func (r CreateDiscountRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Label, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Type, validation.Required, validation.In(TypePercentage, TypeFixedAmount)),
		validation.Field(&r.Scope, validation.Required, validation.In(ScopeBook, ScopeCategory, ScopeGlobal)),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.EndDate, validation.Required),
	); err != nil {
		return err
	}

	if r.Value.IsNegative() || r.Value.IsZero() {
		return ErrInvalidValue
	}
	if r.Type == TypePercentage && r.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidValue
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrInvalidPeriod
	}
	if r.Scope != ScopeGlobal && r.TargetID == nil {
		return ErrTargetRequired
	}

	return nil
}

type UpdateDiscountRequest struct {
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	IsActive    bool            `json:"is_active"`
}

func (r UpdateDiscountRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Label, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.EndDate, validation.Required),
	); err != nil {
		return err
	}

	if r.Value.IsNegative() || r.Value.IsZero() {
		return ErrInvalidValue
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrInvalidPeriod
	}

	return nil
}

type DiscountFilter struct {
	Scope   string
	ValidOn *time.Time
	Expired bool
	Limit   int
	Offset  int
}
