package model

import "errors"

var (
	ErrDiscountNotFound = errors.New("discount not found")
	ErrInvalidValue     = errors.New("discount value must be positive, and at most 100 for percentages")
	ErrInvalidPeriod    = errors.New("end date must not precede start date")
	ErrTargetRequired   = errors.New("target id is required for book and category scopes")
)
