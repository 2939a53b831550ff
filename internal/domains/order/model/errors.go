package model

import (
	"errors"
	"net/http"
)

const (
	ErrCodeOrderNotFound    = "ORD001"
	ErrCodeOrderNotPending  = "ORD002"
	ErrCodeEmptyLines       = "ORD003"
	ErrCodeSupplierNotFound = "ORD004"
	ErrCodeSupplierInactive = "ORD005"
	ErrCodeBookNotFound     = "ORD006"
	ErrCodeDuplicateLine    = "ORD007"
	ErrCodeInvalidOrder     = "ORD008"
)

var (
	ErrOrderNotFound    = errors.New("purchase order not found")
	ErrOrderNotPending  = errors.New("purchase order is no longer pending")
	ErrEmptyLines       = errors.New("purchase order needs at least one line")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrSupplierInactive = errors.New("supplier is inactive")
	ErrBookNotFound     = errors.New("book not found")
	ErrDuplicateLine    = errors.New("duplicate book on purchase order")
)

// OrderError carries a stable code alongside the message so clients can
// branch without parsing text.
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetHTTPStatusCode maps order errors onto HTTP statuses for handlers.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrSupplierNotFound),
		errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOrderNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyLines),
		errors.Is(err, ErrSupplierInactive),
		errors.Is(err, ErrDuplicateLine):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
