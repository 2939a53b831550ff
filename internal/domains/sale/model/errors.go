package model

import (
	"errors"
	"net/http"
)

const (
	ErrCodeSaleNotFound      = "SAL001"
	ErrCodeSaleNotValidated  = "SAL002"
	ErrCodeInsufficientStock = "SAL003"
	ErrCodeEmptyLines        = "SAL004"
	ErrCodeBookNotFound      = "SAL005"
	ErrCodeDuplicateLine     = "SAL006"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrSaleNotValidated  = errors.New("sale is not in a cancellable state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyLines        = errors.New("sale needs at least one line")
	ErrBookNotFound      = errors.New("book not found")
	ErrDuplicateLine     = errors.New("duplicate book on sale")
)

// SaleError carries a stable code alongside the message so clients can
// branch without parsing text.
type SaleError struct {
	Code    string
	Message string
	Err     error
}

func (e *SaleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleError(code, message string, err error) *SaleError {
	return &SaleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetHTTPStatusCode maps sale errors onto HTTP statuses for handlers.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrSaleNotFound), errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSaleNotValidated):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyLines),
		errors.Is(err, ErrDuplicateLine):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
