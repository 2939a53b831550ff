package model

import "errors"

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrUnknownType     = errors.New("unknown movement type")
	ErrInvalidQuantity = errors.New("invalid movement quantity")
	ErrNegativeStock   = errors.New("movement would drive stock below zero")
)
