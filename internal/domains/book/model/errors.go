package model

import "errors"

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrDuplicateCode    = errors.New("book code already exists")
	ErrDuplicateISBN    = errors.New("isbn already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBookReferenced   = errors.New("book is referenced by sales or orders")
)
