package model

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("category name already exists")
	ErrDuplicateCode    = errors.New("category code already exists")
	ErrCategoryHasBooks = errors.New("category still has books attached")
)
