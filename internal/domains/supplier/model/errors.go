package model

import "errors"

var (
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrDuplicateName     = errors.New("supplier name already exists")
	ErrSupplierHasOrders = errors.New("supplier still has purchase orders")
)
