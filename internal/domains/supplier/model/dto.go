package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateSupplierRequest struct {
	Name          string `json:"name"`
	ContactName   string `json:"contact_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	DeliveryDelay int    `json:"delivery_delay_days"`
}

func (r CreateSupplierRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.DeliveryDelay, validation.Min(0)),
	)
}

type UpdateSupplierRequest struct {
	Name          string `json:"name"`
	ContactName   string `json:"contact_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	DeliveryDelay int    `json:"delivery_delay_days"`
}

func (r UpdateSupplierRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.DeliveryDelay, validation.Min(0)),
	)
}

type SupplierFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
