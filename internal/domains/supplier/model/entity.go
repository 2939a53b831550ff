package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Supplier is a purchase order counterparty.
type Supplier struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactName   string    `json:"contact_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	DeliveryDelay int       `json:"delivery_delay_days"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
