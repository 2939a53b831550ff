package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "ADMIN"
	RoleSeller = "SELLER"
)

// User is a back-office account. Sellers record sales, admins additionally
// manage the catalog, suppliers and discounts.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
