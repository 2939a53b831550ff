package repository

import (
	"context"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/user/model"
)

// Repository is the data access contract for users.
type Repository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
