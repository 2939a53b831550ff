package repository

import (
	"context"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/category/model"
)

// Repository is the data access contract for categories.
type Repository interface {
	Create(ctx context.Context, entity *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetByCode(ctx context.Context, code string) (*model.Category, error)
	List(ctx context.Context, filter *model.CategoryFilter) ([]model.Category, int64, error)
	Update(ctx context.Context, entity *model.Category) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBooks(ctx context.Context, id uuid.UUID) (int64, error)
}
