package repository

import (
	"context"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/supplier/model"
)

// Repository is the data access contract for suppliers.
type Repository interface {
	Create(ctx context.Context, entity *model.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, filter *model.SupplierFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, entity *model.Supplier) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
