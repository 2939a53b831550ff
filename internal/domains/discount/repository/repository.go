package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/discount/model"
)

// Repository is the data access contract for discounts.
type Repository interface {
	Create(ctx context.Context, entity *model.Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	List(ctx context.Context, filter *model.DiscountFilter) ([]model.Discount, int64, error)
	Update(ctx context.Context, entity *model.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindCandidates returns every discount applicable to the book or its
	// category at the given time, most specific scope first.
	FindCandidates(ctx context.Context, bookID, categoryID uuid.UUID, asOf time.Time) ([]model.Discount, error)
}
