package repository

import (
	"context"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/book/model"
)

// Repository is the data access contract for books.
type Repository interface {
	Create(ctx context.Context, entity *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByCode(ctx context.Context, code string) (*model.Book, error)
	List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error)
	ListLowStock(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, entity *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
