package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hexalib-backend/internal/domains/stock/model"
)

// Repository applies stock movements and reads the ledger. Applying a
// movement mutates the book quantity and appends the ledger row in the same
// transaction.
type Repository interface {
	// ApplyMovement runs in its own transaction.
	ApplyMovement(ctx context.Context, input *model.ApplyInput) (*model.Movement, error)

	// ApplyMovementTx joins a caller-managed transaction; the book row stays
	// locked until that transaction ends.
	ApplyMovementTx(ctx context.Context, tx pgx.Tx, input *model.ApplyInput) (*model.Movement, error)

	// LockBookQuantityTx reads the current quantity under FOR UPDATE.
	LockBookQuantityTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error)

	List(ctx context.Context, filter *model.MovementFilter) ([]model.Movement, int64, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Movement, error)

	// InvalidateBook drops the cached book after a caller-managed transaction
	// that touched its quantity has committed.
	InvalidateBook(ctx context.Context, bookID uuid.UUID)
}
