package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hexalib-backend/internal/domains/order/model"
)

// Repository persists purchase orders. Reception spans several writes, so
// the transaction is owned by the service and threaded through the Tx
// methods.
type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// NextOrderNumberTx returns the next per-day sequence for order numbers.
	NextOrderNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error)

	CreateTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter *model.OrderFilter) ([]model.PurchaseOrder, int64, error)

	// UpdatePendingTx rewrites header fields and replaces the lines. It fails
	// with ErrOrderNotPending when the order left PENDING.
	UpdatePendingTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error

	// MarkReceivedTx flips PENDING to RECEIVED and stamps the received date.
	MarkReceivedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, receivedAt time.Time) error

	// Cancel flips PENDING to CANCELLED.
	Cancel(ctx context.Context, id uuid.UUID) error

	// DeletePending removes a pending order and its lines.
	DeletePending(ctx context.Context, id uuid.UUID) error

	// SetBookPurchasePriceTx copies a received line's unit price onto the book.
	SetBookPurchasePriceTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, price decimal.Decimal) error
}
