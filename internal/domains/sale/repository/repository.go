package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hexalib-backend/internal/domains/sale/model"
)

// Repository persists sales and their invoice counter. Creation and
// cancellation both span the stock ledger, so the transaction is owned by
// the service and threaded through the Tx methods.
type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// NextInvoiceNumberTx returns the next per-day sequence for invoices.
	NextInvoiceNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error)

	CreateTx(ctx context.Context, tx pgx.Tx, sale *model.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter *model.SaleFilter) ([]model.Sale, int64, error)

	// CancelValidatedTx flips VALIDATED to CANCELLED. It fails with
	// ErrSaleNotValidated when the sale was already cancelled.
	CancelValidatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string, cancelledAt time.Time) error

	// SellerDayStats aggregates one seller's validated sales for a day.
	SellerDayStats(ctx context.Context, sellerID uuid.UUID, day time.Time) (*model.DayStats, error)

	// GlobalDayStats aggregates all validated sales for a day.
	GlobalDayStats(ctx context.Context, day time.Time) (*model.DayStats, error)
}
