package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hexalib-backend/internal/domains/sale/model"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// NextInvoiceNumberTx bumps the per-day counter atomically. Concurrent
// sales serialize on the counter row, so numbers never collide or gap
// within a committed day.
func (r *postgresRepository) NextInvoiceNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	const query = `
		INSERT INTO invoice_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = invoice_counters.counter + 1
		RETURNING counter
	`

	var seq int
	if err := tx.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		logger.Error("NextInvoiceNumberTx: counter upsert failed", err)
		return 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return seq, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, sale *model.Sale) error {
	const saleQuery = `
		INSERT INTO sales (
			id, invoice_number, status, seller_id, subtotal, discount_total,
			total, created_at, updated_at, cancelled_at, cancellation_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, saleQuery,
		sale.ID,
		sale.InvoiceNumber,
		sale.Status,
		sale.SellerID,
		sale.Subtotal,
		sale.DiscountTotal,
		sale.Total,
		sale.CreatedAt,
		sale.UpdatedAt,
		sale.CancelledAt,
		sale.CancellationReason,
	)
	if err != nil {
		logger.Error("CreateTx sale: insert failed", err)
		return fmt.Errorf("failed to create sale: %w", err)
	}

	const lineQuery = `
		INSERT INTO sale_lines (
			id, sale_id, book_id, book_title, book_code, quantity,
			unit_price, discount_id, discount_label, discount_amount, line_total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
		line := &sale.Lines[i]
		_, err := tx.Exec(ctx, lineQuery,
			line.ID,
			line.SaleID,
			line.BookID,
			line.BookTitle,
			line.BookCode,
			line.Quantity,
			line.UnitPrice,
			line.DiscountID,
			line.DiscountLabel,
			line.DiscountAmount,
			line.LineTotal,
		)
		if err != nil {
			logger.Error("CreateTx sale: line insert failed", err)
			return fmt.Errorf("failed to create sale line: %w", err)
		}
	}

	return nil
}

const saleColumns = `id, invoice_number, status, seller_id, subtotal, discount_total,
	total, created_at, updated_at, cancelled_at, cancellation_reason`

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)

	sale, err := scanSale(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		logger.Error("GetByID sale: database error", err)
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	lines, err := r.linesBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines

	return sale, nil
}

func (r *postgresRepository) linesBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleLine, error) {
	const query = `
		SELECT id, sale_id, book_id, book_title, book_code, quantity,
			unit_price, discount_id, discount_label, discount_amount, line_total
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		logger.Error("linesBySale: query failed", err)
		return nil, fmt.Errorf("failed to list sale lines: %w", err)
	}
	defer rows.Close()

	lines := make([]model.SaleLine, 0)
	for rows.Next() {
		line := model.SaleLine{}
		err := rows.Scan(
			&line.ID,
			&line.SaleID,
			&line.BookID,
			&line.BookTitle,
			&line.BookCode,
			&line.Quantity,
			&line.UnitPrice,
			&line.DiscountID,
			&line.DiscountLabel,
			&line.DiscountAmount,
			&line.LineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sale lines: %w", err)
	}
	return lines, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.SaleFilter) ([]model.Sale, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.SellerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("seller_id = $%d", argIndex))
		args = append(args, *filter.SellerID)
		argIndex++
	}

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sales %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List sales: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM sales
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, saleColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List sales: query failed", err)
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]model.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read sales: %w", err)
	}

	return sales, total, nil
}

func (r *postgresRepository) CancelValidatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string, cancelledAt time.Time) error {
	const query = `
		UPDATE sales
		SET status = 'CANCELLED', cancelled_at = $1, cancellation_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'VALIDATED'
	`

	tag, err := tx.Exec(ctx, query, cancelledAt, reason, id)
	if err != nil {
		logger.Error("CancelValidatedTx: update failed", err)
		return fmt.Errorf("failed to cancel sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx, `SELECT status FROM sales WHERE id = $1`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrSaleNotFound
			}
			return fmt.Errorf("failed to check sale status: %w", err)
		}
		return model.ErrSaleNotValidated
	}
	return nil
}

func (r *postgresRepository) SellerDayStats(ctx context.Context, sellerID uuid.UUID, day time.Time) (*model.DayStats, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE seller_id = $1
		  AND status = 'VALIDATED'
		  AND created_at >= $2 AND created_at < $3
	`

	start := day.Truncate(24 * time.Hour)
	return r.dayStats(ctx, query, start, sellerID, start, start.Add(24*time.Hour))
}

func (r *postgresRepository) GlobalDayStats(ctx context.Context, day time.Time) (*model.DayStats, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = 'VALIDATED'
		  AND created_at >= $1 AND created_at < $2
	`

	start := day.Truncate(24 * time.Hour)
	return r.dayStats(ctx, query, start, start, start.Add(24*time.Hour))
}

func (r *postgresRepository) dayStats(ctx context.Context, query string, day time.Time, args ...interface{}) (*model.DayStats, error) {
	stats := &model.DayStats{Day: day.Format("2006-01-02"), Total: decimal.Zero}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stats.SalesCount, &stats.Total); err != nil {
		logger.Error("dayStats: query failed", err)
		return nil, fmt.Errorf("failed to compute day stats: %w", err)
	}
	return stats, nil
}

func scanSale(row pgx.Row) (*model.Sale, error) {
	sale := &model.Sale{}
	err := row.Scan(
		&sale.ID,
		&sale.InvoiceNumber,
		&sale.Status,
		&sale.SellerID,
		&sale.Subtotal,
		&sale.DiscountTotal,
		&sale.Total,
		&sale.CreatedAt,
		&sale.UpdatedAt,
		&sale.CancelledAt,
		&sale.CancellationReason,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}
