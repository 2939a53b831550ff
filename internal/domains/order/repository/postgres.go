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

	"hexalib-backend/internal/domains/order/model"
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

// NextOrderNumberTx bumps the per-day counter atomically. The upsert makes
// the first caller of the day create the row.
func (r *postgresRepository) NextOrderNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	const query = `
		INSERT INTO order_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
		RETURNING counter
	`

	var seq int
	if err := tx.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		logger.Error("NextOrderNumberTx: counter upsert failed", err)
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}
	return seq, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error {
	const orderQuery = `
		INSERT INTO purchase_orders (
			id, number, supplier_id, status, order_date, expected_date,
			received_date, notes, total, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, orderQuery,
		order.ID,
		order.Number,
		order.SupplierID,
		order.Status,
		order.OrderDate,
		order.ExpectedDate,
		order.ReceivedDate,
		order.Notes,
		order.Total,
		order.CreatedBy,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		logger.Error("CreateTx order: insert failed", err)
		return fmt.Errorf("failed to create purchase order: %w", err)
	}

	return r.insertLinesTx(ctx, tx, order.ID, order.Lines)
}

func (r *postgresRepository) insertLinesTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lines []model.OrderLine) error {
	const lineQuery = `
		INSERT INTO purchase_order_lines (
			id, order_id, book_id, quantity, purchase_price, subtotal
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i := range lines {
		lines[i].OrderID = orderID
		_, err := tx.Exec(ctx, lineQuery,
			lines[i].ID,
			orderID,
			lines[i].BookID,
			lines[i].Quantity,
			lines[i].PurchasePrice,
			lines[i].Subtotal,
		)
		if err != nil {
			logger.Error("insertLinesTx: insert failed", err)
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}
	return nil
}

const orderColumns = `id, number, supplier_id, status, order_date, expected_date,
	received_date, notes, total, created_by, created_at, updated_at`

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		logger.Error("GetByID order: database error", err)
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	lines, err := r.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

func (r *postgresRepository) linesByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	const query = `
		SELECT id, order_id, book_id, quantity, purchase_price, subtotal
		FROM purchase_order_lines
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		logger.Error("linesByOrder: query failed", err)
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]model.OrderLine, 0)
	for rows.Next() {
		line := model.OrderLine{}
		err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.BookID,
			&line.Quantity,
			&line.PurchasePrice,
			&line.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return lines, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.OrderFilter) ([]model.PurchaseOrder, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.SupplierID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("supplier_id = $%d", argIndex))
		args = append(args, *filter.SupplierID)
		argIndex++
	}

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("order_date >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("order_date <= $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM purchase_orders %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List orders: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM purchase_orders
		%s
		ORDER BY order_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List orders: query failed", err)
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.PurchaseOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read purchase orders: %w", err)
	}

	return orders, total, nil
}

func (r *postgresRepository) UpdatePendingTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error {
	const query = `
		UPDATE purchase_orders
		SET expected_date = $1, notes = $2, total = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'PENDING'
	`

	tag, err := tx.Exec(ctx, query, order.ExpectedDate, order.Notes, order.Total, order.ID)
	if err != nil {
		logger.Error("UpdatePendingTx: update failed", err)
		return fmt.Errorf("failed to update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.pendingMissReason(ctx, order.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, order.ID); err != nil {
		logger.Error("UpdatePendingTx: line delete failed", err)
		return fmt.Errorf("failed to replace order lines: %w", err)
	}

	return r.insertLinesTx(ctx, tx, order.ID, order.Lines)
}

func (r *postgresRepository) MarkReceivedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, receivedAt time.Time) error {
	const query = `
		UPDATE purchase_orders
		SET status = 'RECEIVED', received_date = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'PENDING'
	`

	tag, err := tx.Exec(ctx, query, receivedAt, id)
	if err != nil {
		logger.Error("MarkReceivedTx: update failed", err)
		return fmt.Errorf("failed to mark order received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.pendingMissReason(ctx, id)
	}
	return nil
}

func (r *postgresRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE purchase_orders
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Cancel order: update failed", err)
		return fmt.Errorf("failed to cancel purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.pendingMissReason(ctx, id)
	}
	return nil
}

func (r *postgresRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM purchase_orders WHERE id = $1 AND status = 'PENDING'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("DeletePending order: delete failed", err)
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.pendingMissReason(ctx, id)
	}
	return nil
}

func (r *postgresRepository) SetBookPurchasePriceTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, price decimal.Decimal) error {
	const query = `UPDATE books SET purchase_price = $1, updated_at = NOW() WHERE id = $2`

	if _, err := tx.Exec(ctx, query, price, bookID); err != nil {
		logger.Error("SetBookPurchasePriceTx: update failed", err)
		return fmt.Errorf("failed to update purchase price: %w", err)
	}
	return nil
}

// pendingMissReason decides whether a zero-row CAS update means the order is
// gone or just no longer pending.
func (r *postgresRepository) pendingMissReason(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM purchase_orders WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrOrderNotFound
		}
		return fmt.Errorf("failed to check order status: %w", err)
	}
	return model.ErrOrderNotPending
}

func scanOrder(row pgx.Row) (*model.PurchaseOrder, error) {
	order := &model.PurchaseOrder{}
	err := row.Scan(
		&order.ID,
		&order.Number,
		&order.SupplierID,
		&order.Status,
		&order.OrderDate,
		&order.ExpectedDate,
		&order.ReceivedDate,
		&order.Notes,
		&order.Total,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
