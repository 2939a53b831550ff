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

	"hexalib-backend/internal/domains/stock/model"
	"hexalib-backend/pkg/cache"
	"hexalib-backend/pkg/database"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const movementColumns = `id, book_id, type, quantity, stock_before, stock_after,
	reason, reference, user_id, created_at`

func (r *postgresRepository) ApplyMovement(ctx context.Context, input *model.ApplyInput) (*model.Movement, error) {
	movement, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Movement, error) {
		return r.ApplyMovementTx(ctx, tx, input)
	})
	if err != nil {
		return nil, err
	}

	r.InvalidateBook(ctx, input.BookID)
	return movement, nil
}

// ApplyMovementTx locks the book row, verifies the resulting quantity and
// writes both sides of the mutation. The quantity re-check happens under
// the same lock as the update.
func (r *postgresRepository) ApplyMovementTx(ctx context.Context, tx pgx.Tx, input *model.ApplyInput) (*model.Movement, error) {
	before, err := r.LockBookQuantityTx(ctx, tx, input.BookID)
	if err != nil {
		return nil, err
	}

	after, delta, err := model.ComputeStockAfter(before, input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE books SET quantity = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(ctx, updateQuery, after, input.BookID); err != nil {
		logger.Error("ApplyMovementTx: quantity update failed", err)
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	movement := &model.Movement{
		ID:          uuid.New(),
		BookID:      input.BookID,
		Type:        input.Type,
		Quantity:    delta,
		StockBefore: before,
		StockAfter:  after,
		Reason:      input.Reason,
		Reference:   input.Reference,
		UserID:      input.UserID,
		CreatedAt:   time.Now(),
	}

	const insertQuery = `
		INSERT INTO stock_movements (
			id, book_id, type, quantity, stock_before, stock_after,
			reason, reference, user_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, insertQuery,
		movement.ID,
		movement.BookID,
		movement.Type,
		movement.Quantity,
		movement.StockBefore,
		movement.StockAfter,
		movement.Reason,
		movement.Reference,
		movement.UserID,
		movement.CreatedAt,
	)
	if err != nil {
		logger.Error("ApplyMovementTx: ledger insert failed", err)
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}

	return movement, nil
}

func (r *postgresRepository) LockBookQuantityTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	const query = `SELECT quantity FROM books WHERE id = $1 FOR UPDATE`

	var quantity int
	err := tx.QueryRow(ctx, query, bookID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBookNotFound
		}
		logger.Error("LockBookQuantityTx: database error", err)
		return 0, fmt.Errorf("failed to lock book: %w", err)
	}

	return quantity, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.MovementFilter) ([]model.Movement, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.BookID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("book_id = $%d", argIndex))
		args = append(args, *filter.BookID)
		argIndex++
	}

	if filter.Type != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, filter.Type)
		argIndex++
	}

	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM stock_movements %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List movements: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM stock_movements
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, movementColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List movements: query failed", err)
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	entities, err := collectMovements(rows)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Movement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_movements
		WHERE book_id = $1
		ORDER BY created_at DESC
	`, movementColumns)

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		logger.Error("ListByBook movements: query failed", err)
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]model.Movement, error) {
	entities := make([]model.Movement, 0)
	for rows.Next() {
		entity := model.Movement{}
		err := rows.Scan(
			&entity.ID,
			&entity.BookID,
			&entity.Type,
			&entity.Quantity,
			&entity.StockBefore,
			&entity.StockAfter,
			&entity.Reason,
			&entity.Reference,
			&entity.UserID,
			&entity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movements: %w", err)
	}

	return entities, nil
}

func (r *postgresRepository) InvalidateBook(ctx context.Context, bookID uuid.UUID) {
	if err := r.cache.Delete(ctx, "book:"+bookID.String()); err != nil {
		logger.Error("stock: cache invalidation failed", err)
	}
}
