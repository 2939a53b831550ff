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

	"hexalib-backend/internal/domains/discount/model"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const discountColumns = `id, label, description, type, value, scope, target_id,
	start_date, end_date, is_active, created_at, updated_at`

func scanDiscount(row pgx.Row) (*model.Discount, error) {
	entity := &model.Discount{}
	err := row.Scan(
		&entity.ID,
		&entity.Label,
		&entity.Description,
		&entity.Type,
		&entity.Value,
		&entity.Scope,
		&entity.TargetID,
		&entity.StartDate,
		&entity.EndDate,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *postgresRepository) Create(ctx context.Context, entity *model.Discount) error {
	const query = `
		INSERT INTO discounts (
			id, label, description, type, value, scope, target_id,
			start_date, end_date, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		entity.ID,
		entity.Label,
		entity.Description,
		entity.Type,
		entity.Value,
		entity.Scope,
		entity.TargetID,
		entity.StartDate,
		entity.EndDate,
		entity.IsActive,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		logger.Error("Create discount: database error", err)
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	query := fmt.Sprintf("SELECT %s FROM discounts WHERE id = $1", discountColumns)

	entity, err := scanDiscount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		logger.Error("GetByID discount: database error", err)
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.DiscountFilter) ([]model.Discount, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.Scope != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("scope = $%d", argIndex))
		args = append(args, filter.Scope)
		argIndex++
	}

	if filter.ValidOn != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"is_active = true AND start_date <= $%d AND end_date >= $%d", argIndex, argIndex))
		args = append(args, *filter.ValidOn)
		argIndex++
	}

	if filter.Expired {
		whereClauses = append(whereClauses, fmt.Sprintf("end_date < $%d", argIndex))
		args = append(args, time.Now())
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM discounts %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List discounts: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count discounts: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM discounts
		%s
		ORDER BY start_date DESC
		LIMIT $%d OFFSET $%d
	`, discountColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List discounts: query failed", err)
		return nil, 0, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	entities, err := collectDiscounts(rows)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, entity *model.Discount) error {
	const query = `
		UPDATE discounts
		SET label = $1, description = $2, value = $3, start_date = $4,
			end_date = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.pool.Exec(ctx, query,
		entity.Label,
		entity.Description,
		entity.Value,
		entity.StartDate,
		entity.EndDate,
		entity.IsActive,
		entity.ID,
	)

	if err != nil {
		logger.Error("Update discount: database error", err)
		return fmt.Errorf("failed to update discount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM discounts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Delete discount: database error", err)
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

// FindCandidates resolves applicability with an explicit predicate on scope
// and target; ordering mirrors model.BestDiscount so the first row wins.
func (r *postgresRepository) FindCandidates(ctx context.Context, bookID, categoryID uuid.UUID, asOf time.Time) ([]model.Discount, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM discounts
		WHERE is_active = true
			AND start_date <= $3 AND end_date >= $3
			AND (
				scope = 'GLOBAL'
				OR (scope = 'BOOK' AND target_id = $1)
				OR (scope = 'CATEGORY' AND target_id = $2)
			)
		ORDER BY
			CASE scope WHEN 'BOOK' THEN 1 WHEN 'CATEGORY' THEN 2 ELSE 3 END ASC,
			value DESC
	`, discountColumns)

	rows, err := r.pool.Query(ctx, query, bookID, categoryID, asOf)
	if err != nil {
		logger.Error("FindCandidates: query failed", err)
		return nil, fmt.Errorf("failed to find discounts: %w", err)
	}
	defer rows.Close()

	return collectDiscounts(rows)
}

func collectDiscounts(rows pgx.Rows) ([]model.Discount, error) {
	entities := make([]model.Discount, 0)
	for rows.Next() {
		entity := model.Discount{}
		err := rows.Scan(
			&entity.ID,
			&entity.Label,
			&entity.Description,
			&entity.Type,
			&entity.Value,
			&entity.Scope,
			&entity.TargetID,
			&entity.StartDate,
			&entity.EndDate,
			&entity.IsActive,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read discounts: %w", err)
	}

	return entities, nil
}
