package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hexalib-backend/internal/domains/category/model"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const categoryColumns = "id, name, code, description, status, created_at, updated_at"

func scanCategory(row pgx.Row) (*model.Category, error) {
	entity := &model.Category{}
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Code,
		&entity.Description,
		&entity.Status,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *postgresRepository) Create(ctx context.Context, entity *model.Category) error {
	const query = `
		INSERT INTO categories (id, name, code, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		entity.ID,
		entity.Name,
		entity.Code,
		entity.Description,
		entity.Status,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "code") {
				return model.ErrDuplicateCode
			}
			return model.ErrDuplicateName
		}
		logger.Error("Create category: database error", err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = $1", categoryColumns)

	entity, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		logger.Error("GetByID category: database error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE code = $1", categoryColumns)

	entity, err := scanCategory(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.CategoryFilter) ([]model.Category, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM categories %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List categories: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM categories
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, categoryColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List categories: query failed", err)
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	entities := make([]model.Category, 0, filter.Limit)
	for rows.Next() {
		entity := model.Category{}
		err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.Code,
			&entity.Description,
			&entity.Status,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	return entities, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, entity *model.Category) error {
	const query = `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, entity.Name, entity.Description, entity.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		logger.Error("Update category: database error", err)
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	const query = `
		UPDATE categories
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		logger.Error("SetStatus category: database error", err)
		return fmt.Errorf("failed to update category status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM categories WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrCategoryHasBooks
		}
		logger.Error("Delete category: database error", err)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

func (r *postgresRepository) CountBooks(ctx context.Context, id uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM books WHERE category_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}

	return count, nil
}
