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

	"hexalib-backend/internal/domains/supplier/model"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const supplierColumns = `id, name, contact_name, phone, email, address,
	delivery_delay_days, status, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, entity *model.Supplier) error {
	const query = `
		INSERT INTO suppliers (
			id, name, contact_name, phone, email, address,
			delivery_delay_days, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		entity.ID,
		entity.Name,
		entity.ContactName,
		entity.Phone,
		entity.Email,
		entity.Address,
		entity.DeliveryDelay,
		entity.Status,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		logger.Error("Create supplier: database error", err)
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	query := fmt.Sprintf("SELECT %s FROM suppliers WHERE id = $1", supplierColumns)

	entity := &model.Supplier{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.Name,
		&entity.ContactName,
		&entity.Phone,
		&entity.Email,
		&entity.Address,
		&entity.DeliveryDelay,
		&entity.Status,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSupplierNotFound
		}
		logger.Error("GetByID supplier: database error", err)
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.SupplierFilter) ([]model.Supplier, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR contact_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM suppliers %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List suppliers: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM suppliers
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, supplierColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List suppliers: query failed", err)
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	entities := make([]model.Supplier, 0, filter.Limit)
	for rows.Next() {
		entity := model.Supplier{}
		err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.ContactName,
			&entity.Phone,
			&entity.Email,
			&entity.Address,
			&entity.DeliveryDelay,
			&entity.Status,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan supplier: %w", err)
		}
		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return entities, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, entity *model.Supplier) error {
	const query = `
		UPDATE suppliers
		SET name = $1, contact_name = $2, phone = $3, email = $4,
			address = $5, delivery_delay_days = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.pool.Exec(ctx, query,
		entity.Name,
		entity.ContactName,
		entity.Phone,
		entity.Email,
		entity.Address,
		entity.DeliveryDelay,
		entity.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateName
		}
		logger.Error("Update supplier: database error", err)
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrSupplierNotFound
	}

	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	const query = `
		UPDATE suppliers
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		logger.Error("SetStatus supplier: database error", err)
		return fmt.Errorf("failed to update supplier status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrSupplierNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM suppliers WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrSupplierHasOrders
		}
		logger.Error("Delete supplier: database error", err)
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrSupplierNotFound
	}

	return nil
}
