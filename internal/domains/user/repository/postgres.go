package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hexalib-backend/internal/domains/user/model"
	"hexalib-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateEmail
		}
		logger.Error("Create user: database error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	entity := &model.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.FullName,
		&entity.Role,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		logger.Error("GetByID user: database error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	entity := &model.User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.FullName,
		&entity.Role,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		logger.Error("GetByEmail user: database error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.User, error) {
	const query = `
		SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("List users: query failed", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		entity := model.User{}
		err := rows.Scan(
			&entity.ID,
			&entity.Email,
			&entity.PasswordHash,
			&entity.FullName,
			&entity.Role,
			&entity.IsActive,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			logger.Error("List users: scan error", err)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const query = `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		logger.Error("SetActive user: database error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}
