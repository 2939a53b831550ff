package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hexalib-backend/internal/domains/book/model"
	"hexalib-backend/pkg/cache"
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

const bookColumns = `id, code, title, description, author, publisher, publication_date,
	isbn, language, quantity, min_threshold, sale_price, purchase_price,
	shelf_location, category_id, status, created_at, updated_at`

const bookCacheTTL = 5 * time.Minute

func bookCacheKey(id uuid.UUID) string {
	return "book:" + id.String()
}

func scanBook(row pgx.Row) (*model.Book, error) {
	entity := &model.Book{}
	err := row.Scan(
		&entity.ID,
		&entity.Code,
		&entity.Title,
		&entity.Description,
		&entity.Author,
		&entity.Publisher,
		&entity.PublicationDate,
		&entity.ISBN,
		&entity.Language,
		&entity.Quantity,
		&entity.MinThreshold,
		&entity.SalePrice,
		&entity.PurchasePrice,
		&entity.ShelfLocation,
		&entity.CategoryID,
		&entity.Status,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func mapBookConstraint(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case "23505":
		if strings.Contains(pgErr.ConstraintName, "isbn") {
			return model.ErrDuplicateISBN
		}
		return model.ErrDuplicateCode
	case "23503":
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, entity *model.Book) error {
	const query = `
		INSERT INTO books (
			id, code, title, description, author, publisher, publication_date,
			isbn, language, quantity, min_threshold, sale_price, purchase_price,
			shelf_location, category_id, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.pool.Exec(ctx, query,
		entity.ID,
		entity.Code,
		entity.Title,
		entity.Description,
		entity.Author,
		entity.Publisher,
		entity.PublicationDate,
		entity.ISBN,
		entity.Language,
		entity.Quantity,
		entity.MinThreshold,
		entity.SalePrice,
		entity.PurchasePrice,
		entity.ShelfLocation,
		entity.CategoryID,
		entity.Status,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if mapped := mapBookConstraint(pgErr); mapped != nil {
				return mapped
			}
		}
		logger.Error("Create book: database error", err)
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cached := &model.Book{}
	if found, err := r.cache.Get(ctx, bookCacheKey(id), cached); err == nil && found {
		return cached, nil
	}

	query := fmt.Sprintf("SELECT %s FROM books WHERE id = $1", bookColumns)

	entity, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		logger.Error("GetByID book: database error", err)
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	// Cache failures are not fatal for reads.
	if err := r.cache.Set(ctx, bookCacheKey(id), entity, bookCacheTTL); err != nil {
		logger.Error("GetByID book: cache set failed", err)
	}

	return entity, nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*model.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE code = $1", bookColumns)

	entity, err := scanBook(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return entity, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(title ILIKE $%d OR author ILIKE $%d OR code ILIKE $%d OR isbn ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	switch filter.StockStatus {
	case model.StockOut:
		whereClauses = append(whereClauses, "quantity = 0")
	case model.StockLow:
		whereClauses = append(whereClauses, "quantity > 0 AND quantity <= min_threshold")
	case model.StockAvailable:
		whereClauses = append(whereClauses, "quantity > min_threshold")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM books %s", whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List books: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM books
		%s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("List books: query failed", err)
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	entities, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *postgresRepository) ListLowStock(ctx context.Context) ([]model.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE quantity <= min_threshold AND status = 'ACTIVE'
		ORDER BY quantity ASC, title ASC
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("ListLowStock: query failed", err)
		return nil, fmt.Errorf("failed to list low stock books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	entities := make([]model.Book, 0)
	for rows.Next() {
		entity := model.Book{}
		err := rows.Scan(
			&entity.ID,
			&entity.Code,
			&entity.Title,
			&entity.Description,
			&entity.Author,
			&entity.Publisher,
			&entity.PublicationDate,
			&entity.ISBN,
			&entity.Language,
			&entity.Quantity,
			&entity.MinThreshold,
			&entity.SalePrice,
			&entity.PurchasePrice,
			&entity.ShelfLocation,
			&entity.CategoryID,
			&entity.Status,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}

	return entities, nil
}

func (r *postgresRepository) Update(ctx context.Context, entity *model.Book) error {
	const query = `
		UPDATE books
		SET title = $1, description = $2, author = $3, publisher = $4,
			publication_date = $5, isbn = $6, language = $7, min_threshold = $8,
			sale_price = $9, purchase_price = $10, shelf_location = $11,
			status = $12, updated_at = NOW()
		WHERE id = $13
	`

	result, err := r.pool.Exec(ctx, query,
		entity.Title,
		entity.Description,
		entity.Author,
		entity.Publisher,
		entity.PublicationDate,
		entity.ISBN,
		entity.Language,
		entity.MinThreshold,
		entity.SalePrice,
		entity.PurchasePrice,
		entity.ShelfLocation,
		entity.Status,
		entity.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if mapped := mapBookConstraint(pgErr); mapped != nil {
				return mapped
			}
		}
		logger.Error("Update book: database error", err)
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	if err := r.cache.Delete(ctx, bookCacheKey(entity.ID)); err != nil {
		logger.Error("Update book: cache invalidation failed", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM books WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrBookReferenced
		}
		logger.Error("Delete book: database error", err)
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	if err := r.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		logger.Error("Delete book: cache invalidation failed", err)
	}

	return nil
}

func (r *postgresRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM books WHERE category_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}

	return count, nil
}
