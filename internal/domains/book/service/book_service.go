package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/book/model"
	"hexalib-backend/internal/domains/book/repository"
	categoryRepo "hexalib-backend/internal/domains/category/repository"
	"hexalib-backend/internal/shared/utils"
	"hexalib-backend/pkg/logger"
)

// Service exposes book catalog management.
type Service interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.BookResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	List(ctx context.Context, filter *model.BookFilter) ([]model.BookResponse, int64, error)
	ListLowStock(ctx context.Context) ([]model.BookResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.BookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	repo         repository.Repository
	categoryRepo categoryRepo.Repository
}

func NewBookService(repo repository.Repository, categories categoryRepo.Repository) Service {
	return &bookService{
		repo:         repo,
		categoryRepo: categories,
	}
}

const codeRetries = 3

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.BookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, model.ErrCategoryNotFound
	}

	threshold := req.MinThreshold
	if threshold == 0 {
		threshold = model.DefaultMinThreshold
	}

	now := time.Now()
	entity := &model.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
		ISBN:            req.ISBN,
		Language:        req.Language,
		Quantity:        req.Quantity,
		MinThreshold:    threshold,
		SalePrice:       req.SalePrice,
		PurchasePrice:   req.PurchasePrice,
		ShelfLocation:   req.ShelfLocation,
		CategoryID:      req.CategoryID,
		Status:          model.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The book code follows the category code with a per-category sequence.
	count, err := s.repo.CountByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		entity.Code = utils.GenerateBookCode(category.Code, int(count)+1+attempt)

		err = s.repo.Create(ctx, entity)
		if err != model.ErrDuplicateCode {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Info("book created", map[string]interface{}{
		"book_id": entity.ID.String(),
		"code":    entity.Code,
	})

	return model.ToBookResponse(entity), nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToBookResponse(entity), nil
}

func (s *bookService) List(ctx context.Context, filter *model.BookFilter) ([]model.BookResponse, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return toResponses(entities), total, nil
}

func (s *bookService) ListLowStock(ctx context.Context) ([]model.BookResponse, error) {
	entities, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(entities), nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.BookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Title = req.Title
	entity.Description = req.Description
	entity.Author = req.Author
	entity.Publisher = req.Publisher
	entity.PublicationDate = req.PublicationDate
	entity.ISBN = req.ISBN
	entity.Language = req.Language
	entity.MinThreshold = req.MinThreshold
	entity.SalePrice = req.SalePrice
	entity.PurchasePrice = req.PurchasePrice
	entity.ShelfLocation = req.ShelfLocation

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return model.ToBookResponse(updated), nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toResponses(entities []model.Book) []model.BookResponse {
	responses := make([]model.BookResponse, 0, len(entities))
	for i := range entities {
		responses = append(responses, *model.ToBookResponse(&entities[i]))
	}
	return responses
}
