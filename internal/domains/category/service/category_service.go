package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/category/model"
	"hexalib-backend/internal/domains/category/repository"
	"hexalib-backend/internal/shared/utils"
	"hexalib-backend/pkg/logger"
)

// Service exposes category management.
type Service interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context, filter *model.CategoryFilter) ([]model.Category, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.Repository
}

func NewCategoryService(repo repository.Repository) Service {
	return &categoryService{repo: repo}
}

// codeRetries bounds regeneration when the random suffix collides.
const codeRetries = 5

func (s *categoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	entity := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      model.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		entity.Code = utils.GenerateCategoryCode(req.Name)

		err = s.repo.Create(ctx, entity)
		if err != model.ErrDuplicateCode {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Info("category created", map[string]interface{}{
		"category_id": entity.ID.String(),
		"code":        entity.Code,
	})

	return entity, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, filter *model.CategoryFilter) ([]model.Category, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Name = req.Name
	entity.Description = req.Description

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, model.StatusActive)
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, model.StatusInactive)
}

// Delete refuses to remove a category that still has books.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return model.ErrCategoryHasBooks
	}

	return s.repo.Delete(ctx, id)
}
