package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/discount/model"
	"hexalib-backend/internal/domains/discount/repository"
	"hexalib-backend/pkg/logger"
)

// Service exposes discount management and best-match resolution.
type Service interface {
	Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	List(ctx context.Context, filter *model.DiscountFilter) ([]model.Discount, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ResolveBest returns the winning discount for a book, or nil when none
	// applies.
	ResolveBest(ctx context.Context, bookID, categoryID uuid.UUID, asOf time.Time) (*model.Discount, error)
}

type discountService struct {
	repo repository.Repository
}

func NewDiscountService(repo repository.Repository) Service {
	return &discountService{repo: repo}
}

func (s *discountService) Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var targetID *uuid.UUID
	if req.Scope != model.ScopeGlobal {
		targetID = req.TargetID
	}

	now := time.Now()
	entity := &model.Discount{
		ID:          uuid.New(),
		Label:       req.Label,
		Description: req.Description,
		Type:        req.Type,
		Value:       req.Value,
		Scope:       req.Scope,
		TargetID:    targetID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	logger.Info("discount created", map[string]interface{}{
		"discount_id": entity.ID.String(),
		"scope":       entity.Scope,
	})

	return entity, nil
}

func (s *discountService) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *discountService) List(ctx context.Context, filter *model.DiscountFilter) ([]model.Discount, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *discountService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.Discount, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Label = req.Label
	entity.Description = req.Description
	entity.Value = req.Value
	entity.StartDate = req.StartDate
	entity.EndDate = req.EndDate
	entity.IsActive = req.IsActive

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *discountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *discountService) ResolveBest(ctx context.Context, bookID, categoryID uuid.UUID, asOf time.Time) (*model.Discount, error) {
	candidates, err := s.repo.FindCandidates(ctx, bookID, categoryID, asOf)
	if err != nil {
		return nil, err
	}

	return model.BestDiscount(candidates), nil
}
