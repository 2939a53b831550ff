package service

import (
	"context"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/stock/model"
	"hexalib-backend/internal/domains/stock/repository"
	"hexalib-backend/pkg/logger"
)

// Service exposes manual stock adjustments and ledger queries. The acting
// user is always passed explicitly by the caller.
type Service interface {
	Adjust(ctx context.Context, req *model.AdjustStockRequest, actingUser uuid.UUID) (*model.Movement, error)
	List(ctx context.Context, filter *model.MovementFilter) ([]model.Movement, int64, error)
	History(ctx context.Context, bookID uuid.UUID) ([]model.Movement, error)
}

type stockService struct {
	repo repository.Repository
}

func NewStockService(repo repository.Repository) Service {
	return &stockService{repo: repo}
}

func (s *stockService) Adjust(ctx context.Context, req *model.AdjustStockRequest, actingUser uuid.UUID) (*model.Movement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	movement, err := s.repo.ApplyMovement(ctx, &model.ApplyInput{
		BookID:    req.BookID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
		UserID:    actingUser,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("stock adjusted", map[string]interface{}{
		"book_id":     movement.BookID.String(),
		"type":        movement.Type,
		"stock_after": movement.StockAfter,
	})

	return movement, nil
}

func (s *stockService) List(ctx context.Context, filter *model.MovementFilter) ([]model.Movement, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *stockService) History(ctx context.Context, bookID uuid.UUID) ([]model.Movement, error) {
	return s.repo.ListByBook(ctx, bookID)
}
