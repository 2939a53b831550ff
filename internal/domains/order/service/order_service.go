package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bookModel "hexalib-backend/internal/domains/book/model"
	bookRepo "hexalib-backend/internal/domains/book/repository"
	"hexalib-backend/internal/domains/order/model"
	"hexalib-backend/internal/domains/order/repository"
	stockModel "hexalib-backend/internal/domains/stock/model"
	stockRepo "hexalib-backend/internal/domains/stock/repository"
	supplierModel "hexalib-backend/internal/domains/supplier/model"
	supplierRepo "hexalib-backend/internal/domains/supplier/repository"
	"hexalib-backend/internal/shared/utils"
	"hexalib-backend/pkg/logger"
)

const receptionReason = "Order reception"

type Service interface {
	Create(ctx context.Context, req *model.CreateOrderRequest, createdBy uuid.UUID) (*model.PurchaseOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter *model.OrderFilter) ([]model.PurchaseOrder, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.PurchaseOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Receive marks a pending order received and books every line into stock.
	// A zero receivedAt means "now".
	Receive(ctx context.Context, id uuid.UUID, receivedAt time.Time, actingUser uuid.UUID) (*model.PurchaseOrder, error)
}

type orderService struct {
	orders    repository.Repository
	suppliers supplierRepo.Repository
	books     bookRepo.Repository
	stock     stockRepo.Repository
}

func NewOrderService(
	orders repository.Repository,
	suppliers supplierRepo.Repository,
	books bookRepo.Repository,
	stock stockRepo.Repository,
) Service {
	return &orderService{
		orders:    orders,
		suppliers: suppliers,
		books:     books,
		stock:     stock,
	}
}

func (s *orderService) Create(ctx context.Context, req *model.CreateOrderRequest, createdBy uuid.UUID) (*model.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, supplierModel.ErrSupplierNotFound) {
			return nil, model.NewOrderError(model.ErrCodeSupplierNotFound, "supplier not found", model.ErrSupplierNotFound)
		}
		return nil, err
	}
	if supplier.Status != supplierModel.StatusActive {
		return nil, model.NewOrderError(model.ErrCodeSupplierInactive, "supplier is inactive", model.ErrSupplierInactive)
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.PurchaseOrder{
		ID:           uuid.New(),
		SupplierID:   req.SupplierID,
		Status:       model.StatusPending,
		OrderDate:    now,
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
		Total:        model.ComputeTotal(lines),
		Lines:        lines,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.orders.RollbackTx(ctx, tx) }()

	seq, err := s.orders.NextOrderNumberTx(ctx, tx, now)
	if err != nil {
		return nil, err
	}
	order.Number = utils.FormatDocumentNumber("CMD", now, seq)

	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := s.orders.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("purchase order created", map[string]interface{}{
		"order_id": order.ID.String(),
		"number":   order.Number,
		"lines":    len(order.Lines),
	})

	return order, nil
}

func (s *orderService) buildLines(ctx context.Context, reqs []model.OrderLineRequest) ([]model.OrderLine, error) {
	lines := make([]model.OrderLine, 0, len(reqs))
	for _, lr := range reqs {
		if _, err := s.books.GetByID(ctx, lr.BookID); err != nil {
			if errors.Is(err, bookModel.ErrBookNotFound) {
				return nil, model.NewOrderError(model.ErrCodeBookNotFound, "book not found: "+lr.BookID.String(), model.ErrBookNotFound)
			}
			return nil, err
		}
		lines = append(lines, model.OrderLine{
			ID:            uuid.New(),
			BookID:        lr.BookID,
			Quantity:      lr.Quantity,
			PurchasePrice: lr.PurchasePrice,
		})
	}
	return lines, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter *model.OrderFilter) ([]model.PurchaseOrder, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.orders.List(ctx, filter)
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsPending() {
		return nil, model.NewOrderError(model.ErrCodeOrderNotPending, "order is no longer pending", model.ErrOrderNotPending)
	}

	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	order.ExpectedDate = req.ExpectedDate
	order.Notes = req.Notes
	order.Lines = lines
	order.Total = model.ComputeTotal(lines)

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.orders.RollbackTx(ctx, tx) }()

	if err := s.orders.UpdatePendingTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := s.orders.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.orders.Cancel(ctx, id)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orders.DeletePending(ctx, id)
}

// Receive runs the whole reception in one transaction. The status flip is a
// compare-and-set on PENDING, so two concurrent receptions cannot both book
// the stock.
func (s *orderService) Receive(ctx context.Context, id uuid.UUID, receivedAt time.Time, actingUser uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.orders.RollbackTx(ctx, tx) }()

	if err := s.orders.MarkReceivedTx(ctx, tx, id, receivedAt); err != nil {
		if errors.Is(err, model.ErrOrderNotPending) {
			return nil, model.NewOrderError(model.ErrCodeOrderNotPending, "order is no longer pending", model.ErrOrderNotPending)
		}
		return nil, err
	}

	for _, line := range order.Lines {
		_, err := s.stock.ApplyMovementTx(ctx, tx, &stockModel.ApplyInput{
			BookID:    line.BookID,
			Type:      stockModel.TypeIn,
			Quantity:  line.Quantity,
			Reason:    receptionReason,
			Reference: order.Number,
			UserID:    actingUser,
		})
		if err != nil {
			return nil, err
		}

		if err := s.orders.SetBookPurchasePriceTx(ctx, tx, line.BookID, line.PurchasePrice); err != nil {
			return nil, err
		}
	}

	if err := s.orders.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		s.stock.InvalidateBook(ctx, line.BookID)
	}

	logger.Info("purchase order received", map[string]interface{}{
		"order_id": order.ID.String(),
		"number":   order.Number,
		"lines":    len(order.Lines),
	})

	return s.orders.GetByID(ctx, id)
}
