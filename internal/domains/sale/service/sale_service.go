package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookModel "hexalib-backend/internal/domains/book/model"
	bookRepo "hexalib-backend/internal/domains/book/repository"
	discountService "hexalib-backend/internal/domains/discount/service"
	"hexalib-backend/internal/domains/sale/model"
	"hexalib-backend/internal/domains/sale/repository"
	stockModel "hexalib-backend/internal/domains/stock/model"
	stockRepo "hexalib-backend/internal/domains/stock/repository"
	"hexalib-backend/internal/shared/utils"
	"hexalib-backend/pkg/logger"
)

const (
	saleReason         = "Sale"
	cancellationReason = "Sale cancellation"
)

type Service interface {
	// Create validates stock for every line, resolves discounts, assigns an
	// invoice number and writes the sale and its stock movements atomically.
	Create(ctx context.Context, req *model.CreateSaleRequest, sellerID uuid.UUID) (*model.Sale, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter *model.SaleFilter) ([]model.Sale, int64, error)

	// Cancel flips a validated sale to CANCELLED and books the stock back in.
	Cancel(ctx context.Context, id uuid.UUID, reason string, actingUser uuid.UUID) (*model.Sale, error)

	SellerDayStats(ctx context.Context, sellerID uuid.UUID, day time.Time) (*model.DayStats, error)
	GlobalDayStats(ctx context.Context, day time.Time) (*model.DayStats, error)
}

type saleService struct {
	sales     repository.Repository
	books     bookRepo.Repository
	stock     stockRepo.Repository
	discounts discountService.Service
}

func NewSaleService(
	sales repository.Repository,
	books bookRepo.Repository,
	stock stockRepo.Repository,
	discounts discountService.Service,
) Service {
	return &saleService{
		sales:     sales,
		books:     books,
		stock:     stock,
		discounts: discounts,
	}
}

func (s *saleService) Create(ctx context.Context, req *model.CreateSaleRequest, sellerID uuid.UUID) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	lines, shortfalls, err := s.buildLines(ctx, req.Lines, now)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		// One error naming every short line so the seller fixes the cart in
		// a single round trip.
		return nil, model.NewSaleError(
			model.ErrCodeInsufficientStock,
			"insufficient stock: "+strings.Join(shortfalls, "; "),
			model.ErrInsufficientStock,
		)
	}

	sale := &model.Sale{
		ID:        uuid.New(),
		Status:    model.StatusValidated,
		SellerID:  sellerID,
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	model.CalculateTotals(sale)

	tx, err := s.sales.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.sales.RollbackTx(ctx, tx) }()

	seq, err := s.sales.NextInvoiceNumberTx(ctx, tx, now)
	if err != nil {
		return nil, err
	}
	sale.InvoiceNumber = utils.FormatDocumentNumber("FAC", now, seq)

	// The ledger re-checks each quantity under FOR UPDATE, so a concurrent
	// sale that drained the stock since the pre-check fails here and rolls
	// everything back.
	for _, line := range sale.Lines {
		_, err := s.stock.ApplyMovementTx(ctx, tx, &stockModel.ApplyInput{
			BookID:    line.BookID,
			Type:      stockModel.TypeOut,
			Quantity:  line.Quantity,
			Reason:    saleReason,
			Reference: sale.InvoiceNumber,
			UserID:    sellerID,
		})
		if err != nil {
			if errors.Is(err, stockModel.ErrNegativeStock) {
				return nil, model.NewSaleError(
					model.ErrCodeInsufficientStock,
					fmt.Sprintf("insufficient stock: %s", line.BookTitle),
					model.ErrInsufficientStock,
				)
			}
			return nil, err
		}
	}

	if err := s.sales.CreateTx(ctx, tx, sale); err != nil {
		return nil, err
	}

	if err := s.sales.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	for _, line := range sale.Lines {
		s.stock.InvalidateBook(ctx, line.BookID)
	}

	logger.Info("sale created", map[string]interface{}{
		"sale_id": sale.ID.String(),
		"invoice": sale.InvoiceNumber,
		"total":   sale.Total.String(),
	})

	return sale, nil
}

// buildLines snapshots book data and pricing for each requested line. Stock
// shortfalls are collected rather than failed fast, so the caller gets the
// complete list.
func (s *saleService) buildLines(ctx context.Context, reqs []model.SaleLineRequest, asOf time.Time) ([]model.SaleLine, []string, error) {
	lines := make([]model.SaleLine, 0, len(reqs))
	var shortfalls []string

	for _, lr := range reqs {
		book, err := s.books.GetByID(ctx, lr.BookID)
		if err != nil {
			if errors.Is(err, bookModel.ErrBookNotFound) {
				return nil, nil, model.NewSaleError(model.ErrCodeBookNotFound, "book not found: "+lr.BookID.String(), model.ErrBookNotFound)
			}
			return nil, nil, err
		}

		if book.Quantity < lr.Quantity {
			shortfalls = append(shortfalls, fmt.Sprintf("%s (requested %d, available %d)", book.Title, lr.Quantity, book.Quantity))
			continue
		}

		line := model.SaleLine{
			ID:             uuid.New(),
			BookID:         book.ID,
			BookTitle:      book.Title,
			BookCode:       book.Code,
			Quantity:       lr.Quantity,
			UnitPrice:      book.SalePrice,
			DiscountAmount: decimal.Zero,
		}

		discount, err := s.discounts.ResolveBest(ctx, book.ID, book.CategoryID, asOf)
		if err != nil {
			return nil, nil, err
		}
		if discount != nil {
			lineSubtotal := book.SalePrice.Mul(decimal.NewFromInt(int64(lr.Quantity))).Round(2)
			discountID := discount.ID
			line.DiscountID = &discountID
			line.DiscountLabel = discount.Label
			line.DiscountAmount = discount.Amount(lineSubtotal)
		}

		lines = append(lines, line)
	}

	return lines, shortfalls, nil
}

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *saleService) List(ctx context.Context, filter *model.SaleFilter) ([]model.Sale, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.sales.List(ctx, filter)
}

func (s *saleService) Cancel(ctx context.Context, id uuid.UUID, reason string, actingUser uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := s.sales.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.sales.RollbackTx(ctx, tx) }()

	// Compare-and-set on VALIDATED keeps a double cancellation from booking
	// the stock back twice.
	if err := s.sales.CancelValidatedTx(ctx, tx, id, reason, now); err != nil {
		if errors.Is(err, model.ErrSaleNotValidated) {
			return nil, model.NewSaleError(model.ErrCodeSaleNotValidated, "sale is not in a cancellable state", model.ErrSaleNotValidated)
		}
		return nil, err
	}

	for _, line := range sale.Lines {
		_, err := s.stock.ApplyMovementTx(ctx, tx, &stockModel.ApplyInput{
			BookID:    line.BookID,
			Type:      stockModel.TypeReturn,
			Quantity:  line.Quantity,
			Reason:    cancellationReason,
			Reference: sale.InvoiceNumber,
			UserID:    actingUser,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.sales.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	for _, line := range sale.Lines {
		s.stock.InvalidateBook(ctx, line.BookID)
	}

	logger.Info("sale cancelled", map[string]interface{}{
		"sale_id": sale.ID.String(),
		"invoice": sale.InvoiceNumber,
	})

	return s.sales.GetByID(ctx, id)
}

func (s *saleService) SellerDayStats(ctx context.Context, sellerID uuid.UUID, day time.Time) (*model.DayStats, error) {
	return s.sales.SellerDayStats(ctx, sellerID, day)
}

func (s *saleService) GlobalDayStats(ctx context.Context, day time.Time) (*model.DayStats, error) {
	return s.sales.GlobalDayStats(ctx, day)
}
