package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "hexalib-backend/internal/domains/book/model"
	discountModel "hexalib-backend/internal/domains/discount/model"
	"hexalib-backend/internal/domains/sale/model"
	stockModel "hexalib-backend/internal/domains/stock/model"
)

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	seq   int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (f *fakeSaleRepo) BeginTx(ctx context.Context) (pgx.Tx, error)     { return nil, nil }
func (f *fakeSaleRepo) CommitTx(ctx context.Context, tx pgx.Tx) error   { return nil }
func (f *fakeSaleRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (f *fakeSaleRepo) NextInvoiceNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeSaleRepo) CreateTx(ctx context.Context, tx pgx.Tx, sale *model.Sale) error {
	clone := *sale
	f.sales[sale.ID] = &clone
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	clone := *sale
	return &clone, nil
}

func (f *fakeSaleRepo) List(ctx context.Context, filter *model.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSaleRepo) CancelValidatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string, cancelledAt time.Time) error {
	sale, ok := f.sales[id]
	if !ok {
		return model.ErrSaleNotFound
	}
	if sale.Status != model.StatusValidated {
		return model.ErrSaleNotValidated
	}
	sale.Status = model.StatusCancelled
	sale.CancelledAt = &cancelledAt
	sale.CancellationReason = reason
	return nil
}

func (f *fakeSaleRepo) SellerDayStats(ctx context.Context, sellerID uuid.UUID, day time.Time) (*model.DayStats, error) {
	stats := &model.DayStats{Day: day.Format("2006-01-02"), Total: decimal.Zero}
	for _, s := range f.sales {
		if s.SellerID == sellerID && s.Status == model.StatusValidated {
			stats.SalesCount++
			stats.Total = stats.Total.Add(s.Total)
		}
	}
	return stats, nil
}

func (f *fakeSaleRepo) GlobalDayStats(ctx context.Context, day time.Time) (*model.DayStats, error) {
	stats := &model.DayStats{Day: day.Format("2006-01-02"), Total: decimal.Zero}
	for _, s := range f.sales {
		if s.Status == model.StatusValidated {
			stats.SalesCount++
			stats.Total = stats.Total.Add(s.Total)
		}
	}
	return stats, nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*bookModel.Book
}

func (f *fakeBookRepo) Create(ctx context.Context, entity *bookModel.Book) error {
	f.books[entity.ID] = entity
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeBookRepo) GetByCode(ctx context.Context, code string) (*bookModel.Book, error) {
	return nil, bookModel.ErrBookNotFound
}

func (f *fakeBookRepo) List(ctx context.Context, filter *bookModel.BookFilter) ([]bookModel.Book, int64, error) {
	return nil, 0, nil
}

func (f *fakeBookRepo) ListLowStock(ctx context.Context) ([]bookModel.Book, error) { return nil, nil }
func (f *fakeBookRepo) Update(ctx context.Context, entity *bookModel.Book) error   { return nil }
func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error             { return nil }

func (f *fakeBookRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeStockRepo struct {
	books       map[uuid.UUID]*bookModel.Book
	movements   []stockModel.Movement
	invalidated []uuid.UUID

	// drainBefore simulates a concurrent sale emptying the book between the
	// pre-check and the locked re-check.
	drainBefore map[uuid.UUID]int
}

func (f *fakeStockRepo) ApplyMovement(ctx context.Context, input *stockModel.ApplyInput) (*stockModel.Movement, error) {
	return f.ApplyMovementTx(ctx, nil, input)
}

func (f *fakeStockRepo) ApplyMovementTx(ctx context.Context, tx pgx.Tx, input *stockModel.ApplyInput) (*stockModel.Movement, error) {
	book, ok := f.books[input.BookID]
	if !ok {
		return nil, stockModel.ErrBookNotFound
	}
	if qty, drained := f.drainBefore[input.BookID]; drained {
		book.Quantity = qty
		delete(f.drainBefore, input.BookID)
	}
	after, delta, err := stockModel.ComputeStockAfter(book.Quantity, input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}
	movement := stockModel.Movement{
		ID:          uuid.New(),
		BookID:      input.BookID,
		Type:        input.Type,
		Quantity:    delta,
		StockBefore: book.Quantity,
		StockAfter:  after,
		Reason:      input.Reason,
		Reference:   input.Reference,
		UserID:      input.UserID,
		CreatedAt:   time.Now(),
	}
	book.Quantity = after
	f.movements = append(f.movements, movement)
	return &movement, nil
}

func (f *fakeStockRepo) LockBookQuantityTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	book, ok := f.books[bookID]
	if !ok {
		return 0, stockModel.ErrBookNotFound
	}
	return book.Quantity, nil
}

func (f *fakeStockRepo) List(ctx context.Context, filter *stockModel.MovementFilter) ([]stockModel.Movement, int64, error) {
	return f.movements, int64(len(f.movements)), nil
}

func (f *fakeStockRepo) ListByBook(ctx context.Context, bookID uuid.UUID) ([]stockModel.Movement, error) {
	return f.movements, nil
}

func (f *fakeStockRepo) InvalidateBook(ctx context.Context, bookID uuid.UUID) {
	f.invalidated = append(f.invalidated, bookID)
}

// fakeDiscountService returns a fixed discount per book id.
type fakeDiscountService struct {
	byBook map[uuid.UUID]*discountModel.Discount
}

func (f *fakeDiscountService) Create(ctx context.Context, req *discountModel.CreateDiscountRequest) (*discountModel.Discount, error) {
	return nil, nil
}

func (f *fakeDiscountService) GetByID(ctx context.Context, id uuid.UUID) (*discountModel.Discount, error) {
	return nil, discountModel.ErrDiscountNotFound
}

func (f *fakeDiscountService) List(ctx context.Context, filter *discountModel.DiscountFilter) ([]discountModel.Discount, int64, error) {
	return nil, 0, nil
}

func (f *fakeDiscountService) Update(ctx context.Context, id uuid.UUID, req *discountModel.UpdateDiscountRequest) (*discountModel.Discount, error) {
	return nil, discountModel.ErrDiscountNotFound
}

func (f *fakeDiscountService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeDiscountService) ResolveBest(ctx context.Context, bookID, categoryID uuid.UUID, asOf time.Time) (*discountModel.Discount, error) {
	return f.byBook[bookID], nil
}

type saleFixture struct {
	service   Service
	sales     *fakeSaleRepo
	stock     *fakeStockRepo
	discounts *fakeDiscountService
	bookA     *bookModel.Book
	bookB     *bookModel.Book
	sellerID  uuid.UUID
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	bookA := &bookModel.Book{
		ID:        uuid.New(),
		Code:      "LITT-001",
		Title:     "Les Essais",
		Quantity:  10,
		SalePrice: decimal.RequireFromString("3000"),
	}
	bookB := &bookModel.Book{
		ID:        uuid.New(),
		Code:      "SCNC-002",
		Title:     "Cosmos",
		Quantity:  2,
		SalePrice: decimal.RequireFromString("25.00"),
	}

	sales := newFakeSaleRepo()
	books := &fakeBookRepo{books: map[uuid.UUID]*bookModel.Book{bookA.ID: bookA, bookB.ID: bookB}}
	stock := &fakeStockRepo{books: books.books, drainBefore: make(map[uuid.UUID]int)}
	discounts := &fakeDiscountService{byBook: make(map[uuid.UUID]*discountModel.Discount)}

	return &saleFixture{
		service:   NewSaleService(sales, books, stock, discounts),
		sales:     sales,
		stock:     stock,
		discounts: discounts,
		bookA:     bookA,
		bookB:     bookB,
		sellerID:  uuid.New(),
	}
}

func TestCreateSaleWithDiscount(t *testing.T) {
	fx := newSaleFixture(t)
	now := time.Now()
	fx.discounts.byBook[fx.bookA.ID] = &discountModel.Discount{
		ID:        uuid.New(),
		Label:     "Rentree litteraire",
		Type:      discountModel.TypePercentage,
		Value:     decimal.RequireFromString("10"),
		Scope:     discountModel.ScopeBook,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}

	sale, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 1},
		},
	}, fx.sellerID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusValidated, sale.Status)
	assert.True(t, strings.HasPrefix(sale.InvoiceNumber, "FAC-"), sale.InvoiceNumber)
	assert.True(t, strings.HasSuffix(sale.InvoiceNumber, "-001"), sale.InvoiceNumber)

	// 10% off 3000.
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("3000")))
	assert.True(t, sale.DiscountTotal.Equal(decimal.RequireFromString("300")))
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("2700")))

	require.Len(t, sale.Lines, 1)
	line := sale.Lines[0]
	assert.Equal(t, "Les Essais", line.BookTitle)
	assert.Equal(t, "LITT-001", line.BookCode)
	assert.Equal(t, "Rentree litteraire", line.DiscountLabel)
	require.NotNil(t, line.DiscountID)
	assert.Equal(t, fx.discounts.byBook[fx.bookA.ID].ID, *line.DiscountID)
	assert.True(t, line.LineTotal.Equal(decimal.RequireFromString("2700")))

	assert.Equal(t, 9, fx.bookA.Quantity)
}

func TestCreateSaleMovesStock(t *testing.T) {
	fx := newSaleFixture(t)

	sale, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 3},
		},
	}, fx.sellerID)
	require.NoError(t, err)

	assert.Equal(t, 7, fx.bookA.Quantity)

	require.Len(t, fx.stock.movements, 1)
	m := fx.stock.movements[0]
	assert.Equal(t, stockModel.TypeOut, m.Type)
	assert.Equal(t, -3, m.Quantity)
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 7, m.StockAfter)
	assert.Equal(t, "Sale", m.Reason)
	assert.Equal(t, sale.InvoiceNumber, m.Reference)
	assert.Equal(t, fx.sellerID, m.UserID)

	assert.Contains(t, fx.stock.invalidated, fx.bookA.ID)
}

func TestCreateSaleNoDiscount(t *testing.T) {
	fx := newSaleFixture(t)

	sale, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookB.ID, Quantity: 2},
		},
	}, fx.sellerID)
	require.NoError(t, err)

	assert.True(t, sale.DiscountTotal.IsZero())
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("50.00")))
	assert.Empty(t, sale.Lines[0].DiscountLabel)
}

func TestCreateSaleAggregatesShortfalls(t *testing.T) {
	fx := newSaleFixture(t)

	_, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 11},
			{BookID: fx.bookB.ID, Quantity: 5},
		},
	}, fx.sellerID)

	require.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Les Essais (requested 11, available 10)")
	assert.Contains(t, err.Error(), "Cosmos (requested 5, available 2)")

	// Nothing was written.
	assert.Empty(t, fx.stock.movements)
	assert.Empty(t, fx.sales.sales)
	assert.Equal(t, 10, fx.bookA.Quantity)
	assert.Equal(t, 2, fx.bookB.Quantity)
}

func TestCreateSaleConcurrentDrain(t *testing.T) {
	fx := newSaleFixture(t)
	// Stock passes the pre-check but collapses before the locked re-check.
	fx.stock.drainBefore[fx.bookA.ID] = 1

	_, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 3},
		},
	}, fx.sellerID)

	require.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Empty(t, fx.sales.sales)
}

func TestCreateSaleUnknownBook(t *testing.T) {
	fx := newSaleFixture(t)

	_, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: uuid.New(), Quantity: 1},
		},
	}, fx.sellerID)

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestCancelSale(t *testing.T) {
	fx := newSaleFixture(t)

	sale, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 3},
		},
	}, fx.sellerID)
	require.NoError(t, err)
	require.Equal(t, 7, fx.bookA.Quantity)

	cancelled, err := fx.service.Cancel(context.Background(), sale.ID, "Customer changed their mind", fx.sellerID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, "Customer changed their mind", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 10, fx.bookA.Quantity)

	// The return movement references the original invoice.
	require.Len(t, fx.stock.movements, 2)
	ret := fx.stock.movements[1]
	assert.Equal(t, stockModel.TypeReturn, ret.Type)
	assert.Equal(t, 3, ret.Quantity)
	assert.Equal(t, "Sale cancellation", ret.Reason)
	assert.Equal(t, sale.InvoiceNumber, ret.Reference)
}

func TestCancelSaleTwice(t *testing.T) {
	fx := newSaleFixture(t)

	sale, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{
			{BookID: fx.bookA.ID, Quantity: 3},
		},
	}, fx.sellerID)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), sale.ID, "damaged copy", fx.sellerID)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), sale.ID, "damaged copy", fx.sellerID)
	assert.ErrorIs(t, err, model.ErrSaleNotValidated)

	// No double restock.
	assert.Equal(t, 10, fx.bookA.Quantity)
	assert.Len(t, fx.stock.movements, 2)
}

func TestInvoiceNumbersIncrement(t *testing.T) {
	fx := newSaleFixture(t)

	first, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{{BookID: fx.bookA.ID, Quantity: 1}},
	}, fx.sellerID)
	require.NoError(t, err)

	second, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{{BookID: fx.bookA.ID, Quantity: 1}},
	}, fx.sellerID)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.InvoiceNumber, "-001"))
	assert.True(t, strings.HasSuffix(second.InvoiceNumber, "-002"))
}

func TestDayStatsIgnoreCancelled(t *testing.T) {
	fx := newSaleFixture(t)

	kept, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{{BookID: fx.bookB.ID, Quantity: 1}},
	}, fx.sellerID)
	require.NoError(t, err)

	dropped, err := fx.service.Create(context.Background(), &model.CreateSaleRequest{
		Lines: []model.SaleLineRequest{{BookID: fx.bookA.ID, Quantity: 1}},
	}, fx.sellerID)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), dropped.ID, "test", fx.sellerID)
	require.NoError(t, err)

	stats, err := fx.service.SellerDayStats(context.Background(), fx.sellerID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SalesCount)
	assert.True(t, stats.Total.Equal(kept.Total))
}
