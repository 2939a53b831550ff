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
	"hexalib-backend/internal/domains/order/model"
	stockModel "hexalib-backend/internal/domains/stock/model"
	supplierModel "hexalib-backend/internal/domains/supplier/model"
)

type fakeOrderRepo struct {
	orders   map[uuid.UUID]*model.PurchaseOrder
	seq      int
	prices   map[uuid.UUID]decimal.Decimal
	received []uuid.UUID
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*model.PurchaseOrder),
		prices: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error)          { return nil, nil }
func (f *fakeOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error        { return nil }
func (f *fakeOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error      { return nil }

func (f *fakeOrderRepo) NextOrderNumberTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeOrderRepo) CreateTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filter *model.OrderFilter) ([]model.PurchaseOrder, int64, error) {
	out := make([]model.PurchaseOrder, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdatePendingTx(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error {
	existing, ok := f.orders[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if existing.Status != model.StatusPending {
		return model.ErrOrderNotPending
	}
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) MarkReceivedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, receivedAt time.Time) error {
	order, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	if order.Status != model.StatusPending {
		return model.ErrOrderNotPending
	}
	order.Status = model.StatusReceived
	order.ReceivedDate = &receivedAt
	f.received = append(f.received, id)
	return nil
}

func (f *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	order, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	if order.Status != model.StatusPending {
		return model.ErrOrderNotPending
	}
	order.Status = model.StatusCancelled
	return nil
}

func (f *fakeOrderRepo) DeletePending(ctx context.Context, id uuid.UUID) error {
	order, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	if order.Status != model.StatusPending {
		return model.ErrOrderNotPending
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) SetBookPurchasePriceTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, price decimal.Decimal) error {
	f.prices[bookID] = price
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*supplierModel.Supplier
}

func (f *fakeSupplierRepo) Create(ctx context.Context, entity *supplierModel.Supplier) error {
	f.suppliers[entity.ID] = entity
	return nil
}

func (f *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*supplierModel.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, supplierModel.ErrSupplierNotFound
	}
	return s, nil
}

func (f *fakeSupplierRepo) List(ctx context.Context, filter *supplierModel.SupplierFilter) ([]supplierModel.Supplier, int64, error) {
	return nil, 0, nil
}

func (f *fakeSupplierRepo) Update(ctx context.Context, entity *supplierModel.Supplier) error {
	return nil
}

func (f *fakeSupplierRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (f *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

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

func (f *fakeBookRepo) ListLowStock(ctx context.Context) ([]bookModel.Book, error) {
	return nil, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, entity *bookModel.Book) error { return nil }
func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

func (f *fakeBookRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeStockRepo struct {
	books       map[uuid.UUID]*bookModel.Book
	movements   []stockModel.Movement
	invalidated []uuid.UUID
}

func (f *fakeStockRepo) ApplyMovement(ctx context.Context, input *stockModel.ApplyInput) (*stockModel.Movement, error) {
	return f.ApplyMovementTx(ctx, nil, input)
}

func (f *fakeStockRepo) ApplyMovementTx(ctx context.Context, tx pgx.Tx, input *stockModel.ApplyInput) (*stockModel.Movement, error) {
	book, ok := f.books[input.BookID]
	if !ok {
		return nil, stockModel.ErrBookNotFound
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

type orderFixture struct {
	service   Service
	orders    *fakeOrderRepo
	stock     *fakeStockRepo
	books     *fakeBookRepo
	supplier  *supplierModel.Supplier
	bookA     *bookModel.Book
	bookB     *bookModel.Book
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	supplier := &supplierModel.Supplier{
		ID:     uuid.New(),
		Name:   "Editions du Nord",
		Status: supplierModel.StatusActive,
	}
	bookA := &bookModel.Book{ID: uuid.New(), Title: "Book A", Quantity: 4}
	bookB := &bookModel.Book{ID: uuid.New(), Title: "Book B", Quantity: 0}

	orders := newFakeOrderRepo()
	books := &fakeBookRepo{books: map[uuid.UUID]*bookModel.Book{bookA.ID: bookA, bookB.ID: bookB}}
	stock := &fakeStockRepo{books: books.books}
	suppliers := &fakeSupplierRepo{suppliers: map[uuid.UUID]*supplierModel.Supplier{supplier.ID: supplier}}

	return &orderFixture{
		service:  NewOrderService(orders, suppliers, books, stock),
		orders:   orders,
		stock:    stock,
		books:    books,
		supplier: supplier,
		bookA:    bookA,
		bookB:    bookB,
	}
}

func (fx *orderFixture) createOrder(t *testing.T) *model.PurchaseOrder {
	t.Helper()

	order, err := fx.service.Create(context.Background(), &model.CreateOrderRequest{
		SupplierID: fx.supplier.ID,
		Lines: []model.OrderLineRequest{
			{BookID: fx.bookA.ID, Quantity: 6, PurchasePrice: decimal.RequireFromString("8.00")},
			{BookID: fx.bookB.ID, Quantity: 10, PurchasePrice: decimal.RequireFromString("5.50")},
		},
	}, uuid.New())
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	fx := newOrderFixture(t)

	order := fx.createOrder(t)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "CMD-"), order.Number)
	assert.True(t, strings.HasSuffix(order.Number, "-001"), order.Number)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("103.00")))
	assert.Len(t, order.Lines, 2)
}

func TestCreateOrderNumbersIncrement(t *testing.T) {
	fx := newOrderFixture(t)

	first := fx.createOrder(t)
	second := fx.createOrder(t)

	assert.True(t, strings.HasSuffix(first.Number, "-001"))
	assert.True(t, strings.HasSuffix(second.Number, "-002"))
}

func TestCreateOrderInactiveSupplier(t *testing.T) {
	fx := newOrderFixture(t)
	fx.supplier.Status = supplierModel.StatusInactive

	_, err := fx.service.Create(context.Background(), &model.CreateOrderRequest{
		SupplierID: fx.supplier.ID,
		Lines: []model.OrderLineRequest{
			{BookID: fx.bookA.ID, Quantity: 1, PurchasePrice: decimal.RequireFromString("8.00")},
		},
	}, uuid.New())

	assert.ErrorIs(t, err, model.ErrSupplierInactive)
}

func TestCreateOrderUnknownBook(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.service.Create(context.Background(), &model.CreateOrderRequest{
		SupplierID: fx.supplier.ID,
		Lines: []model.OrderLineRequest{
			{BookID: uuid.New(), Quantity: 1, PurchasePrice: decimal.RequireFromString("8.00")},
		},
	}, uuid.New())

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestReceiveOrder(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.createOrder(t)

	received, err := fx.service.Receive(context.Background(), order.ID, time.Time{}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)

	// Stock went up by the ordered quantities.
	assert.Equal(t, 10, fx.bookA.Quantity)
	assert.Equal(t, 10, fx.bookB.Quantity)

	// One IN movement per line, referencing the order number.
	require.Len(t, fx.stock.movements, 2)
	for _, m := range fx.stock.movements {
		assert.Equal(t, stockModel.TypeIn, m.Type)
		assert.Equal(t, "Order reception", m.Reason)
		assert.Equal(t, order.Number, m.Reference)
	}

	// Purchase prices copied from the order lines.
	assert.True(t, fx.orders.prices[fx.bookA.ID].Equal(decimal.RequireFromString("8.00")))
	assert.True(t, fx.orders.prices[fx.bookB.ID].Equal(decimal.RequireFromString("5.50")))

	// Cached books dropped after commit.
	assert.ElementsMatch(t, []uuid.UUID{fx.bookA.ID, fx.bookB.ID}, fx.stock.invalidated)
}

func TestReceiveOrderTwice(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.createOrder(t)

	_, err := fx.service.Receive(context.Background(), order.ID, time.Time{}, uuid.New())
	require.NoError(t, err)

	_, err = fx.service.Receive(context.Background(), order.ID, time.Time{}, uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotPending)

	// No double booking.
	assert.Equal(t, 10, fx.bookA.Quantity)
	assert.Len(t, fx.stock.movements, 2)
}

func TestUpdateReceivedOrder(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.createOrder(t)

	_, err := fx.service.Receive(context.Background(), order.ID, time.Time{}, uuid.New())
	require.NoError(t, err)

	_, err = fx.service.Update(context.Background(), order.ID, &model.UpdateOrderRequest{
		Lines: []model.OrderLineRequest{
			{BookID: fx.bookA.ID, Quantity: 1, PurchasePrice: decimal.RequireFromString("8.00")},
		},
	})
	assert.ErrorIs(t, err, model.ErrOrderNotPending)
}

func TestCancelOrder(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.createOrder(t)

	require.NoError(t, fx.service.Cancel(context.Background(), order.ID))

	got, err := fx.service.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// Cancelled orders cannot be received.
	_, err = fx.service.Receive(context.Background(), order.ID, time.Time{}, uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotPending)
	assert.Empty(t, fx.stock.movements)
}
