package trade_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	tradeapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/cache"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/event"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/lock"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var march15 = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type invoiceFixture struct {
	db         *gorm.DB
	svc        *tradeapp.InvoiceService
	products   *persistence.GormProductRepository
	history    *persistence.GormInventoryHistoryRepository
	outbox     *persistence.GormOutboxRepository
	tenantID   uuid.UUID
	customerID uuid.UUID
	meta       tradeapp.CommandMeta
}

type fixtureOption func(*fixtureSettings)

type fixtureSettings struct {
	cfg    tradeapp.InvoiceServiceConfig
	outbox shared.OutboxEventSaver
	db     *gorm.DB
}

func withConfig(cfg tradeapp.InvoiceServiceConfig) fixtureOption {
	return func(s *fixtureSettings) { s.cfg = cfg }
}

func withOutbox(o shared.OutboxEventSaver) fixtureOption {
	return func(s *fixtureSettings) { s.outbox = o }
}

func withDatabase(db *gorm.DB) fixtureOption {
	return func(s *fixtureSettings) { s.db = db }
}

func newInvoiceFixture(t *testing.T, opts ...fixtureOption) *invoiceFixture {
	t.Helper()
	settings := fixtureSettings{
		outbox: event.NewOutboxPublisher(event.NewInvoiceEventSerializer(), 0),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	db := settings.db
	if db == nil {
		db = testutil.NewSQLiteDatabase(t).DB
	}
	tenantID := testutil.TestTenantID()

	customer, err := partner.NewCustomer(tenantID, "Asha Traders", "+91 98765 43210", "", "", "Pune")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(db).Save(context.Background(), customer))

	svc := tradeapp.NewInvoiceService(
		persistence.NewGormTransactionScope(db),
		persistence.NewGormInvoiceRepository(db),
		inventoryapp.NewStockLedger(nil),
		trade.NewStandardTaxTable(),
		settings.outbox,
		nil,
		settings.cfg,
	)
	svc.SetClock(func() time.Time { return march15 })

	return &invoiceFixture{
		db:         db,
		svc:        svc,
		products:   persistence.NewGormProductRepository(db),
		history:    persistence.NewGormInventoryHistoryRepository(db),
		outbox:     persistence.NewGormOutboxRepository(db),
		tenantID:   tenantID,
		customerID: customer.ID,
		meta:       tradeapp.CommandMeta{TenantID: tenantID, ActorID: testutil.TestUserID()},
	}
}

func (f *invoiceFixture) seedProduct(t *testing.T, name string, stock int) uuid.UUID {
	t.Helper()
	p, err := inventory.NewProduct(f.tenantID, name, "SKU-"+name, decimal.NewFromInt(250), decimal.NewFromInt(180))
	require.NoError(t, err)
	p.Stock = stock
	require.NoError(t, f.products.Save(context.Background(), p))
	return p.ID
}

func (f *invoiceFixture) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByIDForTenant(context.Background(), f.tenantID, productID)
	require.NoError(t, err)
	return p.Stock
}

func (f *invoiceFixture) pendingEvents(t *testing.T) []string {
	t.Helper()
	entries, err := f.outbox.FindPending(context.Background(), 100)
	require.NoError(t, err)
	types := make([]string, len(entries))
	for i, e := range entries {
		types[i] = e.EventType
	}
	return types
}

func (f *invoiceFixture) invoiceRequest(items ...tradeapp.InvoiceItemRequest) tradeapp.CreateInvoiceRequest {
	return tradeapp.CreateInvoiceRequest{
		CustomerID:    f.customerID,
		Items:         items,
		ApplyGST:      true,
		TaxCategory:   "standard",
		PaymentMethod: "cash",
	}
}

func item(productID uuid.UUID, qty int) tradeapp.InvoiceItemRequest {
	return tradeapp.InvoiceItemRequest{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(250)}
}

func TestInvoiceService_CreateAndPay(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	productID := f.seedProduct(t, "Widget", 10)

	inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
	require.NoError(t, err)

	assert.Equal(t, "202403-001", inv.InvoiceNumber)
	assert.Equal(t, "750.00", inv.TotalTaxableAmount.StringFixed(2))
	assert.Equal(t, "67.50", inv.TotalCGST.StringFixed(2))
	assert.Equal(t, "67.50", inv.TotalSGST.StringFixed(2))
	assert.Equal(t, "885.00", inv.GrandTotal.StringFixed(2))
	assert.Equal(t, "885.00", inv.PendingAmount.StringFixed(2))
	assert.Equal(t, "unpaid", inv.PaymentStatus)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget", inv.Items[0].ProductName)
	assert.Equal(t, "180.00", inv.Items[0].PurchasePrice.StringFixed(2))

	assert.Equal(t, 7, f.stockOf(t, productID))
	rows, err := f.history.FindByReference(ctx, f.tenantID, inventory.ReferenceInvoice, inv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inventory.HistoryTypeSale, rows[0].Type)
	assert.Equal(t, -3, rows[0].Quantity)
	assert.Equal(t, 10, rows[0].PreviousStock)
	assert.Equal(t, 7, rows[0].NewStock)

	paid, err := f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(500), Method: "upi"})
	require.NoError(t, err)
	assert.Equal(t, "partial", paid.PaymentStatus)
	assert.Equal(t, "385.00", paid.PendingAmount.StringFixed(2))

	paid, err = f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(385), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.Equal(t, "paid", paid.Status)
	assert.True(t, paid.PendingAmount.IsZero())
	assert.Len(t, paid.Payments, 2)

	_, err = f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, shared.ErrOverpayment)

	// payments never move stock
	assert.Equal(t, 7, f.stockOf(t, productID))
	assert.Equal(t, []string{
		trade.EventTypeInvoiceCreated,
		trade.EventTypeInvoicePaymentRecorded,
		trade.EventTypeInvoicePaymentRecorded,
	}, f.pendingEvents(t))

	second, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 1)))
	require.NoError(t, err)
	assert.Equal(t, "202403-002", second.InvoiceNumber)
}

func TestInvoiceService_Create_PaidInFull(t *testing.T) {
	f := newInvoiceFixture(t)
	productID := f.seedProduct(t, "Widget", 10)

	req := f.invoiceRequest(item(productID, 2))
	req.PaymentStatus = "paid"
	inv, err := f.svc.Create(context.Background(), f.meta, req)
	require.NoError(t, err)

	assert.Equal(t, "paid", inv.PaymentStatus)
	assert.Equal(t, inv.GrandTotal.StringFixed(2), inv.PaidAmount.StringFixed(2))
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, trade.PaymentNoteAtCreation, inv.Payments[0].Notes)
}

func TestInvoiceService_Create_Rejections(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	productID := f.seedProduct(t, "Widget", 5)

	tests := []struct {
		name   string
		mutate func(*tradeapp.CreateInvoiceRequest)
		want   error
	}{
		{
			name: "aggregated lines exceed stock",
			mutate: func(r *tradeapp.CreateInvoiceRequest) {
				r.Items = []tradeapp.InvoiceItemRequest{item(productID, 3), item(productID, 3)}
			},
			want: shared.ErrInsufficientStock,
		},
		{
			name:   "unknown product",
			mutate: func(r *tradeapp.CreateInvoiceRequest) { r.Items = []tradeapp.InvoiceItemRequest{item(uuid.New(), 1)} },
			want:   shared.ErrNotFound,
		},
		{
			name:   "unknown customer",
			mutate: func(r *tradeapp.CreateInvoiceRequest) { r.CustomerID = uuid.New() },
			want:   shared.ErrNotFound,
		},
		{
			name:   "no items",
			mutate: func(r *tradeapp.CreateInvoiceRequest) { r.Items = nil },
			want:   shared.ErrInvalidInput,
		},
		{
			name:   "paid more than the total",
			mutate: func(r *tradeapp.CreateInvoiceRequest) { r.PaidAmount = decimal.NewFromInt(10000) },
			want:   shared.ErrOverpayment,
		},
		{
			name:   "unknown tax category",
			mutate: func(r *tradeapp.CreateInvoiceRequest) { r.TaxCategory = "luxury" },
			want:   shared.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.invoiceRequest(item(productID, 1))
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, f.meta, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 5, f.stockOf(t, productID), "rejected invoices must not move stock")
	assert.Empty(t, f.pendingEvents(t))

	inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 5)))
	require.NoError(t, err)
	assert.Equal(t, "202403-001", inv.InvoiceNumber, "rejected invoices must not consume numbers")
	assert.Equal(t, 0, f.stockOf(t, productID))
}

type failingOutbox struct{}

func (failingOutbox) SaveEvents(context.Context, shared.OutboxRepository, ...shared.DomainEvent) error {
	return errors.New("outbox unavailable")
}

func TestInvoiceService_Create_RollsBackEverything(t *testing.T) {
	f := newInvoiceFixture(t, withOutbox(failingOutbox{}))
	ctx := context.Background()
	productID := f.seedProduct(t, "Widget", 10)

	_, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox unavailable")

	assert.Equal(t, 10, f.stockOf(t, productID))
	history, err := f.history.FindAllByProduct(ctx, f.tenantID, productID)
	require.NoError(t, err)
	assert.Empty(t, history)

	page, err := f.svc.List(ctx, f.tenantID, tradeapp.InvoiceListFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	used, err := persistence.NewGormInvoiceSequenceRepository(f.db).Used(ctx, f.tenantID, "202403")
	require.NoError(t, err)
	assert.Zero(t, used, "the number goes back with the rollback")
}

func TestInvoiceService_IdempotencyKey(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	f.svc.SetIdempotencyStore(store)
	productID := f.seedProduct(t, "Widget", 2)

	meta := f.meta
	meta.IdempotencyKey = "req-1"

	t.Run("a failed attempt can be retried with the same key", func(t *testing.T) {
		_, err := f.svc.Create(ctx, meta, f.invoiceRequest(item(productID, 3)))
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		_, err = f.svc.Create(ctx, meta, f.invoiceRequest(item(productID, 1)))
		require.NoError(t, err)
	})

	t.Run("a repeated key is rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, meta, f.invoiceRequest(item(productID, 1)))
		assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
		assert.Equal(t, 1, f.stockOf(t, productID))
	})

	t.Run("keys are scoped per operation", func(t *testing.T) {
		page, err := f.svc.List(ctx, f.tenantID, tradeapp.InvoiceListFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)

		_, err = f.svc.RecordPayment(ctx, meta, page.Items[0].ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("lowering a quantity restores then takes", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 5)))
		require.NoError(t, err)
		assert.Equal(t, 5, f.stockOf(t, productID))

		_, err = f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 3)))
		require.NoError(t, err)
		assert.Equal(t, 7, f.stockOf(t, productID))

		rows, err := f.history.FindByReference(ctx, f.tenantID, inventory.ReferenceInvoice, inv.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		type move struct {
			Type                 inventory.HistoryType
			Delta, Before, After int
		}
		moves := make([]move, len(rows))
		for i, r := range rows {
			moves[i] = move{r.Type, r.Quantity, r.PreviousStock, r.NewStock}
		}
		assert.Equal(t, []move{
			{inventory.HistoryTypeSale, -5, 10, 5},
			{inventory.HistoryTypeSaleUpdate, 5, 5, 10},
			{inventory.HistoryTypeSaleUpdate, -3, 10, 7},
		}, moves)
	})

	t.Run("restores old quantities before taking new ones", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 10)))
		require.NoError(t, err)
		assert.Equal(t, 0, f.stockOf(t, productID))
		assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
		assert.Equal(t, "2950.00", updated.GrandTotal.StringFixed(2))
		assert.Equal(t, inv.Version+1, updated.Version)

		rows, err := f.history.FindByReference(ctx, f.tenantID, inventory.ReferenceInvoice, inv.ID)
		require.NoError(t, err)
		deltas := make([]int, len(rows))
		for i, r := range rows {
			deltas[i] = r.Quantity
		}
		assert.ElementsMatch(t, []int{-3, 3, -10}, deltas)
		assert.Contains(t, f.pendingEvents(t), trade.EventTypeInvoiceUpdated)
	})

	t.Run("insufficient stock rolls back the restore", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 11)))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 7, f.stockOf(t, productID))

		got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Items[0].Quantity)
	})

	t.Run("negative stock is allowed when configured", func(t *testing.T) {
		f := newInvoiceFixture(t, withConfig(tradeapp.InvoiceServiceConfig{AllowNegativeStockOnUpdate: true}))
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 11)))
		require.NoError(t, err)
		assert.Equal(t, -1, f.stockOf(t, productID))
	})

	t.Run("swapping products moves both", func(t *testing.T) {
		f := newInvoiceFixture(t)
		a := f.seedProduct(t, "Alpha", 10)
		b := f.seedProduct(t, "Beta", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(a, 4)))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(b, 2)))
		require.NoError(t, err)
		assert.Equal(t, 10, f.stockOf(t, a))
		assert.Equal(t, 8, f.stockOf(t, b))
	})

	t.Run("a total below the amount paid is rejected", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
		require.NoError(t, err)
		_, err = f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(500)})
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 1)))
		assert.ErrorIs(t, err, shared.ErrOverpayment)
		assert.Equal(t, 7, f.stockOf(t, productID))
	})

	t.Run("payments are kept and status recomputed", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 1)))
		require.NoError(t, err)
		_, err = f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: inv.GrandTotal})
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, f.meta, inv.ID, f.invoiceRequest(item(productID, 2)))
		require.NoError(t, err)
		assert.Equal(t, "partial", updated.PaymentStatus)
		assert.Len(t, updated.Payments, 1)
		assert.Equal(t, "295.00", updated.PendingAmount.StringFixed(2))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newInvoiceFixture(t)
		productID := f.seedProduct(t, "Widget", 10)
		_, err := f.svc.Update(ctx, f.meta, uuid.New(), f.invoiceRequest(item(productID, 1)))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Alpha", 10)
	b := f.seedProduct(t, "Beta", 10)

	inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(a, 3), item(b, 2), item(a, 1)))
	require.NoError(t, err)
	assert.Equal(t, 6, f.stockOf(t, a))
	assert.Equal(t, 8, f.stockOf(t, b))

	t.Run("another tenant cannot delete it", func(t *testing.T) {
		other := f.meta
		other.TenantID = uuid.New()
		assert.ErrorIs(t, f.svc.Delete(ctx, other, inv.ID), shared.ErrNotFound)
	})

	require.NoError(t, f.svc.Delete(ctx, f.meta, inv.ID))
	assert.Equal(t, 10, f.stockOf(t, a))
	assert.Equal(t, 10, f.stockOf(t, b))

	_, err = f.svc.GetByID(ctx, f.tenantID, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	rows, err := f.history.FindByReference(ctx, f.tenantID, inventory.ReferenceInvoice, inv.ID)
	require.NoError(t, err)
	deletions := 0
	for _, r := range rows {
		if r.Type == inventory.HistoryTypeSaleDeletion {
			deletions++
		}
	}
	assert.Equal(t, 3, deletions)
	assert.Contains(t, f.pendingEvents(t), trade.EventTypeInvoiceDeleted)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.meta, inv.ID), shared.ErrNotFound)
}

func TestInvoiceService_ConcurrentPayments(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	f.svc.SetLocker(lock.NewLocalInvoiceLocker())
	productID := f.seedProduct(t, "Widget", 10)

	inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 3)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.RecordPayment(ctx, f.meta, inv.ID, tradeapp.RecordPaymentRequest{Amount: decimal.NewFromInt(500)})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrOverpayment)
	}
	assert.Equal(t, 1, succeeded)

	got, err := f.svc.GetByID(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "385.00", got.PendingAmount.StringFixed(2))
}

func TestInvoiceService_Reads(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	productID := f.seedProduct(t, "Widget", 10)

	inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 1)))
	require.NoError(t, err)

	byNumber, err := f.svc.GetByNumber(ctx, f.tenantID, "202403-001")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byNumber.ID)

	_, err = f.svc.GetByID(ctx, uuid.New(), inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	page, err := f.svc.List(ctx, f.tenantID, tradeapp.InvoiceListFilter{PaymentStatus: "unpaid"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].ItemCount)
}

// counterSequence stands in for a sequence kept outside the database
type counterSequence struct {
	mu   sync.Mutex
	last int64
}

func (s *counterSequence) Next(context.Context, uuid.UUID, string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last, nil
}

func TestInvoiceService_NumberingSurvivesBackendSwitch(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	productID := f.seedProduct(t, "Widget", 20)

	f.svc.SetSequence(&counterSequence{})
	var ids []uuid.UUID
	for range 3 {
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 1)))
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}
	require.NoError(t, f.svc.Delete(ctx, f.meta, ids[1]))

	f.svc.SetSequence(nil)
	for _, want := range []string{"202403-004", "202403-005"} {
		inv, err := f.svc.Create(ctx, f.meta, f.invoiceRequest(item(productID, 1)))
		require.NoError(t, err)
		assert.Equal(t, want, inv.InvoiceNumber)
	}
}
