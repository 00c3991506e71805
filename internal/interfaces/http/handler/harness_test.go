package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	eventapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/event"
	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	partnerapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/partner"
	tradeapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/cache"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/event"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/middleware"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiHarness serves the real handlers over an in-memory sqlite database
type apiHarness struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	db := testutil.NewSQLiteDatabase(t).DB
	ledger := inventoryapp.NewStockLedger(nil)

	invoiceService := tradeapp.NewInvoiceService(
		persistence.NewGormTransactionScope(db),
		persistence.NewGormInvoiceRepository(db),
		ledger,
		trade.NewStandardTaxTable(),
		event.NewOutboxPublisher(event.NewInvoiceEventSerializer(), 0),
		nil,
		tradeapp.InvoiceServiceConfig{},
	)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	invoiceService.SetIdempotencyStore(store)

	productService := inventoryapp.NewProductService(
		persistence.NewGormLedgerScope(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormInventoryHistoryRepository(db),
		ledger,
		nil,
	)
	customerService := partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(db), nil)
	outboxService := eventapp.NewOutboxService(persistence.NewGormOutboxRepository(db), nil)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	system := NewSystemHandler("invoicing-core", "test")
	engine.GET("/health", system.Health)

	api := engine.Group("/api/v1", middleware.TenantMiddleware(middleware.DefaultTenantConfig()))
	NewInvoiceHandler(invoiceService).RegisterRoutes(api)
	NewProductHandler(productService).RegisterRoutes(api)
	NewCustomerHandler(customerService).RegisterRoutes(api)
	NewOutboxHandler(outboxService).RegisterRoutes(api)

	return &apiHarness{
		t:        t,
		db:       db,
		engine:   engine,
		tenantID: testutil.TestTenantID(),
		userID:   testutil.TestUserID(),
	}
}

func (h *apiHarness) headers(extra ...string) map[string]string {
	headers := map[string]string{
		middleware.TenantHeaderKey: h.tenantID.String(),
		middleware.UserHeaderKey:   h.userID.String(),
	}
	for i := 0; i+1 < len(extra); i += 2 {
		headers[extra[i]] = extra[i+1]
	}
	return headers
}

func (h *apiHarness) do(method, path string, body any, extra ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	return testutil.PerformRequest(h.t, h.engine, method, path, body, h.headers(extra...))
}

func (h *apiHarness) createCustomer(name string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/customers", map[string]any{"name": name, "phone": "+91 98765 43210"})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.ResponseData(h.t, w)["id"].(string)
}

func (h *apiHarness) createProduct(name string, stock int) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/products", map[string]any{
		"name":           name,
		"sku":            "SKU-" + name,
		"selling_price":  "250",
		"purchase_price": "180",
		"opening_stock":  stock,
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.ResponseData(h.t, w)["id"].(string)
}

func (h *apiHarness) stockOf(productID string) float64 {
	h.t.Helper()
	w := h.do(http.MethodGet, "/api/v1/products/"+productID, nil)
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	return testutil.ResponseData(h.t, w)["stock"].(float64)
}

func (h *apiHarness) ctx() context.Context {
	return context.Background()
}
