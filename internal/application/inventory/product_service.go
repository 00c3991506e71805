package inventory

import (
	"context"
	"fmt"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referencePurchase  = "purchase"
	openingStockReason = "Opening stock"
	purchaseReason     = "Stock received"
	productServiceName = "ProductService"
)

// ProductService manages products and every stock movement that is not caused by an invoice
type ProductService struct {
	txScope     TransactionScope
	productRepo inventory.ProductRepository
	historyRepo inventory.InventoryHistoryRepository
	ledger      *StockLedger
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	txScope TransactionScope,
	productRepo inventory.ProductRepository,
	historyRepo inventory.InventoryHistoryRepository,
	ledger *StockLedger,
	log *zap.Logger,
) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		txScope:     txScope,
		productRepo: productRepo,
		historyRepo: historyRepo,
		ledger:      ledger,
		logger:      log,
	}
}

// Create creates a product. Opening stock is written as an adjustment row in
// the same transaction so that the history of a product always sums to its stock.
func (s *ProductService) Create(ctx context.Context, tenantID, actor uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, productServiceName, "Create", telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	if req.OpeningStock < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Opening stock cannot be negative")
	}
	product, err := inventory.NewProduct(tenantID, req.Name, req.SKU, req.SellingPrice, req.PurchasePrice)
	if err != nil {
		return nil, err
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.Category = req.Category

	err = s.txScope.Execute(ctx, func(repos LedgerRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}
		if req.OpeningStock == 0 {
			return nil
		}
		_, err := s.ledger.Apply(ctx, repos, product, Movement{
			Type:   inventory.HistoryTypeAdjustment,
			Delta:  req.OpeningStock,
			Reason: openingStockReason,
			Actor:  actor,
		})
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("opening_stock", product.Stock),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	df := filter.toDomain()
	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, df)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	return shared.NewPaginated(items, total, df.Page, df.PageSize), nil
}

// ReceivePurchase adds received goods to stock with a purchase row
func (s *ProductService) ReceivePurchase(ctx context.Context, tenantID, productID, actor uuid.UUID, req ReceivePurchaseRequest) (*StockChangeResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be positive")
	}
	reason := req.Reason
	if reason == "" {
		reason = purchaseReason
	}
	m := Movement{
		Type:   inventory.HistoryTypePurchase,
		Delta:  req.Quantity,
		Reason: reason,
		Actor:  actor,
	}
	if req.ReferenceID != nil {
		m.Reference = inventory.Reference{Type: referencePurchase, ID: *req.ReferenceID}
	}
	return s.move(ctx, tenantID, productID, "ReceivePurchase", m, false)
}

// Adjust applies a manual correction. A correction may not take stock below zero.
func (s *ProductService) Adjust(ctx context.Context, tenantID, productID, actor uuid.UUID, req AdjustStockRequest) (*StockChangeResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Adjustment cannot be zero")
	}
	return s.move(ctx, tenantID, productID, "Adjust", Movement{
		Type:   inventory.HistoryTypeAdjustment,
		Delta:  req.Delta,
		Reason: req.Reason,
		Actor:  actor,
	}, true)
}

func (s *ProductService) move(ctx context.Context, tenantID, productID uuid.UUID, method string, m Movement, guardNegative bool) (*StockChangeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, productServiceName, method,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrProductID, productID.String(),
	)
	defer span.End()

	var change inventory.StockChange
	err := s.txScope.Execute(ctx, func(repos LedgerRepositories) error {
		locked, err := repos.ProductRepo().FindByIDsForUpdate(ctx, tenantID, []uuid.UUID{productID})
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if len(locked) == 0 {
			return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s not found", productID)
		}
		p := &locked[0]
		if guardNegative && p.Stock+m.Delta < 0 {
			return shared.NewDomainErrorf(shared.CodeInsufficientStock,
				"Insufficient stock for %s. Available: %d, requested: %d", p.Name, p.Stock, -m.Delta)
		}
		change, err = s.ledger.Apply(ctx, repos, p, m)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := toStockChangeResponse(change)
	return &resp, nil
}

// History lists the stock history of a product, newest first
func (s *ProductService) History(ctx context.Context, tenantID, productID uuid.UUID, filter HistoryListFilter) (shared.Paginated[HistoryResponse], error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return shared.Paginated[HistoryResponse]{}, err
	}
	df := filter.toDomain()
	rows, total, err := s.historyRepo.FindByProduct(ctx, tenantID, productID, df)
	if err != nil {
		return shared.Paginated[HistoryResponse]{}, err
	}
	items := make([]HistoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ToHistoryResponse(&rows[i]))
	}
	return shared.NewPaginated(items, total, df.Page, df.PageSize), nil
}

// Reconcile compares the product's stock with the sum of its history deltas
func (s *ProductService) Reconcile(ctx context.Context, tenantID, productID uuid.UUID) (*ReconciliationResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	rows, err := s.historyRepo.FindAllByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	r := inventory.Reconcile(product, rows)
	if !r.InSync() {
		logger.WithLogger(ctx, s.logger).Warn("stock ledger drift",
			zap.String("product_id", productID.String()),
			zap.Int("current_stock", r.CurrentStock),
			zap.Int("ledger_stock", r.LedgerStock),
		)
	}
	return &ReconciliationResponse{
		ProductID:    r.ProductID,
		CurrentStock: r.CurrentStock,
		LedgerStock:  r.LedgerStock,
		Entries:      r.Entries,
		Drift:        r.Drift,
		InSync:       r.InSync(),
	}, nil
}
