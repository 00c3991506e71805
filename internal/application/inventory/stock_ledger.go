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

// StockLedger writes a product's new stock together with its history row.
// It never opens a transaction itself; callers pass the repositories of theirs.
type StockLedger struct {
	logger  *zap.Logger
	metrics *telemetry.BusinessMetrics
}

// NewStockLedger creates a new StockLedger
func NewStockLedger(log *zap.Logger) *StockLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockLedger{logger: log}
}

// SetBusinessMetrics enables movement counters
func (l *StockLedger) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	l.metrics = bm
}

// Movement describes one delta to apply
type Movement struct {
	Type      inventory.HistoryType
	Delta     int
	Reason    string
	Actor     uuid.UUID
	Reference inventory.Reference
}

// ApplyDelta locks the product, moves its stock and appends the history row.
func (l *StockLedger) ApplyDelta(
	ctx context.Context,
	repos LedgerRepositories,
	tenantID, productID uuid.UUID,
	m Movement,
) (inventory.StockChange, error) {
	products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, tenantID, []uuid.UUID{productID})
	if err != nil {
		return inventory.StockChange{}, fmt.Errorf("failed to lock product: %w", err)
	}
	if len(products) == 0 {
		return inventory.StockChange{}, shared.NewDomainErrorf(shared.CodeNotFound, "Product %s not found", productID)
	}
	return l.Apply(ctx, repos, &products[0], m)
}

// Apply moves stock on a product the caller already holds locked and keeps p
// current, so several movements on one product can follow each other.
func (l *StockLedger) Apply(
	ctx context.Context,
	repos LedgerRepositories,
	p *inventory.Product,
	m Movement,
) (inventory.StockChange, error) {
	entry, change, err := inventory.ApplyDelta(p, m.Delta, m.Type, m.Reason, m.Actor, m.Reference)
	if err != nil {
		return inventory.StockChange{}, err
	}

	if err := repos.ProductRepo().SaveWithLock(ctx, p); err != nil {
		return inventory.StockChange{}, err
	}
	if err := repos.HistoryRepo().Create(ctx, entry); err != nil {
		return inventory.StockChange{}, fmt.Errorf("failed to append inventory history: %w", err)
	}

	l.metrics.RecordStockMovement(ctx, p.TenantID, m.Type.String(), m.Delta)
	logger.WithLogger(ctx, l.logger).Debug("stock moved",
		zap.String("product_id", p.ID.String()),
		zap.String("type", m.Type.String()),
		zap.Int("delta", m.Delta),
		zap.Int("previous_stock", change.PreviousStock),
		zap.Int("new_stock", change.NewStock),
	)
	return change, nil
}
