package inventory

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDsForTenant finds several products; missing IDs are simply absent from the result
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindByIDsForUpdate loads products with a row lock, in ascending ID order.
	// Only meaningful inside a transaction.
	FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForTenant lists products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)

	// Save creates a new product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product, failing with ErrConcurrencyConflict when
	// the stored version is not the one the product was loaded with
	SaveWithLock(ctx context.Context, product *Product) error
}

// InventoryHistoryRepository is append-only. There are no update or delete methods.
type InventoryHistoryRepository interface {
	// Create appends a history row
	Create(ctx context.Context, entry *InventoryHistory) error

	// CreateBatch appends several rows
	CreateBatch(ctx context.Context, entries []*InventoryHistory) error

	// FindByProduct lists a product's history, newest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]InventoryHistory, int64, error)

	// FindByReference lists rows written for a source document, oldest first
	FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]InventoryHistory, error)

	// FindAllByProduct returns every row for a product, oldest first
	FindAllByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]InventoryHistory, error)
}
