package inventory

import (
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the stock-bearing entity shared by all invoices of a tenant.
// Stock is only ever changed through ApplyDelta so that every change has a
// matching InventoryHistory row.
type Product struct {
	shared.TenantAggregateRoot
	Name          string
	SKU           string
	Unit          string
	Category      string
	SellingPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
	Stock         int
}

// NewProduct creates a product with zero stock. Opening stock is recorded
// separately as an adjustment so the ledger stays complete.
func NewProduct(tenantID uuid.UUID, name, sku string, sellingPrice, purchasePrice decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tenant ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot exceed 200 characters")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Selling price cannot be negative")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Purchase price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 strings.TrimSpace(sku),
		Unit:                "pcs",
		SellingPrice:        sellingPrice.Round(2),
		PurchasePrice:       purchasePrice.Round(2),
	}, nil
}

// HasStock reports whether quantity units can be taken from the product
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// UpdatePrices changes the selling and purchase price. Invoices keep their
// own purchase price snapshot, so this never changes historic margins.
func (p *Product) UpdatePrices(sellingPrice, purchasePrice decimal.Decimal) error {
	if sellingPrice.IsNegative() || purchasePrice.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Prices cannot be negative")
	}
	p.SellingPrice = sellingPrice.Round(2)
	p.PurchasePrice = purchasePrice.Round(2)
	p.Touch()
	p.IncrementVersion()
	return nil
}
