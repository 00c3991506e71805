package inventory

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product with optional opening stock
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	SKU           string          `json:"sku" binding:"max=100"`
	Unit          string          `json:"unit" binding:"max=20"`
	Category      string          `json:"category" binding:"max=50"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	OpeningStock  int             `json:"opening_stock" binding:"min=0"`
}

// ReceivePurchaseRequest adds received goods to stock
type ReceivePurchaseRequest struct {
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	Reason      string     `json:"reason" binding:"max=500"`
	ReferenceID *uuid.UUID `json:"reference_id"`
}

// AdjustStockRequest corrects stock by a signed delta
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name sku stock created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// HistoryListFilter represents filter options for a product's stock history
type HistoryListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=sale sale_update sale_deletion purchase adjustment"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Unit          string          `json:"unit"`
	Category      string          `json:"category,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// HistoryResponse represents one inventory history row
type HistoryResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	Type          string     `json:"type"`
	Quantity      int        `json:"quantity"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	Reason        string     `json:"reason,omitempty"`
	UpdatedBy     *uuid.UUID `json:"updated_by,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StockChangeResponse is returned by purchase and adjustment endpoints
type StockChangeResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	Delta         int       `json:"delta"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
}

// ReconciliationResponse reports whether history explains the current stock
type ReconciliationResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	CurrentStock int       `json:"current_stock"`
	LedgerStock  int       `json:"ledger_stock"`
	Entries      int       `json:"entries"`
	Drift        int       `json:"drift"`
	InSync       bool      `json:"in_sync"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		Name:          p.Name,
		SKU:           p.SKU,
		Unit:          p.Unit,
		Category:      p.Category,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		Stock:         p.Stock,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToHistoryResponse converts a history row
func ToHistoryResponse(h *inventory.InventoryHistory) HistoryResponse {
	return HistoryResponse{
		ID:            h.ID,
		ProductID:     h.ProductID,
		Type:          h.Type.String(),
		Quantity:      h.Quantity,
		PreviousStock: h.PreviousStock,
		NewStock:      h.NewStock,
		Reason:        h.Reason,
		UpdatedBy:     h.UpdatedBy,
		ReferenceType: h.ReferenceType,
		ReferenceID:   h.ReferenceID,
		CreatedAt:     h.CreatedAt,
	}
}

func toStockChangeResponse(c inventory.StockChange) StockChangeResponse {
	return StockChangeResponse{
		ProductID:     c.ProductID,
		Delta:         c.Delta,
		PreviousStock: c.PreviousStock,
		NewStock:      c.NewStock,
	}
}

func (f ProductListFilter) toDomain() shared.Filter {
	df := shared.DefaultFilter()
	if f.Page > 0 {
		df.Page = f.Page
	}
	if f.PageSize > 0 {
		df.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		df.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		df.OrderDir = f.OrderDir
	}
	df.Search = f.Search
	if f.Category != "" {
		df.Filters["category"] = f.Category
	}
	return df
}

func (f HistoryListFilter) toDomain() shared.Filter {
	df := shared.DefaultFilter()
	if f.Page > 0 {
		df.Page = f.Page
	}
	if f.PageSize > 0 {
		df.PageSize = f.PageSize
	}
	if f.Type != "" {
		df.Filters["type"] = f.Type
	}
	return df
}
