package models

import (
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"column:sku;type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Category      string          `gorm:"type:varchar(100);index"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock         int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *inventory.Product {
	return &inventory.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		SKU:                 m.SKU,
		Unit:                m.Unit,
		Category:            m.Category,
		SellingPrice:        m.SellingPrice,
		PurchasePrice:       m.PurchasePrice,
		Stock:               m.Stock,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *inventory.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Unit = p.Unit
	m.Category = p.Category
	m.SellingPrice = p.SellingPrice
	m.PurchasePrice = p.PurchasePrice
	m.Stock = p.Stock
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
