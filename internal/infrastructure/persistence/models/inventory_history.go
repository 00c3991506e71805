package models

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/google/uuid"
)

// InventoryHistoryModel is one row of the append-only stock ledger
type InventoryHistoryModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID             `gorm:"type:uuid;not null;index:idx_inventory_history_tenant_product,priority:1"`
	ProductID     uuid.UUID             `gorm:"type:uuid;not null;index:idx_inventory_history_tenant_product,priority:2"`
	Type          inventory.HistoryType `gorm:"type:varchar(20);not null;index"`
	Quantity      int                   `gorm:"not null"`
	PreviousStock int                   `gorm:"not null"`
	NewStock      int                   `gorm:"not null"`
	Reason        string                `gorm:"type:varchar(500)"`
	UpdatedBy     *uuid.UUID            `gorm:"type:uuid"`
	ReferenceType string                `gorm:"type:varchar(30);index:idx_inventory_history_reference,priority:1"`
	ReferenceID   *uuid.UUID            `gorm:"type:uuid;index:idx_inventory_history_reference,priority:2"`
	CreatedAt     time.Time             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventoryHistoryModel) TableName() string {
	return "inventory_history"
}

// ToDomain converts the persistence model to a domain InventoryHistory
func (m *InventoryHistoryModel) ToDomain() *inventory.InventoryHistory {
	return &inventory.InventoryHistory{
		ID:            m.ID,
		TenantID:      m.TenantID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		UpdatedBy:     m.UpdatedBy,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain InventoryHistory
func (m *InventoryHistoryModel) FromDomain(h *inventory.InventoryHistory) {
	m.ID = h.ID
	m.TenantID = h.TenantID
	m.ProductID = h.ProductID
	m.Type = h.Type
	m.Quantity = h.Quantity
	m.PreviousStock = h.PreviousStock
	m.NewStock = h.NewStock
	m.Reason = h.Reason
	m.UpdatedBy = h.UpdatedBy
	m.ReferenceType = h.ReferenceType
	m.ReferenceID = h.ReferenceID
	m.CreatedAt = h.CreatedAt
}

// InventoryHistoryModelFromDomain creates a new persistence model from a domain InventoryHistory
func InventoryHistoryModelFromDomain(h *inventory.InventoryHistory) *InventoryHistoryModel {
	m := &InventoryHistoryModel{}
	m.FromDomain(h)
	return m
}
