package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSequenceModel holds the last number handed out for a tenant and month
type InvoiceSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	YearMonth string    `gorm:"type:char(6);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}
