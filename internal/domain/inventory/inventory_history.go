package inventory

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// HistoryType classifies a stock-affecting event
type HistoryType string

const (
	// HistoryTypeSale is the negative delta taken when an invoice is created
	HistoryTypeSale HistoryType = "sale"
	// HistoryTypeSaleUpdate covers both the restore and the re-apply halves of an invoice edit
	HistoryTypeSaleUpdate HistoryType = "sale_update"
	// HistoryTypeSaleDeletion is the positive delta given back when an invoice is deleted
	HistoryTypeSaleDeletion HistoryType = "sale_deletion"
	// HistoryTypePurchase is stock received from a supplier
	HistoryTypePurchase HistoryType = "purchase"
	// HistoryTypeAdjustment is opening stock or a manual correction
	HistoryTypeAdjustment HistoryType = "adjustment"
)

// String returns the string representation of HistoryType
func (t HistoryType) String() string {
	return string(t)
}

// IsValid returns true if the history type is known
func (t HistoryType) IsValid() bool {
	switch t {
	case HistoryTypeSale,
		HistoryTypeSaleUpdate,
		HistoryTypeSaleDeletion,
		HistoryTypePurchase,
		HistoryTypeAdjustment:
		return true
	}
	return false
}

// IsInvoiceMovement returns true for the types written by invoice operations
func (t HistoryType) IsInvoiceMovement() bool {
	return t == HistoryTypeSale || t == HistoryTypeSaleUpdate || t == HistoryTypeSaleDeletion
}

// Reference points a history row at the document that caused it
type Reference struct {
	Type string
	ID   uuid.UUID
}

// ReferenceInvoice is the reference type used by invoice operations
const ReferenceInvoice = "invoice"

// InvoiceReference builds a reference to an invoice
func InvoiceReference(invoiceID uuid.UUID) Reference {
	return Reference{Type: ReferenceInvoice, ID: invoiceID}
}

// InventoryHistory is an immutable record of one stock change.
// Rows are never updated or deleted; corrections are new rows.
type InventoryHistory struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ProductID     uuid.UUID
	Type          HistoryType
	Quantity      int // signed delta
	PreviousStock int
	NewStock      int
	Reason        string
	UpdatedBy     *uuid.UUID
	ReferenceType string
	ReferenceID   *uuid.UUID
	CreatedAt     time.Time
}

// NewInventoryHistory creates a history row for a delta already applied to a product
func NewInventoryHistory(
	tenantID uuid.UUID,
	productID uuid.UUID,
	historyType HistoryType,
	delta int,
	previousStock int,
	newStock int,
) (*InventoryHistory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product ID cannot be empty")
	}
	if !historyType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid inventory history type: %s", historyType)
	}
	if delta == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Stock delta cannot be zero")
	}
	if previousStock+delta != newStock {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput,
			"Stock snapshot mismatch: %d %+d != %d", previousStock, delta, newStock)
	}

	return &InventoryHistory{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ProductID:     productID,
		Type:          historyType,
		Quantity:      delta,
		PreviousStock: previousStock,
		NewStock:      newStock,
		CreatedAt:     time.Now(),
	}, nil
}

// WithReason sets the human readable reason
func (h *InventoryHistory) WithReason(reason string) *InventoryHistory {
	h.Reason = reason
	return h
}

// WithActor sets the user who caused the change
func (h *InventoryHistory) WithActor(actor uuid.UUID) *InventoryHistory {
	if actor != uuid.Nil {
		h.UpdatedBy = &actor
	}
	return h
}

// WithReference links the row to its source document
func (h *InventoryHistory) WithReference(ref Reference) *InventoryHistory {
	if ref.ID != uuid.Nil {
		id := ref.ID
		h.ReferenceType = ref.Type
		h.ReferenceID = &id
	}
	return h
}
