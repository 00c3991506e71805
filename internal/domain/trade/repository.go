package trade

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	PaymentStatus PaymentStatus
	CustomerID    *uuid.UUID
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its items and payments
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads an invoice and locks its row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber loads an invoice by its human-facing number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAllForTenant lists invoices, newest first by default
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)

	// Create inserts a new invoice with items and payments.
	// A duplicate invoice number fails with ErrConcurrencyConflict.
	Create(ctx context.Context, invoice *Invoice) error

	// SaveWithLock updates an invoice, replacing items and payments, when the
	// stored version matches; otherwise ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice with its items and payments
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceLocker serializes mutations of a single invoice across processes
type InvoiceLocker interface {
	// Lock blocks until the invoice is held or ctx ends; the returned func releases it
	Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error)
}
