package trade

import (
	"context"

	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
)

// TransactionScope runs an invoice operation as one unit of work.
// An error returned from fn rolls back the invoice, its stock movements,
// the counter row and the outbox rows together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every table an invoice operation writes.
// All repositories returned share the same underlying transaction.
type TransactionalRepositories interface {
	inventoryapp.LedgerRepositories

	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() trade.InvoiceRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// SequenceRepo returns the per-month invoice counter scoped to the current transaction
	SequenceRepo() trade.InvoiceSequence
	// OutboxRepo returns the outbox repository scoped to the current transaction
	OutboxRepo() shared.OutboxRepository
}
