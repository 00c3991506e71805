package inventory

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
)

// LedgerRepositories gives access to the stock ledger tables inside one transaction
type LedgerRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() inventory.ProductRepository
	// HistoryRepo returns the append-only history repository scoped to the current transaction
	HistoryRepo() inventory.InventoryHistoryRepository
}

// TransactionScope runs fn in a transaction. An error from fn rolls back every
// write made through the repositories it was given.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}
