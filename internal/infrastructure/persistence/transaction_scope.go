package persistence

import (
	"context"

	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	tradeapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements the invoice TransactionScope using GORM transactions.
// If the function returns an error, the transaction is rolled back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Ledger returns a scope exposing only the stock ledger tables, for product
// operations that do not touch invoices
func (s *GormTransactionScope) Ledger() *GormLedgerScope {
	return &GormLedgerScope{db: s.db}
}

// GormLedgerScope implements the inventory TransactionScope
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos inventoryapp.LedgerRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// HistoryRepo returns the inventory history repository scoped to the current transaction
func (r *gormTransactionalRepositories) HistoryRepo() inventory.InventoryHistoryRepository {
	return NewGormInventoryHistoryRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) InvoiceRepo() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// SequenceRepo returns the invoice counter scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() trade.InvoiceSequence {
	return NewGormInvoiceSequenceRepository(r.tx)
}

// OutboxRepo returns the outbox repository scoped to the current transaction
func (r *gormTransactionalRepositories) OutboxRepo() shared.OutboxRepository {
	return NewGormOutboxRepository(r.tx)
}

var (
	_ tradeapp.TransactionScope          = (*GormTransactionScope)(nil)
	_ inventoryapp.TransactionScope      = (*GormLedgerScope)(nil)
	_ tradeapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ inventoryapp.LedgerRepositories    = (*gormTransactionalRepositories)(nil)
)
