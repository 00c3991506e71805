// Package models contains GORM-specific persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// domain type with ToDomain and FromDomain.
//
// Structure:
// - base.go: BaseModel, AggregateModel, TenantAggregateModel
// - product.go, inventory_history.go: stock and its append-only ledger
// - customer.go: invoice buyers
// - invoice.go: invoices with items and payments
// - invoice_sequence.go: per-tenant per-month invoice counters
// - outbox.go: outbox pattern model for event delivery
package models
