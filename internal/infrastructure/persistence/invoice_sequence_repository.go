package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxIssuedSQL is the highest suffix issued in a period. Deleted invoices
// and numbers taken from another backend leave gaps, so a count is not enough.
const maxIssuedSQL = `SELECT COALESCE(MAX(CAST(SUBSTR(invoice_number, 8) AS INTEGER)), 0)
FROM invoices WHERE tenant_id = ? AND invoice_number LIKE ?`

// The counter never falls behind the highest number already issued, so
// tenants migrated from count-based numbering or from the Redis counter keep
// going without reissuing a number.
const nextInvoiceSequenceSQL = `
INSERT INTO invoice_sequences (tenant_id, year_month, last_value, updated_at)
VALUES (?, ?, (` + maxIssuedSQL + `) + 1, ?)
ON CONFLICT (tenant_id, year_month) DO UPDATE
SET last_value = CASE
		WHEN invoice_sequences.last_value + 1 >= EXCLUDED.last_value THEN invoice_sequences.last_value + 1
		ELSE EXCLUDED.last_value
	END,
	updated_at = EXCLUDED.updated_at
RETURNING last_value`

// GormInvoiceSequenceRepository hands out invoice numbers from a counter row
// per tenant and month. The upsert increments and reads in one statement and
// holds the row lock until the surrounding transaction ends, so a rolled back
// invoice gives its number back.
type GormInvoiceSequenceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceSequenceRepository creates a new GormInvoiceSequenceRepository
func NewGormInvoiceSequenceRepository(db *gorm.DB) *GormInvoiceSequenceRepository {
	return &GormInvoiceSequenceRepository{db: db, now: time.Now}
}

// Next increments and returns the counter for tenantID and period (YYYYMM)
func (r *GormInvoiceSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	if _, err := trade.ParsePeriod(period); err != nil {
		return 0, err
	}

	var next int64
	if err := r.db.WithContext(ctx).
		Raw(nextInvoiceSequenceSQL, tenantID, period, tenantID, periodPattern(period), r.now()).
		Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}
	if next <= 0 {
		return 0, fmt.Errorf("invoice sequence for %s returned %d", period, next)
	}
	return next, nil
}

// Used reports the highest number a period has consumed, from the counter
// row or the invoices numbered in that period, whichever is higher. It seeds
// counters kept outside the database.
func (r *GormInvoiceSequenceRepository) Used(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	if _, err := trade.ParsePeriod(period); err != nil {
		return 0, err
	}

	var counter, issued int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(last_value), 0) FROM invoice_sequences WHERE tenant_id = ? AND year_month = ?", tenantID, period).
		Scan(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to read invoice sequence: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Raw(maxIssuedSQL, tenantID, periodPattern(period)).
		Scan(&issued).Error; err != nil {
		return 0, fmt.Errorf("failed to read issued invoice numbers: %w", err)
	}
	return max(counter, issued), nil
}

// periodPattern matches the invoice numbers of a YYYYMM period
func periodPattern(period string) string {
	return period + "-%"
}

// Ensure GormInvoiceSequenceRepository implements InvoiceSequence
var _ trade.InvoiceSequence = (*GormInvoiceSequenceRepository)(nil)
