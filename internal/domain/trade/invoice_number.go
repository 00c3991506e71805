package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// periodLayout is the year-month key of a numbering period
const periodLayout = "200601"

// InvoiceSequence hands out the next number of a (tenant, year-month) counter.
// Implementations must increment and read atomically.
type InvoiceSequence interface {
	Next(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)
}

// PeriodOf returns the numbering period that contains now
func PeriodOf(now time.Time) string {
	return now.Format(periodLayout)
}

// FormatInvoiceNumber renders YYYYMM-NNN; sequences above 999 simply get wider
func FormatInvoiceNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("%s-%03d", PeriodOf(now), seq)
}

// MonthWindow returns the first and last instant of the calendar month of now,
// in now's location
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// ParsePeriod returns the first instant of a YYYYMM period in UTC
func ParsePeriod(period string) (time.Time, error) {
	return time.Parse(periodLayout, period)
}
