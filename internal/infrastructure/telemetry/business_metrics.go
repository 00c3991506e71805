package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Invoice operation names used as metric labels
const (
	OperationCreate        = "create"
	OperationUpdate        = "update"
	OperationDelete        = "delete"
	OperationRecordPayment = "record_payment"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// BusinessMetrics tracks invoice, payment and stock activity.
type BusinessMetrics struct {
	invoiceOperations *Counter
	invoiceAmount     *Histogram
	paymentsTotal     *Counter
	paymentAmount     *Counter
	stockMovements    *Counter
	stockUnits        *Counter
}

// NewBusinessMetrics registers all instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	if bm.invoiceOperations, err = NewCounter(meter,
		"invoice_operations_total", "Invoice operations by kind and outcome", "{operations}"); err != nil {
		return nil, err
	}
	if bm.invoiceAmount, err = NewHistogram(meter,
		"invoice_grand_total", "Grand total of created invoices", "{INR}", InvoiceAmountBuckets...); err != nil {
		return nil, err
	}
	if bm.paymentsTotal, err = NewCounter(meter,
		"invoice_payments_total", "Payments recorded against invoices", "{payments}"); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = NewCounter(meter,
		"invoice_payment_amount_paise_total", "Payment amount collected in paise", "{paise}"); err != nil {
		return nil, err
	}
	if bm.stockMovements, err = NewCounter(meter,
		"inventory_history_entries_total", "Inventory history rows written", "{entries}"); err != nil {
		return nil, err
	}
	if bm.stockUnits, err = NewCounter(meter,
		"inventory_units_moved_total", "Absolute stock units moved", "{units}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordInvoiceOperation counts one orchestrator call
func (bm *BusinessMetrics) RecordInvoiceOperation(ctx context.Context, tenantID uuid.UUID, operation, outcome string) {
	if bm == nil {
		return
	}
	bm.invoiceOperations.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrOperation.String(operation),
		AttrOutcome.String(outcome),
	)
}

// RecordInvoiceCreated records the grand total of a new invoice
func (bm *BusinessMetrics) RecordInvoiceCreated(ctx context.Context, tenantID uuid.UUID, grandTotal decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.invoiceAmount.Record(ctx, grandTotal.InexactFloat64(), AttrTenantID.String(tenantID.String()))
}

// RecordPayment counts a payment and its amount in paise
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, method, status string, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrPaymentMethod.String(method),
		AttrPaymentStatus.String(status),
	}
	bm.paymentsTotal.Inc(ctx, attrs...)
	bm.paymentAmount.Add(ctx, amount.Mul(decimal.NewFromInt(100)).IntPart(), attrs...)
}

// RecordStockMovement counts a history row and the units it moved
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, tenantID uuid.UUID, historyType string, delta int) {
	if bm == nil {
		return
	}
	if delta < 0 {
		delta = -delta
	}
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrHistoryType.String(historyType),
	}
	bm.stockMovements.Inc(ctx, attrs...)
	bm.stockUnits.Add(ctx, int64(delta), attrs...)
}
