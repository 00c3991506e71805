package trade

import (
	"strings"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus classifies how much of an invoice has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid returns true for known payment statuses
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// Payment notes written by the system
const (
	PaymentNoteAtCreation = "Paid at invoice creation"
	PaymentNoteMigrated   = "Migrated from legacy paid amount"
)

// Payment is one collected amount against an invoice
type Payment struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Method      string
	Reference   string
	Notes       string
	CollectedBy *uuid.UUID
}

// ClassifyPayment is the single three-way rule for payment status
func ClassifyPayment(paid, grandTotal decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(grandTotal):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

// StatusFor mirrors a payment status onto the legacy status field
func StatusFor(ps PaymentStatus) InvoiceStatus {
	if ps == PaymentStatusPaid {
		return InvoiceStatusPaid
	}
	return InvoiceStatusPending
}

func (inv *Invoice) newPayment(amount decimal.Decimal, method, reference, notes string, collectedBy uuid.UUID, at time.Time) Payment {
	p := Payment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    amount,
		Date:      at,
		Method:    strings.TrimSpace(method),
		Reference: reference,
		Notes:     notes,
	}
	if p.Method == "" {
		p.Method = inv.PaymentMethod
	}
	if collectedBy != uuid.Nil {
		p.CollectedBy = &collectedBy
	}
	return p
}

// recalculatePayments derives paid, pending and both statuses from the payments ledger
func (inv *Invoice) recalculatePayments() {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	inv.PaidAmount = paid.Round(2)
	inv.PendingAmount = inv.GrandTotal.Sub(inv.PaidAmount)
	inv.PaymentStatus = ClassifyPayment(inv.PaidAmount, inv.GrandTotal)
	inv.Status = StatusFor(inv.PaymentStatus)
}

// RecordPayment appends a payment. On any error the invoice is left untouched.
func (inv *Invoice) RecordPayment(amount decimal.Decimal, method, reference, notes string, collectedBy uuid.UUID, at time.Time) (*Payment, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be greater than zero")
	}
	if amount.GreaterThan(inv.PendingAmount) {
		return nil, shared.NewDomainErrorf(shared.CodeOverpayment,
			"Payment amount %s exceeds pending amount %s", amount.StringFixed(2), inv.PendingAmount.StringFixed(2))
	}

	p := inv.newPayment(amount, method, reference, notes, collectedBy, at)
	inv.Payments = append(inv.Payments, p)
	inv.recalculatePayments()
	inv.Touch()

	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, &p))
	return &p, nil
}

// InitializePayment sets the payment fields of a freshly priced invoice.
// A positive paidAmount becomes the first payment.
func (inv *Invoice) InitializePayment(paidAmount decimal.Decimal, method string, actor uuid.UUID, at time.Time) error {
	paidAmount = paidAmount.Round(2)
	if paidAmount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Paid amount cannot be negative")
	}
	if paidAmount.GreaterThan(inv.GrandTotal) {
		return shared.NewDomainErrorf(shared.CodeOverpayment,
			"Paid amount %s exceeds grand total %s", paidAmount.StringFixed(2), inv.GrandTotal.StringFixed(2))
	}

	inv.Payments = nil
	if paidAmount.IsPositive() {
		inv.Payments = append(inv.Payments, inv.newPayment(paidAmount, method, "", PaymentNoteAtCreation, actor, at))
	}
	inv.recalculatePayments()
	return nil
}

// MigrateLegacyPayment converts a bare PaidAmount from an old row into a
// payments entry. It is a one-time backfill and reports whether it ran.
func (inv *Invoice) MigrateLegacyPayment(actor uuid.UUID, at time.Time) bool {
	if len(inv.Payments) > 0 || !inv.PaidAmount.IsPositive() {
		return false
	}
	inv.Payments = []Payment{inv.newPayment(inv.PaidAmount, inv.PaymentMethod, "", PaymentNoteMigrated, actor, at)}
	return true
}

// ReconcilePayments recomputes payment fields against the current grand total.
// It fails with OVERPAYMENT when more has been collected than is now owed.
func (inv *Invoice) ReconcilePayments() error {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	if paid.GreaterThan(inv.GrandTotal) {
		return shared.NewDomainErrorf(shared.CodeOverpayment,
			"Invoice total %s is below the amount already paid %s", inv.GrandTotal.StringFixed(2), paid.StringFixed(2))
	}
	inv.recalculatePayments()
	return nil
}

// IsFullyPaid reports whether nothing is pending
func (inv *Invoice) IsFullyPaid() bool {
	return inv.PaymentStatus == PaymentStatusPaid
}
