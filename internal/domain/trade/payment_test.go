package trade

import (
	"errors"
	"testing"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPayment(t *testing.T) {
	tests := []struct {
		name  string
		paid  string
		total string
		want  PaymentStatus
	}{
		{"nothing paid", "0", "885", PaymentStatusUnpaid},
		{"some paid", "500", "885", PaymentStatusPartial},
		{"all paid", "885", "885", PaymentStatusPaid},
		{"zero total", "0", "0", PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPayment(dec(tt.paid), dec(tt.total)))
		})
	}

	assert.Equal(t, InvoiceStatusPaid, StatusFor(PaymentStatusPaid))
	assert.Equal(t, InvoiceStatusPending, StatusFor(PaymentStatusPartial))
	assert.Equal(t, InvoiceStatusPending, StatusFor(PaymentStatusUnpaid))
}

func TestInvoice_InitializePayment(t *testing.T) {
	now := time.Now()
	actor := uuid.New()

	t.Run("unpaid", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		require.NoError(t, inv.InitializePayment(decimal.Zero, "cash", actor, now))
		assert.Empty(t, inv.Payments)
		assert.Equal(t, PaymentStatusUnpaid, inv.PaymentStatus)
		assertDec(t, "885", inv.PendingAmount, "pending")
	})

	t.Run("partially paid synthesizes one payment", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		require.NoError(t, inv.InitializePayment(dec("300"), "upi", actor, now))
		require.Len(t, inv.Payments, 1)
		assert.Equal(t, PaymentNoteAtCreation, inv.Payments[0].Notes)
		assert.Equal(t, "upi", inv.Payments[0].Method)
		assert.Equal(t, PaymentStatusPartial, inv.PaymentStatus)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assertDec(t, "585", inv.PendingAmount, "pending")
	})

	t.Run("fully paid", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		require.NoError(t, inv.InitializePayment(dec("885"), "cash", actor, now))
		assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assertDec(t, "0", inv.PendingAmount, "pending")
	})

	t.Run("more than total", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		err := inv.InitializePayment(dec("886"), "cash", actor, now)
		assert.True(t, errors.Is(err, shared.ErrOverpayment))
	})

	t.Run("negative", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		err := inv.InitializePayment(dec("-1"), "cash", actor, now)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestInvoice_RecordPayment_Scenario(t *testing.T) {
	inv := newPricedInvoice(t, 3, "250", true)
	require.NoError(t, inv.InitializePayment(decimal.Zero, "cash", uuid.Nil, time.Now()))
	collector := uuid.New()

	p, err := inv.RecordPayment(dec("500"), "cash", "RCPT-1", "first", collector, time.Now())
	require.NoError(t, err)
	require.NotNil(t, p.CollectedBy)
	assert.Equal(t, collector, *p.CollectedBy)
	assert.Equal(t, PaymentStatusPartial, inv.PaymentStatus)
	assertDec(t, "385", inv.PendingAmount, "pending")

	_, err = inv.RecordPayment(dec("385"), "", "", "", collector, time.Now())
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assertDec(t, "885", inv.PaidAmount, "paid")
	assertDec(t, "0", inv.PendingAmount, "pending")
	assert.Len(t, inv.Payments, 2)

	events := inv.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeInvoicePaymentRecorded, events[1].EventType())
}

func TestInvoice_RecordPayment_Invariant(t *testing.T) {
	amounts := []string{"100", "0.5", "200.25", "84.25", "500"}
	inv := newPricedInvoice(t, 3, "250", true)
	require.NoError(t, inv.InitializePayment(decimal.Zero, "cash", uuid.Nil, time.Now()))

	sum := decimal.Zero
	for _, a := range amounts {
		_, err := inv.RecordPayment(dec(a), "cash", "", "", uuid.Nil, time.Now())
		require.NoError(t, err)
		sum = sum.Add(dec(a))

		assert.True(t, inv.PaidAmount.Equal(sum))
		assert.True(t, inv.PaidAmount.Add(inv.PendingAmount).Equal(inv.GrandTotal))
		switch {
		case sum.Equal(inv.GrandTotal):
			assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
		case sum.IsPositive():
			assert.Equal(t, PaymentStatusPartial, inv.PaymentStatus)
		}
	}
	assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
}

func TestInvoice_RecordPayment_Rejections(t *testing.T) {
	inv := newPricedInvoice(t, 3, "250", true)
	require.NoError(t, inv.InitializePayment(dec("500"), "cash", uuid.Nil, time.Now()))

	snapshot := *inv
	snapshotPayments := append([]Payment(nil), inv.Payments...)

	t.Run("overpayment names pending amount", func(t *testing.T) {
		_, err := inv.RecordPayment(dec("385.01"), "cash", "", "", uuid.Nil, time.Now())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOverpayment))
		assert.Contains(t, err.Error(), "385.00")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := inv.RecordPayment(decimal.Zero, "cash", "", "", uuid.Nil, time.Now())
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		_, err = inv.RecordPayment(dec("-5"), "cash", "", "", uuid.Nil, time.Now())
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	assert.Equal(t, snapshotPayments, inv.Payments)
	assert.True(t, snapshot.PaidAmount.Equal(inv.PaidAmount))
	assert.True(t, snapshot.PendingAmount.Equal(inv.PendingAmount))
	assert.Equal(t, snapshot.PaymentStatus, inv.PaymentStatus)
	assert.Equal(t, snapshot.Status, inv.Status)
	assert.Equal(t, snapshot.UpdatedAt, inv.UpdatedAt)
	assert.Empty(t, inv.GetDomainEvents())
}

func TestInvoice_ReconcilePayments(t *testing.T) {
	t.Run("lower total keeps payments and recomputes", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		require.NoError(t, inv.InitializePayment(dec("500"), "cash", uuid.Nil, time.Now()))

		require.NoError(t, inv.ApplyPricing(inv.Lines()[:1], decimal.Zero, DiscountTypeAmount, false, DefaultTaxCategory, StandardTaxRates()))
		require.NoError(t, inv.ReconcilePayments())

		assertDec(t, "750", inv.GrandTotal, "grand total")
		assertDec(t, "500", inv.PaidAmount, "paid")
		assertDec(t, "250", inv.PendingAmount, "pending")
		assert.Len(t, inv.Payments, 1)
	})

	t.Run("total below paid is overpayment", func(t *testing.T) {
		inv := newPricedInvoice(t, 3, "250", true)
		require.NoError(t, inv.InitializePayment(dec("885"), "cash", uuid.Nil, time.Now()))

		lines := inv.Lines()
		lines[0].Quantity = 1
		require.NoError(t, inv.ApplyPricing(lines, decimal.Zero, DiscountTypeAmount, true, DefaultTaxCategory, StandardTaxRates()))

		err := inv.ReconcilePayments()
		assert.True(t, errors.Is(err, shared.ErrOverpayment))
	})
}

func TestInvoice_MigrateLegacyPayment(t *testing.T) {
	inv := newPricedInvoice(t, 3, "250", true)
	inv.PaymentMethod = "cheque"
	inv.PaidAmount = dec("400")
	inv.Payments = nil

	assert.True(t, inv.MigrateLegacyPayment(uuid.Nil, time.Now()))
	require.Len(t, inv.Payments, 1)
	assertDec(t, "400", inv.Payments[0].Amount, "migrated amount")
	assert.Equal(t, "cheque", inv.Payments[0].Method)
	assert.Equal(t, PaymentNoteMigrated, inv.Payments[0].Notes)

	assert.False(t, inv.MigrateLegacyPayment(uuid.Nil, time.Now()), "runs only once")

	require.NoError(t, inv.ReconcilePayments())
	assertDec(t, "485", inv.PendingAmount, "pending")
	assert.Equal(t, PaymentStatusPartial, inv.PaymentStatus)
}
