package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n InvoiceNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func paymentEvent(status trade.PaymentStatus, amount, pending string) *trade.InvoicePaymentRecordedEvent {
	invoiceID := uuid.New()
	return &trade.InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeInvoicePaymentRecorded, trade.AggregateTypeInvoice, invoiceID, uuid.New()),
		InvoiceID:       invoiceID,
		InvoiceNumber:   "202403-004",
		Amount:          decimal.RequireFromString(amount),
		PendingAmount:   decimal.RequireFromString(pending),
		PaymentStatus:   status,
	}
}

func TestInvoiceNotificationHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("partial payment", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewInvoiceNotificationHandler(notifier, zap.NewNop())
		ev := paymentEvent(trade.PaymentStatusPartial, "500", "385")

		notifier.On("Notify", ctx, mock.MatchedBy(func(n InvoiceNotification) bool {
			return n.Kind == NotificationPaymentReceived &&
				n.TenantID == ev.TenantID() &&
				n.PendingAmount.Equal(decimal.NewFromInt(385))
		})).Return(nil).Once()

		require.NoError(t, h.Handle(ctx, ev))
		notifier.AssertExpectations(t)
	})

	t.Run("settling payment", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewInvoiceNotificationHandler(notifier, zap.NewNop())

		notifier.On("Notify", ctx, mock.MatchedBy(func(n InvoiceNotification) bool {
			return n.Kind == NotificationInvoiceSettled
		})).Return(nil).Once()

		require.NoError(t, h.Handle(ctx, paymentEvent(trade.PaymentStatusPaid, "385", "0")))
		notifier.AssertExpectations(t)
	})

	t.Run("created invoice reports what is owed", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewInvoiceNotificationHandler(notifier, zap.NewNop())
		invoiceID := uuid.New()
		ev := &trade.InvoiceCreatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeInvoiceCreated, trade.AggregateTypeInvoice, invoiceID, uuid.New()),
			InvoiceID:       invoiceID,
			InvoiceNumber:   "202403-001",
			GrandTotal:      decimal.NewFromInt(885),
			PaidAmount:      decimal.NewFromInt(500),
		}

		notifier.On("Notify", ctx, mock.MatchedBy(func(n InvoiceNotification) bool {
			return n.Kind == NotificationInvoiceIssued && n.PendingAmount.Equal(decimal.NewFromInt(385))
		})).Return(nil).Once()

		require.NoError(t, h.Handle(ctx, ev))
		notifier.AssertExpectations(t)
	})

	t.Run("delivery failure is returned for retry", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewInvoiceNotificationHandler(notifier, zap.NewNop())
		notifier.On("Notify", ctx, mock.Anything).Return(errors.New("gateway timeout"))

		err := h.Handle(ctx, paymentEvent(trade.PaymentStatusPartial, "1", "2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway timeout")
	})

	t.Run("unrelated event", func(t *testing.T) {
		h := NewInvoiceNotificationHandler(new(MockNotifier), zap.NewNop())
		base := shared.NewBaseDomainEvent("ProductCreated", "Product", uuid.New(), uuid.New())
		assert.Error(t, h.Handle(ctx, &base))
	})
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	assert.NoError(t, n.Notify(context.Background(), InvoiceNotification{Kind: NotificationInvoiceVoided}))
}
