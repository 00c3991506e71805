package trade

import (
	"context"
	"fmt"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NotificationKind names what happened to an invoice
type NotificationKind string

const (
	NotificationInvoiceIssued   NotificationKind = "invoice_issued"
	NotificationInvoiceRevised  NotificationKind = "invoice_revised"
	NotificationInvoiceVoided   NotificationKind = "invoice_voided"
	NotificationPaymentReceived NotificationKind = "payment_received"
	NotificationInvoiceSettled  NotificationKind = "invoice_settled"
)

// InvoiceNotification is the outbound message for a customer-facing channel
type InvoiceNotification struct {
	Kind          NotificationKind
	TenantID      uuid.UUID
	InvoiceID     uuid.UUID
	InvoiceNumber string
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	PendingAmount decimal.Decimal
}

// InvoiceNotifier delivers notifications (mail, SMS, WhatsApp, ...)
type InvoiceNotifier interface {
	Notify(ctx context.Context, n InvoiceNotification) error
}

// LogNotifier writes notifications to the log. It is the default when no
// delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification
func (n *LogNotifier) Notify(_ context.Context, msg InvoiceNotification) error {
	n.logger.Info("invoice notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("tenant_id", msg.TenantID.String()),
		zap.String("invoice_number", msg.InvoiceNumber),
		zap.String("customer_id", msg.CustomerID.String()),
		zap.String("amount", msg.Amount.StringFixed(2)),
		zap.String("pending_amount", msg.PendingAmount.StringFixed(2)),
	)
	return nil
}

// InvoiceNotificationHandler turns invoice events coming off the outbox into notifications
type InvoiceNotificationHandler struct {
	notifier InvoiceNotifier
	logger   *zap.Logger
}

// NewInvoiceNotificationHandler creates a new handler for invoice events
func NewInvoiceNotificationHandler(notifier InvoiceNotifier, logger *zap.Logger) *InvoiceNotificationHandler {
	return &InvoiceNotificationHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceNotificationHandler) EventTypes() []string {
	return []string{
		trade.EventTypeInvoiceCreated,
		trade.EventTypeInvoiceUpdated,
		trade.EventTypeInvoiceDeleted,
		trade.EventTypeInvoicePaymentRecorded,
	}
}

// Handle maps one invoice event to a notification
func (h *InvoiceNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n InvoiceNotification
	switch e := event.(type) {
	case *trade.InvoiceCreatedEvent:
		n = InvoiceNotification{
			Kind:          NotificationInvoiceIssued,
			InvoiceID:     e.InvoiceID,
			InvoiceNumber: e.InvoiceNumber,
			CustomerID:    e.CustomerID,
			Amount:        e.GrandTotal,
			PendingAmount: e.GrandTotal.Sub(e.PaidAmount),
		}
	case *trade.InvoiceUpdatedEvent:
		n = InvoiceNotification{
			Kind:          NotificationInvoiceRevised,
			InvoiceID:     e.InvoiceID,
			InvoiceNumber: e.InvoiceNumber,
			CustomerID:    e.CustomerID,
			Amount:        e.GrandTotal,
			PendingAmount: e.PendingAmount,
		}
	case *trade.InvoiceDeletedEvent:
		n = InvoiceNotification{
			Kind:          NotificationInvoiceVoided,
			InvoiceID:     e.InvoiceID,
			InvoiceNumber: e.InvoiceNumber,
			CustomerID:    e.CustomerID,
			Amount:        e.GrandTotal,
		}
	case *trade.InvoicePaymentRecordedEvent:
		kind := NotificationPaymentReceived
		if e.PaymentStatus == trade.PaymentStatusPaid {
			kind = NotificationInvoiceSettled
		}
		n = InvoiceNotification{
			Kind:          kind,
			InvoiceID:     e.InvoiceID,
			InvoiceNumber: e.InvoiceNumber,
			CustomerID:    e.CustomerID,
			Amount:        e.Amount,
			PendingAmount: e.PendingAmount,
		}
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	n.TenantID = event.TenantID()

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Warn("failed to send invoice notification",
			zap.String("invoice_number", n.InvoiceNumber),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
		return fmt.Errorf("notify %s: %w", n.Kind, err)
	}
	return nil
}

var _ shared.EventHandler = (*InvoiceNotificationHandler)(nil)
