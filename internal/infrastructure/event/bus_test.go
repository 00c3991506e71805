package event

import (
	"context"
	"errors"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreatedEvent(tenantID uuid.UUID, number string) *trade.InvoiceCreatedEvent {
	invoiceID := uuid.New()
	return &trade.InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeInvoiceCreated, trade.AggregateTypeInvoice, invoiceID, tenantID),
		InvoiceID:       invoiceID,
		InvoiceNumber:   number,
		CustomerID:      uuid.New(),
		GrandTotal:      decimal.RequireFromString("885.00"),
		PaidAmount:      decimal.Zero,
		PaymentStatus:   trade.PaymentStatusUnpaid,
	}
}

type panickingHandler struct{}

func (panickingHandler) EventTypes() []string { return nil }

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("boom")
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to handlers of the event type only", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		created := testutil.NewMockEventHandler(trade.EventTypeInvoiceCreated)
		deleted := testutil.NewMockEventHandler(trade.EventTypeInvoiceDeleted)
		bus.Subscribe(created)
		bus.Subscribe(deleted)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(testutil.TestTenantID(), "202403-001")))

		assert.Equal(t, 1, created.HandledCount())
		assert.Equal(t, 0, deleted.HandledCount())
	})

	t.Run("handler without types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		all := testutil.NewMockEventHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx,
			newCreatedEvent(testutil.TestTenantID(), "202403-001"),
			newCreatedEvent(testutil.TestTenantID(), "202403-002"),
		))
		assert.Equal(t, 2, all.HandledCount())
	})

	t.Run("failures are joined and other handlers still run", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		failing := testutil.NewMockEventHandler(trade.EventTypeInvoiceCreated)
		failing.SetError(errors.New("smtp down"))
		ok := testutil.NewMockEventHandler(trade.EventTypeInvoiceCreated)
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		err := bus.Publish(ctx, newCreatedEvent(testutil.TestTenantID(), "202403-001"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp down")
		assert.Equal(t, 1, ok.HandledCount())
	})

	t.Run("panic becomes an error", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		bus.Subscribe(panickingHandler{}, trade.EventTypeInvoiceCreated)

		err := bus.Publish(ctx, newCreatedEvent(testutil.TestTenantID(), "202403-001"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler(trade.EventTypeInvoiceCreated)
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newCreatedEvent(testutil.TestTenantID(), "202403-001")))
	assert.Equal(t, 0, h.HandledCount())
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	assert.False(t, bus.IsRunning())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.IsRunning())
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	specific := testutil.NewMockEventHandler()
	global := testutil.NewMockEventHandler()

	r.Register(specific, trade.EventTypeInvoiceCreated, trade.EventTypeInvoiceDeleted)
	r.Register(global)

	assert.Len(t, r.Handlers(trade.EventTypeInvoiceCreated), 2)
	assert.Len(t, r.Handlers(trade.EventTypeInvoiceUpdated), 1)

	r.Unregister(specific)
	assert.Len(t, r.Handlers(trade.EventTypeInvoiceCreated), 1)
	assert.Len(t, r.Handlers(trade.EventTypeInvoiceDeleted), 1)
}
