package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseDomainEvent
}

func TestOutboxEntry_Lifecycle(t *testing.T) {
	tenantID := uuid.New()
	event := &testEvent{BaseDomainEvent: NewBaseDomainEvent("InvoiceCreated", "Invoice", uuid.New(), tenantID)}

	t.Run("new entry copies event metadata", func(t *testing.T) {
		entry := NewOutboxEntry(event, []byte(`{}`))
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, tenantID, entry.TenantID)
		assert.Equal(t, event.EventID(), entry.EventID)
		assert.Equal(t, "InvoiceCreated", entry.EventType)
		assert.Equal(t, DefaultOutboxMaxRetries, entry.MaxRetries)
	})

	t.Run("failures back off then go dead", func(t *testing.T) {
		entry := NewOutboxEntry(event, nil)
		entry.MaxRetries = 2

		entry.MarkFailed("boom")
		assert.Equal(t, OutboxStatusFailed, entry.Status)
		require.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.NextRetryAt.After(time.Now()))

		entry.MarkFailed("boom again")
		assert.True(t, entry.IsDead())
		assert.Nil(t, entry.NextRetryAt)
		assert.Equal(t, "boom again", entry.LastError)
	})

	t.Run("sent entries record processing time", func(t *testing.T) {
		entry := NewOutboxEntry(event, nil)
		entry.MarkSent()
		assert.Equal(t, OutboxStatusSent, entry.Status)
		assert.NotNil(t, entry.ProcessedAt)
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	event := &testEvent{BaseDomainEvent: NewBaseDomainEvent("InvoiceCreated", "Invoice", uuid.New(), uuid.New())}

	entry := NewOutboxEntry(event, nil)
	assert.ErrorIs(t, entry.ResetForRetry(), ErrOutboxNotDead)

	entry.MaxRetries = 1
	entry.MarkFailed("boom")
	require.True(t, entry.IsDead())

	require.NoError(t, entry.ResetForRetry())
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Nil(t, entry.NextRetryAt)
	assert.Equal(t, "boom", entry.LastError)
}
