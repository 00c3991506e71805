package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseDomainEvent(t *testing.T) {
	tenantID, invoiceID := uuid.New(), uuid.New()

	first := NewBaseDomainEvent("InvoiceCreated", "Invoice", invoiceID, tenantID)
	second := NewBaseDomainEvent("InvoiceCreated", "Invoice", invoiceID, tenantID)

	assert.NotEqual(t, uuid.Nil, first.EventID())
	assert.NotEqual(t, first.EventID(), second.EventID())
	assert.Equal(t, "InvoiceCreated", first.EventType())
	assert.Equal(t, "Invoice", first.AggregateType())
	assert.Equal(t, invoiceID, first.AggregateID())
	assert.Equal(t, tenantID, first.TenantID())
	assert.Equal(t, time.UTC, first.OccurredAt().Location())
	assert.WithinDuration(t, time.Now(), first.OccurredAt(), time.Second)
}

func TestBaseDomainEvent_Envelope(t *testing.T) {
	event := &testEvent{BaseDomainEvent: NewBaseDomainEvent("InvoicePaymentRecorded", "Invoice", uuid.New(), uuid.New())}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope))
	for _, key := range []string{"id", "type", "timestamp", "aggregate_id", "aggregate_type", "tenant_id"} {
		assert.Contains(t, envelope, key)
	}
	assert.Equal(t, event.EventID().String(), envelope["id"])
	assert.Equal(t, event.TenantID().String(), envelope["tenant_id"])
}
