package event

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
)

// OutboxPublisher writes domain events into the outbox through the
// repository of the caller's transaction, so they commit or roll back
// together with the invoice change
type OutboxPublisher struct {
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher. maxRetries of zero keeps
// the entry default.
func NewOutboxPublisher(serializer *EventSerializer, maxRetries int) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
		maxRetries: maxRetries,
	}
}

// SaveEvents serializes events and saves them through repo
func (p *OutboxPublisher) SaveEvents(ctx context.Context, repo shared.OutboxRepository, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return repo.Save(ctx, entries...)
}

// Ensure OutboxPublisher implements OutboxEventSaver
var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
