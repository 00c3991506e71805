package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultOutboxMaxRetries  = 5
	DefaultOutboxBaseBackoff = time.Second
)

// OutboxEntry is a serialized domain event written in the same transaction
// as the aggregate change that produced it
type OutboxEntry struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry creates a pending outbox entry for a domain event
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		TenantID:      event.TenantID(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultOutboxMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkSent marks the entry as delivered
func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a failed delivery and schedules the next attempt with
// exponential backoff (1s, 2s, 4s, ...). The entry goes dead after MaxRetries.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = time.Now()

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	next := time.Now().Add(DefaultOutboxBaseBackoff * time.Duration(1<<uint(e.RetryCount-1)))
	e.NextRetryAt = &next
}

// IsDead returns true if the entry will not be retried again
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// ErrOutboxNotDead is returned when retrying an entry that is still live
var ErrOutboxNotDead = errors.New("only dead entries can be retried")

// ResetForRetry puts a dead entry back into the pending queue with a fresh
// retry budget
func (e *OutboxEntry) ResetForRetry() error {
	if e.Status != OutboxStatusDead {
		return ErrOutboxNotDead
	}
	e.Status = OutboxStatusPending
	e.RetryCount = 0
	e.NextRetryAt = nil
	e.UpdatedAt = time.Now()
	return nil
}

// OutboxRepository persists outbox entries
type OutboxRepository interface {
	// Save persists one or more outbox entries
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindPending retrieves pending entries up to the limit, oldest first
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable retrieves failed entries whose next attempt is due
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	// MarkProcessing claims entries for delivery and returns the claimed ones
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	// Update updates an existing outbox entry
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan deletes sent entries processed before the cutoff
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// OutboxEventSaver serializes domain events into the outbox through a
// repository bound to the caller's transaction
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, repo OutboxRepository, events ...DomainEvent) error
}

// OutboxAdminRepository is the tenant-scoped read and repair side of the outbox
type OutboxAdminRepository interface {
	// FindDeadForTenant pages through a tenant's dead entries, newest first
	FindDeadForTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]*OutboxEntry, int64, error)
	// FindByIDForTenant returns ErrNotFound for entries of other tenants
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OutboxEntry, error)
	// CountByStatusForTenant returns the number of a tenant's entries per status
	CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[OutboxStatus]int64, error)
	// Update updates an existing outbox entry
	Update(ctx context.Context, entry *OutboxEntry) error
}
