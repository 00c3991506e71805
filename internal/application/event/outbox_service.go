// Package event exposes the tenant-facing side of the transactional outbox:
// inspecting undeliverable invoice notifications and queueing them again.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxService handles dead-letter inspection and retry for one tenant at a time
type OutboxService struct {
	repo   shared.OutboxAdminRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxAdminRepository, log *zap.Logger) *OutboxService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutboxService{repo: repo, logger: log}
}

// OutboxEntryDTO is the API view of an outbox entry
type OutboxEntryDTO struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OutboxFilter pages through dead entries
type OutboxFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f OutboxFilter) normalize() (int, int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// OutboxStatsDTO counts a tenant's entries per status
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// ListDead returns the tenant's dead entries, most recently failed first
func (s *OutboxService) ListDead(ctx context.Context, tenantID uuid.UUID, filter OutboxFilter) (shared.Paginated[OutboxEntryDTO], error) {
	page, size := filter.normalize()
	entries, total, err := s.repo.FindDeadForTenant(ctx, tenantID, page, size)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to find dead letter entries", zap.Error(err))
		return shared.Paginated[OutboxEntryDTO]{}, err
	}

	items := make([]OutboxEntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = toOutboxEntryDTO(entry)
	}
	return shared.NewPaginated(items, total, page, size), nil
}

// GetEntry returns one of the tenant's entries
func (s *OutboxService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err)
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryDeadEntry queues a dead entry again. Live entries are rejected with
// INVALID_STATE since the processor still owns them.
func (s *OutboxService) RetryDeadEntry(ctx context.Context, tenantID, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err)
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Only dead entries can be retried")
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to update outbox entry",
			zap.Error(err), zap.String("outbox_id", id.String()))
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Dead letter entry reset for retry",
		zap.String("outbox_id", id.String()),
		zap.String("event_type", entry.EventType),
	)
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// Stats counts the tenant's entries per status
func (s *OutboxService) Stats(ctx context.Context, tenantID uuid.UUID) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatusForTenant(ctx, tenantID)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to get outbox stats", zap.Error(err))
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.CodeNotFound, "Outbox entry not found")
	}
	return err
}

func toOutboxEntryDTO(entry *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
