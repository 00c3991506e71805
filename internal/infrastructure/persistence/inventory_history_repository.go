package persistence

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryHistoryRepository is the append-only stock ledger table.
// It only inserts and reads.
type GormInventoryHistoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryHistoryRepository creates a new GormInventoryHistoryRepository
func NewGormInventoryHistoryRepository(db *gorm.DB) *GormInventoryHistoryRepository {
	return &GormInventoryHistoryRepository{db: db}
}

// Create appends a history row
func (r *GormInventoryHistoryRepository) Create(ctx context.Context, entry *inventory.InventoryHistory) error {
	return r.db.WithContext(ctx).Create(models.InventoryHistoryModelFromDomain(entry)).Error
}

// CreateBatch appends several rows in one statement
func (r *GormInventoryHistoryRepository) CreateBatch(ctx context.Context, entries []*inventory.InventoryHistory) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.InventoryHistoryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.InventoryHistoryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// FindByProduct lists a product's history, newest first by default
func (r *GormInventoryHistoryRepository) FindByProduct(
	ctx context.Context,
	tenantID, productID uuid.UUID,
	filter shared.Filter,
) ([]inventory.InventoryHistory, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InventoryHistoryModel{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	if t, ok := filter.Filters["type"]; ok && t != "" {
		query = query.Where("type = ?", t)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InventoryHistoryModel
	if err := paginate(query, filter, InventoryHistorySortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return historyToDomain(rows), total, nil
}

// FindByReference lists the rows written for one source document, oldest first
func (r *GormInventoryHistoryRepository) FindByReference(
	ctx context.Context,
	tenantID uuid.UUID,
	refType string,
	refID uuid.UUID,
) ([]inventory.InventoryHistory, error) {
	var rows []models.InventoryHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, refType, refID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

// FindAllByProduct returns every row for a product, oldest first
func (r *GormInventoryHistoryRepository) FindAllByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.InventoryHistory, error) {
	var rows []models.InventoryHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

func historyToDomain(rows []models.InventoryHistoryModel) []inventory.InventoryHistory {
	out := make([]inventory.InventoryHistory, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormInventoryHistoryRepository implements InventoryHistoryRepository
var _ inventory.InventoryHistoryRepository = (*GormInventoryHistoryRepository)(nil)
