package persistence

import (
	"context"
	"errors"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant finds several products of a tenant in ID order
func (r *GormProductRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.Product, error) {
	if len(ids) == 0 {
		return []inventory.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindByIDsForUpdate loads products with SELECT ... FOR UPDATE. Rows are
// locked in ascending ID order so two invoices touching the same products
// cannot deadlock each other.
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.Product, error) {
	if len(ids) == 0 {
		return []inventory.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAllForTenant lists the products of a tenant with the total match count
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Product, int64, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := paginate(query, filter, ProductSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(rows), total, nil
}

// Save creates a new product
func (r *GormProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// SaveWithLock writes the product's mutable columns when the stored version
// is the one before the in-memory increment
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *inventory.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", product.ID, product.TenantID, product.Version-1).
		Updates(map[string]any{
			"name":           product.Name,
			"sku":            product.SKU,
			"unit":           product.Unit,
			"category":       product.Category,
			"selling_price":  product.SellingPrice,
			"purchase_price": product.PurchasePrice,
			"stock":          product.Stock,
			"version":        product.Version,
			"updated_at":     product.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Product %s was modified by another transaction", product.Name)
	}
	return nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "low_stock":
			query = query.Where("stock <= ?", value)
		}
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []inventory.Product {
	products := make([]inventory.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ inventory.ProductRepository = (*GormProductRepository)(nil)
