package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Items and payments are owned by the invoice and always replaced together with it.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") })
}

// FindByIDForTenant loads an invoice with its items and payments
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.withChildren(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the invoice row with SELECT ... FOR UPDATE and
// loads its children
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.withChildren(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads an invoice by its human-facing number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.withChildren(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, strings.TrimSpace(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoices with the total match count
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.InvoiceFilter) ([]trade.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(invoice_number) LIKE ? OR LOWER(notes) LIKE ?)", pattern, pattern)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
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

	var rows []models.InvoiceModel
	if err := r.withChildren(paginate(query, filter.Filter, InvoiceSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	invoices := make([]trade.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// Create inserts the invoice with its items and payments
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *trade.Invoice) error {
	if err := r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
				"Invoice number %s is already taken", invoice.InvoiceNumber)
		}
		return err
	}
	return nil
}

// SaveWithLock updates the invoice row under its version check, then
// replaces items and payments
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *trade.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", invoice.ID, invoice.TenantID, invoice.Version-1).
			Updates(invoiceColumns(model))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
				"Invoice %s was modified by another transaction", invoice.InvoiceNumber)
		}

		if err := r.replaceChildren(tx, model); err != nil {
			return err
		}
		return nil
	})
}

func (r *GormInvoiceRepository) replaceChildren(tx *gorm.DB, model *models.InvoiceModel) error {
	if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoicePaymentModel{}).Error; err != nil {
		return err
	}
	if len(model.Items) > 0 {
		if err := tx.Create(&model.Items).Error; err != nil {
			return err
		}
	}
	if len(model.Payments) > 0 {
		if err := tx.Create(&model.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an invoice with its items and payments
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoicePaymentModel{}).Error
	})
}

func invoiceColumns(m *models.InvoiceModel) map[string]any {
	return map[string]any{
		"customer_id":          m.CustomerID,
		"subtotal":             m.Subtotal,
		"total_taxable_amount": m.TotalTaxableAmount,
		"total_cgst":           m.TotalCGST,
		"total_sgst":           m.TotalSGST,
		"discount":             m.Discount,
		"discount_type":        m.DiscountType,
		"discount_amount":      m.DiscountAmount,
		"round_off":            m.RoundOff,
		"grand_total":          m.GrandTotal,
		"amount_in_words":      m.AmountInWords,
		"apply_gst":            m.ApplyGST,
		"tax_category":         m.TaxCategory,
		"cgst_rate":            m.CGSTRate,
		"sgst_rate":            m.SGSTRate,
		"payment_status":       m.PaymentStatus,
		"paid_amount":          m.PaidAmount,
		"pending_amount":       m.PendingAmount,
		"status":               m.Status,
		"payment_method":       m.PaymentMethod,
		"notes":                m.Notes,
		"terms":                m.Terms,
		"due_date":             m.DueDate,
		"version":              m.Version,
		"updated_at":           m.UpdatedAt,
	}
}

// isUniqueViolation recognizes duplicate key errors from postgres and sqlite,
// translated or not
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
