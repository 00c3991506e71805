package persistence

import (
	"fmt"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, parents before children
func Models() []any {
	return []any{
		&models.ProductModel{},
		&models.InventoryHistoryModel{},
		&models.CustomerModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.InvoicePaymentModel{},
		&models.InvoiceSequenceModel{},
		&models.OutboxEntryModel{},
	}
}

// AutoMigrate creates the schema from the models. It backs the sqlite driver
// and tests; postgres deployments use the SQL files under migrations/.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
