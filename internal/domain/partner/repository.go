package partner

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// ExistsForTenant checks whether the customer exists in the tenant
	ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error)

	// FindAllForTenant lists customers of a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
