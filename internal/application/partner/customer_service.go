package partner

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, log *zap.Logger) *CustomerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerService{customerRepo: customerRepo, logger: log}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Name, req.Phone, req.Email, req.GSTIN, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("customer created", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update replaces a customer's contact details
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Phone, req.Email, req.GSTIN, req.Address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	df := filter.toDomain()
	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, df)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}
	return shared.NewPaginated(items, total, df.Page, df.PageSize), nil
}
