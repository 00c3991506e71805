package partner

import (
	"regexp"
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// Customer is the buyer an invoice is raised against
type Customer struct {
	shared.TenantAggregateRoot
	Name    string
	Phone   string
	Email   string
	GSTIN   string
	Address string
}

// NewCustomer creates a customer after validating the contact fields
func NewCustomer(tenantID uuid.UUID, name, phone, email, gstin, address string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tenant ID cannot be empty")
	}
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
	}
	if err := c.Update(name, phone, email, gstin, address); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update replaces the customer's contact details
func (c *Customer) Update(name, phone, email, gstin, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer name cannot exceed 200 characters")
	}
	phone = strings.TrimSpace(phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid phone number format")
	}
	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid GSTIN format")
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.GSTIN = gstin
	c.Address = strings.TrimSpace(address)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsRegistered reports whether the customer holds a GST registration
func (c *Customer) IsRegistered() bool {
	return c.GSTIN != ""
}
