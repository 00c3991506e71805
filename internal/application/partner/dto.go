package partner

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	GSTIN   string `json:"gstin" binding:"omitempty,len=15"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest replaces a customer's contact details
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	GSTIN   string `json:"gstin" binding:"omitempty,len=15"`
	Address string `json:"address" binding:"max=500"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	GSTIN        string    `json:"gstin,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsRegistered bool      `json:"is_registered"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		TenantID:     c.TenantID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		GSTIN:        c.GSTIN,
		Address:      c.Address,
		IsRegistered: c.IsRegistered(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

func (f CustomerListFilter) toDomain() shared.Filter {
	df := shared.DefaultFilter()
	if f.Page > 0 {
		df.Page = f.Page
	}
	if f.PageSize > 0 {
		df.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		df.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		df.OrderDir = f.OrderDir
	}
	df.Search = f.Search
	return df
}
