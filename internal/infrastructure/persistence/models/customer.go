package models

import (
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate root
type CustomerModel struct {
	TenantAggregateModel
	Name    string `gorm:"type:varchar(200);not null;index"`
	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(200)"`
	GSTIN   string `gorm:"column:gstin;type:varchar(15)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		GSTIN:               m.GSTIN,
		Address:             m.Address,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.GSTIN = c.GSTIN
	m.Address = c.Address
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
