package models

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The invoice number is unique per tenant; a second writer that somehow got
// the same number fails on insert.
type InvoiceModel struct {
	AggregateModel
	TenantID           uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_tenant_number,priority:1;index:idx_invoice_tenant_created,priority:1"`
	InvoiceNumber      string                `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Items              []InvoiceItemModel    `gorm:"foreignKey:InvoiceID;references:ID"`
	Payments           []InvoicePaymentModel `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal           decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTaxableAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCGST          decimal.Decimal       `gorm:"column:total_cgst;type:decimal(18,2);not null;default:0"`
	TotalSGST          decimal.Decimal       `gorm:"column:total_sgst;type:decimal(18,2);not null;default:0"`
	Discount           decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType       trade.DiscountType    `gorm:"type:varchar(20);not null;default:'amount'"`
	DiscountAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	RoundOff           decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal         decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	AmountInWords      string                `gorm:"type:varchar(500)"`
	ApplyGST           bool                  `gorm:"column:apply_gst;not null;default:false"`
	TaxCategory        string                `gorm:"type:varchar(50)"`
	CGSTRate           decimal.Decimal       `gorm:"column:cgst_rate;type:decimal(5,2);not null;default:0"`
	SGSTRate           decimal.Decimal       `gorm:"column:sgst_rate;type:decimal(5,2);not null;default:0"`
	PaymentStatus      trade.PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	PaidAmount         decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PendingAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status             trade.InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod      string                `gorm:"type:varchar(50)"`
	Notes              string                `gorm:"type:text"`
	Terms              string                `gorm:"type:text"`
	DueDate            *time.Time
	CreatedBy          *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice. Items keep
// their line order and payments their recording order.
func (m *InvoiceModel) ToDomain() *trade.Invoice {
	inv := &trade.Invoice{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: m.BaseModel.ToDomain(),
				Version:    m.Version,
			},
			TenantID: m.TenantID,
		},
		InvoiceNumber:      m.InvoiceNumber,
		CustomerID:         m.CustomerID,
		Items:              make([]trade.InvoiceItem, len(m.Items)),
		Subtotal:           m.Subtotal,
		TotalTaxableAmount: m.TotalTaxableAmount,
		TotalCGST:          m.TotalCGST,
		TotalSGST:          m.TotalSGST,
		Discount:           m.Discount,
		DiscountType:       m.DiscountType,
		DiscountAmount:     m.DiscountAmount,
		RoundOff:           m.RoundOff,
		GrandTotal:         m.GrandTotal,
		AmountInWords:      m.AmountInWords,
		ApplyGST:           m.ApplyGST,
		TaxCategory:        m.TaxCategory,
		CGSTRate:           m.CGSTRate,
		SGSTRate:           m.SGSTRate,
		PaymentStatus:      m.PaymentStatus,
		PaidAmount:         m.PaidAmount,
		PendingAmount:      m.PendingAmount,
		Payments:           make([]trade.Payment, len(m.Payments)),
		Status:             m.Status,
		PaymentMethod:      m.PaymentMethod,
		Notes:              m.Notes,
		Terms:              m.Terms,
		DueDate:            m.DueDate,
		CreatedBy:          m.CreatedBy,
	}
	for i := range m.Items {
		inv.Items[i] = m.Items[i].ToDomain()
	}
	for i := range m.Payments {
		inv.Payments[i] = m.Payments[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *trade.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.TenantID = inv.TenantID
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.Subtotal = inv.Subtotal
	m.TotalTaxableAmount = inv.TotalTaxableAmount
	m.TotalCGST = inv.TotalCGST
	m.TotalSGST = inv.TotalSGST
	m.Discount = inv.Discount
	m.DiscountType = inv.DiscountType
	m.DiscountAmount = inv.DiscountAmount
	m.RoundOff = inv.RoundOff
	m.GrandTotal = inv.GrandTotal
	m.AmountInWords = inv.AmountInWords
	m.ApplyGST = inv.ApplyGST
	m.TaxCategory = inv.TaxCategory
	m.CGSTRate = inv.CGSTRate
	m.SGSTRate = inv.SGSTRate
	m.PaymentStatus = inv.PaymentStatus
	m.PaidAmount = inv.PaidAmount
	m.PendingAmount = inv.PendingAmount
	m.Status = inv.Status
	m.PaymentMethod = inv.PaymentMethod
	m.Notes = inv.Notes
	m.Terms = inv.Terms
	m.DueDate = inv.DueDate
	m.CreatedBy = inv.CreatedBy

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].FromDomain(&inv.Items[i], inv.ID, i+1)
	}
	m.Payments = make([]InvoicePaymentModel, len(inv.Payments))
	for i := range inv.Payments {
		m.Payments[i].FromDomain(&inv.Payments[i], inv.ID, i+1)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is one priced line of an invoice
type InvoiceItemModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	InvoiceID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	LineNo         int                `gorm:"not null"`
	ProductID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductName    string             `gorm:"type:varchar(200);not null"`
	Quantity       int                `gorm:"not null"`
	UnitPrice      decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Discount       decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType   trade.DiscountType `gorm:"type:varchar(20);not null;default:'amount'"`
	GrossAmount    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TaxableValue   decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	CGSTAmount     decimal.Decimal    `gorm:"column:cgst_amount;type:decimal(18,2);not null;default:0"`
	SGSTAmount     decimal.Decimal    `gorm:"column:sgst_amount;type:decimal(18,2);not null;default:0"`
	LineTotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	PurchasePrice  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() trade.InvoiceItem {
	return trade.InvoiceItem{
		ID:             m.ID,
		InvoiceID:      m.InvoiceID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Discount:       m.Discount,
		DiscountType:   m.DiscountType,
		GrossAmount:    m.GrossAmount,
		DiscountAmount: m.DiscountAmount,
		TaxableValue:   m.TaxableValue,
		CGSTAmount:     m.CGSTAmount,
		SGSTAmount:     m.SGSTAmount,
		LineTotal:      m.LineTotal,
		PurchasePrice:  m.PurchasePrice,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem
func (m *InvoiceItemModel) FromDomain(it *trade.InvoiceItem, invoiceID uuid.UUID, lineNo int) {
	m.ID = it.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.InvoiceID = invoiceID
	m.LineNo = lineNo
	m.ProductID = it.ProductID
	m.ProductName = it.ProductName
	m.Quantity = it.Quantity
	m.UnitPrice = it.UnitPrice
	m.Discount = it.Discount
	m.DiscountType = it.DiscountType
	m.GrossAmount = it.GrossAmount
	m.DiscountAmount = it.DiscountAmount
	m.TaxableValue = it.TaxableValue
	m.CGSTAmount = it.CGSTAmount
	m.SGSTAmount = it.SGSTAmount
	m.LineTotal = it.LineTotal
	m.PurchasePrice = it.PurchasePrice
}

// InvoicePaymentModel is one recorded payment against an invoice
type InvoicePaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Seq         int             `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date        time.Time       `gorm:"not null"`
	Method      string          `gorm:"type:varchar(50)"`
	Reference   string          `gorm:"type:varchar(100)"`
	Notes       string          `gorm:"type:text"`
	CollectedBy *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *InvoicePaymentModel) ToDomain() trade.Payment {
	return trade.Payment{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Date:        m.Date,
		Method:      m.Method,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CollectedBy: m.CollectedBy,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *InvoicePaymentModel) FromDomain(p *trade.Payment, invoiceID uuid.UUID, seq int) {
	m.ID = p.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.InvoiceID = invoiceID
	m.Seq = seq
	m.Amount = p.Amount
	m.Date = p.Date
	m.Method = p.Method
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.CollectedBy = p.CollectedBy
}
