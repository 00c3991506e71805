package trade

import (
	"strings"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the legacy status field kept in step with PaymentStatus
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial" // only found on old rows
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// IsValid returns true for known statuses
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceItem is one priced line of an invoice
type InvoiceItem struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   DiscountType
	GrossAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableValue   decimal.Decimal
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	LineTotal      decimal.Decimal
	// PurchasePrice is the product cost at the time of sale
	PurchasePrice decimal.Decimal
}

// InvoiceLine is the caller's description of a line before pricing
type InvoiceLine struct {
	ProductID     uuid.UUID
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	DiscountType  DiscountType
	PurchasePrice decimal.Decimal
}

// PricingItem converts the line to calculator input
func (l InvoiceLine) PricingItem() PricingItem {
	return PricingItem{
		ProductID:    l.ProductID,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		Discount:     l.Discount,
		DiscountType: l.DiscountType,
	}
}

// PricingItems converts lines to calculator input
func PricingItems(lines []InvoiceLine) []PricingItem {
	items := make([]PricingItem, len(lines))
	for i, l := range lines {
		items[i] = l.PricingItem()
	}
	return items
}

// Invoice is the aggregate root for a sale
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	CustomerID    uuid.UUID
	Items         []InvoiceItem

	// Subtotal is the gross amount before any discount or tax
	Subtotal           decimal.Decimal
	TotalTaxableAmount decimal.Decimal
	TotalCGST          decimal.Decimal
	TotalSGST          decimal.Decimal
	Discount           decimal.Decimal
	DiscountType       DiscountType
	DiscountAmount     decimal.Decimal
	RoundOff           decimal.Decimal
	GrandTotal         decimal.Decimal
	AmountInWords      string
	ApplyGST           bool
	TaxCategory        string
	CGSTRate           decimal.Decimal
	SGSTRate           decimal.Decimal

	PaymentStatus PaymentStatus
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal
	Payments      []Payment
	Status        InvoiceStatus

	PaymentMethod string
	Notes         string
	Terms         string
	DueDate       *time.Time
	CreatedBy     *uuid.UUID
}

// NewInvoice creates an unpriced invoice under an already allocated number
func NewInvoice(tenantID uuid.UUID, number string, customerID uuid.UUID, createdBy uuid.UUID) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Customer ID cannot be empty")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       number,
		CustomerID:          customerID,
		DiscountType:        DiscountTypeAmount,
		PaymentStatus:       PaymentStatusUnpaid,
		Status:              InvoiceStatusPending,
		PaidAmount:          decimal.Zero,
		PendingAmount:       decimal.Zero,
		GrandTotal:          decimal.Zero,
	}
	if createdBy != uuid.Nil {
		inv.CreatedBy = &createdBy
	}
	return inv, nil
}

// ChangeCustomer points the invoice at another customer
func (inv *Invoice) ChangeCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer ID cannot be empty")
	}
	inv.CustomerID = customerID
	return nil
}

// SetDetails sets the free-form fields
func (inv *Invoice) SetDetails(paymentMethod, notes, terms string, dueDate *time.Time) {
	inv.PaymentMethod = strings.TrimSpace(paymentMethod)
	inv.Notes = notes
	inv.Terms = terms
	inv.DueDate = dueDate
}

// ApplyPricing prices lines and replaces the invoice's items and totals.
// Payment fields are not touched; callers reconcile them afterwards.
func (inv *Invoice) ApplyPricing(
	lines []InvoiceLine,
	discount decimal.Decimal,
	discountType DiscountType,
	applyGST bool,
	taxCategory string,
	rates TaxRates,
) error {
	items := PricingItems(lines)
	if err := ValidatePricingInput(items, discount, discountType); err != nil {
		return err
	}
	res := Price(items, discount, discountType, applyGST, rates)

	inv.Items = make([]InvoiceItem, len(lines))
	for i, l := range lines {
		p := res.Lines[i]
		inv.Items[i] = InvoiceItem{
			ID:             uuid.New(),
			InvoiceID:      inv.ID,
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.Round(2),
			Discount:       l.Discount.Round(2),
			DiscountType:   l.DiscountType,
			GrossAmount:    p.GrossAmount.Round(2),
			DiscountAmount: p.DiscountAmount.Round(2),
			TaxableValue:   p.TaxableValue.Round(2),
			CGSTAmount:     p.CGSTAmount.Round(2),
			SGSTAmount:     p.SGSTAmount.Round(2),
			LineTotal:      p.LineTotal.Round(2),
			PurchasePrice:  l.PurchasePrice.Round(2),
		}
	}

	inv.Subtotal = res.GrossAmount.Round(2)
	inv.TotalTaxableAmount = res.TaxableAmount.Round(2)
	inv.TotalCGST = res.TotalCGST.Round(2)
	inv.TotalSGST = res.TotalSGST.Round(2)
	inv.Discount = discount.Round(2)
	inv.DiscountType = discountType
	inv.DiscountAmount = res.AdditionalDiscount.Round(2)
	inv.RoundOff = res.RoundOff.Round(2)
	inv.GrandTotal = res.GrandTotal
	inv.AmountInWords = AmountInWords(res.GrandTotal.IntPart())
	inv.ApplyGST = applyGST
	inv.TaxCategory = taxCategory
	inv.CGSTRate = rates.CGST
	inv.SGSTRate = rates.SGST
	inv.Touch()
	return nil
}

// Lines returns the current items as lines, used to restore stock on edit or delete
func (inv *Invoice) Lines() []InvoiceLine {
	lines := make([]InvoiceLine, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = InvoiceLine{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Discount:      it.Discount,
			DiscountType:  it.DiscountType,
			PurchasePrice: it.PurchasePrice,
		}
	}
	return lines
}

// ItemCount returns the number of lines
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// TotalQuantity returns the sum of line quantities
func (inv *Invoice) TotalQuantity() int {
	total := 0
	for _, it := range inv.Items {
		total += it.Quantity
	}
	return total
}

// GrossProfit is taxable value minus the purchase cost snapshot
func (inv *Invoice) GrossProfit() decimal.Decimal {
	cost := decimal.Zero
	for _, it := range inv.Items {
		cost = cost.Add(it.PurchasePrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return inv.TotalTaxableAmount.Sub(cost)
}
