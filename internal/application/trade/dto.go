package trade

import (
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one requested line. The product name and purchase
// price are always taken from the product, never from the caller.
type InvoiceItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" binding:"omitempty,oneof=amount percentage"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID            `json:"customer_id" binding:"required"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount"`
	DiscountType  string               `json:"discount_type" binding:"omitempty,oneof=amount percentage"`
	ApplyGST      bool                 `json:"apply_gst"`
	TaxCategory   string               `json:"tax_category" binding:"max=50"`
	PaymentMethod string               `json:"payment_method" binding:"max=50"`
	PaymentStatus string               `json:"payment_status" binding:"omitempty,oneof=unpaid partial paid"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	Notes         string               `json:"notes" binding:"max=2000"`
	Terms         string               `json:"terms" binding:"max=2000"`
	DueDate       *time.Time           `json:"due_date"`
}

// UpdateInvoiceRequest carries the same fields as create; the whole item set is replaced
type UpdateInvoiceRequest = CreateInvoiceRequest

// RecordPaymentRequest represents a payment against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"max=50"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=500"`
	Date      *time.Time      `json:"date"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search        string     `form:"search"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=unpaid partial paid"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by" binding:"omitempty,oneof=created_at invoice_number grand_total pending_amount"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents a priced line in API responses
type InvoiceItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   string          `json:"discount_type"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableValue   decimal.Decimal `json:"taxable_value"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Method      string          `json:"method,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CollectedBy *uuid.UUID      `json:"collected_by,omitempty"`
}

// InvoiceResponse always carries the full pricing breakdown and payment state
type InvoiceResponse struct {
	ID                 uuid.UUID             `json:"id"`
	TenantID           uuid.UUID             `json:"tenant_id"`
	InvoiceNumber      string                `json:"invoice_number"`
	CustomerID         uuid.UUID             `json:"customer_id"`
	Items              []InvoiceItemResponse `json:"items"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TotalTaxableAmount decimal.Decimal       `json:"total_taxable_amount"`
	TotalCGST          decimal.Decimal       `json:"total_cgst"`
	TotalSGST          decimal.Decimal       `json:"total_sgst"`
	Discount           decimal.Decimal       `json:"discount"`
	DiscountType       string                `json:"discount_type"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	RoundOff           decimal.Decimal       `json:"round_off"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	AmountInWords      string                `json:"amount_in_words"`
	ApplyGST           bool                  `json:"apply_gst"`
	TaxCategory        string                `json:"tax_category"`
	CGSTRate           decimal.Decimal       `json:"cgst_rate"`
	SGSTRate           decimal.Decimal       `json:"sgst_rate"`
	PaymentStatus      string                `json:"payment_status"`
	PaidAmount         decimal.Decimal       `json:"paid_amount"`
	PendingAmount      decimal.Decimal       `json:"pending_amount"`
	Payments           []PaymentResponse     `json:"payments"`
	Status             string                `json:"status"`
	PaymentMethod      string                `json:"payment_method,omitempty"`
	Notes              string                `json:"notes,omitempty"`
	Terms              string                `json:"terms,omitempty"`
	DueDate            *time.Time            `json:"due_date,omitempty"`
	CreatedBy          *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	Version            int                   `json:"version"`
}

// InvoiceListItemResponse is the compact list representation
type InvoiceListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	ItemCount     int             `json:"item_count"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			Price:          it.UnitPrice,
			Discount:       it.Discount,
			DiscountType:   string(it.DiscountType),
			GrossAmount:    it.GrossAmount,
			DiscountAmount: it.DiscountAmount,
			TaxableValue:   it.TaxableValue,
			CGSTAmount:     it.CGSTAmount,
			SGSTAmount:     it.SGSTAmount,
			LineTotal:      it.LineTotal,
			PurchasePrice:  it.PurchasePrice,
		}
	}
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount,
			Date:        p.Date,
			Method:      p.Method,
			Reference:   p.Reference,
			Notes:       p.Notes,
			CollectedBy: p.CollectedBy,
		}
	}
	return InvoiceResponse{
		ID:                 inv.ID,
		TenantID:           inv.TenantID,
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		Items:              items,
		Subtotal:           inv.Subtotal,
		TotalTaxableAmount: inv.TotalTaxableAmount,
		TotalCGST:          inv.TotalCGST,
		TotalSGST:          inv.TotalSGST,
		Discount:           inv.Discount,
		DiscountType:       string(inv.DiscountType),
		DiscountAmount:     inv.DiscountAmount,
		RoundOff:           inv.RoundOff,
		GrandTotal:         inv.GrandTotal,
		AmountInWords:      inv.AmountInWords,
		ApplyGST:           inv.ApplyGST,
		TaxCategory:        inv.TaxCategory,
		CGSTRate:           inv.CGSTRate,
		SGSTRate:           inv.SGSTRate,
		PaymentStatus:      string(inv.PaymentStatus),
		PaidAmount:         inv.PaidAmount,
		PendingAmount:      inv.PendingAmount,
		Payments:           payments,
		Status:             string(inv.Status),
		PaymentMethod:      inv.PaymentMethod,
		Notes:              inv.Notes,
		Terms:              inv.Terms,
		DueDate:            inv.DueDate,
		CreatedBy:          inv.CreatedBy,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
		Version:            inv.Version,
	}
}

// ToInvoiceListItemResponse converts a domain Invoice to its list form
func ToInvoiceListItemResponse(inv *trade.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		ItemCount:     inv.ItemCount(),
		GrandTotal:    inv.GrandTotal,
		PaidAmount:    inv.PaidAmount,
		PendingAmount: inv.PendingAmount,
		PaymentStatus: string(inv.PaymentStatus),
		CreatedAt:     inv.CreatedAt,
	}
}

func (f InvoiceListFilter) toDomain() trade.InvoiceFilter {
	df := trade.InvoiceFilter{
		PaymentStatus: trade.PaymentStatus(f.PaymentStatus),
		CustomerID:    f.CustomerID,
	}
	df.Page = 1
	df.PageSize = 20
	df.OrderBy = "created_at"
	df.OrderDir = "desc"
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
	df.From = f.From
	if f.To != nil {
		// inclusive of the whole last day
		end := f.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		df.To = &end
	}
	return df
}
