package trade

import (
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice names the invoice aggregate in events
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceUpdated         = "InvoiceUpdated"
	EventTypeInvoiceDeleted         = "InvoiceDeleted"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
)

// InvoiceLineInfo is the item summary carried by events
type InvoiceLineInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func lineInfos(inv *Invoice) []InvoiceLineInfo {
	out := make([]InvoiceLineInfo, len(inv.Items))
	for i, it := range inv.Items {
		out[i] = InvoiceLineInfo{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		}
	}
	return out
}

// InvoiceCreatedEvent is raised after an invoice is persisted and its stock taken
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID         `json:"invoice_id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	Items         []InvoiceLineInfo `json:"items"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Items:           lineInfos(inv),
		GrandTotal:      inv.GrandTotal,
		PaidAmount:      inv.PaidAmount,
		PaymentStatus:   inv.PaymentStatus,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceUpdatedEvent is raised when items, totals or customer change
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID          uuid.UUID         `json:"invoice_id"`
	InvoiceNumber      string            `json:"invoice_number"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	Items              []InvoiceLineInfo `json:"items"`
	PreviousGrandTotal decimal.Decimal   `json:"previous_grand_total"`
	GrandTotal         decimal.Decimal   `json:"grand_total"`
	PendingAmount      decimal.Decimal   `json:"pending_amount"`
	PaymentStatus      PaymentStatus     `json:"payment_status"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice, previousGrandTotal decimal.Decimal) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:          inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		Items:              lineInfos(inv),
		PreviousGrandTotal: previousGrandTotal,
		GrandTotal:         inv.GrandTotal,
		PendingAmount:      inv.PendingAmount,
		PaymentStatus:      inv.PaymentStatus,
	}
}

// EventType returns the event type name
func (e *InvoiceUpdatedEvent) EventType() string {
	return EventTypeInvoiceUpdated
}

// InvoiceDeletedEvent is raised after an invoice is removed and its stock restored
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID         `json:"invoice_id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	Items         []InvoiceLineInfo `json:"items"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Items:           lineInfos(inv),
		GrandTotal:      inv.GrandTotal,
		PaidAmount:      inv.PaidAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceDeletedEvent) EventType() string {
	return EventTypeInvoiceDeleted
}

// InvoicePaymentRecordedEvent is raised for every recorded payment
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, p *Payment) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Method:          p.Method,
		PaidAmount:      inv.PaidAmount,
		PendingAmount:   inv.PendingAmount,
		PaymentStatus:   inv.PaymentStatus,
	}
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return EventTypeInvoicePaymentRecorded
}
