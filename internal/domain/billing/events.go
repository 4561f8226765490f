package billing

import (
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeInvoiceCreated = "invoice_created"
	EventTypeInvoicePaid    = "invoice_paid"
	EventTypeOrderCancelled = "order_cancelled"

	AggregateTypeOrder   = "Order"
	AggregateTypeInvoice = "Invoice"
)

// InvoiceCreatedEvent is raised when an invoice is generated
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceUID string          `json:"invoice_uid"`
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceUID:      inv.UID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Amount:          inv.Amount,
		Currency:        inv.Currency,
	}
}

// InvoicePaidEvent is raised when an invoice is paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceUID string          `json:"invoice_uid"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceUID:      inv.UID,
		CustomerID:      inv.CustomerID,
		Amount:          inv.Amount,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderUID   string `json:"order_uid"`
	CustomerID int64  `json:"customer_id"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderUID:        o.UID,
		CustomerID:      o.CustomerID,
	}
}
