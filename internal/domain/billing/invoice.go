package billing

import (
	"time"

	"github.com/cpg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is one billed line
type InvoiceItem struct {
	ProductID int64           `json:"product_id"`
	Notes     string          `json:"notes"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// Total returns Amount * Quantity
func (i InvoiceItem) Total() decimal.Decimal {
	return i.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice is generated from an order, once per billing period.
// PeriodStart is the order's creation time for the first invoice and the
// recycle date for renewals.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID    int64
	OrderID       int64
	PeriodStart   time.Time
	Items         []InvoiceItem
	Currency      string
	TaxRate       decimal.Decimal
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Status        InvoiceStatus
	DueDate       time.Time
	PaidAt        *time.Time
	Notified      bool
}

// NewInvoice creates a pending invoice and totals its items
func NewInvoice(
	id int64,
	uid string,
	order *Order,
	periodStart time.Time,
	items []InvoiceItem,
	currency string,
	taxRate decimal.Decimal,
	dueDays int,
	now time.Time,
) (*Invoice, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice has no items")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id, uid, now),
		CustomerID:        order.CustomerID,
		OrderID:           order.ID,
		PeriodStart:       periodStart,
		Items:             items,
		Currency:          currency,
		TaxRate:           taxRate,
		PaymentMethod:     order.PaymentMethod,
		Status:            InvoiceStatusPending,
		DueDate:           now.AddDate(0, 0, dueDays),
	}
	inv.Amount = inv.Subtotal().Add(inv.Tax())
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// Subtotal is the sum of all item totals
func (i *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range i.Items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// Tax is the tax owed on the subtotal, TaxRate being a percentage
func (i *Invoice) Tax() decimal.Decimal {
	return i.Subtotal().Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// MarkPaid records a payment
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status == InvoiceStatusPaid {
		return ErrInvoiceAlreadyPaid
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVOICE_CANCELLED", "Invoice is cancelled")
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.Touch(at)
	i.AddDomainEvent(NewInvoicePaidEvent(i))
	return nil
}

// Transaction is a payment received against an invoice
type Transaction struct {
	ID            int64
	UID           string
	CustomerID    int64
	InvoiceID     int64
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod PaymentMethod
	Date          time.Time
}

// NewTransaction records the full payment of an invoice
func NewTransaction(id int64, uid string, inv *Invoice, at time.Time) *Transaction {
	return &Transaction{
		ID:            id,
		UID:           uid,
		CustomerID:    inv.CustomerID,
		InvoiceID:     inv.ID,
		Amount:        inv.Amount,
		Currency:      inv.Currency,
		PaymentMethod: inv.PaymentMethod,
		Date:          at,
	}
}
