package billing

import (
	"context"
	"time"
)

// OrderRepository persists orders
type OrderRepository interface {
	FindAll(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	// FindCustomerOrder returns shared.ErrNotFound when the order does not
	// exist or belongs to another customer
	FindCustomerOrder(ctx context.Context, customerID, orderID int64) (*Order, error)
	FindDueForRenewal(ctx context.Context, now time.Time) ([]Order, error)
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindAll(ctx context.Context) ([]Invoice, error)
	FindByID(ctx context.Context, id int64) (*Invoice, error)
	FindByUID(ctx context.Context, uid string) (*Invoice, error)
	// FindByOrderAndPeriod returns shared.ErrNotFound when the order has no
	// invoice for that period yet
	FindByOrderAndPeriod(ctx context.Context, orderID int64, periodStart time.Time) (*Invoice, error)
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
}

// TransactionRepository persists transactions
type TransactionRepository interface {
	FindAll(ctx context.Context) ([]Transaction, error)
	Create(ctx context.Context, tx *Transaction) error
}

// Public uid prefixes
const (
	UIDPrefixOrder       = "ord"
	UIDPrefixInvoice     = "inv"
	UIDPrefixTransaction = "txn"
)

// IDGenerator hands out numeric ids and prefixed public uids
type IDGenerator interface {
	NextID() int64
	NewUID(prefix string) string
}
