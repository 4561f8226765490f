package models

import (
	"time"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel is the orders table. Lines and invoice ids are JSON columns.
type OrderModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	UID           string `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID    int64  `gorm:"not null;index"`
	Lines         datatypes.JSONSlice[billing.OrderLine]
	PaymentMethod string `gorm:"type:varchar(20);not null"`
	BillingType   string `gorm:"type:varchar(20);not null"`
	BillingCycle  string `gorm:"type:varchar(20)"`
	Status        string `gorm:"type:varchar(20);not null;index"`
	BillingStage  string `gorm:"type:varchar(30);not null"`
	LastRecycle   *time.Time
	NextRecycle   *time.Time `gorm:"index"`
	InvoiceIDs    datatypes.JSONSlice[int64]
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name
func (OrderModel) TableName() string { return "orders" }

// ToDomain converts to the domain order
func (m *OrderModel) ToDomain() *billing.Order {
	return &billing.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			ID:        m.ID,
			UID:       m.UID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CustomerID:    m.CustomerID,
		Lines:         []billing.OrderLine(m.Lines),
		PaymentMethod: billing.PaymentMethod(m.PaymentMethod),
		BillingType:   catalog.PaymentType(m.BillingType),
		BillingCycle:  catalog.RecurringMethod(m.BillingCycle),
		Status:        billing.OrderStatus(m.Status),
		Stage:         billing.OrderStage(m.BillingStage),
		Dates: billing.OrderDates{
			LastRecycle: m.LastRecycle,
			NextRecycle: m.NextRecycle,
		},
		InvoiceIDs: []int64(m.InvoiceIDs),
	}
}

// OrderModelFromDomain converts a domain order
func OrderModelFromDomain(o *billing.Order) *OrderModel {
	return &OrderModel{
		ID:            o.ID,
		UID:           o.UID,
		CustomerID:    o.CustomerID,
		Lines:         datatypes.NewJSONSlice(o.Lines),
		PaymentMethod: string(o.PaymentMethod),
		BillingType:   string(o.BillingType),
		BillingCycle:  string(o.BillingCycle),
		Status:        string(o.Status),
		BillingStage:  string(o.Stage),
		LastRecycle:   o.Dates.LastRecycle,
		NextRecycle:   o.Dates.NextRecycle,
		InvoiceIDs:    datatypes.NewJSONSlice(o.InvoiceIDs),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// InvoiceModel is the invoices table. (order_id, period_start) is unique so
// a billing period can only ever be invoiced once.
type InvoiceModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	UID           string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID    int64     `gorm:"not null;index"`
	OrderID       int64     `gorm:"not null;uniqueIndex:idx_invoices_order_period"`
	PeriodStart   time.Time `gorm:"not null;uniqueIndex:idx_invoices_order_period"`
	Items         datatypes.JSONSlice[billing.InvoiceItem]
	Currency      string          `gorm:"type:varchar(3);not null"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(20);not null"`
	DueDate       time.Time       `gorm:"not null"`
	PaidAt        *time.Time
	Notified      bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name
func (InvoiceModel) TableName() string { return "invoices" }

// ToDomain converts to the domain invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			ID:        m.ID,
			UID:       m.UID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		PeriodStart:   m.PeriodStart,
		Items:         []billing.InvoiceItem(m.Items),
		Currency:      m.Currency,
		TaxRate:       m.TaxRate,
		Amount:        m.Amount,
		PaymentMethod: billing.PaymentMethod(m.PaymentMethod),
		Status:        billing.InvoiceStatus(m.Status),
		DueDate:       m.DueDate,
		PaidAt:        m.PaidAt,
		Notified:      m.Notified,
	}
}

// InvoiceModelFromDomain converts a domain invoice
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:            i.ID,
		UID:           i.UID,
		CustomerID:    i.CustomerID,
		OrderID:       i.OrderID,
		PeriodStart:   i.PeriodStart,
		Items:         datatypes.NewJSONSlice(i.Items),
		Currency:      i.Currency,
		TaxRate:       i.TaxRate,
		Amount:        i.Amount,
		PaymentMethod: string(i.PaymentMethod),
		Status:        string(i.Status),
		DueDate:       i.DueDate,
		PaidAt:        i.PaidAt,
		Notified:      i.Notified,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// TransactionModel is the transactions table
type TransactionModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	UID           string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID    int64           `gorm:"not null;index"`
	InvoiceID     int64           `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Date          time.Time       `gorm:"not null"`
}

// TableName returns the table name
func (TransactionModel) TableName() string { return "transactions" }

// ToDomain converts to the domain transaction
func (m *TransactionModel) ToDomain() *billing.Transaction {
	return &billing.Transaction{
		ID:            m.ID,
		UID:           m.UID,
		CustomerID:    m.CustomerID,
		InvoiceID:     m.InvoiceID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		PaymentMethod: billing.PaymentMethod(m.PaymentMethod),
		Date:          m.Date,
	}
}

// TransactionModelFromDomain converts a domain transaction
func TransactionModelFromDomain(t *billing.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:            t.ID,
		UID:           t.UID,
		CustomerID:    t.CustomerID,
		InvoiceID:     t.InvoiceID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		PaymentMethod: string(t.PaymentMethod),
		Date:          t.Date,
	}
}
