package billing

import (
	"time"

	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/shared"
)

// OrderStatus is the commercial status of an order
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFraud     OrderStatus = "fraud"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusActive, OrderStatusPending, OrderStatusFraud, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderStage records how far order placement got. An order whose invoice
// could not be generated stays persisted with StageInvoiceFailed.
// StageOrderFailed is only reported: the order was never stored.
type OrderStage string

const (
	StageOrderFailed    OrderStage = "order_failed"
	StageOrderCreated   OrderStage = "order_created"
	StageInvoicePending OrderStage = "invoice_pending"
	StageInvoiceCreated OrderStage = "invoice_created"
	StageInvoiceFailed  OrderStage = "invoice_failed"
)

// OrderLine is one product on an order
type OrderLine struct {
	ProductID               int64  `json:"product_id"`
	ConfigurableOptionID    *int64 `json:"configurable_option_id,omitempty"`
	ConfigurableOptionIndex int    `json:"configurable_option_index"`
	Quantity                int    `json:"quantity"`
}

// OrderDates holds the billing dates of an order. The recycle dates are
// only set for recurring orders.
type OrderDates struct {
	LastRecycle *time.Time
	NextRecycle *time.Time
}

// Order is the aggregate created for one billing cohort
type Order struct {
	shared.BaseAggregateRoot
	CustomerID    int64
	Lines         []OrderLine
	PaymentMethod PaymentMethod
	BillingType   catalog.PaymentType
	BillingCycle  catalog.RecurringMethod
	Status        OrderStatus
	Stage         OrderStage
	Dates         OrderDates
	InvoiceIDs    []int64
}

// NewOrder creates an active order. For recurring billing the last recycle
// date is now and the next one is one cadence later.
func NewOrder(
	id int64,
	uid string,
	customerID int64,
	key CohortKey,
	lines []OrderLine,
	paymentMethod PaymentMethod,
	now time.Time,
) (*Order, error) {
	if customerID <= 0 {
		return nil, ErrCustomerNotFound
	}
	if len(lines) == 0 {
		return nil, ErrNoValidProducts
	}
	if !paymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if !key.PaymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_TYPE", "billing_type invalid")
	}
	if key.IsRecurring() && !key.RecurringMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "billing_cycle invalid")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id, uid, now),
		CustomerID:        customerID,
		Lines:             lines,
		PaymentMethod:     paymentMethod,
		BillingType:       key.PaymentType,
		Status:            OrderStatusActive,
		Stage:             StageOrderCreated,
	}
	if key.IsRecurring() {
		last := now
		next := NextCycle(now, key.RecurringMethod)
		order.BillingCycle = key.RecurringMethod
		order.Dates = OrderDates{LastRecycle: &last, NextRecycle: &next}
	}
	return order, nil
}

// NewOrderFromCohort creates the order for one cohort
func NewOrderFromCohort(id int64, uid string, customerID int64, cohort Cohort, paymentMethod PaymentMethod, now time.Time) (*Order, error) {
	lines := make([]OrderLine, 0, len(cohort.Members))
	for _, m := range cohort.Members {
		lines = append(lines, OrderLine{
			ProductID:               m.Product.ID,
			ConfigurableOptionID:    m.ConfigurableOptionID,
			ConfigurableOptionIndex: m.ConfigurableOptionIndex,
			Quantity:                m.Quantity,
		})
	}
	return NewOrder(id, uid, customerID, cohort.Key, lines, paymentMethod, now)
}

// CohortKey returns the billing key of the order
func (o *Order) CohortKey() CohortKey {
	return CohortKey{PaymentType: o.BillingType, RecurringMethod: o.BillingCycle}
}

// IsRecurring reports whether the order renews
func (o *Order) IsRecurring() bool {
	return o.BillingType == catalog.PaymentTypeRecurring
}

// MarkInvoicePending records that invoice generation was started
func (o *Order) MarkInvoicePending() {
	o.Stage = StageInvoicePending
	o.Touch(time.Now())
}

// MarkInvoiced records the generated invoice
func (o *Order) MarkInvoiced(invoiceID int64) {
	o.Stage = StageInvoiceCreated
	o.InvoiceIDs = append(o.InvoiceIDs, invoiceID)
	o.Touch(time.Now())
}

// MarkInvoiceFailed records that invoice generation failed. The order is kept.
func (o *Order) MarkInvoiceFailed() {
	o.Stage = StageInvoiceFailed
	o.Touch(time.Now())
}

// Cancel cancels the order
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return ErrOrderAlreadyCancelled
	}
	o.Status = OrderStatusCancelled
	o.Touch(time.Now())
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// DueForRenewal reports whether a renewal invoice should be issued at now
func (o *Order) DueForRenewal(now time.Time) bool {
	if o.Status != OrderStatusActive || !o.IsRecurring() || o.Dates.NextRecycle == nil {
		return false
	}
	return !o.Dates.NextRecycle.After(now)
}

// AdvanceCycle moves the recycle dates one cadence forward and returns the
// start of the period that was just billed.
func (o *Order) AdvanceCycle() (time.Time, error) {
	if !o.IsRecurring() || o.Dates.NextRecycle == nil {
		return time.Time{}, shared.NewDomainError("NOT_RECURRING", "Order is not recurring")
	}
	period := *o.Dates.NextRecycle
	next := NextCycle(period, o.BillingCycle)
	o.Dates.LastRecycle = &period
	o.Dates.NextRecycle = &next
	o.Touch(time.Now())
	return period, nil
}
