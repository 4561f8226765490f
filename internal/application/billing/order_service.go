package billing

import (
	"context"
	"errors"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CreateOrderInput is an order entered by an admin. BillingType defaults
// to recurring and BillingCycle to monthly.
type CreateOrderInput struct {
	CustomerID    int64
	Lines         []billing.OrderLine
	PaymentMethod billing.PaymentMethod
	BillingType   catalog.PaymentType
	BillingCycle  catalog.RecurringMethod
}

// OrderService manages existing orders for admins and customers
type OrderService struct {
	orders    billing.OrderRepository
	customers identity.CustomerRepository
	invoicer  Invoicer
	ids       billing.IDGenerator
	events    shared.EventPublisher
	notifier  *notification.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates the service
func NewOrderService(
	orders billing.OrderRepository,
	customers identity.CustomerRepository,
	invoicer Invoicer,
	ids billing.IDGenerator,
	events shared.EventPublisher,
	notifier *notification.Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		invoicer:  invoicer,
		ids:       ids,
		events:    events,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder creates a single order with its first invoice and mails the
// customer. When invoicing fails the order is kept with StageInvoiceFailed.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*billing.Order, *billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OrderService", "CreateOrder",
		telemetry.WithAttribute(telemetry.AttrCustomerID, input.CustomerID),
	)
	defer span.End()

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, billing.ErrCustomerNotFound
		}
		return nil, nil, err
	}

	key := billing.CohortKey{PaymentType: input.BillingType, RecurringMethod: input.BillingCycle}
	if key.PaymentType == "" {
		key.PaymentType = catalog.PaymentTypeRecurring
	}
	if key.IsRecurring() && key.RecurringMethod == "" {
		key.RecurringMethod = catalog.RecurringMonthly
	}
	if !key.IsRecurring() {
		key.RecurringMethod = ""
	}

	lines := make([]billing.OrderLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.ProductID <= 0 {
			continue
		}
		if l.Quantity <= 0 {
			l.Quantity = 1
		}
		lines = append(lines, l)
	}

	order, err := billing.NewOrder(
		s.ids.NextID(),
		s.ids.NewUID(billing.UIDPrefixOrder),
		customer.ID,
		key,
		lines,
		input.PaymentMethod,
		s.now(),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	order.MarkInvoicePending()
	inv, err := s.invoicer.CreateFromOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to create invoice", zap.String("order_uid", order.UID), zap.Error(err))
		order.MarkInvoiceFailed()
		if uerr := s.orders.Update(ctx, order); uerr != nil {
			s.logger.Error("Failed to record order stage", zap.Error(uerr))
		}
		telemetry.RecordError(span, err)
		return order, nil, billing.ErrInvoiceGenerationFailed
	}

	order.MarkInvoiced(inv.ID)
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to record order stage", zap.Error(err))
	}
	telemetry.SetOK(span)

	s.notifier.Notify(ctx, notification.NewOrder(
		s.notifier.Company(), customer.Email(), customer.FullName(), order.UID, inv.UID,
	))
	return order, inv, nil
}

// ListOrders returns every order
func (s *OrderService) ListOrders(ctx context.Context) ([]billing.Order, error) {
	return s.orders.FindAll(ctx)
}

// ListCustomerOrders returns the customer's orders, newest first
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int64) ([]billing.Order, error) {
	return s.orders.FindByCustomer(ctx, customerID)
}

// GetCustomerOrder returns one of the customer's orders
func (s *OrderService) GetCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error) {
	order, err := s.orders.FindCustomerOrder(ctx, customerID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// CancelCustomerOrder cancels one of the customer's orders. The customer
// gets a confirmation; admins are told through the order_cancelled event.
func (s *OrderService) CancelCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OrderService", "Cancel",
		telemetry.WithAttribute(telemetry.AttrCustomerID, customerID),
	)
	defer span.End()

	order, err := s.GetCustomerOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		s.logger.Warn("Cancelled order of unknown customer", zap.String("order_uid", order.UID), zap.Error(err))
	} else {
		s.notifier.Notify(ctx, notification.OrderCancelledCustomer(customer.Email(), order.UID))
	}

	publishEvents(ctx, s.events, order, s.logger)
	s.logger.Info("Order cancelled", zap.String("order_uid", order.UID))
	return order, nil
}
