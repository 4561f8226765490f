// Package billing turns carts into orders and orders into invoices.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceConfig holds invoicing defaults
type InvoiceConfig struct {
	Currency string
	TaxRate  decimal.Decimal // percent
	DueDays  int
}

// InvoiceService generates invoices from orders, at most one per order
// and billing period
type InvoiceService struct {
	invoices     billing.InvoiceRepository
	transactions billing.TransactionRepository
	products     catalog.ProductRepository
	options      catalog.ConfigurableOptionRepository
	ids          billing.IDGenerator
	events       shared.EventPublisher
	config       InvoiceConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewInvoiceService creates the service
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	transactions billing.TransactionRepository,
	products catalog.ProductRepository,
	options catalog.ConfigurableOptionRepository,
	ids billing.IDGenerator,
	events shared.EventPublisher,
	config InvoiceConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:     invoices,
		transactions: transactions,
		products:     products,
		options:      options,
		ids:          ids,
		events:       events,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateFromOrder generates the first invoice of order. Calling it again
// for the same order returns the existing invoice.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, order *billing.Order) (*billing.Invoice, error) {
	return s.createForPeriod(ctx, order, order.CreatedAt, true)
}

// CreateRenewal generates the invoice for the period starting at periodStart
func (s *InvoiceService) CreateRenewal(ctx context.Context, order *billing.Order, periodStart time.Time) (*billing.Invoice, error) {
	return s.createForPeriod(ctx, order, periodStart, false)
}

func (s *InvoiceService) createForPeriod(ctx context.Context, order *billing.Order, periodStart time.Time, first bool) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Create",
		telemetry.WithAttribute(telemetry.AttrOrderID, order.UID),
		telemetry.WithAttribute(telemetry.AttrCustomerID, order.CustomerID),
	)
	defer span.End()

	existing, err := s.invoices.FindByOrderAndPeriod(ctx, order.ID, periodStart)
	if err == nil {
		telemetry.AddEvent(span, "invoice.exists", telemetry.AttrInvoiceID, existing.UID)
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items, err := s.buildItems(ctx, order, first)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	inv, err := billing.NewInvoice(
		s.ids.NextID(),
		s.ids.NewUID(billing.UIDPrefixInvoice),
		order,
		periodStart,
		items,
		s.config.Currency,
		s.config.TaxRate,
		s.config.DueDays,
		s.now(),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// lost a race against another caller for the same period
			return s.invoices.FindByOrderAndPeriod(ctx, order.ID, periodStart)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, inv)
	telemetry.SetAttributes(span, telemetry.AttrInvoiceID, inv.UID)
	telemetry.SetOK(span)

	s.logger.Info("Invoice created",
		zap.String("invoice_uid", inv.UID),
		zap.String("order_uid", order.UID),
		zap.String("amount", inv.Amount.StringFixed(2)),
		zap.Time("period_start", periodStart),
	)
	return inv, nil
}

// buildItems prices every order line from the catalog. The setup fee is
// billed on the first invoice only.
func (s *InvoiceService) buildItems(ctx context.Context, order *billing.Order, first bool) ([]billing.InvoiceItem, error) {
	ids := make([]int64, 0, len(order.Lines))
	var optionIDs []int64
	for _, line := range order.Lines {
		ids = append(ids, line.ProductID)
		if line.ConfigurableOptionID != nil {
			optionIDs = append(optionIDs, *line.ConfigurableOptionID)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	optionsByID := map[int64]catalog.ConfigurableOption{}
	if len(optionIDs) > 0 {
		options, err := s.options.FindByIDs(ctx, optionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load configurable options: %w", err)
		}
		for _, o := range options {
			optionsByID[o.ID] = o
		}
	}

	items := make([]billing.InvoiceItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn("Product on order no longer exists",
				zap.String("order_uid", order.UID),
				zap.Int64("product_id", line.ProductID),
			)
			continue
		}

		item := billing.InvoiceItem{
			ProductID: p.ID,
			Notes:     p.Name,
			Quantity:  line.Quantity,
			Amount:    p.Price,
		}
		if line.ConfigurableOptionID != nil {
			if opt, ok := optionsByID[*line.ConfigurableOptionID]; ok {
				if choice, ok := opt.Choice(line.ConfigurableOptionIndex); ok {
					item.Notes = fmt.Sprintf("%s - %s: %s", p.Name, opt.Name, choice.Name)
					item.Amount = item.Amount.Add(choice.Price)
				}
			}
		}
		items = append(items, item)

		if first && p.SetupFee.IsPositive() {
			items = append(items, billing.InvoiceItem{
				ProductID: p.ID,
				Notes:     "Setup fee: " + p.Name,
				Quantity:  1,
				Amount:    p.SetupFee,
			})
		}
	}

	if len(items) == 0 {
		return nil, billing.ErrNoValidProducts
	}
	return items, nil
}

// MarkPaid records a full payment of the invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceUID string) (*billing.Transaction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "MarkPaid",
		telemetry.WithAttribute(telemetry.AttrInvoiceID, invoiceUID),
	)
	defer span.End()

	inv, err := s.invoices.FindByUID(ctx, invoiceUID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}

	now := s.now()
	if err := inv.MarkPaid(now); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	tx := billing.NewTransaction(s.ids.NextID(), s.ids.NewUID(billing.UIDPrefixTransaction), inv, now)
	if err := s.transactions.Create(ctx, tx); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, inv)
	telemetry.SetOK(span)
	s.logger.Info("Invoice paid", zap.String("invoice_uid", inv.UID), zap.String("transaction_uid", tx.UID))
	return tx, nil
}

// ListInvoices returns every invoice
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]billing.Invoice, error) {
	return s.invoices.FindAll(ctx)
}

// ListTransactions returns every transaction
func (s *InvoiceService) ListTransactions(ctx context.Context) ([]billing.Transaction, error) {
	return s.transactions.FindAll(ctx)
}

func (s *InvoiceService) publish(ctx context.Context, agg shared.AggregateRoot) {
	publishEvents(ctx, s.events, agg, s.logger)
}

// publishEvents hands the pending events of agg to the bus. A publish
// failure is logged; the state change it describes is already stored.
func publishEvents(ctx context.Context, events shared.EventPublisher, agg shared.AggregateRoot, logger *zap.Logger) {
	pending := agg.GetDomainEvents()
	if len(pending) == 0 || events == nil {
		return
	}
	if err := events.Publish(ctx, pending...); err != nil {
		logger.Error("Failed to publish domain events", zap.Int("count", len(pending)), zap.Error(err))
	}
	agg.ClearDomainEvents()
}
