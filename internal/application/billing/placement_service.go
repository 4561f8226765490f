package billing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceSentMessage is the placement answer when nothing has to be paid online
const InvoiceSentMessage = "Invoice sent."

// Invoicer generates the first invoice of an order
type Invoicer interface {
	CreateFromOrder(ctx context.Context, order *billing.Order) (*billing.Invoice, error)
}

// PlaceOrderInput is a customer's cart
type PlaceOrderInput struct {
	CustomerID    int64
	Lines         []billing.CartLine
	PaymentMethod billing.PaymentMethod
}

// CohortResult is the outcome for one cohort. Stage tells how far it got;
// an order with StageInvoiceFailed is stored and Err says why.
type CohortResult struct {
	Cohort  billing.CohortKey
	Order   *billing.Order
	Invoice *billing.Invoice
	Stage   billing.OrderStage
	Err     error
}

// PlaceOrderResult lists one result per cohort, in bucket order
type PlaceOrderResult struct {
	Results    []CohortResult
	Dropped    []billing.DroppedLine
	PaymentURL string
	Message    string
}

// Invoiced returns the results whose invoice was generated
func (r *PlaceOrderResult) Invoiced() []CohortResult {
	var out []CohortResult
	for _, res := range r.Results {
		if res.Stage == billing.StageInvoiceCreated {
			out = append(out, res)
		}
	}
	return out
}

// PlacementService places carts: one order per billing cohort, each with
// its own invoice
type PlacementService struct {
	customers identity.CustomerRepository
	products  catalog.ProductRepository
	options   catalog.ConfigurableOptionRepository
	orders    billing.OrderRepository
	invoicer  Invoicer
	ids       billing.IDGenerator
	notifier  *notification.Notifier
	baseURL   string
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlacementService creates the service. baseURL prefixes online payment links.
func NewPlacementService(
	customers identity.CustomerRepository,
	products catalog.ProductRepository,
	options catalog.ConfigurableOptionRepository,
	orders billing.OrderRepository,
	invoicer Invoicer,
	ids billing.IDGenerator,
	notifier *notification.Notifier,
	baseURL string,
	logger *zap.Logger,
) *PlacementService {
	return &PlacementService{
		customers: customers,
		products:  products,
		options:   options,
		orders:    orders,
		invoicer:  invoicer,
		ids:       ids,
		notifier:  notifier,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// Place classifies the cart into cohorts and creates one order per cohort.
// Cohorts are processed concurrently; orders and uids are assigned in
// bucket order before any of them starts.
func (s *PlacementService) Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PlacementService", "Place",
		telemetry.WithAttribute(telemetry.AttrCustomerID, input.CustomerID),
		telemetry.WithAttribute(telemetry.AttrPaymentMethod, string(input.PaymentMethod)),
	)
	defer span.End()

	if err := validateCart(input); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrCustomerNotFound
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	classification, err := s.classify(ctx, input.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	for _, d := range classification.Dropped {
		s.logger.Warn("Cart line dropped",
			zap.Int64("product_id", d.ProductID),
			zap.String("reason", string(d.Reason)),
		)
	}
	if classification.Empty() {
		telemetry.RecordError(span, billing.ErrNoValidProducts)
		return nil, billing.ErrNoValidProducts
	}

	now := s.now()
	orders := make([]*billing.Order, len(classification.Cohorts))
	results := make([]CohortResult, len(classification.Cohorts))
	for i, cohort := range classification.Cohorts {
		results[i].Cohort = cohort.Key
		order, err := billing.NewOrderFromCohort(
			s.ids.NextID(),
			s.ids.NewUID(billing.UIDPrefixOrder),
			customer.ID,
			cohort,
			input.PaymentMethod,
			now,
		)
		if err != nil {
			results[i].Err = err
			continue
		}
		orders[i] = order
	}

	var wg sync.WaitGroup
	for i, order := range orders {
		if order == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.processCohort(ctx, customer, order)
		}()
	}
	wg.Wait()

	result := &PlaceOrderResult{Results: results, Dropped: classification.Dropped}
	result.PaymentURL, result.Message = s.paymentAnswer(input.PaymentMethod, result)

	telemetry.SetAttributes(span, "cohorts", len(results), "invoiced", len(result.Invoiced()))
	if len(result.Invoiced()) == 0 {
		telemetry.RecordError(span, billing.ErrInvoiceGenerationFailed)
	} else {
		telemetry.SetOK(span)
	}
	return result, nil
}

// processCohort persists the order, invoices it and mails the customer.
// Each step records its stage on the order.
func (s *PlacementService) processCohort(ctx context.Context, customer *identity.Customer, order *billing.Order) CohortResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "PlacementService", "ProcessCohort",
		telemetry.WithAttribute(telemetry.AttrOrderID, order.UID),
		telemetry.WithAttribute(telemetry.AttrCohort, order.CohortKey().String()),
	)
	defer span.End()

	res := CohortResult{Cohort: order.CohortKey(), Order: order}
	log := s.logger.With(zap.String("order_uid", order.UID), zap.String("cohort", res.Cohort.String()))

	if err := s.orders.Create(ctx, order); err != nil {
		log.Error("Failed to create order", zap.Error(err))
		telemetry.RecordError(span, err)
		res.Stage = billing.StageOrderFailed
		res.Err = err
		return res
	}
	res.Stage = billing.StageOrderCreated

	order.MarkInvoicePending()
	s.saveStage(ctx, order, log)
	res.Stage = order.Stage

	inv, err := s.invoicer.CreateFromOrder(ctx, order)
	if err != nil {
		log.Error("Failed to create invoice", zap.Error(err))
		telemetry.RecordError(span, err)
		order.MarkInvoiceFailed()
		s.saveStage(ctx, order, log)
		res.Stage = order.Stage
		res.Err = billing.ErrInvoiceGenerationFailed
		return res
	}

	order.MarkInvoiced(inv.ID)
	s.saveStage(ctx, order, log)
	res.Stage = order.Stage
	res.Invoice = inv
	telemetry.SetOK(span)

	s.notifier.Notify(ctx, notification.NewOrder(
		s.notifier.Company(), customer.Email(), customer.FullName(), order.UID, inv.UID,
	))
	log.Info("Order placed", zap.String("invoice_uid", inv.UID))
	return res
}

func (s *PlacementService) saveStage(ctx context.Context, order *billing.Order, log *zap.Logger) {
	if err := s.orders.Update(ctx, order); err != nil {
		log.Error("Failed to record order stage", zap.String("stage", string(order.Stage)), zap.Error(err))
	}
}

// classify loads the cart's products and options and groups them
func (s *PlacementService) classify(ctx context.Context, lines []billing.CartLine) (billing.Classification, error) {
	productIDs := make([]int64, 0, len(lines))
	var optionIDs []int64
	for _, l := range lines {
		if l.ProductID > 0 {
			productIDs = append(productIDs, l.ProductID)
		}
		for _, o := range l.ConfigurableOptions {
			optionIDs = append(optionIDs, o.ID)
		}
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return billing.Classification{}, err
	}

	var options []catalog.ConfigurableOption
	if len(optionIDs) > 0 {
		options, err = s.options.FindByIDs(ctx, optionIDs)
		if err != nil {
			return billing.Classification{}, err
		}
	}
	return billing.Classify(lines, products, options), nil
}

// paymentAnswer returns the online payment link for paypal and credit
// card carts, pointing at the first invoice, and the plain message otherwise
func (s *PlacementService) paymentAnswer(method billing.PaymentMethod, result *PlaceOrderResult) (string, string) {
	invoiced := result.Invoiced()
	if len(invoiced) == 0 {
		return "", billing.ErrInvoiceGenerationFailed.Message
	}
	uid := invoiced[0].Invoice.UID
	switch method {
	case billing.PaymentPaypal:
		return s.baseURL + "/v2/paypal/pay/" + uid, ""
	case billing.PaymentCreditCard:
		return s.baseURL + "/v2/stripe/pay/" + uid, ""
	default:
		return "", InvoiceSentMessage
	}
}

// validateCart rejects carts where every quantity or every product id is unusable
func validateCart(input PlaceOrderInput) error {
	if !input.PaymentMethod.IsValid() {
		return billing.ErrInvalidPaymentMethod
	}
	if len(input.Lines) == 0 {
		return billing.ErrNoValidProducts
	}

	validQty, validID := false, false
	for _, l := range input.Lines {
		if l.Quantity > 0 {
			validQty = true
		}
		if l.ProductID > 0 {
			validID = true
		}
	}
	if !validQty {
		return billing.ErrInvalidQuantity
	}
	if !validID {
		return billing.ErrInvalidProductID
	}
	return nil
}
