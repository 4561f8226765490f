package billing

import (
	"testing"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	productMonthly int64 = 10
	productOneTime int64 = 11
	productYearly  int64 = 12
	productBroken  int64 = 13
	optionSize     int64 = 50
)

type harness struct {
	ids          *seqIDs
	orders       *memOrders
	invoices     *memInvoices
	transactions *memTransactions
	products     memProducts
	options      memOptions
	customers    memCustomers
	sender       *recordingSender
	events       *recordingPublisher
	notifier     *notification.Notifier
	invoiceSvc   *InvoiceService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ids:          &seqIDs{},
		orders:       newMemOrders(),
		invoices:     newMemInvoices(),
		transactions: &memTransactions{},
		sender:       &recordingSender{},
		events:       &recordingPublisher{},
		products: memProducts{
			productMonthly: {ID: productMonthly, Name: "Hosting", Price: decimal.NewFromInt(100),
				SetupFee: decimal.NewFromInt(50), PaymentType: catalog.PaymentTypeRecurring, RecurringMethod: catalog.RecurringMonthly},
			productOneTime: {ID: productOneTime, Name: "Install", Price: decimal.NewFromInt(300), PaymentType: catalog.PaymentTypeOneTime},
			productYearly: {ID: productYearly, Name: "Domain", Price: decimal.NewFromInt(120),
				PaymentType: catalog.PaymentTypeRecurring, RecurringMethod: catalog.RecurringYearly},
			productBroken: {ID: productBroken, Name: "Legacy", Price: decimal.NewFromInt(1),
				PaymentType: catalog.PaymentTypeRecurring, RecurringMethod: "weekly"},
		},
		options: memOptions{
			optionSize: {ID: optionSize, Name: "Disk", ProductIDs: []int64{productMonthly}, Options: []catalog.OptionChoice{
				{Name: "10GB", Price: decimal.Zero},
				{Name: "100GB", Price: decimal.NewFromInt(25)},
			}},
		},
		customers: memCustomers{
			7: {ID: 7, UID: "cus_7", Personal: identity.Personal{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}},
		},
	}
	h.notifier = notification.NewNotifier(h.sender, "Shop", zap.NewNop())
	h.invoiceSvc = NewInvoiceService(h.invoices, h.transactions, h.products, h.options, h.ids, h.events,
		InvoiceConfig{Currency: "SEK", TaxRate: decimal.NewFromInt(25), DueDays: 7}, zap.NewNop())
	return h
}

func (h *harness) placement(invoicer Invoicer) *PlacementService {
	if invoicer == nil {
		invoicer = h.invoiceSvc
	}
	return NewPlacementService(h.customers, h.products, h.options, h.orders, invoicer, h.ids, h.notifier,
		"https://shop.example.com/", zap.NewNop())
}

func (h *harness) orderService() *OrderService {
	return NewOrderService(h.orders, h.customers, h.invoiceSvc, h.ids, h.events, h.notifier, zap.NewNop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
