package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementService_Place_SplitsCohorts(t *testing.T) {
	h := newHarness(t)
	svc := h.placement(nil)

	res, err := svc.Place(context.Background(), PlaceOrderInput{
		CustomerID: 7,
		Lines: []billing.CartLine{
			{ProductID: productMonthly, Quantity: 2},
			{ProductID: productOneTime, Quantity: 1},
			{ProductID: 404, Quantity: 1},
		},
		PaymentMethod: billing.PaymentBank,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "monthly", res.Results[0].Cohort.String())
	assert.Equal(t, "one_time", res.Results[1].Cohort.String())
	for _, r := range res.Results {
		require.NoError(t, r.Err)
		assert.Equal(t, billing.StageInvoiceCreated, r.Stage)
		require.NotNil(t, r.Invoice)
		assert.Equal(t, r.Order.ID, r.Invoice.OrderID)
	}
	assert.Equal(t, 2, res.Results[0].Order.Lines[0].Quantity)
	assert.Less(t, res.Results[0].Order.ID, res.Results[1].Order.ID)

	require.Len(t, res.Dropped, 1)
	assert.Equal(t, int64(404), res.Dropped[0].ProductID)
	assert.Equal(t, billing.DropUnresolvedProduct, res.Dropped[0].Reason)

	orders, _ := h.orders.FindAll(context.Background())
	invoices, _ := h.invoices.FindAll(context.Background())
	assert.Len(t, orders, 2)
	assert.Len(t, invoices, 2)
	for _, o := range orders {
		assert.Equal(t, billing.StageInvoiceCreated, o.Stage)
		assert.Len(t, o.InvoiceIDs, 1)
	}

	assert.Equal(t, InvoiceSentMessage, res.Message)
	assert.Empty(t, res.PaymentURL)
	assert.Len(t, h.sender.sent, 2)
}

func TestPlacementService_Place_RecurringDates(t *testing.T) {
	h := newHarness(t)
	svc := h.placement(nil)
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	res, err := svc.Place(context.Background(), PlaceOrderInput{
		CustomerID:    7,
		Lines:         []billing.CartLine{{ProductID: productYearly, Quantity: 1}, {ProductID: productMonthly, Quantity: 1}},
		PaymentMethod: billing.PaymentManual,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	monthly, yearly := res.Results[0].Order, res.Results[1].Order
	assert.Equal(t, catalog.RecurringMonthly, monthly.BillingCycle)
	assert.Equal(t, catalog.RecurringYearly, yearly.BillingCycle)
	assert.True(t, monthly.Dates.LastRecycle.Equal(now))
	assert.True(t, monthly.Dates.NextRecycle.Equal(time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)))
	assert.True(t, yearly.Dates.NextRecycle.Equal(time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)))
}

func TestPlacementService_Place_PaymentLinks(t *testing.T) {
	tests := []struct {
		method billing.PaymentMethod
		prefix string
	}{
		{billing.PaymentPaypal, "https://shop.example.com/v2/paypal/pay/"},
		{billing.PaymentCreditCard, "https://shop.example.com/v2/stripe/pay/"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			h := newHarness(t)
			res, err := h.placement(nil).Place(context.Background(), PlaceOrderInput{
				CustomerID:    7,
				Lines:         []billing.CartLine{{ProductID: productOneTime, Quantity: 1}},
				PaymentMethod: tt.method,
			})
			require.NoError(t, err)
			require.Len(t, res.Results, 1)
			assert.Equal(t, tt.prefix+res.Results[0].Invoice.UID, res.PaymentURL)
			assert.Empty(t, res.Message)
		})
	}
}

func TestPlacementService_Place_InvoiceFailureKeepsOrder(t *testing.T) {
	h := newHarness(t)
	svc := h.placement(failingInvoicer{next: h.invoiceSvc, failOn: catalog.PaymentTypeOneTime})

	res, err := svc.Place(context.Background(), PlaceOrderInput{
		CustomerID:    7,
		Lines:         []billing.CartLine{{ProductID: productMonthly, Quantity: 1}, {ProductID: productOneTime, Quantity: 1}},
		PaymentMethod: billing.PaymentBank,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	ok, failed := res.Results[0], res.Results[1]
	assert.Equal(t, billing.StageInvoiceCreated, ok.Stage)
	assert.Equal(t, billing.StageInvoiceFailed, failed.Stage)
	assert.ErrorIs(t, failed.Err, billing.ErrInvoiceGenerationFailed)
	assert.Nil(t, failed.Invoice)

	stored := h.orders.get(failed.Order.ID)
	assert.Equal(t, billing.StageInvoiceFailed, stored.Stage)
	assert.Equal(t, billing.OrderStatusActive, stored.Status)

	require.Len(t, h.sender.sent, 1, "only the invoiced order is mailed")
	assert.Len(t, res.Invoiced(), 1)
}

func TestPlacementService_Place_AllInvoicesFail(t *testing.T) {
	h := newHarness(t)
	svc := h.placement(failingInvoicer{next: h.invoiceSvc, failOn: catalog.PaymentTypeOneTime})

	res, err := svc.Place(context.Background(), PlaceOrderInput{
		CustomerID:    7,
		Lines:         []billing.CartLine{{ProductID: productOneTime, Quantity: 1}},
		PaymentMethod: billing.PaymentPaypal,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Invoiced())
	assert.Empty(t, res.PaymentURL)
	assert.Equal(t, billing.ErrInvoiceGenerationFailed.Message, res.Message)
	assert.Empty(t, h.sender.sent)
}

func TestPlacementService_Place_OrderStoreDown(t *testing.T) {
	h := newHarness(t)
	h.orders.failOn = errors.New("connection reset")

	res, err := h.placement(nil).Place(context.Background(), PlaceOrderInput{
		CustomerID:    7,
		Lines:         []billing.CartLine{{ProductID: productOneTime, Quantity: 1}},
		PaymentMethod: billing.PaymentBank,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Error(t, res.Results[0].Err)
	assert.Equal(t, billing.StageOrderFailed, res.Results[0].Stage)
	invoices, _ := h.invoices.FindAll(context.Background())
	assert.Empty(t, invoices)
}

func TestPlacementService_Place_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input PlaceOrderInput
		want  error
	}{
		{"bad payment method", PlaceOrderInput{CustomerID: 7, Lines: []billing.CartLine{{ProductID: productOneTime, Quantity: 1}}, PaymentMethod: "cash"}, billing.ErrInvalidPaymentMethod},
		{"empty cart", PlaceOrderInput{CustomerID: 7, PaymentMethod: billing.PaymentBank}, billing.ErrNoValidProducts},
		{"every quantity zero", PlaceOrderInput{CustomerID: 7, Lines: []billing.CartLine{{ProductID: productOneTime}}, PaymentMethod: billing.PaymentBank}, billing.ErrInvalidQuantity},
		{"every product id missing", PlaceOrderInput{CustomerID: 7, Lines: []billing.CartLine{{Quantity: 1}}, PaymentMethod: billing.PaymentBank}, billing.ErrInvalidProductID},
		{"unknown customer", PlaceOrderInput{CustomerID: 8, Lines: []billing.CartLine{{ProductID: productOneTime, Quantity: 1}}, PaymentMethod: billing.PaymentBank}, billing.ErrCustomerNotFound},
		{"nothing resolves", PlaceOrderInput{CustomerID: 7, Lines: []billing.CartLine{{ProductID: 404, Quantity: 1}}, PaymentMethod: billing.PaymentBank}, billing.ErrNoValidProducts},
		{"only unrecognized billing", PlaceOrderInput{CustomerID: 7, Lines: []billing.CartLine{{ProductID: productBroken, Quantity: 1}}, PaymentMethod: billing.PaymentBank}, billing.ErrNoValidProducts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.placement(nil).Place(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)

			orders, _ := h.orders.FindAll(context.Background())
			assert.Empty(t, orders)
		})
	}
}

func TestPlacementService_Place_ConfigurableOptionByName(t *testing.T) {
	h := newHarness(t)

	res, err := h.placement(nil).Place(context.Background(), PlaceOrderInput{
		CustomerID: 7,
		Lines: []billing.CartLine{{
			ProductID:           productMonthly,
			Quantity:            1,
			ConfigurableOptions: []billing.OptionSelection{{ID: optionSize, Name: "100GB"}},
		}},
		PaymentMethod: billing.PaymentBank,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	line := res.Results[0].Order.Lines[0]
	require.NotNil(t, line.ConfigurableOptionID)
	assert.Equal(t, optionSize, *line.ConfigurableOptionID)
	assert.Equal(t, 1, line.ConfigurableOptionIndex)
	assert.Equal(t, "Hosting - Disk: 100GB", res.Results[0].Invoice.Items[0].Notes)
}
