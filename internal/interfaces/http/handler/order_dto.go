package handler

import (
	"time"

	appbilling "github.com/cpg/backend/internal/application/billing"
	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// =====================
// Order Request DTOs
// =====================

// OptionSelectionRequest picks a configurable option variant by index or name
type OptionSelectionRequest struct {
	ID          int64  `json:"id"`
	OptionIndex *int   `json:"option_index"`
	OptionName  string `json:"option_name"`
}

// CartLineRequest is one cart line. Quantity and product id are checked
// across the whole cart by the placement service.
type CartLineRequest struct {
	ProductID           int64                    `json:"product_id"`
	Quantity            int                      `json:"quantity"`
	ConfigurableOptions []OptionSelectionRequest `json:"configurable_options" binding:"omitempty,dive"`
}

// PlaceOrderRequest is the body of POST /v2/orders/place
type PlaceOrderRequest struct {
	Products      []CartLineRequest `json:"products" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" binding:"required,payment_method"`
}

// OrderLineRequest is one line of an admin entered order
type OrderLineRequest struct {
	ProductID               int64  `json:"product_id"`
	Quantity                int    `json:"quantity"`
	ConfigurableOptionID    *int64 `json:"configurable_option_id"`
	ConfigurableOptionIndex int    `json:"configurable_option_index" binding:"gte=0"`
}

// CreateOrderRequest is the body of the admin POST /v2/orders
type CreateOrderRequest struct {
	CustomerID    int64              `json:"customer_id" binding:"required,gt=0"`
	Products      []OrderLineRequest `json:"products" binding:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" binding:"required,payment_method"`
	BillingType   string             `json:"billing_type" binding:"omitempty,oneof=one_time recurring"`
	BillingCycle  string             `json:"billing_cycle" binding:"omitempty,oneof=monthly quarterly semi_annually yearly biennially triennially"`
}

func (r PlaceOrderRequest) toInput(customerID int64) appbilling.PlaceOrderInput {
	lines := make([]billing.CartLine, 0, len(r.Products))
	for _, p := range r.Products {
		line := billing.CartLine{ProductID: p.ProductID, Quantity: p.Quantity}
		for _, o := range p.ConfigurableOptions {
			line.ConfigurableOptions = append(line.ConfigurableOptions, billing.OptionSelection{
				ID:    o.ID,
				Index: o.OptionIndex,
				Name:  o.OptionName,
			})
		}
		lines = append(lines, line)
	}
	method, _ := billing.ParsePaymentMethod(r.PaymentMethod)
	return appbilling.PlaceOrderInput{
		CustomerID:    customerID,
		Lines:         lines,
		PaymentMethod: method,
	}
}

func (r CreateOrderRequest) toInput() appbilling.CreateOrderInput {
	lines := make([]billing.OrderLine, 0, len(r.Products))
	for _, p := range r.Products {
		lines = append(lines, billing.OrderLine{
			ProductID:               p.ProductID,
			ConfigurableOptionID:    p.ConfigurableOptionID,
			ConfigurableOptionIndex: p.ConfigurableOptionIndex,
			Quantity:                p.Quantity,
		})
	}
	method, _ := billing.ParsePaymentMethod(r.PaymentMethod)
	return appbilling.CreateOrderInput{
		CustomerID:    r.CustomerID,
		Lines:         lines,
		PaymentMethod: method,
		BillingType:   catalog.PaymentType(r.BillingType),
		BillingCycle:  catalog.RecurringMethod(r.BillingCycle),
	}
}

// =====================
// Order Response DTOs
// =====================

// OrderResponse is an order as returned by the API
type OrderResponse struct {
	ID            int64               `json:"id"`
	UID           string              `json:"uid"`
	CustomerID    int64               `json:"customer_id"`
	Products      []billing.OrderLine `json:"products"`
	PaymentMethod string              `json:"payment_method"`
	BillingType   string              `json:"billing_type"`
	BillingCycle  string              `json:"billing_cycle,omitempty"`
	Status        string              `json:"status"`
	Stage         string              `json:"billing_stage"`
	CreatedAt     time.Time           `json:"created_at"`
	LastRecycle   *time.Time          `json:"last_recycle,omitempty"`
	NextRecycle   *time.Time          `json:"next_recycle,omitempty"`
	InvoiceIDs    []int64             `json:"invoice_ids"`
}

// InvoiceResponse is an invoice as returned by the API
type InvoiceResponse struct {
	ID            int64                 `json:"id"`
	UID           string                `json:"uid"`
	CustomerID    int64                 `json:"customer_id"`
	OrderID       int64                 `json:"order_id"`
	PeriodStart   time.Time             `json:"period_start"`
	Items         []billing.InvoiceItem `json:"items"`
	Currency      string                `json:"currency"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Tax           decimal.Decimal       `json:"tax"`
	Amount        decimal.Decimal       `json:"amount"`
	PaymentMethod string                `json:"payment_method"`
	Status        string                `json:"status"`
	DueDate       time.Time             `json:"due_date"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
}

// TransactionResponse is a payment as returned by the API
type TransactionResponse struct {
	ID            int64           `json:"id"`
	UID           string          `json:"uid"`
	CustomerID    int64           `json:"customer_id"`
	InvoiceID     int64           `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Date          time.Time       `json:"date"`
}

// CohortResultResponse is the outcome of one billing cohort
type CohortResultResponse struct {
	Cohort  string           `json:"cohort"`
	Stage   string           `json:"billing_stage"`
	Order   *OrderResponse   `json:"order,omitempty"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// DroppedItemResponse is a cart line that was not ordered
type DroppedItemResponse struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// PlaceOrderResponse answers POST /v2/orders/place. PaymentURL is set for
// paypal and credit card carts, Message otherwise.
type PlaceOrderResponse struct {
	PaymentURL string                 `json:"payment_url,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Orders     []CohortResultResponse `json:"orders"`
	Dropped    []DroppedItemResponse  `json:"dropped"`
}

// CreateOrderResponse answers the admin POST /v2/orders
type CreateOrderResponse struct {
	Order   OrderResponse    `json:"order"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

func toOrderResponse(o *billing.Order) OrderResponse {
	ids := o.InvoiceIDs
	if ids == nil {
		ids = []int64{}
	}
	return OrderResponse{
		ID:            o.ID,
		UID:           o.UID,
		CustomerID:    o.CustomerID,
		Products:      o.Lines,
		PaymentMethod: string(o.PaymentMethod),
		BillingType:   string(o.BillingType),
		BillingCycle:  string(o.BillingCycle),
		Status:        string(o.Status),
		Stage:         string(o.Stage),
		CreatedAt:     o.CreatedAt,
		LastRecycle:   o.Dates.LastRecycle,
		NextRecycle:   o.Dates.NextRecycle,
		InvoiceIDs:    ids,
	}
}

func toOrderResponses(orders []billing.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		UID:           inv.UID,
		CustomerID:    inv.CustomerID,
		OrderID:       inv.OrderID,
		PeriodStart:   inv.PeriodStart,
		Items:         inv.Items,
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal(),
		Tax:           inv.Tax(),
		Amount:        inv.Amount,
		PaymentMethod: string(inv.PaymentMethod),
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
	}
}

func toInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, toInvoiceResponse(&invoices[i]))
	}
	return out
}

func toTransactionResponse(t *billing.Transaction) TransactionResponse {
	return TransactionResponse{
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

func toTransactionResponses(txs []billing.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	return out
}

func toPlaceOrderResponse(r *appbilling.PlaceOrderResult) PlaceOrderResponse {
	resp := PlaceOrderResponse{
		PaymentURL: r.PaymentURL,
		Message:    r.Message,
		Orders:     make([]CohortResultResponse, 0, len(r.Results)),
		Dropped:    make([]DroppedItemResponse, 0, len(r.Dropped)),
	}
	for _, res := range r.Results {
		item := CohortResultResponse{
			Cohort: res.Cohort.String(),
			Stage:  string(res.Stage),
		}
		if res.Order != nil {
			o := toOrderResponse(res.Order)
			item.Order = &o
		}
		if res.Invoice != nil {
			inv := toInvoiceResponse(res.Invoice)
			item.Invoice = &inv
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		resp.Orders = append(resp.Orders, item)
	}
	for _, d := range r.Dropped {
		resp.Dropped = append(resp.Dropped, DroppedItemResponse{ProductID: d.ProductID, Reason: string(d.Reason)})
	}
	return resp
}
