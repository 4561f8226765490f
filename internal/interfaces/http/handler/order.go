package handler

import (
	"context"

	appbilling "github.com/cpg/backend/internal/application/billing"
	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/infrastructure/logger"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderPlacer places customer carts
type OrderPlacer interface {
	Place(ctx context.Context, input appbilling.PlaceOrderInput) (*appbilling.PlaceOrderResult, error)
}

// OrderManager manages existing orders
type OrderManager interface {
	CreateOrder(ctx context.Context, input appbilling.CreateOrderInput) (*billing.Order, *billing.Invoice, error)
	ListOrders(ctx context.Context) ([]billing.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]billing.Order, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error)
	CancelCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error)
}

// OrderHandler serves order placement and order management
type OrderHandler struct {
	BaseHandler
	placer OrderPlacer
	orders OrderManager
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(placer OrderPlacer, orders OrderManager) *OrderHandler {
	return &OrderHandler{placer: placer, orders: orders}
}

// Place godoc
// @Summary      Place a cart, one order per billing cohort
// @Tags         orders
// @Param        request body PlaceOrderRequest true "Cart"
// @Success      201 {object} dto.Response{data=PlaceOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/orders/place [post]
func (h *OrderHandler) Place(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.placer.Place(c.Request.Context(), req.toInput(customerID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(result.Invoiced()) == 0 {
		logger.GetGinLogger(c).Error("No invoice generated for cart", zap.Int("orders", len(result.Results)))
		h.HandleError(c, billing.ErrInvoiceGenerationFailed)
		return
	}
	h.Created(c, toPlaceOrderResponse(result))
}

// Create godoc
// @Summary      Create a single order for a customer (admin)
// @Tags         orders
// @Param        request body CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=CreateOrderResponse}
// @Router       /v2/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, inv, err := h.orders.CreateOrder(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := CreateOrderResponse{Order: toOrderResponse(order)}
	if inv != nil {
		ir := toInvoiceResponse(inv)
		resp.Invoice = &ir
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List every order (admin)
// @Tags         orders
// @Success      200 {object} dto.Response{data=[]OrderResponse}
// @Router       /v2/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toOrderResponses(orders), len(orders))
}

// ListMine godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Success      200 {object} dto.Response{data=[]OrderResponse}
// @Router       /v2/customers/my/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toOrderResponses(orders), len(orders))
}

// GetMine godoc
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Param        id path int true "Order ID"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/customers/my/orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetCustomerOrder(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// CancelMine godoc
// @Summary      Cancel one of the caller's orders
// @Tags         orders
// @Param        id path int true "Order ID"
// @Success      200 {object} dto.Response{data=OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/customers/my/orders/{id}/cancel [post]
func (h *OrderHandler) CancelMine(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.CancelCustomerOrder(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}
