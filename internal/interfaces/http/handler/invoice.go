package handler

import (
	"context"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
)

// InvoiceManager reads invoices and records payments
type InvoiceManager interface {
	ListInvoices(ctx context.Context) ([]billing.Invoice, error)
	ListTransactions(ctx context.Context) ([]billing.Transaction, error)
	MarkPaid(ctx context.Context, invoiceUID string) (*billing.Transaction, error)
}

// InvoiceHandler serves the admin invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceManager
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices InvoiceManager) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// List godoc
// @Summary      List every invoice (admin)
// @Tags         invoices
// @Success      200 {object} dto.Response{data=[]InvoiceResponse}
// @Router       /v2/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.ListInvoices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toInvoiceResponses(invoices), len(invoices))
}

// MarkPaid godoc
// @Summary      Record the full payment of an invoice (admin)
// @Tags         invoices
// @Param        uid path string true "Invoice UID"
// @Success      201 {object} dto.Response{data=TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/invoices/{uid}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	tx, err := h.invoices.MarkPaid(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTransactionResponse(tx))
}

// ListTransactions godoc
// @Summary      List every transaction (admin)
// @Tags         invoices
// @Success      200 {object} dto.Response{data=[]TransactionResponse}
// @Router       /v2/transactions [get]
func (h *InvoiceHandler) ListTransactions(c *gin.Context) {
	txs, err := h.invoices.ListTransactions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toTransactionResponses(txs), len(txs))
}
