package billing

import "github.com/cpg/backend/internal/domain/shared"

// Billing domain errors
var (
	ErrNoValidProducts         = shared.NewDomainError("NO_VALID_PRODUCTS", "No valid products ids")
	ErrInvoiceGenerationFailed = shared.NewDomainError("INVOICE_GENERATION_FAILED", "Unable to create invoice")
	ErrCustomerNotFound        = shared.NewDomainError("CUSTOMER_NOT_FOUND", "Unable to find customer")
	ErrInvalidPaymentMethod    = shared.NewDomainError("INVALID_PAYMENT_METHOD", "payment_method invalid")
	ErrInvalidQuantity         = shared.NewDomainError("INVALID_QUANTITY", "quantity invalid")
	ErrInvalidProductID        = shared.NewDomainError("INVALID_PRODUCT_ID", "product_id invalid")
	ErrOrderNotFound           = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrOrderAlreadyCancelled   = shared.NewDomainError("ORDER_ALREADY_CANCELLED", "Order is already cancelled")
	ErrInvoiceNotFound         = shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
	ErrInvoiceAlreadyPaid      = shared.NewDomainError("INVOICE_ALREADY_PAID", "Invoice is already paid")
)
