package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the credentials do not grant access
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeMalformedCredential is used when the Authorization header cannot be parsed
	ErrCodeMalformedCredential = "ERR_MALFORMED_CREDENTIAL"
	ErrCodeInvalidCredentials  = "ERR_INVALID_CREDENTIALS"
	ErrCodeTokenExpired        = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "ERR_TOKEN_INVALID"
	ErrCodeResetTokenNotFound  = "ERR_RESET_TOKEN_NOT_FOUND"
	ErrCodeResetTokenUsed      = "ERR_RESET_TOKEN_USED"
	ErrCodeResetTokenExpired   = "ERR_RESET_TOKEN_EXPIRED"
	ErrCodeWeakPassword        = "ERR_WEAK_PASSWORD"
)

// Resource error codes
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeCustomerNotFound = "ERR_CUSTOMER_NOT_FOUND"
	ErrCodeOrderNotFound    = "ERR_ORDER_NOT_FOUND"
	ErrCodeInvoiceNotFound  = "ERR_INVOICE_NOT_FOUND"
)

// Billing error codes
const (
	ErrCodeInvalidState            = "ERR_INVALID_STATE"
	ErrCodeNoValidProducts         = "ERR_NO_VALID_PRODUCTS"
	ErrCodeInvalidQuantity         = "ERR_INVALID_QUANTITY"
	ErrCodeInvalidProductID        = "ERR_INVALID_PRODUCT_ID"
	ErrCodeInvalidPaymentMethod    = "ERR_INVALID_PAYMENT_METHOD"
	ErrCodeInvoiceGenerationFailed = "ERR_INVOICE_GENERATION_FAILED"
	ErrCodeOrderAlreadyCancelled   = "ERR_ORDER_ALREADY_CANCELLED"
	ErrCodeInvoiceAlreadyPaid      = "ERR_INVOICE_ALREADY_PAID"
	ErrCodeInvoiceCancelled        = "ERR_INVOICE_CANCELLED"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeMalformedCredential: http.StatusBadRequest,
	ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeResetTokenNotFound:  http.StatusBadRequest,
	ErrCodeResetTokenUsed:      http.StatusBadRequest,
	ErrCodeResetTokenExpired:   http.StatusBadRequest,
	ErrCodeWeakPassword:        http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeCustomerNotFound: http.StatusNotFound,
	ErrCodeOrderNotFound:    http.StatusNotFound,
	ErrCodeInvoiceNotFound:  http.StatusNotFound,

	// Billing errors
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeNoValidProducts:         http.StatusBadRequest,
	ErrCodeInvalidQuantity:         http.StatusBadRequest,
	ErrCodeInvalidProductID:        http.StatusBadRequest,
	ErrCodeInvalidPaymentMethod:    http.StatusBadRequest,
	ErrCodeInvoiceGenerationFailed: http.StatusInternalServerError,
	ErrCodeOrderAlreadyCancelled:   http.StatusConflict,
	ErrCodeInvoiceAlreadyPaid:      http.StatusConflict,
	ErrCodeInvoiceCancelled:        http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"MALFORMED_CREDENTIAL":      ErrCodeMalformedCredential,
	"INVALID_CREDENTIALS":       ErrCodeInvalidCredentials,
	"RESET_TOKEN_NOT_FOUND":     ErrCodeResetTokenNotFound,
	"RESET_TOKEN_USED":          ErrCodeResetTokenUsed,
	"RESET_TOKEN_EXPIRED":       ErrCodeResetTokenExpired,
	"WEAK_PASSWORD":             ErrCodeWeakPassword,
	"INVALID_EMAIL":             ErrCodeInvalidInput,
	"INVALID_USERNAME":          ErrCodeInvalidInput,
	"CUSTOMER_NOT_FOUND":        ErrCodeCustomerNotFound,
	"ORDER_NOT_FOUND":           ErrCodeOrderNotFound,
	"INVOICE_NOT_FOUND":         ErrCodeInvoiceNotFound,
	"NO_VALID_PRODUCTS":         ErrCodeNoValidProducts,
	"INVALID_QUANTITY":          ErrCodeInvalidQuantity,
	"INVALID_PRODUCT_ID":        ErrCodeInvalidProductID,
	"INVALID_PAYMENT_METHOD":    ErrCodeInvalidPaymentMethod,
	"INVOICE_GENERATION_FAILED": ErrCodeInvoiceGenerationFailed,
	"ORDER_ALREADY_CANCELLED":   ErrCodeOrderAlreadyCancelled,
	"INVOICE_ALREADY_PAID":      ErrCodeInvoiceAlreadyPaid,
	"INVOICE_CANCELLED":         ErrCodeInvoiceCancelled,
	"EMPTY_INVOICE":             ErrCodeInvoiceGenerationFailed,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
