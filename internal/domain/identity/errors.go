package identity

import "github.com/cpg/backend/internal/domain/shared"

// Identity errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password.")
	ErrCustomerNotFound   = shared.NewDomainError("CUSTOMER_NOT_FOUND", "Unable to find customer")
)
