package identity

import (
	"context"
	"time"

	"github.com/cpg/backend/internal/domain/shared"
)

// Password reset errors
var (
	ErrResetTokenNotFound = shared.NewDomainError("RESET_TOKEN_NOT_FOUND", "Invalid token")
	ErrResetTokenUsed     = shared.NewDomainError("RESET_TOKEN_USED", "Token already used")
	ErrResetTokenExpired  = shared.NewDomainError("RESET_TOKEN_EXPIRED", "Token expired")
)

// PasswordReset is a one-shot token allowing a customer to set a new password
type PasswordReset struct {
	ID        int64
	Email     string
	Token     string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewPasswordReset creates an unused reset record
func NewPasswordReset(id int64, email, token string, ttl time.Duration, now time.Time) *PasswordReset {
	return &PasswordReset{
		ID:        id,
		Email:     email,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Redeem marks the token as used
func (r *PasswordReset) Redeem(now time.Time) error {
	if r.Used {
		return ErrResetTokenUsed
	}
	if now.After(r.ExpiresAt) {
		return ErrResetTokenExpired
	}
	r.Used = true
	return nil
}

// PasswordResetRepository persists reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *PasswordReset) error
	FindByToken(ctx context.Context, token string) (*PasswordReset, error)
	Update(ctx context.Context, reset *PasswordReset) error
}
