package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDGenerator hands out numeric ids
type IDGenerator interface {
	NextID() int64
}

// PasswordResetService issues and redeems password reset tokens
type PasswordResetService struct {
	customers identity.CustomerRepository
	resets    identity.PasswordResetRepository
	hasher    identity.PasswordHasher
	ids       IDGenerator
	notifier  *notification.Notifier
	baseURL   string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewPasswordResetService creates the service. baseURL is the public
// address the reset link points to.
func NewPasswordResetService(
	customers identity.CustomerRepository,
	resets identity.PasswordResetRepository,
	hasher identity.PasswordHasher,
	ids IDGenerator,
	notifier *notification.Notifier,
	baseURL string,
	ttl time.Duration,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		customers: customers,
		resets:    resets,
		hasher:    hasher,
		ids:       ids,
		notifier:  notifier,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestReset stores a new token for the customer and mails the link
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrCustomerNotFound
		}
		return err
	}

	token := newResetToken()
	reset := identity.NewPasswordReset(s.ids.NextID(), customer.Email(), token, s.ttl, s.now())
	if err := s.resets.Create(ctx, reset); err != nil {
		return err
	}

	link := s.baseURL + "/v2/customers/my/new-password?token=" + url.QueryEscape(token)
	s.notifier.Notify(ctx, notification.ResetPassword(customer.Email(), link))
	return nil
}

// SetNewPassword redeems token and replaces the customer's password
func (s *PasswordResetService) SetNewPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return identity.ErrResetTokenNotFound
	}
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}

	reset, err := s.resets.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrResetTokenNotFound
		}
		return err
	}
	if err := reset.Redeem(s.now()); err != nil {
		return err
	}

	customer, err := s.customers.FindByEmail(ctx, reset.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrCustomerNotFound
		}
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	customer.SetPasswordHash(hash)
	customer.ResetLoginAttempts()
	if err := s.customers.Update(ctx, customer); err != nil {
		return err
	}
	if err := s.resets.Update(ctx, reset); err != nil {
		return err
	}

	s.logger.Info("Password reset", zap.Int64("reset_id", reset.ID))
	return nil
}

// newResetToken returns the hex sha256 of a random uuid
func newResetToken() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
