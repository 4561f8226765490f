package identity

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer issues bearer tokens
type TokenIssuer interface {
	IssueCustomerToken(id int64, email string) (string, time.Time, error)
	IssueAdminToken(id int64, uid, username string) (string, time.Time, error)
}

// TokenResult is a freshly issued token
type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerAuthService logs customers in with email and password
type CustomerAuthService struct {
	customers        identity.CustomerRepository
	hasher           identity.PasswordHasher
	tokens           TokenIssuer
	notifier         *notification.Notifier
	maxLoginAttempts int
	logger           *zap.Logger
}

// NewCustomerAuthService creates the service. After maxLoginAttempts
// consecutive failures the customer is warned by mail and the count starts over.
func NewCustomerAuthService(
	customers identity.CustomerRepository,
	hasher identity.PasswordHasher,
	tokens TokenIssuer,
	notifier *notification.Notifier,
	maxLoginAttempts int,
	logger *zap.Logger,
) *CustomerAuthService {
	return &CustomerAuthService{
		customers:        customers,
		hasher:           hasher,
		tokens:           tokens,
		notifier:         notifier,
		maxLoginAttempts: maxLoginAttempts,
		logger:           logger,
	}
}

// Login checks the credentials and issues a customer token. Unknown email
// and wrong password give the same error.
func (s *CustomerAuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown customer")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(password, customer.PasswordHash) {
		warn := customer.RecordFailedLogin(s.maxLoginAttempts)
		if err := s.customers.Update(ctx, customer); err != nil {
			s.logger.Error("Failed to update customer after login failure", zap.Error(err))
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("customer_id", strconv.FormatInt(customer.ID, 10)),
			zap.Int("failed_attempts", customer.LoginAttempts),
		)
		if warn {
			s.notifier.Notify(ctx, notification.LoginAttempts(customer.Email(), s.maxLoginAttempts))
		}
		return nil, identity.ErrInvalidCredentials
	}

	if customer.LoginAttempts > 0 {
		customer.ResetLoginAttempts()
		if err := s.customers.Update(ctx, customer); err != nil {
			s.logger.Error("Failed to reset login attempts", zap.Error(err))
		}
	}

	token, expiresAt, err := s.tokens.IssueCustomerToken(customer.ID, customer.Email())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Customer logged in", zap.String("customer_id", strconv.FormatInt(customer.ID, 10)))
	return &TokenResult{Token: token, ExpiresAt: expiresAt}, nil
}

// AdminAuthService exchanges admin basic credentials for a bearer token
type AdminAuthService struct {
	resolver *CredentialResolver
	tokens   TokenIssuer
}

// NewAdminAuthService creates the service
func NewAdminAuthService(resolver *CredentialResolver, tokens TokenIssuer) *AdminAuthService {
	return &AdminAuthService{resolver: resolver, tokens: tokens}
}

// ErrBasicRequired is returned when an admin logs in with anything but
// basic credentials
var ErrBasicRequired = errors.New("basic credentials required")

// Login resolves header and issues an admin token. The decision is
// returned so callers can tell malformed from unauthorized.
func (s *AdminAuthService) Login(ctx context.Context, header string) (*TokenResult, Decision, error) {
	d := s.resolver.Authenticate(ctx, header, ModeEnforcing)
	if !d.Authorized() {
		return nil, d, d.Err
	}
	if d.Admin == nil {
		d.Outcome = Malformed
		return nil, d, ErrBasicRequired
	}

	token, expiresAt, err := s.tokens.IssueAdminToken(d.Admin.ID, d.Admin.UID, d.Admin.Username)
	if err != nil {
		return nil, d, err
	}
	return &TokenResult{Token: token, ExpiresAt: expiresAt}, d, nil
}
