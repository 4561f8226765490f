// Package identity authenticates admins and customers.
package identity

import (
	"context"
	"errors"

	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/infrastructure/auth"
	"github.com/cpg/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Outcome is the terminal state of an authorization attempt
type Outcome int

const (
	Unauthorized Outcome = iota
	Authorized
	Malformed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case Malformed:
		return "malformed"
	default:
		return "unauthorized"
	}
}

// Mode selects how a caller consumes the decision. Enforcing callers
// reject the request; probing callers only want a yes or no and leave no
// audit record.
type Mode int

const (
	ModeEnforcing Mode = iota
	ModeProbing
)

// Decision is the result of Authenticate
type Decision struct {
	Outcome Outcome
	Scheme  auth.Scheme
	// Admin is set for an authorized basic presentation
	Admin *identity.Admin
	// Claims is set for an authorized bearer presentation
	Claims *auth.Claims
	Err    error
}

// Authorized reports whether access is granted
func (d Decision) Authorized() bool {
	return d.Outcome == Authorized
}

// AdminDirectory looks admins up by username
type AdminDirectory interface {
	AdminByUsername(username string) (identity.Admin, bool)
}

// TokenVerifier verifies a bearer token carrying the given role
type TokenVerifier interface {
	VerifyRole(token string, role auth.Role) (*auth.Claims, error)
}

// ErrBadCredentials is the error of an unauthorized basic presentation
var ErrBadCredentials = errors.New("invalid username or password")

// CredentialResolver decides admin authorization headers. Basic
// credentials are checked against the cached admins, bearer tokens against
// the token verifier.
type CredentialResolver struct {
	admins AdminDirectory
	hasher identity.PasswordHasher
	tokens TokenVerifier
	logger *zap.Logger
}

// NewCredentialResolver creates a resolver
func NewCredentialResolver(admins AdminDirectory, hasher identity.PasswordHasher, tokens TokenVerifier, logger *zap.Logger) *CredentialResolver {
	return &CredentialResolver{
		admins: admins,
		hasher: hasher,
		tokens: tokens,
		logger: logger.Named("credentials"),
	}
}

// Authenticate resolves an Authorization header value
func (r *CredentialResolver) Authenticate(ctx context.Context, header string, mode Mode) Decision {
	p, err := auth.ParseAuthorizationHeader(header)
	if err != nil {
		return Decision{Outcome: Malformed, Err: err}
	}

	switch p.Scheme {
	case auth.SchemeBasic:
		return r.basic(ctx, p.Payload, mode)
	default:
		return r.bearer(ctx, p.Payload, mode)
	}
}

func (r *CredentialResolver) basic(ctx context.Context, payload string, mode Mode) Decision {
	creds := auth.DecodeBasic(payload)
	if mode == ModeEnforcing {
		r.logger.Warn("Admin authorization attempt",
			zap.String("request_id", logger.GetRequestID(ctx)),
			zap.String("scheme", string(auth.SchemeBasic)),
			zap.String("username", creds.Login),
			zap.Bool("legacy_encoding", auth.IsLegacyEncoded(payload)),
		)
	}

	d := Decision{Outcome: Unauthorized, Scheme: auth.SchemeBasic, Err: ErrBadCredentials}
	admin, ok := r.admins.AdminByUsername(creds.Login)
	if !ok || !r.hasher.Compare(creds.Password, admin.PasswordHash) {
		return d
	}
	return Decision{Outcome: Authorized, Scheme: auth.SchemeBasic, Admin: &admin}
}

func (r *CredentialResolver) bearer(ctx context.Context, token string, mode Mode) Decision {
	if mode == ModeEnforcing {
		r.logger.Warn("Admin authorization attempt",
			zap.String("request_id", logger.GetRequestID(ctx)),
			zap.String("scheme", string(auth.SchemeBearer)),
			logger.Fingerprint("token_fingerprint", token),
		)
	}

	claims, err := r.tokens.VerifyRole(token, auth.RoleAdmin)
	if err != nil {
		return Decision{Outcome: Unauthorized, Scheme: auth.SchemeBearer, Err: err}
	}
	return Decision{Outcome: Authorized, Scheme: auth.SchemeBearer, Claims: claims}
}
