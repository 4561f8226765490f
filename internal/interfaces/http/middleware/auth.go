package middleware

import (
	"context"
	"errors"
	"net/http"

	appidentity "github.com/cpg/backend/internal/application/identity"
	"github.com/cpg/backend/internal/infrastructure/auth"
	"github.com/cpg/backend/internal/infrastructure/logger"
	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the auth middleware
const (
	AdminKey         = "admin"
	CustomerIDKey    = "customer_id"
	CustomerEmailKey = "customer_email"
)

// AuthorizationHeader is the header carrying credentials
const AuthorizationHeader = "Authorization"

// AdminAuthenticator resolves an Authorization header
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, header string, mode appidentity.Mode) appidentity.Decision
}

// CustomerTokenVerifier verifies customer bearer tokens
type CustomerTokenVerifier interface {
	VerifyRole(token string, role auth.Role) (*auth.Claims, error)
}

// AdminPrincipal is the admin behind an authorized request
type AdminPrincipal struct {
	ID       int64
	UID      string
	Username string
	Scheme   auth.Scheme
}

func principalFrom(d appidentity.Decision) AdminPrincipal {
	p := AdminPrincipal{Scheme: d.Scheme}
	switch {
	case d.Admin != nil:
		p.ID, p.UID, p.Username = d.Admin.ID, d.Admin.UID, d.Admin.Username
	case d.Claims != nil:
		p.ID, p.UID, p.Username = d.Claims.SubjectID, d.Claims.SubjectUID, d.Claims.Username
	}
	return p
}

// AdminAuth rejects requests without valid admin credentials. A header
// that cannot be parsed answers 400, rejected credentials answer 403.
func AdminAuth(resolver AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := resolver.Authenticate(c.Request.Context(), c.GetHeader(AuthorizationHeader), appidentity.ModeEnforcing)
		switch d.Outcome {
		case appidentity.Authorized:
			c.Set(AdminKey, principalFrom(d))
			c.Next()
		case appidentity.Malformed:
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeMalformedCredential, errMessage(d.Err, "Malformed authorization"))
		default:
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Unauthorized admin")
		}
	}
}

// AdminProbe marks the request as an admin request when valid admin
// credentials are present. It never rejects and leaves no audit record.
func AdminProbe(resolver AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(AuthorizationHeader); header != "" {
			d := resolver.Authenticate(c.Request.Context(), header, appidentity.ModeProbing)
			if d.Authorized() {
				c.Set(AdminKey, principalFrom(d))
			}
		}
		c.Next()
	}
}

// CustomerAuth requires a valid customer bearer token and stores the
// customer on the gin and request contexts.
func CustomerAuth(tokens CustomerTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := auth.ParseAuthorizationHeader(c.GetHeader(AuthorizationHeader))
		if err != nil || p.Scheme != auth.SchemeBearer {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Bearer token required")
			return
		}

		claims, err := tokens.VerifyRole(p.Payload, auth.RoleCustomer)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			logger.GetGinLogger(c).Warn("Customer token rejected",
				logger.Fingerprint("token_fingerprint", p.Payload),
				zap.Error(err),
			)
			abortWithError(c, http.StatusUnauthorized, code, "Unauthorized")
			return
		}

		c.Set(CustomerIDKey, claims.SubjectID)
		c.Set(CustomerEmailKey, claims.Email)
		ctx, reqLogger := logger.WithCustomerID(c.Request.Context(), logger.GetGinLogger(c), claims.SubjectID)
		c.Set(logger.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetAdmin returns the admin set by AdminAuth or AdminProbe
func GetAdmin(c *gin.Context) (AdminPrincipal, bool) {
	v, ok := c.Get(AdminKey)
	if !ok {
		return AdminPrincipal{}, false
	}
	p, ok := v.(AdminPrincipal)
	return p, ok
}

// GetCustomerID returns the customer set by CustomerAuth
func GetCustomerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CustomerIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetCustomerEmail returns the customer email set by CustomerAuth
func GetCustomerEmail(c *gin.Context) string {
	return c.GetString(CustomerEmailKey)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

func errMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}
