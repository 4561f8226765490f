package auth

import (
	"errors"
	"time"

	"github.com/cpg/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes customer tokens from admin tokens
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrWrongRole        = errors.New("token role not allowed")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	SubjectID  int64  `json:"id"`
	SubjectUID string `json:"uid,omitempty"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Role       Role   `json:"role"`
}

// TokenService signs and verifies bearer tokens with one process-wide secret
type TokenService struct {
	secret             []byte
	customerExpiration time.Duration
	adminExpiration    time.Duration
	issuer             string
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:             []byte(cfg.Secret),
		customerExpiration: cfg.CustomerTokenExpiration,
		adminExpiration:    cfg.AdminTokenExpiration,
		issuer:             cfg.Issuer,
	}
}

// Sign issues a token for claims that expires after ttl
func (s *TokenService) Sign(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   claims.Username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	if claims.Subject == "" {
		claims.Subject = claims.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// VerifyRole verifies the token and requires the given role
func (s *TokenService) VerifyRole(tokenString string, role Role) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrWrongRole
	}
	return claims, nil
}

// IssueCustomerToken issues a customer token carrying id and email
func (s *TokenService) IssueCustomerToken(id int64, email string) (string, time.Time, error) {
	return s.Sign(Claims{SubjectID: id, Email: email, Role: RoleCustomer}, s.customerExpiration)
}

// IssueAdminToken issues an admin token
func (s *TokenService) IssueAdminToken(id int64, uid, username string) (string, time.Time, error) {
	return s.Sign(Claims{SubjectID: id, SubjectUID: uid, Username: username, Role: RoleAdmin}, s.adminExpiration)
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}
