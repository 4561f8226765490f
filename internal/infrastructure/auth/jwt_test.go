package auth

import (
	"testing"
	"time"

	"github.com/cpg/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(config.JWTConfig{
		Secret:                  "test-secret-key-at-least-32-chars",
		CustomerTokenExpiration: 24 * time.Hour,
		AdminTokenExpiration:    time.Hour,
		Issuer:                  "test-issuer",
	})
}

func TestTokenService_CustomerToken(t *testing.T) {
	svc := newTestTokenService()

	token, expiresAt, err := svc.IssueCustomerToken(42, "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, expiresAt.Unix(), claims.GetExpiresAtTime().Unix())
}

func TestTokenService_AdminToken(t *testing.T) {
	svc := newTestTokenService()

	token, _, err := svc.IssueAdminToken(1, "adm_1", "root")
	require.NoError(t, err)

	claims, err := svc.VerifyRole(token, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "root", claims.Username)
	assert.Equal(t, "adm_1", claims.SubjectUID)

	_, err = svc.VerifyRole(token, RoleCustomer)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := newTestTokenService()

	token, _, err := svc.Sign(Claims{SubjectID: 1, Role: RoleCustomer}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	other := NewTokenService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars"})
	token, _, err := other.IssueCustomerToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	_, err := newTestTokenService().Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             RoleAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
