package handler

import (
	"context"
	"net/http"
	"time"

	appidentity "github.com/cpg/backend/internal/application/identity"
	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CustomerLoginService logs customers in
type CustomerLoginService interface {
	Login(ctx context.Context, email, password string) (*appidentity.TokenResult, error)
}

// AdminLoginService exchanges admin credentials for a token
type AdminLoginService interface {
	Login(ctx context.Context, header string) (*appidentity.TokenResult, appidentity.Decision, error)
}

// PasswordResetter runs the password reset flow
type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) error
	SetNewPassword(ctx context.Context, token, password string) error
}

// CustomerLoginRequest is the body of POST /v2/customers/authenticate
type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest is the body of POST /v2/customers/my/reset-password
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NewPasswordRequest is the body of POST /v2/customers/my/new-password
type NewPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(r *appidentity.TokenResult) TokenResponse {
	return TokenResponse{Token: r.Token, TokenType: "Bearer", ExpiresAt: r.ExpiresAt}
}

// AuthHandler serves the customer and admin authentication endpoints
type AuthHandler struct {
	BaseHandler
	customers CustomerLoginService
	admins    AdminLoginService
	resets    PasswordResetter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(customers CustomerLoginService, admins AdminLoginService, resets PasswordResetter) *AuthHandler {
	return &AuthHandler{
		customers: customers,
		admins:    admins,
		resets:    resets,
	}
}

// CustomerAuthenticate godoc
// @Summary      Customer login
// @Tags         auth
// @Param        request body CustomerLoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=TokenResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/customers/authenticate [post]
func (h *AuthHandler) CustomerAuthenticate(c *gin.Context) {
	var req CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.customers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTokenResponse(result))
}

// AdminAuthenticate godoc
// @Summary      Admin login with basic credentials
// @Tags         auth
// @Success      200 {object} dto.Response{data=TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/admins/authenticate [post]
func (h *AuthHandler) AdminAuthenticate(c *gin.Context) {
	result, decision, err := h.admins.Login(c.Request.Context(), c.GetHeader(middleware.AuthorizationHeader))
	if err != nil {
		switch {
		case decision.Outcome == appidentity.Malformed:
			h.Error(c, http.StatusBadRequest, dto.ErrCodeMalformedCredential, err.Error())
		case decision.Outcome == appidentity.Unauthorized:
			h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Unauthorized admin")
		default:
			h.HandleError(c, err)
		}
		return
	}
	h.Success(c, toTokenResponse(result))
}

// RequestPasswordReset godoc
// @Summary      Send a password reset link
// @Tags         auth
// @Param        request body ResetPasswordRequest true "Customer email"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Router       /v2/customers/my/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Reset password email sent"})
}

// SetNewPassword godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Param        token query string true "Reset token"
// @Param        request body NewPasswordRequest true "New password"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Router       /v2/customers/my/new-password [post]
func (h *AuthHandler) SetNewPassword(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.BadRequest(c, "Missing token")
		return
	}

	var req NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.resets.SetNewPassword(c.Request.Context(), token, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Password updated"})
}
