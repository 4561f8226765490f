package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationInput struct {
	Email         string `json:"email" binding:"required,email"`
	PaymentMethod string `json:"payment_method" binding:"required,payment_method"`
	Quantity      int    `json:"quantity" binding:"gte=0"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req validationInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	w := postJSON(validationRouter(), "/test", `{"email":"invalid","payment_method":"bitcoin","quantity":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 3)

	byField := map[string]dto.ValidationDetail{}
	for _, d := range resp.Error.Details {
		byField[d.Field] = d
	}
	assert.Equal(t, "Invalid email format", byField["email"].Message)
	assert.Equal(t, "Unsupported payment method", byField["payment_method"].Message)
	assert.Equal(t, "gte", byField["quantity"].Code)
}

func TestHandleValidationError_AcceptsKnownPaymentMethods(t *testing.T) {
	router := validationRouter()
	for _, method := range []string{"manual", "bank", "paypal", "credit_card", "swish", "PayPal"} {
		t.Run(method, func(t *testing.T) {
			w := postJSON(router, "/test", `{"email":"a@example.com","payment_method":"`+method+`"}`)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestHandleValidationError_InvalidJSON(t *testing.T) {
	w := postJSON(validationRouter(), "/test", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
}
