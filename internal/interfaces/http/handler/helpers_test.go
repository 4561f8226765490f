package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// asCustomer stands in for CustomerAuth
func asCustomer(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CustomerIDKey, id)
		c.Next()
	}
}

// asAdmin stands in for AdminAuth
func asAdmin(username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AdminKey, middleware.AdminPrincipal{ID: 1, Username: username})
		c.Next()
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and, when data is non-nil, its payload
func decode(t *testing.T, w *httptest.ResponseRecorder, data any) dto.Response {
	t.Helper()
	var raw struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}
