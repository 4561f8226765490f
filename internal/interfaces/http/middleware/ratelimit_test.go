package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")
	assert.Equal(t, 0, rl.Remaining("a"))
	assert.Equal(t, time.Minute, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "new window")
	assert.Equal(t, 1, rl.Remaining("a"))
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(3, time.Minute)))
	router.POST("/v2/customers/authenticate", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v2/customers/authenticate", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "3", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Remaining"))

	send()
	send()
	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "ERR_RATE_LIMITED")
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
}
