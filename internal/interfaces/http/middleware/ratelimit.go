package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed window limiter keyed by client. It guards the
// authenticate endpoints against password guessing.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	remaining int
	start     time.Time
}

// NewRateLimiter allows limit requests per key in every window
func NewRateLimiter(limit int, w time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow consumes one request for key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evict(now)

	c, ok := rl.clients[key]
	if !ok || now.Sub(c.start) >= rl.window {
		rl.clients[key] = &window{remaining: rl.limit - 1, start: now}
		return rl.limit > 0
	}
	if c.remaining > 0 {
		c.remaining--
		return true
	}
	return false
}

// Remaining returns the requests left for key in the current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok || rl.now().Sub(c.start) >= rl.window {
		return rl.limit
	}
	return c.remaining
}

// RetryAfter returns how long key has to wait for a new window
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		return 0
	}
	if d := rl.window - rl.now().Sub(c.start); d > 0 {
		return d
	}
	return 0
}

// evict drops expired windows. Called with mu held.
func (rl *RateLimiter) evict(now time.Time) {
	if len(rl.clients) < 1024 {
		return
	}
	for key, c := range rl.clients {
		if now.Sub(c.start) >= rl.window {
			delete(rl.clients, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			retry := limiter.RetryAfter(key)
			c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many authentication attempts. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
