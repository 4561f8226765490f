package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger checks a backing dependency
type Pinger interface {
	Ping() error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	version   string
	db        Pinger
	counter   CacheCounter
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, db Pinger, counter CacheCounter) *SystemHandler {
	return &SystemHandler{
		version:   version,
		db:        db,
		counter:   counter,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response. The runtime
// details are only filled in for an authenticated admin.
type HealthResponse struct {
	Status    string         `json:"status" example:"ok"`
	Database  string         `json:"database" example:"ok"`
	Version   string         `json:"version,omitempty" example:"1.0.0"`
	GoVersion string         `json:"go_version,omitempty" example:"go1.25.5"`
	Uptime    string         `json:"uptime,omitempty" example:"1h30m45s"`
	Cache     map[string]int `json:"cache,omitempty"`
}

// Health godoc
// @Summary      Service health
// @Description  Admin credentials, when supplied and valid, add runtime and cache details
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /v2/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	if _, ok := middleware.GetAdmin(c); ok {
		resp.Version = h.version
		resp.GoVersion = runtime.Version()
		resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
		if h.counter != nil {
			resp.Cache = cacheStats(h.counter)
		}
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /v2/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}))
}
