package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/cpg/backend/internal/infrastructure/cache"
	"github.com/cpg/backend/internal/infrastructure/logger"
	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KindRehydrator reloads one cache kind
type KindRehydrator interface {
	Rehydrate(ctx context.Context, kind cache.Kind) error
}

// RehydrationPublisher tells other instances to reload a kind
type RehydrationPublisher interface {
	Publish(ctx context.Context, kind cache.Kind) error
}

// CacheCounter reports cached entries per kind
type CacheCounter interface {
	Len(kind cache.Kind) int
}

// RehydrateResponse answers POST /v2/cache/:kind/rehydrate
type RehydrateResponse struct {
	Kind        string `json:"kind"`
	Entries     int    `json:"entries"`
	Broadcasted bool   `json:"broadcasted"`
}

// CacheHandler serves the admin cache endpoints
type CacheHandler struct {
	BaseHandler
	rehydrator KindRehydrator
	publisher  RehydrationPublisher
	counter    CacheCounter
}

// NewCacheHandler creates a new cache handler. publisher may be nil when
// Redis is disabled, rehydration then stays local.
func NewCacheHandler(rehydrator KindRehydrator, publisher RehydrationPublisher, counter CacheCounter) *CacheHandler {
	return &CacheHandler{
		rehydrator: rehydrator,
		publisher:  publisher,
		counter:    counter,
	}
}

// Rehydrate godoc
// @Summary      Reload one cache kind here and on every instance (admin)
// @Tags         cache
// @Param        kind path string true "Cache kind"
// @Success      200 {object} dto.Response{data=RehydrateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /v2/cache/{kind}/rehydrate [post]
func (h *CacheHandler) Rehydrate(c *gin.Context) {
	kind, err := cache.ParseKind(c.Param("kind"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.rehydrator.Rehydrate(ctx, kind); err != nil {
		if errors.Is(err, cache.ErrNoSource) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
			return
		}
		h.HandleError(c, err)
		return
	}

	resp := RehydrateResponse{Kind: string(kind), Entries: h.counter.Len(kind)}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, kind); err != nil {
			logger.GetGinLogger(c).Warn("Rehydration broadcast failed", zap.String("kind", string(kind)), zap.Error(err))
		} else {
			resp.Broadcasted = true
		}
	}
	h.Success(c, resp)
}

// Stats godoc
// @Summary      Cached entries per kind (admin)
// @Tags         cache
// @Success      200 {object} dto.Response{data=map[string]int}
// @Router       /v2/cache [get]
func (h *CacheHandler) Stats(c *gin.Context) {
	h.Success(c, cacheStats(h.counter))
}

func cacheStats(counter CacheCounter) map[string]int {
	stats := make(map[string]int, len(cache.AllKinds))
	for _, kind := range cache.AllKinds {
		stats[string(kind)] = counter.Len(kind)
	}
	return stats
}
