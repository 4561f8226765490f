package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cpg/backend/internal/infrastructure/cache"
	"github.com/cpg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRehydrator struct {
	kinds []cache.Kind
	err   error
}

func (f *fakeRehydrator) Rehydrate(_ context.Context, kind cache.Kind) error {
	f.kinds = append(f.kinds, kind)
	return f.err
}

type fakePublisher struct {
	kinds []cache.Kind
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, kind cache.Kind) error {
	f.kinds = append(f.kinds, kind)
	return f.err
}

type fixedCounter map[cache.Kind]int

func (f fixedCounter) Len(kind cache.Kind) int {
	return f[kind]
}

func cacheRouter(h *CacheHandler) *gin.Engine {
	router := newRouter()
	admin := router.Group("/v2", asAdmin("root"))
	admin.GET("/cache", h.Stats)
	admin.POST("/cache/:kind/rehydrate", h.Rehydrate)
	return router
}

func TestCacheHandler_Rehydrate(t *testing.T) {
	counter := fixedCounter{cache.KindProduct: 12}

	t.Run("reloads locally and broadcasts", func(t *testing.T) {
		rehydrator, publisher := &fakeRehydrator{}, &fakePublisher{}
		w := doRequest(cacheRouter(NewCacheHandler(rehydrator, publisher, counter)), http.MethodPost, "/v2/cache/product/rehydrate", "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var data RehydrateResponse
		decode(t, w, &data)
		assert.Equal(t, RehydrateResponse{Kind: "product", Entries: 12, Broadcasted: true}, data)
		assert.Equal(t, []cache.Kind{cache.KindProduct}, rehydrator.kinds)
		assert.Equal(t, []cache.Kind{cache.KindProduct}, publisher.kinds)
	})

	t.Run("without redis stays local", func(t *testing.T) {
		rehydrator := &fakeRehydrator{}
		w := doRequest(cacheRouter(NewCacheHandler(rehydrator, nil, counter)), http.MethodPost, "/v2/cache/product/rehydrate", "")

		require.Equal(t, http.StatusOK, w.Code)
		var data RehydrateResponse
		decode(t, w, &data)
		assert.False(t, data.Broadcasted)
	})

	t.Run("broadcast failure still succeeds", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("redis down")}
		w := doRequest(cacheRouter(NewCacheHandler(&fakeRehydrator{}, publisher, counter)), http.MethodPost, "/v2/cache/product/rehydrate", "")

		require.Equal(t, http.StatusOK, w.Code)
		var data RehydrateResponse
		decode(t, w, &data)
		assert.False(t, data.Broadcasted)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rehydrator := &fakeRehydrator{}
		w := doRequest(cacheRouter(NewCacheHandler(rehydrator, nil, counter)), http.MethodPost, "/v2/cache/widgets/rehydrate", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, rehydrator.kinds)
	})

	t.Run("kind without a source", func(t *testing.T) {
		rehydrator := &fakeRehydrator{err: cache.ErrNoSource}
		w := doRequest(cacheRouter(NewCacheHandler(rehydrator, nil, counter)), http.MethodPost, "/v2/cache/product/rehydrate", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w, nil).Error.Code)
	})

	t.Run("load failure", func(t *testing.T) {
		publisher := &fakePublisher{}
		rehydrator := &fakeRehydrator{err: errors.New("db down")}
		w := doRequest(cacheRouter(NewCacheHandler(rehydrator, publisher, counter)), http.MethodPost, "/v2/cache/product/rehydrate", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, publisher.kinds)
	})
}

func TestCacheHandler_Stats(t *testing.T) {
	counter := fixedCounter{cache.KindAdmin: 2, cache.KindConfig: 1}
	w := doRequest(cacheRouter(NewCacheHandler(&fakeRehydrator{}, nil, counter)), http.MethodGet, "/v2/cache", "")

	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]int
	decode(t, w, &data)
	assert.Len(t, data, len(cache.AllKinds))
	assert.Equal(t, 2, data[string(cache.KindAdmin)])
	assert.Equal(t, 0, data[string(cache.KindProduct)])
}
