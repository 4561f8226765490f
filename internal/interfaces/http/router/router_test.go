package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v2", r.apiVersion)
	assert.Empty(t, r.registrars)

	assert.Equal(t, "v3", NewRouter(gin.New(), WithAPIVersion("v3")).apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/v2/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/test/ping").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("registers chained routes", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
			POST("/b", func(c *gin.Context) { c.String(http.StatusCreated, "b") })

		g.RegisterRoutes(engine.Group("/v2"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/v2/test/a").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/v2/test/b").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/v2/test/b").Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		g.RegisterRoutes(engine.Group("/v2"))

		w := serve(engine, http.MethodGet, "/v2/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("groups sharing a prefix keep their own middleware", func(t *testing.T) {
		engine := gin.New()
		guarded := NewDomainGroup("guarded", "").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		guarded.GET("/secret", func(c *gin.Context) { c.String(http.StatusOK, "secret") })
		open := NewDomainGroup("open", "")
		open.GET("/public", func(c *gin.Context) { c.String(http.StatusOK, "public") })

		NewRouter(engine).Register(guarded, open).Setup()

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/v2/secret").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/v2/public").Code)
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("customers", "/customers")
		mine := g.Group("mine", "/my/orders")
		mine.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

		g.RegisterRoutes(engine.Group("/v2"))

		assert.Equal(t, "list", serve(engine, http.MethodGet, "/v2/customers/my/orders").Body.String())
		assert.Equal(t, "42", serve(engine, http.MethodGet, "/v2/customers/my/orders/42").Body.String())
	})
}
