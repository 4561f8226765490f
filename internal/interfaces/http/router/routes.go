package router

import (
	"github.com/cpg/backend/internal/infrastructure/logger"
	"github.com/cpg/backend/internal/interfaces/http/handler"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	Auth    *handler.AuthHandler
	Order   *handler.OrderHandler
	Invoice *handler.InvoiceHandler
	Cache   *handler.CacheHandler
	System  *handler.SystemHandler
}

// Guards are the authentication dependencies of the routes
type Guards struct {
	Admins      middleware.AdminAuthenticator
	Customers   middleware.CustomerTokenVerifier
	AuthLimiter *middleware.RateLimiter
}

// EngineConfig configures the global middleware chain
type EngineConfig struct {
	Tracing        middleware.TracingConfig
	CORSOrigins    []string
	MaxBodySize    int64
	TrustedProxies []string
}

// NewEngine creates a gin engine with the global middleware installed.
// Tracing runs before the span annotator so the server span exists when
// the annotator reads it.
func NewEngine(cfg EngineConfig, log *zap.Logger) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSOrigins

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		middleware.SpanAnnotator(),
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	return engine, nil
}

// Groups lays out the API. Every group is mounted under the version prefix.
func Groups(h Handlers, g Guards) []RouteRegistrar {
	authn := NewDomainGroup("authentication", "")
	if g.AuthLimiter != nil {
		authn.Use(middleware.RateLimit(g.AuthLimiter))
	}
	authn.POST("/customers/authenticate", h.Auth.CustomerAuthenticate).
		POST("/admins/authenticate", h.Auth.AdminAuthenticate).
		POST("/customers/my/reset-password", h.Auth.RequestPasswordReset).
		POST("/customers/my/new-password", h.Auth.SetNewPassword)

	customer := NewDomainGroup("customer", "").Use(middleware.CustomerAuth(g.Customers))
	customer.POST("/orders/place", h.Order.Place)
	mine := customer.Group("my-orders", "/customers/my/orders")
	mine.GET("", h.Order.ListMine).
		GET("/:id", h.Order.GetMine).
		POST("/:id/cancel", h.Order.CancelMine)

	admin := NewDomainGroup("admin", "").Use(middleware.AdminAuth(g.Admins))
	admin.GET("/orders", h.Order.List).
		POST("/orders", h.Order.Create).
		GET("/invoices", h.Invoice.List).
		POST("/invoices/:uid/pay", h.Invoice.MarkPaid).
		GET("/transactions", h.Invoice.ListTransactions).
		GET("/cache", h.Cache.Stats).
		POST("/cache/:kind/rehydrate", h.Cache.Rehydrate)

	system := NewDomainGroup("system", "")
	system.GET("/health", middleware.AdminProbe(g.Admins), h.System.Health).
		GET("/ping", h.System.Ping)

	return []RouteRegistrar{authn, customer, admin, system}
}

// Setup builds the engine and registers every route
func Setup(cfg EngineConfig, log *zap.Logger, h Handlers, g Guards) (*gin.Engine, error) {
	engine, err := NewEngine(cfg, log)
	if err != nil {
		return nil, err
	}
	NewRouter(engine).Register(Groups(h, g)...).Setup()
	return engine, nil
}
