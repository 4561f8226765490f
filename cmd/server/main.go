package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/cpg/backend/internal/application/billing"
	appidentity "github.com/cpg/backend/internal/application/identity"
	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/infrastructure/auth"
	"github.com/cpg/backend/internal/infrastructure/cache"
	"github.com/cpg/backend/internal/infrastructure/config"
	"github.com/cpg/backend/internal/infrastructure/email"
	"github.com/cpg/backend/internal/infrastructure/event"
	"github.com/cpg/backend/internal/infrastructure/idgen"
	"github.com/cpg/backend/internal/infrastructure/logger"
	"github.com/cpg/backend/internal/infrastructure/persistence"
	"github.com/cpg/backend/internal/infrastructure/scheduler"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"github.com/cpg/backend/internal/interfaces/http/handler"
	"github.com/cpg/backend/internal/interfaces/http/middleware"
	"github.com/cpg/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CPG Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	optionRepo := persistence.NewGormConfigurableOptionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	configRepo := persistence.NewGormConfigRepository(db.DB)

	// Cache, loaded before the server accepts requests
	registry := cache.NewRegistry()
	rehydrator := cache.NewRehydrator(registry, cache.Sources{
		Admins:       adminRepo,
		Customers:    customerRepo,
		Products:     productRepo,
		Orders:       orderRepo,
		Config:       configRepo,
		Images:       imageRepo,
		Invoices:     invoiceRepo,
		Transactions: transactionRepo,
		Categories:   categoryRepo,
	}, log)
	if err := rehydrator.RehydrateAll(ctx); err != nil {
		log.Fatal("Failed to load cache", zap.Error(err))
	}

	var broadcaster *cache.RehydrationBroadcaster
	if cfg.Redis.Enabled {
		broadcaster, err = cache.NewRehydrationBroadcaster(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cache.WithBroadcastChannel(cfg.Redis.Channel), cache.WithBroadcastLogger(log.Named("cache_broadcast")))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		go func() {
			err := broadcaster.Subscribe(ctx, func(kind cache.Kind) {
				if err := rehydrator.Rehydrate(ctx, kind); err != nil {
					log.Error("Remote rehydration failed", zap.String("kind", string(kind)), zap.Error(err))
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Cache rehydration subscription ended", zap.Error(err))
			}
		}()
	}

	// Ids, tokens and passwords
	ids, err := idgen.New(cfg.Billing.SnowflakeNode)
	if err != nil {
		log.Fatal("Failed to create id generator", zap.Error(err))
	}
	tokens := auth.NewTokenService(cfg.JWT)
	hasher := auth.NewBcryptHasher(0)

	// Mail and events
	sender := email.NewSMTPSender(registry, log)
	notifier := notification.NewNotifier(sender, cfg.App.CompanyName, log)
	eventBus := event.NewInMemoryEventBus(log)
	adminMail := notification.NewAdminMailHandler(notifier, registry, log)
	eventBus.Subscribe(adminMail, adminMail.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	resolver := appidentity.NewCredentialResolver(registry, hasher, tokens, log)
	customerAuth := appidentity.NewCustomerAuthService(customerRepo, hasher, tokens, notifier, cfg.Auth.MaxLoginAttempts, log)
	adminAuth := appidentity.NewAdminAuthService(resolver, tokens)
	resets := appidentity.NewPasswordResetService(customerRepo, resetRepo, hasher, ids, notifier, cfg.App.FullDomain, cfg.Auth.ResetTokenTTL, log)

	invoiceService := appbilling.NewInvoiceService(invoiceRepo, transactionRepo, productRepo, optionRepo, ids, eventBus, appbilling.InvoiceConfig{
		Currency: cfg.Billing.DefaultCurrency,
		TaxRate:  decimal.NewFromFloat(cfg.Billing.TaxRate),
		DueDays:  cfg.Billing.InvoiceDueDays,
	}, log)
	placement := appbilling.NewPlacementService(customerRepo, productRepo, optionRepo, orderRepo, invoiceService, ids, notifier, cfg.App.FullDomain, log)
	orderService := appbilling.NewOrderService(orderRepo, customerRepo, invoiceService, ids, eventBus, notifier, log)
	renewals := appbilling.NewRenewalService(orderRepo, invoiceService, log)

	// Renewal job
	renewalScheduler := scheduler.NewRenewalScheduler(renewals, log, scheduler.RenewalSchedulerConfig{
		Enabled:    cfg.Billing.RenewalEnabled,
		Interval:   cfg.Billing.RenewalInterval,
		RunTimeout: 10 * time.Minute,
	})
	if err := renewalScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start renewal scheduler", zap.Error(err))
	}

	// HTTP
	middleware.SetupValidator()
	var publisher handler.RehydrationPublisher
	if broadcaster != nil {
		publisher = broadcaster
	}
	engine, err := router.Setup(
		router.EngineConfig{
			Tracing:        middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: tp.IsEnabled()},
			CORSOrigins:    cfg.HTTP.CORSOrigins,
			MaxBodySize:    cfg.HTTP.MaxBodySize,
			TrustedProxies: cfg.HTTP.TrustedProxies,
		},
		log,
		router.Handlers{
			Auth:    handler.NewAuthHandler(customerAuth, adminAuth, resets),
			Order:   handler.NewOrderHandler(placement, orderService),
			Invoice: handler.NewInvoiceHandler(invoiceService),
			Cache:   handler.NewCacheHandler(rehydrator, publisher, registry),
			System:  handler.NewSystemHandler(version, db, registry),
		},
		router.Guards{
			Admins:      resolver,
			Customers:   tokens,
			AuthLimiter: middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow),
		},
	)
	if err != nil {
		log.Fatal("Failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := renewalScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Renewal scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if broadcaster != nil {
		if err := broadcaster.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	stop()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
