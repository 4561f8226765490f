package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/settings"
	"github.com/cpg/backend/internal/domain/shared"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Loader returns the full current collection of one entity type
type Loader[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
}

// ConfigSource reads and writes the stored configuration
type ConfigSource interface {
	FindFirst(ctx context.Context) (*settings.Config, error)
	Save(ctx context.Context, cfg *settings.Config) error
}

// Sources are the persistent collections the rehydrator reads from.
// A nil source makes rehydrating that kind an error.
type Sources struct {
	Admins       Loader[identity.Admin]
	Customers    Loader[identity.Customer]
	Products     Loader[catalog.Product]
	Orders       Loader[billing.Order]
	Config       ConfigSource
	Images       Loader[catalog.Image]
	Invoices     Loader[billing.Invoice]
	Transactions Loader[billing.Transaction]
	Categories   Loader[catalog.Category]
}

// ErrNoSource is returned when a kind has no configured source
var ErrNoSource = errors.New("no source configured for cache kind")

// Rehydrator reloads whole entity collections into the Registry.
// Records are Set one by one: readers observe either the previous or the
// new snapshot for a key, and entries missing from the new collection are
// left in place.
type Rehydrator struct {
	registry *Registry
	sources  Sources
	logger   *zap.Logger
}

// NewRehydrator creates a rehydrator
func NewRehydrator(registry *Registry, sources Sources, logger *zap.Logger) *Rehydrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rehydrator{
		registry: registry,
		sources:  sources,
		logger:   logger.Named("cache"),
	}
}

// RehydrateAll reloads the kinds needed before serving requests. The first
// failure aborts and is returned, the caller treats it as fatal.
func (r *Rehydrator) RehydrateAll(ctx context.Context) error {
	return r.RehydrateKinds(ctx, StartupKinds...)
}

// RehydrateKinds reloads the given kinds in order
func (r *Rehydrator) RehydrateKinds(ctx context.Context, kinds ...Kind) error {
	for _, kind := range kinds {
		if err := r.Rehydrate(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// Rehydrate reloads one kind from its source
func (r *Rehydrator) Rehydrate(ctx context.Context, kind Kind) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "cache", "rehydrate",
		telemetry.WithAttribute("cache.kind", string(kind)))
	defer span.End()

	n, err := r.rehydrate(ctx, kind)
	if err != nil {
		telemetry.RecordError(span, err)
		r.logger.Error("Cache rehydration failed", zap.String("kind", string(kind)), zap.Error(err))
		return fmt.Errorf("rehydrate %s: %w", kind, err)
	}

	r.logger.Info("Cache rehydrated", zap.String("kind", string(kind)), zap.Int("records", n))
	return nil
}

func (r *Rehydrator) rehydrate(ctx context.Context, kind Kind) (int, error) {
	reg := r.registry
	switch kind {
	case KindAdmin:
		return load(ctx, r.sources.Admins, reg.PutAdmin)
	case KindCustomer:
		return load(ctx, r.sources.Customers, func(c identity.Customer) { reg.Customers.Set(c.ID, c) })
	case KindProduct:
		return load(ctx, r.sources.Products, func(p catalog.Product) { reg.Products.Set(p.ID, p) })
	case KindOrder:
		return load(ctx, r.sources.Orders, func(o billing.Order) { reg.Orders.Set(o.ID, o) })
	case KindImage:
		return load(ctx, r.sources.Images, func(i catalog.Image) { reg.Images.Set(i.ID, i) })
	case KindInvoice:
		return load(ctx, r.sources.Invoices, func(i billing.Invoice) { reg.Invoices.Set(i.ID, i) })
	case KindTransaction:
		return load(ctx, r.sources.Transactions, func(t billing.Transaction) { reg.Transactions.Set(t.ID, t) })
	case KindCategory:
		return load(ctx, r.sources.Categories, func(c catalog.Category) { reg.Categories.Set(c.ID, c) })
	case KindConfig:
		return r.rehydrateConfig(ctx)
	}
	return 0, fmt.Errorf("unknown cache kind %q", kind)
}

// rehydrateConfig caches the stored configuration, creating the default
// one first when none exists.
func (r *Rehydrator) rehydrateConfig(ctx context.Context) (int, error) {
	if r.sources.Config == nil {
		return 0, ErrNoSource
	}

	cfg, err := r.sources.Config.FindFirst(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		def := settings.DefaultConfig()
		if err := r.sources.Config.Save(ctx, &def); err != nil {
			return 0, fmt.Errorf("save default configuration: %w", err)
		}
		r.logger.Info("No configuration found, stored default configuration")
		cfg = &def
	} else if err != nil {
		return 0, err
	}

	r.registry.PutConfig(*cfg)
	return 1, nil
}

func load[T any](ctx context.Context, src Loader[T], put func(T)) (int, error) {
	if src == nil {
		return 0, ErrNoSource
	}
	records, err := src.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		put(rec)
	}
	return len(records), nil
}
