// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/cpg/backend/internal/application/billing"
	"go.uber.org/zap"
)

// Renewer invoices the recurring orders due at now
type Renewer interface {
	RenewDue(ctx context.Context, now time.Time) (appbilling.RenewalReport, error)
}

// RenewalSchedulerConfig holds configuration for the renewal scheduler
type RenewalSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is the time between two renewal runs
	Interval time.Duration

	// RunTimeout is the maximum time for one run
	RunTimeout time.Duration
}

// DefaultRenewalSchedulerConfig returns default configuration
func DefaultRenewalSchedulerConfig() RenewalSchedulerConfig {
	return RenewalSchedulerConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunTimeout: 10 * time.Minute,
	}
}

// RenewalScheduler periodically issues renewal invoices
type RenewalScheduler struct {
	renewer   Renewer
	logger    *zap.Logger
	config    RenewalSchedulerConfig
	now       func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	runMu     sync.Mutex
	isRunning bool
}

// NewRenewalScheduler creates a new renewal scheduler
func NewRenewalScheduler(renewer Renewer, logger *zap.Logger, config RenewalSchedulerConfig) *RenewalScheduler {
	return &RenewalScheduler{
		renewer: renewer,
		logger:  logger.Named("renewal_scheduler"),
		config:  config,
		now:     time.Now,
	}
}

// Start starts the scheduler. The first run happens immediately.
func (s *RenewalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Renewal scheduler is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Renewal scheduler started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop gracefully stops the scheduler
func (s *RenewalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Renewal scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Renewal scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RenewalScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.execute(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Renewal loop stopping")
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

// execute runs one renewal pass. Runs never overlap.
func (s *RenewalScheduler) execute(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	runCtx := ctx
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	startTime := time.Now()
	report, err := s.renewer.RenewDue(runCtx, s.now())
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Renewal run failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Renewal run completed",
		zap.Duration("duration", duration),
		zap.Int("due", report.Due),
		zap.Int("renewed", report.Renewed),
		zap.Int("failed", report.Failed),
	)
}

// TriggerImmediate starts a renewal run without waiting for the ticker
func (s *RenewalScheduler) TriggerImmediate(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate renewal run")

	go func() {
		defer s.wg.Done()
		s.execute(ctx)
	}()
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *RenewalScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
