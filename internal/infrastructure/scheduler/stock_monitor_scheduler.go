package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfgsuite/backend/internal/application/inventory"
)

// StockMonitorConfig holds configuration for the stock monitor scheduler
type StockMonitorConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// ReorderScanInterval is how often the reorder-alert scan runs
	ReorderScanInterval time.Duration

	// ExpiryScanInterval is how often the batch expiry refresh runs
	ExpiryScanInterval time.Duration

	// JobTimeout is the maximum time for a single scan
	JobTimeout time.Duration
}

// DefaultStockMonitorConfig returns default configuration
func DefaultStockMonitorConfig() StockMonitorConfig {
	return StockMonitorConfig{
		Enabled:             true,
		ReorderScanInterval: 15 * time.Minute,
		ExpiryScanInterval:  time.Hour,
		JobTimeout:          5 * time.Minute,
	}
}

// StockMonitorScheduler periodically runs the reorder-alert scan and the
// batch expiry refresh. Both scans are idempotent, so an overlapping or
// repeated run changes nothing beyond the first.
type StockMonitorScheduler struct {
	config        StockMonitorConfig
	replenishment *inventory.ReplenishmentService
	batches       *inventory.BatchService
	logger        *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewStockMonitorScheduler creates a new stock monitor scheduler
func NewStockMonitorScheduler(
	config StockMonitorConfig,
	replenishment *inventory.ReplenishmentService,
	batches *inventory.BatchService,
	logger *zap.Logger,
) *StockMonitorScheduler {
	return &StockMonitorScheduler{
		config:        config,
		replenishment: replenishment,
		batches:       batches,
		logger:        logger,
	}
}

// Start starts the scheduler
func (s *StockMonitorScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Stock monitor scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx, s.config.ReorderScanInterval, s.executeReorderScan)

	s.wg.Add(1)
	go s.runLoop(ctx, s.config.ExpiryScanInterval, s.executeExpiryScan)

	s.logger.Info("Stock monitor scheduler started",
		zap.Duration("reorder_scan_interval", s.config.ReorderScanInterval),
		zap.Duration("expiry_scan_interval", s.config.ExpiryScanInterval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *StockMonitorScheduler) Stop(ctx context.Context) error {
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

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Stock monitor scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Stock monitor scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop runs a scan on a fixed interval until the context is cancelled
func (s *StockMonitorScheduler) runLoop(ctx context.Context, interval time.Duration, scan func(ctx context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan(ctx)
		}
	}
}

// executeReorderScan runs the reorder-alert scan with a timeout
func (s *StockMonitorScheduler) executeReorderScan(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	alerts, err := s.replenishment.CheckAndGenerateReorderAlerts(scanCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Reorder-alert scan failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Reorder-alert scan completed",
		zap.Duration("duration", duration),
		zap.Int("breached_items", len(alerts)),
	)
}

// executeExpiryScan runs the batch expiry refresh with a timeout
func (s *StockMonitorScheduler) executeExpiryScan(ctx context.Context) {
	scanCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	flipped, err := s.batches.RefreshExpiredBatches(scanCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Batch expiry refresh failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Batch expiry refresh completed",
		zap.Duration("duration", duration),
		zap.Int("expired_batches", flipped),
	)
}

// TriggerReorderScan triggers an immediate reorder-alert scan
func (s *StockMonitorScheduler) TriggerReorderScan(ctx context.Context) error {
	return s.trigger(ctx, s.executeReorderScan)
}

// TriggerExpiryScan triggers an immediate batch expiry refresh
func (s *StockMonitorScheduler) TriggerExpiryScan(ctx context.Context) error {
	return s.trigger(ctx, s.executeExpiryScan)
}

func (s *StockMonitorScheduler) trigger(ctx context.Context, scan func(ctx context.Context)) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	// Run in a goroutine to not block
	go func() {
		defer s.wg.Done()
		scan(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *StockMonitorScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
