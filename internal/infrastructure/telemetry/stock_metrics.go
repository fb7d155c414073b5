// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StockMetrics provides business metrics for the stock ledger.
// It tracks ledger activity, reservations, and inventory health.
type StockMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	ledgerEntriesTotal *Counter
	reservationsTotal  *Counter
	alertsOpenedTotal  *Counter

	// Gauge metrics (point-in-time values)
	reservedQuantity *FloatGauge
	belowSafetyStock *Gauge
	openAlertCount   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	inventoryProvider InventoryMetricsProvider
}

// InventoryMetricsProvider provides inventory data for periodic metrics
// collection. The interface keeps the telemetry layer from depending on the
// inventory domain directly.
type InventoryMetricsProvider interface {
	// GetReservedQuantityByWarehouse returns total reserved quantity per warehouse
	GetReservedQuantityByWarehouse(ctx context.Context) (map[uuid.UUID]float64, error)

	// GetBelowSafetyStockCount returns the count of active items at or below safety stock
	GetBelowSafetyStockCount(ctx context.Context) (int64, error)

	// GetOpenAlertCount returns the count of open stock alerts
	GetOpenAlertCount(ctx context.Context) (int64, error)
}

// StockMetricsConfig holds configuration for stock metrics.
type StockMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	InventoryProvider InventoryMetricsProvider
}

// NewStockMetrics creates a new StockMetrics instance.
func NewStockMetrics(cfg StockMetricsConfig) (*StockMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StockMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		inventoryProvider: cfg.InventoryProvider,
	}

	var err error

	// Ledger metrics
	sm.ledgerEntriesTotal, err = NewCounter(
		cfg.Meter,
		"stock_ledger_entries_total",
		"Total number of stock ledger entries written",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	sm.reservationsTotal, err = NewCounter(
		cfg.Meter,
		"stock_reservations_total",
		"Total number of stock reservations placed",
		"{reservations}",
	)
	if err != nil {
		return nil, err
	}

	sm.alertsOpenedTotal, err = NewCounter(
		cfg.Meter,
		"stock_alerts_opened_total",
		"Total number of stock alerts opened",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	// Inventory gauge metrics
	sm.reservedQuantity, err = NewFloatGauge(
		cfg.Meter,
		"stock_reserved_quantity",
		"Current reserved stock quantity",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	sm.belowSafetyStock, err = NewGauge(
		cfg.Meter,
		"stock_below_safety_count",
		"Number of items at or below their safety stock level",
		"{items}",
	)
	if err != nil {
		return nil, err
	}

	sm.openAlertCount, err = NewGauge(
		cfg.Meter,
		"stock_open_alert_count",
		"Number of open stock alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordLedgerEntry records a written ledger entry.
// Call this from the application layer after the owning transaction commits.
func (sm *StockMetrics) RecordLedgerEntry(ctx context.Context, transactionType, referenceType string) {
	sm.ledgerEntriesTotal.Inc(ctx,
		AttrTransactionType.String(transactionType),
		AttrReferenceType.String(referenceType),
	)
}

// RecordReservation records a placed reservation.
func (sm *StockMetrics) RecordReservation(ctx context.Context, referenceType string) {
	sm.reservationsTotal.Inc(ctx,
		AttrReferenceType.String(referenceType),
	)
}

// RecordAlertOpened records a newly opened stock alert.
func (sm *StockMetrics) RecordAlertOpened(ctx context.Context, alertType string) {
	sm.alertsOpenedTotal.Inc(ctx,
		AttrAlertType.String(alertType),
	)
}

// RecordReservedQuantity records the current reserved quantity for a warehouse.
// This is a gauge metric updated by the periodic collector.
func (sm *StockMetrics) RecordReservedQuantity(ctx context.Context, warehouseID uuid.UUID, quantity float64) {
	sm.reservedQuantity.Record(ctx, quantity,
		AttrWarehouseID.String(warehouseID.String()),
	)
}

// RecordBelowSafetyStockCount records the number of items at or below safety stock.
func (sm *StockMetrics) RecordBelowSafetyStockCount(ctx context.Context, count int64) {
	sm.belowSafetyStock.Record(ctx, count)
}

// RecordOpenAlertCount records the number of open stock alerts.
func (sm *StockMetrics) RecordOpenAlertCount(ctx context.Context, count int64) {
	sm.openAlertCount.Record(ctx, count)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (sm *StockMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go sm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (sm *StockMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	sm.collectInventoryMetrics(ctx)

	for {
		select {
		case <-sm.stopChan:
			sm.logger.Info("Stopping periodic stock metrics collection")
			return
		case <-ctx.Done():
			sm.logger.Info("Context cancelled, stopping periodic stock metrics collection")
			return
		case <-ticker.C:
			sm.collectInventoryMetrics(ctx)
		}
	}
}

// collectInventoryMetrics collects the inventory gauge metrics.
func (sm *StockMetrics) collectInventoryMetrics(ctx context.Context) {
	if sm.inventoryProvider == nil {
		sm.logger.Debug("No inventory provider configured, skipping inventory metrics collection")
		return
	}

	reservedByWarehouse, err := sm.inventoryProvider.GetReservedQuantityByWarehouse(ctx)
	if err != nil {
		sm.logger.Warn("Failed to get reserved quantity", zap.Error(err))
	} else {
		for warehouseID, quantity := range reservedByWarehouse {
			sm.RecordReservedQuantity(ctx, warehouseID, quantity)
		}
	}

	belowSafety, err := sm.inventoryProvider.GetBelowSafetyStockCount(ctx)
	if err != nil {
		sm.logger.Warn("Failed to get below-safety-stock count", zap.Error(err))
	} else {
		sm.RecordBelowSafetyStockCount(ctx, belowSafety)
	}

	openAlerts, err := sm.inventoryProvider.GetOpenAlertCount(ctx)
	if err != nil {
		sm.logger.Warn("Failed to get open alert count", zap.Error(err))
	} else {
		sm.RecordOpenAlertCount(ctx, openAlerts)
	}
}

// Stop stops the periodic collection.
func (sm *StockMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewStockMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
