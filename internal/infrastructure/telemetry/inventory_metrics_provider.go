// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryMetricsProvider implements InventoryMetricsProvider using GORM.
// It queries the inventory tables directly for aggregated metrics.
type GormInventoryMetricsProvider struct {
	db *gorm.DB
}

// NewGormInventoryMetricsProvider creates a new GormInventoryMetricsProvider.
func NewGormInventoryMetricsProvider(db *gorm.DB) *GormInventoryMetricsProvider {
	return &GormInventoryMetricsProvider{db: db}
}

// GetReservedQuantityByWarehouse returns total reserved quantity per warehouse.
func (p *GormInventoryMetricsProvider) GetReservedQuantityByWarehouse(ctx context.Context) (map[uuid.UUID]float64, error) {
	type result struct {
		WarehouseID      uuid.UUID `gorm:"column:warehouse_id"`
		ReservedQuantity float64   `gorm:"column:reserved_quantity"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("inventory_items").
		Select("warehouse_id, COALESCE(SUM(reserved_stock), 0) as reserved_quantity").
		Where("active = ?", true).
		Group("warehouse_id").
		Having("SUM(reserved_stock) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]float64, len(results))
	for _, r := range results {
		m[r.WarehouseID] = r.ReservedQuantity
	}

	return m, nil
}

// GetBelowSafetyStockCount returns the count of active items at or below safety stock.
func (p *GormInventoryMetricsProvider) GetBelowSafetyStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_items").
		Where("active = ?", true).
		Where("safety_stock > 0 AND current_stock <= safety_stock").
		Count(&count).Error

	return count, err
}

// GetOpenAlertCount returns the count of open stock alerts.
func (p *GormInventoryMetricsProvider) GetOpenAlertCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("stock_alerts").
		Where("status = ?", "OPEN").
		Count(&count).Error

	return count, err
}

// Ensure GormInventoryMetricsProvider implements InventoryMetricsProvider
var _ InventoryMetricsProvider = (*GormInventoryMetricsProvider)(nil)
