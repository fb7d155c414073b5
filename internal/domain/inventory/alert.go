package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// AlertType represents the type of a stock alert
type AlertType string

const (
	// AlertTypeSafetyStockBreach is raised when stock falls to or below the reorder level
	AlertTypeSafetyStockBreach AlertType = "SAFETY_STOCK_BREACH"
)

// String returns the string representation of AlertType
func (t AlertType) String() string {
	return string(t)
}

// AlertStatus represents the lifecycle status of an alert
type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "OPEN"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

// String returns the string representation of AlertStatus
func (s AlertStatus) String() string {
	return string(s)
}

// Alert is a reorder/safety-stock alert for an inventory item. At most one
// OPEN alert exists per (type, item); re-running the monitor without an
// intervening stock change reuses the open alert instead of creating another.
type Alert struct {
	shared.BaseEntity
	AlertType       AlertType       `gorm:"type:varchar(50);not null;index:idx_alert_type_item,priority:1"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index:idx_alert_type_item,priority:2"`
	ItemCode        string          `gorm:"type:varchar(50);not null"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          AlertStatus     `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	CurrentStock    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReorderLevel    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SafetyStock     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ResolvedAt      *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "stock_alerts"
}

// NewSafetyStockAlert creates a new OPEN safety-stock breach alert for an item
func NewSafetyStockAlert(item *InventoryItem) *Alert {
	return &Alert{
		BaseEntity:      shared.NewBaseEntity(),
		AlertType:       AlertTypeSafetyStockBreach,
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Status:          AlertStatusOpen,
		CurrentStock:    item.CurrentStock,
		ReorderLevel:    item.ReorderLevel,
		SafetyStock:     item.SafetyStock,
	}
}

// IsOpen returns true while the alert has not been resolved
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusOpen
}

// Resolve closes the alert
func (a *Alert) Resolve() {
	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedAt = &now
	a.UpdatedAt = now
}

// UpdateSnapshot refreshes the quantity snapshot on an open alert
func (a *Alert) UpdateSnapshot(item *InventoryItem) {
	a.CurrentStock = item.CurrentStock
	a.ReorderLevel = item.ReorderLevel
	a.SafetyStock = item.SafetyStock
	a.UpdatedAt = time.Now()
}
