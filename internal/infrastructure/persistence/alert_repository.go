package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Alert, error) {
	var alert inventory.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpenByTypeAndItem finds the open alert of a type for an item, if any
func (r *GormAlertRepository) FindOpenByTypeAndItem(ctx context.Context, alertType inventory.AlertType, inventoryItemID uuid.UUID) (*inventory.Alert, error) {
	var alert inventory.Alert
	if err := r.db.WithContext(ctx).
		Where("alert_type = ? AND inventory_item_id = ? AND status = ?",
			alertType, inventoryItemID, inventory.AlertStatusOpen).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpen finds all open alerts
func (r *GormAlertRepository) FindOpen(ctx context.Context, filter shared.Filter) ([]inventory.Alert, error) {
	var alerts []inventory.Alert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Alert{}).
			Where("status = ?", inventory.AlertStatusOpen),
		filter,
	)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByItem finds all alerts for an inventory item
func (r *GormAlertRepository) FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]inventory.Alert, error) {
	var alerts []inventory.Alert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Alert{}).
			Where("inventory_item_id = ?", inventoryItemID),
		filter,
	)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *inventory.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Delete deletes an alert
func (r *GormAlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Alert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountOpen counts open alerts
func (r *GormAlertRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Alert{}).
		Where("status = ?", inventory.AlertStatusOpen).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "alert_type":
			query = query.Where("alert_type = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return applySorting(applyPagination(query, filter), filter, AlertSortFields, "created_at")
}

// Ensure GormAlertRepository implements AlertRepository
var _ inventory.AlertRepository = (*GormAlertRepository)(nil)
