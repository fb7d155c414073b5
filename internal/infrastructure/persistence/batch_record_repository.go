package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormBatchRecordRepository implements BatchRecordRepository using GORM
type GormBatchRecordRepository struct {
	db *gorm.DB
}

// NewGormBatchRecordRepository creates a new GormBatchRecordRepository
func NewGormBatchRecordRepository(db *gorm.DB) *GormBatchRecordRepository {
	return &GormBatchRecordRepository{db: db}
}

// FindByID finds a batch record by its ID
func (r *GormBatchRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchRecord, error) {
	var batch inventory.BatchRecord
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByItem finds all batch records for an inventory item
func (r *GormBatchRecordRepository) FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]inventory.BatchRecord, error) {
	var batches []inventory.BatchRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.BatchRecord{}).
			Where("inventory_item_id = ?", inventoryItemID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindActiveByItem finds active batches for an item ordered by expiry.
// Batches without an expiry date sort last so near-expiry lots are
// consumed first.
func (r *GormBatchRecordRepository) FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]inventory.BatchRecord, error) {
	var batches []inventory.BatchRecord
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND status = ?", inventoryItemID, inventory.BatchStatusActive).
		Order("expiry_date ASC NULLS LAST, received_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByBatchNumber finds a batch by its number within an item
func (r *GormBatchRecordRepository) FindByBatchNumber(ctx context.Context, inventoryItemID uuid.UUID, batchNumber string) (*inventory.BatchRecord, error) {
	var batch inventory.BatchRecord
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND batch_number = ?", inventoryItemID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindExpiringSoon finds active batches expiring within the given days
func (r *GormBatchRecordRepository) FindExpiringSoon(ctx context.Context, withinDays int, filter shared.Filter) ([]inventory.BatchRecord, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)

	var batches []inventory.BatchRecord
	query := applyPagination(
		r.db.WithContext(ctx).Model(&inventory.BatchRecord{}).
			Where("status = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", inventory.BatchStatusActive, cutoff),
		filter,
	).Order("expiry_date ASC")

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpired finds batches past expiry that still carry quantity
func (r *GormBatchRecordRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]inventory.BatchRecord, error) {
	var batches []inventory.BatchRecord
	query := applyPagination(
		r.db.WithContext(ctx).Model(&inventory.BatchRecord{}).
			Where("expiry_date IS NOT NULL AND expiry_date < ? AND quantity > 0", time.Now()),
		filter,
	).Order("expiry_date ASC")

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch record
func (r *GormBatchRecordRepository) Save(ctx context.Context, batch *inventory.BatchRecord) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Delete deletes a batch record
func (r *GormBatchRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.BatchRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByItem counts batch records for an inventory item
func (r *GormBatchRecordRepository) CountByItem(ctx context.Context, inventoryItemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.BatchRecord{}).
		Where("inventory_item_id = ?", inventoryItemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBatchRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "has_quantity":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}

	return applySorting(applyPagination(query, filter), filter, BatchRecordSortFields, "received_date")
}

// Ensure GormBatchRecordRepository implements BatchRecordRepository
var _ inventory.BatchRecordRepository = (*GormBatchRecordRepository)(nil)
