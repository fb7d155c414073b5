package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormCycleCountRepository implements CycleCountRepository using GORM
type GormCycleCountRepository struct {
	db *gorm.DB
}

// NewGormCycleCountRepository creates a new GormCycleCountRepository
func NewGormCycleCountRepository(db *gorm.DB) *GormCycleCountRepository {
	return &GormCycleCountRepository{db: db}
}

// FindByID finds a cycle count by its ID, with its lines
func (r *GormCycleCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.CycleCount, error) {
	var count inventory.CycleCount
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&count, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByCountNumber finds a cycle count by its document number
func (r *GormCycleCountRepository) FindByCountNumber(ctx context.Context, countNumber string) (*inventory.CycleCount, error) {
	var count inventory.CycleCount
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("count_number = ?", countNumber).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByWarehouse finds cycle counts for a warehouse
func (r *GormCycleCountRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.CycleCount, error) {
	var counts []inventory.CycleCount
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.CycleCount{}).
			Preload("Items").
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// FindByDateRange finds cycle counts within a date range
func (r *GormCycleCountRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]inventory.CycleCount, error) {
	var counts []inventory.CycleCount
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.CycleCount{}).
			Preload("Items").
			Where("count_date >= ? AND count_date <= ?", start, end),
		filter,
	)

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a cycle count with its lines
func (r *GormCycleCountRepository) Save(ctx context.Context, count *inventory.CycleCount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(count).Error; err != nil {
			return err
		}

		if len(count.Items) == 0 {
			return tx.Where("cycle_count_id = ?", count.ID).
				Delete(&inventory.CycleCountItem{}).Error
		}

		currentItemIDs := make([]uuid.UUID, len(count.Items))
		for i, item := range count.Items {
			currentItemIDs[i] = item.ID
		}

		if err := tx.Where("cycle_count_id = ? AND id NOT IN ?", count.ID, currentItemIDs).
			Delete(&inventory.CycleCountItem{}).Error; err != nil {
			return err
		}

		for i := range count.Items {
			count.Items[i].CycleCountID = count.ID
			if err := tx.Save(&count.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts cycle counts matching the filter
func (r *GormCycleCountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&inventory.CycleCount{})
	query = applyCycleCountFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// NextCountNumber generates the next cycle count document number.
// Format: CC-YYYY-NNNNN (e.g. CC-2026-00001)
func (r *GormCycleCountRepository) NextCountNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("CC-%d-", year)

	var last inventory.CycleCount
	err := r.db.WithContext(ctx).
		Model(&inventory.CycleCount{}).
		Where("count_number LIKE ?", prefix+"%").
		Order("count_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.CountNumber != "" {
		parts := strings.Split(last.CountNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormCycleCountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyCycleCountFilters(query, filter)
	return applySorting(applyPagination(query, filter), filter, CycleCountSortFields, "count_date")
}

// applyCycleCountFilters applies cycle-count key filters without pagination
func applyCycleCountFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "counted_by":
			query = query.Where("counted_by = ?", value)
		}
	}
	return query
}

// Ensure GormCycleCountRepository implements CycleCountRepository
var _ inventory.CycleCountRepository = (*GormCycleCountRepository)(nil)
