package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// syncItemVersions marks every loaded item's version as persisted so the
// optimistic-lock predicate compares against the stored row.
func syncItemVersions(items []inventory.InventoryItem) []inventory.InventoryItem {
	for i := range items {
		items[i].SyncLoadedVersion()
	}
	return items
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.SyncLoadedVersion()
	return &item, nil
}

// FindByCodeAndWarehouse finds the item for an item code in a warehouse
func (r *GormInventoryItemRepository) FindByCodeAndWarehouse(ctx context.Context, itemCode string, warehouseID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("item_code = ? AND warehouse_id = ?", itemCode, warehouseID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.SyncLoadedVersion()
	return &item, nil
}

// FindByCode finds all per-warehouse items sharing an item code
func (r *GormInventoryItemRepository) FindByCode(ctx context.Context, itemCode string) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("item_code = ?", itemCode).
		Order("warehouse_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// FindByWarehouse finds all inventory items in a warehouse
func (r *GormInventoryItemRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// FindAll finds all inventory items matching the filter
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// FindBelowSafetyStock finds active items at or below their safety stock
// level. A zero safety stock means the threshold is not configured, so those
// items never show up here even when their stock is zero.
func (r *GormInventoryItemRepository) FindBelowSafetyStock(ctx context.Context, warehouseID *uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.db.WithContext(ctx).
		Where("active = ? AND safety_stock > 0 AND current_stock <= safety_stock", true)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	if err := query.Order("item_code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// FindBelowReorderLevel finds active items at or below their reorder level
func (r *GormInventoryItemRepository) FindBelowReorderLevel(ctx context.Context, warehouseID *uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.db.WithContext(ctx).
		Where("active = ? AND reorder_level > 0 AND current_stock <= reorder_level", true)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	if err := query.Order("item_code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// FindByIDs finds multiple inventory items by their IDs
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}

	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return syncItemVersions(items), nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}
	item.SyncLoadedVersion()
	return nil
}

// SaveWithLock saves with optimistic locking. The predicate compares against
// the version read from the store, not Version-1, because a single unit of
// work may bump the version several times (a receipt line that also assigns
// a bin) before one save.
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.LoadedVersion()).
		Updates(map[string]interface{}{
			"name":               item.Name,
			"category":           item.Category,
			"unit":               item.Unit,
			"standard_cost":      item.StandardCost,
			"reorder_level":      item.ReorderLevel,
			"safety_stock":       item.SafetyStock,
			"lead_time_days":     item.LeadTimeDays,
			"batch_tracked":      item.BatchTracked,
			"bin_id":             item.BinID,
			"current_stock":      item.CurrentStock,
			"available_stock":    item.AvailableStock,
			"reserved_stock":     item.ReservedStock,
			"active":             item.Active,
			"last_movement_date": item.LastMovementDate,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.SyncLoadedVersion()
	return nil
}

// Delete deletes an inventory item
func (r *GormInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts inventory items matching the filter
func (r *GormInventoryItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyItemFilters(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCodeAndWarehouse checks whether an item code exists in a warehouse
func (r *GormInventoryItemRepository) ExistsByCodeAndWarehouse(ctx context.Context, itemCode string, warehouseID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("item_code = ? AND warehouse_id = ?", itemCode, warehouseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumStandardValueByWarehouse sums current stock x standard cost in a warehouse
func (r *GormInventoryItemRepository) SumStandardValueByWarehouse(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Select("COALESCE(SUM(current_stock * standard_cost), 0) as total").
		Where("warehouse_id = ?", warehouseID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyItemFilters(query, filter)
	return applySorting(applyPagination(query, filter), filter, InventoryItemSortFields, "created_at")
}

// applyItemFilters applies item-specific key filters without pagination
func applyItemFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "batch_tracked":
			query = query.Where("batch_tracked = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("current_stock > 0")
			}
		case "no_stock":
			if value == true {
				query = query.Where("current_stock = 0 AND reserved_stock = 0")
			}
		case "below_safety_stock":
			if value == true {
				query = query.Where("safety_stock > 0 AND current_stock <= safety_stock")
			}
		case "below_reorder_level":
			if value == true {
				query = query.Where("reorder_level > 0 AND current_stock <= reorder_level")
			}
		}
	}

	return query
}

// applyPagination applies page/page-size options to the query. A zero
// page size means an unpaginated full scan.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applySorting applies validated ordering to the query
func applySorting(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir)
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
