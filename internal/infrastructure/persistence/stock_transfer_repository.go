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

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// syncTransferVersions marks every loaded transfer's version as persisted so
// the optimistic-lock predicate compares against the stored row.
func syncTransferVersions(transfers []inventory.StockTransfer) []inventory.StockTransfer {
	for i := range transfers {
		transfers[i].SyncLoadedVersion()
	}
	return transfers
}

// FindByID finds a transfer by its ID, with its lines
func (r *GormStockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	transfer.SyncLoadedVersion()
	return &transfer, nil
}

// FindByTransferNumber finds a transfer by its document number
func (r *GormStockTransferRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("transfer_number = ?", transferNumber).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	transfer.SyncLoadedVersion()
	return &transfer, nil
}

// FindByStatus finds transfers in a given status
func (r *GormStockTransferRepository) FindByStatus(ctx context.Context, status inventory.TransferStatus, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransfer{}).
			Preload("Items").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return syncTransferVersions(transfers), nil
}

// FindByWarehouse finds transfers originating from or destined to a warehouse
func (r *GormStockTransferRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransfer{}).
			Preload("Items").
			Where("from_warehouse_id = ? OR to_warehouse_id = ?", warehouseID, warehouseID),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return syncTransferVersions(transfers), nil
}

// FindAll finds all transfers matching the filter
func (r *GormStockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransfer{}).
			Preload("Items"),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return syncTransferVersions(transfers), nil
}

// Save creates or updates a transfer with its lines
func (r *GormStockTransferRepository) Save(ctx context.Context, transfer *inventory.StockTransfer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transfer).Error; err != nil {
			return err
		}
		return saveTransferItems(tx, transfer)
	})
	if err != nil {
		return err
	}
	transfer.SyncLoadedVersion()
	return nil
}

// SaveWithLock saves with optimistic locking, comparing against the version
// read from the store rather than Version-1 so multiple domain mutations
// between loads still match the stored row.
func (r *GormStockTransferRepository) SaveWithLock(ctx context.Context, transfer *inventory.StockTransfer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(transfer).
			Where("id = ? AND version = ?", transfer.ID, transfer.LoadedVersion()).
			Updates(map[string]interface{}{
				"status":        transfer.Status,
				"shipped_date":  transfer.ShippedDate,
				"received_date": transfer.ReceivedDate,
				"remarks":       transfer.Remarks,
				"version":       transfer.Version,
				"updated_at":    transfer.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveTransferItems(tx, transfer)
	})
	if err != nil {
		return err
	}
	transfer.SyncLoadedVersion()
	return nil
}

// saveTransferItems reconciles the transfer's line rows with the given state
func saveTransferItems(tx *gorm.DB, transfer *inventory.StockTransfer) error {
	if len(transfer.Items) == 0 {
		return tx.Where("transfer_id = ?", transfer.ID).
			Delete(&inventory.StockTransferItem{}).Error
	}

	currentItemIDs := make([]uuid.UUID, len(transfer.Items))
	for i, item := range transfer.Items {
		currentItemIDs[i] = item.ID
	}

	// Delete lines not in the current list
	if err := tx.Where("transfer_id = ? AND id NOT IN ?", transfer.ID, currentItemIDs).
		Delete(&inventory.StockTransferItem{}).Error; err != nil {
		return err
	}

	for i := range transfer.Items {
		transfer.Items[i].TransferID = transfer.ID
		if err := tx.Save(&transfer.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts transfers matching the filter
func (r *GormStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockTransfer{})
	query = applyTransferFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextTransferNumber generates the next transfer document number.
// Format: TRF-YYYY-NNNNN (e.g. TRF-2026-00001)
func (r *GormStockTransferRepository) NextTransferNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("TRF-%d-", year)

	var last inventory.StockTransfer
	err := r.db.WithContext(ctx).
		Model(&inventory.StockTransfer{}).
		Where("transfer_number LIKE ?", prefix+"%").
		Order("transfer_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.TransferNumber != "" {
		parts := strings.Split(last.TransferNumber, "-")
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
func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyTransferFilters(query, filter)
	return applySorting(applyPagination(query, filter), filter, StockTransferSortFields, "created_at")
}

// applyTransferFilters applies transfer-specific key filters without pagination
func applyTransferFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "from_warehouse_id":
			query = query.Where("from_warehouse_id = ?", value)
		case "to_warehouse_id":
			query = query.Where("to_warehouse_id = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		}
	}
	return query
}

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ inventory.StockTransferRepository = (*GormStockTransferRepository)(nil)
