package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormStockTransactionRepository implements the append-only ledger
// repository using GORM. Entries are immutable: the repository exposes
// no update or delete.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	var tx inventory.StockTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByItem finds entries for an inventory item in chronological order
func (r *GormStockTransactionRepository) FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	query := applyPagination(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
			Where("inventory_item_id = ?", inventoryItemID),
		filter,
	).Order("transaction_date ASC, created_at ASC")

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindAllByItem finds every entry for an item in chronological order,
// unpaginated, for valuation replay and aggregate rebuild
func (r *GormStockTransactionRepository) FindAllByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", inventoryItemID).
		Order("transaction_date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByWarehouse finds entries for a warehouse
func (r *GormStockTransactionRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReference finds entries recorded against a source document
func (r *GormStockTransactionRepository) FindByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID string) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("transaction_date ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByDateRange finds entries within a date range
func (r *GormStockTransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
			Where("transaction_date >= ? AND transaction_date <= ?", start, end),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByType finds entries of a transaction type
func (r *GormStockTransactionRepository) FindByType(ctx context.Context, txType inventory.TransactionType, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
			Where("transaction_type = ?", txType),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindLastMovement finds the most recent stock-moving entry for an item
func (r *GormStockTransactionRepository) FindLastMovement(ctx context.Context, inventoryItemID uuid.UUID) (*inventory.StockTransaction, error) {
	var tx inventory.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND transaction_type IN ?", inventoryItemID, []inventory.TransactionType{
			inventory.TransactionTypeIn,
			inventory.TransactionTypeOut,
			inventory.TransactionTypeAdjustment,
		}).
		Order("transaction_date DESC, created_at DESC").
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Create appends a new ledger entry
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CreateBatch appends multiple ledger entries
func (r *GormStockTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.StockTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(txs).Error
}

// CountByItem counts entries for an inventory item
func (r *GormStockTransactionRepository) CountByItem(ctx context.Context, inventoryItemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("inventory_item_id = ?", inventoryItemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByItemTypeAndReference sums quantities for an item, type and source
// document, used to compute outstanding reservation balances
func (r *GormStockTransactionRepository) SumByItemTypeAndReference(ctx context.Context, inventoryItemID uuid.UUID, txType inventory.TransactionType, referenceType inventory.ReferenceType, referenceID string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("inventory_item_id = ? AND transaction_type = ? AND reference_type = ? AND reference_id = ?",
			inventoryItemID, txType, referenceType, referenceID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormStockTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "inventory_item_id":
			query = query.Where("inventory_item_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		}
	}

	return applySorting(applyPagination(query, filter), filter, StockTransactionSortFields, "transaction_date")
}

// Ensure GormStockTransactionRepository implements StockTransactionRepository
var _ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
