package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByID finds an inventory item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByCodeAndWarehouse finds the item for an item code in a warehouse
	FindByCodeAndWarehouse(ctx context.Context, itemCode string, warehouseID uuid.UUID) (*InventoryItem, error)

	// FindByCode finds all per-warehouse items sharing an item code
	FindByCode(ctx context.Context, itemCode string) ([]InventoryItem, error)

	// FindByWarehouse finds all inventory items in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindAll finds all inventory items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)

	// FindBelowSafetyStock finds active items at or below their safety stock level
	FindBelowSafetyStock(ctx context.Context, warehouseID *uuid.UUID) ([]InventoryItem, error)

	// FindBelowReorderLevel finds active items at or below their reorder level
	FindBelowReorderLevel(ctx context.Context, warehouseID *uuid.UUID) ([]InventoryItem, error)

	// FindByIDs finds multiple inventory items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryItem, error)

	// Save creates or updates an inventory item
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// Delete deletes an inventory item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts inventory items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCodeAndWarehouse checks whether an item code exists in a warehouse
	ExistsByCodeAndWarehouse(ctx context.Context, itemCode string, warehouseID uuid.UUID) (bool, error)

	// SumStandardValueByWarehouse sums current stock x standard cost in a warehouse
	SumStandardValueByWarehouse(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error)
}

// StockTransactionRepository defines the interface for the append-only
// stock ledger. Entries are immutable: there is no update or delete.
type StockTransactionRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindByItem finds entries for an inventory item in chronological order
	FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindAllByItem finds every entry for an item in chronological order,
	// unpaginated, for valuation replay and aggregate rebuild
	FindAllByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]StockTransaction, error)

	// FindByWarehouse finds entries for a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindByReference finds entries recorded against a source document
	FindByReference(ctx context.Context, referenceType ReferenceType, referenceID string) ([]StockTransaction, error)

	// FindByDateRange finds entries within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockTransaction, error)

	// FindByType finds entries of a transaction type
	FindByType(ctx context.Context, txType TransactionType, filter shared.Filter) ([]StockTransaction, error)

	// FindLastMovement finds the most recent stock-moving entry for an item
	FindLastMovement(ctx context.Context, inventoryItemID uuid.UUID) (*StockTransaction, error)

	// Create appends a new ledger entry
	Create(ctx context.Context, tx *StockTransaction) error

	// CreateBatch appends multiple ledger entries
	CreateBatch(ctx context.Context, txs []*StockTransaction) error

	// CountByItem counts entries for an inventory item
	CountByItem(ctx context.Context, inventoryItemID uuid.UUID) (int64, error)

	// SumByItemTypeAndReference sums quantities for an item, type and source
	// document, used to compute outstanding reservation balances
	SumByItemTypeAndReference(ctx context.Context, inventoryItemID uuid.UUID, txType TransactionType, referenceType ReferenceType, referenceID string) (decimal.Decimal, error)
}

// BatchRecordRepository defines the interface for batch record persistence
type BatchRecordRepository interface {
	// FindByID finds a batch record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BatchRecord, error)

	// FindByItem finds all batch records for an inventory item
	FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]BatchRecord, error)

	// FindActiveByItem finds active batches for an item ordered by expiry
	FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]BatchRecord, error)

	// FindByBatchNumber finds a batch by its number within an item
	FindByBatchNumber(ctx context.Context, inventoryItemID uuid.UUID, batchNumber string) (*BatchRecord, error)

	// FindExpiringSoon finds active batches expiring within the given days
	FindExpiringSoon(ctx context.Context, withinDays int, filter shared.Filter) ([]BatchRecord, error)

	// FindExpired finds batches past expiry that still carry quantity
	FindExpired(ctx context.Context, filter shared.Filter) ([]BatchRecord, error)

	// Save creates or updates a batch record
	Save(ctx context.Context, batch *BatchRecord) error

	// Delete deletes a batch record
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByItem counts batch records for an inventory item
	CountByItem(ctx context.Context, inventoryItemID uuid.UUID) (int64, error)
}

// LocationRepository defines the interface for rack and bin persistence
type LocationRepository interface {
	// FindRackByID finds a rack by its ID
	FindRackByID(ctx context.Context, id uuid.UUID) (*Rack, error)

	// FindRacksByWarehouse finds all racks in a warehouse
	FindRacksByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Rack, error)

	// GetOrCreateRack finds a rack by warehouse and code, creating it if absent
	GetOrCreateRack(ctx context.Context, warehouseID uuid.UUID, code string) (*Rack, error)

	// FindBinByID finds a bin by its ID
	FindBinByID(ctx context.Context, id uuid.UUID) (*Bin, error)

	// FindBinsByRack finds all bins on a rack
	FindBinsByRack(ctx context.Context, rackID uuid.UUID) ([]Bin, error)

	// GetOrCreateBin finds a bin by rack and code, creating it if absent
	GetOrCreateBin(ctx context.Context, rackID uuid.UUID, code string) (*Bin, error)

	// SaveRack creates or updates a rack
	SaveRack(ctx context.Context, rack *Rack) error

	// SaveBin creates or updates a bin
	SaveBin(ctx context.Context, bin *Bin) error
}

// StockTransferRepository defines the interface for stock transfer persistence
type StockTransferRepository interface {
	// FindByID finds a transfer by its ID, with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)

	// FindByTransferNumber finds a transfer by its document number
	FindByTransferNumber(ctx context.Context, transferNumber string) (*StockTransfer, error)

	// FindByStatus finds transfers in a given status
	FindByStatus(ctx context.Context, status TransferStatus, filter shared.Filter) ([]StockTransfer, error)

	// FindByWarehouse finds transfers originating from or destined to a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// FindAll finds all transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)

	// Save creates or updates a transfer with its lines
	Save(ctx context.Context, transfer *StockTransfer) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, transfer *StockTransfer) error

	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextTransferNumber generates the next transfer document number
	NextTransferNumber(ctx context.Context) (string, error)
}

// CycleCountRepository defines the interface for cycle count persistence
type CycleCountRepository interface {
	// FindByID finds a cycle count by its ID, with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*CycleCount, error)

	// FindByCountNumber finds a cycle count by its document number
	FindByCountNumber(ctx context.Context, countNumber string) (*CycleCount, error)

	// FindByWarehouse finds cycle counts for a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]CycleCount, error)

	// FindByDateRange finds cycle counts within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]CycleCount, error)

	// Save creates or updates a cycle count with its lines
	Save(ctx context.Context, count *CycleCount) error

	// Count counts cycle counts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextCountNumber generates the next cycle count document number
	NextCountNumber(ctx context.Context) (string, error)
}

// AlertRepository defines the interface for replenishment alert persistence
type AlertRepository interface {
	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindOpenByTypeAndItem finds the open alert of a type for an item, if any
	FindOpenByTypeAndItem(ctx context.Context, alertType AlertType, inventoryItemID uuid.UUID) (*Alert, error)

	// FindOpen finds all open alerts
	FindOpen(ctx context.Context, filter shared.Filter) ([]Alert, error)

	// FindByItem finds all alerts for an inventory item
	FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *Alert) error

	// Delete deletes an alert
	Delete(ctx context.Context, id uuid.UUID) error

	// CountOpen counts open alerts
	CountOpen(ctx context.Context) (int64, error)
}
