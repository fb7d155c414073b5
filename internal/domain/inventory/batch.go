package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// BatchStatus represents the lifecycle status of a batch record
type BatchStatus string

const (
	// BatchStatusActive means the batch still carries usable quantity
	BatchStatusActive BatchStatus = "ACTIVE"
	// BatchStatusExpired means the batch expiry date has passed
	BatchStatusExpired BatchStatus = "EXPIRED"
	// BatchStatusConsumed means the batch quantity has been fully issued
	BatchStatusConsumed BatchStatus = "CONSUMED"
)

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// BatchRecord tracks lot-level quantity and expiry for a batch-tracked item.
// Batches are informational partitions of the item's current stock; they do
// not carry reservation bookkeeping.
type BatchRecord struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_item_number,priority:1"`
	BatchNumber     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_item_number,priority:2"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ManufactureDate *time.Time      `gorm:"type:timestamptz"`
	ExpiryDate      *time.Time      `gorm:"type:timestamptz;index"`
	SupplierLot     string          `gorm:"type:varchar(100)"`
	ReceivedDate    time.Time       `gorm:"type:timestamptz;not null"`
	Status          BatchStatus     `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (BatchRecord) TableName() string {
	return "batch_records"
}

// NewBatchRecord creates a new batch record in ACTIVE status
func NewBatchRecord(inventoryItemID uuid.UUID, batchNumber string, quantity decimal.Decimal, manufactureDate, expiryDate *time.Time, supplierLot string) (*BatchRecord, error) {
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	return &BatchRecord{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: inventoryItemID,
		BatchNumber:     batchNumber,
		Quantity:        quantity,
		ManufactureDate: manufactureDate,
		ExpiryDate:      expiryDate,
		SupplierLot:     supplierLot,
		ReceivedDate:    time.Now(),
		Status:          BatchStatusActive,
	}, nil
}

// IsExpired returns true if the batch expiry date is in the past
func (b *BatchRecord) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// RefreshStatus lazily moves an ACTIVE batch to EXPIRED once its expiry date
// has passed. Returns true if the status changed.
func (b *BatchRecord) RefreshStatus(now time.Time) bool {
	if b.Status == BatchStatusActive && b.IsExpired(now) {
		b.Status = BatchStatusExpired
		b.UpdatedAt = now
		return true
	}
	return false
}

// Extend adds received quantity to the batch and reactivates a consumed batch
func (b *BatchRecord) Extend(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}

	b.Quantity = b.Quantity.Add(quantity)
	if b.Status == BatchStatusConsumed {
		b.Status = BatchStatusActive
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Consume deducts issued quantity from the batch, capping at the batch
// quantity, and returns the actually consumed amount. The batch moves to
// CONSUMED when its quantity reaches zero.
func (b *BatchRecord) Consume(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.ErrInvalidQuantity
	}

	consumed := quantity
	if consumed.GreaterThan(b.Quantity) {
		consumed = b.Quantity
	}

	b.Quantity = b.Quantity.Sub(consumed)
	if b.Quantity.IsZero() {
		b.Status = BatchStatusConsumed
	}
	b.UpdatedAt = time.Now()
	return consumed, nil
}

// DaysUntilExpiry returns whole days until expiry, -1 when the batch has no expiry date
func (b *BatchRecord) DaysUntilExpiry(now time.Time) int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(b.ExpiryDate.Sub(now).Hours() / 24)
}
