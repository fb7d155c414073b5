package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// TransactionType represents the type of stock transaction
type TransactionType string

const (
	// TransactionTypeIn represents stock entering a warehouse (goods receipt, transfer receipt)
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut represents stock leaving a warehouse (issue, transfer shipment)
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeReservation represents a hold against available stock for an order
	TransactionTypeReservation TransactionType = "RESERVATION"
	// TransactionTypeReservationRelease represents a reservation being returned to available stock
	TransactionTypeReservationRelease TransactionType = "RESERVATION_RELEASE"
	// TransactionTypeTransfer represents a location-only move (put-away, bin change)
	TransactionTypeTransfer TransactionType = "TRANSFER"
	// TransactionTypeAdjustment represents a cycle-count or manual quantity correction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn,
		TransactionTypeOut,
		TransactionTypeReservation,
		TransactionTypeReservationRelease,
		TransactionTypeTransfer,
		TransactionTypeAdjustment:
		return true
	}
	return false
}

// MovesStock returns true if this transaction type changes current stock.
// Reservations shift quantity between available and reserved, transfers only
// change the bin reference; neither moves current stock.
func (t TransactionType) MovesStock() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType represents the source document type behind a transaction
type ReferenceType string

const (
	// ReferenceTypePurchaseOrder is a purchase order
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	// ReferenceTypeGoodsReceipt is a goods receipt note
	ReferenceTypeGoodsReceipt ReferenceType = "GOODS_RECEIPT"
	// ReferenceTypeSalesOrder is a sales order
	ReferenceTypeSalesOrder ReferenceType = "SALES_ORDER"
	// ReferenceTypeProductionOrder is a production order
	ReferenceTypeProductionOrder ReferenceType = "PRODUCTION_ORDER"
	// ReferenceTypeCycleCount is a cycle count document
	ReferenceTypeCycleCount ReferenceType = "CYCLE_COUNT"
	// ReferenceTypeStockTransfer is an inter-branch stock transfer
	ReferenceTypeStockTransfer ReferenceType = "STOCK_TRANSFER"
	// ReferenceTypePutAway is a put-away movement
	ReferenceTypePutAway ReferenceType = "PUT_AWAY"
	// ReferenceTypeManual is a manual operation without a source document
	ReferenceTypeManual ReferenceType = "MANUAL"
)

// String returns the string representation of ReferenceType
func (r ReferenceType) String() string {
	return string(r)
}

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypePurchaseOrder,
		ReferenceTypeGoodsReceipt,
		ReferenceTypeSalesOrder,
		ReferenceTypeProductionOrder,
		ReferenceTypeCycleCount,
		ReferenceTypeStockTransfer,
		ReferenceTypePutAway,
		ReferenceTypeManual:
		return true
	}
	return false
}

// StockTransaction is an immutable ledger entry recording one stock movement.
// Entries are never edited or deleted; corrections are made with new entries.
// Quantity is always positive, the effect on the aggregate is implied by the
// transaction type. BalanceBefore/BalanceAfter snapshot current stock around
// the entry so the ledger can be replayed and adjustment direction derived.
type StockTransaction struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_item"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_warehouse"`
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index:idx_stock_tx_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceType   ReferenceType   `gorm:"type:varchar(30);not null;index:idx_stock_tx_reference"`
	ReferenceID     string          `gorm:"type:varchar(100);not null;index:idx_stock_tx_reference"`
	Remarks         string          `gorm:"type:varchar(500)"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new ledger entry
func NewStockTransaction(
	inventoryItemID uuid.UUID,
	warehouseID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	referenceType ReferenceType,
	referenceID string,
) (*StockTransaction, error) {
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.ErrWarehouseNotFound
	}
	if !txType.IsValid() {
		return nil, shared.ErrInvalidTransactionType
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !referenceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid reference type")
	}
	if referenceID == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE_ID", "Reference ID cannot be empty")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: inventoryItemID,
		WarehouseID:     warehouseID,
		TransactionType: txType,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalValue:      quantity.Mul(unitCost),
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		ReferenceType:   referenceType,
		ReferenceID:     referenceID,
		TransactionDate: time.Now(),
	}, nil
}

// WithRemarks sets the remarks for the transaction
func (t *StockTransaction) WithRemarks(remarks string) *StockTransaction {
	t.Remarks = remarks
	return t
}

// WithTransactionDate sets the transaction date
func (t *StockTransaction) WithTransactionDate(date time.Time) *StockTransaction {
	t.TransactionDate = date
	return t
}

// IsAdjustmentDown returns true for adjustment entries that reduced stock.
// Direction is derived from the balance snapshot because quantity is unsigned.
func (t *StockTransaction) IsAdjustmentDown() bool {
	return t.TransactionType == TransactionTypeAdjustment && t.BalanceAfter.LessThan(t.BalanceBefore)
}

// IsAdjustmentUp returns true for adjustment entries that increased stock
func (t *StockTransaction) IsAdjustmentUp() bool {
	return t.TransactionType == TransactionTypeAdjustment && t.BalanceAfter.GreaterThan(t.BalanceBefore)
}

// SignedQuantity returns the quantity signed by its effect on current stock.
// Reservation and transfer entries return zero.
func (t *StockTransaction) SignedQuantity() decimal.Decimal {
	switch t.TransactionType {
	case TransactionTypeIn:
		return t.Quantity
	case TransactionTypeOut:
		return t.Quantity.Neg()
	case TransactionTypeAdjustment:
		if t.IsAdjustmentDown() {
			return t.Quantity.Neg()
		}
		return t.Quantity
	}
	return decimal.Zero
}
