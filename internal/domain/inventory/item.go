package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// InventoryItem tracks the stock of one item code at one warehouse.
// It is the aggregate root for all quantity mutations.
//
// The quantity invariant CurrentStock == AvailableStock + ReservedStock
// (all three non-negative) must hold after every mutation; each domain
// method below preserves it or fails without mutating.
type InventoryItem struct {
	shared.BaseAggregateRoot
	ItemCode     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_item_code_warehouse,priority:1"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100);index"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	StandardCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SafetyStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LeadTimeDays int             `gorm:"not null;default:0"`
	BatchTracked bool            `gorm:"not null;default:false"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_code_warehouse,priority:2"`
	BinID        *uuid.UUID      `gorm:"type:uuid"`

	CurrentStock   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// Items are never hard-deleted; Active=false is the soft-deactivation flag.
	Active           bool       `gorm:"not null;default:true"`
	LastMovementDate *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item for an item code at a warehouse
func NewInventoryItem(itemCode, name, unit string, warehouseID uuid.UUID) (*InventoryItem, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.ErrWarehouseNotFound
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemCode:          itemCode,
		Name:              name,
		Unit:              unit,
		WarehouseID:       warehouseID,
		CurrentStock:      decimal.Zero,
		AvailableStock:    decimal.Zero,
		ReservedStock:     decimal.Zero,
		Active:            true,
	}, nil
}

// Receive adds quantity to current and available stock (IN)
func (i *InventoryItem) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}

	i.CurrentStock = i.CurrentStock.Add(quantity)
	i.AvailableStock = i.AvailableStock.Add(quantity)
	i.touch()

	i.AddDomainEvent(NewStockReceivedEvent(i, quantity))
	return nil
}

// Issue removes quantity from current and available stock (OUT).
// Fails with InsufficientStock if available stock cannot cover the quantity.
func (i *InventoryItem) Issue(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if i.AvailableStock.LessThan(quantity) {
		return shared.NewInsufficientStockError(i.ItemCode, quantity.String(), i.AvailableStock.String())
	}

	i.CurrentStock = i.CurrentStock.Sub(quantity)
	i.AvailableStock = i.AvailableStock.Sub(quantity)
	i.touch()

	i.AddDomainEvent(NewStockIssuedEvent(i, quantity))
	i.emitSafetyStockBreach()
	return nil
}

// Reserve moves quantity from available to reserved stock (RESERVATION).
// Current stock is unchanged. Fails with InsufficientStock when the
// available stock cannot cover the quantity.
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if i.AvailableStock.LessThan(quantity) {
		return shared.NewInsufficientStockError(i.ItemCode, quantity.String(), i.AvailableStock.String())
	}

	i.AvailableStock = i.AvailableStock.Sub(quantity)
	i.ReservedStock = i.ReservedStock.Add(quantity)
	i.touch()

	i.AddDomainEvent(NewStockReservedEvent(i, quantity))
	return nil
}

// Release moves quantity from reserved back to available stock
// (RESERVATION_RELEASE). Reserved stock never goes below zero: the
// released quantity is capped at the outstanding reservation and the
// actually released quantity is returned.
func (i *InventoryItem) Release(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.ErrInvalidQuantity
	}

	released := quantity
	if released.GreaterThan(i.ReservedStock) {
		released = i.ReservedStock
	}
	if released.IsZero() {
		return decimal.Zero, nil
	}

	i.ReservedStock = i.ReservedStock.Sub(released)
	i.AvailableStock = i.AvailableStock.Add(released)
	i.touch()

	i.AddDomainEvent(NewReservationReleasedEvent(i, released))
	return released, nil
}

// AdjustTo corrects current stock to the counted quantity (ADJUSTMENT).
// The delta is applied to current and available stock; reserved stock is
// untouched. Fails if the counted quantity cannot cover the outstanding
// reservations, since that would drive available stock negative.
func (i *InventoryItem) AdjustTo(countedQuantity decimal.Decimal) (decimal.Decimal, error) {
	if countedQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if countedQuantity.LessThan(i.ReservedStock) {
		return decimal.Zero, shared.NewInsufficientStockError(i.ItemCode, i.ReservedStock.String(), countedQuantity.String())
	}

	variance := countedQuantity.Sub(i.CurrentStock)
	if variance.IsZero() {
		return decimal.Zero, nil
	}

	i.CurrentStock = countedQuantity
	i.AvailableStock = countedQuantity.Sub(i.ReservedStock)
	i.touch()

	i.AddDomainEvent(NewStockAdjustedEvent(i, variance))
	i.emitSafetyStockBreach()
	return variance, nil
}

// AssignBin sets the bin reference for this item. Location changes never
// touch quantities.
func (i *InventoryItem) AssignBin(binID uuid.UUID) error {
	if binID == uuid.Nil {
		return shared.NewDomainError("INVALID_BIN", "Bin ID cannot be empty")
	}

	i.BinID = &binID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemBinAssignedEvent(i, binID))
	return nil
}

// SetMasterData updates the semi-static catalog attributes
func (i *InventoryItem) SetMasterData(category string, standardCost, reorderLevel, safetyStock decimal.Decimal, leadTimeDays int, batchTracked bool) error {
	if standardCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Standard cost cannot be negative")
	}
	if reorderLevel.IsNegative() || safetyStock.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Reorder level and safety stock cannot be negative")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}

	i.Category = category
	i.StandardCost = standardCost
	i.ReorderLevel = reorderLevel
	i.SafetyStock = safetyStock
	i.LeadTimeDays = leadTimeDays
	i.BatchTracked = batchTracked
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Deactivate soft-deactivates the item. Items with stock on hand or
// outstanding reservations cannot be deactivated.
func (i *InventoryItem) Deactivate() error {
	if !i.CurrentStock.IsZero() || !i.ReservedStock.IsZero() {
		return shared.NewDomainError("HAS_STOCK", "Cannot deactivate an item with stock on hand")
	}

	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// CheckInvariant verifies current == available + reserved with all three
// non-negative. A violation is a bug class, not a normal error; it is only
// correctable through a cycle-count adjustment.
func (i *InventoryItem) CheckInvariant() error {
	if i.CurrentStock.IsNegative() || i.AvailableStock.IsNegative() || i.ReservedStock.IsNegative() {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Stock quantities cannot be negative")
	}
	if !i.CurrentStock.Equal(i.AvailableStock.Add(i.ReservedStock)) {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Current stock must equal available plus reserved")
	}
	return nil
}

// IsBelowSafetyStock returns true if current stock is at or below the safety stock level
func (i *InventoryItem) IsBelowSafetyStock() bool {
	return i.SafetyStock.GreaterThan(decimal.Zero) && i.CurrentStock.LessThanOrEqual(i.SafetyStock)
}

// IsBelowReorderLevel returns true if current stock is at or below the reorder level
func (i *InventoryItem) IsBelowReorderLevel() bool {
	return i.ReorderLevel.GreaterThan(decimal.Zero) && i.CurrentStock.LessThanOrEqual(i.ReorderLevel)
}

// CanFulfill returns true if the available stock can cover the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.AvailableStock.GreaterThanOrEqual(quantity)
}

// StandardValue returns current stock valued at standard cost
func (i *InventoryItem) StandardValue() decimal.Decimal {
	return i.CurrentStock.Mul(i.StandardCost)
}

// DaysSinceLastMovement returns whole days since the last stock movement,
// or -1 when the item has never moved.
func (i *InventoryItem) DaysSinceLastMovement(now time.Time) int {
	if i.LastMovementDate == nil {
		return -1
	}
	return int(now.Sub(*i.LastMovementDate).Hours() / 24)
}

func (i *InventoryItem) touch() {
	now := time.Now()
	i.LastMovementDate = &now
	i.UpdatedAt = now
	i.IncrementVersion()
}

func (i *InventoryItem) emitSafetyStockBreach() {
	if i.IsBelowSafetyStock() {
		i.AddDomainEvent(NewSafetyStockBreachedEvent(i))
	}
}
