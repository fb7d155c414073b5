package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInventoryItem = "InventoryItem"
	AggregateTypeStockTransfer = "StockTransfer"
)

// Event type constants
const (
	EventTypeStockReceived          = "StockReceived"
	EventTypeStockIssued            = "StockIssued"
	EventTypeStockReserved          = "StockReserved"
	EventTypeReservationReleased    = "ReservationReleased"
	EventTypeStockAdjusted          = "StockAdjusted"
	EventTypeItemBinAssigned        = "ItemBinAssigned"
	EventTypeSafetyStockBreached    = "SafetyStockBreached"
	EventTypeStockTransferShipped   = "StockTransferShipped"
	EventTypeStockTransferReceived  = "StockTransferReceived"
	EventTypeStockTransferCancelled = "StockTransferCancelled"
)

// StockReceivedEvent is raised when stock enters a warehouse
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(item *InventoryItem, quantity decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Quantity:        quantity,
		CurrentStock:    item.CurrentStock,
	}
}

// StockIssuedEvent is raised when stock leaves a warehouse
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
}

// NewStockIssuedEvent creates a new StockIssuedEvent
func NewStockIssuedEvent(item *InventoryItem, quantity decimal.Decimal) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Quantity:        quantity,
		CurrentStock:    item.CurrentStock,
	}
}

// StockReservedEvent is raised when available stock is held for an order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	AvailableStock  decimal.Decimal `json:"available_stock"`
	ReservedStock   decimal.Decimal `json:"reserved_stock"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(item *InventoryItem, quantity decimal.Decimal) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Quantity:        quantity,
		AvailableStock:  item.AvailableStock,
		ReservedStock:   item.ReservedStock,
	}
}

// ReservationReleasedEvent is raised when a reservation returns to available stock
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	AvailableStock  decimal.Decimal `json:"available_stock"`
	ReservedStock   decimal.Decimal `json:"reserved_stock"`
}

// NewReservationReleasedEvent creates a new ReservationReleasedEvent
func NewReservationReleasedEvent(item *InventoryItem, quantity decimal.Decimal) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Quantity:        quantity,
		AvailableStock:  item.AvailableStock,
		ReservedStock:   item.ReservedStock,
	}
}

// StockAdjustedEvent is raised when a cycle count or manual adjustment corrects stock
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Variance        decimal.Decimal `json:"variance"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, variance decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		Variance:        variance,
		CurrentStock:    item.CurrentStock,
	}
}

// ItemBinAssignedEvent is raised when an item's bin reference changes
type ItemBinAssignedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	ItemCode        string    `json:"item_code"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	BinID           uuid.UUID `json:"bin_id"`
}

// NewItemBinAssignedEvent creates a new ItemBinAssignedEvent
func NewItemBinAssignedEvent(item *InventoryItem, binID uuid.UUID) *ItemBinAssignedEvent {
	return &ItemBinAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemBinAssigned, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		BinID:           binID,
	}
}

// SafetyStockBreachedEvent is raised when current stock falls to or below the
// safety stock level. The notification collaborator consumes it.
type SafetyStockBreachedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	SafetyStock     decimal.Decimal `json:"safety_stock"`
}

// NewSafetyStockBreachedEvent creates a new SafetyStockBreachedEvent
func NewSafetyStockBreachedEvent(item *InventoryItem) *SafetyStockBreachedEvent {
	return &SafetyStockBreachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSafetyStockBreached, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		WarehouseID:     item.WarehouseID,
		CurrentStock:    item.CurrentStock,
		SafetyStock:     item.SafetyStock,
	}
}

// StockTransferShippedEvent is raised when a transfer leaves the source branch
type StockTransferShippedEvent struct {
	shared.BaseDomainEvent
	TransferID      uuid.UUID `json:"transfer_id"`
	TransferNumber  string    `json:"transfer_number"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
}

// NewStockTransferShippedEvent creates a new StockTransferShippedEvent
func NewStockTransferShippedEvent(transfer *StockTransfer) *StockTransferShippedEvent {
	return &StockTransferShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferShipped, AggregateTypeStockTransfer, transfer.ID),
		TransferID:      transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
	}
}

// StockTransferReceivedEvent is raised when a transfer arrives at the destination branch
type StockTransferReceivedEvent struct {
	shared.BaseDomainEvent
	TransferID      uuid.UUID `json:"transfer_id"`
	TransferNumber  string    `json:"transfer_number"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
}

// NewStockTransferReceivedEvent creates a new StockTransferReceivedEvent
func NewStockTransferReceivedEvent(transfer *StockTransfer) *StockTransferReceivedEvent {
	return &StockTransferReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferReceived, AggregateTypeStockTransfer, transfer.ID),
		TransferID:      transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
	}
}

// StockTransferCancelledEvent is raised when a pending transfer is cancelled
type StockTransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	Reason         string    `json:"reason,omitempty"`
}

// NewStockTransferCancelledEvent creates a new StockTransferCancelledEvent
func NewStockTransferCancelledEvent(transfer *StockTransfer, reason string) *StockTransferCancelledEvent {
	return &StockTransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferCancelled, AggregateTypeStockTransfer, transfer.ID),
		TransferID:      transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		Reason:          reason,
	}
}
