package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/inventory"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemCode         string          `json:"item_code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	BinID            *uuid.UUID      `json:"bin_id,omitempty"`
	StandardCost     decimal.Decimal `json:"standard_cost"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	SafetyStock      decimal.Decimal `json:"safety_stock"`
	LeadTimeDays     int             `json:"lead_time_days"`
	BatchTracked     bool            `json:"batch_tracked"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	AvailableStock   decimal.Decimal `json:"available_stock"`
	ReservedStock    decimal.Decimal `json:"reserved_stock"`
	Active           bool            `json:"active"`
	BelowSafetyStock bool            `json:"below_safety_stock"`
	BelowReorder     bool            `json:"below_reorder_level"`
	LastMovementDate *time.Time      `json:"last_movement_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToItemResponse converts a domain item to its response representation
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:               item.ID,
		ItemCode:         item.ItemCode,
		Name:             item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		WarehouseID:      item.WarehouseID,
		BinID:            item.BinID,
		StandardCost:     item.StandardCost,
		ReorderLevel:     item.ReorderLevel,
		SafetyStock:      item.SafetyStock,
		LeadTimeDays:     item.LeadTimeDays,
		BatchTracked:     item.BatchTracked,
		CurrentStock:     item.CurrentStock,
		AvailableStock:   item.AvailableStock,
		ReservedStock:    item.ReservedStock,
		Active:           item.Active,
		BelowSafetyStock: item.IsBelowSafetyStock(),
		BelowReorder:     item.IsBelowReorderLevel(),
		LastMovementDate: item.LastMovementDate,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	}
}

// CreateItemRequest represents a request to register a new inventory item
type CreateItemRequest struct {
	ItemCode     string          `json:"item_code" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	WarehouseID  uuid.UUID       `json:"warehouse_id" validate:"required"`
	StandardCost decimal.Decimal `json:"standard_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	LeadTimeDays int             `json:"lead_time_days" validate:"min=0"`
	BatchTracked bool            `json:"batch_tracked"`
}

// UpdateItemMasterDataRequest represents a catalog attribute update
type UpdateItemMasterDataRequest struct {
	Category     string          `json:"category" validate:"max=100"`
	StandardCost decimal.Decimal `json:"standard_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	LeadTimeDays int             `json:"lead_time_days" validate:"min=0"`
	BatchTracked bool            `json:"batch_tracked"`
}

// TransactionResponse represents a stock ledger entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	Remarks         string          `json:"remarks,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToTransactionResponse converts a ledger entry to its response representation
func ToTransactionResponse(tx *inventory.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		InventoryItemID: tx.InventoryItemID,
		WarehouseID:     tx.WarehouseID,
		TransactionType: tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		UnitCost:        tx.UnitCost,
		TotalValue:      tx.TotalValue,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		ReferenceType:   tx.ReferenceType.String(),
		ReferenceID:     tx.ReferenceID,
		Remarks:         tx.Remarks,
		TransactionDate: tx.TransactionDate,
	}
}

// RecordTransactionRequest represents a request to append one ledger entry
type RecordTransactionRequest struct {
	ItemCode        string          `json:"item_code" validate:"required"`
	WarehouseID     uuid.UUID       `json:"warehouse_id" validate:"required"`
	TransactionType string          `json:"transaction_type" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ReferenceType   string          `json:"reference_type" validate:"required"`
	ReferenceID     string          `json:"reference_id" validate:"required"`
	Remarks         string          `json:"remarks" validate:"max=500"`
}

// ReservationLine is one item line of an order reservation
type ReservationLine struct {
	ItemCode    string          `json:"item_code" validate:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

// ReserveOrderRequest reserves material for an order, all lines or none
type ReserveOrderRequest struct {
	OrderType string            `json:"order_type" validate:"required,oneof=SALES_ORDER PRODUCTION_ORDER"`
	OrderID   string            `json:"order_id" validate:"required"`
	Lines     []ReservationLine `json:"lines" validate:"required,min=1,dive"`
}

// CreateBatchRequest represents a request to record a batch receipt
type CreateBatchRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" validate:"required"`
	BatchNumber     string          `json:"batch_number" validate:"required,max=100"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	SupplierLot     string          `json:"supplier_lot" validate:"max=100"`
}

// BatchResponse represents a batch record in API responses
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	SupplierLot     string          `json:"supplier_lot,omitempty"`
	ReceivedDate    time.Time       `json:"received_date"`
	Status          string          `json:"status"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}

// ToBatchResponse converts a batch record to its response representation
func ToBatchResponse(batch *inventory.BatchRecord, now time.Time) BatchResponse {
	return BatchResponse{
		ID:              batch.ID,
		InventoryItemID: batch.InventoryItemID,
		BatchNumber:     batch.BatchNumber,
		Quantity:        batch.Quantity,
		ManufactureDate: batch.ManufactureDate,
		ExpiryDate:      batch.ExpiryDate,
		SupplierLot:     batch.SupplierLot,
		ReceivedDate:    batch.ReceivedDate,
		Status:          batch.Status.String(),
		DaysUntilExpiry: batch.DaysUntilExpiry(now),
	}
}

// AssignLocationRequest represents a request to place an item on a rack/bin
type AssignLocationRequest struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" validate:"required"`
	RackCode        string    `json:"rack_code" validate:"required,max=50"`
	BinCode         string    `json:"bin_code" validate:"required,max=50"`
}

// PutAwayRequest moves received stock from the receiving area to a bin.
// The move is location-only, so it is recorded as a TRANSFER ledger entry
// with no quantity effect.
type PutAwayRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	RackCode        string          `json:"rack_code" validate:"required,max=50"`
	BinCode         string          `json:"bin_code" validate:"required,max=50"`
	ReferenceID     string          `json:"reference_id" validate:"required"`
	PutAwayBy       string          `json:"put_away_by" validate:"max=100"`
}

// CycleCountLineRequest is one counted line of a cycle count
type CycleCountLineRequest struct {
	ItemCode        string          `json:"item_code" validate:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Remarks         string          `json:"remarks" validate:"max=500"`
}

// CreateCycleCountRequest records a physical count for a warehouse
type CreateCycleCountRequest struct {
	WarehouseID uuid.UUID               `json:"warehouse_id" validate:"required"`
	CountedBy   string                  `json:"counted_by" validate:"required,max=100"`
	Remarks     string                  `json:"remarks" validate:"max=500"`
	Lines       []CycleCountLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CycleCountLineResponse is one line of a cycle count response
type CycleCountLineResponse struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
	Remarks         string          `json:"remarks,omitempty"`
}

// CycleCountResponse represents a cycle count document in API responses
type CycleCountResponse struct {
	ID          uuid.UUID                `json:"id"`
	CountNumber string                   `json:"count_number"`
	WarehouseID uuid.UUID                `json:"warehouse_id"`
	CountedBy   string                   `json:"counted_by"`
	CountDate   time.Time                `json:"count_date"`
	Remarks     string                   `json:"remarks,omitempty"`
	Lines       []CycleCountLineResponse `json:"lines"`
}

// ToCycleCountResponse converts a cycle count to its response representation
func ToCycleCountResponse(count *inventory.CycleCount) CycleCountResponse {
	lines := make([]CycleCountLineResponse, 0, len(count.Items))
	for _, line := range count.Items {
		lines = append(lines, CycleCountLineResponse{
			InventoryItemID: line.InventoryItemID,
			ItemCode:        line.ItemCode,
			SystemQuantity:  line.SystemQuantity,
			CountedQuantity: line.CountedQuantity,
			Variance:        line.Variance,
			Remarks:         line.Remarks,
		})
	}
	return CycleCountResponse{
		ID:          count.ID,
		CountNumber: count.CountNumber,
		WarehouseID: count.WarehouseID,
		CountedBy:   count.CountedBy,
		CountDate:   count.CountDate,
		Remarks:     count.Remarks,
		Lines:       lines,
	}
}

// StockAdjustmentRequest corrects a single item to a counted quantity
type StockAdjustmentRequest struct {
	ItemCode        string          `json:"item_code" validate:"required"`
	WarehouseID     uuid.UUID       `json:"warehouse_id" validate:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Reason          string          `json:"reason" validate:"max=500"`
	AdjustedBy      string          `json:"adjusted_by" validate:"max=100"`
}

// AdjustmentResponse reports the effect of a stock adjustment
type AdjustmentResponse struct {
	ItemCode         string          `json:"item_code"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Variance         decimal.Decimal `json:"variance"`
}

// TransferLineRequest is one requested line of a stock transfer
type TransferLineRequest struct {
	ItemCode string          `json:"item_code" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateTransferRequest opens a transfer between two warehouses
type CreateTransferRequest struct {
	FromWarehouseID uuid.UUID             `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   uuid.UUID             `json:"to_warehouse_id" validate:"required"`
	RequestedBy     string                `json:"requested_by" validate:"max=100"`
	Lines           []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ShipTransferRequest ships a pending transfer. Lines absent from
// ShippedQuantities ship their full requested quantity.
type ShipTransferRequest struct {
	ShippedQuantities map[uuid.UUID]decimal.Decimal `json:"shipped_quantities"`
}

// TransferLineReceipt carries the received quantity and optional destination
// bin for one transfer line
type TransferLineReceipt struct {
	Quantity *decimal.Decimal `json:"quantity"`
	RackCode string           `json:"rack_code" validate:"max=50"`
	BinCode  string           `json:"bin_code" validate:"max=50"`
}

// ReceiveTransferRequest receives an in-transit transfer. Lines absent from
// Receipts receive their full shipped quantity.
type ReceiveTransferRequest struct {
	Receipts map[uuid.UUID]TransferLineReceipt `json:"receipts"`
}

// TransferLineResponse is one line of a transfer response
type TransferLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemCode         string          `json:"item_code"`
	RequestedQty     decimal.Decimal `json:"requested_qty"`
	ShippedQty       decimal.Decimal `json:"shipped_qty"`
	ReceivedQty      decimal.Decimal `json:"received_qty"`
	DestinationBinID *uuid.UUID      `json:"destination_bin_id,omitempty"`
}

// TransferResponse represents a stock transfer in API responses
type TransferResponse struct {
	ID              uuid.UUID              `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromWarehouseID uuid.UUID              `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID              `json:"to_warehouse_id"`
	Status          string                 `json:"status"`
	RequestedBy     string                 `json:"requested_by,omitempty"`
	ShippedDate     *time.Time             `json:"shipped_date,omitempty"`
	ReceivedDate    *time.Time             `json:"received_date,omitempty"`
	Remarks         string                 `json:"remarks,omitempty"`
	Lines           []TransferLineResponse `json:"lines"`
}

// ToTransferResponse converts a transfer to its response representation
func ToTransferResponse(transfer *inventory.StockTransfer) TransferResponse {
	lines := make([]TransferLineResponse, 0, len(transfer.Items))
	for _, line := range transfer.Items {
		lines = append(lines, TransferLineResponse{
			ID:               line.ID,
			ItemCode:         line.ItemCode,
			RequestedQty:     line.RequestedQty,
			ShippedQty:       line.ShippedQty,
			ReceivedQty:      line.ReceivedQty,
			DestinationBinID: line.DestinationBinID,
		})
	}
	return TransferResponse{
		ID:              transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
		Status:          transfer.Status.String(),
		RequestedBy:     transfer.RequestedBy,
		ShippedDate:     transfer.ShippedDate,
		ReceivedDate:    transfer.ReceivedDate,
		Remarks:         transfer.Remarks,
		Lines:           lines,
	}
}

// GoodsReceiptLine is one received line of a goods receipt
type GoodsReceiptLine struct {
	ItemCode    string          `json:"item_code" validate:"required"`
	Name        string          `json:"name" validate:"max=200"`
	Unit        string          `json:"unit" validate:"max=20"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number" validate:"max=100"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	RackCode    string          `json:"rack_code" validate:"max=50"`
	BinCode     string          `json:"bin_code" validate:"max=50"`
}

// GoodsReceiptRequest books received purchase-order material into stock
type GoodsReceiptRequest struct {
	ReceiptNumber string             `json:"receipt_number" validate:"required,max=50"`
	WarehouseID   uuid.UUID          `json:"warehouse_id" validate:"required"`
	ReceivedBy    string             `json:"received_by" validate:"max=100"`
	Lines         []GoodsReceiptLine `json:"lines" validate:"required,min=1,dive"`
}

// AlertResponse represents a replenishment alert in API responses
type AlertResponse struct {
	ID              uuid.UUID       `json:"id"`
	AlertType       string          `json:"alert_type"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Status          string          `json:"status"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	SafetyStock     decimal.Decimal `json:"safety_stock"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToAlertResponse converts an alert to its response representation
func ToAlertResponse(alert *inventory.Alert) AlertResponse {
	return AlertResponse{
		ID:              alert.ID,
		AlertType:       alert.AlertType.String(),
		InventoryItemID: alert.InventoryItemID,
		ItemCode:        alert.ItemCode,
		WarehouseID:     alert.WarehouseID,
		Status:          alert.Status.String(),
		CurrentStock:    alert.CurrentStock,
		ReorderLevel:    alert.ReorderLevel,
		SafetyStock:     alert.SafetyStock,
		ResolvedAt:      alert.ResolvedAt,
		CreatedAt:       alert.CreatedAt,
	}
}

// StockInquiryFilter narrows the stock inquiry read
type StockInquiryFilter struct {
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	Category     string     `form:"category"`
	LowStockOnly bool       `form:"low_stock_only"`
	Search       string     `form:"search"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
}

// MovementReportFilter narrows the movement report read
type MovementReportFilter struct {
	WarehouseID     *uuid.UUID `form:"warehouse_id"`
	TransactionType string     `form:"transaction_type"`
	StartDate       time.Time  `form:"start_date" validate:"required"`
	EndDate         time.Time  `form:"end_date" validate:"required"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
}

// AgingRow is one line of the stock aging report
type AgingRow struct {
	ItemCode              string          `json:"item_code"`
	Name                  string          `json:"name"`
	WarehouseID           uuid.UUID       `json:"warehouse_id"`
	CurrentStock          decimal.Decimal `json:"current_stock"`
	StandardValue         decimal.Decimal `json:"standard_value"`
	DaysSinceLastMovement int             `json:"days_since_last_movement"`
	Bucket                string          `json:"bucket"`
}
