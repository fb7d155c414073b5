package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// TransferStatus represents the status of an inter-branch stock transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusReceived, TransferStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusInTransit || target == TransferStatusCancelled
	case TransferStatusInTransit:
		return target == TransferStatusReceived
	case TransferStatusReceived, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for RECEIVED and CANCELLED
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusReceived || s == TransferStatusCancelled
}

// StockTransferItem is a line item on a stock transfer. Received quantity may
// fall short of shipped quantity; reconciling the variance is caller policy.
type StockTransferItem struct {
	shared.BaseEntity
	TransferID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode         string          `gorm:"type:varchar(50);not null"`
	RequestedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShippedQty       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DestinationBinID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockTransferItem) TableName() string {
	return "stock_transfer_items"
}

// Variance returns shipped minus received quantity
func (i *StockTransferItem) Variance() decimal.Decimal {
	return i.ShippedQty.Sub(i.ReceivedQty)
}

// StockTransfer moves stock between branches through a multi-step state
// machine: PENDING -> IN_TRANSIT -> RECEIVED, with CANCELLED reachable only
// from PENDING. Quantity effects (OUT at source, IN at destination) are
// recorded in the ledger by the application service at each transition.
type StockTransfer struct {
	shared.BaseAggregateRoot
	TransferNumber  string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	FromWarehouseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToWarehouseID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status          TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RequestedBy     string         `gorm:"type:varchar(100)"`
	ShippedDate     *time.Time     `gorm:"type:timestamptz"`
	ReceivedDate    *time.Time     `gorm:"type:timestamptz"`
	Remarks         string         `gorm:"type:varchar(500)"`

	Items []StockTransferItem `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a new transfer in PENDING status
func NewStockTransfer(transferNumber string, fromWarehouseID, toWarehouseID uuid.UUID, requestedBy string) (*StockTransfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if fromWarehouseID == uuid.Nil || toWarehouseID == uuid.Nil {
		return nil, shared.ErrWarehouseNotFound
	}
	if fromWarehouseID == toWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouse must differ")
	}

	return &StockTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferNumber:    transferNumber,
		FromWarehouseID:   fromWarehouseID,
		ToWarehouseID:     toWarehouseID,
		Status:            TransferStatusPending,
		RequestedBy:       requestedBy,
		Items:             make([]StockTransferItem, 0),
	}, nil
}

// AddItem adds a requested line to a PENDING transfer
func (t *StockTransfer) AddItem(itemCode string, requestedQty decimal.Decimal) error {
	if t.Status != TransferStatusPending {
		return shared.NewTransferStateError(t.TransferNumber, t.Status.String(), t.Status.String())
	}
	if itemCode == "" {
		return shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if requestedQty.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}

	t.Items = append(t.Items, StockTransferItem{
		BaseEntity:   shared.NewBaseEntity(),
		TransferID:   t.ID,
		ItemCode:     itemCode,
		RequestedQty: requestedQty,
	})
	t.UpdatedAt = time.Now()
	return nil
}

// Ship transitions PENDING -> IN_TRANSIT and stamps shipped quantities.
// A line missing from shippedQty ships its full requested quantity; shipping
// more than requested is rejected.
func (t *StockTransfer) Ship(shippedQty map[uuid.UUID]decimal.Decimal) error {
	if !t.Status.CanTransitionTo(TransferStatusInTransit) {
		return shared.NewTransferStateError(t.TransferNumber, t.Status.String(), TransferStatusInTransit.String())
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("EMPTY_TRANSFER", "Transfer has no line items")
	}

	for idx := range t.Items {
		line := &t.Items[idx]
		qty, ok := shippedQty[line.ID]
		if !ok {
			qty = line.RequestedQty
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return shared.ErrInvalidQuantity
		}
		if qty.GreaterThan(line.RequestedQty) {
			return shared.NewDomainError("INVALID_QUANTITY", "Shipped quantity cannot exceed requested quantity")
		}
		line.ShippedQty = qty
		line.UpdatedAt = time.Now()
	}

	now := time.Now()
	t.Status = TransferStatusInTransit
	t.ShippedDate = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewStockTransferShippedEvent(t))
	return nil
}

// Receive transitions IN_TRANSIT -> RECEIVED and stamps received quantities.
// A line missing from receivedQty receives its full shipped quantity. Partial
// receipts (received < shipped) are allowed structurally.
func (t *StockTransfer) Receive(receivedQty map[uuid.UUID]decimal.Decimal) error {
	if !t.Status.CanTransitionTo(TransferStatusReceived) {
		return shared.NewTransferStateError(t.TransferNumber, t.Status.String(), TransferStatusReceived.String())
	}

	for idx := range t.Items {
		line := &t.Items[idx]
		qty, ok := receivedQty[line.ID]
		if !ok {
			qty = line.ShippedQty
		}
		if qty.IsNegative() {
			return shared.ErrInvalidQuantity
		}
		if qty.GreaterThan(line.ShippedQty) {
			return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot exceed shipped quantity")
		}
		line.ReceivedQty = qty
		line.UpdatedAt = time.Now()
	}

	now := time.Now()
	t.Status = TransferStatusReceived
	t.ReceivedDate = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewStockTransferReceivedEvent(t))
	return nil
}

// Cancel transitions PENDING -> CANCELLED. Shipped transfers cannot be
// cancelled; the stock is already in transit.
func (t *StockTransfer) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewTransferStateError(t.TransferNumber, t.Status.String(), TransferStatusCancelled.String())
	}

	t.Status = TransferStatusCancelled
	if reason != "" {
		t.Remarks = reason
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewStockTransferCancelledEvent(t, reason))
	return nil
}

// FindItem returns the line with the given ID, or nil
func (t *StockTransfer) FindItem(lineID uuid.UUID) *StockTransferItem {
	for idx := range t.Items {
		if t.Items[idx].ID == lineID {
			return &t.Items[idx]
		}
	}
	return nil
}
