package inventory

import (
	"github.com/google/uuid"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// Rack is a storage rack inside a warehouse. Location is purely descriptive:
// warehouse -> rack -> bin, with no quantity semantics.
type Rack struct {
	shared.BaseEntity
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rack_warehouse_code,priority:1"`
	Code        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_rack_warehouse_code,priority:2"`
}

// TableName returns the table name for GORM
func (Rack) TableName() string {
	return "racks"
}

// NewRack creates a new rack
func NewRack(warehouseID uuid.UUID, code string) (*Rack, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.ErrWarehouseNotFound
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_RACK_CODE", "Rack code cannot be empty")
	}

	return &Rack{
		BaseEntity:  shared.NewBaseEntity(),
		WarehouseID: warehouseID,
		Code:        code,
	}, nil
}

// Bin is a storage bin inside a rack. An item or batch is assigned to at most
// one bin at a time.
type Bin struct {
	shared.BaseEntity
	RackID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bin_rack_code,priority:1"`
	Code   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_bin_rack_code,priority:2"`
}

// TableName returns the table name for GORM
func (Bin) TableName() string {
	return "bins"
}

// NewBin creates a new bin
func NewBin(rackID uuid.UUID, code string) (*Bin, error) {
	if rackID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RACK", "Rack ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_BIN_CODE", "Bin code cannot be empty")
	}

	return &Bin{
		BaseEntity: shared.NewBaseEntity(),
		RackID:     rackID,
		Code:       code,
	}, nil
}
