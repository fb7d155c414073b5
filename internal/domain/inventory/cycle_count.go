package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// CycleCountItem is one counted line of a cycle count document
type CycleCountItem struct {
	shared.BaseEntity
	CycleCountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemCode        string          `gorm:"type:varchar(50);not null"`
	SystemQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CountedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Variance        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remarks         string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CycleCountItem) TableName() string {
	return "cycle_count_items"
}

// HasVariance returns true if counted and system quantity differ
func (i *CycleCountItem) HasVariance() bool {
	return !i.Variance.IsZero()
}

// CycleCount is a physical-count reconciliation document. Each line with a
// non-zero variance produces one ADJUSTMENT ledger entry.
type CycleCount struct {
	shared.BaseAggregateRoot
	CountNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	CountedBy   string    `gorm:"type:varchar(100);not null"`
	CountDate   time.Time `gorm:"type:timestamptz;not null"`
	Remarks     string    `gorm:"type:varchar(500)"`

	Items []CycleCountItem `gorm:"foreignKey:CycleCountID;references:ID"`
}

// TableName returns the table name for GORM
func (CycleCount) TableName() string {
	return "cycle_counts"
}

// NewCycleCount creates a new cycle count document
func NewCycleCount(countNumber string, warehouseID uuid.UUID, countedBy string) (*CycleCount, error) {
	if countNumber == "" {
		return nil, shared.NewDomainError("INVALID_COUNT_NUMBER", "Count number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.ErrWarehouseNotFound
	}
	if countedBy == "" {
		return nil, shared.NewDomainError("INVALID_COUNTED_BY", "Counted-by cannot be empty")
	}

	return &CycleCount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CountNumber:       countNumber,
		WarehouseID:       warehouseID,
		CountedBy:         countedBy,
		CountDate:         time.Now(),
		Items:             make([]CycleCountItem, 0),
	}, nil
}

// AddLine records a counted line, computing variance = counted - system
func (c *CycleCount) AddLine(item *InventoryItem, countedQuantity decimal.Decimal, remarks string) (*CycleCountItem, error) {
	if item == nil {
		return nil, shared.ErrItemNotFound
	}
	if countedQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	line := CycleCountItem{
		BaseEntity:      shared.NewBaseEntity(),
		CycleCountID:    c.ID,
		InventoryItemID: item.ID,
		ItemCode:        item.ItemCode,
		SystemQuantity:  item.CurrentStock,
		CountedQuantity: countedQuantity,
		Variance:        countedQuantity.Sub(item.CurrentStock),
		Remarks:         remarks,
	}
	c.Items = append(c.Items, line)
	c.UpdatedAt = time.Now()
	return &c.Items[len(c.Items)-1], nil
}

// VarianceLines returns the lines whose counted quantity differs from system quantity
func (c *CycleCount) VarianceLines() []CycleCountItem {
	lines := make([]CycleCountItem, 0)
	for _, line := range c.Items {
		if line.HasVariance() {
			lines = append(lines, line)
		}
	}
	return lines
}
