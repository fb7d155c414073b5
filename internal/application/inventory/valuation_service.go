package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// ValuationService computes inventory value and the read-side reports over
// the ledger. All operations are read-only.
type ValuationService struct {
	itemRepo   inventory.InventoryItemRepository
	ledgerRepo inventory.StockTransactionRepository
}

// NewValuationService creates a new ValuationService
func NewValuationService(
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.StockTransactionRepository,
) *ValuationService {
	return &ValuationService{itemRepo: itemRepo, ledgerRepo: ledgerRepo}
}

// CalculateInventoryValuation values each item's current stock by replaying
// its ledger with the requested costing method, one row per item. Passing a
// warehouse ID restricts the run to that warehouse.
func (s *ValuationService) CalculateInventoryValuation(ctx context.Context, method inventory.ValuationMethod, warehouseID *uuid.UUID) ([]inventory.ValuationRow, error) {
	if !method.IsValid() {
		return nil, shared.ErrUnsupportedValuationMethod
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 0 // valuation is a full scan, not a page

	var items []inventory.InventoryItem
	var err error
	if warehouseID != nil {
		items, err = s.itemRepo.FindByWarehouse(ctx, *warehouseID, filter)
	} else {
		items, err = s.itemRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]inventory.ValuationRow, 0, len(items))
	for idx := range items {
		item := &items[idx]

		entries, err := s.ledgerRepo.FindAllByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}

		valuation, err := inventory.Valuate(method, item.CurrentStock, entries)
		if err != nil {
			return nil, err
		}

		rows = append(rows, inventory.ValuationRow{
			InventoryItemID: item.ID,
			ItemCode:        item.ItemCode,
			WarehouseID:     item.WarehouseID,
			Method:          method,
			Quantity:        item.CurrentStock,
			Valuation:       valuation,
		})
	}
	return rows, nil
}

// MovementReport lists ledger entries in a date range, optionally narrowed to
// a warehouse and transaction type
func (s *ValuationService) MovementReport(ctx context.Context, filter MovementReportFilter) ([]TransactionResponse, error) {
	if filter.EndDate.Before(filter.StartDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}

	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.WarehouseID != nil {
		repoFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.TransactionType != "" {
		txType := inventory.TransactionType(filter.TransactionType)
		if !txType.IsValid() {
			return nil, shared.ErrInvalidTransactionType
		}
		repoFilter.Filters["transaction_type"] = txType.String()
	}

	entries, err := s.ledgerRepo.FindByDateRange(ctx, filter.StartDate, filter.EndDate, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, 0, len(entries))
	for idx := range entries {
		responses = append(responses, ToTransactionResponse(&entries[idx]))
	}
	return responses, nil
}

// agingBucket maps days without movement to a report bucket label
func agingBucket(days int) string {
	switch {
	case days < 0:
		return "NEVER_MOVED"
	case days <= 30:
		return "0-30"
	case days <= 90:
		return "31-90"
	case days <= 180:
		return "91-180"
	default:
		return "180+"
	}
}

// AgingReport buckets stocked items by days since their last movement,
// valued at standard cost
func (s *ValuationService) AgingReport(ctx context.Context, warehouseID *uuid.UUID) ([]AgingRow, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0

	var items []inventory.InventoryItem
	var err error
	if warehouseID != nil {
		items, err = s.itemRepo.FindByWarehouse(ctx, *warehouseID, filter)
	} else {
		items, err = s.itemRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]AgingRow, 0, len(items))
	for idx := range items {
		item := &items[idx]
		if item.CurrentStock.IsZero() {
			continue
		}
		days := item.DaysSinceLastMovement(now)
		rows = append(rows, AgingRow{
			ItemCode:              item.ItemCode,
			Name:                  item.Name,
			WarehouseID:           item.WarehouseID,
			CurrentStock:          item.CurrentStock,
			StandardValue:         item.StandardValue(),
			DaysSinceLastMovement: days,
			Bucket:                agingBucket(days),
		})
	}
	return rows, nil
}
