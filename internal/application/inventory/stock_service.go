package inventory

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// StockService maintains the stock ledger and the per-item aggregate.
// Every quantity mutation appends an immutable ledger entry and updates the
// item aggregate in the same transaction scope.
type StockService struct {
	txScope        TransactionScope
	itemRepo       inventory.InventoryItemRepository
	ledgerRepo     inventory.StockTransactionRepository
	eventPublisher shared.EventPublisher
	metrics        StockMetricsRecorder
	validate       *validator.Validate
}

// NewStockService creates a new StockService
func NewStockService(
	txScope TransactionScope,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.StockTransactionRepository,
) *StockService {
	return &StockService{
		txScope:    txScope,
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
		validate:   validator.New(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetricsRecorder sets the recorder for ledger business metrics
func (s *StockService) SetMetricsRecorder(recorder StockMetricsRecorder) {
	s.metrics = recorder
}

// publishDomainEvents publishes and clears the domain events of an aggregate.
// Publishing happens after the owning transaction commits; event bus errors
// are not propagated to the caller.
func (s *StockService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// CreateInventoryItem registers a new item code at a warehouse
func (s *StockService) CreateInventoryItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	exists, err := s.itemRepo.ExistsByCodeAndWarehouse(ctx, req.ItemCode, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateItemCode
	}

	item, err := inventory.NewInventoryItem(req.ItemCode, req.Name, req.Unit, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := item.SetMasterData(req.Category, req.StandardCost, req.ReorderLevel, req.SafetyStock, req.LeadTimeDays, req.BatchTracked); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// UpdateItemMasterData updates the catalog attributes of an item
func (s *StockService) UpdateItemMasterData(ctx context.Context, itemID uuid.UUID, req UpdateItemMasterDataRequest) (*ItemResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.SetMasterData(req.Category, req.StandardCost, req.ReorderLevel, req.SafetyStock, req.LeadTimeDays, req.BatchTracked); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// DeactivateItem soft-deactivates an item with no stock on hand
func (s *StockService) DeactivateItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := item.Deactivate(); err != nil {
		return err
	}
	return s.itemRepo.SaveWithLock(ctx, item)
}

// GetItem retrieves an item by ID
func (s *StockService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetItemByCode retrieves the item for an item code at a warehouse
func (s *StockService) GetItemByCode(ctx context.Context, itemCode string, warehouseID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByCodeAndWarehouse(ctx, itemCode, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// StockInquiry lists items with category/warehouse/low-stock filtering
func (s *StockService) StockInquiry(ctx context.Context, filter StockInquiryFilter) ([]ItemResponse, error) {
	var items []inventory.InventoryItem
	var err error

	if filter.LowStockOnly {
		items, err = s.itemRepo.FindBelowSafetyStock(ctx, filter.WarehouseID)
	} else {
		repoFilter := shared.DefaultFilter()
		if filter.Page > 0 {
			repoFilter.Page = filter.Page
		}
		if filter.PageSize > 0 {
			repoFilter.PageSize = filter.PageSize
		}
		repoFilter.Search = filter.Search
		if filter.Category != "" {
			repoFilter.Filters["category"] = filter.Category
		}
		if filter.WarehouseID != nil {
			items, err = s.itemRepo.FindByWarehouse(ctx, *filter.WarehouseID, repoFilter)
		} else {
			items, err = s.itemRepo.FindAll(ctx, repoFilter)
		}
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToItemResponse(&items[idx]))
	}
	return responses, nil
}

// RecordStockTransaction atomically appends a ledger entry and applies its
// effect to the item aggregate. The ledger append and the aggregate update
// share one transaction; a version conflict on the aggregate rolls back the
// entry, so concurrent callers can never both commit against the same stale
// available stock.
//
// Quantity is interpreted per type: for ADJUSTMENT it is the counted
// quantity the stock is corrected to; for every other type it is the moved
// quantity. A RESERVATION_RELEASE is clamped to the outstanding reservation
// and fails when nothing is reserved.
func (s *StockService) RecordStockTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	txType := inventory.TransactionType(req.TransactionType)
	if !txType.IsValid() {
		return nil, shared.ErrInvalidTransactionType
	}
	refType := inventory.ReferenceType(req.ReferenceType)
	if !refType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid reference type")
	}

	var (
		response *TransactionResponse
		mutated  *inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, req.ItemCode, req.WarehouseID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrItemNotFound
			}
			return err
		}

		entry, err := applyAndRecord(ctx, repos, item, txType, req.Quantity, req.UnitCost, refType, req.ReferenceID, req.Remarks)
		if err != nil {
			return err
		}

		mutated = item
		resp := ToTransactionResponse(entry)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, mutated)
	if s.metrics != nil {
		s.metrics.RecordLedgerEntry(ctx, req.TransactionType, req.ReferenceType)
	}
	return response, nil
}

// withActor appends the acting user to a ledger remark so the audit trail
// records who performed the movement.
func withActor(remarks, actor string) string {
	if actor == "" {
		return remarks
	}
	if remarks == "" {
		return "by " + actor
	}
	return remarks + " (by " + actor + ")"
}

// applyAndRecord applies one typed quantity effect to the aggregate, saves it
// under its version check, and appends the matching ledger entry. Callers must
// invoke it inside a transaction scope.
func applyAndRecord(
	ctx context.Context,
	repos TransactionalRepositories,
	item *inventory.InventoryItem,
	txType inventory.TransactionType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	refType inventory.ReferenceType,
	referenceID string,
	remarks string,
) (*inventory.StockTransaction, error) {
	balanceBefore := item.CurrentStock
	ledgerQty := quantity

	switch txType {
	case inventory.TransactionTypeIn:
		if err := item.Receive(quantity); err != nil {
			return nil, err
		}
	case inventory.TransactionTypeOut:
		if err := item.Issue(quantity); err != nil {
			return nil, err
		}
	case inventory.TransactionTypeReservation:
		if err := item.Reserve(quantity); err != nil {
			return nil, err
		}
	case inventory.TransactionTypeReservationRelease:
		released, err := item.Release(quantity)
		if err != nil {
			return nil, err
		}
		if released.IsZero() {
			return nil, shared.NewDomainError("NO_OUTSTANDING_RESERVATION", "Nothing is reserved for this item")
		}
		ledgerQty = released
	case inventory.TransactionTypeTransfer:
		// Location-only move, no quantity effect.
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.ErrInvalidQuantity
		}
	case inventory.TransactionTypeAdjustment:
		variance, err := item.AdjustTo(quantity)
		if err != nil {
			return nil, err
		}
		if variance.IsZero() {
			return nil, shared.NewDomainError("NO_VARIANCE", "Counted quantity equals system quantity")
		}
		ledgerQty = variance.Abs()
	default:
		return nil, shared.ErrInvalidTransactionType
	}

	if err := item.CheckInvariant(); err != nil {
		return nil, err
	}
	if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	entry, err := inventory.NewStockTransaction(
		item.ID, item.WarehouseID, txType,
		ledgerQty, unitCost,
		balanceBefore, item.CurrentStock,
		refType, referenceID,
	)
	if err != nil {
		return nil, err
	}
	if remarks != "" {
		entry.WithRemarks(remarks)
	}
	if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ReserveOrderMaterials reserves every line of an order in one transaction.
// Any failing line (unknown item, insufficient available stock) rolls back
// all previously reserved lines, so the outcome is all-or-nothing.
func (s *StockService) ReserveOrderMaterials(ctx context.Context, req ReserveOrderRequest) ([]TransactionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	refType := inventory.ReferenceType(req.OrderType)
	if !refType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid order type")
	}

	var (
		responses []TransactionResponse
		mutated   []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		responses = responses[:0]
		mutated = mutated[:0]
		for _, line := range req.Lines {
			item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, line.ItemCode, line.WarehouseID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrItemNotFound
				}
				return err
			}

			entry, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeReservation, line.Quantity, item.StandardCost,
				refType, req.OrderID, "")
			if err != nil {
				return err
			}

			responses = append(responses, ToTransactionResponse(entry))
			mutated = append(mutated, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range mutated {
		s.publishDomainEvents(ctx, item)
	}
	if s.metrics != nil {
		for range responses {
			s.metrics.RecordReservation(ctx, req.OrderType)
		}
	}
	return responses, nil
}

// ReleaseOrderReservation releases whatever is still reserved for an order
// and returns the number of item lines released. The outstanding quantity per
// item is the reference's reservation total minus its release total, so a
// second call finds nothing outstanding and returns zero without touching any
// aggregate.
func (s *StockService) ReleaseOrderReservation(ctx context.Context, orderType, orderID string) (int, error) {
	if orderID == "" {
		return 0, shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}
	refType := inventory.ReferenceType(orderType)
	if !refType.IsValid() {
		return 0, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid order type")
	}

	released := 0
	var mutated []*inventory.InventoryItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		released = 0
		mutated = mutated[:0]

		entries, err := repos.LedgerRepo().FindByReference(ctx, refType, orderID)
		if err != nil {
			return err
		}

		outstanding := make(map[uuid.UUID]decimal.Decimal)
		order := make([]uuid.UUID, 0)
		for idx := range entries {
			entry := &entries[idx]
			switch entry.TransactionType {
			case inventory.TransactionTypeReservation:
				if _, seen := outstanding[entry.InventoryItemID]; !seen {
					order = append(order, entry.InventoryItemID)
				}
				outstanding[entry.InventoryItemID] = outstanding[entry.InventoryItemID].Add(entry.Quantity)
			case inventory.TransactionTypeReservationRelease:
				outstanding[entry.InventoryItemID] = outstanding[entry.InventoryItemID].Sub(entry.Quantity)
			}
		}

		for _, itemID := range order {
			qty := outstanding[itemID]
			if !qty.IsPositive() {
				continue
			}
			item, err := repos.ItemRepo().FindByID(ctx, itemID)
			if err != nil {
				return err
			}
			if _, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeReservationRelease, qty, item.StandardCost,
				refType, orderID, ""); err != nil {
				return err
			}
			released++
			mutated = append(mutated, item)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, item := range mutated {
		s.publishDomainEvents(ctx, item)
	}
	return released, nil
}

// RebuildAggregate recomputes an item's cached quantities from its full
// ledger history and saves the corrected aggregate. This is the offline
// reconciliation path for a cached aggregate that has drifted from the
// ledger.
func (s *StockService) RebuildAggregate(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	var response *ItemResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}

		entries, err := repos.LedgerRepo().FindAllByItem(ctx, itemID)
		if err != nil {
			return err
		}

		current := decimal.Zero
		reserved := decimal.Zero
		for idx := range entries {
			entry := &entries[idx]
			current = current.Add(entry.SignedQuantity())
			switch entry.TransactionType {
			case inventory.TransactionTypeReservation:
				reserved = reserved.Add(entry.Quantity)
			case inventory.TransactionTypeReservationRelease:
				reserved = reserved.Sub(entry.Quantity)
			}
		}
		if reserved.IsNegative() {
			reserved = decimal.Zero
		}

		item.CurrentStock = current
		item.ReservedStock = reserved
		item.AvailableStock = current.Sub(reserved)
		if err := item.CheckInvariant(); err != nil {
			return err
		}
		item.IncrementVersion()

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		resp := ToItemResponse(item)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetItemTransactions returns the ledger entries of an item, oldest first
func (s *StockService) GetItemTransactions(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	entries, err := s.ledgerRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]TransactionResponse, 0, len(entries))
	for idx := range entries {
		responses = append(responses, ToTransactionResponse(&entries[idx]))
	}
	return responses, nil
}
