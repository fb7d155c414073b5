package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// BatchService tracks lot-level quantity and expiry for batch-tracked items
type BatchService struct {
	itemRepo  inventory.InventoryItemRepository
	batchRepo inventory.BatchRecordRepository
	validate  *validator.Validate
}

// NewBatchService creates a new BatchService
func NewBatchService(
	itemRepo inventory.InventoryItemRepository,
	batchRepo inventory.BatchRecordRepository,
) *BatchService {
	return &BatchService{itemRepo: itemRepo, batchRepo: batchRepo, validate: validator.New()}
}

// CreateBatchRecord records a received batch for a batch-tracked item. A
// receipt carrying an already known batch number extends the existing record
// instead of creating a duplicate.
func (s *BatchService) CreateBatchRecord(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	item, err := s.itemRepo.FindByID(ctx, req.InventoryItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrItemNotFound
		}
		return nil, err
	}
	if !item.BatchTracked {
		return nil, shared.NewDomainError("NOT_BATCH_TRACKED", "Item is not batch tracked")
	}

	existing, err := s.batchRepo.FindByBatchNumber(ctx, item.ID, req.BatchNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		if err := existing.Extend(req.Quantity); err != nil {
			return nil, err
		}
		if err := s.batchRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		response := ToBatchResponse(existing, now)
		return &response, nil
	}

	batch, err := inventory.NewBatchRecord(item.ID, req.BatchNumber, req.Quantity, req.ManufactureDate, req.ExpiryDate, req.SupplierLot)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch, now)
	return &response, nil
}

// GetBatchesByItem lists the batches of an item. Expiry is evaluated lazily:
// an active batch whose expiry date has passed is flipped to EXPIRED and
// persisted before it is returned.
func (s *BatchService) GetBatchesByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		batch := &batches[idx]
		if batch.RefreshStatus(now) {
			if err := s.batchRepo.Save(ctx, batch); err != nil {
				return nil, err
			}
		}
		responses = append(responses, ToBatchResponse(batch, now))
	}
	return responses, nil
}

// ConsumeBatches deducts an issued quantity from an item's active batches,
// oldest expiry first, and returns the updated batches. Consumption across
// batches is informational allocation; the aggregate quantity change is
// recorded by the ledger, not here.
func (s *BatchService) ConsumeBatches(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) ([]BatchResponse, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	batches, err := s.batchRepo.FindActiveByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	remaining := quantity
	responses := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		if !remaining.IsPositive() {
			break
		}
		batch := &batches[idx]
		consumed, err := batch.Consume(remaining)
		if err != nil {
			return nil, err
		}
		if consumed.IsZero() {
			continue
		}
		remaining = remaining.Sub(consumed)
		if err := s.batchRepo.Save(ctx, batch); err != nil {
			return nil, err
		}
		responses = append(responses, ToBatchResponse(batch, now))
	}

	if remaining.IsPositive() {
		return nil, shared.NewInsufficientStockError(itemID.String(), quantity.String(), quantity.Sub(remaining).String())
	}
	return responses, nil
}

// RefreshExpiredBatches flips active batches whose expiry date has passed to
// EXPIRED. The background scan calls this so expiry does not depend on a read
// path touching the batch first. Returns the number of batches flipped.
func (s *BatchService) RefreshExpiredBatches(ctx context.Context) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	batches, err := s.batchRepo.FindExpired(ctx, filter)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	flipped := 0
	for idx := range batches {
		batch := &batches[idx]
		if !batch.RefreshStatus(now) {
			continue
		}
		if err := s.batchRepo.Save(ctx, batch); err != nil {
			return flipped, err
		}
		flipped++
	}
	return flipped, nil
}

// GetExpiringBatches lists active batches expiring within the given days
func (s *BatchService) GetExpiringBatches(ctx context.Context, withinDays int, filter shared.Filter) ([]BatchResponse, error) {
	if withinDays < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Days cannot be negative")
	}
	batches, err := s.batchRepo.FindExpiringSoon(ctx, withinDays, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		responses = append(responses, ToBatchResponse(&batches[idx], now))
	}
	return responses, nil
}
