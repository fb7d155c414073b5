package inventory

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GoodsReceiptService books received purchase-order material into stock.
// Every line appends an IN ledger entry; batch-tracked lines additionally
// create or extend their batch record, and lines carrying a rack/bin are
// put away in the same transaction.
type GoodsReceiptService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewGoodsReceiptService creates a new GoodsReceiptService
func NewGoodsReceiptService(txScope TransactionScope) *GoodsReceiptService {
	return &GoodsReceiptService{txScope: txScope, validate: validator.New()}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GoodsReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoodsReceiptService) publishDomainEvents(ctx context.Context, roots []*inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// ProcessGoodsReceipt books every line of a goods receipt into stock in one
// transaction. A line for an unknown item code registers the item first when
// the line carries name and unit; otherwise the receipt fails. All lines
// succeed or the whole receipt rolls back.
func (s *GoodsReceiptService) ProcessGoodsReceipt(ctx context.Context, req GoodsReceiptRequest) ([]TransactionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		responses []TransactionResponse
		mutated   []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		responses = responses[:0]
		mutated = mutated[:0]

		for _, line := range req.Lines {
			item, err := s.receiptItem(ctx, repos, req.WarehouseID, line)
			if err != nil {
				return err
			}

			if line.RackCode != "" && line.BinCode != "" {
				bin, err := resolveBin(ctx, repos, req.WarehouseID, line.RackCode, line.BinCode)
				if err != nil {
					return err
				}
				if err := item.AssignBin(bin.ID); err != nil {
					return err
				}
			}

			entry, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeIn, line.Quantity, line.UnitCost,
				inventory.ReferenceTypeGoodsReceipt, req.ReceiptNumber,
				withActor("", req.ReceivedBy))
			if err != nil {
				return err
			}

			if item.BatchTracked && line.BatchNumber != "" {
				if err := s.recordBatch(ctx, repos, item, line); err != nil {
					return err
				}
			}

			responses = append(responses, ToTransactionResponse(entry))
			mutated = append(mutated, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, mutated)
	return responses, nil
}

// receiptItem resolves the item for a receipt line, registering it from the
// line's master data when the item code is new to the warehouse
func (s *GoodsReceiptService) receiptItem(ctx context.Context, repos TransactionalRepositories, warehouseID uuid.UUID, line GoodsReceiptLine) (*inventory.InventoryItem, error) {
	item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, line.ItemCode, warehouseID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if line.Name == "" || line.Unit == "" {
		return nil, shared.ErrItemNotFound
	}

	item, err = inventory.NewInventoryItem(line.ItemCode, line.Name, line.Unit, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := repos.ItemRepo().Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// recordBatch creates or extends the batch record for a batch-tracked line
func (s *GoodsReceiptService) recordBatch(ctx context.Context, repos TransactionalRepositories, item *inventory.InventoryItem, line GoodsReceiptLine) error {
	existing, err := repos.BatchRepo().FindByBatchNumber(ctx, item.ID, line.BatchNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		if err := existing.Extend(line.Quantity); err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, existing)
	}

	batch, err := inventory.NewBatchRecord(item.ID, line.BatchNumber, line.Quantity, nil, line.ExpiryDate, "")
	if err != nil {
		return err
	}
	return repos.BatchRepo().Save(ctx, batch)
}
