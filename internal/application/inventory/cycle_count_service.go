package inventory

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// CycleCountService records physical counts and reconciles variances through
// ADJUSTMENT ledger entries
type CycleCountService struct {
	txScope        TransactionScope
	countRepo      inventory.CycleCountRepository
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewCycleCountService creates a new CycleCountService
func NewCycleCountService(txScope TransactionScope, countRepo inventory.CycleCountRepository) *CycleCountService {
	return &CycleCountService{txScope: txScope, countRepo: countRepo, validate: validator.New()}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CycleCountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CycleCountService) publishDomainEvents(ctx context.Context, roots []*inventory.InventoryItem) {
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

// CreateCycleCount records a physical count for a warehouse. Each counted
// line is compared against the system quantity; every non-zero variance is
// reconciled with an ADJUSTMENT ledger entry that corrects the aggregate to
// the counted quantity. The count document, its adjustments and the aggregate
// updates commit as one transaction.
func (s *CycleCountService) CreateCycleCount(ctx context.Context, req CreateCycleCountRequest) (*CycleCountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		response *CycleCountResponse
		mutated  []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		mutated = mutated[:0]

		countNumber, err := repos.CycleCountRepo().NextCountNumber(ctx)
		if err != nil {
			return err
		}
		count, err := inventory.NewCycleCount(countNumber, req.WarehouseID, req.CountedBy)
		if err != nil {
			return err
		}
		count.Remarks = req.Remarks

		for _, lineReq := range req.Lines {
			item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, lineReq.ItemCode, req.WarehouseID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrItemNotFound
				}
				return err
			}

			line, err := count.AddLine(item, lineReq.CountedQuantity, lineReq.Remarks)
			if err != nil {
				return err
			}
			if !line.HasVariance() {
				continue
			}

			if _, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeAdjustment, lineReq.CountedQuantity, item.StandardCost,
				inventory.ReferenceTypeCycleCount, countNumber, lineReq.Remarks); err != nil {
				return err
			}
			mutated = append(mutated, item)
		}

		if err := repos.CycleCountRepo().Save(ctx, count); err != nil {
			return err
		}

		resp := ToCycleCountResponse(count)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, mutated)
	return response, nil
}

// PerformStockAdjustment corrects a single item to a counted quantity and
// reports the previous quantity, new quantity and variance
func (s *CycleCountService) PerformStockAdjustment(ctx context.Context, req StockAdjustmentRequest) (*AdjustmentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		response *AdjustmentResponse
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

		previous := item.CurrentStock
		if !req.CountedQuantity.Equal(previous) {
			if _, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeAdjustment, req.CountedQuantity, item.StandardCost,
				inventory.ReferenceTypeManual, "ADJ-"+item.ItemCode,
				withActor(req.Reason, req.AdjustedBy)); err != nil {
				return err
			}
			mutated = item
		}
		response = &AdjustmentResponse{
			ItemCode:         item.ItemCode,
			WarehouseID:      item.WarehouseID,
			PreviousQuantity: previous,
			NewQuantity:      item.CurrentStock,
			Variance:         item.CurrentStock.Sub(previous),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mutated != nil {
		s.publishDomainEvents(ctx, []*inventory.InventoryItem{mutated})
	}
	return response, nil
}

// GetCycleCount retrieves a cycle count document with its lines
func (s *CycleCountService) GetCycleCount(ctx context.Context, countNumber string) (*CycleCountResponse, error) {
	count, err := s.countRepo.FindByCountNumber(ctx, countNumber)
	if err != nil {
		return nil, err
	}
	response := ToCycleCountResponse(count)
	return &response, nil
}
