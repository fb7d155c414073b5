package inventory

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// LocationService assigns items to rack/bin locations. Location changes
// never move quantity; a put-away leaves its trace in the ledger as a
// TRANSFER entry with equal balances.
type LocationService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewLocationService creates a new LocationService
func NewLocationService(txScope TransactionScope) *LocationService {
	return &LocationService{txScope: txScope, validate: validator.New()}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LocationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LocationService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventPublisher == nil || root == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// resolveBin resolves rack and bin by code within the warehouse, creating
// either when absent. Must run inside a transaction scope.
func resolveBin(ctx context.Context, repos TransactionalRepositories, warehouseID uuid.UUID, rackCode, binCode string) (*inventory.Bin, error) {
	rack, err := repos.LocationRepo().GetOrCreateRack(ctx, warehouseID, rackCode)
	if err != nil {
		return nil, err
	}
	return repos.LocationRepo().GetOrCreateBin(ctx, rack.ID, binCode)
}

// AssignLocation places an item into a bin, creating the rack/bin pair on
// first use
func (s *LocationService) AssignLocation(ctx context.Context, req AssignLocationRequest) (*ItemResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		response *ItemResponse
		mutated  *inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, req.InventoryItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrItemNotFound
			}
			return err
		}

		bin, err := resolveBin(ctx, repos, item.WarehouseID, req.RackCode, req.BinCode)
		if err != nil {
			return err
		}

		if err := item.AssignBin(bin.ID); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		mutated = item
		resp := ToItemResponse(item)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, mutated)
	return response, nil
}

// ProcessPutAway moves received stock into its storage bin and records the
// move as a TRANSFER ledger entry. Current, available and reserved stock are
// untouched; only the bin reference changes.
func (s *LocationService) ProcessPutAway(ctx context.Context, req PutAwayRequest) (*TransactionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		response *TransactionResponse
		mutated  *inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, req.InventoryItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrItemNotFound
			}
			return err
		}

		bin, err := resolveBin(ctx, repos, item.WarehouseID, req.RackCode, req.BinCode)
		if err != nil {
			return err
		}

		if err := item.AssignBin(bin.ID); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		entry, err := inventory.NewStockTransaction(
			item.ID, item.WarehouseID, inventory.TransactionTypeTransfer,
			req.Quantity, item.StandardCost,
			item.CurrentStock, item.CurrentStock,
			inventory.ReferenceTypePutAway, req.ReferenceID,
		)
		if err != nil {
			return err
		}
		entry.WithRemarks(withActor(req.RackCode+"/"+req.BinCode, req.PutAwayBy))
		if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
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
	return response, nil
}
