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

// TransferService drives the inter-branch transfer state machine. Shipment
// issues stock (OUT) at the source warehouse; receipt books it in (IN) at the
// destination, creating the destination item on first arrival. Each
// transition commits its document update, aggregate updates and ledger
// entries as one transaction.
type TransferService struct {
	txScope        TransactionScope
	transferRepo   inventory.StockTransferRepository
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewTransferService creates a new TransferService
func NewTransferService(txScope TransactionScope, transferRepo inventory.StockTransferRepository) *TransferService {
	return &TransferService{txScope: txScope, transferRepo: transferRepo, validate: validator.New()}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransferService) publishDomainEvents(ctx context.Context, roots ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// CreateStockTransfer opens a PENDING transfer between two warehouses
func (s *TransferService) CreateStockTransfer(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	transferNumber, err := s.transferRepo.NextTransferNumber(ctx)
	if err != nil {
		return nil, err
	}

	transfer, err := inventory.NewStockTransfer(transferNumber, req.FromWarehouseID, req.ToWarehouseID, req.RequestedBy)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := transfer.AddItem(line.ItemCode, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// ProcessStockTransferShipment ships a pending transfer: every line issues
// its shipped quantity at the source warehouse (OUT entry) and the transfer
// moves to IN_TRANSIT. Insufficient stock on any line rolls back the whole
// shipment.
func (s *TransferService) ProcessStockTransferShipment(ctx context.Context, transferID uuid.UUID, req ShipTransferRequest) (*TransferResponse, error) {
	var (
		response *TransferResponse
		transfer *inventory.StockTransfer
		mutated  []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		mutated = mutated[:0]

		var err error
		transfer, err = repos.TransferRepo().FindByID(ctx, transferID)
		if err != nil {
			return err
		}

		if err := transfer.Ship(req.ShippedQuantities); err != nil {
			return err
		}

		for idx := range transfer.Items {
			line := &transfer.Items[idx]
			item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, line.ItemCode, transfer.FromWarehouseID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrItemNotFound
				}
				return err
			}

			if _, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeOut, line.ShippedQty, item.StandardCost,
				inventory.ReferenceTypeStockTransfer, transfer.TransferNumber, ""); err != nil {
				return err
			}
			mutated = append(mutated, item)
		}

		if err := repos.TransferRepo().SaveWithLock(ctx, transfer); err != nil {
			return err
		}

		resp := ToTransferResponse(transfer)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots := make([]shared.AggregateRoot, 0, len(mutated)+1)
	roots = append(roots, transfer)
	for _, item := range mutated {
		roots = append(roots, item)
	}
	s.publishDomainEvents(ctx, roots...)
	return response, nil
}

// ProcessStockTransferReceipt receives an in-transit transfer: every line
// books its received quantity into the destination warehouse (IN entry),
// creating the destination item on first arrival, optionally assigning the
// destination bin, and the transfer moves to RECEIVED.
func (s *TransferService) ProcessStockTransferReceipt(ctx context.Context, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	var (
		response *TransferResponse
		transfer *inventory.StockTransfer
		mutated  []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		mutated = mutated[:0]

		var err error
		transfer, err = repos.TransferRepo().FindByID(ctx, transferID)
		if err != nil {
			return err
		}

		receivedQty := make(map[uuid.UUID]decimal.Decimal, len(req.Receipts))
		for lineID, receipt := range req.Receipts {
			if receipt.Quantity != nil {
				receivedQty[lineID] = *receipt.Quantity
			}
		}
		if err := transfer.Receive(receivedQty); err != nil {
			return err
		}

		for idx := range transfer.Items {
			line := &transfer.Items[idx]
			if line.ReceivedQty.IsZero() {
				continue
			}

			item, err := destinationItem(ctx, repos, line.ItemCode, transfer)
			if err != nil {
				return err
			}

			receipt, hasReceipt := req.Receipts[line.ID]
			if hasReceipt && receipt.RackCode != "" && receipt.BinCode != "" {
				bin, err := resolveBin(ctx, repos, transfer.ToWarehouseID, receipt.RackCode, receipt.BinCode)
				if err != nil {
					return err
				}
				if err := item.AssignBin(bin.ID); err != nil {
					return err
				}
				line.DestinationBinID = &bin.ID
			}

			if _, err := applyAndRecord(ctx, repos, item,
				inventory.TransactionTypeIn, line.ReceivedQty, item.StandardCost,
				inventory.ReferenceTypeStockTransfer, transfer.TransferNumber, ""); err != nil {
				return err
			}
			mutated = append(mutated, item)
		}

		if err := repos.TransferRepo().SaveWithLock(ctx, transfer); err != nil {
			return err
		}

		resp := ToTransferResponse(transfer)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots := make([]shared.AggregateRoot, 0, len(mutated)+1)
	roots = append(roots, transfer)
	for _, item := range mutated {
		roots = append(roots, item)
	}
	s.publishDomainEvents(ctx, roots...)
	return response, nil
}

// destinationItem resolves the destination-warehouse item for a transfer
// line, creating it from the source item's master data on first arrival
func destinationItem(ctx context.Context, repos TransactionalRepositories, itemCode string, transfer *inventory.StockTransfer) (*inventory.InventoryItem, error) {
	item, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, itemCode, transfer.ToWarehouseID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	source, err := repos.ItemRepo().FindByCodeAndWarehouse(ctx, itemCode, transfer.FromWarehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrItemNotFound
		}
		return nil, err
	}

	item, err = inventory.NewInventoryItem(source.ItemCode, source.Name, source.Unit, transfer.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if err := item.SetMasterData(source.Category, source.StandardCost, source.ReorderLevel, source.SafetyStock, source.LeadTimeDays, source.BatchTracked); err != nil {
		return nil, err
	}
	if err := repos.ItemRepo().Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CancelStockTransfer cancels a transfer that has not shipped
func (s *TransferService) CancelStockTransfer(ctx context.Context, transferID uuid.UUID, reason string) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := transfer.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.transferRepo.SaveWithLock(ctx, transfer); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, transfer)
	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetTransfer retrieves a transfer with its lines
func (s *TransferService) GetTransfer(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// ListTransfers lists transfers by status
func (s *TransferService) ListTransfers(ctx context.Context, status inventory.TransferStatus, filter shared.Filter) ([]TransferResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transfer status")
	}
	transfers, err := s.transferRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]TransferResponse, 0, len(transfers))
	for idx := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[idx]))
	}
	return responses, nil
}
