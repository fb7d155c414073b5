package inventory

import (
	"context"

	"github.com/mfgsuite/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// The aggregate maintenance contract depends on this scope: a ledger append
// and its aggregate update must be visible together or not at all, and a
// multi-line reservation shares one scope so a failed line rolls back every
// line before it.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// LedgerRepo returns the stock transaction repository scoped to the current transaction
	LedgerRepo() inventory.StockTransactionRepository
	// BatchRepo returns the batch record repository scoped to the current transaction
	BatchRepo() inventory.BatchRecordRepository
	// LocationRepo returns the rack/bin repository scoped to the current transaction
	LocationRepo() inventory.LocationRepository
	// TransferRepo returns the stock transfer repository scoped to the current transaction
	TransferRepo() inventory.StockTransferRepository
	// CycleCountRepo returns the cycle count repository scoped to the current transaction
	CycleCountRepo() inventory.CycleCountRepository
	// AlertRepo returns the alert repository scoped to the current transaction
	AlertRepo() inventory.AlertRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	itemRepo       inventory.InventoryItemRepository
	ledgerRepo     inventory.StockTransactionRepository
	batchRepo      inventory.BatchRecordRepository
	locationRepo   inventory.LocationRepository
	transferRepo   inventory.StockTransferRepository
	cycleCountRepo inventory.CycleCountRepository
	alertRepo      inventory.AlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.StockTransactionRepository,
	batchRepo inventory.BatchRecordRepository,
	locationRepo inventory.LocationRepository,
	transferRepo inventory.StockTransferRepository,
	cycleCountRepo inventory.CycleCountRepository,
	alertRepo inventory.AlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:       itemRepo,
		ledgerRepo:     ledgerRepo,
		batchRepo:      batchRepo,
		locationRepo:   locationRepo,
		transferRepo:   transferRepo,
		cycleCountRepo: cycleCountRepo,
		alertRepo:      alertRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// LedgerRepo returns the stock transaction repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.StockTransactionRepository {
	return s.ledgerRepo
}

// BatchRepo returns the batch record repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRecordRepository {
	return s.batchRepo
}

// LocationRepo returns the rack/bin repository.
func (s *NoOpTransactionScope) LocationRepo() inventory.LocationRepository {
	return s.locationRepo
}

// TransferRepo returns the stock transfer repository.
func (s *NoOpTransactionScope) TransferRepo() inventory.StockTransferRepository {
	return s.transferRepo
}

// CycleCountRepo returns the cycle count repository.
func (s *NoOpTransactionScope) CycleCountRepo() inventory.CycleCountRepository {
	return s.cycleCountRepo
}

// AlertRepo returns the alert repository.
func (s *NoOpTransactionScope) AlertRepo() inventory.AlertRepository {
	return s.alertRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
