package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations: a ledger
// append and its aggregate update commit together or not at all.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// LedgerRepo returns the stock transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LedgerRepo() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

// BatchRepo returns the batch record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BatchRepo() inventory.BatchRecordRepository {
	return NewGormBatchRecordRepository(r.tx)
}

// LocationRepo returns the rack/bin repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LocationRepo() inventory.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// TransferRepo returns the stock transfer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransferRepo() inventory.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

// CycleCountRepo returns the cycle count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CycleCountRepo() inventory.CycleCountRepository {
	return NewGormCycleCountRepository(r.tx)
}

// AlertRepo returns the alert repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AlertRepo() inventory.AlertRepository {
	return NewGormAlertRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
