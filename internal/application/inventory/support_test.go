package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// mockEventPublisher records published domain events for assertions
type mockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func newMockEventPublisher() *mockEventPublisher {
	return &mockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *mockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *mockEventPublisher) eventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// memItemRepo is an in-memory InventoryItemRepository
type memItemRepo struct {
	items map[uuid.UUID]inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]inventory.InventoryItem)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	item.SyncLoadedVersion()
	return &item, nil
}

func (r *memItemRepo) FindByCodeAndWarehouse(_ context.Context, itemCode string, warehouseID uuid.UUID) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ItemCode == itemCode && item.WarehouseID == warehouseID {
			found := item
			found.SyncLoadedVersion()
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindByCode(_ context.Context, itemCode string) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.ItemCode == itemCode {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *memItemRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.WarehouseID == warehouseID {
			result = append(result, item)
		}
	}
	sortItems(result)
	return result, nil
}

func (r *memItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	sortItems(result)
	return result, nil
}

func (r *memItemRepo) FindBelowSafetyStock(_ context.Context, warehouseID *uuid.UUID) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if warehouseID != nil && item.WarehouseID != *warehouseID {
			continue
		}
		if item.Active && item.IsBelowSafetyStock() {
			result = append(result, item)
		}
	}
	sortItems(result)
	return result, nil
}

func (r *memItemRepo) FindBelowReorderLevel(_ context.Context, warehouseID *uuid.UUID) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if warehouseID != nil && item.WarehouseID != *warehouseID {
			continue
		}
		if item.Active && item.IsBelowReorderLevel() {
			result = append(result, item)
		}
	}
	sortItems(result)
	return result, nil
}

func (r *memItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	result := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	item.SyncLoadedVersion()
	r.items[item.ID] = *item
	return nil
}

// SaveWithLock mirrors the real repository's conditional update exactly: the
// stored row must still hold the version the caller loaded, otherwise the
// save is a conflict.
func (r *memItemRepo) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if item.LoadedVersion() != stored.Version {
		return shared.ErrConcurrencyConflict
	}
	item.SyncLoadedVersion()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memItemRepo) ExistsByCodeAndWarehouse(_ context.Context, itemCode string, warehouseID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.ItemCode == itemCode && item.WarehouseID == warehouseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memItemRepo) SumStandardValueByWarehouse(_ context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range r.items {
		if item.WarehouseID == warehouseID {
			sum = sum.Add(item.StandardValue())
		}
	}
	return sum, nil
}

func sortItems(items []inventory.InventoryItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ItemCode == items[j].ItemCode {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].ItemCode < items[j].ItemCode
	})
}

// memLedgerRepo is an in-memory StockTransactionRepository
type memLedgerRepo struct {
	entries []inventory.StockTransaction
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{entries: make([]inventory.StockTransaction, 0)}
}

func (r *memLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	for idx := range r.entries {
		if r.entries[idx].ID == id {
			entry := r.entries[idx]
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLedgerRepo) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool { return e.InventoryItemID == itemID }), nil
}

func (r *memLedgerRepo) FindAllByItem(_ context.Context, itemID uuid.UUID) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool { return e.InventoryItemID == itemID }), nil
}

func (r *memLedgerRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool { return e.WarehouseID == warehouseID }), nil
}

func (r *memLedgerRepo) FindByReference(_ context.Context, refType inventory.ReferenceType, refID string) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool {
		return e.ReferenceType == refType && e.ReferenceID == refID
	}), nil
}

func (r *memLedgerRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool {
		return !e.TransactionDate.Before(start) && !e.TransactionDate.After(end)
	}), nil
}

func (r *memLedgerRepo) FindByType(_ context.Context, txType inventory.TransactionType, _ shared.Filter) ([]inventory.StockTransaction, error) {
	return r.filter(func(e *inventory.StockTransaction) bool { return e.TransactionType == txType }), nil
}

func (r *memLedgerRepo) FindLastMovement(_ context.Context, itemID uuid.UUID) (*inventory.StockTransaction, error) {
	for idx := len(r.entries) - 1; idx >= 0; idx-- {
		entry := r.entries[idx]
		if entry.InventoryItemID == itemID && entry.TransactionType.MovesStock() {
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLedgerRepo) Create(_ context.Context, tx *inventory.StockTransaction) error {
	r.entries = append(r.entries, *tx)
	return nil
}

func (r *memLedgerRepo) CreateBatch(ctx context.Context, txs []*inventory.StockTransaction) error {
	for _, tx := range txs {
		if err := r.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *memLedgerRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for idx := range r.entries {
		if r.entries[idx].InventoryItemID == itemID {
			count++
		}
	}
	return count, nil
}

func (r *memLedgerRepo) SumByItemTypeAndReference(_ context.Context, itemID uuid.UUID, txType inventory.TransactionType, refType inventory.ReferenceType, refID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for idx := range r.entries {
		e := &r.entries[idx]
		if e.InventoryItemID == itemID && e.TransactionType == txType && e.ReferenceType == refType && e.ReferenceID == refID {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum, nil
}

func (r *memLedgerRepo) filter(keep func(*inventory.StockTransaction) bool) []inventory.StockTransaction {
	result := make([]inventory.StockTransaction, 0)
	for idx := range r.entries {
		if keep(&r.entries[idx]) {
			result = append(result, r.entries[idx])
		}
	}
	return result
}

// memBatchRepo is an in-memory BatchRecordRepository
type memBatchRepo struct {
	batches map[uuid.UUID]inventory.BatchRecord
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]inventory.BatchRecord)}
}

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.BatchRecord, error) {
	batch, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &batch, nil
}

func (r *memBatchRepo) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]inventory.BatchRecord, error) {
	result := make([]inventory.BatchRecord, 0)
	for _, batch := range r.batches {
		if batch.InventoryItemID == itemID {
			result = append(result, batch)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *memBatchRepo) FindActiveByItem(_ context.Context, itemID uuid.UUID) ([]inventory.BatchRecord, error) {
	result := make([]inventory.BatchRecord, 0)
	for _, batch := range r.batches {
		if batch.InventoryItemID == itemID && batch.Status == inventory.BatchStatusActive {
			result = append(result, batch)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *memBatchRepo) FindByBatchNumber(_ context.Context, itemID uuid.UUID, batchNumber string) (*inventory.BatchRecord, error) {
	for _, batch := range r.batches {
		if batch.InventoryItemID == itemID && batch.BatchNumber == batchNumber {
			found := batch
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindExpiringSoon(_ context.Context, withinDays int, _ shared.Filter) ([]inventory.BatchRecord, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)
	result := make([]inventory.BatchRecord, 0)
	for _, batch := range r.batches {
		if batch.Status != inventory.BatchStatusActive || batch.ExpiryDate == nil {
			continue
		}
		if batch.ExpiryDate.After(now) && !batch.ExpiryDate.After(cutoff) {
			result = append(result, batch)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *memBatchRepo) FindExpired(_ context.Context, _ shared.Filter) ([]inventory.BatchRecord, error) {
	now := time.Now()
	result := make([]inventory.BatchRecord, 0)
	for _, batch := range r.batches {
		if batch.IsExpired(now) && batch.Quantity.IsPositive() {
			result = append(result, batch)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *memBatchRepo) Save(_ context.Context, batch *inventory.BatchRecord) error {
	r.batches[batch.ID] = *batch
	return nil
}

func (r *memBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *memBatchRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range r.batches {
		if batch.InventoryItemID == itemID {
			count++
		}
	}
	return count, nil
}

func sortBatches(batches []inventory.BatchRecord) {
	sort.Slice(batches, func(i, j int) bool {
		bi, bj := batches[i], batches[j]
		switch {
		case bi.ExpiryDate == nil && bj.ExpiryDate == nil:
			return bi.BatchNumber < bj.BatchNumber
		case bi.ExpiryDate == nil:
			return false
		case bj.ExpiryDate == nil:
			return true
		default:
			return bi.ExpiryDate.Before(*bj.ExpiryDate)
		}
	})
}

// memLocationRepo is an in-memory LocationRepository
type memLocationRepo struct {
	racks map[uuid.UUID]inventory.Rack
	bins  map[uuid.UUID]inventory.Bin
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{
		racks: make(map[uuid.UUID]inventory.Rack),
		bins:  make(map[uuid.UUID]inventory.Bin),
	}
}

func (r *memLocationRepo) FindRackByID(_ context.Context, id uuid.UUID) (*inventory.Rack, error) {
	rack, ok := r.racks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &rack, nil
}

func (r *memLocationRepo) FindRacksByWarehouse(_ context.Context, warehouseID uuid.UUID) ([]inventory.Rack, error) {
	result := make([]inventory.Rack, 0)
	for _, rack := range r.racks {
		if rack.WarehouseID == warehouseID {
			result = append(result, rack)
		}
	}
	return result, nil
}

func (r *memLocationRepo) GetOrCreateRack(_ context.Context, warehouseID uuid.UUID, code string) (*inventory.Rack, error) {
	for _, rack := range r.racks {
		if rack.WarehouseID == warehouseID && rack.Code == code {
			found := rack
			return &found, nil
		}
	}
	rack, err := inventory.NewRack(warehouseID, code)
	if err != nil {
		return nil, err
	}
	r.racks[rack.ID] = *rack
	return rack, nil
}

func (r *memLocationRepo) FindBinByID(_ context.Context, id uuid.UUID) (*inventory.Bin, error) {
	bin, ok := r.bins[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &bin, nil
}

func (r *memLocationRepo) FindBinsByRack(_ context.Context, rackID uuid.UUID) ([]inventory.Bin, error) {
	result := make([]inventory.Bin, 0)
	for _, bin := range r.bins {
		if bin.RackID == rackID {
			result = append(result, bin)
		}
	}
	return result, nil
}

func (r *memLocationRepo) GetOrCreateBin(_ context.Context, rackID uuid.UUID, code string) (*inventory.Bin, error) {
	for _, bin := range r.bins {
		if bin.RackID == rackID && bin.Code == code {
			found := bin
			return &found, nil
		}
	}
	bin, err := inventory.NewBin(rackID, code)
	if err != nil {
		return nil, err
	}
	r.bins[bin.ID] = *bin
	return bin, nil
}

func (r *memLocationRepo) SaveRack(_ context.Context, rack *inventory.Rack) error {
	r.racks[rack.ID] = *rack
	return nil
}

func (r *memLocationRepo) SaveBin(_ context.Context, bin *inventory.Bin) error {
	r.bins[bin.ID] = *bin
	return nil
}

// memTransferRepo is an in-memory StockTransferRepository
type memTransferRepo struct {
	transfers map[uuid.UUID]inventory.StockTransfer
	seq       int
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{transfers: make(map[uuid.UUID]inventory.StockTransfer)}
}

func copyTransfer(t inventory.StockTransfer) inventory.StockTransfer {
	items := make([]inventory.StockTransferItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}

func (r *memTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	found := copyTransfer(transfer)
	found.SyncLoadedVersion()
	return &found, nil
}

func (r *memTransferRepo) FindByTransferNumber(_ context.Context, transferNumber string) (*inventory.StockTransfer, error) {
	for _, transfer := range r.transfers {
		if transfer.TransferNumber == transferNumber {
			found := copyTransfer(transfer)
			found.SyncLoadedVersion()
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindByStatus(_ context.Context, status inventory.TransferStatus, _ shared.Filter) ([]inventory.StockTransfer, error) {
	result := make([]inventory.StockTransfer, 0)
	for _, transfer := range r.transfers {
		if transfer.Status == status {
			result = append(result, copyTransfer(transfer))
		}
	}
	return result, nil
}

func (r *memTransferRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.StockTransfer, error) {
	result := make([]inventory.StockTransfer, 0)
	for _, transfer := range r.transfers {
		if transfer.FromWarehouseID == warehouseID || transfer.ToWarehouseID == warehouseID {
			result = append(result, copyTransfer(transfer))
		}
	}
	return result, nil
}

func (r *memTransferRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockTransfer, error) {
	result := make([]inventory.StockTransfer, 0, len(r.transfers))
	for _, transfer := range r.transfers {
		result = append(result, copyTransfer(transfer))
	}
	return result, nil
}

func (r *memTransferRepo) Save(_ context.Context, transfer *inventory.StockTransfer) error {
	transfer.SyncLoadedVersion()
	r.transfers[transfer.ID] = copyTransfer(*transfer)
	return nil
}

// SaveWithLock mirrors the real repository's conditional update: the stored
// row must still hold the version the caller loaded.
func (r *memTransferRepo) SaveWithLock(_ context.Context, transfer *inventory.StockTransfer) error {
	stored, ok := r.transfers[transfer.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if transfer.LoadedVersion() != stored.Version {
		return shared.ErrConcurrencyConflict
	}
	transfer.SyncLoadedVersion()
	r.transfers[transfer.ID] = copyTransfer(*transfer)
	return nil
}

func (r *memTransferRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.transfers)), nil
}

func (r *memTransferRepo) NextTransferNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("TRF-%04d", r.seq), nil
}

// memCycleCountRepo is an in-memory CycleCountRepository
type memCycleCountRepo struct {
	counts map[uuid.UUID]inventory.CycleCount
	seq    int
}

func newMemCycleCountRepo() *memCycleCountRepo {
	return &memCycleCountRepo{counts: make(map[uuid.UUID]inventory.CycleCount)}
}

func copyCycleCount(c inventory.CycleCount) inventory.CycleCount {
	items := make([]inventory.CycleCountItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func (r *memCycleCountRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.CycleCount, error) {
	count, ok := r.counts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	found := copyCycleCount(count)
	return &found, nil
}

func (r *memCycleCountRepo) FindByCountNumber(_ context.Context, countNumber string) (*inventory.CycleCount, error) {
	for _, count := range r.counts {
		if count.CountNumber == countNumber {
			found := copyCycleCount(count)
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCycleCountRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]inventory.CycleCount, error) {
	result := make([]inventory.CycleCount, 0)
	for _, count := range r.counts {
		if count.WarehouseID == warehouseID {
			result = append(result, copyCycleCount(count))
		}
	}
	return result, nil
}

func (r *memCycleCountRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]inventory.CycleCount, error) {
	result := make([]inventory.CycleCount, 0)
	for _, count := range r.counts {
		if !count.CountDate.Before(start) && !count.CountDate.After(end) {
			result = append(result, copyCycleCount(count))
		}
	}
	return result, nil
}

func (r *memCycleCountRepo) Save(_ context.Context, count *inventory.CycleCount) error {
	r.counts[count.ID] = copyCycleCount(*count)
	return nil
}

func (r *memCycleCountRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.counts)), nil
}

func (r *memCycleCountRepo) NextCountNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("CC-%04d", r.seq), nil
}

// memAlertRepo is an in-memory AlertRepository
type memAlertRepo struct {
	alerts map[uuid.UUID]inventory.Alert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: make(map[uuid.UUID]inventory.Alert)}
}

func (r *memAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Alert, error) {
	alert, ok := r.alerts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &alert, nil
}

func (r *memAlertRepo) FindOpenByTypeAndItem(_ context.Context, alertType inventory.AlertType, itemID uuid.UUID) (*inventory.Alert, error) {
	for _, alert := range r.alerts {
		if alert.AlertType == alertType && alert.InventoryItemID == itemID && alert.IsOpen() {
			found := alert
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAlertRepo) FindOpen(_ context.Context, _ shared.Filter) ([]inventory.Alert, error) {
	result := make([]inventory.Alert, 0)
	for _, alert := range r.alerts {
		if alert.IsOpen() {
			result = append(result, alert)
		}
	}
	return result, nil
}

func (r *memAlertRepo) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]inventory.Alert, error) {
	result := make([]inventory.Alert, 0)
	for _, alert := range r.alerts {
		if alert.InventoryItemID == itemID {
			result = append(result, alert)
		}
	}
	return result, nil
}

func (r *memAlertRepo) Save(_ context.Context, alert *inventory.Alert) error {
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *memAlertRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.alerts, id)
	return nil
}

func (r *memAlertRepo) CountOpen(_ context.Context) (int64, error) {
	var count int64
	for _, alert := range r.alerts {
		if alert.IsOpen() {
			count++
		}
	}
	return count, nil
}

// memScope is a TransactionScope over the in-memory repositories. It
// snapshots all repository state before running the function and restores
// the snapshot when the function fails, mirroring a database rollback.
type memScope struct {
	itemRepo       *memItemRepo
	ledgerRepo     *memLedgerRepo
	batchRepo      *memBatchRepo
	locationRepo   *memLocationRepo
	transferRepo   *memTransferRepo
	cycleCountRepo *memCycleCountRepo
	alertRepo      *memAlertRepo
}

func newMemScope() *memScope {
	return &memScope{
		itemRepo:       newMemItemRepo(),
		ledgerRepo:     newMemLedgerRepo(),
		batchRepo:      newMemBatchRepo(),
		locationRepo:   newMemLocationRepo(),
		transferRepo:   newMemTransferRepo(),
		cycleCountRepo: newMemCycleCountRepo(),
		alertRepo:      newMemAlertRepo(),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memScope) snapshot() func() {
	items := copyMap(s.itemRepo.items)
	entries := make([]inventory.StockTransaction, len(s.ledgerRepo.entries))
	copy(entries, s.ledgerRepo.entries)
	batches := copyMap(s.batchRepo.batches)
	racks := copyMap(s.locationRepo.racks)
	bins := copyMap(s.locationRepo.bins)
	transfers := copyMap(s.transferRepo.transfers)
	transferSeq := s.transferRepo.seq
	counts := copyMap(s.cycleCountRepo.counts)
	countSeq := s.cycleCountRepo.seq
	alerts := copyMap(s.alertRepo.alerts)

	return func() {
		s.itemRepo.items = items
		s.ledgerRepo.entries = entries
		s.batchRepo.batches = batches
		s.locationRepo.racks = racks
		s.locationRepo.bins = bins
		s.transferRepo.transfers = transfers
		s.transferRepo.seq = transferSeq
		s.cycleCountRepo.counts = counts
		s.cycleCountRepo.seq = countSeq
		s.alertRepo.alerts = alerts
	}
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	restore := s.snapshot()
	if err := fn(s); err != nil {
		restore()
		return err
	}
	return nil
}

func (s *memScope) ItemRepo() inventory.InventoryItemRepository      { return s.itemRepo }
func (s *memScope) LedgerRepo() inventory.StockTransactionRepository { return s.ledgerRepo }
func (s *memScope) BatchRepo() inventory.BatchRecordRepository       { return s.batchRepo }
func (s *memScope) LocationRepo() inventory.LocationRepository       { return s.locationRepo }
func (s *memScope) TransferRepo() inventory.StockTransferRepository  { return s.transferRepo }
func (s *memScope) CycleCountRepo() inventory.CycleCountRepository   { return s.cycleCountRepo }
func (s *memScope) AlertRepo() inventory.AlertRepository             { return s.alertRepo }

var _ TransactionScope = (*memScope)(nil)
var _ TransactionalRepositories = (*memScope)(nil)

// itemCodeList renders item codes for failure messages
func itemCodeList(items []inventory.InventoryItem) string {
	codes := make([]string, 0, len(items))
	for idx := range items {
		codes = append(codes, items[idx].ItemCode)
	}
	return strings.Join(codes, ",")
}
