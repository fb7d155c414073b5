package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

func newStockService(scope *memScope) (*StockService, *mockEventPublisher) {
	service := NewStockService(scope, scope.itemRepo, scope.ledgerRepo)
	publisher := newMockEventPublisher()
	service.SetEventPublisher(publisher)
	return service, publisher
}

// seedItem registers an item and books an opening balance directly against
// the in-memory repositories
func seedItem(t *testing.T, scope *memScope, itemCode string, warehouseID uuid.UUID, opening decimal.Decimal) *inventory.InventoryItem {
	t.Helper()

	item, err := inventory.NewInventoryItem(itemCode, itemCode+" test item", "PCS", warehouseID)
	require.NoError(t, err)
	if opening.IsPositive() {
		require.NoError(t, item.Receive(opening))
	}
	item.ClearDomainEvents()
	require.NoError(t, scope.itemRepo.Save(context.Background(), item))
	return item
}

func currentItem(t *testing.T, scope *memScope, id uuid.UUID) *inventory.InventoryItem {
	t.Helper()
	item, err := scope.itemRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

func TestStockService_CreateInventoryItem(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("registers a new item", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)

		resp, err := service.CreateInventoryItem(ctx, CreateItemRequest{
			ItemCode:     "BOLT-M8",
			Name:         "M8 hex bolt",
			Category:     "FASTENERS",
			Unit:         "PCS",
			WarehouseID:  warehouseID,
			StandardCost: decimal.NewFromFloat(0.12),
			ReorderLevel: decimal.NewFromInt(200),
			SafetyStock:  decimal.NewFromInt(100),
			LeadTimeDays: 7,
		})

		require.NoError(t, err)
		assert.Equal(t, "BOLT-M8", resp.ItemCode)
		assert.True(t, resp.CurrentStock.IsZero())
		assert.True(t, resp.AvailableStock.IsZero())
		assert.True(t, resp.ReservedStock.IsZero())
		assert.True(t, resp.Active)
	})

	t.Run("rejects a duplicate code in the same warehouse", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		seedItem(t, scope, "BOLT-M8", warehouseID, decimal.Zero)

		_, err := service.CreateInventoryItem(ctx, CreateItemRequest{
			ItemCode:    "BOLT-M8",
			Name:        "M8 hex bolt",
			Unit:        "PCS",
			WarehouseID: warehouseID,
		})

		assert.ErrorIs(t, err, shared.ErrDuplicateItemCode)
	})

	t.Run("allows the same code in another warehouse", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		seedItem(t, scope, "BOLT-M8", warehouseID, decimal.Zero)

		_, err := service.CreateInventoryItem(ctx, CreateItemRequest{
			ItemCode:    "BOLT-M8",
			Name:        "M8 hex bolt",
			Unit:        "PCS",
			WarehouseID: uuid.New(),
		})

		assert.NoError(t, err)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)

		_, err := service.CreateInventoryItem(ctx, CreateItemRequest{ItemCode: "X"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestStockService_RecordStockTransaction(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	record := func(service *StockService, itemCode, txType string, qty decimal.Decimal) (*TransactionResponse, error) {
		return service.RecordStockTransaction(ctx, RecordTransactionRequest{
			ItemCode:        itemCode,
			WarehouseID:     warehouseID,
			TransactionType: txType,
			Quantity:        qty,
			UnitCost:        decimal.NewFromInt(5),
			ReferenceType:   "MANUAL",
			ReferenceID:     "DOC-001",
		})
	}

	t.Run("IN adds to current and available stock", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		resp, err := record(service, "GEAR-01", "IN", decimal.NewFromInt(40))

		require.NoError(t, err)
		assert.True(t, resp.BalanceBefore.Equal(decimal.NewFromInt(100)))
		assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(140)))

		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(140)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(140)))
		assert.True(t, stored.ReservedStock.IsZero())
	})

	t.Run("OUT deducts available stock", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		_, err := record(service, "GEAR-01", "OUT", decimal.NewFromInt(30))

		require.NoError(t, err)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(70)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(70)))
	})

	t.Run("OUT beyond available stock fails and changes nothing", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		_, err := record(service, "GEAR-01", "OUT", decimal.NewFromInt(150))

		var insufficient *shared.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "GEAR-01", insufficient.ItemCode)

		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(100)))
		entries, err := scope.ledgerRepo.FindAllByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("RESERVATION moves available stock to reserved", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		resp, err := record(service, "GEAR-01", "RESERVATION", decimal.NewFromInt(25))

		require.NoError(t, err)
		// reservations never move physical stock
		assert.True(t, resp.BalanceBefore.Equal(resp.BalanceAfter))

		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(100)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(75)))
		assert.True(t, stored.ReservedStock.Equal(decimal.NewFromInt(25)))
	})

	t.Run("RESERVATION_RELEASE returns reserved stock to available", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		_, err := record(service, "GEAR-01", "RESERVATION", decimal.NewFromInt(25))
		require.NoError(t, err)

		_, err = record(service, "GEAR-01", "RESERVATION_RELEASE", decimal.NewFromInt(25))

		require.NoError(t, err)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(100)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(100)))
		assert.True(t, stored.ReservedStock.IsZero())
	})

	t.Run("RESERVATION_RELEASE clamps to the outstanding reservation", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		_, err := record(service, "GEAR-01", "RESERVATION", decimal.NewFromInt(10))
		require.NoError(t, err)

		resp, err := record(service, "GEAR-01", "RESERVATION_RELEASE", decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(10)))
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.ReservedStock.IsZero())
	})

	t.Run("RESERVATION_RELEASE with nothing reserved fails", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		_, err := record(service, "GEAR-01", "RESERVATION_RELEASE", decimal.NewFromInt(5))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_OUTSTANDING_RESERVATION", domainErr.Code)
	})

	t.Run("ADJUSTMENT corrects stock to the counted quantity", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(50))

		resp, err := record(service, "GEAR-01", "ADJUSTMENT", decimal.NewFromInt(48))

		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, resp.BalanceBefore.Equal(decimal.NewFromInt(50)))
		assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(48)))

		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(48)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(48)))
	})

	t.Run("ADJUSTMENT with no variance fails", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(50))

		_, err := record(service, "GEAR-01", "ADJUSTMENT", decimal.NewFromInt(50))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_VARIANCE", domainErr.Code)
	})

	t.Run("TRANSFER records a move without a quantity effect", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		resp, err := record(service, "GEAR-01", "TRANSFER", decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.True(t, resp.BalanceBefore.Equal(resp.BalanceAfter))
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(100)))
	})

	t.Run("unknown item code fails", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)

		_, err := record(service, "NOPE", "IN", decimal.NewFromInt(1))

		assert.ErrorIs(t, err, shared.ErrItemNotFound)
	})

	t.Run("unknown transaction type fails", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))

		_, err := record(service, "GEAR-01", "TELEPORT", decimal.NewFromInt(1))

		assert.ErrorIs(t, err, shared.ErrInvalidTransactionType)
	})

	t.Run("publishes a safety stock breach event after commit", func(t *testing.T) {
		scope := newMemScope()
		service, publisher := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		item.SafetyStock = decimal.NewFromInt(80)
		require.NoError(t, scope.itemRepo.Save(ctx, item))

		_, err := record(service, "GEAR-01", "OUT", decimal.NewFromInt(30))

		require.NoError(t, err)
		breaches := publisher.eventsByType(inventory.EventTypeSafetyStockBreached)
		require.Len(t, breaches, 1)
	})
}

func TestStockService_ReserveOrderMaterials(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("reserves every line of the order", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		first := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		second := seedItem(t, scope, "SHAFT-02", warehouseID, decimal.NewFromInt(40))

		responses, err := service.ReserveOrderMaterials(ctx, ReserveOrderRequest{
			OrderType: "SALES_ORDER",
			OrderID:   "SO-1001",
			Lines: []ReservationLine{
				{ItemCode: "GEAR-01", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(25)},
				{ItemCode: "SHAFT-02", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(10)},
			},
		})

		require.NoError(t, err)
		require.Len(t, responses, 2)

		storedFirst := currentItem(t, scope, first.ID)
		assert.True(t, storedFirst.AvailableStock.Equal(decimal.NewFromInt(75)))
		assert.True(t, storedFirst.ReservedStock.Equal(decimal.NewFromInt(25)))
		storedSecond := currentItem(t, scope, second.ID)
		assert.True(t, storedSecond.AvailableStock.Equal(decimal.NewFromInt(30)))
		assert.True(t, storedSecond.ReservedStock.Equal(decimal.NewFromInt(10)))
	})

	t.Run("one failing line rolls back the whole order", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		first := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		second := seedItem(t, scope, "SHAFT-02", warehouseID, decimal.NewFromInt(40))

		_, err := service.ReserveOrderMaterials(ctx, ReserveOrderRequest{
			OrderType: "SALES_ORDER",
			OrderID:   "SO-1002",
			Lines: []ReservationLine{
				{ItemCode: "GEAR-01", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(25)},
				{ItemCode: "SHAFT-02", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(150)},
			},
		})

		var insufficient *shared.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "SHAFT-02", insufficient.ItemCode)

		// the line that succeeded before the failure is rolled back too
		storedFirst := currentItem(t, scope, first.ID)
		assert.True(t, storedFirst.AvailableStock.Equal(decimal.NewFromInt(100)),
			"expected full available stock, items: %s", itemCodeList([]inventory.InventoryItem{*storedFirst}))
		assert.True(t, storedFirst.ReservedStock.IsZero())
		storedSecond := currentItem(t, scope, second.ID)
		assert.True(t, storedSecond.ReservedStock.IsZero())

		entries, findErr := scope.ledgerRepo.FindByReference(ctx, inventory.ReferenceTypeSalesOrder, "SO-1002")
		require.NoError(t, findErr)
		assert.Empty(t, entries)
	})

	t.Run("rejects an unknown order type", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)

		_, err := service.ReserveOrderMaterials(ctx, ReserveOrderRequest{
			OrderType: "WISHLIST",
			OrderID:   "SO-1003",
			Lines:     []ReservationLine{{ItemCode: "GEAR-01", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
	})
}

func TestStockService_ReleaseOrderReservation(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	setup := func(t *testing.T) (*StockService, *memScope, *inventory.InventoryItem) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(100))
		_, err := service.ReserveOrderMaterials(ctx, ReserveOrderRequest{
			OrderType: "SALES_ORDER",
			OrderID:   "SO-2001",
			Lines:     []ReservationLine{{ItemCode: "GEAR-01", WarehouseID: warehouseID, Quantity: decimal.NewFromInt(25)}},
		})
		require.NoError(t, err)
		return service, scope, item
	}

	t.Run("releases the outstanding reservation", func(t *testing.T) {
		service, scope, item := setup(t)

		released, err := service.ReleaseOrderReservation(ctx, "SALES_ORDER", "SO-2001")

		require.NoError(t, err)
		assert.Equal(t, 1, released)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.CurrentStock.Equal(decimal.NewFromInt(100)))
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(100)))
		assert.True(t, stored.ReservedStock.IsZero())
	})

	t.Run("a second release is a no-op", func(t *testing.T) {
		service, scope, item := setup(t)

		released, err := service.ReleaseOrderReservation(ctx, "SALES_ORDER", "SO-2001")
		require.NoError(t, err)
		require.Equal(t, 1, released)

		released, err = service.ReleaseOrderReservation(ctx, "SALES_ORDER", "SO-2001")

		require.NoError(t, err)
		assert.Equal(t, 0, released)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(100)))
		entries, findErr := scope.ledgerRepo.FindByReference(ctx, inventory.ReferenceTypeSalesOrder, "SO-2001")
		require.NoError(t, findErr)
		assert.Len(t, entries, 2)
	})

	t.Run("releasing an unknown order releases nothing", func(t *testing.T) {
		service, _, _ := setup(t)

		released, err := service.ReleaseOrderReservation(ctx, "SALES_ORDER", "SO-9999")

		require.NoError(t, err)
		assert.Equal(t, 0, released)
	})

	t.Run("releases only the not-yet-released remainder", func(t *testing.T) {
		service, scope, item := setup(t)
		// consume part of the reservation by releasing 10 against the order
		_, err := service.RecordStockTransaction(ctx, RecordTransactionRequest{
			ItemCode:        "GEAR-01",
			WarehouseID:     warehouseID,
			TransactionType: "RESERVATION_RELEASE",
			Quantity:        decimal.NewFromInt(10),
			ReferenceType:   "SALES_ORDER",
			ReferenceID:     "SO-2001",
		})
		require.NoError(t, err)

		released, err := service.ReleaseOrderReservation(ctx, "SALES_ORDER", "SO-2001")

		require.NoError(t, err)
		assert.Equal(t, 1, released)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.ReservedStock.IsZero())
		assert.True(t, stored.AvailableStock.Equal(decimal.NewFromInt(100)))
	})
}

func TestStockService_RebuildAggregate(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	scope := newMemScope()
	service, _ := newStockService(scope)
	item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.Zero)

	record := func(txType string, qty decimal.Decimal) {
		_, err := service.RecordStockTransaction(ctx, RecordTransactionRequest{
			ItemCode:        "GEAR-01",
			WarehouseID:     warehouseID,
			TransactionType: txType,
			Quantity:        qty,
			ReferenceType:   "MANUAL",
			ReferenceID:     "DOC-001",
		})
		require.NoError(t, err)
	}

	record("IN", decimal.NewFromInt(100))
	record("OUT", decimal.NewFromInt(20))
	record("RESERVATION", decimal.NewFromInt(30))
	record("ADJUSTMENT", decimal.NewFromInt(75))

	// corrupt the cached aggregate
	stored := currentItem(t, scope, item.ID)
	stored.CurrentStock = decimal.NewFromInt(999)
	stored.AvailableStock = decimal.NewFromInt(999)
	stored.ReservedStock = decimal.Zero
	require.NoError(t, scope.itemRepo.Save(ctx, stored))

	resp, err := service.RebuildAggregate(ctx, item.ID)

	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(decimal.NewFromInt(75)))
	assert.True(t, resp.ReservedStock.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.AvailableStock.Equal(decimal.NewFromInt(45)))
}

func TestStockService_DeactivateItem(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("deactivates an empty item", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.Zero)

		require.NoError(t, service.DeactivateItem(ctx, item.ID))

		stored := currentItem(t, scope, item.ID)
		assert.False(t, stored.Active)
	})

	t.Run("refuses to deactivate an item holding stock", func(t *testing.T) {
		scope := newMemScope()
		service, _ := newStockService(scope)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(5))

		err := service.DeactivateItem(ctx, item.ID)

		require.Error(t, err)
		stored := currentItem(t, scope, item.ID)
		assert.True(t, stored.Active)
	})
}
