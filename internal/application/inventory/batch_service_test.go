package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// seedBatchTrackedItem registers a batch-tracked item
func seedBatchTrackedItem(t *testing.T, scope *memScope, itemCode string, warehouseID uuid.UUID) *inventory.InventoryItem {
	t.Helper()

	item := seedItem(t, scope, itemCode, warehouseID, decimal.NewFromInt(100))
	require.NoError(t, item.SetMasterData("", decimal.NewFromInt(10), decimal.Zero, decimal.Zero, 0, true))
	require.NoError(t, scope.itemRepo.Save(context.Background(), item))
	return item
}

func TestBatchService_CreateBatchRecord(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("records a new batch", func(t *testing.T) {
		scope := newMemScope()
		service := NewBatchService(scope.itemRepo, scope.batchRepo)
		item := seedBatchTrackedItem(t, scope, "RESIN-01", warehouseID)
		expiry := time.Now().AddDate(0, 6, 0)

		resp, err := service.CreateBatchRecord(ctx, CreateBatchRequest{
			InventoryItemID: item.ID,
			BatchNumber:     "LOT-2401",
			Quantity:        decimal.NewFromInt(60),
			ExpiryDate:      &expiry,
			SupplierLot:     "SUP-889",
		})

		require.NoError(t, err)
		assert.Equal(t, "LOT-2401", resp.BatchNumber)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, inventory.BatchStatusActive.String(), resp.Status)
	})

	t.Run("extends an existing batch number instead of duplicating it", func(t *testing.T) {
		scope := newMemScope()
		service := NewBatchService(scope.itemRepo, scope.batchRepo)
		item := seedBatchTrackedItem(t, scope, "RESIN-01", warehouseID)

		_, err := service.CreateBatchRecord(ctx, CreateBatchRequest{
			InventoryItemID: item.ID,
			BatchNumber:     "LOT-2401",
			Quantity:        decimal.NewFromInt(60),
		})
		require.NoError(t, err)

		resp, err := service.CreateBatchRecord(ctx, CreateBatchRequest{
			InventoryItemID: item.ID,
			BatchNumber:     "LOT-2401",
			Quantity:        decimal.NewFromInt(40),
		})

		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(100)))
		count, err := scope.batchRepo.CountByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rejects a batch for an untracked item", func(t *testing.T) {
		scope := newMemScope()
		service := NewBatchService(scope.itemRepo, scope.batchRepo)
		item := seedItem(t, scope, "GEAR-01", warehouseID, decimal.NewFromInt(10))

		_, err := service.CreateBatchRecord(ctx, CreateBatchRequest{
			InventoryItemID: item.ID,
			BatchNumber:     "LOT-2401",
			Quantity:        decimal.NewFromInt(10),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_BATCH_TRACKED", domainErr.Code)
	})
}

func TestBatchService_ConsumeBatches(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	seedBatches := func(t *testing.T) (*BatchService, *memScope, *inventory.InventoryItem) {
		scope := newMemScope()
		service := NewBatchService(scope.itemRepo, scope.batchRepo)
		item := seedBatchTrackedItem(t, scope, "RESIN-01", warehouseID)

		near := time.Now().AddDate(0, 1, 0)
		far := time.Now().AddDate(0, 8, 0)
		for _, batch := range []CreateBatchRequest{
			{InventoryItemID: item.ID, BatchNumber: "LOT-FAR", Quantity: decimal.NewFromInt(70), ExpiryDate: &far},
			{InventoryItemID: item.ID, BatchNumber: "LOT-NEAR", Quantity: decimal.NewFromInt(30), ExpiryDate: &near},
		} {
			_, err := service.CreateBatchRecord(ctx, batch)
			require.NoError(t, err)
		}
		return service, scope, item
	}

	t.Run("consumes nearest-expiry batches first", func(t *testing.T) {
		service, ctxScope, item := seedBatches(t)

		consumed, err := service.ConsumeBatches(ctx, item.ID, decimal.NewFromInt(50))

		require.NoError(t, err)
		require.Len(t, consumed, 2)
		assert.Equal(t, "LOT-NEAR", consumed[0].BatchNumber)
		assert.Equal(t, inventory.BatchStatusConsumed.String(), consumed[0].Status)
		assert.True(t, consumed[0].Quantity.IsZero())
		assert.Equal(t, "LOT-FAR", consumed[1].BatchNumber)
		assert.True(t, consumed[1].Quantity.Equal(decimal.NewFromInt(50)))

		remaining, err := ctxScope.batchRepo.FindActiveByItem(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
	})

	t.Run("fails when the batches cannot cover the quantity", func(t *testing.T) {
		service, _, item := seedBatches(t)

		_, err := service.ConsumeBatches(ctx, item.ID, decimal.NewFromInt(500))

		var insufficient *shared.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
	})

	t.Run("rejects a non-positive quantity", func(t *testing.T) {
		service, _, item := seedBatches(t)

		_, err := service.ConsumeBatches(ctx, item.ID, decimal.Zero)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestBatchService_GetBatchesByItem(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	scope := newMemScope()
	service := NewBatchService(scope.itemRepo, scope.batchRepo)
	item := seedBatchTrackedItem(t, scope, "RESIN-01", warehouseID)

	// already past expiry when listed
	past := time.Now().AddDate(0, 0, -1)
	batch, err := inventory.NewBatchRecord(item.ID, "LOT-OLD", decimal.NewFromInt(10), nil, &past, "")
	require.NoError(t, err)
	require.NoError(t, scope.batchRepo.Save(ctx, batch))

	responses, err := service.GetBatchesByItem(ctx, item.ID, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, inventory.BatchStatusExpired.String(), responses[0].Status)

	// the flip is persisted
	stored, err := scope.batchRepo.FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.BatchStatusExpired, stored.Status)
}

func TestBatchService_GetExpiringBatches(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	scope := newMemScope()
	service := NewBatchService(scope.itemRepo, scope.batchRepo)
	item := seedBatchTrackedItem(t, scope, "RESIN-01", warehouseID)

	soon := time.Now().AddDate(0, 0, 10)
	far := time.Now().AddDate(0, 0, 300)
	for name, expiry := range map[string]time.Time{"LOT-SOON": soon, "LOT-FAR": far} {
		_, err := service.CreateBatchRecord(ctx, CreateBatchRequest{
			InventoryItemID: item.ID,
			BatchNumber:     name,
			Quantity:        decimal.NewFromInt(10),
			ExpiryDate:      &expiry,
		})
		require.NoError(t, err)
	}

	responses, err := service.GetExpiringBatches(ctx, 30, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "LOT-SOON", responses[0].BatchNumber)
}
