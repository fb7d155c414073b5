package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// newMockGormDB creates a GORM DB backed by a mocked SQL connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newMockInventoryItemRepository creates a GormInventoryItemRepository with a mocked SQL connection
func newMockInventoryItemRepository(t *testing.T) (*GormInventoryItemRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormInventoryItemRepository(gormDB), mock, mockDB
}

func TestNewGormInventoryItemRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormInventoryItemRepository_FindByID(t *testing.T) {
	t.Run("finds existing inventory item", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()
		warehouseID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "item_code", "name", "unit", "warehouse_id",
			"current_stock", "available_stock", "reserved_stock", "version", "active",
		}).AddRow(
			itemID, "RM-0001", "Steel Plate 3mm", "kg", warehouseID,
			decimal.NewFromInt(100), decimal.NewFromInt(90), decimal.NewFromInt(10), 1, true,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)

		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "RM-0001", item.ItemCode)
		assert.Equal(t, warehouseID, item.WarehouseID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent item", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE id = \$1`).
			WithArgs(itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByID(context.Background(), itemID)

		assert.Error(t, err)
		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindByCodeAndWarehouse(t *testing.T) {
	t.Run("finds item by code within warehouse", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()
		warehouseID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "item_code", "name", "unit", "warehouse_id", "version",
		}).AddRow(itemID, "RM-0001", "Steel Plate 3mm", "kg", warehouseID, 1)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE item_code = \$1 AND warehouse_id = \$2`).
			WithArgs("RM-0001", warehouseID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByCodeAndWarehouse(context.Background(), "RM-0001", warehouseID)

		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, itemID, item.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps record-not-found to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE item_code = \$1 AND warehouse_id = \$2`).
			WithArgs("RM-9999", warehouseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByCodeAndWarehouse(context.Background(), "RM-9999", warehouseID)

		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindByIDs(t *testing.T) {
	t.Run("returns empty slice for empty input", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		items, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds multiple items", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		id1 := uuid.New()
		id2 := uuid.New()
		warehouseID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "item_code", "warehouse_id", "version"}).
			AddRow(id1, "RM-0001", warehouseID, 1).
			AddRow(id2, "RM-0002", warehouseID, 1)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE id IN`).
			WithArgs(id1, id2).
			WillReturnRows(rows)

		items, err := repo.FindByIDs(context.Background(), []uuid.UUID{id1, id2})

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_Save(t *testing.T) {
	t.Run("saves inventory item", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item, err := inventory.NewInventoryItem("RM-0001", "Steel Plate 3mm", "kg", uuid.New())
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_Delete(t *testing.T) {
	t.Run("deletes existing inventory item", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()

		mock.ExpectExec(`DELETE FROM "inventory_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), itemID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent item", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()

		mock.ExpectExec(`DELETE FROM "inventory_items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), itemID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_ExistsByCodeAndWarehouse(t *testing.T) {
	t.Run("returns true when item exists", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items"`).
			WithArgs("RM-0001", warehouseID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCodeAndWarehouse(context.Background(), "RM-0001", warehouseID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when item does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items"`).
			WithArgs("RM-9999", warehouseID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCodeAndWarehouse(context.Background(), "RM-9999", warehouseID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_SumStandardValueByWarehouse(t *testing.T) {
	t.Run("sums stock value for a warehouse", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(current_stock \* standard_cost\), 0\) as total FROM "inventory_items"`).
			WithArgs(warehouseID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(12500)))

		total, err := repo.SumStandardValueByWarehouse(context.Background(), warehouseID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(12500)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_InterfaceCompliance(t *testing.T) {
	var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
}
