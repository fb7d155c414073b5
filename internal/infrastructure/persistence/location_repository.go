package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindRackByID finds a rack by its ID
func (r *GormLocationRepository) FindRackByID(ctx context.Context, id uuid.UUID) (*inventory.Rack, error) {
	var rack inventory.Rack
	if err := r.db.WithContext(ctx).First(&rack, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rack, nil
}

// FindRacksByWarehouse finds all racks in a warehouse
func (r *GormLocationRepository) FindRacksByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]inventory.Rack, error) {
	var racks []inventory.Rack
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("code ASC").
		Find(&racks).Error; err != nil {
		return nil, err
	}
	return racks, nil
}

// GetOrCreateRack finds a rack by warehouse and code, creating it if absent
func (r *GormLocationRepository) GetOrCreateRack(ctx context.Context, warehouseID uuid.UUID, code string) (*inventory.Rack, error) {
	var rack inventory.Rack
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND code = ?", warehouseID, code).
		First(&rack).Error
	if err == nil {
		return &rack, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := inventory.NewRack(warehouseID, code)
	if err != nil {
		return nil, err
	}

	// Use ON CONFLICT to handle race conditions
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		Create(created).Error; err != nil {
		return nil, err
	}

	// If the row wasn't created (conflict), fetch the existing one
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND code = ?", warehouseID, code).
		First(&rack).Error; err != nil {
		return nil, err
	}
	return &rack, nil
}

// FindBinByID finds a bin by its ID
func (r *GormLocationRepository) FindBinByID(ctx context.Context, id uuid.UUID) (*inventory.Bin, error) {
	var bin inventory.Bin
	if err := r.db.WithContext(ctx).First(&bin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindBinsByRack finds all bins on a rack
func (r *GormLocationRepository) FindBinsByRack(ctx context.Context, rackID uuid.UUID) ([]inventory.Bin, error) {
	var bins []inventory.Bin
	if err := r.db.WithContext(ctx).
		Where("rack_id = ?", rackID).
		Order("code ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// GetOrCreateBin finds a bin by rack and code, creating it if absent
func (r *GormLocationRepository) GetOrCreateBin(ctx context.Context, rackID uuid.UUID, code string) (*inventory.Bin, error) {
	var bin inventory.Bin
	err := r.db.WithContext(ctx).
		Where("rack_id = ? AND code = ?", rackID, code).
		First(&bin).Error
	if err == nil {
		return &bin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := inventory.NewBin(rackID, code)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rack_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		Create(created).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("rack_id = ? AND code = ?", rackID, code).
		First(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

// SaveRack creates or updates a rack
func (r *GormLocationRepository) SaveRack(ctx context.Context, rack *inventory.Rack) error {
	return r.db.WithContext(ctx).Save(rack).Error
}

// SaveBin creates or updates a bin
func (r *GormLocationRepository) SaveBin(ctx context.Context, bin *inventory.Bin) error {
	return r.db.WithContext(ctx).Save(bin).Error
}

// Ensure GormLocationRepository implements LocationRepository
var _ inventory.LocationRepository = (*GormLocationRepository)(nil)
