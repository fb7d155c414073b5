package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// ReplenishmentService watches stock levels against safety stock and reorder
// thresholds and maintains replenishment alerts. The scan only reads
// aggregates and upserts alerts, so it is safe to run concurrently with
// ledger mutations and safe to re-run: an item with an open alert is updated
// in place, never duplicated.
type ReplenishmentService struct {
	itemRepo  inventory.InventoryItemRepository
	alertRepo inventory.AlertRepository
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	itemRepo inventory.InventoryItemRepository,
	alertRepo inventory.AlertRepository,
) *ReplenishmentService {
	return &ReplenishmentService{itemRepo: itemRepo, alertRepo: alertRepo}
}

// GetItemsBelowSafetyStock lists active items at or below their safety stock level
func (s *ReplenishmentService) GetItemsBelowSafetyStock(ctx context.Context, warehouseID *uuid.UUID) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindBelowSafetyStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToItemResponse(&items[idx]))
	}
	return responses, nil
}

// GetItemsBelowReorderLevel lists active items at or below their reorder level
func (s *ReplenishmentService) GetItemsBelowReorderLevel(ctx context.Context, warehouseID *uuid.UUID) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindBelowReorderLevel(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToItemResponse(&items[idx]))
	}
	return responses, nil
}

// CheckAndGenerateReorderAlerts scans items below their reorder level and
// creates an alert per breached item. An item that already has an open alert
// gets its quantity snapshot refreshed instead of a second alert, so the scan
// is idempotent. Alerts for items that have recovered above both thresholds
// are resolved.
func (s *ReplenishmentService) CheckAndGenerateReorderAlerts(ctx context.Context) ([]AlertResponse, error) {
	breached, err := s.itemRepo.FindBelowReorderLevel(ctx, nil)
	if err != nil {
		return nil, err
	}

	responses := make([]AlertResponse, 0, len(breached))
	breachedIDs := make(map[uuid.UUID]bool, len(breached))
	for idx := range breached {
		item := &breached[idx]
		breachedIDs[item.ID] = true

		alert, err := s.alertRepo.FindOpenByTypeAndItem(ctx, inventory.AlertTypeSafetyStockBreach, item.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		if alert != nil {
			alert.UpdateSnapshot(item)
		} else {
			alert = inventory.NewSafetyStockAlert(item)
		}
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
		responses = append(responses, ToAlertResponse(alert))
	}

	if err := s.resolveRecoveredAlerts(ctx, breachedIDs); err != nil {
		return nil, err
	}
	return responses, nil
}

// resolveRecoveredAlerts closes open alerts whose items are no longer below
// their reorder level
func (s *ReplenishmentService) resolveRecoveredAlerts(ctx context.Context, stillBreached map[uuid.UUID]bool) error {
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	open, err := s.alertRepo.FindOpen(ctx, filter)
	if err != nil {
		return err
	}
	for idx := range open {
		alert := &open[idx]
		if stillBreached[alert.InventoryItemID] {
			continue
		}
		alert.Resolve()
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}

// GetOpenAlerts lists the currently open alerts
func (s *ReplenishmentService) GetOpenAlerts(ctx context.Context, filter shared.Filter) ([]AlertResponse, error) {
	alerts, err := s.alertRepo.FindOpen(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AlertResponse, 0, len(alerts))
	for idx := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[idx]))
	}
	return responses, nil
}
