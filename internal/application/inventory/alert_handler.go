package inventory

import (
	"context"
	"errors"

	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// SafetyStockAlertHandler reacts to safety-stock breach events by opening a
// stock alert for the breached item. It complements the periodic
// replenishment scan: the scan catches items that drifted below threshold
// while the service was down, the handler reacts to breaches as they happen.
type SafetyStockAlertHandler struct {
	itemRepo  inventory.InventoryItemRepository
	alertRepo inventory.AlertRepository
	metrics   StockMetricsRecorder
}

// NewSafetyStockAlertHandler creates a new SafetyStockAlertHandler
func NewSafetyStockAlertHandler(
	itemRepo inventory.InventoryItemRepository,
	alertRepo inventory.AlertRepository,
) *SafetyStockAlertHandler {
	return &SafetyStockAlertHandler{itemRepo: itemRepo, alertRepo: alertRepo}
}

// SetMetricsRecorder sets the recorder for alert business metrics
func (h *SafetyStockAlertHandler) SetMetricsRecorder(recorder StockMetricsRecorder) {
	h.metrics = recorder
}

// EventTypes returns the event types this handler subscribes to
func (h *SafetyStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeSafetyStockBreached}
}

// Handle opens or refreshes the alert for the breached item. At most one open
// alert exists per item, so a repeat breach updates the quantity snapshot on
// the existing alert instead of creating a duplicate.
func (h *SafetyStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	breach, ok := event.(*inventory.SafetyStockBreachedEvent)
	if !ok {
		return nil
	}

	item, err := h.itemRepo.FindByID(ctx, breach.InventoryItemID)
	if err != nil {
		return err
	}

	alert, err := h.alertRepo.FindOpenByTypeAndItem(ctx, inventory.AlertTypeSafetyStockBreach, item.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	opened := false
	if alert != nil {
		alert.UpdateSnapshot(item)
	} else {
		alert = inventory.NewSafetyStockAlert(item)
		opened = true
	}
	if err := h.alertRepo.Save(ctx, alert); err != nil {
		return err
	}
	if opened && h.metrics != nil {
		h.metrics.RecordAlertOpened(ctx, string(inventory.AlertTypeSafetyStockBreach))
	}
	return nil
}

// Ensure SafetyStockAlertHandler implements EventHandler
var _ shared.EventHandler = (*SafetyStockAlertHandler)(nil)
