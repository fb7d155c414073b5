package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// ReplenishmentHandler handles safety-stock and reorder alert endpoints
type ReplenishmentHandler struct {
	BaseHandler
	replenishmentService *inventoryapp.ReplenishmentService
}

// NewReplenishmentHandler creates a new ReplenishmentHandler
func NewReplenishmentHandler(replenishmentService *inventoryapp.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{replenishmentService: replenishmentService}
}

// parseWarehouseID reads the optional warehouse_id query parameter
func (h *ReplenishmentHandler) parseWarehouseID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("warehouse_id")
	if raw == "" {
		return nil, true
	}
	warehouseID, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "invalid warehouse_id format")
		return nil, false
	}
	return &warehouseID, true
}

// BelowSafetyStock godoc
// @ID           listItemsBelowSafetyStock
// @Summary      List items below safety stock
// @Description  Return active items whose available quantity has fallen below their safety stock level
// @Tags         replenishment
// @Produce      json
// @Param        warehouse_id query string false "Warehouse ID"
// @Success      200 {object} APIResponse[[]inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/replenishment/below-safety-stock [get]
func (h *ReplenishmentHandler) BelowSafetyStock(c *gin.Context) {
	warehouseID, ok := h.parseWarehouseID(c)
	if !ok {
		return
	}

	items, err := h.replenishmentService.GetItemsBelowSafetyStock(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// BelowReorderLevel godoc
// @ID           listItemsBelowReorderLevel
// @Summary      List items below reorder level
// @Tags         replenishment
// @Produce      json
// @Param        warehouse_id query string false "Warehouse ID"
// @Success      200 {object} APIResponse[[]inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/replenishment/below-reorder-level [get]
func (h *ReplenishmentHandler) BelowReorderLevel(c *gin.Context) {
	warehouseID, ok := h.parseWarehouseID(c)
	if !ok {
		return
	}

	items, err := h.replenishmentService.GetItemsBelowReorderLevel(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// OpenAlerts godoc
// @ID           listOpenAlerts
// @Summary      List open replenishment alerts
// @Tags         replenishment
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.AlertResponse]
// @Router       /inventory/replenishment/alerts [get]
func (h *ReplenishmentHandler) OpenAlerts(c *gin.Context) {
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)

	alerts, err := h.replenishmentService.GetOpenAlerts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// TriggerScan godoc
// @ID           triggerReorderScan
// @Summary      Run a reorder scan
// @Description  Scan active items against their reorder levels and open alerts for any new breaches. The scheduler runs the same scan periodically; this endpoint forces an immediate pass.
// @Tags         replenishment
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.AlertResponse]
// @Router       /inventory/replenishment/scan [post]
func (h *ReplenishmentHandler) TriggerScan(c *gin.Context) {
	alerts, err := h.replenishmentService.CheckAndGenerateReorderAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}
