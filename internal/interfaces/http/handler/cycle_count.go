package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
)

// CycleCountHandler handles cycle counting and adjustment endpoints
type CycleCountHandler struct {
	BaseHandler
	cycleCountService *inventoryapp.CycleCountService
}

// NewCycleCountHandler creates a new CycleCountHandler
func NewCycleCountHandler(cycleCountService *inventoryapp.CycleCountService) *CycleCountHandler {
	return &CycleCountHandler{cycleCountService: cycleCountService}
}

// Create godoc
// @ID           createCycleCount
// @Summary      Create a cycle count
// @Description  Record a physical count and the variances against book quantities
// @Tags         cycle-counts
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateCycleCountRequest true "Cycle count request"
// @Success      201 {object} APIResponse[inventoryapp.CycleCountResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/cycle-counts [post]
func (h *CycleCountHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateCycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.cycleCountService.CreateCycleCount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, count)
}

// GetByNumber godoc
// @ID           getCycleCount
// @Summary      Get a cycle count
// @Tags         cycle-counts
// @Produce      json
// @Param        count_number path string true "Count number"
// @Success      200 {object} APIResponse[inventoryapp.CycleCountResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/cycle-counts/{count_number} [get]
func (h *CycleCountHandler) GetByNumber(c *gin.Context) {
	countNumber := c.Param("count_number")
	if countNumber == "" {
		h.BadRequest(c, "count_number is required")
		return
	}

	count, err := h.cycleCountService.GetCycleCount(c.Request.Context(), countNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// Adjust godoc
// @ID           performStockAdjustment
// @Summary      Perform a stock adjustment
// @Description  Correct an item's book quantity to a counted quantity, writing an adjustment ledger entry
// @Tags         cycle-counts
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.StockAdjustmentRequest true "Adjustment request"
// @Success      201 {object} APIResponse[inventoryapp.AdjustmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/adjustments [post]
func (h *CycleCountHandler) Adjust(c *gin.Context) {
	var req inventoryapp.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.cycleCountService.PerformStockAdjustment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}
