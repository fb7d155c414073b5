package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// BatchHandler handles batch tracking endpoints
type BatchHandler struct {
	BaseHandler
	batchService *inventoryapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *inventoryapp.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Create godoc
// @ID           createBatchRecord
// @Summary      Create a batch record
// @Description  Register a received batch for a batch-tracked item
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateBatchRequest true "Batch request"
// @Success      201 {object} APIResponse[inventoryapp.BatchResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.CreateBatchRecord(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// ListByItem godoc
// @ID           listBatchesByItem
// @Summary      List batches of an item
// @Description  Return the batch records of an item ordered by expiry date (FEFO order)
// @Tags         batches
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.BatchResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/items/{id}/batches [get]
func (h *BatchHandler) ListByItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid item ID format")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)

	batches, err := h.batchService.GetBatchesByItem(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// consumeBatchesBody is the request body for a FEFO batch consumption
type consumeBatchesBody struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// Consume godoc
// @ID           consumeBatches
// @Summary      Consume batches of an item
// @Description  Draw down batch quantities in first-expired-first-out order
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body consumeBatchesBody true "Quantity to consume"
// @Success      200 {object} APIResponse[[]inventoryapp.BatchResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/items/{id}/batches/consume [post]
func (h *BatchHandler) Consume(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid item ID format")
		return
	}

	var body consumeBatchesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batches, err := h.batchService.ConsumeBatches(c.Request.Context(), itemID, body.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// Expiring godoc
// @ID           listExpiringBatches
// @Summary      List batches expiring soon
// @Description  Return active batches whose expiry date falls within the given number of days
// @Tags         batches
// @Produce      json
// @Param        within_days query int false "Days until expiry" default(30)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.BatchResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/batches/expiring [get]
func (h *BatchHandler) Expiring(c *gin.Context) {
	withinDays := 30
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "within_days must be a positive integer")
			return
		}
		withinDays = parsed
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)

	batches, err := h.batchService.GetExpiringBatches(c.Request.Context(), withinDays, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}
