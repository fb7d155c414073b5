package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/inventory"
)

// ReportHandler handles valuation and movement reporting endpoints
type ReportHandler struct {
	BaseHandler
	valuationService *inventoryapp.ValuationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(valuationService *inventoryapp.ValuationService) *ReportHandler {
	return &ReportHandler{valuationService: valuationService}
}

// Valuation godoc
// @ID           inventoryValuation
// @Summary      Inventory valuation report
// @Description  Value current stock per item using FIFO cost layers or the weighted average cost
// @Tags         reports
// @Produce      json
// @Param        method query string true "Valuation method" Enums(FIFO, WEIGHTED_AVERAGE)
// @Param        warehouse_id query string false "Warehouse ID"
// @Success      200 {object} APIResponse[[]inventory.ValuationRow]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/reports/valuation [get]
func (h *ReportHandler) Valuation(c *gin.Context) {
	method := inventory.ValuationMethod(c.Query("method"))
	if !method.IsValid() {
		h.BadRequest(c, "method must be FIFO or WEIGHTED_AVERAGE")
		return
	}

	var warehouseID *uuid.UUID
	if raw := c.Query("warehouse_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid warehouse_id format")
			return
		}
		warehouseID = &parsed
	}

	rows, err := h.valuationService.CalculateInventoryValuation(c.Request.Context(), method, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// Movements godoc
// @ID           movementReport
// @Summary      Stock movement report
// @Description  List ledger entries in a date range, optionally filtered by warehouse and transaction type
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param        end_date query string true "Range end (RFC 3339 or YYYY-MM-DD)"
// @Param        warehouse_id query string false "Warehouse ID"
// @Param        transaction_type query string false "Transaction type"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/reports/movements [get]
func (h *ReportHandler) Movements(c *gin.Context) {
	startDate, err := parseDateTime(c.Query("start_date"))
	if err != nil {
		h.BadRequest(c, "invalid start_date format")
		return
	}
	endDate, err := parseDateTime(c.Query("end_date"))
	if err != nil {
		h.BadRequest(c, "invalid end_date format")
		return
	}

	filter := inventoryapp.MovementReportFilter{
		TransactionType: c.Query("transaction_type"),
		StartDate:       startDate,
		EndDate:         endDate,
	}
	filter.Page, filter.PageSize = parsePagination(c)

	if raw := c.Query("warehouse_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid warehouse_id format")
			return
		}
		filter.WarehouseID = &parsed
	}

	txs, err := h.valuationService.MovementReport(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txs)
}

// Aging godoc
// @ID           agingReport
// @Summary      Stock aging report
// @Description  Bucket items by days since their last outbound movement
// @Tags         reports
// @Produce      json
// @Param        warehouse_id query string false "Warehouse ID"
// @Success      200 {object} APIResponse[[]inventoryapp.AgingRow]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/reports/aging [get]
func (h *ReportHandler) Aging(c *gin.Context) {
	var warehouseID *uuid.UUID
	if raw := c.Query("warehouse_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid warehouse_id format")
			return
		}
		warehouseID = &parsed
	}

	rows, err := h.valuationService.AgingReport(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}
