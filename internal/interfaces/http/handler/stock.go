package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
)

// StockHandler handles stock ledger and reservation endpoints
type StockHandler struct {
	BaseHandler
	stockService   *inventoryapp.StockService
	receiptService *inventoryapp.GoodsReceiptService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService, receiptService *inventoryapp.GoodsReceiptService) *StockHandler {
	return &StockHandler{
		stockService:   stockService,
		receiptService: receiptService,
	}
}

// RecordTransaction godoc
// @ID           recordStockTransaction
// @Summary      Record a stock transaction
// @Description  Append one ledger entry (receipt, issue, adjustment, reservation or release) and update the item position
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.RecordTransactionRequest true "Transaction request"
// @Success      201 {object} APIResponse[inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/transactions [post]
func (h *StockHandler) RecordTransaction(c *gin.Context) {
	var req inventoryapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.stockService.RecordStockTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// ReserveOrder godoc
// @ID           reserveOrderMaterials
// @Summary      Reserve materials for an order
// @Description  Reserve stock for every line of an order. The reservation is atomic: if any line lacks available stock, nothing is reserved.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.ReserveOrderRequest true "Reservation request"
// @Success      201 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/reservations [post]
func (h *StockHandler) ReserveOrder(c *gin.Context) {
	var req inventoryapp.ReserveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txs, err := h.stockService.ReserveOrderMaterials(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, txs)
}

// ReleaseReservation godoc
// @ID           releaseOrderReservation
// @Summary      Release an order reservation
// @Description  Release every outstanding reservation held by an order. Releasing an order with no reservations is a no-op.
// @Tags         stock
// @Produce      json
// @Param        order_type path string true "Order type" Enums(SALES_ORDER, PRODUCTION_ORDER)
// @Param        order_id path string true "Order ID"
// @Success      200 {object} APIResponse[CountData]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/reservations/{order_type}/{order_id} [delete]
func (h *StockHandler) ReleaseReservation(c *gin.Context) {
	orderType := c.Param("order_type")
	orderID := c.Param("order_id")

	if orderType == "" || orderID == "" {
		h.BadRequest(c, "order_type and order_id are required")
		return
	}

	released, err := h.stockService.ReleaseOrderReservation(c.Request.Context(), orderType, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(released)})
}

// GoodsReceipt godoc
// @ID           processGoodsReceipt
// @Summary      Process a goods receipt
// @Description  Book received purchase-order material into stock. Unknown item codes are registered on the fly; batch-tracked lines record their batch.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.GoodsReceiptRequest true "Goods receipt request"
// @Success      201 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/receipts [post]
func (h *StockHandler) GoodsReceipt(c *gin.Context) {
	var req inventoryapp.GoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txs, err := h.receiptService.ProcessGoodsReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, txs)
}
