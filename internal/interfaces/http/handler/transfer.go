package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// TransferHandler handles inter-warehouse stock transfer endpoints
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Create godoc
// @ID           createStockTransfer
// @Summary      Create a stock transfer
// @Description  Open a pending transfer between two warehouses
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateTransferRequest true "Transfer request"
// @Success      201 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.CreateStockTransfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Ship godoc
// @ID           shipStockTransfer
// @Summary      Ship a stock transfer
// @Description  Issue the shipped quantities from the source warehouse and put the transfer in transit
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Param        request body inventoryapp.ShipTransferRequest true "Shipment details"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID format")
		return
	}

	var req inventoryapp.ShipTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.ProcessStockTransferShipment(c.Request.Context(), transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Receive godoc
// @ID           receiveStockTransfer
// @Summary      Receive a stock transfer
// @Description  Book the received quantities into the destination warehouse and close the transfer. Short receipts record the variance on the transfer line.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Param        request body inventoryapp.ReceiveTransferRequest true "Receipt details"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID format")
		return
	}

	var req inventoryapp.ReceiveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.ProcessStockTransferReceipt(c.Request.Context(), transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// cancelTransferBody carries the optional cancellation reason
type cancelTransferBody struct {
	Reason string `json:"reason"`
}

// Cancel godoc
// @ID           cancelStockTransfer
// @Summary      Cancel a stock transfer
// @Description  Cancel a pending or in-transit transfer. Quantities already shipped are returned to the source warehouse.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Param        request body cancelTransferBody false "Cancellation reason"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID format")
		return
	}

	var body cancelTransferBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.CancelStockTransfer(c.Request.Context(), transferID, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByID godoc
// @ID           getStockTransfer
// @Summary      Get a stock transfer
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID format")
		return
	}

	transfer, err := h.transferService.GetTransfer(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List godoc
// @ID           listStockTransfers
// @Summary      List stock transfers
// @Tags         transfers
// @Produce      json
// @Param        status query string false "Transfer status" Enums(PENDING, IN_TRANSIT, RECEIVED, CANCELLED)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.TransferResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	var status inventory.TransferStatus
	if raw := c.Query("status"); raw != "" {
		status = inventory.TransferStatus(raw)
		if !status.IsValid() {
			h.BadRequest(c, "invalid transfer status: "+raw)
			return
		}
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfers)
}
