package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/domain/shared"
)

// ItemHandler handles inventory item master data endpoints
type ItemHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(stockService *inventoryapp.StockService) *ItemHandler {
	return &ItemHandler{stockService: stockService}
}

// Create godoc
// @ID           createInventoryItem
// @Summary      Register an inventory item
// @Description  Register a new item code at a warehouse
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateItemRequest true "Item registration request"
// @Success      201 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /inventory/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockService.CreateInventoryItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID godoc
// @ID           getInventoryItemByID
// @Summary      Get inventory item by ID
// @Tags         items
// @Produce      json
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	item, err := h.stockService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Lookup godoc
// @ID           lookupInventoryItem
// @Summary      Look up an item by code and warehouse
// @Tags         items
// @Produce      json
// @Param        item_code query string true "Item code"
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/items/lookup [get]
func (h *ItemHandler) Lookup(c *gin.Context) {
	itemCode := c.Query("item_code")
	warehouseIDStr := c.Query("warehouse_id")

	if itemCode == "" || warehouseIDStr == "" {
		h.BadRequest(c, "item_code and warehouse_id are required")
		return
	}

	warehouseID, err := uuid.Parse(warehouseIDStr)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	item, err := h.stockService.GetItemByCode(c.Request.Context(), itemCode, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List godoc
// @ID           listInventoryItems
// @Summary      Stock inquiry
// @Description  List inventory items with stock positions, filtered by warehouse, category or search term
// @Tags         items
// @Produce      json
// @Param        warehouse_id query string false "Filter by warehouse ID" format(uuid)
// @Param        category query string false "Filter by category"
// @Param        low_stock_only query boolean false "Only items at or below their reorder level"
// @Param        search query string false "Search in item code and name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /inventory/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	filter := inventoryapp.StockInquiryFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	if idStr := c.Query("warehouse_id"); idStr != "" {
		warehouseID, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse ID format")
			return
		}
		filter.WarehouseID = &warehouseID
	}

	if lowStr := c.Query("low_stock_only"); lowStr != "" {
		low, err := strconv.ParseBool(lowStr)
		if err != nil {
			h.BadRequest(c, "Invalid low_stock_only value")
			return
		}
		filter.LowStockOnly = low
	}

	filter.Page, filter.PageSize = parsePagination(c)

	items, err := h.stockService.StockInquiry(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// UpdateMasterData godoc
// @ID           updateInventoryItemMasterData
// @Summary      Update item master data
// @Description  Update the catalog attributes of an item; stock quantities are not affected
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Param        request body inventoryapp.UpdateItemMasterDataRequest true "Master data update"
// @Success      200 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/items/{id} [put]
func (h *ItemHandler) UpdateMasterData(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	var req inventoryapp.UpdateItemMasterDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockService.UpdateItemMasterData(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Deactivate godoc
// @ID           deactivateInventoryItem
// @Summary      Deactivate an inventory item
// @Description  Deactivate an item so it no longer accepts stock movements. Requires zero on-hand stock.
// @Tags         items
// @Produce      json
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/items/{id} [delete]
func (h *ItemHandler) Deactivate(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	if err := h.stockService.DeactivateItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Rebuild godoc
// @ID           rebuildInventoryItem
// @Summary      Rebuild item quantities from the ledger
// @Description  Replay the full ledger for an item and persist the recomputed quantities
// @Tags         items
// @Produce      json
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/items/{id}/rebuild [post]
func (h *ItemHandler) Rebuild(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	item, err := h.stockService.RebuildAggregate(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListTransactions godoc
// @ID           listInventoryItemTransactions
// @Summary      List ledger entries for an item
// @Tags         items
// @Produce      json
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /inventory/items/{id}/transactions [get]
func (h *ItemHandler) ListTransactions(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)

	txs, err := h.stockService.GetItemTransactions(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txs)
}
