package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
)

// LocationHandler handles warehouse location endpoints
type LocationHandler struct {
	BaseHandler
	locationService *inventoryapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *inventoryapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Assign godoc
// @ID           assignLocation
// @Summary      Assign a storage location
// @Description  Set the rack and bin an item is stored in
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AssignLocationRequest true "Location assignment"
// @Success      200 {object} APIResponse[inventoryapp.ItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/locations/assign [post]
func (h *LocationHandler) Assign(c *gin.Context) {
	var req inventoryapp.AssignLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.locationService.AssignLocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// PutAway godoc
// @ID           processPutAway
// @Summary      Process a put-away
// @Description  Move received stock from the staging area into its storage location, recording the movement
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.PutAwayRequest true "Put-away request"
// @Success      201 {object} APIResponse[inventoryapp.TransactionResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /inventory/locations/put-away [post]
func (h *LocationHandler) PutAway(c *gin.Context) {
	var req inventoryapp.PutAwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.locationService.ProcessPutAway(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}
