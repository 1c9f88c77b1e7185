package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/retail/backend/internal/application/sales"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// SaleHandler handles sale lifecycle API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// SaleListRequest carries list query parameters for sales
type SaleListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved picking invoiced shipping delivered cancelled"`
}

// Create opens a new sale in the pending state
func (h *SaleHandler) Create(c *gin.Context) {
	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get retrieves a sale by ID
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByNumber retrieves a sale by its sequential number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	sale, err := h.saleService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List retrieves a paginated sale list, optionally filtered by status
func (h *SaleHandler) List(c *gin.Context) {
	var req SaleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.saleService.List(c.Request.Context(), req.Status, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// ListByPeriod retrieves sales created inside a date window
func (h *SaleHandler) ListByPeriod(c *gin.Context) {
	var req PeriodListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, err := parseDate(req.From)
	if err != nil {
		h.BadRequest(c, "Invalid from date")
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		h.BadRequest(c, "Invalid to date")
		return
	}

	page, err := h.saleService.ListByPeriod(c.Request.Context(), from, to, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// AddItem appends a line to a pending sale
func (h *SaleHandler) AddItem(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// RemoveItem removes a product line from a pending sale
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	sale, err := h.saleService.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// SetAdjustments sets the header-level discount, surcharge, and freight
func (h *SaleHandler) SetAdjustments(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.SetAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.SetAdjustments(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Approve approves a pending sale and debits stock
func (h *SaleHandler) Approve(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Transition advances a sale one step through the fulfillment pipeline
func (h *SaleHandler) Transition(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Cancel cancels a sale, restocking if stock was already debited
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}
