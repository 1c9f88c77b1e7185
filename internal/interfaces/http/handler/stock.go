package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/retail/backend/internal/application/inventory"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// parseDate parses a date query parameter, accepting RFC3339 or a bare date
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// MovementListRequest carries list query parameters for stock movements
type MovementListRequest struct {
	dto.ListRequest
	Type string `form:"type" binding:"omitempty,oneof=purchase sale sale_reversal customer_return adjustment_in adjustment_out loss"`
}

// PeriodListRequest carries a date window plus pagination
type PeriodListRequest struct {
	dto.ListRequest
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// RegisterMovement applies a manual stock movement to a product
func (h *StockHandler) RegisterMovement(c *gin.Context) {
	var req inventoryapp.RegisterMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.RegisterMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// CheckAvailability reports whether a quantity can be covered by stock
func (h *StockHandler) CheckAvailability(c *gin.Context) {
	var req inventoryapp.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	availability, err := h.stockService.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, availability)
}

// ListMovements retrieves the movement history of a product
func (h *StockHandler) ListMovements(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Type != "" {
		filter.Filters["movement_type"] = req.Type
	}

	page, err := h.stockService.ListMovements(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// ListMovementsByPeriod retrieves movements across all products in a window
func (h *StockHandler) ListMovementsByPeriod(c *gin.Context) {
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

	page, err := h.stockService.ListMovementsByPeriod(c.Request.Context(), from, to, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}
