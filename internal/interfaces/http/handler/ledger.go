package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	financeapp "github.com/retail/backend/internal/application/finance"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles financial ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// EntryListRequest carries list query parameters for ledger entries
type EntryListRequest struct {
	dto.ListRequest
	Kind   string `form:"kind" binding:"omitempty,oneof=receivable payable"`
	Status string `form:"status" binding:"omitempty,oneof=open partially_settled settled cancelled"`
}

// CreateEntry opens a manual ledger entry, split into installments when asked
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req financeapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.ledgerService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entries)
}

// CreateReceivablesForSale splits a sale total into receivable installments
func (h *LedgerHandler) CreateReceivablesForSale(c *gin.Context) {
	var req financeapp.CreateReceivablesForSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.ledgerService.CreateReceivablesForSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entries)
}

// Get retrieves a ledger entry with its settlements
func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledgerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List retrieves a paginated entry list, optionally filtered by kind and status
func (h *LedgerHandler) List(c *gin.Context) {
	var req EntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	page, err := h.ledgerService.List(c.Request.Context(), req.Kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// ListOverdue retrieves unsettled entries past their due date
func (h *LedgerHandler) ListOverdue(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date")
			return
		}
		asOf = parsed
	}

	entries, err := h.ledgerService.ListOverdue(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// RegisterSettlement applies a payment to an entry
func (h *LedgerHandler) RegisterSettlement(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req financeapp.RegisterSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.RegisterSettlement(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// GrantDiscount reduces an entry's balance without a payment
func (h *LedgerHandler) GrantDiscount(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req financeapp.GrantDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.GrantDiscount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// GenerateNextRecurrence spawns the next occurrence of a recurring entry
func (h *LedgerHandler) GenerateNextRecurrence(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	next, err := h.ledgerService.GenerateNextRecurrence(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, next)
}

// SetContested flags or clears a dispute on an entry
func (h *LedgerHandler) SetContested(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req financeapp.SetContestedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.SetContested(c.Request.Context(), id, *req.Contested)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// CancelEntry cancels an entry with no settlements
func (h *LedgerHandler) CancelEntry(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledgerService.CancelEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// AccrueLateCharges applies penalty and interest to overdue entries
func (h *LedgerHandler) AccrueLateCharges(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date")
			return
		}
		asOf = parsed
	}

	updated, err := h.ledgerService.AccrueLateCharges(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}
