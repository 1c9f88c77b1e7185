package handler

import (
	"github.com/gin-gonic/gin"

	fiscalapp "github.com/retail/backend/internal/application/fiscal"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles fiscal document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *fiscalapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *fiscalapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// DocumentListRequest carries list query parameters for fiscal documents
type DocumentListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=drafting pending processing authorized rejected cancelled voided"`
	Type   string `form:"type" binding:"omitempty,oneof=nfe nfce"`
}

// Issue drafts a fiscal document for an invoiced sale
func (h *DocumentHandler) Issue(c *gin.Context) {
	var req fiscalapp.IssueDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Issue(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// Get retrieves a document by ID
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByAccessKey retrieves a document by its 44-character access key
func (h *DocumentHandler) GetByAccessKey(c *gin.Context) {
	doc, err := h.documentService.GetByAccessKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// ListBySale retrieves every document issued for a sale
func (h *DocumentHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.documentService.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, docs)
}

// List retrieves a paginated document list
func (h *DocumentHandler) List(c *gin.Context) {
	var req DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}

	page, err := h.documentService.List(c.Request.Context(), req.Status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// Submit queues a drafted document for authorization
func (h *DocumentHandler) Submit(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// MarkProcessing records that the authorizer picked up the document
func (h *DocumentHandler) MarkProcessing(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.MarkProcessing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Authorize records a successful authorization with its protocol
func (h *DocumentHandler) Authorize(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req fiscalapp.AuthorizeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Authorize(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Reject records an authorization failure
func (h *DocumentHandler) Reject(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req fiscalapp.RejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Retry re-queues a rejected document
func (h *DocumentHandler) Retry(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Cancel cancels an authorized document with a justification
func (h *DocumentHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req fiscalapp.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Void discards a document that was never authorized
func (h *DocumentHandler) Void(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req fiscalapp.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Void(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}
