package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/fiscal"
	"github.com/shopspring/decimal"
)

// IssueDocumentRequest asks for a fiscal document for a sale
type IssueDocumentRequest struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
	Type   string    `json:"type" binding:"required,oneof=nfe nfce"`
}

// AuthorizeDocumentRequest records a successful authorization
type AuthorizeDocumentRequest struct {
	Protocol string `json:"protocol" binding:"required,min=1,max=30"`
}

// RejectDocumentRequest records an authorization failure
type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// CancelDocumentRequest cancels an authorized document
type CancelDocumentRequest struct {
	Justification string `json:"justification" binding:"required,min=15,max=255"`
}

// VoidDocumentRequest discards a document before authorization
type VoidDocumentRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// DocumentResponse represents a fiscal document in API responses
type DocumentResponse struct {
	ID                  uuid.UUID       `json:"id"`
	SaleID              uuid.UUID       `json:"sale_id"`
	SaleNumber          string          `json:"sale_number"`
	Type                string          `json:"type"`
	Series              int             `json:"series"`
	Number              int64           `json:"number"`
	AccessKey           string          `json:"access_key"`
	Status              string          `json:"status"`
	ItemsTotal          decimal.Decimal `json:"items_total"`
	DiscountTotal       decimal.Decimal `json:"discount_total"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	Protocol            string          `json:"protocol,omitempty"`
	RejectionReason     string          `json:"rejection_reason,omitempty"`
	RetryCount          int             `json:"retry_count"`
	CancelJustification string          `json:"cancel_justification,omitempty"`
	SubmittedAt         *time.Time      `json:"submitted_at,omitempty"`
	AuthorizedAt        *time.Time      `json:"authorized_at,omitempty"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(d *fiscal.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:                  d.ID,
		SaleID:              d.SaleID,
		SaleNumber:          d.SaleNumber,
		Type:                d.Type.String(),
		Series:              d.Series,
		Number:              d.Number,
		AccessKey:           d.AccessKey,
		Status:              d.Status.String(),
		ItemsTotal:          d.ItemsTotal,
		DiscountTotal:       d.DiscountTotal,
		GrandTotal:          d.GrandTotal,
		Protocol:            d.Protocol,
		RejectionReason:     d.RejectionReason,
		RetryCount:          d.RetryCount,
		CancelJustification: d.CancelJustification,
		SubmittedAt:         d.SubmittedAt,
		AuthorizedAt:        d.AuthorizedAt,
		CancelledAt:         d.CancelledAt,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
