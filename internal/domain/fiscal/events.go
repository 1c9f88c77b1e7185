package fiscal

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the fiscal domain
const (
	EventTypeDocumentCreated    = "fiscal.document.created"
	EventTypeDocumentAuthorized = "fiscal.document.authorized"
	EventTypeDocumentRejected   = "fiscal.document.rejected"
	EventTypeDocumentCancelled  = "fiscal.document.cancelled"
)

// AggregateTypeDocument is the aggregate type for fiscal document events
const AggregateTypeDocument = "FiscalDocument"

// DocumentCreatedEvent is raised when a fiscal document is drafted
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	AccessKey  string          `json:"access_key"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeDocument, doc.ID),
		SaleID:          doc.SaleID,
		AccessKey:       doc.AccessKey,
		GrandTotal:      doc.GrandTotal,
	}
}

// DocumentAuthorizedEvent is raised when authorization succeeds
type DocumentAuthorizedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID `json:"sale_id"`
	AccessKey string    `json:"access_key"`
	Protocol  string    `json:"protocol"`
}

// NewDocumentAuthorizedEvent creates a new DocumentAuthorizedEvent
func NewDocumentAuthorizedEvent(doc *Document) *DocumentAuthorizedEvent {
	return &DocumentAuthorizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentAuthorized, AggregateTypeDocument, doc.ID),
		SaleID:          doc.SaleID,
		AccessKey:       doc.AccessKey,
		Protocol:        doc.Protocol,
	}
}

// DocumentRejectedEvent is raised when authorization fails
type DocumentRejectedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	AccessKey  string    `json:"access_key"`
	Reason     string    `json:"reason"`
	RetryCount int       `json:"retry_count"`
}

// NewDocumentRejectedEvent creates a new DocumentRejectedEvent
func NewDocumentRejectedEvent(doc *Document) *DocumentRejectedEvent {
	return &DocumentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentRejected, AggregateTypeDocument, doc.ID),
		SaleID:          doc.SaleID,
		AccessKey:       doc.AccessKey,
		Reason:          doc.RejectionReason,
		RetryCount:      doc.RetryCount,
	}
}

// DocumentCancelledEvent is raised when an authorized document is cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID `json:"sale_id"`
	AccessKey     string    `json:"access_key"`
	Justification string    `json:"justification"`
}

// NewDocumentCancelledEvent creates a new DocumentCancelledEvent
func NewDocumentCancelledEvent(doc *Document) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCancelled, AggregateTypeDocument, doc.ID),
		SaleID:          doc.SaleID,
		AccessKey:       doc.AccessKey,
		Justification:   doc.CancelJustification,
	}
}
