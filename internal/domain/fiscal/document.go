package fiscal

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocumentType identifies the fiscal document model
type DocumentType string

const (
	DocumentTypeNFe  DocumentType = "nfe"
	DocumentTypeNFCe DocumentType = "nfce"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeNFe || t == DocumentTypeNFCe
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Code returns the 2-digit model code embedded in the access key
func (t DocumentType) Code() string {
	switch t {
	case DocumentTypeNFe:
		return "55"
	case DocumentTypeNFCe:
		return "65"
	}
	return "00"
}

// DocumentStatus represents the status of a fiscal document
type DocumentStatus string

const (
	DocumentStatusDrafting   DocumentStatus = "drafting"
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusAuthorized DocumentStatus = "authorized"
	DocumentStatusRejected   DocumentStatus = "rejected"
	DocumentStatusCancelled  DocumentStatus = "cancelled"
	DocumentStatusVoided     DocumentStatus = "voided"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDrafting, DocumentStatusPending, DocumentStatusProcessing,
		DocumentStatusAuthorized, DocumentStatusRejected, DocumentStatusCancelled,
		DocumentStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses no transition can leave
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusCancelled || s == DocumentStatusVoided
}

// MinCancelJustification is the minimum length of a cancellation justification
const MinCancelJustification = 15

// MaxAuthorizationRetries bounds how often a rejected document can be resubmitted
const MaxAuthorizationRetries = 3

// Document is a fiscal document issued for a sale. Its number and series
// are fixed at creation and the 44-character access key derived from them
// never changes afterwards.
type Document struct {
	shared.BaseAggregateRoot
	SaleID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleNumber          string          `gorm:"type:varchar(20);not null"`
	Type                DocumentType    `gorm:"type:varchar(10);not null"`
	Series              int             `gorm:"not null"`
	Number              int64           `gorm:"not null;uniqueIndex:idx_fiscal_series_number,priority:2"`
	AccessKey           string          `gorm:"type:char(44);not null;uniqueIndex"`
	Status              DocumentStatus  `gorm:"type:varchar(20);not null;default:'drafting';index"`
	ItemsTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Protocol            string          `gorm:"type:varchar(30)"`
	RejectionReason     string          `gorm:"type:varchar(255)"`
	RetryCount          int             `gorm:"not null;default:0"`
	CancelJustification string          `gorm:"type:varchar(255)"`
	SubmittedAt         *time.Time
	AuthorizedAt        *time.Time
	CancelledAt         *time.Time
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "fiscal_documents"
}

// DocumentTotals mirrors the monetary totals of the originating sale
type DocumentTotals struct {
	ItemsTotal    decimal.Decimal
	DiscountTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// NewDocument creates a fiscal document in drafting status and derives
// its access key from the key parts.
func NewDocument(saleID uuid.UUID, saleNumber string, totals DocumentTotals, parts KeyParts) (*Document, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Sale ID is required")
	}
	if totals.GrandTotal.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document total cannot be negative")
	}

	accessKey, err := BuildAccessKey(parts)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		SaleNumber:        saleNumber,
		Type:              parts.DocType,
		Series:            parts.Series,
		Number:            parts.Number,
		AccessKey:         accessKey,
		Status:            DocumentStatusDrafting,
		ItemsTotal:        totals.ItemsTotal,
		DiscountTotal:     totals.DiscountTotal,
		GrandTotal:        totals.GrandTotal,
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// Submit queues the document for authorization
func (d *Document) Submit() error {
	if d.Status != DocumentStatusDrafting {
		return d.illegalTransition(DocumentStatusPending)
	}

	now := time.Now()
	d.Status = DocumentStatusPending
	d.SubmittedAt = &now
	d.Touch()
	d.IncrementVersion()

	return nil
}

// MarkProcessing flags the document as picked up by the authorizer
func (d *Document) MarkProcessing() error {
	if d.Status != DocumentStatusPending {
		return d.illegalTransition(DocumentStatusProcessing)
	}

	d.Status = DocumentStatusProcessing
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Authorize records a successful authorization with its protocol number
func (d *Document) Authorize(protocol string) error {
	if d.Status != DocumentStatusProcessing {
		return d.illegalTransition(DocumentStatusAuthorized)
	}
	if protocol == "" {
		return shared.NewDomainError(shared.CodeValidation, "Authorization protocol is required")
	}

	now := time.Now()
	d.Status = DocumentStatusAuthorized
	d.Protocol = protocol
	d.AuthorizedAt = &now
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentAuthorizedEvent(d))

	return nil
}

// Reject records an authorization failure
func (d *Document) Reject(reason string) error {
	if d.Status != DocumentStatusPending && d.Status != DocumentStatusProcessing {
		return d.illegalTransition(DocumentStatusRejected)
	}

	d.Status = DocumentStatusRejected
	d.RejectionReason = reason
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentRejectedEvent(d))

	return nil
}

// Retry requeues a rejected document for authorization. The retry count
// is bounded; past the limit the document must be voided and reissued.
func (d *Document) Retry() error {
	if d.Status != DocumentStatusRejected {
		return d.illegalTransition(DocumentStatusPending)
	}
	if d.RetryCount >= MaxAuthorizationRetries {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"Document %s exhausted its %d authorization retries", d.AccessKey, MaxAuthorizationRetries)
	}

	d.Status = DocumentStatusPending
	d.RetryCount++
	d.RejectionReason = ""
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Cancel cancels an authorized document. The justification is mandatory
// and must carry at least MinCancelJustification characters; it is
// checked before the status so a short justification is always a
// validation failure.
func (d *Document) Cancel(justification string) error {
	if len(strings.TrimSpace(justification)) < MinCancelJustification {
		return shared.NewDomainErrorf(shared.CodeValidation,
			"Cancellation justification must have at least %d characters", MinCancelJustification)
	}
	if d.Status != DocumentStatusAuthorized {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"Document %s must be authorized to cancel, current status is %s", d.AccessKey, d.Status)
	}

	now := time.Now()
	d.Status = DocumentStatusCancelled
	d.CancelJustification = strings.TrimSpace(justification)
	d.CancelledAt = &now
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentCancelledEvent(d))

	return nil
}

// Void discards a document from any state before authorization
func (d *Document) Void(reason string) error {
	switch d.Status {
	case DocumentStatusDrafting, DocumentStatusPending, DocumentStatusProcessing, DocumentStatusRejected:
	default:
		return d.illegalTransition(DocumentStatusVoided)
	}

	d.Status = DocumentStatusVoided
	d.CancelJustification = reason
	d.Touch()
	d.IncrementVersion()

	return nil
}

// IsAuthorized returns true once the document has an authorization protocol
func (d *Document) IsAuthorized() bool {
	return d.Status == DocumentStatusAuthorized
}

func (d *Document) illegalTransition(target DocumentStatus) error {
	return shared.NewDomainErrorf(shared.CodeIllegalTransition,
		"Document %s cannot move from %s to %s", d.AccessKey, d.Status, target)
}
