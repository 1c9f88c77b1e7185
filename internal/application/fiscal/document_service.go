package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/fiscal"
	"github.com/retail/backend/internal/domain/sales"
	"github.com/retail/backend/internal/domain/shared"
)

// IssuerConfig carries the fixed issuer identification stamped into
// every access key
type IssuerConfig struct {
	RegionCode   string
	TaxID        string
	Series       int
	EmissionMode int
}

// DocumentService handles the fiscal document lifecycle
type DocumentService struct {
	docRepo   fiscal.DocumentRepository
	saleRepo  sales.SaleRepository
	issuer    IssuerConfig
	publisher shared.EventPublisher
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo fiscal.DocumentRepository,
	saleRepo sales.SaleRepository,
	issuer IssuerConfig,
	publisher shared.EventPublisher,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		saleRepo:  saleRepo,
		issuer:    issuer,
		publisher: publisher,
	}
}

// Issue drafts a fiscal document for an invoiced sale. The document
// number is drawn from the per-series sequence and the access key is
// derived immediately.
func (s *DocumentService) Issue(ctx context.Context, req IssueDocumentRequest) (*DocumentResponse, error) {
	docType := fiscal.DocumentType(req.Type)
	if !docType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Unknown document type: %s", req.Type)
	}

	sale, err := s.saleRepo.FindByID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != sales.SaleStatusInvoiced {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidState,
			"Sale %s must be invoiced before issuing a fiscal document, current status is %s", sale.Number, sale.Status)
	}

	existing, err := s.docRepo.FindBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	for _, doc := range existing {
		if !doc.Status.IsTerminal() && doc.Status != fiscal.DocumentStatusRejected {
			return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists,
				"Sale %s already has an active fiscal document %s", sale.Number, doc.AccessKey)
		}
	}

	number, err := s.docRepo.NextNumber(ctx, docType, s.issuer.Series)
	if err != nil {
		return nil, err
	}

	doc, err := fiscal.NewDocument(sale.ID, sale.Number, fiscal.DocumentTotals{
		ItemsTotal:    sale.ItemsTotal,
		DiscountTotal: sale.DiscountTotal,
		GrandTotal:    sale.GrandTotal,
	}, fiscal.KeyParts{
		RegionCode:   s.issuer.RegionCode,
		IssuedAt:     time.Now(),
		IssuerTaxID:  s.issuer.TaxID,
		DocType:      docType,
		Series:       s.issuer.Series,
		Number:       number,
		EmissionMode: s.issuer.EmissionMode,
		Control:      fiscal.NewControlNumber(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)

	return ToDocumentResponse(doc), nil
}

// Submit queues a drafted document for authorization
func (s *DocumentService) Submit(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Submit()
	})
}

// MarkProcessing flags a pending document as being authorized
func (s *DocumentService) MarkProcessing(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.MarkProcessing()
	})
}

// Authorize records a successful authorization
func (s *DocumentService) Authorize(ctx context.Context, id uuid.UUID, req AuthorizeDocumentRequest) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Authorize(req.Protocol)
	})
}

// Reject records an authorization failure
func (s *DocumentService) Reject(ctx context.Context, id uuid.UUID, req RejectDocumentRequest) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Reject(req.Reason)
	})
}

// Retry requeues a rejected document
func (s *DocumentService) Retry(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Retry()
	})
}

// Cancel cancels an authorized document with a mandatory justification
func (s *DocumentService) Cancel(ctx context.Context, id uuid.UUID, req CancelDocumentRequest) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Cancel(req.Justification)
	})
}

// Void discards a document that never reached authorization
func (s *DocumentService) Void(ctx context.Context, id uuid.UUID, req VoidDocumentRequest) (*DocumentResponse, error) {
	return s.mutate(ctx, id, func(doc *fiscal.Document) error {
		return doc.Void(req.Reason)
	})
}

// Get returns a document by ID
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// GetByAccessKey returns a document by its 44-character access key
func (s *DocumentService) GetByAccessKey(ctx context.Context, accessKey string) (*DocumentResponse, error) {
	if err := fiscal.ValidateAccessKey(accessKey); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// ListBySale returns all documents issued for a sale
func (s *DocumentService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*DocumentResponse, error) {
	docs, err := s.docRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items := make([]*DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ToDocumentResponse(doc))
	}
	return items, nil
}

// List returns a paginated document list, optionally filtered by status
func (s *DocumentService) List(ctx context.Context, status string, filter shared.Filter) (shared.Paginated[*DocumentResponse], error) {
	var page shared.Paginated[*fiscal.Document]
	var err error

	if status != "" {
		docStatus := fiscal.DocumentStatus(status)
		if !docStatus.IsValid() {
			return shared.Paginated[*DocumentResponse]{}, shared.NewDomainErrorf(shared.CodeValidation, "Unknown document status: %s", status)
		}
		page, err = s.docRepo.ListByStatus(ctx, docStatus, filter)
	} else {
		page, err = s.docRepo.List(ctx, filter)
	}
	if err != nil {
		return shared.Paginated[*DocumentResponse]{}, err
	}

	items := make([]*DocumentResponse, 0, len(page.Items))
	for _, doc := range page.Items {
		items = append(items, ToDocumentResponse(doc))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

func (s *DocumentService) mutate(ctx context.Context, id uuid.UUID, fn func(*fiscal.Document) error) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(doc); err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)

	return ToDocumentResponse(doc), nil
}

func (s *DocumentService) publishEvents(ctx context.Context, doc *fiscal.Document) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, doc.GetDomainEvents()...)
	doc.ClearDomainEvents()
}
