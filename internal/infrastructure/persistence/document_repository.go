package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backend/internal/domain/fiscal"
	"github.com/retail/backend/internal/domain/shared"
)

// GormDocumentRepository implements fiscal.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Save creates or updates a fiscal document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *fiscal.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.Document, error) {
	var doc fiscal.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByAccessKey finds a document by its 44-character access key
func (r *GormDocumentRepository) FindByAccessKey(ctx context.Context, accessKey string) (*fiscal.Document, error) {
	var doc fiscal.Document
	if err := r.db.WithContext(ctx).
		Where("access_key = ?", accessKey).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindBySale returns every document issued for a sale, oldest first
func (r *GormDocumentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*fiscal.Document, error) {
	var docs []*fiscal.Document
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// List returns a paginated document list matching the filter
func (r *GormDocumentRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*fiscal.Document], error) {
	return r.list(r.db.WithContext(ctx).Model(&fiscal.Document{}), filter)
}

// ListByStatus returns a paginated document list with the given status
func (r *GormDocumentRepository) ListByStatus(ctx context.Context, status fiscal.DocumentStatus, filter shared.Filter) (shared.Paginated[*fiscal.Document], error) {
	query := r.db.WithContext(ctx).Model(&fiscal.Document{}).Where("status = ?", status)
	return r.list(query, filter)
}

// NextNumber draws the next document number for a type and series. The
// counter is per type and series, so nfe and nfce number independently.
func (r *GormDocumentRepository) NextNumber(ctx context.Context, docType fiscal.DocumentType, series int) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		value, err = nextSequenceValue(tx, fmt.Sprintf("fiscal_%s_%03d", docType, series))
		return err
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *GormDocumentRepository) list(query *gorm.DB, filter shared.Filter) (shared.Paginated[*fiscal.Document], error) {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("access_key ILIKE ? OR sale_number ILIKE ?", searchPattern, searchPattern)
	}

	if docType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", docType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*fiscal.Document]{}, err
	}

	var docs []*fiscal.Document
	if err := applyPagination(query, filter, DocumentSortFields, "created_at DESC").
		Find(&docs).Error; err != nil {
		return shared.Paginated[*fiscal.Document]{}, err
	}

	return shared.NewPaginated(docs, total, filter.Page, filter.PageSize), nil
}

var _ fiscal.DocumentRepository = (*GormDocumentRepository)(nil)
