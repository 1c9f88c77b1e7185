package fiscal

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// DocumentRepository defines the persistence interface for fiscal documents
type DocumentRepository interface {
	Save(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByAccessKey(ctx context.Context, accessKey string) (*Document, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*Document, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Document], error)
	ListByStatus(ctx context.Context, status DocumentStatus, filter shared.Filter) (shared.Paginated[*Document], error)
	NextNumber(ctx context.Context, docType DocumentType, series int) (int64, error)
}
