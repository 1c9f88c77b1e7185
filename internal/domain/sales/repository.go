package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// SaleRepository defines the persistence interface for sales
type SaleRepository interface {
	Save(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByNumber(ctx context.Context, number string) (*Sale, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Sale], error)
	ListByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) (shared.Paginated[*Sale], error)
	ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*Sale], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NumberGenerator issues gap-free sequential sale numbers. Implementations
// must be safe under concurrent callers.
type NumberGenerator interface {
	NextNumber(ctx context.Context) (string, error)
}
