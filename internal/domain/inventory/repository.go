package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// MovementRepository defines the persistence interface for stock movements.
// Movements are append-only; there is no update or delete.
type MovementRepository interface {
	Save(ctx context.Context, movement *StockMovement) error
	SaveBatch(ctx context.Context, movements []*StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[*StockMovement], error)
	ListByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]*StockMovement, error)
	ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*StockMovement], error)
}
