package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// EntryRepository defines the persistence interface for ledger entries
type EntryRepository interface {
	Save(ctx context.Context, entry *LedgerEntry) error
	SaveBatch(ctx context.Context, entries []*LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindByOrigin(ctx context.Context, originType string, originID uuid.UUID) ([]*LedgerEntry, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*LedgerEntry], error)
	ListByKind(ctx context.Context, kind EntryKind, filter shared.Filter) (shared.Paginated[*LedgerEntry], error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*LedgerEntry, error)
	ListDueBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*LedgerEntry], error)
}
