package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
)

// GormEntryRepository implements finance.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Save creates or updates a ledger entry together with its settlements.
// Settlements are append-only, so existing rows are never deleted.
func (r *GormEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Settlements").Save(entry).Error; err != nil {
			return err
		}
		for i := range entry.Settlements {
			if err := tx.Save(&entry.Settlements[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveBatch persists multiple ledger entries
func (r *GormEntryRepository) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Omit("Settlements").Save(entry).Error; err != nil {
				return err
			}
			for i := range entry.Settlements {
				if err := tx.Save(&entry.Settlements[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// FindByID finds a ledger entry by its ID, settlements included
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var entry finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Settlements", func(db *gorm.DB) *gorm.DB {
			return db.Order("settled_on ASC")
		}).
		First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByOrigin returns every entry spawned by an origin document
func (r *GormEntryRepository) FindByOrigin(ctx context.Context, originType string, originID uuid.UUID) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Settlements").
		Where("origin_type = ? AND origin_id = ?", originType, originID).
		Order("installment_number ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns a paginated entry list matching the filter
func (r *GormEntryRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	return r.list(r.db.WithContext(ctx).Model(&finance.LedgerEntry{}), filter)
}

// ListByKind returns a paginated entry list of the given kind
func (r *GormEntryRepository) ListByKind(ctx context.Context, kind finance.EntryKind, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	query := r.db.WithContext(ctx).Model(&finance.LedgerEntry{}).Where("kind = ?", kind)
	return r.list(query, filter)
}

// ListOverdue returns open and partially settled entries past their due
// date as of the given day
func (r *GormEntryRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Settlements").
		Where("status IN ? AND due_date < ?",
			[]finance.EntryStatus{finance.EntryStatusOpen, finance.EntryStatusPartiallySettled},
			asOf).
		Order("due_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListDueBetween returns a paginated entry list due within a date range
func (r *GormEntryRepository) ListDueBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	query := r.db.WithContext(ctx).Model(&finance.LedgerEntry{}).
		Where("due_date >= ? AND due_date < ?", from, to)
	return r.list(query, filter)
}

func (r *GormEntryRepository) list(query *gorm.DB, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR counterparty_name ILIKE ?", searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*finance.LedgerEntry]{}, err
	}

	var entries []*finance.LedgerEntry
	if err := applyPagination(query, filter, EntrySortFields, "due_date ASC").
		Preload("Settlements").
		Find(&entries).Error; err != nil {
		return shared.Paginated[*finance.LedgerEntry]{}, err
	}

	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

var _ finance.EntryRepository = (*GormEntryRepository)(nil)
