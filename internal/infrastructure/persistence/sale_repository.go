package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backend/internal/domain/sales"
	"github.com/retail/backend/internal/domain/shared"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save creates or updates a sale together with its items. Items removed
// from the aggregate are deleted so the rows mirror the in-memory state.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(sale.Items))
		for i := range sale.Items {
			currentItemIDs[i] = sale.Items[i].ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("sale_id = ? AND id NOT IN ?", sale.ID, currentItemIDs).
				Delete(&sales.SaleItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("sale_id = ?", sale.ID).
				Delete(&sales.SaleItem{}).Error; err != nil {
				return err
			}
		}

		for i := range sale.Items {
			if err := tx.Save(&sale.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a sale by its ID, items included
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its sequential number, items included
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("number = ?", number).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// List returns a paginated sale list matching the filter
func (r *GormSaleRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	return r.list(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
}

// ListByStatus returns a paginated sale list with the given status
func (r *GormSaleRepository) ListByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).Where("status = ?", status)
	return r.list(query, filter)
}

// ListByPeriod returns a paginated sale list created within a time range
func (r *GormSaleRepository) ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	return r.list(query, filter)
}

// Delete deletes a sale and its items
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&sales.SaleItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&sales.Sale{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormSaleRepository) list(query *gorm.DB, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*sales.Sale]{}, err
	}

	var items []*sales.Sale
	if err := applyPagination(query, filter, SaleSortFields, "created_at DESC").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Find(&items).Error; err != nil {
		return shared.Paginated[*sales.Sale]{}, err
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
