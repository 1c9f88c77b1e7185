package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/shared"
)

// GormMovementRepository implements inventory.MovementRepository using GORM.
// Movements are append-only, so the repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save persists a stock movement
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// SaveBatch persists multiple stock movements
func (r *GormMovementRepository) SaveBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var movement inventory.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// ListByProduct returns a paginated movement list for a product
func (r *GormMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("product_id = ?", productID)
	return r.list(query, filter)
}

// ListByReference returns every movement tied to a reference document
func (r *GormMovementRepository) ListByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListByPeriod returns a paginated movement list within a time range
func (r *GormMovementRepository) ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	return r.list(query, filter)
}

func (r *GormMovementRepository) list(query *gorm.DB, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	if movementType, ok := filter.Filters["movement_type"]; ok {
		query = query.Where("movement_type = ?", movementType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*inventory.StockMovement]{}, err
	}

	var movements []*inventory.StockMovement
	if err := applyPagination(query, filter, MovementSortFields, "created_at DESC").
		Find(&movements).Error; err != nil {
		return shared.Paginated[*inventory.StockMovement]{}, err
	}

	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
