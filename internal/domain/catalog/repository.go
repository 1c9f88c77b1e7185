package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Product], error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (shared.Paginated[*Product], error)
	ListBelowMinimum(ctx context.Context) ([]*Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByCode(ctx context.Context, code string) (*Category, error)
	FindDescendants(ctx context.Context, pathPrefix string) ([]*Category, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Category], error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
