package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	publisher    shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	publisher shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "Category not found")
			}
			return nil, err
		}
	}

	cost := decimal.Zero
	sale := decimal.Zero
	if req.CostPrice != nil {
		cost = *req.CostPrice
	}
	if req.SalePrice != nil {
		sale = *req.SalePrice
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Unit,
		valueobject.NewMoneyBRL(cost), valueobject.NewMoneyBRL(sale))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.MinStock != nil || req.MaxStock != nil {
		minStock := decimal.Zero
		maxStock := decimal.Zero
		if req.MinStock != nil {
			minStock = *req.MinStock
		}
		if req.MaxStock != nil {
			maxStock = *req.MaxStock
		}
		if err := product.SetStockThresholds(minStock, maxStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product, time.Now()), nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.CostPrice != nil || req.SalePrice != nil {
		cost := product.CostPrice
		sale := product.SalePrice
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.SalePrice != nil {
			sale = *req.SalePrice
		}
		if err := product.SetPrices(valueobject.NewMoneyBRL(cost), valueobject.NewMoneyBRL(sale)); err != nil {
			return nil, err
		}
	}

	if req.MinStock != nil || req.MaxStock != nil {
		minStock := product.MinStock
		maxStock := product.MaxStock
		if req.MinStock != nil {
			minStock = *req.MinStock
		}
		if req.MaxStock != nil {
			maxStock = *req.MaxStock
		}
		if err := product.SetStockThresholds(minStock, maxStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product, time.Now()), nil
}

// SetPromotion configures a promotional price window on a product
func (s *ProductService) SetPromotion(ctx context.Context, id uuid.UUID, req SetPromotionRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetPromotion(valueobject.NewMoneyBRL(req.Price), req.Start, req.End); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, time.Now()), nil
}

// ClearPromotion removes a product's promotional price
func (s *ProductService) ClearPromotion(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.ClearPromotion()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, time.Now()), nil
}

// Activate re-enables a deactivated product
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, time.Now()), nil
}

// Deactivate disables a product for new sales
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, time.Now()), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product, time.Now()), nil
}

// GetByCode returns a product by its code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product, time.Now()), nil
}

// List returns a paginated product list
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*ProductResponse], error) {
	page, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[*ProductResponse]{}, err
	}

	now := time.Now()
	items := make([]*ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, ToProductResponse(p, now))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListBelowMinimum returns products whose stock fell under the minimum threshold
func (s *ProductService) ListBelowMinimum(ctx context.Context) ([]*ProductResponse, error) {
	products, err := s.productRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, ToProductResponse(p, now))
	}
	return items, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()
}
