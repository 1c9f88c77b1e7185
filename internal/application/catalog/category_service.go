package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category, optionally under a parent
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this code already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "Parent category not found")
			}
			return nil, err
		}
		category, err = catalog.NewChildCategory(req.Code, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(req.Code, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Move re-parents a category and rebases the paths of all descendants
func (s *CategoryService) Move(ctx context.Context, id uuid.UUID, req MoveCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var newParent *catalog.Category
	if req.NewParentID != nil {
		newParent, err = s.categoryRepo.FindByID(ctx, *req.NewParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "Parent category not found")
			}
			return nil, err
		}
	}

	oldPath, err := category.MoveTo(newParent)
	if err != nil {
		return nil, err
	}

	descendants, err := s.categoryRepo.FindDescendants(ctx, oldPath)
	if err != nil {
		return nil, err
	}
	for _, descendant := range descendants {
		if err := descendant.RebasePath(oldPath, category.Path); err != nil {
			return nil, err
		}
		if err := s.categoryRepo.Save(ctx, descendant); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List returns a paginated category list
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*CategoryResponse], error) {
	page, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[*CategoryResponse]{}, err
	}

	items := make([]*CategoryResponse, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, ToCategoryResponse(c))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes a category that has no products and no children
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError(shared.CodeInvalidState, "Category still has products assigned")
	}

	children, err := s.categoryRepo.FindDescendants(ctx, category.Path)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Category still has child categories")
	}

	return s.categoryRepo.Delete(ctx, id)
}
