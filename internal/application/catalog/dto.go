package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code        string           `json:"code" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Unit        string           `json:"unit" binding:"required,min=1,max=20"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
}

// SetPromotionRequest configures a promotional price window
type SetPromotionRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
	Start time.Time       `json:"start" binding:"required"`
	End   time.Time       `json:"end" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID        `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	Unit         string           `json:"unit"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	PromoPrice   *decimal.Decimal `json:"promo_price,omitempty"`
	PromoStart   *time.Time       `json:"promo_start,omitempty"`
	PromoEnd     *time.Time       `json:"promo_end,omitempty"`
	CurrentPrice decimal.Decimal  `json:"current_price"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	MinStock     decimal.Decimal  `json:"min_stock"`
	MaxStock     decimal.Decimal  `json:"max_stock"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Version      int              `json:"version"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product, at time.Time) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		PromoPrice:   p.PromoPrice,
		PromoStart:   p.PromoStart,
		PromoEnd:     p.PromoEnd,
		CurrentPrice: p.CurrentPrice(at).Amount(),
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code     string     `json:"code" binding:"required,min=1,max=50"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// MoveCategoryRequest re-parents a category
type MoveCategoryRequest struct {
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Path      string     `json:"path"`
	Level     int        `json:"level"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		ParentID:  c.ParentID,
		Path:      c.Path,
		Level:     c.Level,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
