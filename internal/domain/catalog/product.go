package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive      ProductStatus = "active"
	ProductStatusInactive    ProductStatus = "inactive"
	ProductStatusOnPromotion ProductStatus = "on_promotion"
	ProductStatusOutOfStock  ProductStatus = "out_of_stock"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOnPromotion, ProductStatusOutOfStock:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product represents a product/SKU in the catalog.
// It is the aggregate root for product-related operations and carries the
// current stock balance mutated by the stock ledger.
type Product struct {
	shared.BaseAggregateRoot
	Code         string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string           `gorm:"type:varchar(200);not null"`
	Description  string           `gorm:"type:text"`
	CategoryID   *uuid.UUID       `gorm:"type:uuid;index"`
	Unit         string           `gorm:"type:varchar(20);not null"`
	CostPrice    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PromoPrice   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PromoStart   *time.Time
	PromoEnd     *time.Time
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, costPrice, salePrice valueobject.Money) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Prices cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
		CostPrice:         costPrice.Amount(),
		SalePrice:         salePrice.Amount(),
		CurrentStock:      decimal.Zero,
		MinStock:          decimal.Zero,
		MaxStock:          decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
	p.IncrementVersion()
}

// SetPrices sets both cost and sale prices
func (p *Product) SetPrices(costPrice, salePrice valueobject.Money) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Cost price cannot be negative")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Sale price cannot be negative")
	}

	oldCost := p.CostPrice
	oldSale := p.SalePrice

	p.CostPrice = costPrice.Amount()
	p.SalePrice = salePrice.Amount()
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldSale))

	return nil
}

// SetPromotion configures a promotional price valid within [start, end]
func (p *Product) SetPromotion(price valueobject.Money, start, end time.Time) error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Product %s is inactive", p.Code)
	}
	if price.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Promotional price must be positive")
	}
	if !end.After(start) {
		return shared.NewDomainError(shared.CodeValidation, "Promotion end must be after start")
	}

	amount := price.Amount()
	p.PromoPrice = &amount
	p.PromoStart = &start
	p.PromoEnd = &end
	if p.Status == ProductStatusActive {
		p.Status = ProductStatusOnPromotion
	}
	p.Touch()
	p.IncrementVersion()

	return nil
}

// ClearPromotion removes the promotional price
func (p *Product) ClearPromotion() {
	p.PromoPrice = nil
	p.PromoStart = nil
	p.PromoEnd = nil
	if p.Status == ProductStatusOnPromotion {
		p.Status = ProductStatusActive
	}
	p.Touch()
	p.IncrementVersion()
}

// CurrentPrice returns the effective unit price at the given instant:
// the promotional price when set and within its validity window,
// otherwise the list price.
func (p *Product) CurrentPrice(at time.Time) valueobject.Money {
	if p.PromoPrice != nil && p.PromoStart != nil && p.PromoEnd != nil {
		if !at.Before(*p.PromoStart) && !at.After(*p.PromoEnd) {
			return valueobject.NewMoneyBRL(*p.PromoPrice)
		}
	}
	return valueobject.NewMoneyBRL(p.SalePrice)
}

// SetStockThresholds sets the minimum and maximum stock levels
func (p *Product) SetStockThresholds(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Stock thresholds cannot be negative")
	}
	if maxStock.GreaterThan(decimal.Zero) && minStock.GreaterThan(maxStock) {
		return shared.NewDomainError(shared.CodeValidation, "Minimum stock cannot exceed maximum stock")
	}

	p.MinStock = minStock
	p.MaxStock = maxStock
	p.Touch()
	p.IncrementVersion()

	return nil
}

// DebitStock removes quantity from the current balance.
// Fails when the quantity exceeds the current balance; the balance is
// never left partially debited.
func (p *Product) DebitStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}
	if quantity.GreaterThan(p.CurrentStock) {
		return shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"Product %s: requested %s exceeds current stock %s", p.Code, quantity, p.CurrentStock)
	}

	p.CurrentStock = p.CurrentStock.Sub(quantity)
	p.refreshStockStatus()
	p.Touch()
	p.IncrementVersion()

	return nil
}

// CreditStock adds quantity to the current balance
func (p *Product) CreditStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}

	p.CurrentStock = p.CurrentStock.Add(quantity)
	p.refreshStockStatus()
	p.Touch()
	p.IncrementVersion()

	return nil
}

// refreshStockStatus re-derives the status from the stock balance.
// Only the out_of_stock<->active pair is automatic: a manual inactive
// and a configured on_promotion survive balance changes above zero.
func (p *Product) refreshStockStatus() {
	if p.CurrentStock.LessThanOrEqual(decimal.Zero) {
		if p.Status != ProductStatusInactive {
			p.Status = ProductStatusOutOfStock
		}
		return
	}
	if p.Status == ProductStatusOutOfStock {
		p.Status = ProductStatusActive
	}
}

// Activate reverts a manually deactivated product to active
func (p *Product) Activate() error {
	if p.Status != ProductStatusInactive {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Product %s is not inactive", p.Code)
	}

	p.Status = ProductStatusActive
	p.refreshStockStatus()
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Deactivate manually deactivates the product.
// A manual inactive coexists with any stock level.
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Product %s is already inactive", p.Code)
	}

	p.Status = ProductStatusInactive
	p.Touch()
	p.IncrementVersion()

	return nil
}

// IsSellable returns true if the product can appear on a new sale
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive || p.Status == ProductStatusOnPromotion
}

// IsBelowMinimum returns true if current stock is below the minimum threshold
func (p *Product) IsBelowMinimum() bool {
	return p.MinStock.GreaterThan(decimal.Zero) && p.CurrentStock.LessThan(p.MinStock)
}

// GetCostPriceMoney returns the cost price as Money value object
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.CostPrice)
}

// GetSalePriceMoney returns the sale price as Money value object
func (p *Product) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.SalePrice)
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError(shared.CodeValidation, "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError(shared.CodeValidation, "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError(shared.CodeValidation, "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Product name cannot exceed 200 characters")
	}
	return nil
}
