package catalog

import (
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the catalog domain
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductPriceChanged = "catalog.product.price_changed"
)

// AggregateTypeProduct is the aggregate type for product events
const AggregateTypeProduct = "Product"

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		Code:            product.Code,
		Name:            product.Name,
		SalePrice:       product.SalePrice,
	}
}

// ProductPriceChangedEvent is raised when a product's prices change
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	Code         string          `json:"code"`
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	OldSalePrice decimal.Decimal `json:"old_sale_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`
	NewSalePrice decimal.Decimal `json:"new_sale_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldCost, oldSale decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		Code:            product.Code,
		OldCostPrice:    oldCost,
		OldSalePrice:    oldSale,
		NewCostPrice:    product.CostPrice,
		NewSalePrice:    product.SalePrice,
	}
}
