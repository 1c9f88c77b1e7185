package sales

import (
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales domain
const (
	EventTypeSaleCreated   = "sales.sale.created"
	EventTypeSaleApproved  = "sales.sale.approved"
	EventTypeSaleDelivered = "sales.sale.delivered"
	EventTypeSaleCancelled = "sales.sale.cancelled"
)

// AggregateTypeSale is the aggregate type for sale events
const AggregateTypeSale = "Sale"

// SaleCreatedEvent is raised when a sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, sale.ID),
		Number:          sale.Number,
		CustomerName:    sale.CustomerName,
	}
}

// SaleApprovedEvent is raised when a sale leaves the pending state
type SaleApprovedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	ItemCount  int             `json:"item_count"`
}

// NewSaleApprovedEvent creates a new SaleApprovedEvent
func NewSaleApprovedEvent(sale *Sale) *SaleApprovedEvent {
	return &SaleApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleApproved, AggregateTypeSale, sale.ID),
		Number:          sale.Number,
		GrandTotal:      sale.GrandTotal,
		ItemCount:       len(sale.Items),
	}
}

// SaleDeliveredEvent is raised when a sale reaches its final delivered state
type SaleDeliveredEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewSaleDeliveredEvent creates a new SaleDeliveredEvent
func NewSaleDeliveredEvent(sale *Sale) *SaleDeliveredEvent {
	return &SaleDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDelivered, AggregateTypeSale, sale.ID),
		Number:          sale.Number,
	}
}

// SaleCancelledEvent is raised when a sale is cancelled.
// RequiresStockReturn is true when the sale had already been approved and
// its stock debit must be reversed.
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Number              string `json:"number"`
	Reason              string `json:"reason"`
	RequiresStockReturn bool   `json:"requires_stock_return"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, wasApproved bool) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		Number:              sale.Number,
		Reason:              sale.CancelReason,
		RequiresStockReturn: wasApproved,
	}
}
