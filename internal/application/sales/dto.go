package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest represents a request to open a new sale
type CreateSaleRequest struct {
	CustomerName     string                  `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerDocument string                  `json:"customer_document" binding:"max=20"`
	SellerName       string                  `json:"seller_name" binding:"max=200"`
	PaymentMethod    string                  `json:"payment_method" binding:"omitempty,oneof=cash pix card transfer boleto"`
	Installments     int                     `json:"installments" binding:"omitempty,min=1,max=120"`
	Notes            string                  `json:"notes" binding:"max=2000"`
	Items            []CreateSaleItemRequest `json:"items" binding:"dive"`
}

// CreateSaleItemRequest is one line of a new sale
type CreateSaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// AddItemRequest appends a line to a pending sale
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// SetAdjustmentsRequest sets the header-level discount, surcharge, and freight
type SetAdjustmentsRequest struct {
	DiscountPercent  *decimal.Decimal `json:"discount_percent"`
	DiscountAmount   *decimal.Decimal `json:"discount_amount"`
	SurchargePercent *decimal.Decimal `json:"surcharge_percent"`
	SurchargeAmount  *decimal.Decimal `json:"surcharge_amount"`
	FreightCost      *decimal.Decimal `json:"freight_cost"`
}

// TransitionRequest advances a sale through the pipeline
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelSaleRequest cancels a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID                uuid.UUID        `json:"id"`
	Sequence          int              `json:"sequence"`
	ProductID         uuid.UUID        `json:"product_id"`
	ProductCode       string           `json:"product_code"`
	ProductName       string           `json:"product_name"`
	Unit              string           `json:"unit"`
	Quantity          decimal.Decimal  `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal  `json:"original_unit_price"`
	DiscountPercent   *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount    decimal.Decimal  `json:"discount_amount"`
	SurchargePercent  *decimal.Decimal `json:"surcharge_percent,omitempty"`
	SurchargeAmount   decimal.Decimal  `json:"surcharge_amount"`
	Total             decimal.Decimal  `json:"total"`
	Margin            *decimal.Decimal `json:"margin,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID               uuid.UUID          `json:"id"`
	Number           string             `json:"number"`
	CustomerName     string             `json:"customer_name"`
	CustomerDocument string             `json:"customer_document,omitempty"`
	SellerName       string             `json:"seller_name,omitempty"`
	Status           string             `json:"status"`
	Items            []SaleItemResponse `json:"items"`
	DiscountPercent  *decimal.Decimal   `json:"discount_percent,omitempty"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	SurchargePercent *decimal.Decimal   `json:"surcharge_percent,omitempty"`
	SurchargeAmount  decimal.Decimal    `json:"surcharge_amount"`
	FreightCost      decimal.Decimal    `json:"freight_cost"`
	ItemsTotal       decimal.Decimal    `json:"items_total"`
	DiscountTotal    decimal.Decimal    `json:"discount_total"`
	GrandTotal       decimal.Decimal    `json:"grand_total"`
	PaymentMethod    string             `json:"payment_method,omitempty"`
	Installments     int                `json:"installments"`
	Margin           *decimal.Decimal   `json:"margin,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	DeliveredAt      *time.Time         `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason     string             `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(s *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for idx := range s.Items {
		item := &s.Items[idx]
		items = append(items, SaleItemResponse{
			ID:                item.ID,
			Sequence:          item.Sequence,
			ProductID:         item.ProductID,
			ProductCode:       item.ProductCode,
			ProductName:       item.ProductName,
			Unit:              item.Unit,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			OriginalUnitPrice: item.OriginalUnitPrice,
			DiscountPercent:   item.DiscountPercent,
			DiscountAmount:    item.DiscountAmount,
			SurchargePercent:  item.SurchargePercent,
			SurchargeAmount:   item.SurchargeAmount,
			Total:             item.Total,
			Margin:            item.Margin(),
		})
	}

	return &SaleResponse{
		ID:               s.ID,
		Number:           s.Number,
		CustomerName:     s.CustomerName,
		CustomerDocument: s.CustomerDocument,
		SellerName:       s.SellerName,
		Status:           s.Status.String(),
		Items:            items,
		DiscountPercent:  s.DiscountPercent,
		DiscountAmount:   s.DiscountAmount,
		SurchargePercent: s.SurchargePercent,
		SurchargeAmount:  s.SurchargeAmount,
		FreightCost:      s.FreightCost,
		ItemsTotal:       s.ItemsTotal,
		DiscountTotal:    s.DiscountTotal,
		GrandTotal:       s.GrandTotal,
		PaymentMethod:    s.PaymentMethod.String(),
		Installments:     s.InstallmentCount,
		Margin:           s.Margin(),
		Notes:            s.Notes,
		ApprovedAt:       s.ApprovedAt,
		DeliveredAt:      s.DeliveredAt,
		CancelledAt:      s.CancelledAt,
		CancelReason:     s.CancelReason,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}
