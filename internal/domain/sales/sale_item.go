package sales

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItem is a line on a sale. Product data is snapshotted at the time
// the line is added so later catalog changes do not rewrite history.
type SaleItem struct {
	shared.BaseEntity
	SaleID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	Sequence          int              `gorm:"not null"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductCode       string           `gorm:"type:varchar(50);not null"`
	ProductName       string           `gorm:"type:varchar(200);not null"`
	Unit              string           `gorm:"type:varchar(20);not null"`
	Quantity          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	OriginalUnitPrice decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent   *decimal.Decimal `gorm:"type:decimal(8,4)"`
	DiscountAmount    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SurchargePercent  *decimal.Decimal `gorm:"type:decimal(8,4)"`
	SurchargeAmount   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Gross returns quantity times unit price before discounts
func (i *SaleItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity)
}

// EffectiveDiscount returns the discount applied to this line.
// A percentage discount takes precedence over an absolute amount.
func (i *SaleItem) EffectiveDiscount() decimal.Decimal {
	if i.DiscountPercent != nil {
		return i.Gross().Mul(*i.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	return i.DiscountAmount
}

// EffectiveSurcharge returns the surcharge applied to this line, with
// the same percentage-over-absolute precedence as the discount.
func (i *SaleItem) EffectiveSurcharge() decimal.Decimal {
	if i.SurchargePercent != nil {
		return i.Gross().Mul(*i.SurchargePercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	return i.SurchargeAmount
}

// recalculate refreshes the line total from quantity, price, discount,
// and surcharge
func (i *SaleItem) recalculate() {
	i.Total = i.Gross().Sub(i.EffectiveDiscount()).Add(i.EffectiveSurcharge())
	i.Touch()
}

// TotalCost returns quantity times snapshotted unit cost
func (i *SaleItem) TotalCost() decimal.Decimal {
	return i.UnitCost.Mul(i.Quantity)
}

// Margin returns the line margin as a percentage over cost, or nil when
// the cost basis is zero and a margin is undefined.
func (i *SaleItem) Margin() *decimal.Decimal {
	cost := i.TotalCost()
	if cost.IsZero() {
		return nil
	}
	margin := i.Total.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(4)
	return &margin
}
