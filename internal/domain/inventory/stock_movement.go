package inventory

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType identifies why stock changed
type MovementType string

const (
	MovementTypePurchase      MovementType = "purchase"
	MovementTypeSale          MovementType = "sale"
	MovementTypeSaleReversal  MovementType = "sale_reversal"
	MovementTypeCustomerRet   MovementType = "customer_return"
	MovementTypeAdjustmentIn  MovementType = "adjustment_in"
	MovementTypeAdjustmentOut MovementType = "adjustment_out"
	MovementTypeLoss          MovementType = "loss"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeSaleReversal,
		MovementTypeCustomerRet, MovementTypeAdjustmentIn, MovementTypeAdjustmentOut,
		MovementTypeLoss:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// Direction returns +1 for inbound movements and -1 for outbound ones
func (t MovementType) Direction() int {
	switch t {
	case MovementTypePurchase, MovementTypeSaleReversal, MovementTypeCustomerRet, MovementTypeAdjustmentIn:
		return 1
	case MovementTypeSale, MovementTypeAdjustmentOut, MovementTypeLoss:
		return -1
	}
	return 0
}

// StockMovement is an append-only record of a single stock change.
// Movements are never updated or deleted; corrections are new movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode     string          `gorm:"type:varchar(50);not null;index"`
	MovementType    MovementType    `gorm:"type:varchar(30);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PreviousBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewBalance      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reason          string          `gorm:"type:varchar(255)"`
	ReferenceType   string          `gorm:"type:varchar(50);index"`
	ReferenceID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}
