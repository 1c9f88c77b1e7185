package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RegisterMovementRequest represents a manual stock movement
type RegisterMovementRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason" binding:"max=255"`
}

// AvailabilityRequest asks whether a quantity can be covered
type AvailabilityRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Reason          string          `json:"reason,omitempty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		ProductCode:     m.ProductCode,
		Type:            m.MovementType.String(),
		Quantity:        m.Quantity,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		UnitCost:        m.UnitCost,
		Reason:          m.Reason,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		CreatedAt:       m.CreatedAt,
	}
}
