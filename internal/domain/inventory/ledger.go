package inventory

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Availability is the result of a stock availability check.
// RemainingIfDebited is the balance the product would hold after the
// requested debit; it goes negative when the request cannot be covered.
type Availability struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Available          bool            `json:"available"`
	Current            decimal.Decimal `json:"current"`
	Requested          decimal.Decimal `json:"requested"`
	RemainingIfDebited decimal.Decimal `json:"remaining_if_debited"`
}

// Ledger is the stock ledger domain service. It mutates product balances
// and produces the matching movement records in a single operation so the
// balance and the movement history never drift apart.
type Ledger struct{}

// NewLedger creates a stock ledger service
func NewLedger() *Ledger {
	return &Ledger{}
}

// CheckAvailability reports whether the product can cover the requested
// quantity. It never mutates anything.
func (l *Ledger) CheckAvailability(product *catalog.Product, requested decimal.Decimal) Availability {
	return Availability{
		ProductID:          product.ID,
		Available:          requested.LessThanOrEqual(product.CurrentStock),
		Current:            product.CurrentStock,
		Requested:          requested,
		RemainingIfDebited: product.CurrentStock.Sub(requested),
	}
}

// MovementInput describes a requested stock movement
type MovementInput struct {
	Type          MovementType
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	Reason        string
	ReferenceType string
	ReferenceID   *uuid.UUID
}

// ApplyMovement mutates the product balance according to the movement
// direction and returns the append-only movement record. The product is
// left untouched when the movement fails.
func (l *Ledger) ApplyMovement(product *catalog.Product, input MovementInput) (*StockMovement, error) {
	if !input.Type.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Unknown movement type: %s", input.Type)
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Movement quantity must be positive")
	}

	previous := product.CurrentStock

	var err error
	switch input.Type.Direction() {
	case 1:
		err = product.CreditStock(input.Quantity)
	case -1:
		err = product.DebitStock(input.Quantity)
	}
	if err != nil {
		return nil, err
	}

	unitCost := input.UnitCost
	if unitCost.IsZero() {
		unitCost = product.CostPrice
	}

	movement := &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       product.ID,
		ProductCode:     product.Code,
		MovementType:    input.Type,
		Quantity:        input.Quantity,
		PreviousBalance: previous,
		NewBalance:      product.CurrentStock,
		UnitCost:        unitCost,
		Reason:          input.Reason,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
	}

	return movement, nil
}
