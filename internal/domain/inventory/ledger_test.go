package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
)

func newStockedProduct(t *testing.T, qty int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("SKU-001", "Espresso Beans 1kg", "kg",
		valueobject.NewMoneyBRLFromFloat(40),
		valueobject.NewMoneyBRLFromFloat(65))
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, p.CreditStock(decimal.NewFromInt(qty)))
	}
	return p
}

func TestLedger_CheckAvailability(t *testing.T) {
	ledger := NewLedger()
	p := newStockedProduct(t, 10)

	av := ledger.CheckAvailability(p, decimal.NewFromInt(7))
	assert.True(t, av.Available)
	assert.True(t, av.RemainingIfDebited.Equal(decimal.NewFromInt(3)))

	// The remainder goes negative when the request is not coverable
	av = ledger.CheckAvailability(p, decimal.NewFromInt(12))
	assert.False(t, av.Available)
	assert.True(t, av.RemainingIfDebited.Equal(decimal.NewFromInt(-2)))
	assert.True(t, av.Current.Equal(decimal.NewFromInt(10)))

	// Checking never mutates the balance
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(10)))
}

func TestLedger_ApplyMovement_Inbound(t *testing.T) {
	ledger := NewLedger()
	p := newStockedProduct(t, 0)

	mv, err := ledger.ApplyMovement(p, MovementInput{
		Type:     MovementTypePurchase,
		Quantity: decimal.NewFromInt(20),
		UnitCost: decimal.NewFromFloat(38.50),
		Reason:   "supplier receipt",
	})
	require.NoError(t, err)

	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(20)))
	assert.True(t, mv.PreviousBalance.IsZero())
	assert.True(t, mv.NewBalance.Equal(decimal.NewFromInt(20)))
	assert.True(t, mv.UnitCost.Equal(decimal.NewFromFloat(38.50)))
	assert.Equal(t, p.Code, mv.ProductCode)
}

func TestLedger_ApplyMovement_Outbound(t *testing.T) {
	ledger := NewLedger()
	p := newStockedProduct(t, 10)

	mv, err := ledger.ApplyMovement(p, MovementInput{
		Type:     MovementTypeSale,
		Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(6)))
	assert.True(t, mv.PreviousBalance.Equal(decimal.NewFromInt(10)))
	assert.True(t, mv.NewBalance.Equal(decimal.NewFromInt(6)))

	// Unit cost defaults to the product cost when not supplied
	assert.True(t, mv.UnitCost.Equal(decimal.NewFromInt(40)))
}

func TestLedger_ApplyMovement_InsufficientStock(t *testing.T) {
	ledger := NewLedger()
	p := newStockedProduct(t, 3)

	mv, err := ledger.ApplyMovement(p, MovementInput{
		Type:     MovementTypeSale,
		Quantity: decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.Nil(t, mv)
	assert.True(t, shared.IsCode(err, shared.CodeInsufficientStock))
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(3)))
}

func TestLedger_ApplyMovement_Validation(t *testing.T) {
	ledger := NewLedger()
	p := newStockedProduct(t, 10)

	_, err := ledger.ApplyMovement(p, MovementInput{
		Type:     MovementType("teleport"),
		Quantity: decimal.NewFromInt(1),
	})
	assert.Error(t, err)

	_, err = ledger.ApplyMovement(p, MovementInput{
		Type:     MovementTypePurchase,
		Quantity: decimal.Zero,
	})
	assert.Error(t, err)
}

func TestMovementType_Direction(t *testing.T) {
	assert.Equal(t, 1, MovementTypePurchase.Direction())
	assert.Equal(t, 1, MovementTypeSaleReversal.Direction())
	assert.Equal(t, 1, MovementTypeCustomerRet.Direction())
	assert.Equal(t, -1, MovementTypeSale.Direction())
	assert.Equal(t, -1, MovementTypeLoss.Direction())
	assert.Equal(t, 0, MovementType("teleport").Direction())
}
