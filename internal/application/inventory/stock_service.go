package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/shared"
)

// StockService handles stock ledger operations
type StockService struct {
	ledger *inventory.Ledger
	scope  TransactionScope
}

// NewStockService creates a new StockService
func NewStockService(scope TransactionScope) *StockService {
	return &StockService{
		ledger: inventory.NewLedger(),
		scope:  scope,
	}
}

// CheckAvailability reports whether a product can cover the requested quantity
func (s *StockService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*inventory.Availability, error) {
	var availability inventory.Availability

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		availability = s.ledger.CheckAvailability(product, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &availability, nil
}

// RegisterMovement applies a manual stock movement. The product balance
// and the movement record are written in the same transaction.
func (s *StockService) RegisterMovement(ctx context.Context, req RegisterMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Unknown movement type: %s", req.Type)
	}

	var movement *inventory.StockMovement

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		movement, err = s.ledger.ApplyMovement(product, inventory.MovementInput{
			Type:     movementType,
			Quantity: req.Quantity,
			UnitCost: req.UnitCost,
			Reason:   req.Reason,
		})
		if err != nil {
			return err
		}

		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	return ToMovementResponse(movement), nil
}

// ListMovements returns the movement history for a product
func (s *StockService) ListMovements(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[*MovementResponse], error) {
	var page shared.Paginated[*inventory.StockMovement]

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.MovementRepo().ListByProduct(ctx, productID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[*MovementResponse]{}, err
	}

	items := make([]*MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, ToMovementResponse(m))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListMovementsByPeriod returns movements recorded inside a time window
func (s *StockService) ListMovementsByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*MovementResponse], error) {
	if !to.After(from) {
		return shared.Paginated[*MovementResponse]{}, shared.NewDomainError(shared.CodeValidation, "Period end must be after its start")
	}

	var page shared.Paginated[*inventory.StockMovement]

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.MovementRepo().ListByPeriod(ctx, from, to, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[*MovementResponse]{}, err
	}

	items := make([]*MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, ToMovementResponse(m))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}
