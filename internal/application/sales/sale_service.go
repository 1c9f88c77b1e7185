package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/sales"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockReferenceSale is the reference type stamped on movements a sale produces
const StockReferenceSale = "sale"

// SaleService handles sale lifecycle operations
type SaleService struct {
	scope     TransactionScope
	ledger    *inventory.Ledger
	publisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(scope TransactionScope, publisher shared.EventPublisher) *SaleService {
	return &SaleService{
		scope:     scope,
		ledger:    inventory.NewLedger(),
		publisher: publisher,
	}
}

// Create opens a new pending sale, optionally with initial items.
// Prices and costs are snapshotted from the catalog at this moment.
// The sequential number is drawn inside the same transaction that
// inserts the sale, so a rolled-back creation never burns a number
// that committed without its sale.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.Numbers().NextNumber(ctx)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(number, req.CustomerName, req.CustomerDocument)
		if err != nil {
			return err
		}
		sale.SellerName = req.SellerName
		sale.Notes = req.Notes

		if req.PaymentMethod != "" || req.Installments > 0 {
			installments := req.Installments
			if installments == 0 {
				installments = 1
			}
			if err := sale.SetPaymentTerms(sales.PaymentMethod(req.PaymentMethod), installments); err != nil {
				return err
			}
		}

		for _, line := range req.Items {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if err := addProductToSale(sale, product, line.Quantity); err != nil {
				return err
			}
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	return ToSaleResponse(sale), nil
}

// AddItem appends a line to a pending sale
func (s *SaleService) AddItem(ctx context.Context, saleID uuid.UUID, req AddItemRequest) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := addProductToSale(sale, product, req.Quantity); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return ToSaleResponse(sale), nil
}

// RemoveItem deletes a line from a pending sale
func (s *SaleService) RemoveItem(ctx context.Context, saleID, productID uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sale.RemoveItem(productID); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return ToSaleResponse(sale), nil
}

// SetAdjustments sets the header discount, surcharge, and freight
func (s *SaleService) SetAdjustments(ctx context.Context, saleID uuid.UUID, req SetAdjustmentsRequest) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		if req.DiscountPercent != nil || req.DiscountAmount != nil {
			amount := decimal.Zero
			if req.DiscountAmount != nil {
				amount = *req.DiscountAmount
			}
			if err := sale.SetDiscount(req.DiscountPercent, amount); err != nil {
				return err
			}
		}
		if req.SurchargePercent != nil || req.SurchargeAmount != nil {
			amount := decimal.Zero
			if req.SurchargeAmount != nil {
				amount = *req.SurchargeAmount
			}
			if err := sale.SetSurcharge(req.SurchargePercent, amount); err != nil {
				return err
			}
		}
		if req.FreightCost != nil {
			if err := sale.SetFreight(*req.FreightCost); err != nil {
				return err
			}
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return ToSaleResponse(sale), nil
}

// Approve confirms a pending sale and debits stock for every line. The
// sale, the product balances, and the movement records are written in
// one transaction; any shortage rolls the whole approval back.
func (s *SaleService) Approve(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		movements := make([]*inventory.StockMovement, 0, len(sale.Items))
		for idx := range sale.Items {
			item := &sale.Items[idx]
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			movement, err := s.ledger.ApplyMovement(product, inventory.MovementInput{
				Type:          inventory.MovementTypeSale,
				Quantity:      item.Quantity,
				UnitCost:      item.UnitCost,
				Reason:        "sale " + sale.Number,
				ReferenceType: StockReferenceSale,
				ReferenceID:   &sale.ID,
			})
			if err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		if err := sale.Approve(); err != nil {
			return err
		}
		if err := repos.MovementRepo().SaveBatch(ctx, movements); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	return ToSaleResponse(sale), nil
}

// Transition advances the sale one pipeline step
func (s *SaleService) Transition(ctx context.Context, saleID uuid.UUID, req TransitionRequest) (*SaleResponse, error) {
	target := sales.SaleStatus(req.Status)
	if target == sales.SaleStatusApproved {
		return s.Approve(ctx, saleID)
	}
	if target == sales.SaleStatusCancelled {
		return s.Cancel(ctx, saleID, CancelSaleRequest{})
	}

	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sale.TransitionTo(target); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	return ToSaleResponse(sale), nil
}

// Cancel cancels a sale. When the sale had been approved its stock debit
// is reversed with matching return movements in the same transaction.
func (s *SaleService) Cancel(ctx context.Context, saleID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		wasApproved := sale.Status != sales.SaleStatusPending
		if err := sale.Cancel(req.Reason); err != nil {
			return err
		}

		if wasApproved {
			movements := make([]*inventory.StockMovement, 0, len(sale.Items))
			for idx := range sale.Items {
				item := &sale.Items[idx]
				product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
				if err != nil {
					return err
				}

				movement, err := s.ledger.ApplyMovement(product, inventory.MovementInput{
					Type:          inventory.MovementTypeSaleReversal,
					Quantity:      item.Quantity,
					UnitCost:      item.UnitCost,
					Reason:        "cancellation of sale " + sale.Number,
					ReferenceType: StockReferenceSale,
					ReferenceID:   &sale.ID,
				})
				if err != nil {
					return err
				}
				if err := repos.ProductRepo().Save(ctx, product); err != nil {
					return err
				}
				movements = append(movements, movement)
			}
			if err := repos.MovementRepo().SaveBatch(ctx, movements); err != nil {
				return err
			}
		}

		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	return ToSaleResponse(sale), nil
}

// Get returns a sale by ID
func (s *SaleService) Get(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ToSaleResponse(sale), nil
}

// GetByNumber returns a sale by its sequential number
func (s *SaleService) GetByNumber(ctx context.Context, number string) (*SaleResponse, error) {
	var sale *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByNumber(ctx, number)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ToSaleResponse(sale), nil
}

// List returns a paginated sale list, optionally filtered by status
func (s *SaleService) List(ctx context.Context, status string, filter shared.Filter) (shared.Paginated[*SaleResponse], error) {
	var page shared.Paginated[*sales.Sale]

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if status != "" {
			saleStatus := sales.SaleStatus(status)
			if !saleStatus.IsValid() {
				return shared.NewDomainErrorf(shared.CodeValidation, "Unknown sale status: %s", status)
			}
			page, err = repos.SaleRepo().ListByStatus(ctx, saleStatus, filter)
		} else {
			page, err = repos.SaleRepo().List(ctx, filter)
		}
		return err
	})
	if err != nil {
		return shared.Paginated[*SaleResponse]{}, err
	}

	items := make([]*SaleResponse, 0, len(page.Items))
	for _, sale := range page.Items {
		items = append(items, ToSaleResponse(sale))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListByPeriod returns sales created inside a time window
func (s *SaleService) ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*SaleResponse], error) {
	if !to.After(from) {
		return shared.Paginated[*SaleResponse]{}, shared.NewDomainError(shared.CodeValidation, "Period end must be after its start")
	}

	var page shared.Paginated[*sales.Sale]

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.SaleRepo().ListByPeriod(ctx, from, to, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[*SaleResponse]{}, err
	}

	items := make([]*SaleResponse, 0, len(page.Items))
	for _, sale := range page.Items {
		items = append(items, ToSaleResponse(sale))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// addProductToSale snapshots the product onto the sale at the current price
func addProductToSale(sale *sales.Sale, product *catalog.Product, quantity decimal.Decimal) error {
	if !product.IsSellable() {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Product %s is not sellable", product.Code)
	}
	return sale.AddItem(sales.ItemSnapshot{
		ProductID:         product.ID,
		ProductCode:       product.Code,
		ProductName:       product.Name,
		Unit:              product.Unit,
		UnitPrice:         product.CurrentPrice(time.Now()).Amount(),
		OriginalUnitPrice: product.SalePrice,
		UnitCost:          product.CostPrice,
	}, quantity)
}

func (s *SaleService) publishEvents(ctx context.Context, sale *sales.Sale) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()
}
