package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/sales"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
)

// OriginSale is the origin type stamped on entries a sale produces
const OriginSale = "sale"

// LedgerService handles financial ledger operations
type LedgerService struct {
	entryRepo finance.EntryRepository
	saleRepo  sales.SaleRepository
	publisher shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entryRepo finance.EntryRepository, saleRepo sales.SaleRepository, publisher shared.EventPublisher) *LedgerService {
	return &LedgerService{
		entryRepo: entryRepo,
		saleRepo:  saleRepo,
		publisher: publisher,
	}
}

// CreateEntry opens one or more manual ledger entries. With installments
// above one the amount is allocated across entries so the parts sum back
// exactly, and due dates advance month by month.
func (s *LedgerService) CreateEntry(ctx context.Context, req CreateEntryRequest) ([]*EntryResponse, error) {
	kind := finance.EntryKind(req.Kind)

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}

	parts, err := valueobject.NewMoneyBRL(req.Amount).Allocate(installments)
	if err != nil {
		return nil, err
	}

	entries := make([]*finance.LedgerEntry, 0, installments)
	for i, part := range parts {
		entry, err := finance.NewLedgerEntry(kind, req.Description, req.Counterparty,
			part.Amount(), req.IssueDate, req.DueDate.AddDate(0, i, 0))
		if err != nil {
			return nil, err
		}
		if installments > 1 {
			if err := entry.SetInstallment(i+1, installments); err != nil {
				return nil, err
			}
		}
		if req.Periodicity != "" {
			if err := entry.SetRecurrence(finance.Periodicity(req.Periodicity)); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}

	if err := s.entryRepo.SaveBatch(ctx, entries); err != nil {
		return nil, err
	}

	responses := make([]*EntryResponse, 0, len(entries))
	for _, entry := range entries {
		s.publishEvents(ctx, entry)
		responses = append(responses, ToEntryResponse(entry))
	}
	return responses, nil
}

// CreateReceivablesForSale splits a sale's grand total into receivable
// installments. Allocation guarantees the installments sum back to the
// sale total to the cent.
func (s *LedgerService) CreateReceivablesForSale(ctx context.Context, req CreateReceivablesForSaleRequest) ([]*EntryResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == sales.SaleStatusPending || sale.Status == sales.SaleStatusCancelled {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidState,
			"Sale %s must be approved before receivables are created, current status is %s", sale.Number, sale.Status)
	}
	if !sale.GrandTotal.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Sale total must be positive")
	}

	existing, err := s.entryRepo.FindByOrigin(ctx, OriginSale, sale.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists, "Sale %s already has ledger entries", sale.Number)
	}

	parts, err := valueobject.NewMoneyBRL(sale.GrandTotal).Allocate(req.Installments)
	if err != nil {
		return nil, err
	}

	entries := make([]*finance.LedgerEntry, 0, req.Installments)
	for i, part := range parts {
		entry, err := finance.NewLedgerEntry(finance.EntryKindReceivable,
			"Sale "+sale.Number, sale.CustomerName,
			part.Amount(), time.Now(), req.FirstDueDate.AddDate(0, i, 0))
		if err != nil {
			return nil, err
		}
		entry.SetOrigin(OriginSale, sale.ID)
		if req.Installments > 1 {
			if err := entry.SetInstallment(i+1, req.Installments); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}

	if err := s.entryRepo.SaveBatch(ctx, entries); err != nil {
		return nil, err
	}

	responses := make([]*EntryResponse, 0, len(entries))
	for _, entry := range entries {
		s.publishEvents(ctx, entry)
		responses = append(responses, ToEntryResponse(entry))
	}
	return responses, nil
}

// RegisterSettlement applies a payment to an entry. The next occurrence
// of a recurring entry is not spawned here; the scheduler drives that
// through GenerateNextRecurrence so each call stays a single write.
func (s *LedgerService) RegisterSettlement(ctx context.Context, entryID uuid.UUID, req RegisterSettlementRequest) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if _, err := entry.RegisterSettlement(req.Amount, finance.PaymentMethod(req.Method), req.SettledOn, req.Notes); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	return ToEntryResponse(entry), nil
}

// GenerateNextRecurrence spawns and persists the next occurrence of a
// recurring entry
func (s *LedgerService) GenerateNextRecurrence(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	next, err := entry.NextRecurrence()
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, next); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, next)

	return ToEntryResponse(next), nil
}

// SetContested flags or clears a dispute on an entry
func (s *LedgerService) SetContested(ctx context.Context, entryID uuid.UUID, contested bool) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	entry.SetContested(contested)

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	return ToEntryResponse(entry), nil
}

// GrantDiscount reduces an entry's balance without a payment
func (s *LedgerService) GrantDiscount(ctx context.Context, entryID uuid.UUID, req GrantDiscountRequest) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.GrantDiscount(req.Amount); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	return ToEntryResponse(entry), nil
}

// CancelEntry voids an entry with no settlements
func (s *LedgerService) CancelEntry(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.Cancel(); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	return ToEntryResponse(entry), nil
}

// AccrueLateCharges recomputes late charges for every overdue entry as
// of the given date and returns how many entries changed.
func (s *LedgerService) AccrueLateCharges(ctx context.Context, asOf time.Time) (int, error) {
	overdue, err := s.entryRepo.ListOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	accrued := 0
	for _, entry := range overdue {
		before := entry.Remaining()
		if err := entry.AccrueLateCharges(asOf); err != nil {
			return accrued, err
		}
		if entry.Remaining().Equal(before) {
			continue
		}
		if err := s.entryRepo.Save(ctx, entry); err != nil {
			return accrued, err
		}
		accrued++
	}
	return accrued, nil
}

// Get returns an entry by ID
func (s *LedgerService) Get(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(entry), nil
}

// List returns a paginated entry list, optionally filtered by kind
func (s *LedgerService) List(ctx context.Context, kind string, filter shared.Filter) (shared.Paginated[*EntryResponse], error) {
	var page shared.Paginated[*finance.LedgerEntry]
	var err error

	if kind != "" {
		entryKind := finance.EntryKind(kind)
		if !entryKind.IsValid() {
			return shared.Paginated[*EntryResponse]{}, shared.NewDomainErrorf(shared.CodeValidation, "Unknown entry kind: %s", kind)
		}
		page, err = s.entryRepo.ListByKind(ctx, entryKind, filter)
	} else {
		page, err = s.entryRepo.List(ctx, filter)
	}
	if err != nil {
		return shared.Paginated[*EntryResponse]{}, err
	}

	items := make([]*EntryResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		items = append(items, ToEntryResponse(entry))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListOverdue returns every open entry past its due date
func (s *LedgerService) ListOverdue(ctx context.Context, asOf time.Time) ([]*EntryResponse, error) {
	entries, err := s.entryRepo.ListOverdue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	items := make([]*EntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToEntryResponse(entry))
	}
	return items, nil
}

func (s *LedgerService) publishEvents(ctx context.Context, entry *finance.LedgerEntry) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, entry.GetDomainEvents()...)
	entry.ClearDomainEvents()
}
