package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/sales"
	"github.com/retail/backend/internal/domain/shared"
)

// MockEntryRepository is a mock implementation of finance.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindByOrigin(ctx context.Context, originType string, originID uuid.UUID) ([]*finance.LedgerEntry, error) {
	args := m.Called(ctx, originType, originID)
	return args.Get(0).([]*finance.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*finance.LedgerEntry]), args.Error(1)
}

func (m *MockEntryRepository) ListByKind(ctx context.Context, kind finance.EntryKind, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).(shared.Paginated[*finance.LedgerEntry]), args.Error(1)
}

func (m *MockEntryRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*finance.LedgerEntry, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]*finance.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListDueBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*finance.LedgerEntry], error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).(shared.Paginated[*finance.LedgerEntry]), args.Error(1)
}

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, number string) (*sales.Sale, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*sales.Sale]), args.Error(1)
}

func (m *MockSaleRepository) ListByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*sales.Sale]), args.Error(1)
}

func (m *MockSaleRepository) ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (shared.Paginated[*sales.Sale], error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).(shared.Paginated[*sales.Sale]), args.Error(1)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newApprovedSale(t *testing.T, total float64) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale("000042", "Acme Ltda", "11222333000181")
	require.NoError(t, err)
	require.NoError(t, sale.AddItem(sales.ItemSnapshot{
		ProductID:   uuid.New(),
		ProductCode: "SKU-001",
		ProductName: "Espresso Beans",
		Unit:        "kg",
		UnitPrice:   decimal.NewFromFloat(total),
		UnitCost:    decimal.NewFromFloat(total / 2),
	}, decimal.NewFromInt(1)))
	require.NoError(t, sale.Approve())
	return sale
}

func TestLedgerService_CreateReceivablesForSale(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	sale := newApprovedSale(t, 100)
	firstDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	entryRepo.On("FindByOrigin", mock.Anything, OriginSale, sale.ID).Return([]*finance.LedgerEntry{}, nil)
	entryRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*finance.LedgerEntry")).Return(nil)

	responses, err := service.CreateReceivablesForSale(context.Background(), CreateReceivablesForSaleRequest{
		SaleID:       sale.ID,
		Installments: 3,
		FirstDueDate: firstDue,
	})
	require.NoError(t, err)
	require.Len(t, responses, 3)

	// Installments sum back to the sale total, first one absorbs the cent
	total := decimal.Zero
	for _, r := range responses {
		total = total.Add(r.OriginalAmount)
	}
	assert.True(t, total.Equal(sale.GrandTotal))
	assert.True(t, responses[0].OriginalAmount.Equal(decimal.NewFromFloat(33.34)))

	// Due dates advance month by month
	assert.Equal(t, firstDue, responses[0].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), responses[1].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 2, 0), responses[2].DueDate)

	assert.Equal(t, 1, responses[0].InstallmentNumber)
	assert.Equal(t, 3, responses[0].InstallmentCount)
}

func TestLedgerService_CreateReceivablesForSale_Guards(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	t.Run("pending sale", func(t *testing.T) {
		sale, err := sales.NewSale("000001", "Acme Ltda", "")
		require.NoError(t, err)
		saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

		_, err = service.CreateReceivablesForSale(context.Background(), CreateReceivablesForSaleRequest{
			SaleID: sale.ID, Installments: 1, FirstDueDate: time.Now(),
		})
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
	})

	t.Run("entries already exist", func(t *testing.T) {
		sale := newApprovedSale(t, 100)
		existing, err := finance.NewLedgerEntry(finance.EntryKindReceivable, "Sale 000042", "Acme Ltda",
			decimal.NewFromInt(100), time.Now(), time.Now().AddDate(0, 1, 0))
		require.NoError(t, err)

		saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		entryRepo.On("FindByOrigin", mock.Anything, OriginSale, sale.ID).Return([]*finance.LedgerEntry{existing}, nil)

		_, err = service.CreateReceivablesForSale(context.Background(), CreateReceivablesForSaleRequest{
			SaleID: sale.ID, Installments: 2, FirstDueDate: time.Now(),
		})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})
}

func TestLedgerService_RegisterSettlement_SingleWrite(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	issue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	entry, err := finance.NewLedgerEntry(finance.EntryKindPayable, "Office rent", "Landlord",
		decimal.NewFromInt(3000), issue, due)
	require.NoError(t, err)
	require.NoError(t, entry.SetRecurrence(finance.PeriodicityMonthly))

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("Save", mock.Anything, entry).Return(nil)

	resp, err := service.RegisterSettlement(context.Background(), entry.ID, RegisterSettlementRequest{
		Amount:    decimal.NewFromInt(3000),
		Method:    "transfer",
		SettledOn: due,
	})
	require.NoError(t, err)
	assert.Equal(t, "settled", resp.Status)

	// Even a full settlement of a recurring entry writes only itself;
	// the next occurrence is drawn separately
	entryRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestLedgerService_RegisterSettlement_Partial(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	entry, err := finance.NewLedgerEntry(finance.EntryKindPayable, "Office rent", "Landlord",
		decimal.NewFromInt(3000), time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, entry.SetRecurrence(finance.PeriodicityMonthly))

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("Save", mock.Anything, entry).Return(nil)

	resp, err := service.RegisterSettlement(context.Background(), entry.ID, RegisterSettlementRequest{
		Amount:    decimal.NewFromInt(1000),
		Method:    "pix",
		SettledOn: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "partially_settled", resp.Status)
	entryRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestLedgerService_GenerateNextRecurrence(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	issue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	entry, err := finance.NewLedgerEntry(finance.EntryKindPayable, "Office rent", "Landlord",
		decimal.NewFromInt(3000), issue, due)
	require.NoError(t, err)
	require.NoError(t, entry.SetRecurrence(finance.PeriodicityMonthly))

	var spawned *finance.LedgerEntry
	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
		Run(func(args mock.Arguments) {
			spawned = args.Get(1).(*finance.LedgerEntry)
		}).Return(nil)

	resp, err := service.GenerateNextRecurrence(context.Background(), entry.ID)
	require.NoError(t, err)

	require.NotNil(t, spawned)
	assert.NotEqual(t, entry.ID, spawned.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), resp.DueDate)
	assert.Equal(t, "open", resp.Status)
	assert.True(t, resp.Recurring)
	assert.Equal(t, 2, resp.InstallmentNumber)
}

func TestLedgerService_GenerateNextRecurrence_NotRecurring(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	entry, err := finance.NewLedgerEntry(finance.EntryKindPayable, "One-off purchase", "Supplier SA",
		decimal.NewFromInt(500), time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)

	_, err = service.GenerateNextRecurrence(context.Background(), entry.ID)
	assert.True(t, shared.IsCode(err, shared.CodeNotRecurring))
	entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLedgerService_SetContested(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	entry, err := finance.NewLedgerEntry(finance.EntryKindReceivable, "Sale 000042", "Acme Ltda",
		decimal.NewFromInt(100), time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("Save", mock.Anything, entry).Return(nil)

	resp, err := service.SetContested(context.Background(), entry.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.Contested)
	assert.Equal(t, "open", resp.Status)
}

func TestLedgerService_AccrueLateCharges(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	issue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	entry, err := finance.NewLedgerEntry(finance.EntryKindReceivable, "Sale 000042", "Acme Ltda",
		decimal.NewFromInt(1000), issue, due)
	require.NoError(t, err)

	asOf := due.AddDate(0, 0, 10)
	entryRepo.On("ListOverdue", mock.Anything, asOf).Return([]*finance.LedgerEntry{entry}, nil)
	entryRepo.On("Save", mock.Anything, entry).Return(nil)

	accrued, err := service.AccrueLateCharges(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, accrued)
	assert.True(t, entry.Remaining().Equal(decimal.NewFromFloat(1023.30)))

	// A second run for the same day changes nothing and saves nothing new
	accrued, err = service.AccrueLateCharges(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, accrued)
	entryRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestLedgerService_CreateEntry_Installments(t *testing.T) {
	entryRepo := new(MockEntryRepository)
	saleRepo := new(MockSaleRepository)
	service := NewLedgerService(entryRepo, saleRepo, nil)

	entryRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*finance.LedgerEntry")).Return(nil)

	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	responses, err := service.CreateEntry(context.Background(), CreateEntryRequest{
		Kind:         "payable",
		Description:  "Equipment purchase",
		Counterparty: "Supplier SA",
		Amount:       decimal.NewFromInt(1000),
		IssueDate:    issue,
		DueDate:      due,
		Installments: 4,
	})
	require.NoError(t, err)
	require.Len(t, responses, 4)

	total := decimal.Zero
	for _, r := range responses {
		total = total.Add(r.OriginalAmount)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, due.AddDate(0, 3, 0), responses[3].DueDate)
}
