package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
)

func setupFinanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&finance.LedgerEntry{}, &finance.Settlement{}))
	return db
}

func newTestEntry(t *testing.T, dueDate time.Time) *finance.LedgerEntry {
	t.Helper()
	entry, err := finance.NewLedgerEntry(finance.EntryKindReceivable,
		"Sale 000001", "Acme Ltda",
		decimal.NewFromInt(100),
		dueDate.AddDate(0, -1, 0), dueDate)
	require.NoError(t, err)
	return entry
}

func TestGormEntryRepository_SaveAndFind(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormEntryRepository(db)
	ctx := context.Background()

	entry := newTestEntry(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	_, err := entry.RegisterSettlement(decimal.NewFromInt(40), finance.PaymentMethodPix,
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "first installment")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.EntryStatusPartiallySettled, found.Status)
	require.Len(t, found.Settlements, 1)
	assert.True(t, found.Settlements[0].Amount.Equal(decimal.NewFromInt(40)))
	assert.True(t, found.Remaining().Equal(decimal.NewFromInt(60)))
}

func TestGormEntryRepository_FindByOrigin(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormEntryRepository(db)
	ctx := context.Background()

	saleID := uuid.New()
	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	second := newTestEntry(t, due.AddDate(0, 1, 0))
	second.SetOrigin("sale", saleID)
	require.NoError(t, second.SetInstallment(2, 2))

	first := newTestEntry(t, due)
	first.SetOrigin("sale", saleID)
	require.NoError(t, first.SetInstallment(1, 2))

	unrelated := newTestEntry(t, due)

	require.NoError(t, repo.SaveBatch(ctx, []*finance.LedgerEntry{second, first, unrelated}))

	entries, err := repo.FindByOrigin(ctx, "sale", saleID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].InstallmentNumber)
	assert.Equal(t, 2, entries[1].InstallmentNumber)
}

func TestGormEntryRepository_ListOverdue(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormEntryRepository(db)
	ctx := context.Background()

	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	overdue := newTestEntry(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	current := newTestEntry(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	settled := newTestEntry(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err := settled.RegisterSettlement(decimal.NewFromInt(100), finance.PaymentMethodCash,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	require.NoError(t, repo.SaveBatch(ctx, []*finance.LedgerEntry{overdue, current, settled}))

	entries, err := repo.ListOverdue(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, overdue.ID, entries[0].ID)
}

func TestGormEntryRepository_ListByKind(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormEntryRepository(db)
	ctx := context.Background()

	due := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	receivable := newTestEntry(t, due)

	payable, err := finance.NewLedgerEntry(finance.EntryKindPayable,
		"Rent february", "Landlord Imoveis",
		decimal.NewFromInt(3000), due.AddDate(0, -1, 0), due)
	require.NoError(t, err)

	require.NoError(t, repo.SaveBatch(ctx, []*finance.LedgerEntry{receivable, payable}))

	page, err := repo.ListByKind(ctx, finance.EntryKindPayable, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, finance.EntryKindPayable, page.Items[0].Kind)
}

func TestGormEntryRepository_ListDueBetween(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormEntryRepository(db)
	ctx := context.Background()

	inRange := newTestEntry(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	outOfRange := newTestEntry(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveBatch(ctx, []*finance.LedgerEntry{inRange, outOfRange}))

	page, err := repo.ListDueBetween(ctx,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, inRange.ID, page.Items[0].ID)
}
