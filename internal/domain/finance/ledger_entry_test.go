package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backend/internal/domain/shared"
)

var (
	issueDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dueDate   = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
)

func newTestEntry(t *testing.T, amount float64) *LedgerEntry {
	t.Helper()
	entry, err := NewLedgerEntry(EntryKindReceivable, "Sale 000042 installment",
		"Acme Ltda", decimal.NewFromFloat(amount), issueDate, dueDate)
	require.NoError(t, err)
	return entry
}

func TestNewLedgerEntry(t *testing.T) {
	entry := newTestEntry(t, 1000)
	assert.Equal(t, EntryStatusOpen, entry.Status)
	assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(1000)))
	assert.Len(t, entry.GetDomainEvents(), 1)

	_, err := NewLedgerEntry("iou", "x", "Acme", decimal.NewFromInt(10), issueDate, dueDate)
	assert.Error(t, err)
	_, err = NewLedgerEntry(EntryKindPayable, "", "Acme", decimal.NewFromInt(10), issueDate, dueDate)
	assert.Error(t, err)
	_, err = NewLedgerEntry(EntryKindPayable, "x", "Acme", decimal.Zero, issueDate, dueDate)
	assert.Error(t, err)
	_, err = NewLedgerEntry(EntryKindPayable, "x", "Acme", decimal.NewFromInt(10), dueDate, issueDate)
	assert.Error(t, err)
}

func TestLedgerEntry_RegisterSettlement(t *testing.T) {
	entry := newTestEntry(t, 1000)

	s, err := entry.RegisterSettlement(decimal.NewFromInt(400), PaymentMethodPix, dueDate, "")
	require.NoError(t, err)
	assert.Equal(t, EntryStatusPartiallySettled, entry.Status)
	assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(600)))
	assert.Equal(t, entry.ID, s.EntryID)

	_, err = entry.RegisterSettlement(decimal.NewFromInt(600), PaymentMethodCash, dueDate, "final payment")
	require.NoError(t, err)
	assert.Equal(t, EntryStatusSettled, entry.Status)
	assert.True(t, entry.Remaining().IsZero())
	assert.NotNil(t, entry.SettledAt)
	assert.Len(t, entry.Settlements, 2)
}

func TestLedgerEntry_Overpayment(t *testing.T) {
	entry := newTestEntry(t, 100)

	_, err := entry.RegisterSettlement(decimal.NewFromFloat(100.01), PaymentMethodCash, dueDate, "")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeOverpayment))
	assert.Equal(t, EntryStatusOpen, entry.Status)
	assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(100)))
}

func TestLedgerEntry_Settlement_Validation(t *testing.T) {
	entry := newTestEntry(t, 100)

	_, err := entry.RegisterSettlement(decimal.Zero, PaymentMethodCash, dueDate, "")
	assert.Error(t, err)

	_, err = entry.RegisterSettlement(decimal.NewFromInt(10), PaymentMethod("barter"), dueDate, "")
	assert.Error(t, err)

	_, err = entry.RegisterSettlement(decimal.NewFromInt(100), PaymentMethodCash, dueDate, "")
	require.NoError(t, err)
	_, err = entry.RegisterSettlement(decimal.NewFromInt(1), PaymentMethodCash, dueDate, "")
	assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
}

func TestLedgerEntry_GrantDiscount(t *testing.T) {
	entry := newTestEntry(t, 100)

	require.NoError(t, entry.GrantDiscount(decimal.NewFromInt(20)))
	assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(80)))

	assert.Error(t, entry.GrantDiscount(decimal.NewFromInt(81)))

	// Discounting the full balance settles the entry
	require.NoError(t, entry.GrantDiscount(decimal.NewFromInt(80)))
	assert.Equal(t, EntryStatusSettled, entry.Status)
}

func TestLedgerEntry_AccrueLateCharges(t *testing.T) {
	entry := newTestEntry(t, 1000)

	// 10 days late: penalty 2% flat, interest 0.033% per day
	asOf := dueDate.AddDate(0, 0, 10)
	require.NoError(t, entry.AccrueLateCharges(asOf))
	assert.True(t, entry.PenaltyAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, entry.InterestAmount.Equal(decimal.NewFromFloat(3.30)))
	assert.True(t, entry.Remaining().Equal(decimal.NewFromFloat(1023.30)))

	// Re-running for the same day recomputes instead of accumulating
	require.NoError(t, entry.AccrueLateCharges(asOf))
	assert.True(t, entry.Remaining().Equal(decimal.NewFromFloat(1023.30)))

	// A later day grows the interest only
	require.NoError(t, entry.AccrueLateCharges(dueDate.AddDate(0, 0, 20)))
	assert.True(t, entry.PenaltyAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, entry.InterestAmount.Equal(decimal.NewFromFloat(6.60)))
}

func TestLedgerEntry_AccrueLateCharges_NotOverdue(t *testing.T) {
	entry := newTestEntry(t, 1000)

	require.NoError(t, entry.AccrueLateCharges(dueDate))
	assert.True(t, entry.PenaltyAmount.IsZero())
	assert.True(t, entry.InterestAmount.IsZero())
}

func TestLedgerEntry_AccrueLateCharges_SettledIsNoOp(t *testing.T) {
	entry := newTestEntry(t, 1000)
	_, err := entry.RegisterSettlement(decimal.NewFromInt(1000), PaymentMethodPix, dueDate, "")
	require.NoError(t, err)

	require.NoError(t, entry.AccrueLateCharges(dueDate.AddDate(0, 0, 10)))
	assert.True(t, entry.PenaltyAmount.IsZero())
	assert.True(t, entry.InterestAmount.IsZero())

	cancelled := newTestEntry(t, 100)
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, cancelled.AccrueLateCharges(dueDate.AddDate(0, 0, 10)))
	assert.True(t, cancelled.PenaltyAmount.IsZero())
}

func TestLedgerEntry_IsOverdue(t *testing.T) {
	entry := newTestEntry(t, 100)

	assert.False(t, entry.IsOverdue(dueDate))
	assert.True(t, entry.IsOverdue(dueDate.AddDate(0, 0, 1)))
	assert.Equal(t, 0, entry.DaysLate(dueDate))
	assert.Equal(t, 5, entry.DaysLate(dueDate.AddDate(0, 0, 5)))

	_, err := entry.RegisterSettlement(decimal.NewFromInt(100), PaymentMethodCash, dueDate, "")
	require.NoError(t, err)
	assert.False(t, entry.IsOverdue(dueDate.AddDate(0, 0, 30)))
}

func TestLedgerEntry_Cancel(t *testing.T) {
	entry := newTestEntry(t, 100)
	require.NoError(t, entry.Cancel())
	assert.Equal(t, EntryStatusCancelled, entry.Status)

	assert.Error(t, entry.Cancel())

	partially := newTestEntry(t, 100)
	_, err := partially.RegisterSettlement(decimal.NewFromInt(50), PaymentMethodCash, dueDate, "")
	require.NoError(t, err)
	assert.Error(t, partially.Cancel())
}

func TestLedgerEntry_NextRecurrence(t *testing.T) {
	entry := newTestEntry(t, 500)

	_, err := entry.NextRecurrence()
	assert.True(t, shared.IsCode(err, shared.CodeNotRecurring))

	require.NoError(t, entry.SetRecurrence(PeriodicityMonthly))
	next, err := entry.NextRecurrence()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), next.DueDate)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), next.IssueDate)
	assert.True(t, next.OriginalAmount.Equal(entry.OriginalAmount))
	assert.Equal(t, EntryStatusOpen, next.Status)
	assert.True(t, next.Recurring)
	assert.Equal(t, PeriodicityMonthly, next.Periodicity)

	// Accrued charges do not carry over
	require.NoError(t, entry.AccrueLateCharges(dueDate.AddDate(0, 0, 10)))
	next, err = entry.NextRecurrence()
	require.NoError(t, err)
	assert.True(t, next.PenaltyAmount.IsZero())
	assert.True(t, next.InterestAmount.IsZero())
}

func TestLedgerEntry_NextRecurrence_AdvancesInstallment(t *testing.T) {
	entry := newTestEntry(t, 500)
	require.NoError(t, entry.SetInstallment(2, 12))
	require.NoError(t, entry.SetRecurrence(PeriodicityQuarterly))

	next, err := entry.NextRecurrence()
	require.NoError(t, err)
	assert.Equal(t, 3, next.InstallmentNumber)
	assert.Equal(t, 12, next.InstallmentCount)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), next.DueDate)

	// An open-ended series grows the count with the number
	open := newTestEntry(t, 500)
	require.NoError(t, open.SetRecurrence(PeriodicityMonthly))
	next, err = open.NextRecurrence()
	require.NoError(t, err)
	assert.Equal(t, 2, next.InstallmentNumber)
	assert.Equal(t, 2, next.InstallmentCount)
}

func TestLedgerEntry_SetRecurrence_Validation(t *testing.T) {
	entry := newTestEntry(t, 100)

	err := entry.SetRecurrence(Periodicity("weekly"))
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	require.NoError(t, entry.SetRecurrence(PeriodicityAnnual))
	assert.True(t, entry.Recurring)
	assert.Equal(t, 12, entry.Periodicity.Months())
}

func TestLedgerEntry_SetContested(t *testing.T) {
	entry := newTestEntry(t, 100)
	assert.False(t, entry.Contested)

	entry.SetContested(true)
	assert.True(t, entry.Contested)

	// A contested entry still settles normally
	_, err := entry.RegisterSettlement(decimal.NewFromInt(100), PaymentMethodCash, dueDate, "")
	require.NoError(t, err)
	assert.Equal(t, EntryStatusSettled, entry.Status)

	entry.SetContested(false)
	assert.False(t, entry.Contested)
}

func TestLedgerEntry_SetInstallment(t *testing.T) {
	entry := newTestEntry(t, 100)

	require.NoError(t, entry.SetInstallment(2, 3))
	assert.Equal(t, 2, entry.InstallmentNumber)
	assert.Equal(t, 3, entry.InstallmentCount)

	assert.Error(t, entry.SetInstallment(0, 3))
	assert.Error(t, entry.SetInstallment(4, 3))
}
