package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryKind separates money owed to us from money we owe
type EntryKind string

const (
	EntryKindReceivable EntryKind = "receivable"
	EntryKindPayable    EntryKind = "payable"
)

// IsValid checks if the kind is known
func (k EntryKind) IsValid() bool {
	return k == EntryKindReceivable || k == EntryKindPayable
}

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// EntryStatus represents the settlement status of a ledger entry
type EntryStatus string

const (
	EntryStatusOpen             EntryStatus = "open"
	EntryStatusPartiallySettled EntryStatus = "partially_settled"
	EntryStatusSettled          EntryStatus = "settled"
	EntryStatusCancelled        EntryStatus = "cancelled"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusOpen, EntryStatusPartiallySettled, EntryStatusSettled, EntryStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// Periodicity is the interval between occurrences of a recurring entry
type Periodicity string

const (
	PeriodicityMonthly    Periodicity = "monthly"
	PeriodicityBimonthly  Periodicity = "bimonthly"
	PeriodicityQuarterly  Periodicity = "quarterly"
	PeriodicitySemiannual Periodicity = "semiannual"
	PeriodicityAnnual     Periodicity = "annual"
)

// IsValid checks if the periodicity is known
func (p Periodicity) IsValid() bool {
	return p.Months() > 0
}

// Months returns the number of months the periodicity spans, zero when unknown
func (p Periodicity) Months() int {
	switch p {
	case PeriodicityMonthly:
		return 1
	case PeriodicityBimonthly:
		return 2
	case PeriodicityQuarterly:
		return 3
	case PeriodicitySemiannual:
		return 6
	case PeriodicityAnnual:
		return 12
	}
	return 0
}

// String returns the string representation of Periodicity
func (p Periodicity) String() string {
	return string(p)
}

// PaymentMethod identifies how a settlement was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodPix      PaymentMethod = "pix"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodBoleto   PaymentMethod = "boleto"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodBoleto:
		return true
	}
	return false
}

// Late charge rates applied on overdue entries
var (
	// latePenaltyRate is a flat 2% of the original amount
	latePenaltyRate = decimal.NewFromFloat(0.02)
	// dailyInterestRate is 0.033% of the original amount per late day
	dailyInterestRate = decimal.NewFromFloat(0.00033)
)

// Settlement is one payment registered against a ledger entry
type Settlement struct {
	shared.BaseEntity
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	SettledOn time.Time       `gorm:"not null"`
	Notes     string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Settlement) TableName() string {
	return "ledger_settlements"
}

// LedgerEntry is a receivable or payable in the financial ledger.
// Settlements accumulate against it until the remaining balance reaches
// zero; overdue entries accrue recomputed late charges.
type LedgerEntry struct {
	shared.BaseAggregateRoot
	Kind              EntryKind       `gorm:"type:varchar(15);not null;index"`
	Description       string          `gorm:"type:varchar(255);not null"`
	CounterpartyName  string          `gorm:"type:varchar(200);not null"`
	OriginType        string          `gorm:"type:varchar(50);index"`
	OriginID          *uuid.UUID      `gorm:"type:uuid;index"`
	InstallmentNumber int             `gorm:"not null;default:1"`
	InstallmentCount  int             `gorm:"not null;default:1"`
	IssueDate         time.Time       `gorm:"not null"`
	DueDate           time.Time       `gorm:"not null;index"`
	OriginalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InterestAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PenaltyAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SettledAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status            EntryStatus     `gorm:"type:varchar(20);not null;default:'open';index"`
	Settlements       []Settlement    `gorm:"foreignKey:EntryID"`
	Recurring         bool            `gorm:"not null;default:false"`
	Periodicity       Periodicity     `gorm:"type:varchar(15)"`
	Contested         bool            `gorm:"not null;default:false"`
	SettledAt         *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates an open ledger entry
func NewLedgerEntry(kind EntryKind, description, counterparty string, amount decimal.Decimal, issueDate, dueDate time.Time) (*LedgerEntry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Unknown entry kind: %s", kind)
	}
	if description == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Description cannot be empty")
	}
	if counterparty == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Counterparty cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Amount must be positive")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Due date cannot precede the issue date")
	}

	entry := &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Description:       description,
		CounterpartyName:  counterparty,
		InstallmentNumber: 1,
		InstallmentCount:  1,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		OriginalAmount:    amount,
		InterestAmount:    decimal.Zero,
		PenaltyAmount:     decimal.Zero,
		DiscountAmount:    decimal.Zero,
		SettledAmount:     decimal.Zero,
		Status:            EntryStatusOpen,
	}

	entry.AddDomainEvent(NewEntryCreatedEvent(entry))

	return entry, nil
}

// SetOrigin links the entry to its originating record
func (e *LedgerEntry) SetOrigin(originType string, originID uuid.UUID) {
	e.OriginType = originType
	e.OriginID = &originID
	e.Touch()
}

// SetInstallment marks the entry as one of a series
func (e *LedgerEntry) SetInstallment(number, count int) error {
	if number < 1 || count < 1 || number > count {
		return shared.NewDomainError(shared.CodeValidation, "Invalid installment numbering")
	}
	e.InstallmentNumber = number
	e.InstallmentCount = count
	e.Touch()
	return nil
}

// SetRecurrence marks the entry as one of a recurring series
func (e *LedgerEntry) SetRecurrence(periodicity Periodicity) error {
	if !periodicity.IsValid() {
		return shared.NewDomainErrorf(shared.CodeValidation, "Unknown periodicity: %s", periodicity)
	}
	e.Recurring = true
	e.Periodicity = periodicity
	e.Touch()
	return nil
}

// SetContested flags or clears a dispute on the entry. Contested is
// orthogonal to the settlement status.
func (e *LedgerEntry) SetContested(contested bool) {
	e.Contested = contested
	e.Touch()
	e.IncrementVersion()
}

// Remaining returns the outstanding balance:
// original + interest + penalty - discount - settled.
func (e *LedgerEntry) Remaining() decimal.Decimal {
	return e.OriginalAmount.
		Add(e.InterestAmount).
		Add(e.PenaltyAmount).
		Sub(e.DiscountAmount).
		Sub(e.SettledAmount)
}

// IsOpen returns true while the entry still accepts settlements
func (e *LedgerEntry) IsOpen() bool {
	return e.Status == EntryStatusOpen || e.Status == EntryStatusPartiallySettled
}

// IsOverdue returns true when the entry is open past its due date
func (e *LedgerEntry) IsOverdue(asOf time.Time) bool {
	return e.IsOpen() && asOf.After(e.DueDate)
}

// DaysLate returns whole days elapsed since the due date, zero when not overdue
func (e *LedgerEntry) DaysLate(asOf time.Time) int {
	if !asOf.After(e.DueDate) {
		return 0
	}
	return int(asOf.Sub(e.DueDate).Hours() / 24)
}

// RegisterSettlement applies a payment against the remaining balance.
// Paying more than the balance is refused; the entry becomes settled
// exactly when the balance reaches zero.
func (e *LedgerEntry) RegisterSettlement(amount decimal.Decimal, method PaymentMethod, settledOn time.Time, notes string) (*Settlement, error) {
	if !e.IsOpen() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidState, "Entry is %s and does not accept settlements", e.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Settlement amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Unknown payment method: %s", method)
	}

	remaining := e.Remaining()
	if amount.GreaterThan(remaining) {
		return nil, shared.NewDomainErrorf(shared.CodeOverpayment,
			"Settlement of %s exceeds the remaining balance of %s", amount.StringFixed(2), remaining.StringFixed(2))
	}

	settlement := Settlement{
		BaseEntity: shared.NewBaseEntity(),
		EntryID:    e.ID,
		Amount:     amount,
		Method:     method,
		SettledOn:  settledOn,
		Notes:      notes,
	}

	e.SettledAmount = e.SettledAmount.Add(amount)
	e.Settlements = append(e.Settlements, settlement)

	if e.Remaining().IsZero() {
		e.Status = EntryStatusSettled
		e.SettledAt = &settledOn
		e.AddDomainEvent(NewEntrySettledEvent(e))
	} else {
		e.Status = EntryStatusPartiallySettled
	}

	e.Touch()
	e.IncrementVersion()

	return &e.Settlements[len(e.Settlements)-1], nil
}

// GrantDiscount reduces the balance without a payment
func (e *LedgerEntry) GrantDiscount(amount decimal.Decimal) error {
	if !e.IsOpen() {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Entry is %s and does not accept discounts", e.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Discount must be positive")
	}
	if amount.GreaterThan(e.Remaining()) {
		return shared.NewDomainError(shared.CodeValidation, "Discount cannot exceed the remaining balance")
	}

	e.DiscountAmount = e.DiscountAmount.Add(amount)
	if e.Remaining().IsZero() {
		now := time.Now()
		e.Status = EntryStatusSettled
		e.SettledAt = &now
		e.AddDomainEvent(NewEntrySettledEvent(e))
	}
	e.Touch()
	e.IncrementVersion()

	return nil
}

// AccrueLateCharges recomputes the penalty and interest for an overdue
// entry as of the given date. Charges are derived from the original
// amount and the current days late, so calling it twice for the same day
// does not double them. Entries that are not overdue, including settled
// and cancelled ones, are left untouched.
func (e *LedgerEntry) AccrueLateCharges(asOf time.Time) error {
	if !e.IsOverdue(asOf) {
		return nil
	}

	daysLate := e.DaysLate(asOf)
	e.PenaltyAmount = e.OriginalAmount.Mul(latePenaltyRate).Round(2)
	e.InterestAmount = e.OriginalAmount.
		Mul(dailyInterestRate).
		Mul(decimal.NewFromInt(int64(daysLate))).
		Round(2)
	e.Touch()
	e.IncrementVersion()

	return nil
}

// Cancel voids an entry that has no settlements against it
func (e *LedgerEntry) Cancel() error {
	if e.Status == EntryStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Entry is already cancelled")
	}
	if e.Status == EntryStatusSettled || e.SettledAmount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidState, "Entries with settlements cannot be cancelled")
	}

	now := time.Now()
	e.Status = EntryStatusCancelled
	e.CancelledAt = &now
	e.Touch()
	e.IncrementVersion()

	return nil
}

// NextRecurrence spawns the next entry of a recurring series. The new
// entry carries the original amount, a due date shifted forward by the
// configured periodicity, and the next installment number; accrued
// charges do not carry over.
func (e *LedgerEntry) NextRecurrence() (*LedgerEntry, error) {
	if !e.Recurring || !e.Periodicity.IsValid() {
		return nil, shared.NewDomainError(shared.CodeNotRecurring, "Entry is not recurring")
	}

	months := e.Periodicity.Months()
	next, err := NewLedgerEntry(e.Kind, e.Description, e.CounterpartyName,
		e.OriginalAmount,
		e.IssueDate.AddDate(0, months, 0),
		e.DueDate.AddDate(0, months, 0))
	if err != nil {
		return nil, err
	}

	next.Recurring = true
	next.Periodicity = e.Periodicity
	next.OriginType = e.OriginType
	next.OriginID = e.OriginID
	next.InstallmentNumber = e.InstallmentNumber + 1
	next.InstallmentCount = e.InstallmentCount
	if next.InstallmentCount < next.InstallmentNumber {
		next.InstallmentCount = next.InstallmentNumber
	}

	return next, nil
}
