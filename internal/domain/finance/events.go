package finance

import (
	"time"

	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the finance domain
const (
	EventTypeEntryCreated = "finance.entry.created"
	EventTypeEntrySettled = "finance.entry.settled"
)

// AggregateTypeLedgerEntry is the aggregate type for ledger entry events
const AggregateTypeLedgerEntry = "LedgerEntry"

// EntryCreatedEvent is raised when a ledger entry is opened
type EntryCreatedEvent struct {
	shared.BaseDomainEvent
	Kind    EntryKind       `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
}

// NewEntryCreatedEvent creates a new EntryCreatedEvent
func NewEntryCreatedEvent(entry *LedgerEntry) *EntryCreatedEvent {
	return &EntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryCreated, AggregateTypeLedgerEntry, entry.ID),
		Kind:            entry.Kind,
		Amount:          entry.OriginalAmount,
		DueDate:         entry.DueDate,
	}
}

// EntrySettledEvent is raised when an entry's balance reaches zero
type EntrySettledEvent struct {
	shared.BaseDomainEvent
	Kind         EntryKind       `json:"kind"`
	SettledTotal decimal.Decimal `json:"settled_total"`
	Recurring    bool            `json:"recurring"`
}

// NewEntrySettledEvent creates a new EntrySettledEvent
func NewEntrySettledEvent(entry *LedgerEntry) *EntrySettledEvent {
	return &EntrySettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntrySettled, AggregateTypeLedgerEntry, entry.ID),
		Kind:            entry.Kind,
		SettledTotal:    entry.SettledAmount,
		Recurring:       entry.Recurring,
	}
}
