package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest opens a manual ledger entry
type CreateEntryRequest struct {
	Kind              string          `json:"kind" binding:"required,oneof=receivable payable"`
	Description       string          `json:"description" binding:"required,min=1,max=255"`
	Counterparty      string          `json:"counterparty" binding:"required,min=1,max=200"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	IssueDate         time.Time       `json:"issue_date" binding:"required"`
	DueDate           time.Time       `json:"due_date" binding:"required"`
	Installments      int             `json:"installments" binding:"omitempty,min=1,max=120"`
	Periodicity       string          `json:"periodicity" binding:"omitempty,oneof=monthly bimonthly quarterly semiannual annual"`
}

// CreateReceivablesForSaleRequest splits a sale total into receivable installments
type CreateReceivablesForSaleRequest struct {
	SaleID       uuid.UUID `json:"sale_id" binding:"required"`
	Installments int       `json:"installments" binding:"required,min=1,max=120"`
	FirstDueDate time.Time `json:"first_due_date" binding:"required"`
}

// RegisterSettlementRequest applies a payment to an entry
type RegisterSettlementRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=cash pix card transfer boleto"`
	SettledOn time.Time       `json:"settled_on" binding:"required"`
	Notes     string          `json:"notes" binding:"max=255"`
}

// GrantDiscountRequest reduces an entry's balance without a payment
type GrantDiscountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SetContestedRequest flags or clears a dispute on an entry
type SetContestedRequest struct {
	Contested *bool `json:"contested" binding:"required"`
}

// SettlementResponse represents one payment in API responses
type SettlementResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	SettledOn time.Time       `json:"settled_on"`
	Notes     string          `json:"notes,omitempty"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID                uuid.UUID            `json:"id"`
	Kind              string               `json:"kind"`
	Description       string               `json:"description"`
	Counterparty      string               `json:"counterparty"`
	OriginType        string               `json:"origin_type,omitempty"`
	OriginID          *uuid.UUID           `json:"origin_id,omitempty"`
	InstallmentNumber int                  `json:"installment_number"`
	InstallmentCount  int                  `json:"installment_count"`
	IssueDate         time.Time            `json:"issue_date"`
	DueDate           time.Time            `json:"due_date"`
	OriginalAmount    decimal.Decimal      `json:"original_amount"`
	InterestAmount    decimal.Decimal      `json:"interest_amount"`
	PenaltyAmount     decimal.Decimal      `json:"penalty_amount"`
	DiscountAmount    decimal.Decimal      `json:"discount_amount"`
	SettledAmount     decimal.Decimal      `json:"settled_amount"`
	Remaining         decimal.Decimal      `json:"remaining"`
	Status            string               `json:"status"`
	Settlements       []SettlementResponse `json:"settlements,omitempty"`
	Recurring         bool                 `json:"recurring"`
	Periodicity       string               `json:"periodicity,omitempty"`
	Contested         bool                 `json:"contested"`
	SettledAt         *time.Time           `json:"settled_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ToEntryResponse converts a domain ledger entry to a response DTO
func ToEntryResponse(e *finance.LedgerEntry) *EntryResponse {
	settlements := make([]SettlementResponse, 0, len(e.Settlements))
	for idx := range e.Settlements {
		s := &e.Settlements[idx]
		settlements = append(settlements, SettlementResponse{
			ID:        s.ID,
			Amount:    s.Amount,
			Method:    string(s.Method),
			SettledOn: s.SettledOn,
			Notes:     s.Notes,
		})
	}

	return &EntryResponse{
		ID:                e.ID,
		Kind:              e.Kind.String(),
		Description:       e.Description,
		Counterparty:      e.CounterpartyName,
		OriginType:        e.OriginType,
		OriginID:          e.OriginID,
		InstallmentNumber: e.InstallmentNumber,
		InstallmentCount:  e.InstallmentCount,
		IssueDate:         e.IssueDate,
		DueDate:           e.DueDate,
		OriginalAmount:    e.OriginalAmount,
		InterestAmount:    e.InterestAmount,
		PenaltyAmount:     e.PenaltyAmount,
		DiscountAmount:    e.DiscountAmount,
		SettledAmount:     e.SettledAmount,
		Remaining:         e.Remaining(),
		Status:            e.Status.String(),
		Settlements:       settlements,
		Recurring:         e.Recurring,
		Periodicity:       e.Periodicity.String(),
		Contested:         e.Contested,
		SettledAt:         e.SettledAt,
		CancelledAt:       e.CancelledAt,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
