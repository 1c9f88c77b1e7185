package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusApproved  SaleStatus = "approved"
	SaleStatusPicking   SaleStatus = "picking"
	SaleStatusInvoiced  SaleStatus = "invoiced"
	SaleStatusShipping  SaleStatus = "shipping"
	SaleStatusDelivered SaleStatus = "delivered"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// saleTransitions is the forward transition table. Cancellation is
// handled separately because it is reachable from every non-terminal state.
var saleTransitions = map[SaleStatus][]SaleStatus{
	SaleStatusPending:   {SaleStatusApproved},
	SaleStatusApproved:  {SaleStatusPicking},
	SaleStatusPicking:   {SaleStatusInvoiced},
	SaleStatusInvoiced:  {SaleStatusShipping, SaleStatusDelivered},
	SaleStatusShipping:  {SaleStatusDelivered},
	SaleStatusDelivered: {},
	SaleStatusCancelled: {},
}

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	_, ok := saleTransitions[s]
	return ok
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses no transition can leave
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusDelivered || s == SaleStatusCancelled
}

// CanTransitionTo checks whether the forward transition is allowed
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	for _, next := range saleTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// PaymentMethod identifies how the customer pays for the sale
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

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Sale is the aggregate root for a sale order. Items and header
// adjustments are only editable while pending; from approval onward the
// sale advances through the fulfillment pipeline one status at a time.
type Sale struct {
	shared.BaseAggregateRoot
	Number           string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerName     string           `gorm:"type:varchar(200);not null"`
	CustomerDocument string           `gorm:"type:varchar(20)"`
	SellerName       string           `gorm:"type:varchar(200)"`
	Status           SaleStatus       `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items            []SaleItem       `gorm:"foreignKey:SaleID"`
	DiscountPercent  *decimal.Decimal `gorm:"type:decimal(8,4)"`
	DiscountAmount   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SurchargePercent *decimal.Decimal `gorm:"type:decimal(8,4)"`
	SurchargeAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	FreightCost      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ItemsTotal       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod    PaymentMethod    `gorm:"type:varchar(20)"`
	InstallmentCount int              `gorm:"not null;default:1"`
	Notes            string           `gorm:"type:text"`
	ApprovedAt       *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale in pending status
func NewSale(number, customerName, customerDocument string) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Sale number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Customer name cannot be empty")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerName:      customerName,
		CustomerDocument:  customerDocument,
		Status:            SaleStatusPending,
		InstallmentCount:  1,
		Items:             make([]SaleItem, 0),
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// ItemSnapshot carries the product data frozen onto a sale line.
// OriginalUnitPrice is the list price before any promotion; when left
// zero it defaults to UnitPrice.
type ItemSnapshot struct {
	ProductID         uuid.UUID
	ProductCode       string
	ProductName       string
	Unit              string
	UnitPrice         decimal.Decimal
	OriginalUnitPrice decimal.Decimal
	UnitCost          decimal.Decimal
}

// AddItem appends a line with the given product snapshot and quantity.
// Adding the same product again merges into the existing line.
func (s *Sale) AddItem(snapshot ItemSnapshot, quantity decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}
	if snapshot.UnitPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == snapshot.ProductID {
			s.Items[idx].Quantity = s.Items[idx].Quantity.Add(quantity)
			s.Items[idx].recalculate()
			s.recalculateTotals()
			return nil
		}
	}

	originalPrice := snapshot.OriginalUnitPrice
	if originalPrice.IsZero() {
		originalPrice = snapshot.UnitPrice
	}

	item := SaleItem{
		BaseEntity:        shared.NewBaseEntity(),
		SaleID:            s.ID,
		Sequence:          len(s.Items) + 1,
		ProductID:         snapshot.ProductID,
		ProductCode:       snapshot.ProductCode,
		ProductName:       snapshot.ProductName,
		Unit:              snapshot.Unit,
		Quantity:          quantity,
		UnitPrice:         snapshot.UnitPrice,
		OriginalUnitPrice: originalPrice,
		UnitCost:          snapshot.UnitCost,
	}
	item.recalculate()

	s.Items = append(s.Items, item)
	s.recalculateTotals()

	return nil
}

// UpdateItemQuantity changes the quantity of an existing line
func (s *Sale) UpdateItemQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			s.Items[idx].Quantity = quantity
			s.Items[idx].recalculate()
			s.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s is not on this sale", productID)
}

// SetItemDiscount applies a line-level discount. When percent is non-nil
// it takes precedence over the absolute amount.
func (s *Sale) SetItemDiscount(productID uuid.UUID, percent *decimal.Decimal, amount decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if err := validateAdjustment("Discount", percent, amount); err != nil {
		return err
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			if amount.GreaterThan(s.Items[idx].Gross()) {
				return shared.NewDomainError(shared.CodeValidation, "Discount cannot exceed the line gross amount")
			}
			s.Items[idx].DiscountPercent = percent
			s.Items[idx].DiscountAmount = amount
			s.Items[idx].recalculate()
			s.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s is not on this sale", productID)
}

// SetItemSurcharge applies a line-level surcharge. When percent is
// non-nil it takes precedence over the absolute amount.
func (s *Sale) SetItemSurcharge(productID uuid.UUID, percent *decimal.Decimal, amount decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if err := validateAdjustment("Surcharge", percent, amount); err != nil {
		return err
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			s.Items[idx].SurchargePercent = percent
			s.Items[idx].SurchargeAmount = amount
			s.Items[idx].recalculate()
			s.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s is not on this sale", productID)
}

// RemoveItem deletes a line and resequences the remaining ones
func (s *Sale) RemoveItem(productID uuid.UUID) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			for i := range s.Items {
				s.Items[i].Sequence = i + 1
			}
			s.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s is not on this sale", productID)
}

// SetDiscount applies a header-level discount over the items total.
// When percent is non-nil it takes precedence over the absolute amount.
func (s *Sale) SetDiscount(percent *decimal.Decimal, amount decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if err := validateAdjustment("Discount", percent, amount); err != nil {
		return err
	}

	s.DiscountPercent = percent
	s.DiscountAmount = amount
	s.recalculateTotals()

	return nil
}

// SetSurcharge applies a header-level surcharge over the items total.
// When percent is non-nil it takes precedence over the absolute amount.
func (s *Sale) SetSurcharge(percent *decimal.Decimal, amount decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if err := validateAdjustment("Surcharge", percent, amount); err != nil {
		return err
	}

	s.SurchargePercent = percent
	s.SurchargeAmount = amount
	s.recalculateTotals()

	return nil
}

// SetPaymentTerms records the payment method and installment count
func (s *Sale) SetPaymentTerms(method PaymentMethod, installments int) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if method != "" && !method.IsValid() {
		return shared.NewDomainErrorf(shared.CodeValidation, "Unknown payment method: %s", method)
	}
	if installments < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Installment count must be at least 1")
	}

	s.PaymentMethod = method
	s.InstallmentCount = installments
	s.Touch()

	return nil
}

// SetFreight sets the freight cost
func (s *Sale) SetFreight(cost decimal.Decimal) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if cost.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Freight cost cannot be negative")
	}

	s.FreightCost = cost
	s.recalculateTotals()

	return nil
}

// Approve moves the sale out of the editable pending state. Stock must
// already have been reserved by the caller before approval is committed.
func (s *Sale) Approve() error {
	if s.Status != SaleStatusPending {
		return s.illegalTransition(SaleStatusApproved)
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot approve a sale without items")
	}
	if s.GrandTotal.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Cannot approve a sale with a negative total")
	}

	now := time.Now()
	s.Status = SaleStatusApproved
	s.ApprovedAt = &now
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleApprovedEvent(s))

	return nil
}

// TransitionTo advances the sale one step through the pipeline
func (s *Sale) TransitionTo(target SaleStatus) error {
	if !target.IsValid() {
		return shared.NewDomainErrorf(shared.CodeValidation, "Unknown sale status: %s", target)
	}
	if target == SaleStatusApproved {
		return s.Approve()
	}
	if target == SaleStatusCancelled {
		return s.Cancel("")
	}
	if !s.Status.CanTransitionTo(target) {
		return s.illegalTransition(target)
	}

	s.Status = target
	if target == SaleStatusDelivered {
		now := time.Now()
		s.DeliveredAt = &now
		s.AddDomainEvent(NewSaleDeliveredEvent(s))
	}
	s.Touch()
	s.IncrementVersion()

	return nil
}

// Cancel cancels the sale from any non-terminal status
func (s *Sale) Cancel(reason string) error {
	if s.Status.IsTerminal() {
		return s.illegalTransition(SaleStatusCancelled)
	}

	wasApproved := s.Status != SaleStatusPending

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s, wasApproved))

	return nil
}

// IsCancellable returns true while the sale has not reached a terminal status
func (s *Sale) IsCancellable() bool {
	return !s.Status.IsTerminal()
}

// IsEditable returns true while items and adjustments can still change
func (s *Sale) IsEditable() bool {
	return s.Status == SaleStatusPending
}

// TotalCost returns the snapshotted cost of all lines
func (s *Sale) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for idx := range s.Items {
		total = total.Add(s.Items[idx].TotalCost())
	}
	return total
}

// Margin returns the sale margin as a percentage over cost, or nil when
// the cost basis is zero.
func (s *Sale) Margin() *decimal.Decimal {
	cost := s.TotalCost()
	if cost.IsZero() {
		return nil
	}
	net := s.ItemsTotal.Sub(s.headerDiscount())
	margin := net.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(4)
	return &margin
}

func (s *Sale) headerDiscount() decimal.Decimal {
	if s.DiscountPercent != nil {
		return s.ItemsTotal.Mul(*s.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	return s.DiscountAmount
}

func (s *Sale) headerSurcharge() decimal.Decimal {
	if s.SurchargePercent != nil {
		return s.ItemsTotal.Mul(*s.SurchargePercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	return s.SurchargeAmount
}

// recalculateTotals refreshes the header totals from the lines.
// GrandTotal = items - header discount + surcharge + freight.
func (s *Sale) recalculateTotals() {
	itemsTotal := decimal.Zero
	lineDiscounts := decimal.Zero
	for idx := range s.Items {
		itemsTotal = itemsTotal.Add(s.Items[idx].Total)
		lineDiscounts = lineDiscounts.Add(s.Items[idx].EffectiveDiscount())
	}

	s.ItemsTotal = itemsTotal
	s.DiscountTotal = lineDiscounts.Add(s.headerDiscount())
	s.GrandTotal = itemsTotal.
		Sub(s.headerDiscount()).
		Add(s.headerSurcharge()).
		Add(s.FreightCost)

	s.Touch()
	s.IncrementVersion()
}

func (s *Sale) ensureEditable() error {
	if !s.IsEditable() {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Sale %s cannot be modified in status %s", s.Number, s.Status)
	}
	return nil
}

func (s *Sale) illegalTransition(target SaleStatus) error {
	return shared.NewDomainErrorf(shared.CodeIllegalTransition,
		"Sale %s cannot move from %s to %s", s.Number, s.Status, target)
}

func validateAdjustment(kind string, percent *decimal.Decimal, amount decimal.Decimal) error {
	if percent != nil {
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainErrorf(shared.CodeValidation, "%s percent must be between 0 and 100", kind)
		}
	}
	if amount.IsNegative() {
		return shared.NewDomainErrorf(shared.CodeValidation, "%s amount cannot be negative", kind)
	}
	return nil
}
