package receivable

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// SaleStatus represents the settlement status of an invoiced sale
type SaleStatus string

const (
	SaleStatusOutstanding SaleStatus = "OUTSTANDING" // Unpaid, outstanding balance equals total
	SaleStatusPartial     SaleStatus = "PARTIAL"     // Partially paid, 0 < outstanding < total
	SaleStatusSettled     SaleStatus = "SETTLED"     // Fully paid, outstanding = 0
	SaleStatusCancelled   SaleStatus = "CANCELLED"   // Cancelled before any payment
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOutstanding, SaleStatusPartial, SaleStatusSettled, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the sale is in a terminal state
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusSettled || s == SaleStatusCancelled
}

// CanReceiveAllocation returns true if payment allocations can be applied in this status
func (s SaleStatus) CanReceiveAllocation() bool {
	return s == SaleStatusOutstanding || s == SaleStatusPartial
}

// Sale represents an invoiced sale aggregate root.
// It tracks the outstanding balance owed by a customer and is the target
// of payment allocations.
type Sale struct {
	shared.TenantAggregateRoot
	SaleNumber        string          `json:"sale_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerName      string          `json:"customer_name"`
	SaleDate          time.Time       `json:"sale_date"`
	DueDate           *time.Time      `json:"due_date"` // When payment is expected
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`   // Sum of applied allocations
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"` // Remaining amount due
	Status            SaleStatus      `json:"status"`
	Remark            string          `json:"remark"`
	SettledAt         *time.Time      `json:"settled_at"`    // When fully paid
	CancelledAt       *time.Time      `json:"cancelled_at"`  // When cancelled
	CancelReason      string          `json:"cancel_reason"` // Reason for cancellation
}

// NewSale creates a new sale with the full amount outstanding
func NewSale(
	tenantID uuid.UUID,
	saleNumber string,
	customerID uuid.UUID,
	customerName string,
	saleDate time.Time,
	dueDate *time.Time,
	totalAmount valueobject.Money,
) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if len(saleNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SALE_DATE", "Sale date is required")
	}
	if dueDate != nil && dueDate.Before(saleDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the sale date")
	}
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleNumber:          saleNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		SaleDate:            saleDate,
		DueDate:             dueDate,
		TotalAmount:         totalAmount.Amount(),
		AllocatedAmount:     decimal.Zero,
		OutstandingAmount:   totalAmount.Amount(),
		Status:              SaleStatusOutstanding,
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// ApplyAllocation decrements the outstanding balance by the allocated amount.
// The allocated and outstanding amounts always sum to the sale total.
func (s *Sale) ApplyAllocation(amount valueobject.Money, paymentID uuid.UUID) error {
	if !s.Status.CanReceiveAllocation() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot allocate to sale in %s status", s.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(s.OutstandingAmount) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Allocation amount %s exceeds outstanding amount %s", amount.Amount().StringFixed(2), s.OutstandingAmount.StringFixed(2)))
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}

	s.AllocatedAmount = s.AllocatedAmount.Add(amount.Amount())
	s.OutstandingAmount = s.TotalAmount.Sub(s.AllocatedAmount)

	if s.OutstandingAmount.IsZero() {
		now := time.Now()
		s.Status = SaleStatusSettled
		s.SettledAt = &now
		s.AddDomainEvent(NewSaleSettledEvent(s, paymentID))
	} else {
		s.Status = SaleStatusPartial
		s.AddDomainEvent(NewSaleAllocationAppliedEvent(s, paymentID, amount))
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ReverseAllocation restores the outstanding balance after a payment is
// rejected or cancelled. The compensating entry re-opens a settled sale.
func (s *Sale) ReverseAllocation(amount valueobject.Money, paymentID uuid.UUID, reason string) error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot reverse allocation on a cancelled sale")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.Amount().GreaterThan(s.AllocatedAmount) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Reversal amount %s exceeds allocated amount %s", amount.Amount().StringFixed(2), s.AllocatedAmount.StringFixed(2)))
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}

	s.AllocatedAmount = s.AllocatedAmount.Sub(amount.Amount())
	s.OutstandingAmount = s.TotalAmount.Sub(s.AllocatedAmount)
	s.SettledAt = nil

	if s.AllocatedAmount.IsZero() {
		s.Status = SaleStatusOutstanding
	} else {
		s.Status = SaleStatusPartial
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleAllocationReversedEvent(s, paymentID, amount, reason))

	return nil
}

// Cancel cancels the sale (only if no allocations have been applied)
func (s *Sale) Cancel(reason string) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if s.AllocatedAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_ALLOCATIONS", "Cannot cancel sale with applied allocations")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.OutstandingAmount = decimal.Zero
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// SetDueDate updates the due date
func (s *Sale) SetDueDate(dueDate *time.Time) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify due date for sale in terminal state")
	}
	if dueDate != nil && dueDate.Before(s.SaleDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the sale date")
	}

	oldDueDate := s.DueDate
	s.DueDate = dueDate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleDueDateChangedEvent(s, oldDueDate))
	return nil
}

// SetRemark sets the remark
func (s *Sale) SetRemark(remark string) {
	s.Remark = remark
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Helper methods

// GetTotalAmountMoney returns total amount as Money
func (s *Sale) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.TotalAmount)
}

// GetAllocatedAmountMoney returns allocated amount as Money
func (s *Sale) GetAllocatedAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.AllocatedAmount)
}

// GetOutstandingAmountMoney returns outstanding amount as Money
func (s *Sale) GetOutstandingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.OutstandingAmount)
}

// IsOutstanding returns true if any balance remains unpaid
func (s *Sale) IsOutstanding() bool {
	return s.Status.CanReceiveAllocation() && s.OutstandingAmount.GreaterThan(decimal.Zero)
}

// IsSettled returns true if the sale is fully paid
func (s *Sale) IsSettled() bool {
	return s.Status == SaleStatusSettled
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// IsOverdue returns true if the sale is past its due date and not settled
func (s *Sale) IsOverdue(asOf time.Time) bool {
	if s.Status.IsTerminal() {
		return false
	}
	if s.DueDate == nil {
		return false
	}
	return asOf.After(*s.DueDate)
}

// DaysOverdue returns the number of days past due as of the given date
func (s *Sale) DaysOverdue(asOf time.Time) int {
	if s.Status.IsTerminal() {
		return 0
	}
	return DaysOverdue(s.DueDate, asOf)
}

// AgingBucket returns the aging bucket for the outstanding balance as of the given date
func (s *Sale) AgingBucket(asOf time.Time) AgingBucket {
	bucket, _ := ClassifyAging(s.DueDate, asOf)
	return bucket
}

// Priority returns the collection priority as of the given date
func (s *Sale) Priority(asOf time.Time) CollectionPriority {
	return PriorityForDays(s.DaysOverdue(asOf))
}

// PaidPercentage returns the percentage of total that has been allocated (0-100)
func (s *Sale) PaidPercentage() decimal.Decimal {
	if s.TotalAmount.IsZero() {
		return decimal.NewFromInt(100)
	}
	return s.AllocatedAmount.Div(s.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
}
