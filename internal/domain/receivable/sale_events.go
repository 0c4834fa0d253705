package receivable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// Sale event type names, used by subscribers to select events
const (
	EventTypeSaleCreated            = "SaleCreated"
	EventTypeSaleAllocationApplied  = "SaleAllocationApplied"
	EventTypeSaleSettled            = "SaleSettled"
	EventTypeSaleAllocationReversed = "SaleAllocationReversed"
	EventTypeSaleCancelled          = "SaleCancelled"
	EventTypeSaleDueDateChanged     = "SaleDueDateChanged"
)

// SaleCreatedEvent is raised when a new sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	SaleNumber   string          `json:"sale_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	SaleDate     time.Time       `json:"sale_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		CustomerName:    s.CustomerName,
		SaleDate:        s.SaleDate,
		DueDate:         s.DueDate,
		TotalAmount:     s.TotalAmount,
	}
}

// SaleAllocationAppliedEvent is raised when a partial allocation is applied to a sale
type SaleAllocationAppliedEvent struct {
	shared.BaseDomainEvent
	SaleID            uuid.UUID       `json:"sale_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// EventType returns the event type name
func (e *SaleAllocationAppliedEvent) EventType() string {
	return EventTypeSaleAllocationApplied
}

// NewSaleAllocationAppliedEvent creates a new SaleAllocationAppliedEvent
func NewSaleAllocationAppliedEvent(s *Sale, paymentID uuid.UUID, amount valueobject.Money) *SaleAllocationAppliedEvent {
	return &SaleAllocationAppliedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSaleAllocationApplied, "Sale", s.ID, s.TenantID),
		SaleID:            s.ID,
		SaleNumber:        s.SaleNumber,
		CustomerID:        s.CustomerID,
		PaymentID:         paymentID,
		AllocatedAmount:   amount.Amount(),
		OutstandingAmount: s.OutstandingAmount,
	}
}

// SaleSettledEvent is raised when a sale is fully paid
type SaleSettledEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	SaleNumber  string          `json:"sale_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SettledAt   time.Time       `json:"settled_at"`
}

// EventType returns the event type name
func (e *SaleSettledEvent) EventType() string {
	return EventTypeSaleSettled
}

// NewSaleSettledEvent creates a new SaleSettledEvent
func NewSaleSettledEvent(s *Sale, paymentID uuid.UUID) *SaleSettledEvent {
	settledAt := time.Now()
	if s.SettledAt != nil {
		settledAt = *s.SettledAt
	}
	return &SaleSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleSettled, "Sale", s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		PaymentID:       paymentID,
		TotalAmount:     s.TotalAmount,
		SettledAt:       settledAt,
	}
}

// SaleAllocationReversedEvent is raised when an applied allocation is reversed
type SaleAllocationReversedEvent struct {
	shared.BaseDomainEvent
	SaleID            uuid.UUID       `json:"sale_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	ReversedAmount    decimal.Decimal `json:"reversed_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Reason            string          `json:"reason"`
}

// EventType returns the event type name
func (e *SaleAllocationReversedEvent) EventType() string {
	return EventTypeSaleAllocationReversed
}

// NewSaleAllocationReversedEvent creates a new SaleAllocationReversedEvent
func NewSaleAllocationReversedEvent(s *Sale, paymentID uuid.UUID, amount valueobject.Money, reason string) *SaleAllocationReversedEvent {
	return &SaleAllocationReversedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSaleAllocationReversed, "Sale", s.ID, s.TenantID),
		SaleID:            s.ID,
		SaleNumber:        s.SaleNumber,
		CustomerID:        s.CustomerID,
		PaymentID:         paymentID,
		ReversedAmount:    amount.Amount(),
		OutstandingAmount: s.OutstandingAmount,
		Reason:            reason,
	}
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	SaleNumber   string          `json:"sale_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CancelReason string          `json:"cancel_reason"`
	CancelledAt  time.Time       `json:"cancelled_at"`
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return EventTypeSaleCancelled
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	cancelledAt := time.Now()
	if s.CancelledAt != nil {
		cancelledAt = *s.CancelledAt
	}
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, "Sale", s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		TotalAmount:     s.TotalAmount,
		CancelReason:    s.CancelReason,
		CancelledAt:     cancelledAt,
	}
}

// SaleDueDateChangedEvent is raised when the expected payment date moves,
// which shifts the sale between aging buckets
type SaleDueDateChangedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID  `json:"sale_id"`
	SaleNumber string     `json:"sale_number"`
	CustomerID uuid.UUID  `json:"customer_id"`
	OldDueDate *time.Time `json:"old_due_date,omitempty"`
	NewDueDate *time.Time `json:"new_due_date,omitempty"`
}

// EventType returns the event type name
func (e *SaleDueDateChangedEvent) EventType() string {
	return EventTypeSaleDueDateChanged
}

// NewSaleDueDateChangedEvent creates a new SaleDueDateChangedEvent
func NewSaleDueDateChangedEvent(s *Sale, oldDueDate *time.Time) *SaleDueDateChangedEvent {
	return &SaleDueDateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDueDateChanged, "Sale", s.ID, s.TenantID),
		SaleID:          s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		OldDueDate:      oldDueDate,
		NewDueDate:      s.DueDate,
	}
}
