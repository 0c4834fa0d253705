package receivable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
)

// Payment event type names, used by subscribers to select events
const (
	EventTypePaymentReceiveCreated   = "PaymentReceiveCreated"
	EventTypePaymentReceiveSubmitted = "PaymentReceiveSubmitted"
	EventTypePaymentReceiveVerified  = "PaymentReceiveVerified"
	EventTypePaymentReceiveApproved  = "PaymentReceiveApproved"
	EventTypePaymentReceiveRejected  = "PaymentReceiveRejected"
	EventTypePaymentReceiveCompleted = "PaymentReceiveCompleted"
	EventTypePaymentReceiveCancelled = "PaymentReceiveCancelled"
)

// PaymentReceiveCreatedEvent is raised when a new payment receive is created
type PaymentReceiveCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID       `json:"payment_id"`
	PaymentNumber    string          `json:"payment_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentDate      time.Time       `json:"payment_date"`
	RequiresApproval bool            `json:"requires_approval"`
}

// EventType returns the event type name
func (e *PaymentReceiveCreatedEvent) EventType() string {
	return EventTypePaymentReceiveCreated
}

// NewPaymentReceiveCreatedEvent creates a new PaymentReceiveCreatedEvent
func NewPaymentReceiveCreatedEvent(p *PaymentReceive) *PaymentReceiveCreatedEvent {
	return &PaymentReceiveCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentReceiveCreated, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:        p.ID,
		PaymentNumber:    p.PaymentNumber,
		CustomerID:       p.CustomerID,
		CustomerName:     p.CustomerName,
		TotalAmount:      p.TotalAmount,
		PaymentMethod:    p.PaymentMethod,
		PaymentDate:      p.PaymentDate,
		RequiresApproval: p.RequiresApproval,
	}
}

// PaymentReceiveSubmittedEvent is raised when a payment is submitted for verification
type PaymentReceiveSubmittedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	SubmittedBy   *uuid.UUID      `json:"submitted_by"`
}

// EventType returns the event type name
func (e *PaymentReceiveSubmittedEvent) EventType() string {
	return EventTypePaymentReceiveSubmitted
}

// NewPaymentReceiveSubmittedEvent creates a new PaymentReceiveSubmittedEvent
func NewPaymentReceiveSubmittedEvent(p *PaymentReceive) *PaymentReceiveSubmittedEvent {
	return &PaymentReceiveSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceiveSubmitted, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		CustomerID:      p.CustomerID,
		TotalAmount:     p.TotalAmount,
		SubmittedBy:     p.SubmittedBy,
	}
}

// PaymentReceiveVerifiedEvent is raised when verification passes
type PaymentReceiveVerifiedEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID      `json:"payment_id"`
	PaymentNumber    string         `json:"payment_number"`
	CustomerID       uuid.UUID      `json:"customer_id"`
	RequiresApproval bool           `json:"requires_approval"`
	NextStatus       WorkflowStatus `json:"next_status"`
	VerifiedBy       uuid.UUID      `json:"verified_by"`
}

// EventType returns the event type name
func (e *PaymentReceiveVerifiedEvent) EventType() string {
	return EventTypePaymentReceiveVerified
}

// NewPaymentReceiveVerifiedEvent creates a new PaymentReceiveVerifiedEvent
func NewPaymentReceiveVerifiedEvent(p *PaymentReceive) *PaymentReceiveVerifiedEvent {
	var verifiedBy uuid.UUID
	if p.Verification != nil {
		verifiedBy = p.Verification.VerifiedBy
	}
	return &PaymentReceiveVerifiedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentReceiveVerified, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:        p.ID,
		PaymentNumber:    p.PaymentNumber,
		CustomerID:       p.CustomerID,
		RequiresApproval: p.RequiresApproval,
		NextStatus:       p.WorkflowStatus,
		VerifiedBy:       verifiedBy,
	}
}

// PaymentReceiveApprovedEvent is raised when a payment is approved
type PaymentReceiveApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ApprovedBy    *uuid.UUID      `json:"approved_by"`
}

// EventType returns the event type name
func (e *PaymentReceiveApprovedEvent) EventType() string {
	return EventTypePaymentReceiveApproved
}

// NewPaymentReceiveApprovedEvent creates a new PaymentReceiveApprovedEvent
func NewPaymentReceiveApprovedEvent(p *PaymentReceive) *PaymentReceiveApprovedEvent {
	return &PaymentReceiveApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceiveApproved, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		CustomerID:      p.CustomerID,
		TotalAmount:     p.TotalAmount,
		ApprovedBy:      p.ApprovedBy,
	}
}

// PaymentReceiveRejectedEvent is raised when a payment is rejected
type PaymentReceiveRejectedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID  `json:"payment_id"`
	PaymentNumber string     `json:"payment_number"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	RejectedBy    *uuid.UUID `json:"rejected_by"`
	RejectReason  string     `json:"reject_reason"`
}

// EventType returns the event type name
func (e *PaymentReceiveRejectedEvent) EventType() string {
	return EventTypePaymentReceiveRejected
}

// NewPaymentReceiveRejectedEvent creates a new PaymentReceiveRejectedEvent
func NewPaymentReceiveRejectedEvent(p *PaymentReceive) *PaymentReceiveRejectedEvent {
	return &PaymentReceiveRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceiveRejected, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		CustomerID:      p.CustomerID,
		RejectedBy:      p.RejectedBy,
		RejectReason:    p.RejectReason,
	}
}

// PaymentReceiveCompletedEvent is raised when a payment completes and
// its allocations are applied to sales
type PaymentReceiveCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID         uuid.UUID       `json:"payment_id"`
	PaymentNumber     string          `json:"payment_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
	AllocationCount   int             `json:"allocation_count"`
	CompletedBy       *uuid.UUID      `json:"completed_by"`
}

// EventType returns the event type name
func (e *PaymentReceiveCompletedEvent) EventType() string {
	return EventTypePaymentReceiveCompleted
}

// NewPaymentReceiveCompletedEvent creates a new PaymentReceiveCompletedEvent
func NewPaymentReceiveCompletedEvent(p *PaymentReceive) *PaymentReceiveCompletedEvent {
	return &PaymentReceiveCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePaymentReceiveCompleted, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:         p.ID,
		PaymentNumber:     p.PaymentNumber,
		CustomerID:        p.CustomerID,
		TotalAmount:       p.TotalAmount,
		AllocatedAmount:   p.AllocatedAmount,
		UnallocatedAmount: p.UnallocatedAmount,
		AllocationCount:   p.AllocationCount(),
		CompletedBy:       p.CompletedBy,
	}
}

// ReversedAllocationInfo describes an applied allocation that was reversed on cancellation
type ReversedAllocationInfo struct {
	AllocationID uuid.UUID       `json:"allocation_id"`
	SaleID       uuid.UUID       `json:"sale_id"`
	SaleNumber   string          `json:"sale_number"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentReceiveCancelledEvent is raised when a payment is cancelled
type PaymentReceiveCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentID           uuid.UUID                `json:"payment_id"`
	PaymentNumber       string                   `json:"payment_number"`
	CustomerID          uuid.UUID                `json:"customer_id"`
	CancelledBy         *uuid.UUID               `json:"cancelled_by"`
	CancelReason        string                   `json:"cancel_reason"`
	ReversedAllocations []ReversedAllocationInfo `json:"reversed_allocations"`
}

// EventType returns the event type name
func (e *PaymentReceiveCancelledEvent) EventType() string {
	return EventTypePaymentReceiveCancelled
}

// NewPaymentReceiveCancelledEvent creates a new PaymentReceiveCancelledEvent
func NewPaymentReceiveCancelledEvent(p *PaymentReceive, applied []PaymentAllocation) *PaymentReceiveCancelledEvent {
	reversed := make([]ReversedAllocationInfo, 0, len(applied))
	for i := range applied {
		reversed = append(reversed, ReversedAllocationInfo{
			AllocationID: applied[i].ID,
			SaleID:       applied[i].SaleID,
			SaleNumber:   applied[i].SaleNumber,
			Amount:       applied[i].Amount,
		})
	}
	return &PaymentReceiveCancelledEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypePaymentReceiveCancelled, "PaymentReceive", p.ID, p.TenantID),
		PaymentID:           p.ID,
		PaymentNumber:       p.PaymentNumber,
		CustomerID:          p.CustomerID,
		CancelledBy:         p.CancelledBy,
		CancelReason:        p.CancelReason,
		ReversedAllocations: reversed,
	}
}
