package receivable

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// WorkflowStatus represents the workflow state of a payment receive
type WorkflowStatus string

const (
	WorkflowStatusDraft               WorkflowStatus = "DRAFT"                // Being prepared, freely editable
	WorkflowStatusPendingVerification WorkflowStatus = "PENDING_VERIFICATION" // Submitted, awaiting verification
	WorkflowStatusVerified            WorkflowStatus = "VERIFIED"             // Verification passed, no approval needed
	WorkflowStatusPendingApproval     WorkflowStatus = "PENDING_APPROVAL"     // Verification passed, awaiting approval
	WorkflowStatusApproved            WorkflowStatus = "APPROVED"             // Approved, ready to complete
	WorkflowStatusCompleted           WorkflowStatus = "COMPLETED"            // Allocations applied to sales
	WorkflowStatusRejected            WorkflowStatus = "REJECTED"             // Rejected during verification or approval
	WorkflowStatusCancelled           WorkflowStatus = "CANCELLED"            // Cancelled before completion
)

// IsValid checks if the status is a valid WorkflowStatus
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusDraft, WorkflowStatusPendingVerification, WorkflowStatusVerified,
		WorkflowStatusPendingApproval, WorkflowStatusApproved, WorkflowStatusCompleted,
		WorkflowStatusRejected, WorkflowStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of WorkflowStatus
func (s WorkflowStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payment is in a terminal state
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusCompleted || s == WorkflowStatusRejected || s == WorkflowStatusCancelled
}

// CanSubmit returns true if the payment can be submitted for verification
func (s WorkflowStatus) CanSubmit() bool {
	return s == WorkflowStatusDraft
}

// CanVerify returns true if the payment can be verified
func (s WorkflowStatus) CanVerify() bool {
	return s == WorkflowStatusPendingVerification
}

// CanApprove returns true if the payment can be approved
func (s WorkflowStatus) CanApprove() bool {
	return s == WorkflowStatusPendingApproval
}

// CanReject returns true if the payment can be rejected
func (s WorkflowStatus) CanReject() bool {
	return s == WorkflowStatusPendingVerification || s == WorkflowStatusPendingApproval
}

// CanComplete returns true if allocations can be committed from this status
func (s WorkflowStatus) CanComplete() bool {
	return s == WorkflowStatusVerified || s == WorkflowStatusApproved
}

// CanCancel returns true if the payment can be cancelled
func (s WorkflowStatus) CanCancel() bool {
	return !s.IsTerminal()
}

// CanEditAllocations returns true if the allocation set may still change
func (s WorkflowStatus) CanEditAllocations() bool {
	return !s.IsTerminal()
}

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"          // Cash payment
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER" // Bank transfer
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"   // Credit card
	PaymentMethodCheck        PaymentMethod = "CHECK"         // Check/Cheque
	PaymentMethodOther        PaymentMethod = "OTHER"         // Other methods
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard,
		PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// AllocationType indicates how an allocation was produced
type AllocationType string

const (
	AllocationTypeManual AllocationType = "MANUAL" // Entered per sale by the operator
	AllocationTypeAuto   AllocationType = "AUTO"   // Distributed by an allocation strategy
)

// IsValid checks if the allocation type is valid
func (t AllocationType) IsValid() bool {
	return t == AllocationTypeManual || t == AllocationTypeAuto
}

// AllocationStatus represents the lifecycle status of a payment allocation
type AllocationStatus string

const (
	AllocationStatusPending  AllocationStatus = "PENDING"  // Recorded but not yet applied to the sale
	AllocationStatusApplied  AllocationStatus = "APPLIED"  // Applied when the payment completed
	AllocationStatusReversed AllocationStatus = "REVERSED" // Compensated after rejection/cancellation
)

// IsValid checks if the allocation status is valid
func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationStatusPending, AllocationStatusApplied, AllocationStatusReversed:
		return true
	}
	return false
}

// PaymentAllocation represents the allocation of a payment to a sale.
// It is a value object within the PaymentReceive aggregate, stored as JSONB.
type PaymentAllocation struct {
	ID             uuid.UUID        `json:"id"`
	PaymentID      uuid.UUID        `json:"payment_id"`
	SaleID         uuid.UUID        `json:"sale_id"`
	SaleNumber     string           `json:"sale_number"` // Denormalized for display
	Amount         decimal.Decimal  `json:"amount"`
	AllocationType AllocationType   `json:"allocation_type"`
	Status         AllocationStatus `json:"status"`
	AllocationDate time.Time        `json:"allocation_date"`
	AppliedAt      *time.Time       `json:"applied_at"`
	ReversedAt     *time.Time       `json:"reversed_at"`
	ReversalReason string           `json:"reversal_reason,omitempty"`
}

// NewPaymentAllocation creates a new pending payment allocation
func NewPaymentAllocation(paymentID, saleID uuid.UUID, saleNumber string, amount valueobject.Money, allocationType AllocationType) *PaymentAllocation {
	return &PaymentAllocation{
		ID:             uuid.New(),
		PaymentID:      paymentID,
		SaleID:         saleID,
		SaleNumber:     saleNumber,
		Amount:         amount.Amount(),
		AllocationType: allocationType,
		Status:         AllocationStatusPending,
		AllocationDate: time.Now(),
	}
}

// GetAmountMoney returns the amount as Money value object
func (a *PaymentAllocation) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.Amount)
}

// IsApplied returns true if the allocation has been applied to its sale
func (a *PaymentAllocation) IsApplied() bool {
	return a.Status == AllocationStatusApplied
}

// IsReversed returns true if the allocation has been reversed
func (a *PaymentAllocation) IsReversed() bool {
	return a.Status == AllocationStatusReversed
}

// MarkApplied marks the allocation as applied to its sale
func (a *PaymentAllocation) MarkApplied() {
	now := time.Now()
	a.Status = AllocationStatusApplied
	a.AppliedAt = &now
}

// MarkReversed marks the allocation as reversed with the given reason.
// Applied allocations are never deleted, only reversed, for audit.
func (a *PaymentAllocation) MarkReversed(reason string) {
	now := time.Now()
	a.Status = AllocationStatusReversed
	a.ReversedAt = &now
	a.ReversalReason = reason
}

// PaymentAllocations is a slice of PaymentAllocation that implements GORM Scanner/Valuer for JSONB storage
type PaymentAllocations []PaymentAllocation

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentAllocations) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentAllocations) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentAllocations{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentAllocations: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentAllocations{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// ActiveAmount returns the sum of non-reversed allocation amounts
func (p PaymentAllocations) ActiveAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range p {
		if !p[i].IsReversed() {
			total = total.Add(p[i].Amount)
		}
	}
	return total
}

// VerificationChecks holds the individual checks performed during verification.
// All checks except ReferenceVerified are required to pass.
type VerificationChecks struct {
	DocumentVerified      bool `json:"document_verified"`
	AmountVerified        bool `json:"amount_verified"`
	CustomerVerified      bool `json:"customer_verified"`
	PaymentMethodVerified bool `json:"payment_method_verified"`
	ReferenceVerified     bool `json:"reference_verified"` // Optional
}

// MissingRequired returns the names of required checks that are not marked true
func (c VerificationChecks) MissingRequired() []string {
	var missing []string
	if !c.DocumentVerified {
		missing = append(missing, "document_verified")
	}
	if !c.AmountVerified {
		missing = append(missing, "amount_verified")
	}
	if !c.CustomerVerified {
		missing = append(missing, "customer_verified")
	}
	if !c.PaymentMethodVerified {
		missing = append(missing, "payment_method_verified")
	}
	return missing
}

// Verification records the outcome of the verification step.
// Stored as JSONB within the PaymentReceive aggregate.
type Verification struct {
	Checks     VerificationChecks `json:"checks"`
	Notes      string             `json:"notes"`
	VerifiedAt time.Time          `json:"verified_at"`
	VerifiedBy uuid.UUID          `json:"verified_by"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (v Verification) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (v *Verification) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch val := value.(type) {
	case []byte:
		bytes = val
	case string:
		bytes = []byte(val)
	default:
		return errors.New("failed to scan Verification: unsupported type")
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, v)
}

// minVerificationNotesLen is the minimum length of the verification notes
const minVerificationNotesLen = 10

// PaymentReceive represents a customer payment aggregate root.
// It records cash received from a customer and its allocation across
// outstanding sales, gated by a verification/approval workflow.
type PaymentReceive struct {
	shared.TenantAggregateRoot
	PaymentNumber     string             `json:"payment_number"`
	CustomerID        uuid.UUID          `json:"customer_id"`
	CustomerName      string             `json:"customer_name"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`       // Cash received, fixed at creation
	AllocatedAmount   decimal.Decimal    `json:"allocated_amount"`   // Sum of non-reversed allocations
	UnallocatedAmount decimal.Decimal    `json:"unallocated_amount"` // Remaining unallocated amount
	PaymentMethod     PaymentMethod      `json:"payment_method"`
	PaymentReference  string             `json:"payment_reference"` // Bank transaction, check number
	PaymentDate       time.Time          `json:"payment_date"`
	WorkflowStatus    WorkflowStatus     `json:"workflow_status"`
	RequiresApproval  bool               `json:"requires_approval"` // Decided at creation by amount threshold
	Allocations       PaymentAllocations `json:"allocations"`
	Verification      *Verification      `json:"verification"`
	Remark            string             `json:"remark"`
	SubmittedAt       *time.Time         `json:"submitted_at"`
	SubmittedBy       *uuid.UUID         `json:"submitted_by"`
	ApprovedAt        *time.Time         `json:"approved_at"`
	ApprovedBy        *uuid.UUID         `json:"approved_by"`
	RejectedAt        *time.Time         `json:"rejected_at"`
	RejectedBy        *uuid.UUID         `json:"rejected_by"`
	RejectReason      string             `json:"reject_reason"`
	CompletedAt       *time.Time         `json:"completed_at"`
	CompletedBy       *uuid.UUID         `json:"completed_by"`
	CancelledAt       *time.Time         `json:"cancelled_at"`
	CancelledBy       *uuid.UUID         `json:"cancelled_by"`
	CancelReason      string             `json:"cancel_reason"`
}

// NewPaymentReceive creates a new payment receive in draft status awaiting allocation and submission
func NewPaymentReceive(
	tenantID uuid.UUID,
	paymentNumber string,
	customerID uuid.UUID,
	customerName string,
	totalAmount valueobject.Money,
	paymentMethod PaymentMethod,
	paymentDate time.Time,
	paymentReference string,
	requiresApproval bool,
) (*PaymentReceive, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if len(paymentNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}

	p := &PaymentReceive{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       paymentNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		TotalAmount:         totalAmount.Amount(),
		AllocatedAmount:     decimal.Zero,
		UnallocatedAmount:   totalAmount.Amount(),
		PaymentMethod:       paymentMethod,
		PaymentReference:    paymentReference,
		PaymentDate:         paymentDate,
		WorkflowStatus:      WorkflowStatusDraft,
		RequiresApproval:    requiresApproval,
		Allocations:         PaymentAllocations{},
	}

	p.AddDomainEvent(NewPaymentReceiveCreatedEvent(p))

	return p, nil
}

// transitionError builds the error returned for an illegal workflow transition,
// naming the current state and the attempted action.
func (p *PaymentReceive) transitionError(action string) error {
	return shared.NewDomainError("INVALID_WORKFLOW_TRANSITION",
		fmt.Sprintf("Cannot %s payment in %s status", action, p.WorkflowStatus))
}

// Submit moves the payment from draft to pending verification
func (p *PaymentReceive) Submit(by uuid.UUID) error {
	if !p.WorkflowStatus.CanSubmit() {
		return p.transitionError("submit")
	}
	if p.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if p.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !p.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	now := time.Now()
	p.WorkflowStatus = WorkflowStatusPendingVerification
	p.SubmittedAt = &now
	p.SubmittedBy = &by
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveSubmittedEvent(p))

	return nil
}

// Verify records the verification outcome and advances the workflow.
// All required checks must pass and notes must carry enough detail.
// Payments over the approval threshold move to pending approval,
// the rest become verified and are ready to complete.
func (p *PaymentReceive) Verify(checks VerificationChecks, notes string, by uuid.UUID) error {
	if !p.WorkflowStatus.CanVerify() {
		return p.transitionError("verify")
	}
	if len(strings.TrimSpace(notes)) < minVerificationNotesLen {
		return shared.NewDomainError("VERIFICATION_INCOMPLETE",
			fmt.Sprintf("Verification notes must be at least %d characters", minVerificationNotesLen))
	}
	if missing := checks.MissingRequired(); len(missing) > 0 {
		return shared.NewDomainError("VERIFICATION_INCOMPLETE",
			fmt.Sprintf("Required verification checks not passed: %s", strings.Join(missing, ", ")))
	}

	now := time.Now()
	p.Verification = &Verification{
		Checks:     checks,
		Notes:      notes,
		VerifiedAt: now,
		VerifiedBy: by,
	}

	if p.RequiresApproval {
		p.WorkflowStatus = WorkflowStatusPendingApproval
	} else {
		p.WorkflowStatus = WorkflowStatusVerified
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveVerifiedEvent(p))

	return nil
}

// Approve approves a payment that is pending approval
func (p *PaymentReceive) Approve(by uuid.UUID) error {
	if !p.WorkflowStatus.CanApprove() {
		return p.transitionError("approve")
	}

	now := time.Now()
	p.WorkflowStatus = WorkflowStatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &by
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveApprovedEvent(p))

	return nil
}

// Reject rejects a payment during verification or approval.
// Pending allocations are marked reversed so the audit trail survives.
func (p *PaymentReceive) Reject(by uuid.UUID, reason string) error {
	if !p.WorkflowStatus.CanReject() {
		return p.transitionError("reject")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	now := time.Now()
	for i := range p.Allocations {
		if !p.Allocations[i].IsReversed() {
			p.Allocations[i].MarkReversed(reason)
		}
	}
	p.recalculateAllocated()

	p.WorkflowStatus = WorkflowStatusRejected
	p.RejectedAt = &now
	p.RejectedBy = &by
	p.RejectReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveRejectedEvent(p))

	return nil
}

// Complete commits the payment, marking pending allocations as applied.
// Callable from verified (no approval required) or approved status.
// Partial allocation is permitted; over-allocation is not.
func (p *PaymentReceive) Complete(by uuid.UUID) error {
	if !p.WorkflowStatus.CanComplete() {
		return p.transitionError("complete")
	}
	if p.WorkflowStatus == WorkflowStatusVerified && p.RequiresApproval {
		return p.transitionError("complete")
	}
	if p.AllocatedAmount.GreaterThan(p.TotalAmount) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_PAYMENT",
			fmt.Sprintf("Allocated amount %s exceeds payment amount %s", p.AllocatedAmount.StringFixed(2), p.TotalAmount.StringFixed(2)))
	}

	now := time.Now()
	for i := range p.Allocations {
		if p.Allocations[i].Status == AllocationStatusPending {
			p.Allocations[i].MarkApplied()
		}
	}

	p.WorkflowStatus = WorkflowStatusCompleted
	p.CompletedAt = &now
	p.CompletedBy = &by
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveCompletedEvent(p))

	return nil
}

// Cancel cancels the payment from any non-terminal state.
// Returns the allocations that had already been applied so the caller can
// restore the corresponding sale balances as one compensating unit.
func (p *PaymentReceive) Cancel(by uuid.UUID, reason string) ([]PaymentAllocation, error) {
	if !p.WorkflowStatus.CanCancel() {
		return nil, p.transitionError("cancel")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	var applied []PaymentAllocation
	for i := range p.Allocations {
		if p.Allocations[i].IsApplied() {
			applied = append(applied, p.Allocations[i])
		}
		if !p.Allocations[i].IsReversed() {
			p.Allocations[i].MarkReversed(reason)
		}
	}
	p.recalculateAllocated()

	p.WorkflowStatus = WorkflowStatusCancelled
	p.CancelledAt = &now
	p.CancelledBy = &by
	p.CancelReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceiveCancelledEvent(p, applied))

	return applied, nil
}

// SetAllocations replaces the allocation set while the payment is still open.
// The sum of allocation amounts must not exceed the payment amount.
// Per-sale outstanding limits are enforced by the allocation engine, which
// sees the current sale balances.
func (p *PaymentReceive) SetAllocations(allocations []PaymentAllocation) error {
	if !p.WorkflowStatus.CanEditAllocations() {
		return p.transitionError("allocate")
	}

	total := decimal.Zero
	for i := range allocations {
		if allocations[i].SaleID == uuid.Nil {
			return shared.NewDomainError("INVALID_SALE", "Allocation sale ID cannot be empty")
		}
		if allocations[i].Amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
		}
		if !allocations[i].AllocationType.IsValid() {
			return shared.NewDomainError("INVALID_ALLOCATION_TYPE", "Allocation type is not valid")
		}
		total = total.Add(allocations[i].Amount)
	}
	if total.GreaterThan(p.TotalAmount) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_PAYMENT",
			fmt.Sprintf("Allocated amount %s exceeds payment amount %s", total.StringFixed(2), p.TotalAmount.StringFixed(2)))
	}

	p.Allocations = allocations
	p.recalculateAllocated()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ClearAllocations removes all pending allocations from an open payment
func (p *PaymentReceive) ClearAllocations() error {
	return p.SetAllocations(PaymentAllocations{})
}

// recalculateAllocated refreshes the derived allocation sums
func (p *PaymentReceive) recalculateAllocated() {
	p.AllocatedAmount = p.Allocations.ActiveAmount()
	p.UnallocatedAmount = p.TotalAmount.Sub(p.AllocatedAmount)
}

// SetRemark sets the remark
func (p *PaymentReceive) SetRemark(remark string) {
	p.Remark = remark
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Helper methods

// GetTotalAmountMoney returns the payment amount as Money
func (p *PaymentReceive) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.TotalAmount)
}

// GetAllocatedAmountMoney returns the allocated amount as Money
func (p *PaymentReceive) GetAllocatedAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.AllocatedAmount)
}

// GetUnallocatedAmountMoney returns the unallocated amount as Money
func (p *PaymentReceive) GetUnallocatedAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnallocatedAmount)
}

// IsDraft returns true if the payment is still in draft
func (p *PaymentReceive) IsDraft() bool {
	return p.WorkflowStatus == WorkflowStatusDraft
}

// IsCompleted returns true if the payment has been completed
func (p *PaymentReceive) IsCompleted() bool {
	return p.WorkflowStatus == WorkflowStatusCompleted
}

// IsCancelled returns true if the payment has been cancelled
func (p *PaymentReceive) IsCancelled() bool {
	return p.WorkflowStatus == WorkflowStatusCancelled
}

// IsFullyAllocated returns true if the entire payment amount is allocated
func (p *PaymentReceive) IsFullyAllocated() bool {
	return p.UnallocatedAmount.IsZero()
}

// AllocationCount returns the number of non-reversed allocations
func (p *PaymentReceive) AllocationCount() int {
	count := 0
	for i := range p.Allocations {
		if !p.Allocations[i].IsReversed() {
			count++
		}
	}
	return count
}
