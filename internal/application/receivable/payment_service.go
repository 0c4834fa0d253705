package receivable

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// tracer traces the allocation and completion paths, the hot spots of the module
var tracer = otel.Tracer("application/receivable")

// defaultLockRetryAttempts bounds the optimistic-lock retry loop when
// completing a payment against concurrently modified sales
const defaultLockRetryAttempts = 3

// defaultLockRetryBaseDelay is the base backoff between completion retries
const defaultLockRetryBaseDelay = 50 * time.Millisecond

// PaymentService provides application-level payment receive operations:
// the verification/approval workflow and payment allocation across sales
type PaymentService struct {
	paymentRepo receivable.PaymentReceiveRepository
	saleRepo    receivable.SaleRepository
	tx          receivable.TransactionManager
	strategies  *receivable.AllocationStrategyFactory
	publisher   shared.EventPublisher
	logger      *zap.Logger

	approvalThreshold  decimal.Decimal
	defaultStrategy    receivable.AllocationStrategyType
	lockRetryAttempts  int
	lockRetryBaseDelay time.Duration
}

// PaymentServiceOption is a functional option for configuring PaymentService
type PaymentServiceOption func(*PaymentService)

// WithPaymentEventPublisher sets the event publisher
func WithPaymentEventPublisher(publisher shared.EventPublisher) PaymentServiceOption {
	return func(s *PaymentService) {
		s.publisher = publisher
	}
}

// WithTransactionManager makes completion and cancellation commit their
// sale and payment writes atomically
func WithTransactionManager(tx receivable.TransactionManager) PaymentServiceOption {
	return func(s *PaymentService) {
		s.tx = tx
	}
}

// WithPaymentLogger sets the logger
func WithPaymentLogger(logger *zap.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.logger = logger
	}
}

// WithApprovalThreshold sets the amount at or above which a payment
// requires managerial approval after verification
func WithApprovalThreshold(threshold decimal.Decimal) PaymentServiceOption {
	return func(s *PaymentService) {
		s.approvalThreshold = threshold
	}
}

// WithDefaultStrategy sets the allocation strategy used when a request
// names none or an invalid one
func WithDefaultStrategy(strategyType receivable.AllocationStrategyType) PaymentServiceOption {
	return func(s *PaymentService) {
		if strategyType.IsValid() {
			s.defaultStrategy = strategyType
		}
	}
}

// WithLockRetry configures the optimistic-lock retry loop for completion
func WithLockRetry(attempts int, baseDelay time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		if attempts > 0 {
			s.lockRetryAttempts = attempts
		}
		if baseDelay > 0 {
			s.lockRetryBaseDelay = baseDelay
		}
	}
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo receivable.PaymentReceiveRepository,
	saleRepo receivable.SaleRepository,
	opts ...PaymentServiceOption,
) *PaymentService {
	s := &PaymentService{
		paymentRepo:        paymentRepo,
		saleRepo:           saleRepo,
		strategies:         receivable.NewAllocationStrategyFactory(),
		logger:             zap.NewNop(),
		approvalThreshold:  decimal.NewFromInt(10000),
		defaultStrategy:    receivable.AllocationStrategyOverdueFirst,
		lockRetryAttempts:  defaultLockRetryAttempts,
		lockRetryBaseDelay: defaultLockRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllocationResponse represents one payment allocation in API responses
type AllocationResponse struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	SaleNumber     string          `json:"sale_number"`
	Amount         decimal.Decimal `json:"amount"`
	AllocationType string          `json:"allocation_type"`
	Status         string          `json:"status"`
	AllocationDate time.Time       `json:"allocation_date"`
	AppliedAt      *time.Time      `json:"applied_at,omitempty"`
	ReversedAt     *time.Time      `json:"reversed_at,omitempty"`
	ReversalReason string          `json:"reversal_reason,omitempty"`
}

// VerificationResponse represents the verification record in API responses
type VerificationResponse struct {
	Checks     receivable.VerificationChecks `json:"checks"`
	Notes      string                        `json:"notes"`
	VerifiedAt time.Time                     `json:"verified_at"`
	VerifiedBy uuid.UUID                     `json:"verified_by"`
}

// PaymentReceiveResponse represents a payment receive in API responses
type PaymentReceiveResponse struct {
	ID                uuid.UUID             `json:"id"`
	TenantID          uuid.UUID             `json:"tenant_id"`
	PaymentNumber     string                `json:"payment_number"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	CustomerName      string                `json:"customer_name"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	AllocatedAmount   decimal.Decimal       `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal       `json:"unallocated_amount"`
	PaymentMethod     string                `json:"payment_method"`
	PaymentReference  string                `json:"payment_reference,omitempty"`
	PaymentDate       time.Time             `json:"payment_date"`
	WorkflowStatus    string                `json:"workflow_status"`
	RequiresApproval  bool                  `json:"requires_approval"`
	Allocations       []AllocationResponse  `json:"allocations"`
	Verification      *VerificationResponse `json:"verification,omitempty"`
	Remark            string                `json:"remark,omitempty"`
	SubmittedAt       *time.Time            `json:"submitted_at,omitempty"`
	ApprovedAt        *time.Time            `json:"approved_at,omitempty"`
	RejectedAt        *time.Time            `json:"rejected_at,omitempty"`
	RejectReason      string                `json:"reject_reason,omitempty"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int                   `json:"version"`
}

// AllocationPlanResponse represents a proposed allocation plan
type AllocationPlanResponse struct {
	Strategy              string               `json:"strategy"`
	Lines                 []AllocationLineItem `json:"lines"`
	TotalAllocated        decimal.Decimal      `json:"total_allocated"`
	RemainingAmount       decimal.Decimal      `json:"remaining_amount"`
	FullyAllocated        bool                 `json:"fully_allocated"`
	SalesFullySettled     []uuid.UUID          `json:"sales_fully_settled"`
	SalesPartiallySettled []uuid.UUID          `json:"sales_partially_settled"`
}

// AllocationLineItem represents one line of an allocation plan
type AllocationLineItem struct {
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber string          `json:"sale_number"`
	Amount     decimal.Decimal `json:"amount"`
}

// CreatePaymentRequest represents a request to record a customer payment
type CreatePaymentRequest struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	PaymentDate      time.Time       `json:"payment_date"`
	Remark           string          `json:"remark"`
	CreatedBy        *uuid.UUID      `json:"-"` // Set from auth context
}

// VerifyPaymentRequest carries the verification checklist outcome
type VerifyPaymentRequest struct {
	Checks receivable.VerificationChecks `json:"checks"`
	Notes  string                        `json:"notes"`
}

// ManualAllocationItem is one caller-specified allocation line
type ManualAllocationItem struct {
	SaleID uuid.UUID       `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AllocateRequest configures allocation of a payment across sales.
// For the MANUAL strategy, Allocations must be provided; automatic
// strategies may restrict the candidate set via SelectedSaleIDs.
type AllocateRequest struct {
	Strategy        string                 `json:"strategy"`
	Allocations     []ManualAllocationItem `json:"allocations"`
	SelectedSaleIDs []uuid.UUID            `json:"selected_sale_ids"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	Search        string     `form:"search"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	Status        string     `form:"status"`
	PaymentMethod string     `form:"payment_method"`
	FromDate      *time.Time `form:"from_date"`
	ToDate        *time.Time `form:"to_date"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// CreatePayment records a new customer payment in draft status.
// Payments at or above the approval threshold are flagged for approval.
func (s *PaymentService) CreatePayment(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequest) (*PaymentReceiveResponse, error) {
	paymentNumber, err := s.paymentRepo.GeneratePaymentNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	requiresApproval := req.TotalAmount.GreaterThanOrEqual(s.approvalThreshold)

	payment, err := receivable.NewPaymentReceive(
		tenantID,
		paymentNumber,
		req.CustomerID,
		req.CustomerName,
		valueobject.NewMoneyUSD(req.TotalAmount),
		receivable.PaymentMethod(req.PaymentMethod),
		req.PaymentDate,
		req.PaymentReference,
		requiresApproval,
	)
	if err != nil {
		return nil, err
	}

	if req.Remark != "" {
		payment.SetRemark(req.Remark)
	}
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishPaymentEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// GetPaymentByID gets a payment by ID
func (s *PaymentService) GetPaymentByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReceiveResponse, error) {
	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// GetPaymentByNumber gets a payment by its payment number
func (s *PaymentService) GetPaymentByNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (*PaymentReceiveResponse, error) {
	payment, err := s.paymentRepo.FindByPaymentNumber(ctx, tenantID, paymentNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return toPaymentResponse(payment), nil
}

// ListPayments lists payments with filtering
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentReceiveResponse, int64, error) {
	domainFilter := receivable.PaymentReceiveFilter{
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := receivable.WorkflowStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.PaymentMethod != "" {
		method := receivable.PaymentMethod(filter.PaymentMethod)
		domainFilter.PaymentMethod = &method
	}

	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentReceiveResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}

	return responses, total, nil
}

// SubmitPayment submits a draft payment for verification
func (s *PaymentService) SubmitPayment(ctx context.Context, tenantID, id, by uuid.UUID) (*PaymentReceiveResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *receivable.PaymentReceive) error {
		return p.Submit(by)
	})
}

// VerifyPayment records the verification checklist outcome. Payments that
// require approval advance to pending approval, the rest become verified.
func (s *PaymentService) VerifyPayment(ctx context.Context, tenantID, id, by uuid.UUID, req VerifyPaymentRequest) (*PaymentReceiveResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *receivable.PaymentReceive) error {
		return p.Verify(req.Checks, req.Notes, by)
	})
}

// ApprovePayment approves a payment pending approval
func (s *PaymentService) ApprovePayment(ctx context.Context, tenantID, id, by uuid.UUID) (*PaymentReceiveResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *receivable.PaymentReceive) error {
		return p.Approve(by)
	})
}

// RejectPayment rejects a payment during verification or approval
func (s *PaymentService) RejectPayment(ctx context.Context, tenantID, id, by uuid.UUID, reason string) (*PaymentReceiveResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *receivable.PaymentReceive) error {
		return p.Reject(by, reason)
	})
}

// transition loads a payment, applies the workflow mutation and persists it
// with optimistic locking, publishing any resulting events.
func (s *PaymentService) transition(ctx context.Context, tenantID, id uuid.UUID, mutate func(*receivable.PaymentReceive) error) (*PaymentReceiveResponse, error) {
	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(payment); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	s.publishPaymentEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// CancelPayment cancels a payment. If the payment had already been completed,
// its applied allocations are reversed on the affected sales to restore their
// outstanding balances.
func (s *PaymentService) CancelPayment(ctx context.Context, tenantID, id, by uuid.UUID, reason string) (*PaymentReceiveResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.CancelPayment")
	defer span.End()

	var payment *receivable.PaymentReceive
	var compensated []*receivable.Sale

	// The cancelled payment and the compensating sale reversals commit
	// together; a failure part-way rolls back everything.
	err := s.inTransaction(ctx, func(sales receivable.SaleRepository, payments receivable.PaymentReceiveRepository) error {
		var err error
		payment, err = payments.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		applied, err := payment.Cancel(by, reason)
		if err != nil {
			return err
		}

		// Restore the balances this payment had reduced. A sale deleted
		// since completion is logged and skipped so the remaining sales
		// are still restored.
		for i := range applied {
			sale, err := sales.FindByIDForTenant(ctx, tenantID, applied[i].SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				s.logger.Error("sale missing during payment reversal",
					zap.String("payment_id", payment.ID.String()),
					zap.String("sale_id", applied[i].SaleID.String()))
				continue
			}
			if err := sale.ReverseAllocation(applied[i].GetAmountMoney(), payment.ID, reason); err != nil {
				return err
			}
			if err := sales.SaveWithLock(ctx, sale); err != nil {
				return err
			}
			compensated = append(compensated, sale)
		}

		return payments.SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	for _, sale := range compensated {
		s.publishSaleEvents(ctx, sale)
	}
	s.publishPaymentEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// PreviewAllocation runs an allocation strategy against the customer's
// outstanding sales without modifying the payment
func (s *PaymentService) PreviewAllocation(ctx context.Context, tenantID, id uuid.UUID, req AllocateRequest) (*AllocationPlanResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.PreviewAllocation")
	defer span.End()

	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	plan, strategyType, err := s.runStrategy(ctx, payment, req)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("allocation.strategy", strategyType.String()),
		attribute.Int("allocation.lines", len(plan.Lines)),
	)

	return toPlanResponse(plan, strategyType), nil
}

// Allocate distributes the payment across the customer's outstanding sales
// using the requested strategy and stores the resulting allocation set on
// the payment. Allocations stay pending until the payment completes.
func (s *PaymentService) Allocate(ctx context.Context, tenantID, id uuid.UUID, req AllocateRequest) (*PaymentReceiveResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.Allocate")
	defer span.End()

	payment, err := s.findPayment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	plan, strategyType, err := s.runStrategy(ctx, payment, req)
	if err != nil {
		return nil, err
	}

	allocationType := receivable.AllocationTypeAuto
	if strategyType == receivable.AllocationStrategyManual {
		allocationType = receivable.AllocationTypeManual
	}

	allocations := make([]receivable.PaymentAllocation, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		alloc := receivable.NewPaymentAllocation(
			payment.ID,
			line.SaleID,
			line.SaleNumber,
			valueobject.NewMoneyUSD(line.Amount),
			allocationType,
		)
		allocations = append(allocations, *alloc)
	}

	if err := payment.SetAllocations(allocations); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("allocation.strategy", strategyType.String()),
		attribute.Int("allocation.lines", len(allocations)),
	)

	return toPaymentResponse(payment), nil
}

// ClearAllocations removes all pending allocations from an open payment
func (s *PaymentService) ClearAllocations(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReceiveResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *receivable.PaymentReceive) error {
		return p.ClearAllocations()
	})
}

// runStrategy resolves the requested strategy (falling back to the configured
// default for absent or unknown types) and executes it against the payment
// customer's outstanding sales.
func (s *PaymentService) runStrategy(ctx context.Context, payment *receivable.PaymentReceive, req AllocateRequest) (*receivable.AllocationPlan, receivable.AllocationStrategyType, error) {
	strategyType := receivable.AllocationStrategyType(req.Strategy)
	if !strategyType.IsValid() {
		if req.Strategy != "" {
			s.logger.Warn("unknown allocation strategy, using default",
				zap.String("requested", req.Strategy),
				zap.String("default", s.defaultStrategy.String()))
		}
		strategyType = s.defaultStrategy
	}

	sales, err := s.saleRepo.FindOutstanding(ctx, payment.TenantID, payment.CustomerID)
	if err != nil {
		return nil, strategyType, err
	}

	asOf := time.Now()
	candidates := receivable.CandidatesFromSales(sales, asOf)
	amount := payment.GetUnallocatedAmountMoney()
	if payment.WorkflowStatus.CanEditAllocations() {
		// Replacing the allocation set, so plan against the full amount
		amount = payment.GetTotalAmountMoney()
	}

	if strategyType == receivable.AllocationStrategyManual {
		inputs := make([]receivable.ManualAllocationInput, 0, len(req.Allocations))
		for _, item := range req.Allocations {
			inputs = append(inputs, receivable.ManualAllocationInput{
				SaleID: item.SaleID,
				Amount: item.Amount,
			})
		}
		strategy, err := s.strategies.GetStrategy(strategyType, inputs)
		if err != nil {
			return nil, strategyType, err
		}
		plan, err := strategy.Allocate(amount, candidates)
		return plan, strategyType, err
	}

	if len(req.SelectedSaleIDs) > 0 {
		plan, err := receivable.AllocateToSelected(amount, candidates, req.SelectedSaleIDs)
		return plan, strategyType, err
	}

	strategy, err := s.strategies.GetStrategy(strategyType, nil)
	if err != nil {
		return nil, strategyType, err
	}
	plan, err := strategy.Allocate(amount, candidates)
	return plan, strategyType, err
}

// CompletePayment commits the payment's allocations to the affected sales.
// The sale updates are retried on optimistic-lock conflicts, rebuilding the
// whole completion from fresh state each attempt.
func (s *PaymentService) CompletePayment(ctx context.Context, tenantID, id, by uuid.UUID) (*PaymentReceiveResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.CompletePayment")
	defer span.End()

	var resp *PaymentReceiveResponse
	var err error
	for attempt := 0; attempt < s.lockRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.lockRetryBaseDelay * time.Duration(1<<(attempt-1))):
			}
			s.logger.Info("retrying payment completion after lock conflict",
				zap.String("payment_id", id.String()),
				zap.Int("attempt", attempt+1))
		}

		resp, err = s.completeOnce(ctx, tenantID, id, by)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return resp, err
		}
	}
	return nil, err
}

// completeOnce performs a single completion attempt from fresh state.
// The sale balance updates and the payment status change commit in one
// transaction, so a lock conflict part-way rolls back every write and
// the retry re-applies nothing.
func (s *PaymentService) completeOnce(ctx context.Context, tenantID, id, by uuid.UUID) (*PaymentReceiveResponse, error) {
	var payment *receivable.PaymentReceive
	var touched []*receivable.Sale

	err := s.inTransaction(ctx, func(sales receivable.SaleRepository, payments receivable.PaymentReceiveRepository) error {
		var err error
		payment, err = payments.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		if err := payment.Complete(by); err != nil {
			return err
		}

		for i := range payment.Allocations {
			alloc := &payment.Allocations[i]
			if !alloc.IsApplied() {
				continue
			}
			sale, err := sales.FindByIDForTenant(ctx, tenantID, alloc.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return shared.NewDomainError("NOT_FOUND", "Allocated sale not found: "+alloc.SaleNumber)
			}
			if err := sale.ApplyAllocation(alloc.GetAmountMoney(), payment.ID); err != nil {
				return err
			}
			touched = append(touched, sale)
		}

		for _, sale := range touched {
			if err := sales.SaveWithLock(ctx, sale); err != nil {
				return err
			}
		}

		return payments.SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	for _, sale := range touched {
		s.publishSaleEvents(ctx, sale)
	}
	s.publishPaymentEvents(ctx, payment)

	return toPaymentResponse(payment), nil
}

// inTransaction runs fn against transaction-scoped repositories when a
// manager is configured, and against the service's own repositories
// otherwise.
func (s *PaymentService) inTransaction(ctx context.Context, fn func(sales receivable.SaleRepository, payments receivable.PaymentReceiveRepository) error) error {
	if s.tx != nil {
		return s.tx.InTransaction(ctx, fn)
	}
	return fn(s.saleRepo, s.paymentRepo)
}

// findPayment loads a payment for the tenant or returns NOT_FOUND
func (s *PaymentService) findPayment(ctx context.Context, tenantID, id uuid.UUID) (*receivable.PaymentReceive, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return payment, nil
}

func (s *PaymentService) publishPaymentEvents(ctx context.Context, payment *receivable.PaymentReceive) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, payment.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish payment events",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
	}
	payment.ClearDomainEvents()
}

func (s *PaymentService) publishSaleEvents(ctx context.Context, sale *receivable.Sale) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, sale.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish sale events",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err))
	}
	sale.ClearDomainEvents()
}

func toPaymentResponse(p *receivable.PaymentReceive) *PaymentReceiveResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i := range p.Allocations {
		a := &p.Allocations[i]
		allocations[i] = AllocationResponse{
			ID:             a.ID,
			SaleID:         a.SaleID,
			SaleNumber:     a.SaleNumber,
			Amount:         a.Amount,
			AllocationType: string(a.AllocationType),
			Status:         string(a.Status),
			AllocationDate: a.AllocationDate,
			AppliedAt:      a.AppliedAt,
			ReversedAt:     a.ReversedAt,
			ReversalReason: a.ReversalReason,
		}
	}

	var verification *VerificationResponse
	if p.Verification != nil {
		verification = &VerificationResponse{
			Checks:     p.Verification.Checks,
			Notes:      p.Verification.Notes,
			VerifiedAt: p.Verification.VerifiedAt,
			VerifiedBy: p.Verification.VerifiedBy,
		}
	}

	return &PaymentReceiveResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		PaymentNumber:     p.PaymentNumber,
		CustomerID:        p.CustomerID,
		CustomerName:      p.CustomerName,
		TotalAmount:       p.TotalAmount,
		AllocatedAmount:   p.AllocatedAmount,
		UnallocatedAmount: p.UnallocatedAmount,
		PaymentMethod:     string(p.PaymentMethod),
		PaymentReference:  p.PaymentReference,
		PaymentDate:       p.PaymentDate,
		WorkflowStatus:    string(p.WorkflowStatus),
		RequiresApproval:  p.RequiresApproval,
		Allocations:       allocations,
		Verification:      verification,
		Remark:            p.Remark,
		SubmittedAt:       p.SubmittedAt,
		ApprovedAt:        p.ApprovedAt,
		RejectedAt:        p.RejectedAt,
		RejectReason:      p.RejectReason,
		CompletedAt:       p.CompletedAt,
		CancelledAt:       p.CancelledAt,
		CancelReason:      p.CancelReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

func toPlanResponse(plan *receivable.AllocationPlan, strategyType receivable.AllocationStrategyType) *AllocationPlanResponse {
	lines := make([]AllocationLineItem, len(plan.Lines))
	for i, line := range plan.Lines {
		lines[i] = AllocationLineItem{
			SaleID:     line.SaleID,
			SaleNumber: line.SaleNumber,
			Amount:     line.Amount,
		}
	}
	return &AllocationPlanResponse{
		Strategy:              strategyType.String(),
		Lines:                 lines,
		TotalAllocated:        plan.TotalAllocated,
		RemainingAmount:       plan.RemainingAmount,
		FullyAllocated:        plan.FullyAllocated,
		SalesFullySettled:     plan.SalesFullySettled,
		SalesPartiallySettled: plan.SalesPartiallySettled,
	}
}
