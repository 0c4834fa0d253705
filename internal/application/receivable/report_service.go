package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
)

// ReportService builds outstanding ledger views and aging reports
type ReportService struct {
	saleRepo    receivable.SaleRepository
	paymentRepo receivable.PaymentReceiveRepository
	cache       receivable.ReportCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// ReportServiceOption is a functional option for configuring ReportService
type ReportServiceOption func(*ReportService)

// WithReportCache sets the cache for generated aging reports
func WithReportCache(cache receivable.ReportCache, ttl time.Duration) ReportServiceOption {
	return func(s *ReportService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithReportLogger sets the logger
func WithReportLogger(logger *zap.Logger) ReportServiceOption {
	return func(s *ReportService) {
		s.logger = logger
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	saleRepo receivable.SaleRepository,
	paymentRepo receivable.PaymentReceiveRepository,
	opts ...ReportServiceOption,
) *ReportService {
	s := &ReportService{
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OutstandingLedgerResponse is the outstanding ledger view: every open sale
// with its current balance and aging classification, plus the grand total
type OutstandingLedgerResponse struct {
	AsOf             time.Time                    `json:"as_of"`
	Lines            []receivable.OutstandingLine `json:"lines"`
	TotalOutstanding decimal.Decimal              `json:"total_outstanding"`
	LineCount        int                          `json:"line_count"`
}

// ReceivableSummaryResponse is a dashboard-style rollup for a tenant
type ReceivableSummaryResponse struct {
	TotalOutstanding    decimal.Decimal `json:"total_outstanding"`
	OutstandingSales    int64           `json:"outstanding_sales"`
	PendingVerification int64           `json:"pending_verification"`
	PendingApproval     int64           `json:"pending_approval"`
	CompletedPayments   int64           `json:"completed_payments"`
}

// CustomerBalanceResponse summarizes one customer's receivable position
type CustomerBalanceResponse struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
}

// GetOutstandingLedger builds the outstanding ledger for a tenant, optionally
// restricted to a set of customers. A zero asOf means now; a past asOf
// reclassifies aging buckets against that date, but balances are always
// current since allocations are not versioned.
func (s *ReportService) GetOutstandingLedger(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, asOf time.Time) (*OutstandingLedgerResponse, error) {
	sales, err := s.saleRepo.FindAllOutstanding(ctx, tenantID, customerIDs)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	lines := receivable.BuildOutstandingLines(sales, asOf)

	return &OutstandingLedgerResponse{
		AsOf:             asOf,
		Lines:            lines,
		TotalOutstanding: receivable.TotalOutstanding(lines),
		LineCount:        len(lines),
	}, nil
}

// GetAgingReport builds the tenant-wide aging report as of now. Reports are
// cached per tenant and day; completed or reversed payments invalidate the
// cache, so a hit is at most marginally stale.
func (s *ReportService) GetAgingReport(ctx context.Context, tenantID uuid.UUID) (*receivable.AgingReport, error) {
	asOf := time.Now()

	if s.cache != nil {
		report, err := s.cache.Get(ctx, tenantID, asOf)
		if err != nil {
			s.logger.Warn("aging report cache read failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		} else if report != nil {
			return report, nil
		}
	}

	sales, err := s.saleRepo.FindAllOutstanding(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}

	lines := receivable.BuildOutstandingLines(sales, asOf)
	report := receivable.BuildAgingReport(lines, asOf)

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, report, s.cacheTTL); err != nil {
			s.logger.Warn("aging report cache write failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return report, nil
}

// GetReceivableSummary returns headline receivable figures for a tenant
func (s *ReportService) GetReceivableSummary(ctx context.Context, tenantID uuid.UUID) (*ReceivableSummaryResponse, error) {
	totalOutstanding, err := s.saleRepo.SumOutstandingForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	outstanding := receivable.SaleStatusOutstanding
	outstandingCount, err := s.saleRepo.CountForTenant(ctx, tenantID, receivable.SaleFilter{Status: &outstanding})
	if err != nil {
		return nil, err
	}
	partial := receivable.SaleStatusPartial
	partialCount, err := s.saleRepo.CountForTenant(ctx, tenantID, receivable.SaleFilter{Status: &partial})
	if err != nil {
		return nil, err
	}

	pendingVerification, err := s.paymentRepo.CountByStatus(ctx, tenantID, receivable.WorkflowStatusPendingVerification)
	if err != nil {
		return nil, err
	}
	pendingApproval, err := s.paymentRepo.CountByStatus(ctx, tenantID, receivable.WorkflowStatusPendingApproval)
	if err != nil {
		return nil, err
	}
	completed, err := s.paymentRepo.CountByStatus(ctx, tenantID, receivable.WorkflowStatusCompleted)
	if err != nil {
		return nil, err
	}

	return &ReceivableSummaryResponse{
		TotalOutstanding:    totalOutstanding,
		OutstandingSales:    outstandingCount + partialCount,
		PendingVerification: pendingVerification,
		PendingApproval:     pendingApproval,
		CompletedPayments:   completed,
	}, nil
}

// GetCustomerBalance returns one customer's outstanding and paid totals
func (s *ReportService) GetCustomerBalance(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerBalanceResponse, error) {
	outstanding, err := s.saleRepo.SumOutstandingByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.SumCompletedByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	return &CustomerBalanceResponse{
		CustomerID:       customerID,
		TotalOutstanding: outstanding,
		TotalPaid:        paid,
	}, nil
}
