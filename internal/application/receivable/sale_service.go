// Package receivable provides application-level operations for the
// accounts receivable workflow: sales, payment receives and aging reports.
package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// SaleService provides application-level sale operations
type SaleService struct {
	saleRepo  receivable.SaleRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// SaleServiceOption is a functional option for configuring SaleService
type SaleServiceOption func(*SaleService)

// WithSaleEventPublisher sets the event publisher
func WithSaleEventPublisher(publisher shared.EventPublisher) SaleServiceOption {
	return func(s *SaleService) {
		s.publisher = publisher
	}
}

// WithSaleLogger sets the logger
func WithSaleLogger(logger *zap.Logger) SaleServiceOption {
	return func(s *SaleService) {
		s.logger = logger
	}
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo receivable.SaleRepository, opts ...SaleServiceOption) *SaleService {
	s := &SaleService{
		saleRepo: saleRepo,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerName      string          `json:"customer_name"`
	SaleDate          time.Time       `json:"sale_date"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Status            string          `json:"status"`
	DaysOverdue       int             `json:"days_overdue"`
	AgingBucket       string          `json:"aging_bucket"`
	Remark            string          `json:"remark,omitempty"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	SaleDate     time.Time       `json:"sale_date"`
	DueDate      *time.Time      `json:"due_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Remark       string          `json:"remark"`
	CreatedBy    *uuid.UUID      `json:"-"` // Set from auth context, not from request body
}

// SaleListFilter defines filtering options for sale list queries
type SaleListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status"`
	FromDate   *time.Time `form:"from_date"`
	ToDate     *time.Time `form:"to_date"`
	Overdue    *bool      `form:"overdue"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// CreateSale creates a new sale with the full amount outstanding
func (s *SaleService) CreateSale(ctx context.Context, tenantID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	saleNumber, err := s.saleRepo.GenerateSaleNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	amount := valueobject.NewMoneyUSD(req.TotalAmount)

	sale, err := receivable.NewSale(
		tenantID,
		saleNumber,
		req.CustomerID,
		req.CustomerName,
		req.SaleDate,
		req.DueDate,
		amount,
	)
	if err != nil {
		return nil, err
	}

	if req.Remark != "" {
		sale.SetRemark(req.Remark)
	}
	if req.CreatedBy != nil {
		sale.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)
	return toSaleResponse(sale), nil
}

// GetSaleByID gets a sale by ID
func (s *SaleService) GetSaleByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return toSaleResponse(sale), nil
}

// GetSaleByNumber gets a sale by its sale number
func (s *SaleService) GetSaleByNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindBySaleNumber(ctx, tenantID, saleNumber)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return toSaleResponse(sale), nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := receivable.SaleFilter{
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Overdue:    filter.Overdue,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := receivable.SaleStatus(filter.Status)
		domainFilter.Status = &status
	}

	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = *toSaleResponse(&sales[i])
	}

	return responses, total, nil
}

// UpdateSaleDueDate updates the expected payment date of a sale
func (s *SaleService) UpdateSaleDueDate(ctx context.Context, tenantID, id uuid.UUID, dueDate *time.Time) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.SetDueDate(dueDate); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)
	return toSaleResponse(sale), nil
}

// CancelSale voids a sale that has not received any allocation
func (s *SaleService) CancelSale(ctx context.Context, tenantID, id uuid.UUID, reason string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)
	return toSaleResponse(sale), nil
}

func (s *SaleService) publishEvents(ctx context.Context, sale *receivable.Sale) {
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

func toSaleResponse(sale *receivable.Sale) *SaleResponse {
	now := time.Now()
	return &SaleResponse{
		ID:                sale.ID,
		TenantID:          sale.TenantID,
		SaleNumber:        sale.SaleNumber,
		CustomerID:        sale.CustomerID,
		CustomerName:      sale.CustomerName,
		SaleDate:          sale.SaleDate,
		DueDate:           sale.DueDate,
		TotalAmount:       sale.TotalAmount,
		AllocatedAmount:   sale.AllocatedAmount,
		OutstandingAmount: sale.OutstandingAmount,
		Status:            string(sale.Status),
		DaysOverdue:       sale.DaysOverdue(now),
		AgingBucket:       string(sale.AgingBucket(now)),
		Remark:            sale.Remark,
		SettledAt:         sale.SettledAt,
		CancelledAt:       sale.CancelledAt,
		CancelReason:      sale.CancelReason,
		CreatedAt:         sale.CreatedAt,
		UpdatedAt:         sale.UpdatedAt,
		Version:           sale.Version,
	}
}
