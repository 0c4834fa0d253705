package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSaleRepository is a mock implementation of receivable.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*receivable.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivable.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*receivable.Sale, error) {
	args := m.Called(ctx, tenantID, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.SaleFilter) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.SaleFilter) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindOutstanding(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllOutstanding(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerIDs)
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *receivable.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *receivable.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.SaleFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) SumOutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSaleRepository) SumOutstandingForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSaleRepository) ExistsBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, saleNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockPaymentReceiveRepository is a mock implementation of receivable.PaymentReceiveRepository
type MockPaymentReceiveRepository struct {
	mock.Mock
}

func (m *MockPaymentReceiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*receivable.PaymentReceive, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (*receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, paymentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	return args.Get(0).([]receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status receivable.WorkflowStatus, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) Save(ctx context.Context, payment *receivable.PaymentReceive) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentReceiveRepository) SaveWithLock(ctx context.Context, payment *receivable.PaymentReceive) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentReceiveRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPaymentReceiveRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.PaymentReceiveFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentReceiveRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status receivable.WorkflowStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentReceiveRepository) SumCompletedByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentReceiveRepository) ExistsByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, paymentNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentReceiveRepository) GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// =============================================================================
// Mock Cache and Publisher
// =============================================================================

// MockReportCache is a mock implementation of receivable.ReportCache
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*receivable.AgingReport, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivable.AgingReport), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, tenantID uuid.UUID, report *receivable.AgingReport, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, report, ttl)
	return args.Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockReportCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventPublisher records published domain events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeTransactionManager hands fn a dedicated pair of repositories and
// counts the units of work it ran, standing in for a database transaction
type fakeTransactionManager struct {
	sales    receivable.SaleRepository
	payments receivable.PaymentReceiveRepository
	calls    int
}

func (f *fakeTransactionManager) InTransaction(ctx context.Context, fn func(sales receivable.SaleRepository, payments receivable.PaymentReceiveRepository) error) error {
	f.calls++
	return fn(f.sales, f.payments)
}

// Interface compliance checks
var (
	_ receivable.SaleRepository           = (*MockSaleRepository)(nil)
	_ receivable.PaymentReceiveRepository = (*MockPaymentReceiveRepository)(nil)
	_ receivable.ReportCache              = (*MockReportCache)(nil)
	_ shared.EventPublisher               = (*MockEventPublisher)(nil)
	_ receivable.TransactionManager       = (*fakeTransactionManager)(nil)
)
