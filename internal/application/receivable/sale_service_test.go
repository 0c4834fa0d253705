package receivable

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

func TestSaleService_CreateSale_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("GenerateSaleNumber", ctx, tenantID).Return("SAL-20260830-00001", nil)
	saleRepo.On("Save", ctx, mock.AnythingOfType("*receivable.Sale")).Return(nil)

	dueDate := time.Now().AddDate(0, 1, 0)
	result, err := service.CreateSale(ctx, tenantID, CreateSaleRequest{
		CustomerID:   customerID,
		CustomerName: "Acme Corp",
		SaleDate:     time.Now(),
		DueDate:      &dueDate,
		TotalAmount:  decimal.NewFromFloat(1500.00),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "SAL-20260830-00001", result.SaleNumber)
	assert.Equal(t, "OUTSTANDING", result.Status)
	assert.Equal(t, decimal.NewFromFloat(1500.00).String(), result.OutstandingAmount.String())
	assert.True(t, result.AllocatedAmount.IsZero())
	assert.Equal(t, "CURRENT", result.AgingBucket)

	saleRepo.AssertExpectations(t)
}

func TestSaleService_CreateSale_DueDateBeforeSaleDate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("GenerateSaleNumber", ctx, tenantID).Return("SAL-20260830-00002", nil)

	dueDate := time.Now().AddDate(0, 0, -10)
	result, err := service.CreateSale(ctx, tenantID, CreateSaleRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Corp",
		SaleDate:     time.Now(),
		DueDate:      &dueDate,
		TotalAmount:  decimal.NewFromFloat(100.00),
	})

	assert.Error(t, err)
	assert.Nil(t, result)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DUE_DATE", domainErr.Code)
}

func TestSaleService_GetSaleByID_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	saleID := uuid.New()

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("FindByIDForTenant", ctx, tenantID, saleID).Return(nil, nil)

	result, err := service.GetSaleByID(ctx, tenantID, saleID)

	assert.Error(t, err)
	assert.Nil(t, result)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSaleService_GetSaleByID_ReportsAging(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sale := createTestSale(t, tenantID, uuid.New(), "SAL-20260830-00003", 800, 75)

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)

	result, err := service.GetSaleByID(ctx, tenantID, sale.ID)

	assert.NoError(t, err)
	assert.Equal(t, 75, result.DaysOverdue)
	assert.Equal(t, "DAYS_61_90", result.AgingBucket)
}

func TestSaleService_ListSales_MapsFilter(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()
	sale := createTestSale(t, tenantID, customerID, "SAL-20260830-00004", 200, 0)

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f receivable.SaleFilter) bool {
		return f.CustomerID != nil && *f.CustomerID == customerID &&
			f.Status != nil && *f.Status == receivable.SaleStatusOutstanding &&
			f.Page == 2 && f.PageSize == 25
	})).Return([]receivable.Sale{*sale}, nil)
	saleRepo.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(51), nil)

	results, total, err := service.ListSales(ctx, tenantID, SaleListFilter{
		CustomerID: &customerID,
		Status:     "OUTSTANDING",
		Page:       2,
		PageSize:   25,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(51), total)
	require.Len(t, results, 1)
	assert.Equal(t, "SAL-20260830-00004", results[0].SaleNumber)

	saleRepo.AssertExpectations(t)
}

func TestSaleService_CancelSale_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sale := createTestSale(t, tenantID, uuid.New(), "SAL-20260830-00005", 300, 0)

	saleRepo := new(MockSaleRepository)
	publisher := new(MockEventPublisher)
	service := NewSaleService(saleRepo, WithSaleEventPublisher(publisher))

	saleRepo.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
	saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == receivable.EventTypeSaleCancelled
	})).Return(nil)

	result, err := service.CancelSale(ctx, tenantID, sale.ID, "Order returned")

	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.True(t, result.OutstandingAmount.IsZero())
	assert.Equal(t, "Order returned", result.CancelReason)

	publisher.AssertExpectations(t)
}

func TestSaleService_CancelSale_RejectedAfterAllocation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sale := createTestSale(t, tenantID, uuid.New(), "SAL-20260830-00006", 300, 0)
	require.NoError(t, sale.ApplyAllocation(valueobject.NewMoneyUSDFromFloat(100), uuid.New()))

	saleRepo := new(MockSaleRepository)
	service := NewSaleService(saleRepo)

	saleRepo.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)

	result, err := service.CancelSale(ctx, tenantID, sale.ID, "Order returned")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSaleService_UpdateSaleDueDate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sale := createTestSale(t, tenantID, uuid.New(), "SAL-20260830-00007", 300, 0)

	saleRepo := new(MockSaleRepository)
	publisher := new(MockEventPublisher)
	service := NewSaleService(saleRepo, WithSaleEventPublisher(publisher))

	saleRepo.On("FindByIDForTenant", ctx, tenantID, sale.ID).Return(sale, nil)
	saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == receivable.EventTypeSaleDueDateChanged
	})).Return(nil)

	newDue := time.Now().AddDate(0, 2, 0)
	result, err := service.UpdateSaleDueDate(ctx, tenantID, sale.ID, &newDue)

	assert.NoError(t, err)
	require.NotNil(t, result.DueDate)
	assert.True(t, result.DueDate.Equal(newDue))
	publisher.AssertExpectations(t)
}
