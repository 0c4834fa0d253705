package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	receivableapp "github.com/erp/receivables/internal/application/receivable"
	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// MockPaymentReceiveRepository implements receivable.PaymentReceiveRepository for testing
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receivable.PaymentReceive), args.Error(1)
}

func (m *MockPaymentReceiveRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status receivable.WorkflowStatus, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockSaleRepository implements receivable.SaleRepository for testing
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.SaleFilter) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindOutstanding(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receivable.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllOutstanding(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID) ([]receivable.Sale, error) {
	args := m.Called(ctx, tenantID, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// Ensure mocks implement the interfaces
var (
	_ receivable.PaymentReceiveRepository = (*MockPaymentReceiveRepository)(nil)
	_ receivable.SaleRepository           = (*MockSaleRepository)(nil)
)

// Test helpers

func setupPaymentTestRouter() (*gin.Engine, *MockPaymentReceiveRepository, *MockSaleRepository, *PaymentHandler) {
	gin.SetMode(gin.TestMode)

	mockPaymentRepo := new(MockPaymentReceiveRepository)
	mockSaleRepo := new(MockSaleRepository)
	service := receivableapp.NewPaymentService(mockPaymentRepo, mockSaleRepo)
	handler := NewPaymentHandler(service)

	engine := gin.New()
	api := engine.Group("")
	handler.RegisterRoutes(api)

	return engine, mockPaymentRepo, mockSaleRepo, handler
}

func createHandlerTestPayment(tenantID uuid.UUID, amount float64) *receivable.PaymentReceive {
	payment, err := receivable.NewPaymentReceive(
		tenantID,
		"PAY-20260830-00001",
		uuid.New(),
		"Acme Corp",
		valueobject.NewMoneyUSDFromFloat(amount),
		receivable.PaymentMethodBankTransfer,
		time.Now(),
		"TXN-9001",
		false,
	)
	if err != nil {
		panic(err)
	}
	payment.ClearDomainEvents()
	return payment
}

func createHandlerTestSale(tenantID, customerID uuid.UUID, saleNumber string, amount float64) *receivable.Sale {
	saleDate := time.Now().AddDate(0, 0, -30)
	dueDate := time.Now().AddDate(0, 0, -5)
	sale, err := receivable.NewSale(tenantID, saleNumber, customerID, "Acme Corp", saleDate, &dueDate, valueobject.NewMoneyUSDFromFloat(amount))
	if err != nil {
		panic(err)
	}
	sale.ClearDomainEvents()
	return sale
}

// Tests

func TestPaymentHandler_CreatePayment(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should create payment successfully", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		mockPaymentRepo.On("GeneratePaymentNumber", mock.Anything, tenantID).
			Return("PAY-20260830-00001", nil)
		mockPaymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*receivable.PaymentReceive")).
			Return(nil)

		reqBody := CreatePaymentRequest{
			CustomerID:       uuid.New().String(),
			CustomerName:     "Acme Corp",
			TotalAmount:      500.00,
			PaymentMethod:    "BANK_TRANSFER",
			PaymentReference: "TXN-9001",
			PaymentDate:      "2026-08-30",
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "PAY-20260830-00001", data["payment_number"])
		assert.Equal(t, "DRAFT", data["workflow_status"])

		mockPaymentRepo.AssertExpectations(t)
	})

	t.Run("should reject unsupported payment method", func(t *testing.T) {
		engine, _, _, _ := setupPaymentTestRouter()

		reqBody := map[string]interface{}{
			"customer_id":    uuid.New().String(),
			"customer_name":  "Acme Corp",
			"total_amount":   500.00,
			"payment_method": "BARTER",
			"payment_date":   "2026-08-30",
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		engine, _, _, _ := setupPaymentTestRouter()

		reqBody := map[string]interface{}{
			"customer_id":    uuid.New().String(),
			"customer_name":  "Acme Corp",
			"total_amount":   -10.00,
			"payment_method": "CASH",
			"payment_date":   "2026-08-30",
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should get payment by ID", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 500.00)

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)

		req, _ := http.NewRequest(http.MethodGet, "/payments/"+payment.ID.String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockPaymentRepo.AssertExpectations(t)
	})

	t.Run("should return 404 for missing payment", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		paymentID := uuid.New()
		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, paymentID).
			Return(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/payments/"+paymentID.String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockPaymentRepo.AssertExpectations(t)
	})

	t.Run("should return 400 for invalid ID", func(t *testing.T) {
		engine, _, _, _ := setupPaymentTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/payments/not-a-uuid", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_SubmitPayment(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should submit draft payment", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 500.00)

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)
		mockPaymentRepo.On("SaveWithLock", mock.Anything, payment).
			Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+payment.ID.String()+"/submit", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "PENDING_VERIFICATION", data["workflow_status"])

		mockPaymentRepo.AssertExpectations(t)
	})

	t.Run("should return 422 for invalid transition", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 500.00)
		assert.NoError(t, payment.Submit(uuid.Nil))

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+payment.ID.String()+"/submit", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockPaymentRepo.AssertExpectations(t)
	})
}

func TestPaymentHandler_VerifyPayment(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should reject notes shorter than minimum", func(t *testing.T) {
		engine, _, _, _ := setupPaymentTestRouter()

		reqBody := VerifyPaymentRequest{
			DocumentVerified: true,
			AmountVerified:   true,
			CustomerVerified: true,
			Notes:            "too short",
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+uuid.New().String()+"/verify", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should return 422 when checks are incomplete", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 500.00)
		assert.NoError(t, payment.Submit(uuid.Nil))

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)

		reqBody := VerifyPaymentRequest{
			DocumentVerified: true,
			Notes:            "Amount does not match the bank statement",
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+payment.ID.String()+"/verify", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockPaymentRepo.AssertExpectations(t)
	})
}

func TestPaymentHandler_Allocate(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should allocate manually against a sale", func(t *testing.T) {
		engine, mockPaymentRepo, mockSaleRepo, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 300.00)
		sale := createHandlerTestSale(tenantID, payment.CustomerID, "SALE-20260801-00001", 500.00)

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)
		mockSaleRepo.On("FindOutstanding", mock.Anything, tenantID, payment.CustomerID).
			Return([]receivable.Sale{*sale}, nil)
		mockPaymentRepo.On("SaveWithLock", mock.Anything, payment).
			Return(nil)

		reqBody := AllocateRequest{
			Strategy: "MANUAL",
			Allocations: []AllocationItemRequest{
				{SaleID: sale.ID.String(), Amount: 300.00},
			},
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+payment.ID.String()+"/allocations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, payment.Allocations, 1)

		mockPaymentRepo.AssertExpectations(t)
		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("should preview without persisting", func(t *testing.T) {
		engine, mockPaymentRepo, mockSaleRepo, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 300.00)
		sale := createHandlerTestSale(tenantID, payment.CustomerID, "SALE-20260801-00002", 500.00)

		mockPaymentRepo.On("FindByIDForTenant", mock.Anything, tenantID, payment.ID).
			Return(payment, nil)
		mockSaleRepo.On("FindOutstanding", mock.Anything, tenantID, payment.CustomerID).
			Return([]receivable.Sale{*sale}, nil)

		reqBody := AllocateRequest{Strategy: "OVERDUE_FIRST"}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+payment.ID.String()+"/allocations/preview", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, payment.Allocations)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, true, data["fully_allocated"])

		mockPaymentRepo.AssertExpectations(t)
		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("should reject malformed sale ID", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		reqBody := map[string]interface{}{
			"strategy": "MANUAL",
			"allocations": []map[string]interface{}{
				{"sale_id": "not-a-uuid", "amount": 100.00},
			},
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/payments/"+uuid.New().String()+"/allocations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockPaymentRepo.AssertExpectations(t)
	})
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should list payments with pagination meta", func(t *testing.T) {
		engine, mockPaymentRepo, _, _ := setupPaymentTestRouter()

		payment := createHandlerTestPayment(tenantID, 500.00)

		mockPaymentRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("receivable.PaymentReceiveFilter")).
			Return([]receivable.PaymentReceive{*payment}, nil)
		mockPaymentRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("receivable.PaymentReceiveFilter")).
			Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/payments?page=1&page_size=20", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["total"])

		mockPaymentRepo.AssertExpectations(t)
	})

	t.Run("should reject unknown status filter", func(t *testing.T) {
		engine, _, _, _ := setupPaymentTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/payments?status=SHIPPED", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
