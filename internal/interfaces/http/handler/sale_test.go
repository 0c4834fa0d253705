package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	receivableapp "github.com/erp/receivables/internal/application/receivable"
	"github.com/erp/receivables/internal/domain/receivable"
)

func setupSaleTestRouter() (*gin.Engine, *MockSaleRepository) {
	gin.SetMode(gin.TestMode)

	mockSaleRepo := new(MockSaleRepository)
	service := receivableapp.NewSaleService(mockSaleRepo)
	handler := NewSaleHandler(service)

	engine := gin.New()
	api := engine.Group("")
	handler.RegisterRoutes(api)

	return engine, mockSaleRepo
}

func TestSaleHandler_CreateSale(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should create sale successfully", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		mockSaleRepo.On("GenerateSaleNumber", mock.Anything, tenantID).
			Return("SAL-20260830-00001", nil)
		mockSaleRepo.On("Save", mock.Anything, mock.AnythingOfType("*receivable.Sale")).
			Return(nil)

		reqBody := CreateSaleRequest{
			CustomerID:   uuid.New().String(),
			CustomerName: "Acme Corp",
			SaleDate:     time.Now().Format(dateLayout),
			DueDate:      time.Now().AddDate(0, 0, 30).Format(dateLayout),
			TotalAmount:  1200.00,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/sales", bytes.NewBuffer(body))
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
		assert.Equal(t, "SAL-20260830-00001", data["sale_number"])
		assert.Equal(t, "OUTSTANDING", data["status"])
		assert.Equal(t, "CURRENT", data["aging_bucket"])

		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		engine, _ := setupSaleTestRouter()

		reqBody := map[string]interface{}{
			"customer_id":   uuid.New().String(),
			"customer_name": "Acme Corp",
			"sale_date":     "2026-08-30",
			"total_amount":  0,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/sales", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject malformed sale date", func(t *testing.T) {
		engine, _ := setupSaleTestRouter()

		reqBody := map[string]interface{}{
			"customer_id":   uuid.New().String(),
			"customer_name": "Acme Corp",
			"sale_date":     "30/08/2026",
			"total_amount":  100.00,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/sales", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaleHandler_GetSale(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should get sale by ID", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00001", 1200.00)

		mockSaleRepo.On("FindByIDForTenant", mock.Anything, tenantID, sale.ID).
			Return(sale, nil)

		req, _ := http.NewRequest(http.MethodGet, "/sales/"+sale.ID.String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "SAL-20260830-00001", data["sale_number"])
	})

	t.Run("should return 404 when sale does not exist", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		mockSaleRepo.On("FindByIDForTenant", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID")).
			Return(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/sales/"+uuid.New().String(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return 400 for malformed ID", func(t *testing.T) {
		engine, _ := setupSaleTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/sales/not-a-uuid", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaleHandler_GetSaleByNumber(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	engine, mockSaleRepo := setupSaleTestRouter()

	sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00042", 750.00)

	mockSaleRepo.On("FindBySaleNumber", mock.Anything, tenantID, "SAL-20260830-00042").
		Return(sale, nil)

	req, _ := http.NewRequest(http.MethodGet, "/sales/number/SAL-20260830-00042", nil)
	req.Header.Set("X-Tenant-ID", tenantID.String())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, sale.ID.String(), data["id"])
}

func TestSaleHandler_ListSales(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should list sales with pagination meta", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00001", 1200.00)

		mockSaleRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("receivable.SaleFilter")).
			Return([]receivable.Sale{*sale}, nil)
		mockSaleRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("receivable.SaleFilter")).
			Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/sales?page=1&page_size=20", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["total"])
	})

	t.Run("should reject unknown status filter", func(t *testing.T) {
		engine, _ := setupSaleTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/sales?status=SHIPPED", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaleHandler_UpdateDueDate(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should update due date", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00001", 1200.00)

		mockSaleRepo.On("FindByIDForTenant", mock.Anything, tenantID, sale.ID).
			Return(sale, nil)
		mockSaleRepo.On("SaveWithLock", mock.Anything, sale).
			Return(nil)

		newDue := time.Now().AddDate(0, 1, 0).Format(dateLayout)
		body, _ := json.Marshal(UpdateDueDateRequest{DueDate: newDue})

		req, _ := http.NewRequest(http.MethodPut, "/sales/"+sale.ID.String()+"/due-date", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("should reject due date before sale date", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00001", 1200.00)

		mockSaleRepo.On("FindByIDForTenant", mock.Anything, tenantID, sale.ID).
			Return(sale, nil)

		early := sale.SaleDate.AddDate(0, 0, -10).Format(dateLayout)
		body, _ := json.Marshal(UpdateDueDateRequest{DueDate: early})

		req, _ := http.NewRequest(http.MethodPut, "/sales/"+sale.ID.String()+"/due-date", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaleHandler_CancelSale(t *testing.T) {
	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	t.Run("should cancel sale", func(t *testing.T) {
		engine, mockSaleRepo := setupSaleTestRouter()

		sale := createHandlerTestSale(tenantID, uuid.New(), "SAL-20260830-00001", 1200.00)

		mockSaleRepo.On("FindByIDForTenant", mock.Anything, tenantID, sale.ID).
			Return(sale, nil)
		mockSaleRepo.On("SaveWithLock", mock.Anything, sale).
			Return(nil)

		body, _ := json.Marshal(CancelSaleRequest{Reason: "Duplicate entry"})

		req, _ := http.NewRequest(http.MethodPost, "/sales/"+sale.ID.String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "CANCELLED", data["status"])
	})

	t.Run("should require a reason", func(t *testing.T) {
		engine, _ := setupSaleTestRouter()

		body, _ := json.Marshal(map[string]interface{}{})

		req, _ := http.NewRequest(http.MethodPost, "/sales/"+uuid.New().String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID.String())

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
