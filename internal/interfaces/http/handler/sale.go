package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	receivableapp "github.com/erp/receivables/internal/application/receivable"
)

// dateLayout is the date-only format accepted in requests and filters
const dateLayout = "2006-01-02"

// SaleHandler handles sale-related API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *receivableapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *receivableapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.GET("", h.ListSales)
		sales.GET("number/:sale_number", h.GetSaleByNumber)
		sales.GET(":id", h.GetSale)
		sales.POST("", h.CreateSale)
		sales.PUT(":id/due-date", h.UpdateDueDate)
		sales.POST(":id/cancel", h.CancelSale)
	}
}

// ===================== Request DTOs =====================

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CustomerID   string  `json:"customer_id" binding:"required,uuid"`
	CustomerName string  `json:"customer_name" binding:"required,max=200"`
	SaleDate     string  `json:"sale_date" binding:"required"`
	DueDate      string  `json:"due_date"`
	TotalAmount  float64 `json:"total_amount" binding:"required,gt=0"`
	Remark       string  `json:"remark" binding:"max=500"`
}

// UpdateDueDateRequest represents a request to change the expected payment date
type UpdateDueDateRequest struct {
	DueDate string `json:"due_date"` // Empty clears the due date
}

// CancelSaleRequest represents a request to cancel a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SaleListQuery represents filter parameters for the sale list
type SaleListQuery struct {
	Search     string `form:"search"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=OUTSTANDING PARTIAL SETTLED CANCELLED"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Overdue    *bool  `form:"overdue"`
	Page       int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// ===================== Handlers =====================

// ListSales godoc
//
//	@Summary		List sales
//	@Description	Get a paginated list of sales with aging information
//	@Tags			sales
//	@Produce		json
//	@Param			search		query		string	false	"Search by sale number or customer name"
//	@Param			customer_id	query		string	false	"Filter by customer"
//	@Param			status		query		string	false	"Filter by status"	Enums(OUTSTANDING, PARTIAL, SETTLED, CANCELLED)
//	@Param			from_date	query		string	false	"Filter from sale date (YYYY-MM-DD)"
//	@Param			to_date		query		string	false	"Filter to sale date (YYYY-MM-DD)"
//	@Param			overdue		query		bool	false	"Only overdue sales"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Router			/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var query SaleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	filter := receivableapp.SaleListFilter{
		Search:   query.Search,
		Status:   query.Status,
		Overdue:  query.Overdue,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.CustomerID != "" {
		id, err := uuid.Parse(query.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		filter.CustomerID = &id
	}
	if query.FromDate != "" {
		from, err := time.Parse(dateLayout, query.FromDate)
		if err != nil {
			h.BadRequest(c, "Invalid from_date, expected YYYY-MM-DD")
			return
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := time.Parse(dateLayout, query.ToDate)
		if err != nil {
			h.BadRequest(c, "Invalid to_date, expected YYYY-MM-DD")
			return
		}
		filter.ToDate = &to
	}

	sales, total, err := h.saleService.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, query.Page, query.PageSize)
}

// GetSale godoc
//
//	@Summary	Get a sale
//	@Tags		sales
//	@Produce	json
//	@Param		id	path	string	true	"Sale ID"
//	@Router		/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetSaleByNumber godoc
//
//	@Summary	Get a sale by sale number
//	@Tags		sales
//	@Produce	json
//	@Param		sale_number	path	string	true	"Sale number"
//	@Router		/sales/number/{sale_number} [get]
func (h *SaleHandler) GetSaleByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	saleNumber := c.Param("sale_number")
	if saleNumber == "" {
		h.BadRequest(c, "Sale number is required")
		return
	}

	sale, err := h.saleService.GetSaleByNumber(c.Request.Context(), tenantID, saleNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// CreateSale godoc
//
//	@Summary		Create a sale
//	@Description	Record a sale whose full amount becomes outstanding
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Router			/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	saleDate, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		h.BadRequest(c, "Invalid sale_date, expected YYYY-MM-DD")
		return
	}

	appReq := receivableapp.CreateSaleRequest{
		CustomerID:   customerID,
		CustomerName: req.CustomerName,
		SaleDate:     saleDate,
		TotalAmount:  decimal.NewFromFloat(req.TotalAmount),
		Remark:       req.Remark,
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			h.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
			return
		}
		appReq.DueDate = &dueDate
	}
	if userID := getUserID(c); userID != uuid.Nil {
		appReq.CreatedBy = &userID
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// UpdateDueDate godoc
//
//	@Summary	Update a sale's expected payment date
//	@Tags		sales
//	@Accept		json
//	@Produce	json
//	@Param		id	path	string	true	"Sale ID"
//	@Router		/sales/{id}/due-date [put]
func (h *SaleHandler) UpdateDueDate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req UpdateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			h.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	sale, err := h.saleService.UpdateSaleDueDate(c.Request.Context(), tenantID, id, dueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// CancelSale godoc
//
//	@Summary		Cancel a sale
//	@Description	Void a sale that has not received any payment allocation
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Sale ID"
//	@Router			/sales/{id}/cancel [post]
func (h *SaleHandler) CancelSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}
