package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	receivableapp "github.com/erp/receivables/internal/application/receivable"
	"github.com/erp/receivables/internal/domain/receivable"
)

// PaymentHandler handles payment receive API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *receivableapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *receivableapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.GET("number/:payment_number", h.GetPaymentByNumber)
		payments.GET(":id", h.GetPayment)
		payments.POST("", h.CreatePayment)
		payments.POST(":id/submit", h.SubmitPayment)
		payments.POST(":id/verify", h.VerifyPayment)
		payments.POST(":id/approve", h.ApprovePayment)
		payments.POST(":id/reject", h.RejectPayment)
		payments.POST(":id/cancel", h.CancelPayment)
		payments.POST(":id/complete", h.CompletePayment)
		payments.POST(":id/allocations", h.Allocate)
		payments.DELETE(":id/allocations", h.ClearAllocations)
		payments.POST(":id/allocations/preview", h.PreviewAllocation)
	}
}

// ===================== Request DTOs =====================

// CreatePaymentRequest represents a request to record a customer payment
type CreatePaymentRequest struct {
	CustomerID       string  `json:"customer_id" binding:"required,uuid"`
	CustomerName     string  `json:"customer_name" binding:"required,max=200"`
	TotalAmount      float64 `json:"total_amount" binding:"required,gt=0"`
	PaymentMethod    string  `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER CREDIT_CARD CHECK OTHER"`
	PaymentReference string  `json:"payment_reference" binding:"max=100"`
	PaymentDate      string  `json:"payment_date" binding:"required"`
	Remark           string  `json:"remark" binding:"max=500"`
}

// VerifyPaymentRequest carries the verification checklist
type VerifyPaymentRequest struct {
	DocumentVerified      bool   `json:"document_verified"`
	AmountVerified        bool   `json:"amount_verified"`
	CustomerVerified      bool   `json:"customer_verified"`
	PaymentMethodVerified bool   `json:"payment_method_verified"`
	ReferenceVerified     bool   `json:"reference_verified"`
	Notes                 string `json:"notes" binding:"required,min=10,max=1000"`
}

// RejectPaymentRequest represents a request to reject a payment
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelPaymentRequest represents a request to cancel a payment
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AllocationItemRequest is one caller-specified allocation line
type AllocationItemRequest struct {
	SaleID string  `json:"sale_id" binding:"required,uuid"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// AllocateRequest configures how a payment is distributed across sales
type AllocateRequest struct {
	Strategy        string                  `json:"strategy" binding:"omitempty,oneof=OVERDUE_FIRST OLDEST_FIRST HIGHEST_FIRST MANUAL"`
	Allocations     []AllocationItemRequest `json:"allocations" binding:"omitempty,dive"`
	SelectedSaleIDs []string                `json:"selected_sale_ids" binding:"omitempty,dive,uuid"`
}

// PaymentListQuery represents filter parameters for the payment list
type PaymentListQuery struct {
	Search        string `form:"search"`
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT PENDING_VERIFICATION VERIFIED PENDING_APPROVAL APPROVED COMPLETED REJECTED CANCELLED"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER CREDIT_CARD CHECK OTHER"`
	FromDate      string `form:"from_date"`
	ToDate        string `form:"to_date"`
	Page          int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// ===================== Handlers =====================

// ListPayments godoc
//
//	@Summary		List payments
//	@Description	Get a paginated list of payment receives
//	@Tags			payments
//	@Produce		json
//	@Param			search			query	string	false	"Search by payment number, customer or reference"
//	@Param			customer_id		query	string	false	"Filter by customer"
//	@Param			status			query	string	false	"Filter by workflow status"
//	@Param			payment_method	query	string	false	"Filter by payment method"
//	@Param			page			query	int		false	"Page number"	default(1)
//	@Param			page_size		query	int		false	"Page size"		default(20)
//	@Router			/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var query PaymentListQuery
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

	filter := receivableapp.PaymentListFilter{
		Search:        query.Search,
		Status:        query.Status,
		PaymentMethod: query.PaymentMethod,
		Page:          query.Page,
		PageSize:      query.PageSize,
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

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, query.Page, query.PageSize)
}

// GetPayment godoc
//
//	@Summary	Get a payment
//	@Tags		payments
//	@Produce	json
//	@Param		id	path	string	true	"Payment ID"
//	@Router		/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// GetPaymentByNumber godoc
//
//	@Summary	Get a payment by payment number
//	@Tags		payments
//	@Produce	json
//	@Param		payment_number	path	string	true	"Payment number"
//	@Router		/payments/number/{payment_number} [get]
func (h *PaymentHandler) GetPaymentByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	paymentNumber := c.Param("payment_number")
	if paymentNumber == "" {
		h.BadRequest(c, "Payment number is required")
		return
	}

	payment, err := h.paymentService.GetPaymentByNumber(c.Request.Context(), tenantID, paymentNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// CreatePayment godoc
//
//	@Summary		Record a customer payment
//	@Description	Create a payment receive in draft status
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Router			/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		h.BadRequest(c, "Invalid payment_date, expected YYYY-MM-DD")
		return
	}

	appReq := receivableapp.CreatePaymentRequest{
		CustomerID:       customerID,
		CustomerName:     req.CustomerName,
		TotalAmount:      decimal.NewFromFloat(req.TotalAmount),
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		PaymentDate:      paymentDate,
		Remark:           req.Remark,
	}
	if userID := getUserID(c); userID != uuid.Nil {
		appReq.CreatedBy = &userID
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// SubmitPayment godoc
//
//	@Summary	Submit a payment for verification
//	@Tags		payments
//	@Produce	json
//	@Param		id	path	string	true	"Payment ID"
//	@Router		/payments/{id}/submit [post]
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.SubmitPayment(c.Request.Context(), tenantID, id, by)
	})
}

// VerifyPayment godoc
//
//	@Summary		Verify a payment
//	@Description	Record the verification checklist; all required checks must pass
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Payment ID"
//	@Router			/payments/{id}/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.VerifyPayment(c.Request.Context(), tenantID, id, by, receivableapp.VerifyPaymentRequest{
			Checks: receivable.VerificationChecks{
				DocumentVerified:      req.DocumentVerified,
				AmountVerified:        req.AmountVerified,
				CustomerVerified:      req.CustomerVerified,
				PaymentMethodVerified: req.PaymentMethodVerified,
				ReferenceVerified:     req.ReferenceVerified,
			},
			Notes: req.Notes,
		})
	})
}

// ApprovePayment godoc
//
//	@Summary	Approve a payment pending approval
//	@Tags		payments
//	@Produce	json
//	@Param		id	path	string	true	"Payment ID"
//	@Router		/payments/{id}/approve [post]
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.ApprovePayment(c.Request.Context(), tenantID, id, by)
	})
}

// RejectPayment godoc
//
//	@Summary	Reject a payment
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		id	path	string	true	"Payment ID"
//	@Router		/payments/{id}/reject [post]
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.RejectPayment(c.Request.Context(), tenantID, id, by, req.Reason)
	})
}

// CancelPayment godoc
//
//	@Summary		Cancel a payment
//	@Description	Cancel from any non-terminal state; applied allocations are reversed
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Payment ID"
//	@Router			/payments/{id}/cancel [post]
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	var req CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.CancelPayment(c.Request.Context(), tenantID, id, by, req.Reason)
	})
}

// CompletePayment godoc
//
//	@Summary		Complete a payment
//	@Description	Commit the pending allocations to the affected sales
//	@Tags			payments
//	@Produce		json
//	@Param			id	path	string	true	"Payment ID"
//	@Router			/payments/{id}/complete [post]
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	h.runTransition(c, func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error) {
		return h.paymentService.CompletePayment(c.Request.Context(), tenantID, id, by)
	})
}

// Allocate godoc
//
//	@Summary		Allocate a payment across outstanding sales
//	@Description	Distribute the payment using a strategy, replacing prior pending allocations
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Payment ID"
//	@Router			/payments/{id}/allocations [post]
func (h *PaymentHandler) Allocate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	req, bindErr := h.bindAllocateRequest(c)
	if bindErr != nil {
		h.BadRequest(c, bindErr.Error())
		return
	}

	payment, err := h.paymentService.Allocate(c.Request.Context(), tenantID, id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// ClearAllocations godoc
//
//	@Summary	Remove all pending allocations from a payment
//	@Tags		payments
//	@Produce	json
//	@Param		id	path	string	true	"Payment ID"
//	@Router		/payments/{id}/allocations [delete]
func (h *PaymentHandler) ClearAllocations(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.ClearAllocations(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// PreviewAllocation godoc
//
//	@Summary		Preview an allocation plan
//	@Description	Run an allocation strategy without modifying the payment
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Payment ID"
//	@Router			/payments/{id}/allocations/preview [post]
func (h *PaymentHandler) PreviewAllocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	req, bindErr := h.bindAllocateRequest(c)
	if bindErr != nil {
		h.BadRequest(c, bindErr.Error())
		return
	}

	plan, err := h.paymentService.PreviewAllocation(c.Request.Context(), tenantID, id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// runTransition factors the shared shape of the workflow endpoints:
// tenant and ID extraction, the service call, and the response.
func (h *PaymentHandler) runTransition(c *gin.Context, call func(tenantID, id, by uuid.UUID) (*receivableapp.PaymentReceiveResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := call(tenantID, id, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// bindAllocateRequest binds and converts the allocation request body
func (h *PaymentHandler) bindAllocateRequest(c *gin.Context) (*receivableapp.AllocateRequest, error) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}

	out := receivableapp.AllocateRequest{Strategy: req.Strategy}
	for _, item := range req.Allocations {
		saleID, err := uuid.Parse(item.SaleID)
		if err != nil {
			return nil, err
		}
		out.Allocations = append(out.Allocations, receivableapp.ManualAllocationItem{
			SaleID: saleID,
			Amount: decimal.NewFromFloat(item.Amount),
		})
	}
	for _, raw := range req.SelectedSaleIDs {
		saleID, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		out.SelectedSaleIDs = append(out.SelectedSaleIDs, saleID)
	}
	return &out, nil
}
