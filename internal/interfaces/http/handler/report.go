package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	receivableapp "github.com/erp/receivables/internal/application/receivable"
)

// ReportHandler handles receivables reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *receivableapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *receivableapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers reporting routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receivables := rg.Group("/receivables")
	{
		receivables.GET("/outstanding", h.GetOutstandingLedger)
		receivables.GET("/aging-report", h.GetAgingReport)
		receivables.GET("/summary", h.GetSummary)
	}

	customers := rg.Group("/customers")
	{
		customers.GET(":id/balance", h.GetCustomerBalance)
	}
}

// GetOutstandingLedger godoc
//
//	@Summary		Outstanding receivables ledger
//	@Description	All sales with an unpaid balance, with overdue days and aging bucket
//	@Tags			reports
//	@Produce		json
//	@Param			customer_ids	query	string	false	"Comma-separated customer IDs"
//	@Param			as_of			query	string	false	"Classification date (YYYY-MM-DD), defaults to today"
//	@Router			/receivables/outstanding [get]
func (h *ReportHandler) GetOutstandingLedger(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var customerIDs []uuid.UUID
	if raw := c.Query("customer_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				h.BadRequest(c, "Invalid customer ID: "+part)
				return
			}
			customerIDs = append(customerIDs, id)
		}
	}

	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	ledger, err := h.reportService.GetOutstandingLedger(c.Request.Context(), tenantID, customerIDs, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ledger)
}

// GetAgingReport godoc
//
//	@Summary		Aging report
//	@Description	Outstanding balances grouped by customer and aging bucket, with risk analysis
//	@Tags			reports
//	@Produce		json
//	@Router			/receivables/aging-report [get]
func (h *ReportHandler) GetAgingReport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	report, err := h.reportService.GetAgingReport(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetSummary godoc
//
//	@Summary	Receivables summary
//	@Tags		reports
//	@Produce	json
//	@Router		/receivables/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	summary, err := h.reportService.GetReceivableSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetCustomerBalance godoc
//
//	@Summary	Customer receivable balance
//	@Tags		reports
//	@Produce	json
//	@Param		id	path	string	true	"Customer ID"
//	@Router		/customers/{id}/balance [get]
func (h *ReportHandler) GetCustomerBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	customerID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	balance, err := h.reportService.GetCustomerBalance(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}
