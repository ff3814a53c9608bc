package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(svc portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: svc}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/balances", h.balanceSummary)
		reports.GET("/dashboard", h.dashboard)
		reports.GET("/debtors", h.debtors)
		reports.GET("/categories", h.categoryTotals)
	}
}

// balanceSummary godoc
// @Summary Balance summary
// @Description Lists every active account with its balance converted to the target currency, plus the total.
// @Tags reports
// @Produce  json
// @Param   currency query string false "Target currency" default(CFA)
// @Success 200 {object} domain.BalanceSummary
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build balance summary"
// @Security BearerAuth
// @Router /reports/balances [get]
func (h *reportingHandler) balanceSummary(c *gin.Context) {
	var params dto.BalanceSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	summary, err := h.reportingService.BalanceSummary(c.Request.Context(), params.Currency)
	if err != nil {
		respondError(c, err, "Failed to build balance summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// dashboard godoc
// @Summary Dashboard
// @Description Total balances, outstanding debt and per-category totals for a period.
// @Tags reports
// @Produce  json
// @Param   from query string true "First day included (YYYY-MM-DD)"
// @Param   to query string true "Last day included (YYYY-MM-DD)"
// @Success 200 {object} domain.Dashboard
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build dashboard"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) dashboard(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "period")
		return
	}

	from, to := params.Bounds()
	dashboard, err := h.reportingService.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// debtors godoc
// @Summary Debtors
// @Description Orders and parcels that still owe money, cancelled ones excluded.
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.DebtorsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list debtors"
// @Security BearerAuth
// @Router /reports/debtors [get]
func (h *reportingHandler) debtors(c *gin.Context) {
	debtors, err := h.reportingService.Debtors(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list debtors")
		return
	}
	c.JSON(http.StatusOK, dto.DebtorsResponse{Debtors: debtors})
}

// categoryTotals godoc
// @Summary Category totals
// @Description Sums ledger rows per category, direction and currency over a period.
// @Tags reports
// @Produce  json
// @Param   from query string true "First day included (YYYY-MM-DD)"
// @Param   to query string true "Last day included (YYYY-MM-DD)"
// @Success 200 {object} dto.CategoryTotalsResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute category totals"
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *reportingHandler) categoryTotals(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "period")
		return
	}

	from, to := params.Bounds()
	totals, err := h.reportingService.CategoryTotals(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to compute category totals")
		return
	}

	c.JSON(http.StatusOK, dto.CategoryTotalsResponse{
		From:   params.From.Format(dateLayout),
		To:     params.To.Format(dateLayout),
		Totals: totals,
	})
}
