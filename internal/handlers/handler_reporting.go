package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
	"github.com/SscSPs/darkstore_ledger/internal/middleware"
)

// reportingHandler handles HTTP requests for ledger rows and derived balances
type reportingHandler struct {
	reportingService portssvc.ReportingService
	currency         domain.Currency
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, cur domain.Currency) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		currency:         cur,
	}
}

// registerReportingRoutes registers routes related to the ledger and its reports
func registerReportingRoutes(rg *gin.RouterGroup, h *reportingHandler) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listLedgerEntries)
		ledger.GET("/summary", h.getSummary)
		ledger.GET("/trial-balance", h.getTrialBalance)
		ledger.GET("/profit-and-loss", h.getProfitAndLoss)
		ledger.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// listLedgerEntries godoc
// @Summary Query ledger entries
// @Description Returns ledger rows ordered by date, then insertion sequence. Date bounds are inclusive.
// @Tags ledger
// @Produce json
// @Param dateFrom query string false "First date (YYYY-MM-DD)"
// @Param dateTo query string false "Last date (YYYY-MM-DD)"
// @Param accountCode query string false "Only rows for this account"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Failed to query ledger"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *reportingHandler) listLedgerEntries(c *gin.Context) {
	var params dto.LedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	from, err := parseOptionalDate(params.DateFrom)
	if err != nil {
		badRequest(c, "Invalid dateFrom", err)
		return
	}
	to, err := parseOptionalDate(params.DateTo)
	if err != nil {
		badRequest(c, "Invalid dateTo", err)
		return
	}

	entries, err := h.reportingService.QueryLedgerEntries(c.Request.Context(), domain.LedgerFilter{
		DateFrom:    from,
		DateTo:      to,
		AccountCode: params.AccountCode,
	})
	if err != nil {
		respondError(c, err, "Failed to query ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ListLedgerEntriesResponse{LedgerEntries: dto.ToLedgerEntryResponses(entries, h.currency)})
}

// getSummary godoc
// @Summary Get the ledger summary
// @Description Folds every entry dated on or before asOf into GL, receivables and payables balances
// @Tags ledger
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.LedgerSummaryEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Failed to summarize ledger"
// @Security BearerAuth
// @Router /ledger/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	asOf, err := parseOptionalDate(c.Query("asOf"))
	if err != nil {
		badRequest(c, "Invalid asOf", err)
		return
	}

	summary, err := h.reportingService.Summarize(c.Request.Context(), derefTime(asOf))
	if err != nil {
		respondError(c, err, "Failed to summarize ledger")
		return
	}
	c.JSON(http.StatusOK, dto.LedgerSummaryEnvelope{Summary: dto.ToLedgerSummaryResponse(summary, h.currency)})
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags ledger
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledger/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := parseOptionalDate(c.Query("asOf"))
	if err != nil {
		badRequest(c, "Invalid asOf", err)
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), derefTime(asOf))
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb, h.currency))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Nets revenue and expense accounts over a date range. Both bounds are inclusive.
// @Tags ledger
// @Produce json
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledger/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		badRequest(c, "Invalid from", err)
		return
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		badRequest(c, "Invalid to", err)
		return
	}

	pl, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, derefTime(to))
	if err != nil {
		respondError(c, err, "Failed to generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(pl, h.currency))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet as of a specific date
// @Tags ledger
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledger/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, err := parseOptionalDate(c.Query("asOf"))
	if err != nil {
		badRequest(c, "Invalid asOf", err)
		return
	}

	bs, err := h.reportingService.BalanceSheet(c.Request.Context(), derefTime(asOf))
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(bs, h.currency))
}
