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

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.BalanceProjectorSvc
	currency         domain.Currency
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.BalanceProjectorSvc, cur domain.Currency) *accountHandler {
	return &accountHandler{
		accountService:   as,
		reportingService: rs,
		currency:         cur,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, h *accountHandler, writeGuards ...gin.HandlerFunc) {
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", withGuards(writeGuards, h.createAccount)...)
		accounts.GET("/:code/balance", h.getAccountBalance)
	}
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Lists every account, ordered by code, for populating journal line pickers
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts. Codes are unique and accounts are never edited.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Account code already exists"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	actor := resolveActor(c, "")
	logger.Info("Received request to create account", slog.String("account_code", req.Code), slog.String("created_by", actor))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.AccountEnvelope{Account: dto.ToAccountResponse(account)})
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the signed balance of one account over entries dated on or before asOf
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 404 {object} dto.ErrorResponse "Unknown account"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute balance"
// @Security BearerAuth
// @Router /accounts/{code}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	asOf, err := parseOptionalDate(c.Query("asOf"))
	if err != nil {
		badRequest(c, "Invalid asOf", err)
		return
	}

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), c.Param("code"), derefTime(asOf))
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance, h.currency))
}
