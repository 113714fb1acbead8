package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/dto"
	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerService
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerService) {
	h := &accountHandler{accountService: accountService, ledgerService: ledgerService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.GET("/:id/ledger", h.getLedger)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account in the chart. The code is generated from the account type when omitted; the normal balance is always derived from the type.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 409 {object} errorResponse "Account code already in use"
// @Failure 500 {object} errorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "create account")
		return
	}

	creatorUserID, ok := actorID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", req.AccountType))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req.ToDomain(), creatorUserID)
	if err != nil {
		respondError(c, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID), slog.String("code", newAccount.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 500 {object} errorResponse "Failed to get account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code.
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type" Enums(ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {object} map[string][]dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid query"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "list accounts")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.ToDomain())
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}

	logger.Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Description Applies the given fields. A type change re-derives the normal balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Account code already in use"
// @Failure 500 {object} errorResponse "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "update account")
		return
	}

	updaterUserID, ok := actorID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to update account")

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req.ToDomain(), updaterUserID)
	if err != nil {
		respondError(c, err, "update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes the account, or deactivates it with soft=true. Accounts referenced by journal lines are refused either way; retire them with isActive=false instead.
// @Tags accounts
// @Param   id path string true "Account ID"
// @Param   soft query bool false "Deactivate instead of removing"
// @Success 204 "No Content"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Account is referenced by journal entries"
// @Failure 500 {object} errorResponse "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.DeleteAccountParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "delete account")
		return
	}

	deleterUserID, ok := actorID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID), slog.Bool("soft", params.Soft))
	logger.Info("Received request to delete account")

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID, params.Soft, deleterUserID); err != nil {
		respondError(c, err, "delete account")
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// getLedger godoc
// @Summary Get an account ledger
// @Description Lists the account's lines in date order with a running balance. Activity before startDate is folded into the opening balance.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   startDate query string false "First day (YYYY-MM-DD)"
// @Param   endDate query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} errorResponse "Invalid date range"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 500 {object} errorResponse "Failed to build ledger"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *accountHandler) getLedger(c *gin.Context) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "project ledger")
		return
	}

	ledger, err := h.ledgerService.AccountLedger(c.Request.Context(), c.Param("id"), params.ToDomain())
	if err != nil {
		respondError(c, err, "project ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}
