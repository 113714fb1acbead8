package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/dto"
	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

// loanHandler posts loan servicing events to the ledger.
type loanHandler struct {
	loanService portssvc.LoanPostingService
	now         func() time.Time
}

func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanPostingService) {
	h := &loanHandler{loanService: loanService, now: time.Now}

	loans := rg.Group("/loans/:loanID")
	{
		loans.POST("/disbursements", h.recordDisbursement)
		loans.POST("/repayments", h.recordRepayment)
		loans.PUT("/principal", h.adjustPrincipal)
		loans.GET("/principal", h.getPrincipal)
	}
}

// recordDisbursement godoc
// @Summary Record a loan disbursement
// @Description Posts Dr Loans Receivable / Cr Cash for the principal.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   disbursement body dto.DisbursementRequest true "Principal and date"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to record disbursement"
// @Security BearerAuth
// @Router /loans/{loanID}/disbursements [post]
func (h *loanHandler) recordDisbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.DisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "record disbursement")
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	entry, err := h.loanService.RecordDisbursement(c.Request.Context(), loanID, *req.Principal, dto.PostingDate(req.Date, h.now()), userID)
	if err != nil {
		respondError(c, err, "record disbursement")
		return
	}

	logger.Info("Loan disbursement posted", slog.String("loan_id", loanID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// recordRepayment godoc
// @Summary Record a loan repayment
// @Description Posts Dr Cash against Loans Receivable for the principal portion and Interest Income for the interest portion.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   repayment body dto.RepaymentRequest true "Principal and interest portions"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "No disbursement for the loan"
// @Failure 500 {object} errorResponse "Failed to record repayment"
// @Security BearerAuth
// @Router /loans/{loanID}/repayments [post]
func (h *loanHandler) recordRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.RepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "record repayment")
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	entry, err := h.loanService.RecordRepayment(c.Request.Context(), loanID, *req.Principal, req.InterestOrZero(), dto.PostingDate(req.Date, h.now()), userID)
	if err != nil {
		respondError(c, err, "record repayment")
		return
	}

	logger.Info("Loan repayment posted", slog.String("loan_id", loanID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// adjustPrincipal godoc
// @Summary Change a loan's principal
// @Description Posts an adjusting entry for the difference between the principal lent so far and the new principal. Repayments do not count against it.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   adjustment body dto.AdjustPrincipalRequest true "New principal"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "No disbursement for the loan"
// @Failure 500 {object} errorResponse "Failed to adjust principal"
// @Security BearerAuth
// @Router /loans/{loanID}/principal [put]
func (h *loanHandler) adjustPrincipal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.AdjustPrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "adjust loan principal")
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	entry, err := h.loanService.AdjustPrincipal(c.Request.Context(), loanID, *req.Principal, dto.PostingDate(req.Date, h.now()), userID)
	if err != nil {
		respondError(c, err, "adjust loan principal")
		return
	}

	logger.Info("Loan principal adjusted", slog.String("loan_id", loanID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getPrincipal godoc
// @Summary Get a loan's outstanding principal
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.OutstandingPrincipalResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "No disbursement for the loan"
// @Failure 500 {object} errorResponse "Failed to read principal"
// @Security BearerAuth
// @Router /loans/{loanID}/principal [get]
func (h *loanHandler) getPrincipal(c *gin.Context) {
	loanID := c.Param("loanID")
	principal, err := h.loanService.OutstandingPrincipal(c.Request.Context(), loanID)
	if err != nil {
		respondError(c, err, "compute loan principal")
		return
	}
	c.JSON(http.StatusOK, dto.NewOutstandingPrincipalResponse(loanID, principal))
}
