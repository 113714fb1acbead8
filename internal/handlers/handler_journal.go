package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/dto"
	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

// IdempotencyKeyHeader lets a client retry a post without committing it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.POST("/validate", h.validateEntry)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.reverseEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
		entries.POST("/:id/amend", h.amendEntry)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced entry. A replayed Idempotency-Key answers 200 with the entry recorded the first time.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client key for safe retries"
// @Param   entry body dto.JournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Success 200 {object} dto.JournalEntryResponse "Replayed post"
// @Failure 400 {object} errorResponse "Every validation problem found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to post journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "post journal entry")
		return
	}

	creatorUserID, ok := actorID(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	logger.Info("Received request to post journal entry", slog.Int("line_count", len(req.Lines)), slog.Bool("idempotent", key != ""))

	entry, created, err := h.journalService.PostEntry(c.Request.Context(), req.ToDomain(), key, creatorUserID)
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
		logger.Info("Idempotent replay of journal entry", slog.String("entry_id", entry.EntryID))
	} else {
		logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.Int64("sequence", entry.Sequence))
	}
	c.JSON(status, dto.ToJournalEntryResponse(entry))
}

// validateEntry godoc
// @Summary Validate a journal entry
// @Description Runs every posting check without persisting anything.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.JournalEntryRequest true "Journal entry"
// @Success 200 {object} dto.ValidatedEntryResponse
// @Failure 400 {object} errorResponse "Every validation problem found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Security BearerAuth
// @Router /journal-entries/validate [post]
func (h *journalHandler) validateEntry(c *gin.Context) {
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "validate journal entry")
		return
	}

	validated, err := h.journalService.ValidateEntry(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, err, "validate journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToValidatedEntryResponse(validated))
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Entry not found"
// @Failure 500 {object} errorResponse "Failed to get journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries in posting order, one page at a time.
// @Tags journal-entries
// @Produce  json
// @Param   startDate query string false "First day (YYYY-MM-DD)"
// @Param   endDate query string false "Last day (YYYY-MM-DD)"
// @Param   accountID query string false "Only entries touching this account"
// @Param   relatedType query string false "Related document type"
// @Param   relatedID query string false "Related document ID"
// @Param   limit query int false "Page size (1-500)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} errorResponse "Invalid query or token"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "list journal entries")
		return
	}

	filter, token := params.ToDomain()
	page, err := h.journalService.ListEntries(c.Request.Context(), filter, token)
	if err != nil {
		respondError(c, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEntriesResponse(page))
}

// updateEntry godoc
// @Summary Edit a journal entry's narrative
// @Description Changes the description and line memos. Lines may be echoed back; an omitted memo keeps the posted one. Any change to date, accounts or amounts is refused.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Narrative changes"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Entry not found"
// @Failure 409 {object} errorResponse "Financial change to a posted entry"
// @Failure 500 {object} errorResponse "Failed to update journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "update journal entry")
		return
	}

	updaterUserID, ok := actorID(c)
	if !ok {
		return
	}

	updated, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req.ToDomain(), updaterUserID)
	if err != nil {
		respondError(c, err, "update journal entry")
		return
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(updated))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts the mirror entry and marks the original reversed. Also served as DELETE /journal-entries/{id}. The reversal is dated on the original's date unless a date is given.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest false "Reversal date"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Entry not found"
// @Failure 409 {object} errorResponse "Entry already reversed"
// @Failure 500 {object} errorResponse "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
// @Router /journal-entries/{id} [delete]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, bindError(err), "reverse journal entry")
			return
		}
	}

	userID, ok := actorID(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req.ToDomain(), userID)
	if err != nil {
		respondError(c, err, "reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// amendEntry godoc
// @Summary Amend a journal entry
// @Description Reverses the entry and posts the replacement in one step.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.JournalEntryRequest true "Replacement entry"
// @Success 201 {object} dto.AmendEntryResponse
// @Failure 400 {object} errorResponse "Every validation problem found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Entry not found"
// @Failure 409 {object} errorResponse "Entry already reversed"
// @Failure 500 {object} errorResponse "Failed to amend journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id}/amend [post]
func (h *journalHandler) amendEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "amend journal entry")
		return
	}

	userID, ok := actorID(c)
	if !ok {
		return
	}

	reversal, replacement, err := h.journalService.AmendEntry(c.Request.Context(), entryID, req.ToDomain(), userID)
	if err != nil {
		respondError(c, err, "amend journal entry")
		return
	}

	logger.Info("Journal entry amended",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID),
		slog.String("replacement_id", replacement.EntryID))
	c.JSON(http.StatusCreated, dto.AmendEntryResponse{
		Reversal:    dto.ToJournalEntryResponse(reversal),
		Replacement: dto.ToJournalEntryResponse(replacement),
	})
}
