package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
	"github.com/SscSPs/darkstore_ledger/internal/middleware"
)

// idempotentReplayHeader is set on responses that return an entry posted by an earlier request.
const idempotentReplayHeader = "X-Idempotent-Replayed"

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	currency       domain.Currency
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade, cur domain.Currency) *journalHandler {
	return &journalHandler{
		journalService: js,
		currency:       cur,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, h *journalHandler, writeGuards ...gin.HandlerFunc) {
	postGuards := withGuards(writeGuards, middleware.IdempotencyKey())

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", withGuards(postGuards, h.createJournalEntry)...)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:id", h.getJournalEntry)
		entries.POST("/:id/reversal", withGuards(writeGuards, h.reverseJournalEntry)...)
	}
}

// createJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates a balanced journal entry and appends it to the ledger atomically.
// @Description Repeating a request with the same Idempotency-Key returns the original entry with status 200.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client-chosen key that makes retries safe"
// @Param   journalEntry body dto.CreateJournalEntryRequest true "Journal entry draft"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Success 200 {object} dto.JournalEntryEnvelope "Idempotent replay"
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 422 {object} dto.ValidationErrorResponse "Entry violates a ledger invariant"
// @Failure 500 {object} dto.ErrorResponse "Storage failure, nothing was posted"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	draft, err := h.toDraft(req)
	if err != nil {
		badRequest(c, "Invalid journal entry", err)
		return
	}
	draft.IdempotencyKey = middleware.GetIdempotencyKey(c.Request.Context())

	actor := resolveActor(c, req.CreatedBy)
	logger.Info("Received request to post journal entry",
		slog.String("reference", draft.Reference),
		slog.Int("lines", len(draft.Lines)),
		slog.String("created_by", actor))

	entry, replayed, err := h.journalService.Post(c.Request.Context(), draft, actor)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}

	status := http.StatusCreated
	if replayed {
		c.Header(idempotentReplayHeader, "true")
		status = http.StatusOK
	}
	c.JSON(status, dto.JournalEntryEnvelope{JournalEntry: dto.ToJournalEntryResponse(entry, h.currency)})
}

func (h *journalHandler) toDraft(req dto.CreateJournalEntryRequest) (domain.JournalEntryDraft, error) {
	date, err := parseLedgerDate(req.Date)
	if err != nil {
		return domain.JournalEntryDraft{}, err
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, l := range req.Lines {
		debit, err := h.currency.FromDecimal(l.Debit)
		if err != nil {
			return domain.JournalEntryDraft{}, fmt.Errorf("line %d debit: %w", i+1, err)
		}
		credit, err := h.currency.FromDecimal(l.Credit)
		if err != nil {
			return domain.JournalEntryDraft{}, fmt.Errorf("line %d credit: %w", i+1, err)
		}
		lines[i] = domain.JournalEntryLine{
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       debit,
			Credit:      credit,
		}
	}

	return domain.JournalEntryDraft{
		Date:         date,
		Reference:    req.Reference,
		Memo:         req.Memo,
		SourceModule: domain.SourceModule(req.SourceModule),
		Lines:        lines,
	}, nil
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists posted journal entries newest first, using token-based pagination
// @Tags journal-entries
// @Produce  json
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   sourceModule query string false "Only entries from this source module"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	entries, next, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{
		JournalEntries: dto.ToJournalEntryResponses(entries, h.currency),
		NextToken:      next,
	})
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a posted journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalEntryEnvelope
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.JournalEntryEnvelope{JournalEntry: dto.ToJournalEntryResponse(entry, h.currency)})
}

// reverseJournalEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a new entry with debits and credits swapped. The original entry is not changed.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Reason for the reversal"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry already reversed or is itself a reversal"
// @Failure 500 {object} dto.ErrorResponse "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{id}/reversal [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.ReverseJournalEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format", err)
			return
		}
	}

	actor := resolveActor(c, "")
	logger.Info("Received request to reverse journal entry", slog.String("journal_id", journalID), slog.String("reversed_by", actor))

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), journalID, actor, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.JournalEntryEnvelope{JournalEntry: dto.ToJournalEntryResponse(reversal, h.currency)})
}
