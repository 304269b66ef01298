package dto

import (
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// JournalEntryLineRequest is one line of a submitted draft.
// Amounts are decimals in major units; JSON numbers and strings are both accepted.
type JournalEntryLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit" binding:"amount" swaggertype:"string" example:"500.00"`
	Credit      decimal.Decimal `json:"credit" binding:"amount" swaggertype:"string" example:"0"`
}

// CreateJournalEntryRequest defines the data needed to post a journal entry.
type CreateJournalEntryRequest struct {
	Date         string                    `json:"date" binding:"required" example:"2024-03-31"`
	Reference    string                    `json:"reference" binding:"required,max=255"`
	Memo         string                    `json:"memo"`
	SourceModule string                    `json:"sourceModule" binding:"omitempty,sourcemodule"`
	Lines        []JournalEntryLineRequest `json:"lines" binding:"max=1000,dive"`
	CreatedBy    string                    `json:"createdBy"` // used when authentication is disabled
}

// ReverseJournalEntryRequest carries the optional reason for a reversal.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason"`
}

// JournalEntryLineResponse defines the data returned for a journal line.
type JournalEntryLineResponse struct {
	LineNumber  int    `json:"lineNumber"`
	AccountCode string `json:"accountCode"`
	Description string `json:"description,omitempty"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry with its lines.
type JournalEntryResponse struct {
	JournalID         string                     `json:"journalID"`
	Date              string                     `json:"date"`
	Reference         string                     `json:"reference"`
	Memo              string                     `json:"memo,omitempty"`
	Status            domain.JournalStatus       `json:"status"`
	SourceModule      domain.SourceModule        `json:"sourceModule"`
	Lines             []JournalEntryLineResponse `json:"lines"`
	TotalDebit        string                     `json:"totalDebit"`
	TotalCredit       string                     `json:"totalCredit"`
	CurrencyCode      string                     `json:"currencyCode"`
	IdempotencyKey    string                     `json:"idempotencyKey,omitempty"`
	ReversesJournalID string                     `json:"reversesJournalID,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
	CreatedBy         string                     `json:"createdBy"`
}

// JournalEntryEnvelope wraps a single journal entry.
type JournalEntryEnvelope struct {
	JournalEntry JournalEntryResponse `json:"journalEntry"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Limit        int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken    *string `form:"nextToken"`
	SourceModule string  `form:"sourceModule" binding:"omitempty,sourcemodule"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	JournalEntries []JournalEntryResponse `json:"journalEntries"`
	NextToken      *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry, cur domain.Currency) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalEntryLineResponse{
			LineNumber:  i + 1,
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       cur.FormatAmount(l.Debit),
			Credit:      cur.FormatAmount(l.Credit),
		}
	}
	// Posted entries passed validation, so their totals fit.
	debit, credit, _ := e.Totals()
	return JournalEntryResponse{
		JournalID:         e.JournalID,
		Date:              e.Date.Format(DateLayout),
		Reference:         e.Reference,
		Memo:              e.Memo,
		Status:            e.Status,
		SourceModule:      e.SourceModule,
		Lines:             lines,
		TotalDebit:        cur.FormatAmount(debit),
		TotalCredit:       cur.FormatAmount(credit),
		CurrencyCode:      cur.CurrencyCode,
		IdempotencyKey:    e.IdempotencyKey,
		ReversesJournalID: e.ReversesJournalID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry.
func ToJournalEntryResponses(entries []domain.JournalEntry, cur domain.Currency) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i], cur)
	}
	return res
}
