package repositories

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// LedgerReader defines read operations over posted history.
type LedgerReader interface {
	// FindEntryByID retrieves a posted journal entry with its lines.
	// Returns apperrors.ErrNotFound if no entry has the id.
	FindEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindEntryByIdempotencyKey retrieves the entry first posted under key.
	// Returns apperrors.ErrNotFound if the key was never used.
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error)

	// QueryLedgerEntries returns ledger rows matching filter ordered by date, then sequence.
	QueryLedgerEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)

	// ListEntries retrieves a newest-first page of journal entries using token-based pagination.
	// An empty sourceModule lists all modules. It returns the entries and a token for the next page.
	ListEntries(ctx context.Context, limit int, nextToken *string, sourceModule domain.SourceModule) ([]domain.JournalEntry, *string, error)
}

// LedgerAppender is the single mutation point of the ledger.
type LedgerAppender interface {
	// AppendEntry atomically writes entry, its lines and its derived ledger rows.
	// Either every row becomes visible or none does.
	// Returns apperrors.ErrDuplicate when the idempotency key is taken and
	// apperrors.ErrConflict when the reversed entry already has a reversal.
	AppendEntry(ctx context.Context, entry domain.JournalEntry, rows []domain.LedgerEntry) error
}

// LedgerStore is the append-only source of truth for balances.
// It exposes no update or delete operation.
type LedgerStore interface {
	LedgerReader
	LedgerAppender
}
