package services

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for posted journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves a posted entry by id, or domain.ErrEntryNotFound.
	GetEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a newest-first page of posted entries and the token for the next page.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)
}

// JournalWriterSvc defines the operations that create financial history
type JournalWriterSvc interface {
	// Post validates draft and appends it atomically to the ledger.
	// Validation and storage failures are *domain.PostingError; a second reversal of the
	// same entry matches apperrors.ErrConflict. The bool reports an idempotent replay.
	Post(ctx context.Context, draft domain.JournalEntryDraft, actor string) (*domain.JournalEntry, bool, error)

	// ReverseEntry posts a new entry that offsets journalID. The original is untouched.
	ReverseEntry(ctx context.Context, journalID string, actor string, reason string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
