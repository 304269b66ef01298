package models

import "time"

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted JournalStatus = "POSTED"
)

// JournalEntry represents a row of the journal_entries table.
type JournalEntry struct {
	JournalID         string        `db:"journal_id"`
	EntryDate         time.Time     `db:"entry_date"`
	Reference         string        `db:"reference"`
	Memo              string        `db:"memo"`
	Status            JournalStatus `db:"status"`
	SourceModule      string        `db:"source_module"`
	IdempotencyKey    *string       `db:"idempotency_key"`     // Nullable
	ReversesJournalID *string       `db:"reverses_journal_id"` // Nullable FK -> journal_entries.journal_id
	Sequence          int64         `db:"sequence"`
	AuditFields
}

// JournalEntryLine represents a row of the journal_entry_lines table.
// Amounts are integer minor units.
type JournalEntryLine struct {
	JournalID   string `db:"journal_id"`
	LineNumber  int    `db:"line_number"`
	AccountCode string `db:"account_code"`
	Description string `db:"description"`
	Debit       int64  `db:"debit"`
	Credit      int64  `db:"credit"`
}
