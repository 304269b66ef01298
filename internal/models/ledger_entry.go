package models

import "time"

// LedgerEntry represents a row of the ledger_entries table, the denormalized per-line projection.
type LedgerEntry struct {
	Sequence     int64       `db:"sequence"`
	JournalID    string      `db:"journal_id"`
	LineNumber   int         `db:"line_number"`
	AccountCode  string      `db:"account_code"`
	AccountName  string      `db:"account_name"`
	AccountType  AccountType `db:"account_type"`
	AccountTag   *string     `db:"account_tag"`
	Debit        int64       `db:"debit"`
	Credit       int64       `db:"credit"`
	EntryDate    time.Time   `db:"entry_date"`
	Reference    string      `db:"reference"`
	Description  string      `db:"description"`
	SourceModule string      `db:"source_module"`
	AuditFields
}
