package domain

import "time"

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// SourceModule tags which part of the operations console produced an entry.
type SourceModule string

const (
	SourcePayments  SourceModule = "PAYMENTS"
	SourceVendor    SourceModule = "VENDOR"
	SourceRefunds   SourceModule = "REFUNDS"
	SourceManual    SourceModule = "MANUAL"
	SourceInventory SourceModule = "INVENTORY"
	SourcePayroll   SourceModule = "PAYROLL"
)

// SourceModules lists every accepted source module.
var SourceModules = []SourceModule{
	SourcePayments, SourceVendor, SourceRefunds, SourceManual, SourceInventory, SourcePayroll,
}

// IsValid reports whether m is a known source module.
func (m SourceModule) IsValid() bool {
	for _, known := range SourceModules {
		if m == known {
			return true
		}
	}
	return false
}

// JournalEntryDraft is a proposed entry that has not been validated or posted.
type JournalEntryDraft struct {
	Date              time.Time
	Reference         string
	Memo              string
	SourceModule      SourceModule
	Lines             []JournalEntryLine
	IdempotencyKey    string // optional; a repeated key replays the first posting
	ReversesJournalID string // set only on reversal entries
}

// JournalEntry is a posted, balanced and immutable financial event.
type JournalEntry struct {
	JournalID         string             `json:"journalID"` // Primary Key (UUID)
	Date              time.Time          `json:"date"`
	Reference         string             `json:"reference"`
	Memo              string             `json:"memo,omitempty"`
	Lines             []JournalEntryLine `json:"lines"`
	Status            JournalStatus      `json:"status"`
	SourceModule      SourceModule       `json:"sourceModule"`
	IdempotencyKey    string             `json:"idempotencyKey,omitempty"`
	ReversesJournalID string             `json:"reversesJournalID,omitempty"`
	Sequence          int64              `json:"-"` // insertion order, assigned by the store
	AuditFields
}

// Totals returns the summed debit and credit of the entry's lines.
func (e JournalEntry) Totals() (debit, credit Amount, err error) {
	return SumLines(e.Lines)
}

// ValidatedEntry is a draft that passed every structural and balance check,
// together with the accounts its lines resolved to.
type ValidatedEntry struct {
	Draft    JournalEntryDraft
	Accounts map[string]Account
	Total    Amount
}
