package domain

import "time"

// LedgerEntry is the per-line, read-oriented projection of a posted journal line.
// One journal entry with N lines yields N ledger entries, written with it and never changed.
type LedgerEntry struct {
	JournalID    string       `json:"journalID"`
	LineNumber   int          `json:"lineNumber"`
	AccountCode  string       `json:"accountCode"`
	AccountName  string       `json:"accountName"`
	AccountType  AccountType  `json:"accountType"`
	AccountTag   AccountTag   `json:"accountTag,omitempty"`
	Debit        Amount       `json:"debit"`
	Credit       Amount       `json:"credit"`
	Date         time.Time    `json:"date"`
	Reference    string       `json:"reference"`
	Description  string       `json:"description,omitempty"`
	SourceModule SourceModule `json:"sourceModule"`
	Sequence     int64        `json:"sequence"` // global insertion order
	AuditFields
}

// LedgerFilter narrows QueryLedgerEntries. Zero-valued fields do not filter.
// Both date bounds are inclusive.
type LedgerFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	AccountCode string
}

// Matches reports whether e falls inside the filter.
func (f LedgerFilter) Matches(e LedgerEntry) bool {
	if f.AccountCode != "" && e.AccountCode != f.AccountCode {
		return false
	}
	if f.DateFrom != nil && e.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.Date.After(*f.DateTo) {
		return false
	}
	return true
}

// DeriveLedgerEntries expands a posted entry into one ledger row per line.
// Sequence numbers are left to the store.
func DeriveLedgerEntries(entry JournalEntry, accounts map[string]Account) []LedgerEntry {
	rows := make([]LedgerEntry, 0, len(entry.Lines))
	for i, line := range entry.Lines {
		acc := accounts[line.AccountCode]
		desc := line.Description
		if desc == "" {
			desc = entry.Memo
		}
		rows = append(rows, LedgerEntry{
			JournalID:    entry.JournalID,
			LineNumber:   i + 1,
			AccountCode:  line.AccountCode,
			AccountName:  acc.Name,
			AccountType:  acc.AccountType,
			AccountTag:   acc.Tag,
			Debit:        line.Debit,
			Credit:       line.Credit,
			Date:         entry.Date,
			Reference:    entry.Reference,
			Description:  desc,
			SourceModule: entry.SourceModule,
			AuditFields:  entry.AuditFields,
		})
	}
	return rows
}

// LedgerDate truncates t to its UTC calendar day. Ledger dates carry no time of day.
func LedgerDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
