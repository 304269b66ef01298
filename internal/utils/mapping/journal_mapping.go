package mapping

import (
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/SscSPs/darkstore_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry.
// Lines are mapped separately with ToModelJournalEntryLines.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalID:         d.JournalID,
		EntryDate:         d.Date,
		Reference:         d.Reference,
		Memo:              d.Memo,
		Status:            models.JournalStatus(d.Status),
		SourceModule:      string(d.SourceModule),
		IdempotencyKey:    nullableString(d.IdempotencyKey),
		ReversesJournalID: nullableString(d.ReversesJournalID),
		Sequence:          d.Sequence,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	return domain.JournalEntry{
		JournalID:         m.JournalID,
		Date:              m.EntryDate,
		Reference:         m.Reference,
		Memo:              m.Memo,
		Lines:             ToDomainJournalEntryLines(lines),
		Status:            domain.JournalStatus(m.Status),
		SourceModule:      domain.SourceModule(m.SourceModule),
		IdempotencyKey:    derefString(m.IdempotencyKey),
		ReversesJournalID: derefString(m.ReversesJournalID),
		Sequence:          m.Sequence,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLines converts the lines of a domain JournalEntry, numbering them from 1
func ToModelJournalEntryLines(d domain.JournalEntry) []models.JournalEntryLine {
	ms := make([]models.JournalEntryLine, len(d.Lines))
	for i, l := range d.Lines {
		ms[i] = models.JournalEntryLine{
			JournalID:   d.JournalID,
			LineNumber:  i + 1,
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       int64(l.Debit),
			Credit:      int64(l.Credit),
		}
	}
	return ms
}

// ToDomainJournalEntryLines converts model lines, assumed ordered by line number
func ToDomainJournalEntryLines(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.JournalEntryLine{
			AccountCode: m.AccountCode,
			Description: m.Description,
			Debit:       domain.Amount(m.Debit),
			Credit:      domain.Amount(m.Credit),
		}
	}
	return ds
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		Sequence:     d.Sequence,
		JournalID:    d.JournalID,
		LineNumber:   d.LineNumber,
		AccountCode:  d.AccountCode,
		AccountName:  d.AccountName,
		AccountType:  models.AccountType(d.AccountType),
		AccountTag:   nullableString(string(d.AccountTag)),
		Debit:        int64(d.Debit),
		Credit:       int64(d.Credit),
		EntryDate:    d.Date,
		Reference:    d.Reference,
		Description:  d.Description,
		SourceModule: string(d.SourceModule),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		JournalID:    m.JournalID,
		LineNumber:   m.LineNumber,
		AccountCode:  m.AccountCode,
		AccountName:  m.AccountName,
		AccountType:  domain.AccountType(m.AccountType),
		AccountTag:   domain.AccountTag(derefString(m.AccountTag)),
		Debit:        domain.Amount(m.Debit),
		Credit:       domain.Amount(m.Credit),
		Date:         m.EntryDate,
		Reference:    m.Reference,
		Description:  m.Description,
		SourceModule: domain.SourceModule(m.SourceModule),
		Sequence:     m.Sequence,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
