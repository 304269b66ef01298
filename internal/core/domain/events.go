package domain

import "time"

const EventJournalEntryPosted = "journal_entry.posted"

// JournalPostedEvent is published after a journal entry commits.
type JournalPostedEvent struct {
	EventID           string       `json:"eventID"`
	EventType         string       `json:"eventType"`
	JournalID         string       `json:"journalID"`
	Date              time.Time    `json:"date"`
	Reference         string       `json:"reference"`
	SourceModule      SourceModule `json:"sourceModule"`
	Total             Amount       `json:"total"`
	CurrencyCode      string       `json:"currencyCode"`
	LineCount         int          `json:"lineCount"`
	ReversesJournalID string       `json:"reversesJournalID,omitempty"`
	CreatedBy         string       `json:"createdBy"`
	OccurredAt        time.Time    `json:"occurredAt"`
}
