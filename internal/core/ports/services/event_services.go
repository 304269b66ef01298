package services

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// JournalEventPublisher announces committed postings to downstream consumers.
// Delivery is best effort; a failed publish never undoes a posting.
type JournalEventPublisher interface {
	PublishJournalPosted(ctx context.Context, evt domain.JournalPostedEvent) error
	Close() error
}

// PostingMetrics records posting outcomes.
type PostingMetrics interface {
	ObservePosting(outcome string, sourceModule domain.SourceModule, seconds float64)
	ObserveSummaryCache(hit bool)
}
