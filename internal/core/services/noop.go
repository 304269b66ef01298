package services

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
)

type noopPublisher struct{}

func (noopPublisher) PublishJournalPosted(context.Context, domain.JournalPostedEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }

type noopMetrics struct{}

func (noopMetrics) ObservePosting(string, domain.SourceModule, float64) {}
func (noopMetrics) ObserveSummaryCache(bool)                            {}

var (
	_ portssvc.JournalEventPublisher = noopPublisher{}
	_ portssvc.PostingMetrics        = noopMetrics{}
)
