// posthog_client.go provides a wrapper around the posthog.Client to make it easier to use and handle when its not initialized.
package utils

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// DefaultPosthogEndpoint is used when no endpoint is configured.
const DefaultPosthogEndpoint = "https://eu.i.posthog.com"

// PosthogClientWrapper is safe to use uninitialized; every call becomes a no-op.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey string, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{}
	}
	if endpoint == "" {
		endpoint = DefaultPosthogEndpoint
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	if w.logger != nil {
		w.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctId), slog.String("event", event))
	}
	if err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	}); err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// PublishJournalPosted records a posting as a product analytics event attributed to its creator.
// Amounts are sent in minor units.
func (w *PosthogClientWrapper) PublishJournalPosted(_ context.Context, evt domain.JournalPostedEvent) error {
	if !w.IsInitialized() {
		return nil
	}
	props := map[string]any{
		"journal_id":    evt.JournalID,
		"source_module": string(evt.SourceModule),
		"entry_date":    evt.Date.Format("2006-01-02"),
		"total_minor":   int64(evt.Total),
		"currency":      evt.CurrencyCode,
		"line_count":    evt.LineCount,
		"is_reversal":   evt.ReversesJournalID != "",
	}
	w.Enqueue(evt.CreatedBy, evt.EventType, props)
	return nil
}

func (w *PosthogClientWrapper) Close() error {
	if !w.IsInitialized() {
		return nil
	}
	return w.posthogClient.Close()
}
