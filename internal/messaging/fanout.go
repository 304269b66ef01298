package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
)

// FanoutPublisher delivers each event to every configured sink.
// A failing sink does not stop delivery to the others.
type FanoutPublisher struct {
	sinks  []portssvc.JournalEventPublisher
	logger *slog.Logger
}

// NewFanoutPublisher drops nil sinks.
func NewFanoutPublisher(logger *slog.Logger, sinks ...portssvc.JournalEventPublisher) *FanoutPublisher {
	f := &FanoutPublisher{logger: logger}
	for _, sink := range sinks {
		if sink != nil {
			f.sinks = append(f.sinks, sink)
		}
	}
	return f
}

var _ portssvc.JournalEventPublisher = (*FanoutPublisher)(nil)

func (f *FanoutPublisher) PublishJournalPosted(ctx context.Context, evt domain.JournalPostedEvent) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.PublishJournalPosted(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FanoutPublisher) Close() error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Close(); err != nil {
			f.logger.Warn("Failed to close event sink", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sinks are configured.
func (f *FanoutPublisher) Len() int { return len(f.sinks) }
