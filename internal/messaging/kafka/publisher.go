package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
)

// messageWriter is the part of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher implements portssvc.JournalEventPublisher using Kafka.
// Messages are keyed by journal id so one entry's events stay on one partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	return newPublisher(newWriter(brokers, topic), topic, logger)
}

// newWriter hashes message keys onto partitions.
func newWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
}

func newPublisher(w messageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger}
}

var _ portssvc.JournalEventPublisher = (*Publisher)(nil)

// PublishJournalPosted sends evt as JSON.
func (p *Publisher) PublishJournalPosted(ctx context.Context, evt domain.JournalPostedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.EventType, err)
	}

	p.logger.DebugContext(ctx, "publishing event",
		"topic", p.topic,
		"event_type", evt.EventType,
		"journal_id", evt.JournalID,
		"payload_size", len(payload),
	)

	msg := kafkago.Message{
		Key:   []byte(evt.JournalID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "source_module", Value: []byte(evt.SourceModule)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending messages and shuts down the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
