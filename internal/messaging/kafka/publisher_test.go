package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() domain.JournalPostedEvent {
	return domain.JournalPostedEvent{
		EventID:      "evt-1",
		EventType:    domain.EventJournalEntryPosted,
		JournalID:    "j-1",
		Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SourceModule: domain.SourcePayments,
		Total:        50000,
		CurrencyCode: "INR",
		LineCount:    2,
		CreatedBy:    "ops@darkstore",
	}
}

func TestPublisher_WritesKeyedJSONWithHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "ledger.journal-entries", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, p.PublishJournalPosted(context.Background(), testEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "j-1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, domain.EventJournalEntryPosted, headers["event_type"])
	assert.Equal(t, "evt-1", headers["event_id"])
	assert.Equal(t, "PAYMENTS", headers["source_module"])

	var decoded domain.JournalPostedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, domain.Amount(50000), decoded.Total)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newPublisher(w, "ledger.journal-entries", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := p.PublishJournalPosted(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.journal-entries")
}

func TestNewWriter_KeysPickPartition(t *testing.T) {
	w := newWriter([]string{"kafka-1:9092"}, "ledger.journal-entries")
	defer w.Close()

	_, ok := w.Balancer.(*kafkago.Hash)
	require.True(t, ok, "balancer %T ignores message keys", w.Balancer)

	// The same journal id always lands on the same partition.
	msg := kafkago.Message{Key: []byte("journal-1")}
	first := w.Balancer.Balance(msg, 0, 1, 2, 3, 4, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, w.Balancer.Balance(msg, 0, 1, 2, 3, 4, 5))
	}
}
