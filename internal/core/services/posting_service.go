package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
)

const (
	defaultListLimit = 20
	publishTimeout   = 2 * time.Second
)

// Posting outcomes reported to metrics.
const (
	OutcomePosted         = "posted"
	OutcomeReplayed       = "replayed"
	OutcomeInvalid        = "invalid"
	OutcomeStorageFailure = "storage_failure"
	OutcomeConflict       = "conflict"
)

// postingService is the only writer of financial history.
type postingService struct {
	BaseService
	accountSvc portssvc.AccountReaderSvc
	ledger     portsrepo.LedgerStore
	validator  *JournalValidator
	projector  portssvc.BalanceProjectorSvc
	publisher  portssvc.JournalEventPublisher
	metrics    portssvc.PostingMetrics
	currency   domain.Currency
	newID      func() string
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithEventPublisher publishes journal_entry.posted events after each commit.
func WithEventPublisher(publisher portssvc.JournalEventPublisher) PostingServiceOption {
	return func(s *postingService) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithPostingMetrics records posting outcomes and latencies.
func WithPostingMetrics(m portssvc.PostingMetrics) PostingServiceOption {
	return func(s *postingService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPostingClock overrides the clock used for createdAt.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// WithIDGenerator overrides journal id generation.
func WithIDGenerator(newID func() string) PostingServiceOption {
	return func(s *postingService) {
		s.newID = newID
	}
}

// NewPostingService creates the posting service.
func NewPostingService(
	ledger portsrepo.LedgerStore,
	accountSvc portssvc.AccountReaderSvc,
	projector portssvc.BalanceProjectorSvc,
	currency domain.Currency,
	options ...PostingServiceOption,
) portssvc.JournalSvcFacade {
	svc := &postingService{
		BaseService: newBaseService("posting"),
		accountSvc:  accountSvc,
		ledger:      ledger,
		validator:   NewJournalValidator(currency),
		projector:   projector,
		publisher:   noopPublisher{},
		metrics:     noopMetrics{},
		currency:    currency,
		newID:       func() string { return uuid.NewString() },
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure postingService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*postingService)(nil)

// Post implements portssvc.JournalWriterSvc
func (s *postingService) Post(ctx context.Context, draft domain.JournalEntryDraft, actor string) (*domain.JournalEntry, bool, error) {
	started := time.Now()
	draft = normalizeDraft(draft)
	entry, replayed, err := s.post(ctx, draft, actor)
	s.metrics.ObservePosting(postingOutcome(replayed, err), draft.SourceModule, time.Since(started).Seconds())
	return entry, replayed, err
}

func postingOutcome(replayed bool, err error) string {
	var perr *domain.PostingError
	switch {
	case err == nil && replayed:
		return OutcomeReplayed
	case err == nil:
		return OutcomePosted
	case errors.As(err, &perr) && perr.Kind == domain.PostingInvalid:
		return OutcomeInvalid
	case errors.Is(err, apperrors.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeStorageFailure
	}
}

func (s *postingService) post(ctx context.Context, draft domain.JournalEntryDraft, actor string) (*domain.JournalEntry, bool, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("reference", draft.Reference),
		slog.String("source_module", string(draft.SourceModule)),
	)

	if draft.IdempotencyKey != "" {
		existing, err := s.ledger.FindEntryByIdempotencyKey(ctx, draft.IdempotencyKey)
		if err == nil {
			logger.Info("Replaying journal entry for idempotency key",
				slog.String("journal_id", existing.JournalID),
				slog.String("idempotency_key", draft.IdempotencyKey))
			return existing, true, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to check idempotency key", slog.String("error", err.Error()))
			return nil, false, domain.NewStoragePostingError(err)
		}
	}

	codes := make([]string, len(draft.Lines))
	for i, line := range draft.Lines {
		codes[i] = line.AccountCode
	}
	accounts, err := s.accountSvc.ResolveAccounts(ctx, codes)
	if err != nil {
		logger.Error("Failed to resolve accounts for posting", slog.String("error", err.Error()))
		return nil, false, domain.NewStoragePostingError(err)
	}

	validated, err := s.validator.Validate(draft, accounts)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			logger.Info("Journal entry rejected",
				slog.String("error_kind", string(verr.Kind)),
				slog.String("detail", verr.Error()))
			return nil, false, domain.NewInvalidPostingError(verr)
		}
		return nil, false, domain.NewStoragePostingError(err)
	}

	entry := domain.JournalEntry{
		JournalID:         s.newID(),
		Date:              draft.Date,
		Reference:         draft.Reference,
		Memo:              draft.Memo,
		Lines:             draft.Lines,
		Status:            domain.Posted,
		SourceModule:      draft.SourceModule,
		IdempotencyKey:    draft.IdempotencyKey,
		ReversesJournalID: draft.ReversesJournalID,
		AuditFields: domain.AuditFields{
			CreatedAt: s.Now(),
			CreatedBy: actor,
		},
	}
	rows := domain.DeriveLedgerEntries(entry, validated.Accounts)

	// Once the append starts it must finish or roll back; a caller going away must not abort it.
	if err := s.ledger.AppendEntry(context.WithoutCancel(ctx), entry, rows); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate) && draft.IdempotencyKey != "":
			existing, findErr := s.ledger.FindEntryByIdempotencyKey(ctx, draft.IdempotencyKey)
			if findErr != nil {
				logger.Error("Idempotency key taken but entry not readable", slog.String("error", findErr.Error()))
				return nil, false, domain.NewStoragePostingError(findErr)
			}
			logger.Info("Concurrent posting with same idempotency key, replaying",
				slog.String("journal_id", existing.JournalID))
			return existing, true, nil
		case errors.Is(err, apperrors.ErrConflict):
			return nil, false, err
		default:
			logger.Error("Failed to append journal entry", slog.String("journal_id", entry.JournalID), slog.String("error", err.Error()))
			return nil, false, domain.NewStoragePostingError(err)
		}
	}

	s.projector.Invalidate(entry.Date)
	s.publishPosted(ctx, entry, validated.Total)

	logger.Info("Journal entry posted",
		slog.String("journal_id", entry.JournalID),
		slog.Int("lines", len(entry.Lines)),
		slog.String("total", s.currency.FormatAmount(validated.Total)),
		slog.String("created_by", actor))
	return &entry, false, nil
}

func (s *postingService) publishPosted(ctx context.Context, entry domain.JournalEntry, total domain.Amount) {
	evt := domain.JournalPostedEvent{
		EventID:           uuid.NewString(),
		EventType:         domain.EventJournalEntryPosted,
		JournalID:         entry.JournalID,
		Date:              entry.Date,
		Reference:         entry.Reference,
		SourceModule:      entry.SourceModule,
		Total:             total,
		CurrencyCode:      s.currency.CurrencyCode,
		LineCount:         len(entry.Lines),
		ReversesJournalID: entry.ReversesJournalID,
		CreatedBy:         entry.CreatedBy,
		OccurredAt:        entry.CreatedAt,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishJournalPosted(pubCtx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish journal posted event", slog.String("journal_id", entry.JournalID))
	}
}

func normalizeDraft(draft domain.JournalEntryDraft) domain.JournalEntryDraft {
	draft.Date = domain.LedgerDate(draft.Date)
	draft.Reference = strings.TrimSpace(draft.Reference)
	draft.IdempotencyKey = strings.TrimSpace(draft.IdempotencyKey)
	if draft.SourceModule == "" {
		draft.SourceModule = domain.SourceManual
	}
	draft.Lines = append([]domain.JournalEntryLine(nil), draft.Lines...)
	for i := range draft.Lines {
		draft.Lines[i].AccountCode = strings.TrimSpace(draft.Lines[i].AccountCode)
	}
	return draft
}

// GetEntry implements portssvc.JournalReaderSvc
func (s *postingService) GetEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.ledger.FindEntryByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, journalID)
		}
		s.LogError(ctx, err, "Failed to get journal entry", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to get journal entry %s: %w", journalID, err)
	}
	return entry, nil
}

// ListEntries implements portssvc.JournalReaderSvc
func (s *postingService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	module := domain.SourceModule(params.SourceModule)
	if module != "" && !module.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown source module %q", apperrors.ErrValidation, params.SourceModule)
	}

	entries, next, err := s.ledger.ListEntries(ctx, limit, params.NextToken, module)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to list journal entries", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, next, nil
}

// ReverseEntry implements portssvc.JournalWriterSvc
func (s *postingService) ReverseEntry(ctx context.Context, journalID string, actor string, reason string) (*domain.JournalEntry, error) {
	original, err := s.GetEntry(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.ReversesJournalID != "" {
		return nil, fmt.Errorf("journal entry %s is itself a reversal: %w", journalID, apperrors.ErrConflict)
	}

	lines := make([]domain.JournalEntryLine, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = line.Swapped()
	}

	date := domain.LedgerDate(s.Now())
	if date.Before(original.Date) {
		date = original.Date
	}
	memo := strings.TrimSpace(reason)
	if memo == "" {
		memo = "Reversal of " + original.JournalID
	}

	draft := domain.JournalEntryDraft{
		Date:              date,
		Reference:         "REV-" + original.Reference,
		Memo:              memo,
		SourceModule:      original.SourceModule,
		Lines:             lines,
		ReversesJournalID: original.JournalID,
	}

	reversal, _, err := s.Post(ctx, draft, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("journal entry %s already reversed: %w", journalID, apperrors.ErrConflict)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_journal_id", reversal.JournalID),
		slog.String("reversed_by", actor))
	return reversal, nil
}
