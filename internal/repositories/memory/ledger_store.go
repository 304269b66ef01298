package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/darkstore_ledger/internal/utils/pagination"
)

const defaultListLimit = 20

// LedgerStore is an append-only ledger held in process memory.
// Readers never observe a partially appended entry: rows are staged outside
// the shared slices and published in one critical section.
type LedgerStore struct {
	mu sync.RWMutex

	entries       []domain.JournalEntry // append order
	byID          map[string]int
	byIdempotency map[string]string
	reversedBy    map[string]string
	rows          []domain.LedgerEntry // append order, which is sequence order
	entrySequence int64
	rowSequence   int64
	beforePublish func(domain.JournalEntry) error
}

// LedgerStoreOption configures a LedgerStore.
type LedgerStoreOption func(*LedgerStore)

// WithBeforePublish installs a hook that runs after an entry is staged and before
// it becomes visible. A non-nil error aborts the append with nothing written.
func WithBeforePublish(hook func(domain.JournalEntry) error) LedgerStoreOption {
	return func(s *LedgerStore) {
		s.beforePublish = hook
	}
}

// NewLedgerStore creates an empty ledger.
func NewLedgerStore(options ...LedgerStoreOption) *LedgerStore {
	s := &LedgerStore{
		byID:          make(map[string]int),
		byIdempotency: make(map[string]string),
		reversedBy:    make(map[string]string),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portsrepo.LedgerStore = (*LedgerStore)(nil)

// AppendEntry implements portsrepo.LedgerAppender
func (s *LedgerStore) AppendEntry(ctx context.Context, entry domain.JournalEntry, rows []domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("append aborted", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[entry.JournalID]; exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.JournalID)
	}
	if entry.IdempotencyKey != "" {
		if _, taken := s.byIdempotency[entry.IdempotencyKey]; taken {
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		}
	}
	if entry.ReversesJournalID != "" {
		if _, ok := s.byID[entry.ReversesJournalID]; !ok {
			return apperrors.NewStorageError("reversed entry missing", fmt.Errorf("%w: %s", apperrors.ErrNotFound, entry.ReversesJournalID))
		}
		if _, reversed := s.reversedBy[entry.ReversesJournalID]; reversed {
			return fmt.Errorf("%w: journal entry already reversed", apperrors.ErrConflict)
		}
	}

	// Stage
	staged := cloneEntry(entry)
	staged.Sequence = s.entrySequence + 1
	stagedRows := make([]domain.LedgerEntry, len(rows))
	for i, row := range rows {
		row.Sequence = s.rowSequence + int64(i) + 1
		stagedRows[i] = row
	}

	if s.beforePublish != nil {
		if err := s.beforePublish(staged); err != nil {
			return apperrors.NewStorageError("failed to append journal entry "+entry.JournalID, err)
		}
	}

	// Publish
	s.entrySequence = staged.Sequence
	s.rowSequence += int64(len(stagedRows))
	s.byID[staged.JournalID] = len(s.entries)
	s.entries = append(s.entries, staged)
	s.rows = append(s.rows, stagedRows...)
	if staged.IdempotencyKey != "" {
		s.byIdempotency[staged.IdempotencyKey] = staged.JournalID
	}
	if staged.ReversesJournalID != "" {
		s.reversedBy[staged.ReversesJournalID] = staged.JournalID
	}
	return nil
}

// FindEntryByID implements portsrepo.LedgerReader
func (s *LedgerStore) FindEntryByID(_ context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	entry := cloneEntry(s.entries[idx])
	return &entry, nil
}

// FindEntryByIdempotencyKey implements portsrepo.LedgerReader
func (s *LedgerStore) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	journalID, ok := s.byIdempotency[key]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindEntryByID(ctx, journalID)
}

// QueryLedgerEntries implements portsrepo.LedgerReader
func (s *LedgerStore) QueryLedgerEntries(_ context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	result := make([]domain.LedgerEntry, 0, len(s.rows))
	for _, row := range s.rows {
		if filter.Matches(row) {
			result = append(result, row)
		}
	}
	s.mu.RUnlock()

	// Rows are already in sequence order; a stable sort keeps it within a date.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// ListEntries implements portsrepo.LedgerReader
func (s *LedgerStore) ListEntries(_ context.Context, limit int, nextToken *string, sourceModule domain.SourceModule) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	hasCursor := nextToken != nil && *nextToken != ""
	var (
		cursorDate     time.Time
		cursorSequence int64
	)
	if hasCursor {
		date, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursorDate, cursorSequence = date, seq
	}

	s.mu.RLock()
	candidates := make([]domain.JournalEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if sourceModule != "" && entry.SourceModule != sourceModule {
			continue
		}
		if hasCursor && !pagination.Before(entry.Date, entry.Sequence, cursorDate, cursorSequence) {
			continue
		}
		candidates = append(candidates, cloneEntry(entry))
	}
	s.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		return pagination.Before(candidates[j].Date, candidates[j].Sequence, candidates[i].Date, candidates[i].Sequence)
	})

	var next *string
	if len(candidates) > limit {
		last := candidates[limit-1]
		token := pagination.EncodeToken(last.Date, last.Sequence)
		next = &token
		candidates = candidates[:limit]
	}
	return candidates, next, nil
}

func cloneEntry(entry domain.JournalEntry) domain.JournalEntry {
	entry.Lines = append([]domain.JournalEntryLine(nil), entry.Lines...)
	return entry
}
