package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

var (
	cash    = domain.Account{Code: "1010", Name: "Cash", AccountType: domain.Asset}
	revenue = domain.Account{Code: "4000", Name: "Revenue", AccountType: domain.Revenue}
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func sale(id string, date time.Time, amount domain.Amount) (domain.JournalEntry, []domain.LedgerEntry) {
	entry := domain.JournalEntry{
		JournalID:    id,
		Date:         date,
		Reference:    "REF-" + id,
		Status:       domain.Posted,
		SourceModule: domain.SourcePayments,
		Lines: []domain.JournalEntryLine{
			{AccountCode: cash.Code, Debit: amount},
			{AccountCode: revenue.Code, Credit: amount},
		},
	}
	accounts := map[string]domain.Account{cash.Code: cash, revenue.Code: revenue}
	return entry, domain.DeriveLedgerEntries(entry, accounts)
}

func TestAppendEntry_AssignsSequencesAndIsReadable(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	entry, rows := sale("j1", day(1), 500)
	require.NoError(t, store.AppendEntry(ctx, entry, rows))

	got, err := store.FindEntryByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Sequence)
	assert.Len(t, got.Lines, 2)

	ledger, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, int64(1), ledger[0].Sequence)
	assert.Equal(t, int64(2), ledger[1].Sequence)
}

func TestAppendEntry_HookFailureLeavesNothingVisible(t *testing.T) {
	boom := errors.New("disk full")
	store := NewLedgerStore(WithBeforePublish(func(e domain.JournalEntry) error {
		if e.JournalID == "bad" {
			return boom
		}
		return nil
	}))
	ctx := context.Background()

	entry, rows := sale("bad", day(1), 500)
	err := store.AppendEntry(ctx, entry, rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = store.FindEntryByID(ctx, "bad")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	ledger, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, ledger)

	// The failed attempt must not consume sequence numbers
	entry, rows = sale("good", day(1), 500)
	require.NoError(t, store.AppendEntry(ctx, entry, rows))
	ledger, err = store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ledger[0].Sequence)
}

func TestAppendEntry_IdempotencyKeyAndReversalConstraints(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	first, rows := sale("j1", day(1), 500)
	first.IdempotencyKey = "order-1"
	require.NoError(t, store.AppendEntry(ctx, first, rows))

	dup, dupRows := sale("j2", day(1), 500)
	dup.IdempotencyKey = "order-1"
	assert.ErrorIs(t, store.AppendEntry(ctx, dup, dupRows), apperrors.ErrDuplicate)

	found, err := store.FindEntryByIdempotencyKey(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "j1", found.JournalID)

	rev, revRows := sale("r1", day(2), 500)
	rev.ReversesJournalID = "j1"
	require.NoError(t, store.AppendEntry(ctx, rev, revRows))

	again, againRows := sale("r2", day(2), 500)
	again.ReversesJournalID = "j1"
	assert.ErrorIs(t, store.AppendEntry(ctx, again, againRows), apperrors.ErrConflict)
}

func TestAppendEntry_CancelledContextWritesNothing(t *testing.T) {
	store := NewLedgerStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry, rows := sale("j1", day(1), 500)
	assert.ErrorIs(t, store.AppendEntry(ctx, entry, rows), apperrors.ErrStorage)

	_, err := store.FindEntryByID(context.Background(), "j1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQueryLedgerEntries_FiltersAndOrdersByDateThenSequence(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	// Posted out of date order on purpose
	e1, r1 := sale("late", day(5), 100)
	e2, r2 := sale("early", day(2), 200)
	require.NoError(t, store.AppendEntry(ctx, e1, r1))
	require.NoError(t, store.AppendEntry(ctx, e2, r2))

	all, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "early", all[0].JournalID)
	assert.Equal(t, "late", all[3].JournalID)

	to := day(3)
	cashOnly, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{DateTo: &to, AccountCode: cash.Code})
	require.NoError(t, err)
	require.Len(t, cashOnly, 1)
	assert.Equal(t, domain.Amount(200), cashOnly[0].Debit)
}

func TestListEntries_NewestFirstWithTokens(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		e, r := sale(fmt.Sprintf("j%d", i), day(i%3+1), domain.Amount(i*100))
		require.NoError(t, store.AppendEntry(ctx, e, r))
	}

	var seen []string
	var token *string
	for page := 0; page < 5; page++ {
		entries, next, err := store.ListEntries(ctx, 2, token, "")
		require.NoError(t, err)
		for _, e := range entries {
			seen = append(seen, e.JournalID)
		}
		if next == nil {
			break
		}
		token = next
	}

	// Dates: j1->2, j2->3, j3->1, j4->2, j5->3
	assert.Equal(t, []string{"j5", "j2", "j4", "j1", "j3"}, seen)
}

func TestListEntries_InvalidToken(t *testing.T) {
	store := NewLedgerStore()
	bad := "not-base64!"
	_, _, err := store.ListEntries(context.Background(), 10, &bad, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAppendEntry_ConcurrentWritersKeepSequencesDense(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, r := sale(fmt.Sprintf("j%d", i), day(1), 100)
			assert.NoError(t, store.AppendEntry(ctx, e, r))
		}(i)
	}
	wg.Wait()

	rows, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, rows, writers*2)
	for i, row := range rows {
		assert.Equal(t, int64(i+1), row.Sequence)
	}
}

func splitSale(id string, parts int) (domain.JournalEntry, []domain.LedgerEntry) {
	entry, _ := sale(id, day(1), domain.Amount(100*parts))
	entry.Lines = entry.Lines[1:]
	for i := 0; i < parts; i++ {
		entry.Lines = append(entry.Lines, domain.JournalEntryLine{AccountCode: cash.Code, Debit: 100})
	}
	accounts := map[string]domain.Account{cash.Code: cash, revenue.Code: revenue}
	return entry, domain.DeriveLedgerEntries(entry, accounts)
}

func TestAppendEntry_ReadersNeverSeePartialEntries(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	const (
		writers = 40
		readers = 8
		parts   = 6
	)

	var done atomic.Bool
	var readerWG sync.WaitGroup
	for r := 0; r < readers; r++ {
		readerWG.Add(1)
		go func() {
			defer readerWG.Done()
			for !done.Load() {
				rows, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
				if !assert.NoError(t, err) {
					return
				}
				counts := make(map[string]int)
				net := make(map[string]domain.Amount)
				for _, row := range rows {
					counts[row.JournalID]++
					net[row.JournalID] += row.Debit - row.Credit
				}
				for id, n := range counts {
					assert.Equal(t, parts+1, n, "journal %s", id)
					assert.Zero(t, net[id], "journal %s", id)
				}
			}
		}()
	}

	var writerWG sync.WaitGroup
	for i := 0; i < writers; i++ {
		writerWG.Add(1)
		go func(i int) {
			defer writerWG.Done()
			e, r := splitSale(fmt.Sprintf("j%d", i), parts)
			assert.NoError(t, store.AppendEntry(ctx, e, r))
		}(i)
	}
	writerWG.Wait()
	done.Store(true)
	readerWG.Wait()

	rows, err := store.QueryLedgerEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, writers*(parts+1))
}

func TestFindEntryByID_ReturnsCopy(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()
	e, r := sale("j1", day(1), 100)
	require.NoError(t, store.AppendEntry(ctx, e, r))

	got, err := store.FindEntryByID(ctx, "j1")
	require.NoError(t, err)
	got.Lines[0].Debit = 999

	again, err := store.FindEntryByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(100), again.Lines[0].Debit)
}
