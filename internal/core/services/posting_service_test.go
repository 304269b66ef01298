package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/core/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
	"github.com/SscSPs/darkstore_ledger/internal/repositories/memory"
)

// --- Mock JournalEventPublisher ---
type MockPublisher struct {
	mock.Mock
}

var _ portssvc.JournalEventPublisher = (*MockPublisher)(nil)

func (m *MockPublisher) PublishJournalPosted(ctx context.Context, evt domain.JournalPostedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingMetrics keeps every posting outcome in call order.
type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	hits     int
	misses   int
}

func (r *recordingMetrics) ObservePosting(outcome string, _ domain.SourceModule, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) ObserveSummaryCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingMetrics) Outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outcomes...)
}

// --- Test Suite Setup ---

type PostingServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	now        time.Time
	failAppend error
	repos      portsrepo.RepositoryProvider
	publisher  *MockPublisher
	metrics    *recordingMetrics
	reporting  portssvc.ReportingService
	service    portssvc.JournalSvcFacade
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 4, 2, 15, 4, 5, 0, time.UTC)
	suite.failAppend = nil
	suite.publisher = new(MockPublisher)
	suite.metrics = &recordingMetrics{}
	clock := func() time.Time { return suite.now }

	suite.repos = memory.NewRepositoryProvider(memory.WithBeforePublish(func(domain.JournalEntry) error {
		return suite.failAppend
	}))
	accounts := services.NewAccountService(suite.repos.AccountRepo)
	suite.Require().NoError(accounts.Seed(suite.ctx, services.DefaultChartOfAccounts()))

	reporting, err := services.NewBalanceProjector(suite.repos.LedgerStore, suite.repos.AccountRepo,
		services.WithProjectorClock(clock),
		services.WithProjectorMetrics(suite.metrics))
	suite.Require().NoError(err)
	suite.reporting = reporting

	suite.service = services.NewPostingService(suite.repos.LedgerStore, accounts, reporting, domain.DefaultCurrency,
		services.WithEventPublisher(suite.publisher),
		services.WithPostingMetrics(suite.metrics),
		services.WithPostingClock(clock))
}

func orderDraft(ref string, amount domain.Amount) domain.JournalEntryDraft {
	return domain.JournalEntryDraft{
		Date:         time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC),
		Reference:    ref,
		Memo:         "Order payment",
		SourceModule: domain.SourcePayments,
		Lines: []domain.JournalEntryLine{
			debit("1010-Cash", amount),
			credit("4000-Revenue", amount),
		},
	}
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPost_Success() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.MatchedBy(func(evt domain.JournalPostedEvent) bool {
		return evt.EventType == domain.EventJournalEntryPosted &&
			evt.Total == 50000 &&
			evt.LineCount == 2 &&
			evt.CurrencyCode == "INR"
	})).Return(nil).Once()

	entry, replayed, err := suite.service.Post(suite.ctx, orderDraft(" ORD-1001 ", 50000), "ops-admin")

	suite.Require().NoError(err)
	suite.False(replayed)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.JournalID)
	suite.Equal("ORD-1001", entry.Reference)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), entry.Date)
	suite.Equal("ops-admin", entry.CreatedBy)
	suite.Equal(suite.now, entry.CreatedAt)

	rows, err := suite.reporting.QueryLedgerEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("Cash", rows[0].AccountName)
	suite.Equal("Order payment", rows[0].Description)
	suite.Equal(entry.JournalID, rows[1].JournalID)

	suite.Equal([]string{services.OutcomePosted}, suite.metrics.Outcomes())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_DefaultsSourceModule() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	draft := orderDraft("ADJ-1", 100)
	draft.SourceModule = ""

	entry, _, err := suite.service.Post(suite.ctx, draft, "ops-admin")

	suite.Require().NoError(err)
	suite.Equal(domain.SourceManual, entry.SourceModule)
}

func (suite *PostingServiceTestSuite) TestPost_IdempotentReplay() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil).Once()
	draft := orderDraft("ORD-2001", 12000)
	draft.IdempotencyKey = "order-2001-capture"

	first, replayed, err := suite.service.Post(suite.ctx, draft, "ops-admin")
	suite.Require().NoError(err)
	suite.False(replayed)

	second, replayed, err := suite.service.Post(suite.ctx, draft, "ops-admin")
	suite.Require().NoError(err)
	suite.True(replayed)
	suite.Equal(first.JournalID, second.JournalID)

	rows, err := suite.reporting.QueryLedgerEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Len(rows, 2)
	suite.Equal([]string{services.OutcomePosted, services.OutcomeReplayed}, suite.metrics.Outcomes())
	suite.publisher.AssertNumberOfCalls(suite.T(), "PublishJournalPosted", 1)
}

func (suite *PostingServiceTestSuite) TestPost_ConcurrentSameKeyPostsOnce() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	draft := orderDraft("ORD-3001", 999)
	draft.IdempotencyKey = "retry-storm"

	const workers = 20
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, _, err := suite.service.Post(suite.ctx, draft, "ops-admin")
			if err == nil {
				ids[i] = entry.JournalID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		suite.Equal(ids[0], id)
	}
	entries, _, err := suite.service.ListEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 100})
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *PostingServiceTestSuite) TestPost_InvalidDraft() {
	draft := orderDraft("ORD-4001", 100)
	draft.Lines[1].Credit = 90

	entry, replayed, err := suite.service.Post(suite.ctx, draft, "ops-admin")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.False(replayed)
	suite.ErrorIs(err, apperrors.ErrValidation)

	var perr *domain.PostingError
	suite.Require().True(errors.As(err, &perr))
	suite.Equal(domain.PostingInvalid, perr.Kind)
	suite.Equal(domain.Unbalanced, perr.Validation.Kind)

	rows, err := suite.reporting.QueryLedgerEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Empty(rows)
	suite.Equal([]string{services.OutcomeInvalid}, suite.metrics.Outcomes())
	suite.publisher.AssertNotCalled(suite.T(), "PublishJournalPosted", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_WrappingTotalsRejected() {
	// 18447 debits of the maximum line amount wrap int64 onto this credit.
	draft := orderDraft("ORD-4003", 0)
	draft.Lines = nil
	for i := 0; i < 18447; i++ {
		draft.Lines = append(draft.Lines, debit("1010-Cash", domain.MaxAmount))
	}
	draft.Lines = append(draft.Lines, credit("4000-Revenue", 255_926_290_448_384))

	entry, _, err := suite.service.Post(suite.ctx, draft, "ops-admin")

	suite.Require().Error(err)
	suite.Nil(entry)
	var perr *domain.PostingError
	suite.Require().True(errors.As(err, &perr))
	suite.Equal(domain.PostingInvalid, perr.Kind)
	suite.Equal(domain.TooManyLines, perr.Validation.Kind)

	rows, err := suite.reporting.QueryLedgerEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Empty(rows)
}

func (suite *PostingServiceTestSuite) TestPost_UnknownAccount() {
	draft := orderDraft("ORD-4002", 100)
	draft.Lines[0].AccountCode = "1999-Missing"

	_, _, err := suite.service.Post(suite.ctx, draft, "ops-admin")

	var verr *domain.ValidationError
	suite.Require().True(errors.As(err, &verr))
	suite.Equal(domain.UnknownAccount, verr.Kind)
	suite.Equal(0, verr.Index)
	suite.Equal("1999-Missing", verr.AccountCode)
}

func (suite *PostingServiceTestSuite) TestPost_StorageFailureLeavesNothing() {
	suite.failAppend = errors.New("disk full")

	entry, _, err := suite.service.Post(suite.ctx, orderDraft("ORD-5001", 100), "ops-admin")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrStorage)
	var perr *domain.PostingError
	suite.Require().True(errors.As(err, &perr))
	suite.Equal(domain.PostingStorageFailure, perr.Kind)

	rows, err := suite.reporting.QueryLedgerEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	suite.Empty(rows)
	suite.publisher.AssertNotCalled(suite.T(), "PublishJournalPosted", mock.Anything, mock.Anything)

	// Retrying after the store recovers succeeds.
	suite.failAppend = nil
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil).Once()
	_, _, err = suite.service.Post(suite.ctx, orderDraft("ORD-5001", 100), "ops-admin")
	suite.Require().NoError(err)
	suite.Equal([]string{services.OutcomeStorageFailure, services.OutcomePosted}, suite.metrics.Outcomes())
}

func (suite *PostingServiceTestSuite) TestPost_PublishFailureDoesNotFailPosting() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	entry, _, err := suite.service.Post(suite.ctx, orderDraft("ORD-6001", 100), "ops-admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	_, err = suite.service.GetEntry(suite.ctx, entry.JournalID)
	suite.NoError(err)
}

func (suite *PostingServiceTestSuite) TestPost_CancelledCallerStillCompletes() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil).Once()
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	entry, _, err := suite.service.Post(ctx, orderDraft("ORD-6002", 100), "ops-admin")

	suite.Require().NoError(err)
	_, err = suite.service.GetEntry(suite.ctx, entry.JournalID)
	suite.NoError(err)
}

func (suite *PostingServiceTestSuite) TestReverseEntry() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	original, _, err := suite.service.Post(suite.ctx, orderDraft("ORD-7001", 50000), "ops-admin")
	suite.Require().NoError(err)

	reversal, err := suite.service.ReverseEntry(suite.ctx, original.JournalID, "finance-lead", "")

	suite.Require().NoError(err)
	suite.NotEqual(original.JournalID, reversal.JournalID)
	suite.Equal("REV-ORD-7001", reversal.Reference)
	suite.Equal("Reversal of "+original.JournalID, reversal.Memo)
	suite.Equal(original.JournalID, reversal.ReversesJournalID)
	suite.Equal(domain.LedgerDate(suite.now), reversal.Date)
	suite.Equal("finance-lead", reversal.CreatedBy)
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal(domain.Amount(50000), reversal.Lines[0].Credit)
	suite.Equal(domain.Amount(50000), reversal.Lines[1].Debit)

	// The original is untouched.
	stored, err := suite.service.GetEntry(suite.ctx, original.JournalID)
	suite.Require().NoError(err)
	suite.Equal(original.Lines, stored.Lines)

	cash, err := suite.reporting.AccountBalance(suite.ctx, "1010-Cash", time.Time{})
	suite.Require().NoError(err)
	suite.Equal(domain.Amount(0), cash.Balance)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_KeepsFutureDate() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	draft := orderDraft("ORD-7002", 100)
	draft.Date = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	original, _, err := suite.service.Post(suite.ctx, draft, "ops-admin")
	suite.Require().NoError(err)

	reversal, err := suite.service.ReverseEntry(suite.ctx, original.JournalID, "ops-admin", "wrong store")

	suite.Require().NoError(err)
	suite.Equal(draft.Date, reversal.Date)
	suite.Equal("wrong store", reversal.Memo)
}

func (suite *PostingServiceTestSuite) TestReverseEntry_Twice() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	original, _, err := suite.service.Post(suite.ctx, orderDraft("ORD-7003", 100), "ops-admin")
	suite.Require().NoError(err)
	reversal, err := suite.service.ReverseEntry(suite.ctx, original.JournalID, "ops-admin", "")
	suite.Require().NoError(err)

	_, err = suite.service.ReverseEntry(suite.ctx, original.JournalID, "ops-admin", "")
	suite.ErrorIs(err, apperrors.ErrConflict)

	_, err = suite.service.ReverseEntry(suite.ctx, reversal.JournalID, "ops-admin", "")
	suite.ErrorIs(err, apperrors.ErrConflict)

	outcomes := suite.metrics.Outcomes()
	suite.Equal(services.OutcomeConflict, outcomes[len(outcomes)-1])
}

func (suite *PostingServiceTestSuite) TestReverseEntry_NotFound() {
	_, err := suite.service.ReverseEntry(suite.ctx, "no-such-entry", "ops-admin", "")

	suite.ErrorIs(err, domain.ErrEntryNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestListEntries_UnknownSourceModule() {
	_, _, err := suite.service.ListEntries(suite.ctx, dto.ListJournalEntriesParams{SourceModule: "SHIPPING"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestListEntries_Paginates() {
	suite.publisher.On("PublishJournalPosted", mock.Anything, mock.Anything).Return(nil)
	for _, ref := range []string{"A", "B", "C"} {
		_, _, err := suite.service.Post(suite.ctx, orderDraft(ref, 100), "ops-admin")
		suite.Require().NoError(err)
	}

	page, next, err := suite.service.ListEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.Require().NotNil(next)
	suite.Equal("C", page[0].Reference)
	suite.Equal("B", page[1].Reference)

	page, next, err = suite.service.ListEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 2, NextToken: next})
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal("A", page[0].Reference)
	suite.Nil(next)
}

// --- Run Test Suite ---

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func TestPostingOutcomeConstants(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"posted", "replayed", "invalid", "storage_failure", "conflict"},
		[]string{services.OutcomePosted, services.OutcomeReplayed, services.OutcomeInvalid, services.OutcomeStorageFailure, services.OutcomeConflict})
}
