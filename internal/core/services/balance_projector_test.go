package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/core/services"
	"github.com/SscSPs/darkstore_ledger/internal/repositories/memory"
)

type projectorFixture struct {
	ctx       context.Context
	journal   portssvc.JournalSvcFacade
	reporting portssvc.ReportingService
	metrics   *recordingMetrics
}

func newProjectorFixture(t *testing.T, now time.Time, opts ...services.ProjectorOption) *projectorFixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	accounts := services.NewAccountService(repos.AccountRepo)
	require.NoError(t, accounts.Seed(ctx, services.DefaultChartOfAccounts()))

	m := &recordingMetrics{}
	clock := func() time.Time { return now }
	opts = append([]services.ProjectorOption{
		services.WithProjectorClock(clock),
		services.WithProjectorMetrics(m),
		services.WithSummaryCacheSize(8),
	}, opts...)
	reporting, err := services.NewBalanceProjector(repos.LedgerStore, repos.AccountRepo, opts...)
	require.NoError(t, err)

	journal := services.NewPostingService(repos.LedgerStore, accounts, reporting, domain.DefaultCurrency,
		services.WithPostingClock(clock))
	return &projectorFixture{ctx: ctx, journal: journal, reporting: reporting, metrics: m}
}

func (f *projectorFixture) post(t *testing.T, date time.Time, lines ...domain.JournalEntryLine) *domain.JournalEntry {
	t.Helper()
	entry, _, err := f.journal.Post(f.ctx, domain.JournalEntryDraft{
		Date:         date,
		Reference:    "REF-" + date.Format("0102"),
		SourceModule: domain.SourceManual,
		Lines:        lines,
	}, "ops-admin")
	require.NoError(t, err)
	return entry
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestBalanceProjector_CashAndRevenue(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(10), debit("1010-Cash", 50000), credit("4000-Revenue", 50000))

	cash, err := f.reporting.AccountBalance(f.ctx, "1010-Cash", day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(50000), cash.Balance)
	assert.Equal(t, domain.Asset, cash.AccountType)

	revenue, err := f.reporting.AccountBalance(f.ctx, "4000-Revenue", day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(50000), revenue.Balance)

	summary, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(100000), summary.GeneralLedgerBalance)
	assert.Equal(t, summary.TotalDebits, summary.TotalCredits)
}

func TestBalanceProjector_Receivables(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(5), debit("1200-AccountsReceivable", 124500), credit("4000-Revenue", 124500))
	f.post(t, day(6), debit("1020-Bank", 30000), credit("1200-AccountsReceivable", 30000))
	f.post(t, day(7), debit("5000-COGS", 20000), credit("2100-VendorPayables", 20000))

	summary, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(94500), summary.ReceivablesBalance)
	assert.Equal(t, "945.00", domain.DefaultCurrency.FormatAmount(summary.ReceivablesBalance))
	assert.Equal(t, domain.Amount(20000), summary.PayablesBalance)
}

func TestBalanceProjector_AsOfIsInclusive(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(10), debit("1010-Cash", 100), credit("4000-Revenue", 100))
	f.post(t, day(20), debit("1010-Cash", 200), credit("4000-Revenue", 200))

	before, err := f.reporting.AccountBalance(f.ctx, "1010-Cash", day(9))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(0), before.Balance)

	onDay, err := f.reporting.AccountBalance(f.ctx, "1010-Cash", day(10).Add(13*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(100), onDay.Balance)
	assert.Equal(t, day(10), onDay.AsOfDate)

	today, err := f.reporting.AccountBalance(f.ctx, "1010-Cash", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(300), today.Balance)
	assert.Equal(t, day(31), today.AsOfDate)
}

func TestBalanceProjector_SummaryIsCachedAndInvalidated(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(10), debit("1010-Cash", 100), credit("4000-Revenue", 100))

	first, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	second, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.metrics.hits)
	assert.Equal(t, 1, f.metrics.misses)

	// A posting dated inside the cached window drops the cached summary.
	f.post(t, day(15), debit("1010-Cash", 50), credit("4000-Revenue", 50))
	third, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(300), third.GeneralLedgerBalance)
	assert.Equal(t, 2, f.metrics.misses)
}

func TestBalanceProjector_SummaryCacheDisabled(t *testing.T) {
	f := newProjectorFixture(t, day(31), services.WithSummaryCacheSize(0))
	f.post(t, day(10), debit("1010-Cash", 100), credit("4000-Revenue", 100))

	first, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	second, err := f.reporting.Summarize(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Zero(t, f.metrics.hits)
	assert.Zero(t, f.metrics.misses)
}

func TestBalanceProjector_SummaryMatchesRefold(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(5), debit("1200-AccountsReceivable", 124500), credit("4000-Revenue", 124500))
	f.post(t, day(6), debit("1020-Bank", 30000), credit("1200-AccountsReceivable", 30000))
	f.post(t, day(7), debit("5000-COGS", 20000), credit("2100-VendorPayables", 20000))
	f.post(t, day(25), debit("1010-Cash", 700), credit("4100-DeliveryFeeRevenue", 700))

	for _, asOf := range []time.Time{day(6), day(20), day(31)} {
		computed, err := f.reporting.Summarize(f.ctx, asOf)
		require.NoError(t, err)
		cached, err := f.reporting.Summarize(f.ctx, asOf)
		require.NoError(t, err)

		rows, err := f.reporting.QueryLedgerEntries(f.ctx, domain.LedgerFilter{DateTo: &asOf})
		require.NoError(t, err)
		refolded, err := services.FoldSummary(rows, asOf)
		require.NoError(t, err)

		assert.Equal(t, refolded, *computed, "as of %s", asOf.Format("2006-01-02"))
		assert.Equal(t, refolded, *cached, "as of %s", asOf.Format("2006-01-02"))
	}
	assert.Equal(t, 3, f.metrics.hits)
}

func TestBalanceProjector_ProfitAndLoss(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(5), debit("1200-AccountsReceivable", 124500), credit("4000-Revenue", 124500))
	f.post(t, day(7), debit("5000-COGS", 20000), credit("2100-VendorPayables", 20000))
	f.post(t, day(20), debit("1010-Cash", 700), credit("4100-DeliveryFeeRevenue", 700))
	f.post(t, day(21), debit("5100-PaymentGatewayFees", 300), credit("1010-Cash", 300))

	pl, err := f.reporting.ProfitAndLoss(f.ctx, nil, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(125200), pl.TotalRevenue)
	assert.Equal(t, domain.Amount(20300), pl.TotalExpenses)
	assert.Equal(t, domain.Amount(104900), pl.NetProfit)
	require.Len(t, pl.Revenue, 2)
	assert.Equal(t, "4000-Revenue", pl.Revenue[0].AccountCode)
	require.Len(t, pl.Expenses, 2)
	assert.Equal(t, day(31), pl.To)

	from := day(20)
	period, err := f.reporting.ProfitAndLoss(f.ctx, &from, day(20))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(700), period.NetProfit)
	assert.Empty(t, period.Expenses)

	inverted := day(25)
	_, err = f.reporting.ProfitAndLoss(f.ctx, &inverted, day(20))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBalanceProjector_BalanceSheet(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(1), debit("1020-Bank", 1000000), credit("3000-OwnersEquity", 1000000))
	f.post(t, day(5), debit("1200-AccountsReceivable", 124500), credit("4000-Revenue", 124500))
	f.post(t, day(7), debit("5000-COGS", 20000), credit("2100-VendorPayables", 20000))

	bs, err := f.reporting.BalanceSheet(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(1124500), bs.TotalAssets)
	assert.Equal(t, domain.Amount(20000), bs.TotalLiabilities)
	assert.Equal(t, domain.Amount(104500), bs.RetainedEarnings)
	assert.Equal(t, domain.Amount(1104500), bs.TotalEquity)
	assert.True(t, bs.Balanced())
	require.Len(t, bs.Equity, 1)
	assert.Equal(t, "3000-OwnersEquity", bs.Equity[0].AccountCode)

	early, err := f.reporting.BalanceSheet(f.ctx, day(1))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(1000000), early.TotalAssets)
	assert.Zero(t, early.RetainedEarnings)
	assert.True(t, early.Balanced())
}

func TestBalanceProjector_TrialBalance(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	f.post(t, day(5), debit("1200-AccountsReceivable", 124500), credit("4000-Revenue", 124500))
	f.post(t, day(6), debit("1010-Cash", 30000), credit("1200-AccountsReceivable", 30000))

	tb, err := f.reporting.TrialBalance(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, tb.TotalDebits, tb.TotalCredits)
	assert.Equal(t, domain.Amount(124500), tb.TotalDebits)
	require.Len(t, tb.Rows, 3)
	assert.Equal(t, "1010-Cash", tb.Rows[0].AccountCode)
	assert.Equal(t, "4000-Revenue", tb.Rows[2].AccountCode)
	assert.Equal(t, domain.Amount(124500), tb.Rows[2].Credit)
	assert.Zero(t, tb.Rows[2].Debit)
}

func TestBalanceProjector_UnknownAccount(t *testing.T) {
	f := newProjectorFixture(t, day(31))

	_, err := f.reporting.AccountBalance(f.ctx, "9999-Nope", time.Time{})
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestBalanceProjector_QueryRejectsInvertedRange(t *testing.T) {
	f := newProjectorFixture(t, day(31))
	from, to := day(20), day(10)

	_, err := f.reporting.QueryLedgerEntries(f.ctx, domain.LedgerFilter{DateFrom: &from, DateTo: &to})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFoldSummary_IgnoresRowsAfterAsOf(t *testing.T) {
	rows := []domain.LedgerEntry{
		{AccountCode: "1010-Cash", AccountType: domain.Asset, Debit: 100, Date: day(1)},
		{AccountCode: "4000-Revenue", AccountType: domain.Revenue, Credit: 100, Date: day(1)},
		{AccountCode: "1010-Cash", AccountType: domain.Asset, Debit: 900, Date: day(2)},
		{AccountCode: "4000-Revenue", AccountType: domain.Revenue, Credit: 900, Date: day(2)},
	}

	summary, err := services.FoldSummary(rows, day(1))
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(200), summary.GeneralLedgerBalance)
	assert.Equal(t, domain.Amount(100), summary.TotalDebits)

	again, err := services.FoldSummary(rows, day(1))
	require.NoError(t, err)
	assert.Equal(t, summary, again)
}
