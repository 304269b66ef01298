package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/utils/accounting"
)

const defaultSummaryCacheSize = 256

// balanceProjector folds ledger rows into balances. It owns no state besides a
// cache of summaries, which can be dropped at any time without losing data.
// The cache only sees postings made through this process; replicas sharing one
// database run with the cache disabled.
type balanceProjector struct {
	BaseService
	ledger    portsrepo.LedgerReader
	accounts  portsrepo.AccountReader
	metrics   portssvc.PostingMetrics
	cacheSize int

	mu         sync.Mutex
	generation uint64
	summaries  *lru.Cache[int64, domain.LedgerSummary]
}

// ProjectorOption is a functional option for configuring the balance projector
type ProjectorOption func(*balanceProjector)

// WithSummaryCacheSize sets how many as-of dates keep a cached summary.
// Zero disables the cache.
func WithSummaryCacheSize(size int) ProjectorOption {
	return func(p *balanceProjector) {
		if size >= 0 {
			p.cacheSize = size
		}
	}
}

// WithProjectorMetrics records cache hits and misses.
func WithProjectorMetrics(m portssvc.PostingMetrics) ProjectorOption {
	return func(p *balanceProjector) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithProjectorClock overrides the clock used when no as-of date is supplied.
func WithProjectorClock(now func() time.Time) ProjectorOption {
	return func(p *balanceProjector) {
		p.now = now
	}
}

// NewBalanceProjector creates the reporting service backed by ledger.
func NewBalanceProjector(ledger portsrepo.LedgerReader, accounts portsrepo.AccountReader, options ...ProjectorOption) (portssvc.ReportingService, error) {
	p := &balanceProjector{
		BaseService: newBaseService("projector"),
		ledger:      ledger,
		accounts:    accounts,
		metrics:     noopMetrics{},
		cacheSize:   defaultSummaryCacheSize,
	}

	// Apply all options
	for _, option := range options {
		option(p)
	}

	if p.cacheSize == 0 {
		return p, nil
	}
	cache, err := lru.New[int64, domain.LedgerSummary](p.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}
	p.summaries = cache
	return p, nil
}

// Ensure balanceProjector implements the ReportingService interface
var _ portssvc.ReportingService = (*balanceProjector)(nil)

func (p *balanceProjector) asOfOrToday(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return domain.LedgerDate(p.Now())
	}
	return domain.LedgerDate(asOf)
}

func (p *balanceProjector) QueryLedgerEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	if filter.DateFrom != nil {
		from := domain.LedgerDate(*filter.DateFrom)
		filter.DateFrom = &from
	}
	if filter.DateTo != nil {
		to := domain.LedgerDate(*filter.DateTo)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, fmt.Errorf("%w: dateFrom must not be after dateTo", apperrors.ErrValidation)
	}

	entries, err := p.ledger.QueryLedgerEntries(ctx, filter)
	if err != nil {
		p.LogError(ctx, err, "Failed to query ledger entries", slog.String("account_code", filter.AccountCode))
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return entries, nil
}

// Summarize implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) Summarize(ctx context.Context, asOf time.Time) (*domain.LedgerSummary, error) {
	asOf = p.asOfOrToday(asOf)
	key := asOf.Unix()

	p.mu.Lock()
	generation := p.generation
	var cached domain.LedgerSummary
	ok := false
	if p.summaries != nil {
		cached, ok = p.summaries.Get(key)
	}
	p.mu.Unlock()
	if p.summaries != nil {
		p.metrics.ObserveSummaryCache(ok)
	}
	if ok {
		return &cached, nil
	}

	rows, err := p.ledger.QueryLedgerEntries(ctx, domain.LedgerFilter{DateTo: &asOf})
	if err != nil {
		p.LogError(ctx, err, "Failed to load ledger for summary", slog.Time("as_of", asOf))
		return nil, fmt.Errorf("failed to load ledger for summary: %w", err)
	}

	summary, err := FoldSummary(rows, asOf)
	if err != nil {
		p.LogError(ctx, err, "Failed to fold ledger summary", slog.Time("as_of", asOf))
		return nil, err
	}

	// An invalidation that ran while we were folding means rows may be stale.
	p.mu.Lock()
	if p.summaries != nil && p.generation == generation {
		p.summaries.Add(key, summary)
	}
	p.mu.Unlock()

	p.LogDebug(ctx, "Ledger summary computed", slog.Time("as_of", asOf), slog.Int("rows", len(rows)))
	return &summary, nil
}

// AccountBalance implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) AccountBalance(ctx context.Context, code string, asOf time.Time) (*domain.AccountBalance, error) {
	asOf = p.asOfOrToday(asOf)

	account, err := p.accounts.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, code)
		}
		p.LogError(ctx, err, "Failed to resolve account for balance", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to resolve account %s: %w", code, err)
	}

	rows, err := p.ledger.QueryLedgerEntries(ctx, domain.LedgerFilter{DateTo: &asOf, AccountCode: code})
	if err != nil {
		p.LogError(ctx, err, "Failed to load ledger for account balance", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to load ledger for account %s: %w", code, err)
	}

	var debit, credit domain.Amount
	for _, row := range rows {
		debit += row.Debit
		credit += row.Credit
	}
	balance, err := accounting.CalculateSignedAmount(debit, credit, account.AccountType)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", code, err)
	}

	return &domain.AccountBalance{
		AccountCode: code,
		AccountType: account.AccountType,
		Balance:     balance,
		AsOfDate:    asOf,
	}, nil
}

// TrialBalance implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = p.asOfOrToday(asOf)

	rows, err := p.ledger.QueryLedgerEntries(ctx, domain.LedgerFilter{DateTo: &asOf})
	if err != nil {
		p.LogError(ctx, err, "Failed to load ledger for trial balance", slog.Time("as_of", asOf))
		return nil, fmt.Errorf("failed to load ledger for trial balance: %w", err)
	}

	tb, err := FoldTrialBalance(rows, asOf)
	if err != nil {
		p.LogError(ctx, err, "Failed to fold trial balance", slog.Time("as_of", asOf))
		return nil, err
	}
	if tb.TotalDebits != tb.TotalCredits {
		p.LogError(ctx, errors.New("trial balance out of balance"), "Ledger integrity check failed",
			slog.Int64("total_debits", int64(tb.TotalDebits)),
			slog.Int64("total_credits", int64(tb.TotalCredits)))
	}
	return tb, nil
}

// ProfitAndLoss implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) ProfitAndLoss(ctx context.Context, from *time.Time, to time.Time) (*domain.ProfitAndLoss, error) {
	to = p.asOfOrToday(to)
	filter := domain.LedgerFilter{DateTo: &to}
	if from != nil {
		start := domain.LedgerDate(*from)
		if start.After(to) {
			return nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
		}
		from = &start
		filter.DateFrom = from
	}

	rows, err := p.ledger.QueryLedgerEntries(ctx, filter)
	if err != nil {
		p.LogError(ctx, err, "Failed to load ledger for profit and loss", slog.Time("to", to))
		return nil, fmt.Errorf("failed to load ledger for profit and loss: %w", err)
	}

	pl, err := FoldProfitAndLoss(rows, from, to)
	if err != nil {
		p.LogError(ctx, err, "Failed to fold profit and loss", slog.Time("to", to))
		return nil, err
	}
	p.LogInfo(ctx, "Profit and loss report generated",
		slog.Time("to", to),
		slog.Int("revenue_accounts", len(pl.Revenue)),
		slog.Int("expense_accounts", len(pl.Expenses)))
	return pl, nil
}

// BalanceSheet implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = p.asOfOrToday(asOf)

	rows, err := p.ledger.QueryLedgerEntries(ctx, domain.LedgerFilter{DateTo: &asOf})
	if err != nil {
		p.LogError(ctx, err, "Failed to load ledger for balance sheet", slog.Time("as_of", asOf))
		return nil, fmt.Errorf("failed to load ledger for balance sheet: %w", err)
	}

	bs, err := FoldBalanceSheet(rows, asOf)
	if err != nil {
		p.LogError(ctx, err, "Failed to fold balance sheet", slog.Time("as_of", asOf))
		return nil, err
	}
	if !bs.Balanced() {
		p.LogError(ctx, errors.New("balance sheet out of balance"), "Ledger integrity check failed",
			slog.Int64("total_assets", int64(bs.TotalAssets)),
			slog.Int64("total_liabilities", int64(bs.TotalLiabilities)),
			slog.Int64("total_equity", int64(bs.TotalEquity)))
	}
	return bs, nil
}

// Invalidate implements portssvc.BalanceProjectorSvc
func (p *balanceProjector) Invalidate(from time.Time) {
	threshold := domain.LedgerDate(from).Unix()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if p.summaries == nil {
		return
	}
	for _, key := range p.summaries.Keys() {
		if key >= threshold {
			p.summaries.Remove(key)
		}
	}
}

// FoldSummary derives a ledger summary from rows dated on or before asOf.
// It is a pure function of its input.
func FoldSummary(rows []domain.LedgerEntry, asOf time.Time) (domain.LedgerSummary, error) {
	summary := domain.LedgerSummary{AsOfDate: asOf}
	for _, row := range rows {
		if row.Date.After(asOf) {
			continue
		}
		signed, err := accounting.SignedLedgerAmount(row)
		if err != nil {
			return domain.LedgerSummary{}, err
		}
		summary.TotalDebits += row.Debit
		summary.TotalCredits += row.Credit
		summary.GeneralLedgerBalance += signed
		switch row.AccountTag {
		case domain.Receivable:
			summary.ReceivablesBalance += signed
		case domain.Payable:
			summary.PayablesBalance += signed
		}
	}
	return summary, nil
}

type accountNet struct {
	code        string
	name        string
	accountType domain.AccountType
	balance     domain.Amount
}

// netByAccount sums the type-signed amount of each kept row per account,
// returning accounts sorted by code.
func netByAccount(rows []domain.LedgerEntry, keep func(domain.LedgerEntry) bool) ([]accountNet, error) {
	byCode := make(map[string]*accountNet)
	for _, row := range rows {
		if !keep(row) {
			continue
		}
		signed, err := accounting.SignedLedgerAmount(row)
		if err != nil {
			return nil, err
		}
		acc, ok := byCode[row.AccountCode]
		if !ok {
			acc = &accountNet{code: row.AccountCode, name: row.AccountName, accountType: row.AccountType}
			byCode[row.AccountCode] = acc
		}
		acc.balance += signed
	}

	nets := make([]accountNet, 0, len(byCode))
	for _, acc := range byCode {
		nets = append(nets, *acc)
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].code < nets[j].code })
	return nets, nil
}

func onOrBefore(asOf time.Time) func(domain.LedgerEntry) bool {
	return func(row domain.LedgerEntry) bool { return !row.Date.After(asOf) }
}

func (n accountNet) amount() domain.AccountAmount {
	return domain.AccountAmount{AccountCode: n.code, AccountName: n.name, NetAmount: n.balance}
}

// FoldTrialBalance nets rows per account and places each balance on its natural side.
func FoldTrialBalance(rows []domain.LedgerEntry, asOf time.Time) (*domain.TrialBalance, error) {
	nets, err := netByAccount(rows, onOrBefore(asOf))
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{Rows: make([]domain.TrialBalanceRow, 0, len(nets)), AsOfDate: asOf}
	for _, acc := range nets {
		debit, credit := accounting.SplitBalance(acc.balance, acc.accountType)
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountCode: acc.code,
			AccountName: acc.name,
			AccountType: acc.accountType,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebits += debit
		tb.TotalCredits += credit
	}
	return tb, nil
}

// FoldProfitAndLoss nets revenue and expense rows dated within [from, to].
// A nil from folds everything up to to.
func FoldProfitAndLoss(rows []domain.LedgerEntry, from *time.Time, to time.Time) (*domain.ProfitAndLoss, error) {
	nets, err := netByAccount(rows, func(row domain.LedgerEntry) bool {
		if row.AccountType != domain.Revenue && row.AccountType != domain.Expense {
			return false
		}
		if from != nil && row.Date.Before(*from) {
			return false
		}
		return !row.Date.After(to)
	})
	if err != nil {
		return nil, err
	}

	pl := &domain.ProfitAndLoss{
		Revenue:  []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
		From:     from,
		To:       to,
	}
	for _, acc := range nets {
		if acc.accountType == domain.Revenue {
			pl.Revenue = append(pl.Revenue, acc.amount())
			pl.TotalRevenue += acc.balance
		} else {
			pl.Expenses = append(pl.Expenses, acc.amount())
			pl.TotalExpenses += acc.balance
		}
	}
	pl.NetProfit = pl.TotalRevenue - pl.TotalExpenses
	return pl, nil
}

// FoldBalanceSheet nets every row dated on or before asOf into a balance sheet.
func FoldBalanceSheet(rows []domain.LedgerEntry, asOf time.Time) (*domain.BalanceSheet, error) {
	nets, err := netByAccount(rows, onOrBefore(asOf))
	if err != nil {
		return nil, err
	}

	bs := &domain.BalanceSheet{
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
		AsOfDate:    asOf,
	}
	for _, acc := range nets {
		switch acc.accountType {
		case domain.Asset:
			bs.Assets = append(bs.Assets, acc.amount())
			bs.TotalAssets += acc.balance
		case domain.Liability:
			bs.Liabilities = append(bs.Liabilities, acc.amount())
			bs.TotalLiabilities += acc.balance
		case domain.Equity:
			bs.Equity = append(bs.Equity, acc.amount())
			bs.TotalEquity += acc.balance
		case domain.Revenue:
			bs.RetainedEarnings += acc.balance
		case domain.Expense:
			bs.RetainedEarnings -= acc.balance
		}
	}
	bs.TotalEquity += bs.RetainedEarnings
	return bs, nil
}
