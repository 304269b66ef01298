package services

import (
	"context"
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// LedgerQuerySvc exposes raw ledger rows
type LedgerQuerySvc interface {
	// QueryLedgerEntries returns ledger rows matching filter, ordered by date then sequence.
	QueryLedgerEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
}

// BalanceProjectorSvc derives balances by folding ledger rows
type BalanceProjectorSvc interface {
	// Summarize computes the ledger summary over entries dated on or before asOf.
	Summarize(ctx context.Context, asOf time.Time) (*domain.LedgerSummary, error)

	// AccountBalance computes the signed balance of one account as of asOf.
	AccountBalance(ctx context.Context, code string, asOf time.Time) (*domain.AccountBalance, error)

	// TrialBalance lists the net balance of every account with activity as of asOf.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// ProfitAndLoss nets revenue and expenses dated within [from, to]. A nil from has no lower bound.
	ProfitAndLoss(ctx context.Context, from *time.Time, to time.Time) (*domain.ProfitAndLoss, error)

	// BalanceSheet lists asset, liability and equity balances as of asOf.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// Invalidate drops cached projections for periods on or after from.
	Invalidate(from time.Time)
}

// ReportingService combines ledger queries and projections
type ReportingService interface {
	LedgerQuerySvc
	BalanceProjectorSvc
}
