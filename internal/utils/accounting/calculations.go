package accounting

import (
	"fmt"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a debit/credit pair based on account type.
// This is used by the balance projector and the repositories to keep one accounting convention.
func CalculateSignedAmount(debit, credit domain.Amount, accountType domain.AccountType) (domain.Amount, error) {
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit - credit, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit - debit, nil
	default:
		return 0, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SignedLedgerAmount is CalculateSignedAmount applied to a ledger row.
func SignedLedgerAmount(e domain.LedgerEntry) (domain.Amount, error) {
	signed, err := CalculateSignedAmount(e.Debit, e.Credit, e.AccountType)
	if err != nil {
		return 0, fmt.Errorf("ledger row %s/%d (%s): %w", e.JournalID, e.LineNumber, e.AccountCode, err)
	}
	return signed, nil
}

// SplitBalance places a signed balance into the debit or credit column of a trial balance,
// according to the account's normal side.
func SplitBalance(balance domain.Amount, accountType domain.AccountType) (debit, credit domain.Amount) {
	if accountType.IsDebitNormal() {
		balance = -balance
	}
	// balance is now credit-positive
	if balance >= 0 {
		return 0, balance
	}
	return -balance, 0
}
