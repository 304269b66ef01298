package services

import (
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// JournalValidator checks a draft against the structural and balance invariants
// of double-entry bookkeeping. It is pure: the same draft and accounts always
// produce the same result, and it never touches storage.
type JournalValidator struct {
	currency domain.Currency
}

// NewJournalValidator creates a validator that renders amounts in currency.
func NewJournalValidator(currency domain.Currency) *JournalValidator {
	return &JournalValidator{currency: currency}
}

// Validate runs the checks in a fixed order and returns the first violation as a
// *domain.ValidationError. accounts must contain every known code referenced by the draft.
func (v *JournalValidator) Validate(draft domain.JournalEntryDraft, accounts map[string]domain.Account) (*domain.ValidatedEntry, error) {
	if len(draft.Lines) < 2 {
		return nil, v.fail(domain.ValidationError{Kind: domain.TooFewLines})
	}
	if len(draft.Lines) > domain.MaxJournalLines {
		return nil, v.fail(domain.ValidationError{Kind: domain.TooManyLines})
	}

	for i, line := range draft.Lines {
		if _, ok := accounts[line.AccountCode]; !ok {
			return nil, v.fail(domain.ValidationError{Kind: domain.UnknownAccount, Index: i, AccountCode: line.AccountCode})
		}
	}

	for i, line := range draft.Lines {
		if (line.Debit != 0) == (line.Credit != 0) {
			return nil, v.fail(domain.ValidationError{Kind: domain.InvalidLine, Index: i})
		}
	}

	for i, line := range draft.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, v.fail(domain.ValidationError{Kind: domain.NegativeAmount, Index: i})
		}
	}

	for i, line := range draft.Lines {
		if line.Debit > domain.MaxAmount || line.Credit > domain.MaxAmount {
			return nil, v.fail(domain.ValidationError{Kind: domain.AmountOutOfRange, Index: i})
		}
	}

	totalDebit, totalCredit, err := domain.SumLines(draft.Lines)
	if err != nil {
		return nil, v.fail(domain.ValidationError{Kind: domain.AmountOutOfRange, Index: -1})
	}
	if totalDebit != totalCredit {
		return nil, v.fail(domain.ValidationError{Kind: domain.Unbalanced, TotalDebit: totalDebit, TotalCredit: totalCredit})
	}

	// Unreachable while the line checks above hold.
	if totalDebit == 0 {
		return nil, v.fail(domain.ValidationError{Kind: domain.ZeroAmountEntry})
	}

	resolved := make(map[string]domain.Account, len(draft.Lines))
	for _, line := range draft.Lines {
		resolved[line.AccountCode] = accounts[line.AccountCode]
	}

	return &domain.ValidatedEntry{
		Draft:    draft,
		Accounts: resolved,
		Total:    totalDebit,
	}, nil
}

func (v *JournalValidator) fail(verr domain.ValidationError) *domain.ValidationError {
	verr.Currency = v.currency
	return &verr
}
