package domain

import (
	"errors"
	"fmt"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
)

// ErrUnknownAccount is returned when an account code has no chart-of-accounts entry.
var ErrUnknownAccount = fmt.Errorf("unknown account: %w", apperrors.ErrNotFound)

// ErrEntryNotFound is returned when a journal entry lookup finds nothing.
var ErrEntryNotFound = fmt.Errorf("journal entry not found: %w", apperrors.ErrNotFound)

// ValidationErrorKind names the invariant a draft violated.
type ValidationErrorKind string

const (
	TooFewLines      ValidationErrorKind = "TOO_FEW_LINES"
	TooManyLines     ValidationErrorKind = "TOO_MANY_LINES"
	UnknownAccount   ValidationErrorKind = "UNKNOWN_ACCOUNT"
	InvalidLine      ValidationErrorKind = "INVALID_LINE"
	NegativeAmount   ValidationErrorKind = "NEGATIVE_AMOUNT"
	AmountOutOfRange ValidationErrorKind = "AMOUNT_OUT_OF_RANGE"
	Unbalanced       ValidationErrorKind = "UNBALANCED"
	ZeroAmountEntry  ValidationErrorKind = "ZERO_AMOUNT_ENTRY"
)

// ValidationError reports the first invariant a draft journal entry failed.
type ValidationError struct {
	Kind        ValidationErrorKind
	Index       int    // zero-based line index for line-level kinds, -1 for entry totals
	AccountCode string // set for UNKNOWN_ACCOUNT
	TotalDebit  Amount // set for UNBALANCED
	TotalCredit Amount // set for UNBALANCED
	Currency    Currency
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case TooFewLines:
		return "journal entry must have at least two lines"
	case TooManyLines:
		return fmt.Sprintf("journal entry must have at most %d lines", MaxJournalLines)
	case UnknownAccount:
		return fmt.Sprintf("line %d: unknown account %q", e.Index+1, e.AccountCode)
	case InvalidLine:
		return fmt.Sprintf("line %d: exactly one of debit or credit must be non-zero", e.Index+1)
	case NegativeAmount:
		return fmt.Sprintf("line %d: debit and credit must not be negative", e.Index+1)
	case AmountOutOfRange:
		if e.Index < 0 {
			return "journal entry totals are out of range"
		}
		return fmt.Sprintf("line %d: amount exceeds %s", e.Index+1, e.Currency.Display(MaxAmount))
	case Unbalanced:
		return fmt.Sprintf("debits %s ≠ credits %s", e.Currency.Display(e.TotalDebit), e.Currency.Display(e.TotalCredit))
	case ZeroAmountEntry:
		return "journal entry total must be greater than zero"
	}
	return string(e.Kind)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// PostingErrorKind separates caller mistakes from infrastructure failures.
type PostingErrorKind string

const (
	PostingInvalid        PostingErrorKind = "INVALID"
	PostingStorageFailure PostingErrorKind = "STORAGE_FAILURE"
)

// PostingError is the only error type Post returns for a rejected or failed posting.
// An INVALID posting carries the validation error; a STORAGE_FAILURE left no partial
// state behind and may be retried.
type PostingError struct {
	Kind       PostingErrorKind
	Validation *ValidationError
	Err        error
}

// NewInvalidPostingError wraps a validation failure.
func NewInvalidPostingError(verr *ValidationError) *PostingError {
	return &PostingError{Kind: PostingInvalid, Validation: verr}
}

// NewStoragePostingError wraps a storage failure so that it always matches apperrors.ErrStorage.
func NewStoragePostingError(err error) *PostingError {
	if !errors.Is(err, apperrors.ErrStorage) {
		err = fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	return &PostingError{Kind: PostingStorageFailure, Err: err}
}

func (e *PostingError) Error() string {
	if e.Validation != nil {
		return "posting rejected: " + e.Validation.Error()
	}
	if e.Err != nil {
		return "posting failed: " + e.Err.Error()
	}
	return "posting failed"
}

func (e *PostingError) Unwrap() error {
	if e.Validation != nil {
		return e.Validation
	}
	return e.Err
}
