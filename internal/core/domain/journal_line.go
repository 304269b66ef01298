package domain

import "math"

// MaxJournalLines bounds the number of lines in one entry. Together with MaxAmount
// it keeps the totals of any accepted entry below 1e18.
const MaxJournalLines = 1000

// JournalEntryLine is a single debit or credit against one account.
// Exactly one of Debit and Credit is non-zero on a valid line.
type JournalEntryLine struct {
	AccountCode string `json:"accountCode"`
	Description string `json:"description,omitempty"`
	Debit       Amount `json:"debit"`
	Credit      Amount `json:"credit"`
}

// IsDebit reports whether the line moves money on the debit side.
func (l JournalEntryLine) IsDebit() bool {
	return l.Debit != 0
}

// Swapped returns the line with its debit and credit exchanged.
func (l JournalEntryLine) Swapped() JournalEntryLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// SumLines totals both sides of a set of lines. It returns ErrAmountOverflow
// instead of a wrapped total when either side leaves the int64 range.
func SumLines(lines []JournalEntryLine) (debit, credit Amount, err error) {
	var ok bool
	for _, l := range lines {
		if debit, ok = addAmounts(debit, l.Debit); !ok {
			return 0, 0, ErrAmountOverflow
		}
		if credit, ok = addAmounts(credit, l.Credit); !ok {
			return 0, 0, ErrAmountOverflow
		}
	}
	return debit, credit, nil
}

func addAmounts(a, b Amount) (Amount, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}
