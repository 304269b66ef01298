package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAmountPrecision is returned when a wire amount carries more fractional digits
// than the ledger currency allows.
var ErrAmountPrecision = errors.New("amount exceeds currency precision")

// ErrAmountOverflow is returned when a wire amount exceeds MaxAmount.
var ErrAmountOverflow = errors.New("amount out of range")

// MaxAmount bounds a single line amount. See MaxJournalLines for the entry-level bound.
const MaxAmount Amount = 1_000_000_000_000_000

// Currency describes the single currency a ledger is kept in.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g., "INR"
	Symbol       string `json:"symbol"`       // e.g., "₹"
	Precision    int32  `json:"precision"`    // number of minor-unit digits, 2 for paise/cents
}

// DefaultCurrency is used when no ledger currency is configured.
var DefaultCurrency = Currency{CurrencyCode: "INR", Symbol: "₹", Precision: 2}

func (c Currency) orDefault() Currency {
	if c.CurrencyCode == "" {
		return DefaultCurrency
	}
	return c
}

// ToDecimal converts minor units into a decimal in major units.
func (c Currency) ToDecimal(a Amount) decimal.Decimal {
	return decimal.New(int64(a), -c.orDefault().Precision)
}

// FromDecimal converts a major-unit decimal into minor units.
// The conversion is exact; extra fractional digits are rejected rather than rounded.
func (c Currency) FromDecimal(d decimal.Decimal) (Amount, error) {
	shifted := d.Shift(c.orDefault().Precision)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrAmountPrecision)
	}
	if shifted.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrAmountOverflow)
	}
	return Amount(shifted.IntPart()), nil
}

// ParseAmount parses a decimal string such as "1245.50" into minor units.
func (c Currency) ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return c.FromDecimal(d)
}

// FormatAmount renders minor units as a fixed-precision decimal string, e.g. "120.00".
func (c Currency) FormatAmount(a Amount) string {
	cur := c.orDefault()
	return cur.ToDecimal(a).StringFixed(cur.Precision)
}

// Display renders an amount for humans, e.g. "₹120.00".
func (c Currency) Display(a Amount) string {
	cur := c.orDefault()
	if a < 0 {
		return "-" + cur.Symbol + cur.FormatAmount(-a)
	}
	return cur.Symbol + cur.FormatAmount(a)
}
