package domain

// Amount is a monetary value in integer minor units (paise, cents) of the ledger currency.
// All balance arithmetic happens on Amount; decimals only appear at the API boundary.
type Amount int64

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsNegative() bool { return a < 0 }
func (a Amount) IsPositive() bool { return a > 0 }
