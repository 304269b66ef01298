package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// AccountTag groups accounts for the ledger summary.
type AccountTag string

const (
	NoTag      AccountTag = ""
	Receivable AccountTag = "RECEIVABLE"
	Payable    AccountTag = "PAYABLE"
)

// IsValid reports whether g is empty or one of the known summary tags.
func (g AccountTag) IsValid() bool {
	return g == NoTag || g == Receivable || g == Payable
}

// Account represents an entry in the chart of accounts.
// Accounts are reference data: they are created once and never edited or removed.
type Account struct {
	Code        string      `json:"code"` // Primary Key (e.g., "1010-Cash")
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Tag         AccountTag  `json:"tag,omitempty"`
	Description string      `json:"description"`
	AuditFields
}
