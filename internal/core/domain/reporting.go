package domain

import "time"

// LedgerSummary is derived from ledger entries on demand and is never stored.
type LedgerSummary struct {
	GeneralLedgerBalance Amount    `json:"generalLedgerBalance"`
	ReceivablesBalance   Amount    `json:"receivablesBalance"`
	PayablesBalance      Amount    `json:"payablesBalance"`
	TotalDebits          Amount    `json:"totalDebits"`
	TotalCredits         Amount    `json:"totalCredits"`
	AsOfDate             time.Time `json:"asOfDate"`
}

// AccountBalance is the signed balance of one account at a point in time.
type AccountBalance struct {
	AccountCode string      `json:"accountCode"`
	AccountType AccountType `json:"accountType"`
	Balance     Amount      `json:"balance"`
	AsOfDate    time.Time   `json:"asOfDate"`
}

// TrialBalanceRow represents a single row in a trial balance report.
// Exactly one of Debit and Credit carries the account's net balance.
type TrialBalanceRow struct {
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	Debit       Amount      `json:"debit"`
	Credit      Amount      `json:"credit"`
}

// TrialBalance lists every account with activity and the column totals.
type TrialBalance struct {
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  Amount            `json:"totalDebits"`
	TotalCredits Amount            `json:"totalCredits"`
	AsOfDate     time.Time         `json:"asOfDate"`
}

// AccountAmount is one account's net balance with its natural sign.
type AccountAmount struct {
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	NetAmount   Amount `json:"netAmount"`
}

// ProfitAndLoss nets revenue and expense accounts over a period.
type ProfitAndLoss struct {
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  Amount          `json:"totalRevenue"`
	TotalExpenses Amount          `json:"totalExpenses"`
	NetProfit     Amount          `json:"netProfit"` // TotalRevenue - TotalExpenses
	From          *time.Time      `json:"from,omitempty"`
	To            time.Time       `json:"to"`
}

// BalanceSheet lists asset, liability and equity balances at a point in time.
// Revenue and expense activity to date is carried as RetainedEarnings and
// included in TotalEquity, so TotalAssets = TotalLiabilities + TotalEquity.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings Amount          `json:"retainedEarnings"`
	TotalAssets      Amount          `json:"totalAssets"`
	TotalLiabilities Amount          `json:"totalLiabilities"`
	TotalEquity      Amount          `json:"totalEquity"`
	AsOfDate         time.Time       `json:"asOfDate"`
}

// Balanced reports whether the accounting equation holds.
func (b BalanceSheet) Balanced() bool {
	return b.TotalAssets == b.TotalLiabilities+b.TotalEquity
}
