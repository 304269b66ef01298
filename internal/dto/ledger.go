package dto

import (
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// LedgerEntriesParams defines query parameters for the ledger listing.
type LedgerEntriesParams struct {
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
	AccountCode string `form:"accountCode"`
}

// LedgerEntryResponse defines the data returned for a ledger row.
type LedgerEntryResponse struct {
	Sequence     int64               `json:"sequence"`
	JournalID    string              `json:"journalID"`
	LineNumber   int                 `json:"lineNumber"`
	AccountCode  string              `json:"accountCode"`
	AccountName  string              `json:"accountName"`
	AccountType  domain.AccountType  `json:"accountType"`
	Debit        string              `json:"debit"`
	Credit       string              `json:"credit"`
	Date         string              `json:"date"`
	Reference    string              `json:"reference"`
	Description  string              `json:"description,omitempty"`
	SourceModule domain.SourceModule `json:"sourceModule"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedBy    string              `json:"createdBy"`
}

// ListLedgerEntriesResponse wraps ledger rows.
type ListLedgerEntriesResponse struct {
	LedgerEntries []LedgerEntryResponse `json:"ledgerEntries"`
}

// LedgerSummaryResponse defines the data returned for a ledger summary.
type LedgerSummaryResponse struct {
	GeneralLedgerBalance string `json:"generalLedgerBalance"`
	ReceivablesBalance   string `json:"receivablesBalance"`
	PayablesBalance      string `json:"payablesBalance"`
	TotalDebits          string `json:"totalDebits"`
	TotalCredits         string `json:"totalCredits"`
	CurrencyCode         string `json:"currencyCode"`
	AsOfDate             string `json:"asOfDate"`
}

// LedgerSummaryEnvelope wraps a summary.
type LedgerSummaryEnvelope struct {
	Summary LedgerSummaryResponse `json:"summary"`
}

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       string             `json:"debit"`
	Credit      string             `json:"credit"`
}

// TrialBalanceTotals holds the column totals of a trial balance.
type TrialBalanceTotals struct {
	Debit    string `json:"debit"`
	Credit   string `json:"credit"`
	Balanced bool   `json:"balanced"`
}

// TrialBalanceResponse defines the data returned for a trial balance.
type TrialBalanceResponse struct {
	Rows         []TrialBalanceRowResponse `json:"rows"`
	Totals       TrialBalanceTotals        `json:"totals"`
	CurrencyCode string                    `json:"currencyCode"`
	AsOfDate     string                    `json:"asOfDate"`
}

// ToLedgerEntryResponses converts domain ledger rows.
func ToLedgerEntryResponses(entries []domain.LedgerEntry, cur domain.Currency) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			Sequence:     e.Sequence,
			JournalID:    e.JournalID,
			LineNumber:   e.LineNumber,
			AccountCode:  e.AccountCode,
			AccountName:  e.AccountName,
			AccountType:  e.AccountType,
			Debit:        cur.FormatAmount(e.Debit),
			Credit:       cur.FormatAmount(e.Credit),
			Date:         e.Date.Format(DateLayout),
			Reference:    e.Reference,
			Description:  e.Description,
			SourceModule: e.SourceModule,
			CreatedAt:    e.CreatedAt,
			CreatedBy:    e.CreatedBy,
		}
	}
	return res
}

// ToLedgerSummaryResponse converts a domain.LedgerSummary.
func ToLedgerSummaryResponse(s *domain.LedgerSummary, cur domain.Currency) LedgerSummaryResponse {
	return LedgerSummaryResponse{
		GeneralLedgerBalance: cur.FormatAmount(s.GeneralLedgerBalance),
		ReceivablesBalance:   cur.FormatAmount(s.ReceivablesBalance),
		PayablesBalance:      cur.FormatAmount(s.PayablesBalance),
		TotalDebits:          cur.FormatAmount(s.TotalDebits),
		TotalCredits:         cur.FormatAmount(s.TotalCredits),
		CurrencyCode:         cur.CurrencyCode,
		AsOfDate:             s.AsOfDate.Format(DateLayout),
	}
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance, cur domain.Currency) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       cur.FormatAmount(r.Debit),
			Credit:      cur.FormatAmount(r.Credit),
		}
	}
	return TrialBalanceResponse{
		Rows: rows,
		Totals: TrialBalanceTotals{
			Debit:    cur.FormatAmount(tb.TotalDebits),
			Credit:   cur.FormatAmount(tb.TotalCredits),
			Balanced: tb.TotalDebits == tb.TotalCredits,
		},
		CurrencyCode: cur.CurrencyCode,
		AsOfDate:     tb.AsOfDate.Format(DateLayout),
	}
}

// AccountAmountResponse is one account line of a financial report.
type AccountAmountResponse struct {
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	NetAmount   string `json:"netAmount"`
}

// ProfitAndLossResponse defines the data returned for a profit and loss report.
type ProfitAndLossResponse struct {
	Revenue       []AccountAmountResponse `json:"revenue"`
	Expenses      []AccountAmountResponse `json:"expenses"`
	TotalRevenue  string                  `json:"totalRevenue"`
	TotalExpenses string                  `json:"totalExpenses"`
	NetProfit     string                  `json:"netProfit"`
	CurrencyCode  string                  `json:"currencyCode"`
	From          string                  `json:"from,omitempty"`
	To            string                  `json:"to"`
}

// BalanceSheetResponse defines the data returned for a balance sheet.
type BalanceSheetResponse struct {
	Assets           []AccountAmountResponse `json:"assets"`
	Liabilities      []AccountAmountResponse `json:"liabilities"`
	Equity           []AccountAmountResponse `json:"equity"`
	RetainedEarnings string                  `json:"retainedEarnings"`
	TotalAssets      string                  `json:"totalAssets"`
	TotalLiabilities string                  `json:"totalLiabilities"`
	TotalEquity      string                  `json:"totalEquity"`
	Balanced         bool                    `json:"balanced"`
	CurrencyCode     string                  `json:"currencyCode"`
	AsOfDate         string                  `json:"asOfDate"`
}

func toAccountAmountResponses(amounts []domain.AccountAmount, cur domain.Currency) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{
			AccountCode: a.AccountCode,
			AccountName: a.AccountName,
			NetAmount:   cur.FormatAmount(a.NetAmount),
		}
	}
	return res
}

// ToProfitAndLossResponse converts a domain.ProfitAndLoss.
func ToProfitAndLossResponse(pl *domain.ProfitAndLoss, cur domain.Currency) ProfitAndLossResponse {
	res := ProfitAndLossResponse{
		Revenue:       toAccountAmountResponses(pl.Revenue, cur),
		Expenses:      toAccountAmountResponses(pl.Expenses, cur),
		TotalRevenue:  cur.FormatAmount(pl.TotalRevenue),
		TotalExpenses: cur.FormatAmount(pl.TotalExpenses),
		NetProfit:     cur.FormatAmount(pl.NetProfit),
		CurrencyCode:  cur.CurrencyCode,
		To:            pl.To.Format(DateLayout),
	}
	if pl.From != nil {
		res.From = pl.From.Format(DateLayout)
	}
	return res
}

// ToBalanceSheetResponse converts a domain.BalanceSheet.
func ToBalanceSheetResponse(bs *domain.BalanceSheet, cur domain.Currency) BalanceSheetResponse {
	return BalanceSheetResponse{
		Assets:           toAccountAmountResponses(bs.Assets, cur),
		Liabilities:      toAccountAmountResponses(bs.Liabilities, cur),
		Equity:           toAccountAmountResponses(bs.Equity, cur),
		RetainedEarnings: cur.FormatAmount(bs.RetainedEarnings),
		TotalAssets:      cur.FormatAmount(bs.TotalAssets),
		TotalLiabilities: cur.FormatAmount(bs.TotalLiabilities),
		TotalEquity:      cur.FormatAmount(bs.TotalEquity),
		Balanced:         bs.Balanced(),
		CurrencyCode:     cur.CurrencyCode,
		AsOfDate:         bs.AsOfDate.Format(DateLayout),
	}
}
