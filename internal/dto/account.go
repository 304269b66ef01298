package dto

import (
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to register a new account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,max=64"`
	Name        string             `json:"name" binding:"required,max=255"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Tag         domain.AccountTag  `json:"tag" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
	Description string             `json:"description"` // Optional
}

// AccountResponse defines the data returned for an account.
// It doubles as the account option used to populate journal line pickers.
type AccountResponse struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Tag         domain.AccountTag  `json:"tag,omitempty"`
	Description string             `json:"description,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:        acc.Code,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Tag:         acc.Tag,
		Description: acc.Description,
		CreatedAt:   acc.CreatedAt,
		CreatedBy:   acc.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountEnvelope wraps a single account.
type AccountEnvelope struct {
	Account AccountResponse `json:"account"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountCode  string             `json:"accountCode"`
	AccountType  domain.AccountType `json:"accountType"`
	Balance      string             `json:"balance"`
	CurrencyCode string             `json:"currencyCode"`
	AsOfDate     string             `json:"asOfDate"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance using the ledger currency.
func ToAccountBalanceResponse(b *domain.AccountBalance, cur domain.Currency) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountCode:  b.AccountCode,
		AccountType:  b.AccountType,
		Balance:      cur.FormatAmount(b.Balance),
		CurrencyCode: cur.CurrencyCode,
		AsOfDate:     b.AsOfDate.Format(DateLayout),
	}
}
