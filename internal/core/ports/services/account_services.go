package services

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ResolveAccount returns the account for code or domain.ErrUnknownAccount.
	ResolveAccount(ctx context.Context, code string) (*domain.Account, error)

	// ResolveAccounts resolves many codes in a single lookup. Unknown codes are absent from the map.
	ResolveAccounts(ctx context.Context, codes []string) (map[string]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount registers a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// Seed inserts the given accounts where their codes are absent.
	Seed(ctx context.Context, accounts []domain.Account) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
