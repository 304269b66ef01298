package repositories

import (
	"context"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByCode retrieves a specific account by its code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts in one call, keyed by code.
	// Codes without an account are simply absent from the result.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
// There is deliberately no update or delete: accounts referenced by posted entries are immutable.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if the code exists.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccountsIfAbsent inserts the accounts whose codes are not yet present and
	// returns how many were inserted.
	SaveAccountsIfAbsent(ctx context.Context, accounts []domain.Account) (int, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
