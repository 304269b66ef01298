package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
)

// AccountRepository keeps the chart of accounts in process memory.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewAccountRepository creates an empty chart of accounts.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Code]; exists {
		return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
	}
	r.accounts[account.Code] = account
	return nil
}

func (r *AccountRepository) SaveAccountsIfAbsent(_ context.Context, accounts []domain.Account) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, account := range accounts {
		if _, exists := r.accounts[account.Code]; exists {
			continue
		}
		r.accounts[account.Code] = account
		inserted++
	}
	return inserted, nil
}

func (r *AccountRepository) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *AccountRepository) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if account, ok := r.accounts[code]; ok {
			result[code] = account
		}
	}
	return result, nil
}

func (r *AccountRepository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}
