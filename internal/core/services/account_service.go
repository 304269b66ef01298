package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
)

// accountService implements the chart of accounts
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new chart of accounts service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		BaseService: newBaseService("accounts"),
		accountRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ResolveAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, code)
		}
		s.LogError(ctx, err, "Failed to resolve account", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to resolve account %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) ResolveAccounts(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	unique := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		unique = append(unique, code)
	}
	sort.Strings(unique)

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, unique)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve accounts", slog.Int("count", len(unique)))
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if !req.Tag.IsValid() {
		return nil, fmt.Errorf("%w: invalid account tag %q", apperrors.ErrValidation, req.Tag)
	}

	account := domain.Account{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		AccountType: req.AccountType,
		Tag:         req.Tag,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt: s.Now(),
			CreatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_code", account.Code),
		slog.String("account_type", string(account.AccountType)),
		slog.String("created_by", actor))
	return &account, nil
}

func (s *accountService) Seed(ctx context.Context, accounts []domain.Account) error {
	now := s.Now()
	accounts = append([]domain.Account(nil), accounts...)
	for i := range accounts {
		if !accounts[i].AccountType.IsValid() || !accounts[i].Tag.IsValid() {
			return fmt.Errorf("%w: seed account %s has invalid type or tag", apperrors.ErrValidation, accounts[i].Code)
		}
		if accounts[i].CreatedAt.IsZero() {
			accounts[i].CreatedAt = now
		}
		if accounts[i].CreatedBy == "" {
			accounts[i].CreatedBy = SystemActor
		}
	}

	inserted, err := s.accountRepo.SaveAccountsIfAbsent(ctx, accounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts")
		return fmt.Errorf("failed to seed chart of accounts: %w", err)
	}
	s.LogInfo(ctx, "Chart of accounts seeded",
		slog.Int("inserted", inserted),
		slog.Int("total", len(accounts)))
	return nil
}
