package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/darkstore_ledger/internal/models"
	"github.com/SscSPs/darkstore_ledger/internal/utils/mapping"
)

const accountColumns = `code, name, account_type, tag, description, created_at, created_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.Code,
		modelAcc.Name,
		modelAcc.AccountType,
		modelAcc.Tag,
		modelAcc.Description,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, modelAcc.Code)
		}
		return apperrors.NewStorageError("failed to save account "+modelAcc.Code, err)
	}
	return nil
}

// SaveAccountsIfAbsent inserts every account whose code is not present yet, in one transaction.
func (r *PgxAccountRepository) SaveAccountsIfAbsent(ctx context.Context, accounts []domain.Account) (int, error) {
	if len(accounts) == 0 {
		return 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (code) DO NOTHING;`
	batch := &pgx.Batch{}
	for _, account := range accounts {
		m := mapping.ToModelAccount(account)
		batch.Queue(query, m.Code, m.Name, m.AccountType, m.Tag, m.Description, m.CreatedAt, m.CreatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range accounts {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, apperrors.NewStorageError("failed to seed accounts", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, apperrors.NewStorageError("failed to seed accounts", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return inserted, nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	rows, err := r.Pool.Query(ctx, query, code)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to find account "+code, err)
	}
	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("failed to find account "+code, err)
	}
	account := mapping.ToDomainAccount(modelAcc)
	return &account, nil
}

// FindAccountsByCodes retrieves the accounts for codes in one query.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to find accounts", err)
	}
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan accounts", err)
	}
	for _, m := range modelAccs {
		result[m.Code] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

// ListAccounts retrieves the whole chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list accounts", err)
	}
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan accounts", err)
	}

	accounts := make([]domain.Account, len(modelAccs))
	for i, m := range modelAccs {
		accounts[i] = mapping.ToDomainAccount(m)
	}
	return accounts, nil
}
