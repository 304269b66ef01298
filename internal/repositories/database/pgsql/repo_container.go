package pgsql

import (
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		LedgerStore: ledgerRepo,
	}
}
