package memory

import portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"

// NewRepositoryProvider wires a fresh in-memory chart of accounts and ledger.
func NewRepositoryProvider(options ...LedgerStoreOption) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewAccountRepository(),
		LedgerStore: NewLedgerStore(options...),
	}
}
