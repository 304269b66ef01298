package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/pkg/config"
)

// ContainerDeps carries the optional collaborators wired into the services.
type ContainerDeps struct {
	Publisher portssvc.JournalEventPublisher
	Metrics   portssvc.PostingMetrics
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps ContainerDeps) (*portssvc.ServiceContainer, error) {
	currency := cfg.LedgerCurrency()

	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	// The projector is shared: reports read through it and postings invalidate it
	projector, err := NewBalanceProjector(
		repos.LedgerStore,
		repos.AccountRepo,
		WithSummaryCacheSize(cfg.SummaryCacheSize),
		WithProjectorMetrics(deps.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create balance projector: %w", err)
	}
	container.Reporting = projector

	container.Journal = NewPostingService(
		repos.LedgerStore,
		container.Account,
		projector,
		currency,
		WithEventPublisher(deps.Publisher),
		WithPostingMetrics(deps.Metrics),
	)

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*postingService)(nil)
	_ portssvc.ReportingService = (*balanceProjector)(nil)
)
