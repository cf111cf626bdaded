package services

import (
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// events may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, events portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Registry = NewRegistryService(repos.Store)
	container.Fx = NewFxService(repos.Store, cfg.BaseCurrency)

	container.Posting = NewPostingService(
		repos.Store,
		container.Fx,
		WithFxResultAccount(cfg.FxResultAccountCode),
		WithMaxFxResidual(cfg.FxMaxResidual),
		WithPostingEvents(events),
	)

	// Cheque settlements post through the same engine inside their own transaction.
	container.Cheque = NewChequeService(
		repos.Store,
		container.Posting,
		WithDayCount(cfg.ChequeDayCount),
		WithInterestBase(cfg.ChequeInterestBase),
		WithHoldingAccount(cfg.ChequeHoldingCode),
		WithChequeEvents(events),
	)

	container.Ledger = NewLedgerQueryService(repos.Store)

	return container
}
