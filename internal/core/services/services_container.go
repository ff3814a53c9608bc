package services

import (
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settings and currency come first since the ledger converts through them
	container.Setting = NewSettingService(repos.SettingRepo, options...)
	container.Currency = NewCurrencyService(container.Setting, cfg.DefaultMadToCfaRate, options...)

	allocator := NewReferenceAllocator(repos.ReferenceRepo, DefaultReferenceAttempts, options...)

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, repos.TxnRepo, options...)
	container.Ledger = NewLedgerService(repos.TxManager, repos.AccountRepo, repos.TxnRepo, allocator, container.Currency, options...)

	container.Order = NewOrderService(repos, allocator, container.Ledger, container.Currency, options...)
	container.Parcel = NewParcelService(repos, allocator, container.Ledger, container.Currency, options...)
	container.Cost = NewCostService(repos, container.Ledger, container.Currency, options...)
	container.Transport = NewTransportService(repos, container.Cost, options...)
	container.Client = NewClientService(repos, allocator, options...)
	container.Reporting = NewReportingService(repos, container.Ledger, container.Currency, options...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade   = (*accountService)(nil)
	_ portssvc.SettingSvcFacade   = (*settingService)(nil)
	_ portssvc.TransportSvcFacade = (*transportService)(nil)
)
