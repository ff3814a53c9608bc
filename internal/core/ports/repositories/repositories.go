package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager     TransactionManager
	AccountRepo   AccountRepositoryFacade
	TxnRepo       TransactionRepositoryFacade
	SettingRepo   SettingRepositoryFacade
	ReferenceRepo ReferenceRepository
	OrderRepo     OrderRepositoryFacade
	ParcelRepo    ParcelRepositoryFacade
	TransportRepo TransportRepositoryFacade
	CostRepo      CostRepositoryFacade
	ClientRepo    ClientRepositoryFacade
	ProductRepo   ProductRepositoryFacade
	ReportingRepo ReportingRepository
}
