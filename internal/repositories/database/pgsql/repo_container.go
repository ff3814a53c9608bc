package pgsql

import (
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	clientRepo := newPgxClientRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:     NewTransactionManager(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		TxnRepo:       newPgxTransactionRepository(dbPool),
		SettingRepo:   newPgxSettingRepository(dbPool),
		ReferenceRepo: newPgxReferenceRepository(dbPool),
		OrderRepo:     newPgxOrderRepository(dbPool),
		ParcelRepo:    newPgxParcelRepository(dbPool),
		TransportRepo: newPgxTransportRepository(dbPool),
		CostRepo:      newPgxCostRepository(dbPool),
		ClientRepo:    clientRepo,
		ProductRepo:   clientRepo,
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
