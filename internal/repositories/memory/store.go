package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
)

// state is one consistent version of the data set.
type state struct {
	accounts map[string]domain.Account
	txns     map[string]domain.FinancialTransaction
	settings map[string]domain.SystemSetting
	orders   map[string]domain.BusinessOrder
	parcels  map[string]domain.ExpressParcel
	waves    map[string]domain.Wave
	legs     map[string]domain.Leg
	costs    map[string]domain.Cost
	clients  map[string]domain.Client
	products map[string]domain.Product
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		txns:     make(map[string]domain.FinancialTransaction),
		settings: make(map[string]domain.SystemSetting),
		orders:   make(map[string]domain.BusinessOrder),
		parcels:  make(map[string]domain.ExpressParcel),
		waves:    make(map[string]domain.Wave),
		legs:     make(map[string]domain.Leg),
		costs:    make(map[string]domain.Cost),
		clients:  make(map[string]domain.Client),
		products: make(map[string]domain.Product),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the maps. Order items are the only nested slices and are
// copied on every read and write, so sharing them between versions is safe.
func (st *state) clone() *state {
	return &state{
		accounts: cloneMap(st.accounts),
		txns:     cloneMap(st.txns),
		settings: cloneMap(st.settings),
		orders:   cloneMap(st.orders),
		parcels:  cloneMap(st.parcels),
		waves:    cloneMap(st.waves),
		legs:     cloneMap(st.legs),
		costs:    cloneMap(st.costs),
		clients:  cloneMap(st.clients),
		products: cloneMap(st.products),
	}
}

// Store keeps every repository in process memory. Units of work are
// serialized and operate on a private copy that replaces the committed
// state only when the unit succeeds, so a failed unit leaves no trace.
// Reads outside a unit only ever see committed data.
type Store struct {
	unit      sync.Mutex   // held for the whole duration of a unit
	mu        sync.RWMutex // guards committed
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

type unitKey struct{}

type unitOfWork struct {
	store *Store
	st    *state
}

func (s *Store) unitFrom(ctx context.Context) *unitOfWork {
	u, ok := ctx.Value(unitKey{}).(*unitOfWork)
	if !ok || u.store != s {
		return nil
	}
	return u
}

// WithinTransaction runs fn in a unit of work, joining the unit already
// carried by ctx if there is one.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.unitFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.unit.Lock()
	defer s.unit.Unlock()

	s.mu.RLock()
	u := &unitOfWork{store: s, st: s.committed.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = u.st
	s.mu.Unlock()
	return nil
}

// view runs fn against the unit's state, or the committed state outside a unit.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if u := s.unitFrom(ctx); u != nil {
		return fn(u.st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// update runs fn against the unit's state. Outside a unit the write gets a unit of its own.
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	if u := s.unitFrom(ctx); u != nil {
		return fn(u.st)
	}
	return s.WithinTransaction(ctx, func(ctx context.Context) error {
		return fn(s.unitFrom(ctx).st)
	})
}

// Repositories exposes the store through every repository port.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     s,
		AccountRepo:   s,
		TxnRepo:       s,
		SettingRepo:   s,
		ReferenceRepo: s,
		OrderRepo:     s,
		ParcelRepo:    s,
		TransportRepo: s,
		CostRepo:      s,
		ClientRepo:    s,
		ProductRepo:   s,
		ReportingRepo: s,
	}
}

var (
	_ portsrepo.TransactionManager          = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.SettingRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ReferenceRepository         = (*Store)(nil)
	_ portsrepo.OrderRepositoryFacade       = (*Store)(nil)
	_ portsrepo.ParcelRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransportRepositoryFacade   = (*Store)(nil)
	_ portsrepo.CostRepositoryFacade        = (*Store)(nil)
	_ portsrepo.ClientRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ProductRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ReportingRepository         = (*Store)(nil)
)

func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
