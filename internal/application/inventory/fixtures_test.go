package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/memory"
)

var (
	superAdmin = entity.Principal{ID: "u-super", Role: entity.RoleSuperAdmin}
	storeAdmin = entity.Principal{ID: "u-admin", Role: entity.RoleStoreAdmin}

	errInjected = errors.New("disco lleno")
)

type fixture struct {
	store   *memory.Store
	stock   *inventory.StockService
	query   *inventory.QueryService
	auditor *inventory.LedgerAuditor
	rec     *recorder
}

// newFixture arma los servicios sobre memoria con dos tiendas (s1 de u-admin, s2 de otro dueño),
// un producto vigente p1, un segundo p2 y un producto eliminado p-old.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	gone := time.Now().Add(-time.Hour)
	st.PutStore(entity.Store{ID: "s1", UserID: storeAdmin.ID, Name: "Tienda Centro"})
	st.PutStore(entity.Store{ID: "s2", UserID: "u-otro", Name: "Tienda Norte"})
	st.PutProduct(entity.Product{ID: "p1", Name: "Café 500g", Weight: decimal.RequireFromString("0.5")})
	st.PutProduct(entity.Product{ID: "p2", Name: "Panela", Weight: decimal.RequireFromString("1.25")})
	st.PutProduct(entity.Product{ID: "p-old", Name: "Descontinuado", Weight: decimal.NewFromInt(1), DeletedAt: &gone})
	return newFixtureWithRunner(t, st, st)
}

func newFixtureWithRunner(t *testing.T, st *memory.Store, runner inventory.TxRunner) *fixture {
	t.Helper()
	rec := &recorder{}
	return &fixture{
		store:   st,
		stock:   inventory.NewStockService(runner, st.ProductRepository(), st.StoreRepository(), rec, nil),
		query:   inventory.NewQueryService(st.StockRepository(), st.JournalRepository(), 0, 0),
		auditor: inventory.NewLedgerAuditor(runner, st.JournalRepository(), rec, nil),
		rec:     rec,
	}
}

func (f *fixture) create(t *testing.T, storeID, productID string, qty int64) {
	t.Helper()
	_, err := f.stock.CreateStockEntry(context.Background(), domaininv.Unscoped(), inventory.CreateStockEntryInput{
		StoreID: storeID, ProductID: productID, InitialStock: qty, Actor: superAdmin,
	})
	require.NoError(t, err)
}

func (f *fixture) journalCount(t *testing.T) int {
	t.Helper()
	n, err := f.store.JournalRepository().Count(context.Background(), repository.JournalFilter{})
	require.NoError(t, err)
	return n
}

func (f *fixture) stockOf(t *testing.T, storeID, productID string) *entity.StoreStock {
	t.Helper()
	s, err := f.store.StockRepository().GetForUpdate(context.Background(), storeID, productID)
	require.NoError(t, err)
	return s
}

// requireLedgerConsistent comprueba que el diario explica el snapshot de cada par.
func (f *fixture) requireLedgerConsistent(t *testing.T) {
	t.Helper()
	diffs, err := f.auditor.Verify(context.Background())
	require.NoError(t, err)
	require.Empty(t, diffs)
}

type observation struct {
	action  string
	outcome string
}

type recorder struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recorder) ObserveMutation(action, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{action, outcome})
}

func (r *recorder) last() observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.obs) == 0 {
		return observation{}
	}
	return r.obs[len(r.obs)-1]
}

// faultyRunner envuelve el TxRunner de memoria e inyecta fallos en los repos de la tx.
type faultyRunner struct {
	inner         inventory.TxRunner
	failJournal   bool
	failStockSave bool
}

func (r *faultyRunner) Run(ctx context.Context, fn func(
	journalRepo repository.StockJournalRepository,
	stockRepo repository.StoreStockRepository,
) error) error {
	return r.inner.Run(ctx, func(j repository.StockJournalRepository, s repository.StoreStockRepository) error {
		if r.failJournal {
			j = failingJournal{j}
		}
		if r.failStockSave {
			s = failingStock{s}
		}
		return fn(j, s)
	})
}

type failingJournal struct {
	repository.StockJournalRepository
}

func (failingJournal) Create(context.Context, *entity.StockJournal) error { return errInjected }

type failingStock struct {
	repository.StoreStockRepository
}

func (failingStock) Insert(context.Context, *entity.StoreStock) error { return errInjected }
func (failingStock) Update(context.Context, *entity.StoreStock) error { return errInjected }
