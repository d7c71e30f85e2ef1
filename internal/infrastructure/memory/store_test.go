package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/memory"
)

func liveStock(storeID, productID string, qty int64, at time.Time) *entity.StoreStock {
	return &entity.StoreStock{
		StoreID:   storeID,
		ProductID: productID,
		Stock:     qty,
		State:     entity.StockStateLive,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestRun_ConfirmaAlTerminarSinError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()

	err := s.Run(ctx, func(j repository.StockJournalRepository, st repository.StoreStockRepository) error {
		require.NoError(t, j.Create(ctx, &entity.StockJournal{ID: "e1", StoreID: "s1", ProductID: "p1", Quantity: 5, Action: entity.StockActionAdd, CreatedAt: now}))
		return st.Insert(ctx, liveStock("s1", "p1", 5, now))
	})
	require.NoError(t, err)

	got, err := s.StockRepository().GetForUpdate(ctx, "s1", "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.Stock)

	n, err := s.JournalRepository().Count(ctx, repository.JournalFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()
	boom := errors.New("boom")

	err := s.Run(ctx, func(j repository.StockJournalRepository, st repository.StoreStockRepository) error {
		require.NoError(t, j.Create(ctx, &entity.StockJournal{ID: "e1", StoreID: "s1", ProductID: "p1", Quantity: 5, Action: entity.StockActionAdd, CreatedAt: now}))
		require.NoError(t, st.Insert(ctx, liveStock("s1", "p1", 5, now)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.StockRepository().GetForUpdate(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
	n, err := s.JournalRepository().Count(ctx, repository.JournalFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStockRepo_InsertDuplicado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()

	err := s.Run(ctx, func(_ repository.StockJournalRepository, st repository.StoreStockRepository) error {
		require.NoError(t, st.Insert(ctx, liveStock("s1", "p1", 1, now)))
		return st.Insert(ctx, liveStock("s1", "p1", 2, now))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStockRepo_EscrituraFueraDeTransaccion(t *testing.T) {
	s := memory.NewStore()
	err := s.StockRepository().Insert(context.Background(), liveStock("s1", "p1", 1, time.Now()))
	assert.ErrorIs(t, err, memory.ErrReadOnly)
}

func TestStockRepo_ListadosRespetanFiltroYOrden(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Run(ctx, func(_ repository.StockJournalRepository, st repository.StoreStockRepository) error {
		require.NoError(t, st.Insert(ctx, liveStock("s1", "p1", 8, base)))
		require.NoError(t, st.Insert(ctx, liveStock("s1", "p2", 2, base.Add(time.Minute))))
		require.NoError(t, st.Insert(ctx, liveStock("s2", "p1", 50, base.Add(2*time.Minute))))
		deleted := liveStock("s1", "p3", 0, base)
		deleted.SoftDelete(base.Add(3 * time.Minute))
		return st.Insert(ctx, deleted)
	}))
	repo := s.StockRepository()

	all, err := repo.ListLive(ctx, repository.StockFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3, "la entrada eliminada no aparece")
	assert.Equal(t, "s2", all[0].StoreID)
	assert.Equal(t, "p2", all[1].ProductID)

	onlyS1 := repository.StockFilter{StoreIDs: []string{"s1"}, RestrictStores: true}
	n, err := repo.CountLive(ctx, onlyS1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	none := repository.StockFilter{RestrictStores: true}
	n, err = repo.CountLive(ctx, none)
	require.NoError(t, err)
	assert.Zero(t, n, "restricción sin tiendas no devuelve filas")

	low, err := repo.ListLowStock(ctx, repository.StockFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, int64(2), low[0].Stock)
	assert.Equal(t, int64(8), low[1].Stock)

	second, err := repo.ListLive(ctx, repository.StockFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	negative, err := repo.ListLive(ctx, repository.StockFilter{}, 10, -10)
	require.NoError(t, err)
	assert.Empty(t, negative, "offset negativo no es una página válida")
}

func TestJournalRepo_FiltrosYBalances(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sale := entity.StockActionSale

	require.NoError(t, s.Run(ctx, func(j repository.StockJournalRepository, st repository.StoreStockRepository) error {
		require.NoError(t, j.Create(ctx, &entity.StockJournal{ID: "e1", StoreID: "s1", ProductID: "p1", Quantity: 10, Action: entity.StockActionAdd, CreatedAt: base}))
		require.NoError(t, j.Create(ctx, &entity.StockJournal{ID: "e2", StoreID: "s1", ProductID: "p1", Quantity: -3, Action: entity.StockActionSale, CreatedAt: base.Add(time.Hour)}))
		require.NoError(t, j.Create(ctx, &entity.StockJournal{ID: "e3", StoreID: "s2", ProductID: "p1", Quantity: 4, Action: entity.StockActionRestock, CreatedAt: base.Add(2 * time.Hour)}))
		return st.Insert(ctx, liveStock("s1", "p1", 7, base))
	}))
	repo := s.JournalRepository()

	list, err := repo.List(ctx, repository.JournalFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "e3", list[0].ID, "más reciente primero")

	n, err := repo.Count(ctx, repository.JournalFilter{Action: &sale})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	window, err := repo.List(ctx, repository.JournalFilter{From: &from, To: &to}, 10, 0)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "e2", window[0].ID)

	sum, err := repo.SumByPair(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)

	balances, err := repo.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, repository.LedgerBalance{StoreID: "s1", ProductID: "p1", LedgerSum: 7, SnapshotQty: 7, HasSnapshot: true, Entries: 2}, balances[0])
	assert.Equal(t, repository.LedgerBalance{StoreID: "s2", ProductID: "p1", LedgerSum: 4, Entries: 1}, balances[1])
}

func TestStoreRepo_ListIDsByOwner(t *testing.T) {
	s := memory.NewStore()
	gone := time.Now()
	s.PutStore(entity.Store{ID: "s2", UserID: "u1"})
	s.PutStore(entity.Store{ID: "s1", UserID: "u1"})
	s.PutStore(entity.Store{ID: "s3", UserID: "u1", DeletedAt: &gone})
	s.PutStore(entity.Store{ID: "s4", UserID: "u2"})

	ids, err := s.StoreRepository().ListIDsByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)

	missing, err := s.ProductRepository().GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
