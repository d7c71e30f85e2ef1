package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

// corruptSnapshot escribe un stock que el diario no explica.
func corruptSnapshot(t *testing.T, f *fixture, storeID, productID string, qty int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Run(ctx, func(_ repository.StockJournalRepository, s repository.StoreStockRepository) error {
		snap, err := s.GetForUpdate(ctx, storeID, productID)
		require.NoError(t, err)
		snap.Stock = qty
		return s.Update(ctx, snap)
	}))
}

func TestLedgerAuditor_VerifyDetectaDescuadres(t *testing.T) {
	f := newFixture(t)
	f.create(t, "s1", "p1", 10)
	f.create(t, "s2", "p1", 4)
	f.requireLedgerConsistent(t)

	corruptSnapshot(t, f, "s1", "p1", 99)

	diffs, err := f.auditor.Verify(context.Background())
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, dto.LedgerDiscrepancyDTO{StoreID: "s1", ProductID: "p1", LedgerSum: 10, SnapshotQty: 99, Entries: 1}, diffs[0])
}

func TestLedgerAuditor_RebuildRecalculaDesdeElDiario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "s1", "p1", 10)
	_, err := f.stock.UpdateStock(ctx, domaininv.Unscoped(), update("s1", "p1", "SALE", 3, superAdmin))
	require.NoError(t, err)
	corruptSnapshot(t, f, "s1", "p1", 1)

	res, err := f.auditor.Rebuild(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Stock)
	assert.Equal(t, int64(7), f.stockOf(t, "s1", "p1").Stock)
	assert.Equal(t, observation{inventory.ActionRebuildEntry, inventory.OutcomeCommitted}, f.rec.last())
	f.requireLedgerConsistent(t)

	before := f.journalCount(t)
	_, err = f.auditor.Rebuild(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, before, f.journalCount(t), "reconstruir no agrega asientos")
}

func TestLedgerAuditor_RebuildErrores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "s1", "p1", 2)

	_, err := f.auditor.Rebuild(ctx, "s1", "p2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.auditor.Rebuild(ctx, "", "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.store.Run(ctx, func(j repository.StockJournalRepository, _ repository.StoreStockRepository) error {
		return j.Create(ctx, &entity.StockJournal{
			ID: "corrupto", StoreID: "s1", ProductID: "p1", Quantity: -50,
			Action: entity.StockActionSale, ActorID: "import", CreatedAt: time.Now().UTC(),
		})
	}))
	_, err = f.auditor.Rebuild(ctx, "s1", "p1")
	assert.ErrorIs(t, err, domain.ErrConflict, "suma negativa no se aplica")
	assert.Equal(t, int64(2), f.stockOf(t, "s1", "p1").Stock)

	_, err = f.stock.DeleteStockEntry(ctx, domaininv.Unscoped(), "s1", "p1", superAdmin)
	require.NoError(t, err)
	_, err = f.auditor.Rebuild(ctx, "s1", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "una entrada eliminada no se reconstruye")
}
