package repository

import (
	"context"
	"time"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// JournalFilter filtros del historial; todos se combinan con AND.
type JournalFilter struct {
	StoreIDs       []string
	RestrictStores bool
	ProductID      string
	Action         *entity.StockAction
	From           *time.Time
	To             *time.Time
}

// LedgerBalance compara la suma del diario con el snapshot de un par tienda+producto.
type LedgerBalance struct {
	StoreID     string
	ProductID   string
	LedgerSum   int64
	SnapshotQty int64
	HasSnapshot bool
	Entries     int
}

// StockJournalRepository define el puerto del diario de inventario (solo inserción).
type StockJournalRepository interface {
	Create(ctx context.Context, entry *entity.StockJournal) error
	Count(ctx context.Context, filter JournalFilter) (int, error)
	// List ordena por created_at descendente.
	List(ctx context.Context, filter JournalFilter, limit, offset int) ([]*entity.StockJournal, error)
	// SumByPair suma las cantidades firmadas de un par tienda+producto.
	SumByPair(ctx context.Context, storeID, productID string) (int64, error)
	// Balances devuelve, por cada par con diario o snapshot, la suma del diario y el stock actual.
	Balances(ctx context.Context) ([]LedgerBalance, error)
}
