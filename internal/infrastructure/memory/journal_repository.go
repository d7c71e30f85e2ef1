package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var _ repository.StockJournalRepository = (*JournalRepo)(nil)

// JournalRepo diario de inventario en memoria (solo inserción).
type JournalRepo struct {
	s  *Store
	tx *state
}

// Create agrega un asiento; el id debe ser único.
func (r *JournalRepo) Create(ctx context.Context, entry *entity.StockJournal) error {
	if r.tx == nil {
		return ErrReadOnly
	}
	for _, e := range r.tx.journal {
		if e.ID == entry.ID {
			return domain.ErrDuplicate
		}
	}
	r.tx.journal = append(r.tx.journal, cloneEntry(entry))
	return nil
}

// Count cuenta los asientos que cumplen el filtro.
func (r *JournalRepo) Count(ctx context.Context, filter repository.JournalFilter) (int, error) {
	return len(r.match(filter)), nil
}

// List asientos por created_at descendente.
func (r *JournalRepo) List(ctx context.Context, filter repository.JournalFilter, limit, offset int) ([]*entity.StockJournal, error) {
	list := r.match(filter)
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return page(list, limit, offset), nil
}

// SumByPair suma las cantidades firmadas del par.
func (r *JournalRepo) SumByPair(ctx context.Context, storeID, productID string) (int64, error) {
	var sum int64
	r.s.view(r.tx, func(st *state) {
		for _, e := range st.journal {
			if e.StoreID == storeID && e.ProductID == productID {
				sum += e.Quantity
			}
		}
	})
	return sum, nil
}

// Balances agrupa diario y snapshot por par, ordenado por tienda y producto.
func (r *JournalRepo) Balances(ctx context.Context) ([]repository.LedgerBalance, error) {
	byPair := make(map[pairKey]*repository.LedgerBalance)
	get := func(k pairKey) *repository.LedgerBalance {
		b, ok := byPair[k]
		if !ok {
			b = &repository.LedgerBalance{StoreID: k.storeID, ProductID: k.productID}
			byPair[k] = b
		}
		return b
	}
	r.s.view(r.tx, func(st *state) {
		for _, e := range st.journal {
			b := get(pairKey{e.StoreID, e.ProductID})
			b.LedgerSum += e.Quantity
			b.Entries++
		}
		for k, s := range st.stocks {
			b := get(k)
			b.SnapshotQty = s.Stock
			b.HasSnapshot = true
		}
	})
	out := make([]repository.LedgerBalance, 0, len(byPair))
	for _, b := range byPair {
		out = append(out, *b)
	}
	sortBalances(out)
	return out, nil
}

func (r *JournalRepo) match(filter repository.JournalFilter) []*entity.StockJournal {
	allowed := storeSet(filter.StoreIDs)
	out := make([]*entity.StockJournal, 0)
	r.s.view(r.tx, func(st *state) {
		for _, e := range st.journal {
			if filter.RestrictStores {
				if _, ok := allowed[e.StoreID]; !ok {
					continue
				}
			}
			if filter.ProductID != "" && e.ProductID != filter.ProductID {
				continue
			}
			if filter.Action != nil && e.Action != *filter.Action {
				continue
			}
			if filter.From != nil && e.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.CreatedAt.After(*filter.To) {
				continue
			}
			out = append(out, cloneEntry(e))
		}
	})
	return out
}
