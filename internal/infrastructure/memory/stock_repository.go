package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var _ repository.StoreStockRepository = (*StockRepo)(nil)

// StockRepo snapshot de stock en memoria. Con tx nil solo admite lecturas.
type StockRepo struct {
	s  *Store
	tx *state
}

// GetForUpdate devuelve la fila del par o nil si no existe. No bloquea: Run ya serializa
// las transacciones, y fuera de una es una lectura simple.
func (r *StockRepo) GetForUpdate(ctx context.Context, storeID, productID string) (*entity.StoreStock, error) {
	var out *entity.StoreStock
	r.s.view(r.tx, func(st *state) {
		out = cloneStock(st.stocks[pairKey{storeID, productID}])
	})
	return out, nil
}

// Insert crea la fila; domain.ErrDuplicate si el par ya existe.
func (r *StockRepo) Insert(ctx context.Context, stock *entity.StoreStock) error {
	if r.tx == nil {
		return ErrReadOnly
	}
	k := pairKey{stock.StoreID, stock.ProductID}
	if _, ok := r.tx.stocks[k]; ok {
		return domain.ErrDuplicate
	}
	r.tx.stocks[k] = cloneStock(stock)
	return nil
}

// Update reemplaza la fila existente.
func (r *StockRepo) Update(ctx context.Context, stock *entity.StoreStock) error {
	if r.tx == nil {
		return ErrReadOnly
	}
	k := pairKey{stock.StoreID, stock.ProductID}
	if _, ok := r.tx.stocks[k]; !ok {
		return domain.ErrNotFound
	}
	r.tx.stocks[k] = cloneStock(stock)
	return nil
}

// CountLive cuenta las filas vigentes que cumplen el filtro.
func (r *StockRepo) CountLive(ctx context.Context, filter repository.StockFilter) (int, error) {
	return len(r.live(filter)), nil
}

// ListLive lista filas vigentes por updated_at descendente.
func (r *StockRepo) ListLive(ctx context.Context, filter repository.StockFilter, limit, offset int) ([]*entity.StoreStock, error) {
	list := r.live(filter)
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return lessPair(list[i], list[j])
	})
	return page(list, limit, offset), nil
}

// ListLowStock filas vigentes con stock <= threshold, ascendente por stock.
func (r *StockRepo) ListLowStock(ctx context.Context, filter repository.StockFilter, threshold int64) ([]*entity.StoreStock, error) {
	all := r.live(filter)
	list := all[:0]
	for _, s := range all {
		if s.Stock <= threshold {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Stock != list[j].Stock {
			return list[i].Stock < list[j].Stock
		}
		return lessPair(list[i], list[j])
	})
	return list, nil
}

func (r *StockRepo) live(filter repository.StockFilter) []*entity.StoreStock {
	allowed := storeSet(filter.StoreIDs)
	out := make([]*entity.StoreStock, 0)
	r.s.view(r.tx, func(st *state) {
		for _, s := range st.stocks {
			if !s.IsLive() {
				continue
			}
			if filter.RestrictStores {
				if _, ok := allowed[s.StoreID]; !ok {
					continue
				}
			}
			if filter.ProductID != "" && s.ProductID != filter.ProductID {
				continue
			}
			out = append(out, cloneStock(s))
		}
	})
	return out
}

func lessPair(a, b *entity.StoreStock) bool {
	if a.StoreID != b.StoreID {
		return a.StoreID < b.StoreID
	}
	return a.ProductID < b.ProductID
}
