package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.StoreRepository   = (*StoreRepo)(nil)
)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct{ s *Store }

// GetByID devuelve el producto o nil.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// StoreRepo catálogo de tiendas en memoria.
type StoreRepo struct{ s *Store }

// GetByID devuelve la tienda o nil.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	c := *st
	return &c, nil
}

// ListIDsByOwner tiendas vigentes del usuario, ordenadas.
func (r *StoreRepo) ListIDsByOwner(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0)
	for _, st := range r.s.stores {
		if st.UserID == userID && st.DeletedAt == nil {
			ids = append(ids, st.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
