// Package memory implementa los puertos de inventario en memoria. Se usa en desarrollo
// (STORAGE_DRIVER=memory) y en tests; las transacciones se serializan y confirman
// reemplazando el estado completo, así que un error dentro de Run no deja rastro.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// ErrReadOnly se devuelve al escribir con un repositorio obtenido fuera de Run.
var ErrReadOnly = errors.New("memory: escritura fuera de transacción")

type pairKey struct {
	storeID   string
	productID string
}

type state struct {
	stocks  map[pairKey]*entity.StoreStock
	journal []*entity.StockJournal
}

func (s *state) clone() *state {
	out := &state{
		stocks:  make(map[pairKey]*entity.StoreStock, len(s.stocks)),
		journal: make([]*entity.StockJournal, len(s.journal)),
	}
	for k, v := range s.stocks {
		out.stocks[k] = cloneStock(v)
	}
	// los asientos nunca se modifican: basta copiar el slice
	copy(out.journal, s.journal)
	return out
}

// Store guarda snapshot, diario y datos de referencia (tiendas y productos).
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	state    *state
	stores   map[string]*entity.Store
	products map[string]*entity.Product
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		state: &state{
			stocks: make(map[pairKey]*entity.StoreStock),
		},
		stores:   make(map[string]*entity.Store),
		products: make(map[string]*entity.Product),
	}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(
	journalRepo repository.StockJournalRepository,
	stockRepo repository.StoreStockRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	if err := fn(&JournalRepo{s: s, tx: working}, &StockRepo{s: s, tx: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()
	return nil
}

// StockRepository devuelve el repositorio de snapshot para lecturas fuera de transacción.
func (s *Store) StockRepository() *StockRepo { return &StockRepo{s: s} }

// JournalRepository devuelve el repositorio del diario para lecturas fuera de transacción.
func (s *Store) JournalRepository() *JournalRepo { return &JournalRepo{s: s} }

// ProductRepository devuelve el catálogo de productos.
func (s *Store) ProductRepository() *ProductRepo { return &ProductRepo{s: s} }

// StoreRepository devuelve el catálogo de tiendas.
func (s *Store) StoreRepository() *StoreRepo { return &StoreRepo{s: s} }

// PutStore registra o reemplaza una tienda.
func (s *Store) PutStore(st entity.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[st.ID] = &st
}

// PutProduct registra o reemplaza un producto.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

// view ejecuta fn sobre el estado de la transacción o, si tx es nil, sobre el confirmado.
func (s *Store) view(tx *state, fn func(*state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

func cloneStock(v *entity.StoreStock) *entity.StoreStock {
	if v == nil {
		return nil
	}
	c := *v
	if v.DeletedAt != nil {
		t := *v.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func cloneEntry(v *entity.StockJournal) *entity.StockJournal {
	c := *v
	return &c
}

func storeSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 || offset >= len(list) {
		return list[:0]
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func sortBalances(list []repository.LedgerBalance) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StoreID != list[j].StoreID {
			return list[i].StoreID < list[j].StoreID
		}
		return list[i].ProductID < list[j].ProductID
	})
}
