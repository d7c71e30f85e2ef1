package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var _ repository.StoreStockRepository = (*StoreStockRepo)(nil)

const storeStockColumns = `store_id, product_id, stock, state, created_at, updated_at, deleted_at`

// StoreStockRepo implementación de StoreStockRepository sobre PostgreSQL (usable con pool o tx).
type StoreStockRepo struct {
	q Querier
}

// NewStoreStockRepository construye el adaptador de snapshot. Pasar pool o tx (Querier).
func NewStoreStockRepository(q Querier) *StoreStockRepo {
	return &StoreStockRepo{q: q}
}

// GetForUpdate obtiene el snapshot y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StoreStockRepo) GetForUpdate(ctx context.Context, storeID, productID string) (*entity.StoreStock, error) {
	query := `SELECT ` + storeStockColumns + ` FROM store_stock WHERE store_id = $1 AND product_id = $2 FOR UPDATE`
	s, err := scanStoreStock(r.q.QueryRow(ctx, query, storeID, productID))
	if err != nil {
		return nil, fmt.Errorf("get store stock for update: %w", err)
	}
	return s, nil
}

// Insert crea el snapshot de un par nuevo.
func (r *StoreStockRepo) Insert(ctx context.Context, s *entity.StoreStock) error {
	query := `
		INSERT INTO store_stock (store_id, product_id, stock, state, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.StoreID, s.ProductID, s.Stock, string(s.State), s.CreatedAt, s.UpdatedAt, s.DeletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store stock: %w", err)
	}
	return nil
}

// Update reescribe stock, estado y fechas del snapshot.
func (r *StoreStockRepo) Update(ctx context.Context, s *entity.StoreStock) error {
	query := `
		UPDATE store_stock SET stock = $3, state = $4, updated_at = $5, deleted_at = $6
		WHERE store_id = $1 AND product_id = $2`
	tag, err := r.q.Exec(ctx, query, s.StoreID, s.ProductID, s.Stock, string(s.State), s.UpdatedAt, s.DeletedAt)
	if err != nil {
		return fmt.Errorf("update store stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountLive cuenta los snapshots vigentes que cumplen el filtro.
func (r *StoreStockRepo) CountLive(ctx context.Context, filter repository.StockFilter) (int, error) {
	w, ok := liveWhere(filter)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM store_stock`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count store stock: %w", err)
	}
	return n, nil
}

// ListLive lista snapshots vigentes por updated_at descendente.
func (r *StoreStockRepo) ListLive(ctx context.Context, filter repository.StockFilter, limit, offset int) ([]*entity.StoreStock, error) {
	w, ok := liveWhere(filter)
	if !ok {
		return []*entity.StoreStock{}, nil
	}
	query := `SELECT ` + storeStockColumns + ` FROM store_stock` + w.String() +
		` ORDER BY updated_at DESC, store_id, product_id LIMIT ` + w.next(limit) + ` OFFSET ` + w.next(offset)
	return r.list(ctx, query, w.args)
}

// ListLowStock lista snapshots vigentes con stock <= threshold, ascendente por stock.
func (r *StoreStockRepo) ListLowStock(ctx context.Context, filter repository.StockFilter, threshold int64) ([]*entity.StoreStock, error) {
	w, ok := liveWhere(filter)
	if !ok {
		return []*entity.StoreStock{}, nil
	}
	w.add("stock <= ?", threshold)
	query := `SELECT ` + storeStockColumns + ` FROM store_stock` + w.String() + ` ORDER BY stock ASC, store_id, product_id`
	return r.list(ctx, query, w.args)
}

func (r *StoreStockRepo) list(ctx context.Context, query string, args []any) ([]*entity.StoreStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list store stock: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StoreStock, 0)
	for rows.Next() {
		var s entity.StoreStock
		var state string
		if err := rows.Scan(&s.StoreID, &s.ProductID, &s.Stock, &state, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan store stock: %w", err)
		}
		s.State = entity.StockState(state)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// liveWhere arma el filtro de filas vigentes; ok=false si la restricción de tiendas está vacía.
func liveWhere(filter repository.StockFilter) (*where, bool) {
	if filter.RestrictStores && len(filter.StoreIDs) == 0 {
		return nil, false
	}
	w := &where{}
	w.add("state = ?", string(entity.StockStateLive))
	if filter.RestrictStores {
		w.add("store_id = ANY(?)", filter.StoreIDs)
	}
	if filter.ProductID != "" {
		w.add("product_id = ?", filter.ProductID)
	}
	return w, true
}

func scanStoreStock(row pgx.Row) (*entity.StoreStock, error) {
	var s entity.StoreStock
	var state string
	err := row.Scan(&s.StoreID, &s.ProductID, &s.Stock, &state, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.State = entity.StockState(state)
	return &s, nil
}
