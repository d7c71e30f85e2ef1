package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

var _ repository.StockJournalRepository = (*StockJournalRepo)(nil)

// StockJournalRepo diario de inventario sobre PostgreSQL (solo INSERT y SELECT).
type StockJournalRepo struct {
	q Querier
}

// NewStockJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockJournalRepository(q Querier) *StockJournalRepo {
	return &StockJournalRepo{q: q}
}

// Create persiste un asiento.
func (r *StockJournalRepo) Create(ctx context.Context, e *entity.StockJournal) error {
	query := `
		INSERT INTO stock_journal (id, store_id, product_id, quantity, weight, action, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.StoreID, e.ProductID, e.Quantity, e.Weight, string(e.Action), e.ActorID, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock journal: %w", err)
	}
	return nil
}

// Count cuenta los asientos que cumplen el filtro.
func (r *StockJournalRepo) Count(ctx context.Context, filter repository.JournalFilter) (int, error) {
	w, ok := journalWhere(filter)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_journal`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock journal: %w", err)
	}
	return n, nil
}

// List asientos por created_at descendente.
func (r *StockJournalRepo) List(ctx context.Context, filter repository.JournalFilter, limit, offset int) ([]*entity.StockJournal, error) {
	w, ok := journalWhere(filter)
	if !ok {
		return []*entity.StockJournal{}, nil
	}
	query := `
		SELECT id, store_id, product_id, quantity, weight, action, actor_id, created_at
		FROM stock_journal` + w.String() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.next(limit) + ` OFFSET ` + w.next(offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock journal: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockJournal, 0)
	for rows.Next() {
		var e entity.StockJournal
		var action string
		if err := rows.Scan(&e.ID, &e.StoreID, &e.ProductID, &e.Quantity, &e.Weight, &action, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock journal: %w", err)
		}
		e.Action = entity.StockAction(action)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumByPair suma las cantidades firmadas de un par (0 si no hay asientos).
func (r *StockJournalRepo) SumByPair(ctx context.Context, storeID, productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock_journal WHERE store_id = $1 AND product_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, storeID, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock journal: %w", err)
	}
	return sum, nil
}

// Balances cruza la suma del diario con el snapshot de cada par (FULL OUTER JOIN).
func (r *StockJournalRepo) Balances(ctx context.Context) ([]repository.LedgerBalance, error) {
	query := `
		WITH ledger AS (
			SELECT store_id, product_id, SUM(quantity)::bigint AS total, COUNT(*) AS entries
			FROM stock_journal
			GROUP BY store_id, product_id
		)
		SELECT
			COALESCE(l.store_id, s.store_id),
			COALESCE(l.product_id, s.product_id),
			COALESCE(l.total, 0),
			COALESCE(s.stock, 0),
			s.store_id IS NOT NULL,
			COALESCE(l.entries, 0)
		FROM ledger l
		FULL OUTER JOIN store_stock s ON s.store_id = l.store_id AND s.product_id = l.product_id
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger balances: %w", err)
	}
	defer rows.Close()
	list := make([]repository.LedgerBalance, 0)
	for rows.Next() {
		var b repository.LedgerBalance
		if err := rows.Scan(&b.StoreID, &b.ProductID, &b.LedgerSum, &b.SnapshotQty, &b.HasSnapshot, &b.Entries); err != nil {
			return nil, fmt.Errorf("scan ledger balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func journalWhere(filter repository.JournalFilter) (*where, bool) {
	if filter.RestrictStores && len(filter.StoreIDs) == 0 {
		return nil, false
	}
	w := &where{}
	if filter.RestrictStores {
		w.add("store_id = ANY(?)", filter.StoreIDs)
	}
	if filter.ProductID != "" {
		w.add("product_id = ?", filter.ProductID)
	}
	if filter.Action != nil {
		w.add("action = ?", string(*filter.Action))
	}
	if filter.From != nil {
		w.add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("created_at <= ?", *filter.To)
	}
	return w, true
}
