package repository

import (
	"context"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// StockFilter filtros para listar snapshots vigentes.
// Con RestrictStores=true solo se devuelven filas de StoreIDs (lista vacía = ninguna fila).
type StockFilter struct {
	StoreIDs       []string
	RestrictStores bool
	ProductID      string
}

// StoreStockRepository define el puerto de persistencia del snapshot de stock (tienda+producto).
// Las escrituras solo ocurren dentro del TxRunner del servicio de inventario.
type StoreStockRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, storeID, productID string) (*entity.StoreStock, error)
	// Insert crea la fila; si ya existe devuelve domain.ErrDuplicate.
	Insert(ctx context.Context, stock *entity.StoreStock) error
	Update(ctx context.Context, stock *entity.StoreStock) error

	CountLive(ctx context.Context, filter StockFilter) (int, error)
	// ListLive ordena por updated_at descendente.
	ListLive(ctx context.Context, filter StockFilter, limit, offset int) ([]*entity.StoreStock, error)
	// ListLowStock devuelve filas vigentes con stock <= threshold, ascendente por stock.
	ListLowStock(ctx context.Context, filter StockFilter, threshold int64) ([]*entity.StoreStock, error)
}
