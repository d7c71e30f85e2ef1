package repository

import (
	"context"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// ProductRepository consulta de solo lectura del catálogo. Devuelve nil si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// StoreRepository consulta de solo lectura de tiendas y su dueño.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	// ListIDsByOwner devuelve las tiendas vigentes cuyo administrador es userID.
	ListIDsByOwner(ctx context.Context, userID string) ([]string, error)
}
