package inventory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

// ScopeResolver calcula el alcance de tiendas de un principal una vez por request.
// Las tiendas de cada STORE_ADMIN se cachean con TTL corto.
type ScopeResolver struct {
	stores repository.StoreRepository
	cache  *gocache.Cache
}

// NewScopeResolver construye el resolver; ttl <= 0 desactiva la cache.
func NewScopeResolver(stores repository.StoreRepository, ttl time.Duration) *ScopeResolver {
	r := &ScopeResolver{stores: stores}
	if ttl > 0 {
		r.cache = gocache.New(ttl, 2*ttl)
	}
	return r
}

// Resolve devuelve el alcance del principal: sin principal ErrUnauthorized, rol sin acceso
// a inventario ErrForbidden.
func (r *ScopeResolver) Resolve(ctx context.Context, p *entity.Principal) (inventory.Scope, error) {
	if p == nil || p.ID == "" {
		return inventory.Scope{}, domain.ErrUnauthorized
	}
	if p.Role != entity.RoleStoreAdmin {
		return inventory.ScopeFor(p.Role, nil)
	}
	owned, err := r.ownedStores(ctx, p.ID)
	if err != nil {
		return inventory.Scope{}, asStorageFailure(err)
	}
	return inventory.ScopeFor(p.Role, owned)
}

func (r *ScopeResolver) ownedStores(ctx context.Context, userID string) ([]string, error) {
	if r.cache != nil {
		if v, ok := r.cache.Get(userID); ok {
			if ids, ok := v.([]string); ok {
				return ids, nil
			}
		}
	}
	ids, err := r.stores.ListIDsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.SetDefault(userID, ids)
	}
	return ids, nil
}
