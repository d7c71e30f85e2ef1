package inventory

import (
	"sort"

	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// Scope es el alcance de tiendas que un principal puede ver o modificar.
// El valor cero es un alcance restringido sin tiendas (no permite nada).
// Se calcula una vez por request y se pasa explícito a mutaciones y consultas.
type Scope struct {
	unscoped bool
	stores   map[string]struct{}
}

// Unscoped devuelve un alcance sin restricción de tienda (super admin).
func Unscoped() Scope {
	return Scope{unscoped: true}
}

// ScopedToStores devuelve un alcance limitado a las tiendas indicadas.
func ScopedToStores(storeIDs ...string) Scope {
	set := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return Scope{stores: set}
}

// ScopeFor aplica la regla de roles: SUPER_ADMIN sin restricción, STORE_ADMIN limitado a
// sus tiendas, cualquier otro rol denegado.
func ScopeFor(role string, ownedStores []string) (Scope, error) {
	switch role {
	case entity.RoleSuperAdmin:
		return Unscoped(), nil
	case entity.RoleStoreAdmin:
		return ScopedToStores(ownedStores...), nil
	default:
		return Scope{}, domain.ErrForbidden
	}
}

// IsUnscoped indica si el alcance no tiene restricción de tienda.
func (s Scope) IsUnscoped() bool { return s.unscoped }

// IsEmpty indica un alcance restringido que no contiene ninguna tienda.
func (s Scope) IsEmpty() bool { return !s.unscoped && len(s.stores) == 0 }

// Allows indica si la tienda está dentro del alcance.
func (s Scope) Allows(storeID string) bool {
	if s.unscoped {
		return true
	}
	_, ok := s.stores[storeID]
	return ok
}

// StoreIDs devuelve las tiendas permitidas ordenadas; restricted=false significa "todas".
func (s Scope) StoreIDs() (ids []string, restricted bool) {
	if s.unscoped {
		return nil, false
	}
	ids = make([]string, 0, len(s.stores))
	for id := range s.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, true
}

// Narrow restringe el alcance a una sola tienda pedida por el llamador.
// storeID vacío devuelve el alcance sin cambios; una tienda fuera del alcance es ErrForbidden.
func (s Scope) Narrow(storeID string) (Scope, error) {
	if storeID == "" {
		return s, nil
	}
	if !s.Allows(storeID) {
		return Scope{}, domain.ErrForbidden
	}
	return ScopedToStores(storeID), nil
}
